package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dotcommander/egralens/internal/generation"
	"github.com/dotcommander/egralens/internal/interpret"
	"github.com/dotcommander/egralens/internal/output"
	"github.com/dotcommander/egralens/internal/store"
	"github.com/dotcommander/egralens/internal/telemetry"
	"github.com/dotcommander/egralens/internal/types"
)

var (
	studentFilter string
	gradeFilter   string
	dateFilter    string
	noGenerate    bool
)

var interpretCmd = &cobra.Command{
	Use:   "interpret [paths...]",
	Short: "Interpret assessments",
	Long: `Interpret imports CSV, YAML or JSON datasets and interprets every assessment.

Without arguments, dataset files are discovered under --root. Each
assessment gets a rule-based interpretation and, when the generation backend
is available, a generated narrative.`,
	Example: `  egralens interpret data/ce1.csv
  egralens interpret --grade CE1 --no-generate
  egralens interpret -f json -o report.json data/`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInterpret(cmd.Context(), args)
	},
}

func init() {
	interpretCmd.Flags().StringVar(&studentFilter, "student", "", "Only interpret this student ID")
	interpretCmd.Flags().StringVar(&gradeFilter, "grade", "", "Only interpret this grade")
	interpretCmd.Flags().StringVar(&dateFilter, "date", "", "Only interpret assessments of this date (YYYY-MM-DD)")
	interpretCmd.Flags().BoolVar(&noGenerate, "no-generate", false, "Skip narrative generation")
	rootCmd.AddCommand(interpretCmd)
}

// loader is implemented by backends that load a model before generating.
type loader interface {
	Load(ctx context.Context, modelID string) error
}

func runInterpret(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	st, sources, err := a.loadStore(args)
	if err != nil {
		return err
	}
	assessments := selectAssessments(st, studentFilter, gradeFilter, dateFilter)

	gwCfg := a.cfg.Generator.Gateway()
	if noGenerate {
		gwCfg.Backend = generation.BackendNone
	}
	gw, err := generation.New(gwCfg, a.logger.Named("generation"))
	if err != nil {
		return err
	}
	if l, ok := gw.(loader); ok && len(assessments) > 0 {
		if err := l.Load(ctx, gwCfg.Model); err != nil {
			a.logger.Warn("model load failed, continuing without narratives", zap.Error(err))
		}
	}

	recorder := telemetry.NewRecorder()
	orch := interpret.NewOrchestrator(gw,
		interpret.WithThresholds(a.thresholds),
		interpret.WithLogger(a.logger.Named("interpret")),
		interpret.WithRecorder(recorder))

	results, err := interpretAll(ctx, orch, assessments, a.cfg.Concurrency, a.cfg.Generator.Timeout)
	if err != nil {
		return err
	}
	for i := range results {
		results[i].Source = sources[results[i].Assessment.Key()]
	}

	if a.cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(a.cfg.MetricsFile); err != nil {
			return err
		}
	}

	report := &output.InterpretationReport{
		Results:   results,
		StartTime: start,
		Root:      a.cfg.Root,
		Backend:   gwCfg.Backend,
	}
	if err := a.outputter().Interpretations(report); err != nil {
		return fmt.Errorf("error formatting output: %w", err)
	}
	return nil
}

// selectAssessments applies the command-line filters. A student filter
// returns that student's history ordered by date.
func selectAssessments(st *store.Store, student, grade, date string) []types.AssessmentData {
	var candidates []types.AssessmentData
	switch {
	case student != "":
		candidates = st.ForStudent(student)
	case grade != "":
		candidates = st.ByGrade(grade)
	default:
		candidates = st.Assessments()
	}

	out := candidates[:0:0]
	for _, a := range candidates {
		if grade != "" && a.Student.Grade != grade {
			continue
		}
		if date != "" && a.Date != date {
			continue
		}
		out = append(out, a)
	}
	return out
}

// interpretAll runs the orchestrator over assessments with at most limit
// calls in flight. Each call gets its own timeout. Results keep the input
// order.
func interpretAll(ctx context.Context, orch *interpret.Orchestrator, assessments []types.AssessmentData, limit int, timeout time.Duration) ([]output.Result, error) {
	results := make([]output.Result, len(assessments))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, as := range assessments {
		i, as := i, as
		g.Go(func() error {
			callCtx, cancel := gctx, context.CancelFunc(func() {})
			if timeout > 0 {
				callCtx, cancel = context.WithTimeout(gctx, timeout)
			}
			defer cancel()

			full, err := orch.FullInterpretation(callCtx, as)
			if err != nil {
				return fmt.Errorf("interpreting %s on %s: %w", as.Student.ID, as.Date, err)
			}
			results[i] = output.Result{Assessment: as, Interpretation: full}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
