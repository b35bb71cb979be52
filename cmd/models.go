package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotcommander/egralens/internal/generation"
)

var modelsCheck bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List supported models and the backend status",
	Long: `Models lists the models known to work with the local backends and reports
the status of the configured generation backend.

With --check the backend is exercised first: the stub loads its model and the
HTTP backend is pinged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runModels(cmd.Context())
	},
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsCheck, "check", false, "Load or ping the backend before reporting its status")
	rootCmd.AddCommand(modelsCmd)
}

type modelsReport struct {
	Backend string             `json:"backend"`
	Model   string             `json:"model,omitempty"`
	Status  string             `json:"status"`
	Models  []generation.Model `json:"models"`
}

// pinger is implemented by remote backends.
type pinger interface {
	Ping(ctx context.Context) error
}

func runModels(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	gwCfg := a.cfg.Generator.Gateway()
	gw, err := generation.New(gwCfg, a.logger.Named("generation"))
	if err != nil {
		return err
	}

	if modelsCheck {
		checkCtx := ctx
		if gwCfg.Timeout > 0 {
			var cancel context.CancelFunc
			checkCtx, cancel = context.WithTimeout(ctx, gwCfg.Timeout)
			defer cancel()
		}
		switch b := gw.(type) {
		case loader:
			err = b.Load(checkCtx, gwCfg.Model)
		case pinger:
			err = b.Ping(checkCtx)
		}
		if err != nil {
			a.logger.Warn("backend check failed", zap.Error(err))
		}
	}

	report := modelsReport{
		Backend: gwCfg.Backend,
		Model:   gwCfg.Model,
		Status:  gw.Status().String(),
		Models:  generation.SupportedModels(),
	}

	if a.cfg.Format == "json" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling JSON: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	bold := lipgloss.NewStyle().Bold(true)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	if gw.Status().Ready() {
		statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	}

	fmt.Fprintf(stdout, "%s %s", bold.Render("Backend:"), report.Backend)
	if report.Model != "" {
		fmt.Fprintf(stdout, " (%s)", report.Model)
	}
	fmt.Fprintf(stdout, "\n%s %s\n\n", bold.Render("Status:"), statusStyle.Render(report.Status))
	fmt.Fprintln(stdout, bold.Render("Supported models:"))
	for _, m := range report.Models {
		marker := " "
		if m.ID == report.Model {
			marker = "*"
		}
		fmt.Fprintf(stdout, " %s %-28s %-14s %s\n", marker, m.ID, m.Language, dim.Render(m.Description))
	}
	return nil
}
