package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dotcommander/egralens/internal/messages"
	"github.com/dotcommander/egralens/internal/scoring"
	"github.com/dotcommander/egralens/internal/summary"
	"github.com/dotcommander/egralens/internal/types"
)

// CompactFormatter formats output in a compact, one-line-per-assessment style.
type CompactFormatter struct {
	w         io.Writer
	quiet     bool
	colorize  bool
	lang      messages.Language
	startTime time.Time
	styles    styles
}

// NewCompactFormatter creates a new CompactFormatter.
func NewCompactFormatter(w io.Writer, quiet, colorize bool, lang messages.Language) *CompactFormatter {
	return &CompactFormatter{
		w:         w,
		quiet:     quiet,
		colorize:  colorize,
		lang:      lang,
		startTime: time.Now(),
		styles:    newStyles(),
	}
}

// FormatInterpretations prints a table row per assessment: the nine skill
// icons followed by the two overall levels.
func (f *CompactFormatter) FormatInterpretations(report *InterpretationReport) error {
	if f.quiet {
		return nil
	}

	maxNameLen, maxGradeLen := f.calculateColumnWidths(report.Results)

	fmt.Fprintln(f.w)
	for _, res := range report.Results {
		if res.Interpretation == nil || res.Interpretation.RuleBased == nil {
			return fmt.Errorf("no interpretation for %s on %s", res.Assessment.Student.ID, res.Assessment.Date)
		}
		rb := res.Interpretation.RuleBased
		a := res.Assessment

		var icons strings.Builder
		for i, k := range types.MetricKeys() {
			if i == len(types.DomainKeys(types.DomainReading)) {
				icons.WriteString(" ")
			}
			sl, err := rb.Skill(k)
			if err != nil {
				return err
			}
			icons.WriteString(render(LevelStyle(sl.Level), f.colorize, levelIcon(sl.Level)))
		}

		narrative := ""
		if res.Interpretation.HasGenerated() {
			narrative = render(f.styles.dim, f.colorize, " ✎")
		}

		fmt.Fprintf(f.w, "  %-*s  %-*s  %s  %s  %s  %s%s\n",
			maxNameLen, a.Student.Name,
			maxGradeLen, a.Student.Grade,
			render(f.styles.dim, f.colorize, a.Date),
			icons.String(),
			f.level(rb.ReadingLevel),
			f.level(rb.MathematicsLevel),
			narrative)
	}

	f.printSummaryLine(report)
	return nil
}

func (f *CompactFormatter) level(l scoring.Level) string {
	return render(LevelStyle(l), f.colorize, fmt.Sprintf("%-16s", messages.LevelLabel(l, f.lang)))
}

// calculateColumnWidths computes the name and grade column widths.
func (f *CompactFormatter) calculateColumnWidths(results []Result) (maxNameLen, maxGradeLen int) {
	for _, res := range results {
		if n := len([]rune(res.Assessment.Student.Name)); n > maxNameLen {
			maxNameLen = n
		}
		if n := len([]rune(res.Assessment.Student.Grade)); n > maxGradeLen {
			maxGradeLen = n
		}
	}
	return maxNameLen, maxGradeLen
}

func (f *CompactFormatter) printSummaryLine(report *InterpretationReport) {
	var reading, maths scoring.LevelCounts
	for _, res := range report.Results {
		reading.Add(res.Interpretation.RuleBased.ReadingLevel)
		maths.Add(res.Interpretation.RuleBased.MathematicsLevel)
	}

	duration := report.duration()
	if duration == 0 {
		duration = time.Since(f.startTime).Round(time.Millisecond)
	}

	fmt.Fprintln(f.w)
	if len(report.Results) == 0 {
		fmt.Fprintln(f.w, render(f.styles.dim, f.colorize, "No assessments to interpret"))
		return
	}
	fmt.Fprintf(f.w, "%d assessments: reading %s, mathematics %s (%v)\n",
		len(report.Results), f.counts(reading), f.counts(maths), duration)
}

func (f *CompactFormatter) counts(c scoring.LevelCounts) string {
	return fmt.Sprintf("%s/%s/%s",
		render(LevelStyle(scoring.Mastery), f.colorize, fmt.Sprint(c.Mastery)),
		render(LevelStyle(scoring.Developing), f.colorize, fmt.Sprint(c.Developing)),
		render(LevelStyle(scoring.Emerging), f.colorize, fmt.Sprint(c.Emerging)))
}

// FormatSummary prints one line per grade.
func (f *CompactFormatter) FormatSummary(r *summary.Report) error {
	if f.quiet {
		return nil
	}
	if r.Empty() {
		fmt.Fprintln(f.w, render(f.styles.dim, f.colorize, "No assessments"))
		return nil
	}
	for _, g := range r.Grades {
		fmt.Fprintf(f.w, "  %-10s %3d students  EGRA %3d  EGMA %3d  reading %s  mathematics %s\n",
			g.Grade, g.Students, g.EGRA, g.EGMA, f.counts(g.Reading), f.counts(g.Mathematics))
	}
	fmt.Fprintf(f.w, "\n%d students, %d assessments, EGRA %d, EGMA %d\n",
		r.Students, r.Assessments, r.EGRA, r.EGMA)
	return nil
}
