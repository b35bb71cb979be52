package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/egralens/internal/interpret"
	"github.com/dotcommander/egralens/internal/messages"
	"github.com/dotcommander/egralens/internal/scoring"
	"github.com/dotcommander/egralens/internal/summary"
	"github.com/dotcommander/egralens/internal/types"
)

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	w         io.Writer
	quiet     bool
	verbose   bool
	colorize  bool
	lang      messages.Language
	startTime time.Time
	styles    styles
}

// NewConsoleFormatter creates a new ConsoleFormatter
func NewConsoleFormatter(w io.Writer, quiet, verbose, colorize bool, lang messages.Language) *ConsoleFormatter {
	return &ConsoleFormatter{
		w:         w,
		quiet:     quiet,
		verbose:   verbose,
		colorize:  colorize,
		lang:      lang,
		startTime: time.Now(),
		styles:    newStyles(),
	}
}

// FormatInterpretations prints one block per assessment followed by a
// one-line tally.
func (f *ConsoleFormatter) FormatInterpretations(report *InterpretationReport) error {
	if f.quiet {
		return nil
	}
	if len(report.Results) == 0 {
		fmt.Fprintln(f.w, render(f.styles.dim, f.colorize, "No assessments to interpret"))
		return nil
	}

	for i, res := range report.Results {
		if i > 0 {
			fmt.Fprintln(f.w)
		}
		if err := f.printResult(res); err != nil {
			return err
		}
	}

	duration := report.duration()
	if duration == 0 {
		duration = time.Since(f.startTime).Round(time.Millisecond)
	}
	fmt.Fprintf(f.w, "\n%d interpreted, %d with narrative (%v)\n",
		len(report.Results), report.Generated(), duration)
	return nil
}

func (f *ConsoleFormatter) printResult(res Result) error {
	a := res.Assessment
	if res.Interpretation == nil || res.Interpretation.RuleBased == nil {
		return fmt.Errorf("no interpretation for %s on %s", a.Student.ID, a.Date)
	}
	rb := res.Interpretation.RuleBased

	fmt.Fprintf(f.w, "%s %s\n",
		render(f.styles.header, f.colorize, "▸ "+a.Student.Name),
		render(f.styles.dim, f.colorize, fmt.Sprintf("%s · %s", a.Student.Grade, a.Date)))
	if f.verbose {
		fmt.Fprintf(f.w, "  %s\n", render(f.styles.dim, f.colorize,
			fmt.Sprintf("id %s, age %d, gender %s", a.Student.ID, a.Student.Age, a.Student.Gender)))
		if res.Source != "" {
			fmt.Fprintf(f.w, "  %s\n", render(f.styles.dim, f.colorize, res.Source))
		}
	}

	domains := []struct {
		domain  types.Domain
		level   scoring.Level
		summary string
	}{
		{types.DomainReading, rb.ReadingLevel, rb.Summary.Reading},
		{types.DomainMathematics, rb.MathematicsLevel, rb.Summary.Mathematics},
	}
	for _, d := range domains {
		fmt.Fprintf(f.w, "  %s %s\n",
			render(f.styles.bold, f.colorize, messages.DomainLabel(d.domain, f.lang)),
			levelBadge(d.level, f.lang, f.colorize))
		if err := f.printSkills(a, rb, d.domain); err != nil {
			return err
		}
		fmt.Fprintf(f.w, "    %s\n", d.summary)
	}

	if res.Interpretation.HasGenerated() {
		fmt.Fprintf(f.w, "  %s\n", render(f.styles.bold, f.colorize, "Narrative"))
		for _, line := range strings.Split(strings.TrimSpace(*res.Interpretation.Generated), "\n") {
			fmt.Fprintf(f.w, "    %s\n", line)
		}
	}
	return nil
}

func (f *ConsoleFormatter) printSkills(a types.AssessmentData, rb *interpret.RuleBasedInterpretation, d types.Domain) error {
	keys := types.DomainKeys(d)
	width := 0
	for _, k := range keys {
		if n := len([]rune(messages.MetricLabel(k, f.lang))); n > width {
			width = n
		}
	}
	for _, k := range keys {
		sl, err := rb.Skill(k)
		if err != nil {
			return err
		}
		v, err := a.Value(k)
		if err != nil {
			return err
		}
		icon := render(LevelStyle(sl.Level), f.colorize, levelIcon(sl.Level))
		fmt.Fprintf(f.w, "    %s %-*s %6s  %s\n", icon, width, messages.MetricLabel(k, f.lang),
			messages.FormatMetricValue(k, v), sl.Message)
	}
	return nil
}

const boxWidth = 61

// FormatSummary prints the class summary as a boxed report.
func (f *ConsoleFormatter) FormatSummary(r *summary.Report) error {
	if f.quiet {
		return nil
	}

	title := "CLASS SUMMARY"
	if r.Grade != "" {
		title += " · " + r.Grade
	}
	fmt.Fprintln(f.w)
	fmt.Fprintln(f.w, render(f.styles.header, f.colorize, "╔"+strings.Repeat("═", boxWidth-2)+"╗"))
	f.boxLine(centered(title, boxWidth-4))
	f.separator("╠", "═", "╣")

	if r.Empty() {
		f.boxLine(render(f.styles.dim, f.colorize, "No assessments"))
		f.footer()
		return nil
	}

	f.boxLine(fmt.Sprintf("Students: %-6d │ Assessments: %-6d", r.Students, r.Assessments))
	f.boxLine(fmt.Sprintf("Average EGRA: %-3d   │ Average EGMA: %-3d", r.EGRA, r.EGMA))

	f.separator("╠", "─", "╣")
	f.boxLine("GRADES")
	for _, g := range r.Grades {
		f.boxLine(fmt.Sprintf("  %-10s %3d students  EGRA %3d  EGMA %3d", truncate(g.Grade, 10), g.Students, g.EGRA, g.EGMA))
	}

	f.distribution(types.DomainReading, r.Reading)
	f.distribution(types.DomainMathematics, r.Mathematics)

	if f.verbose {
		f.separator("╠", "─", "╣")
		f.boxLine("SKILLS")
		for _, s := range r.Skills {
			f.boxLine(fmt.Sprintf("  %-28s %s %s %s",
				truncate(messages.MetricLabel(s.Metric, f.lang), 28),
				render(LevelStyle(scoring.Mastery), f.colorize, fmt.Sprintf("%3d", s.Levels.Mastery)),
				render(LevelStyle(scoring.Developing), f.colorize, fmt.Sprintf("%3d", s.Levels.Developing)),
				render(LevelStyle(scoring.Emerging), f.colorize, fmt.Sprintf("%3d", s.Levels.Emerging))))
		}
	}

	f.footer()
	return nil
}

func (f *ConsoleFormatter) distribution(d types.Domain, c scoring.LevelCounts) {
	f.separator("╠", "─", "╣")
	f.boxLine(strings.ToUpper(messages.DomainLabel(d, f.lang)))
	total := c.Total()
	for _, level := range scoring.Levels() {
		n := levelCount(c, level)
		pct := 0.0
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		label := fmt.Sprintf("%-18s", messages.LevelLabel(level, f.lang))
		f.boxLine(fmt.Sprintf("  %s %4d (%5.1f%%)  %s",
			render(LevelStyle(level), f.colorize, label), n, pct, renderBar(n, total, level, f.colorize)))
	}
}

func (f *ConsoleFormatter) separator(left, fill, right string) {
	fmt.Fprintln(f.w, render(f.styles.header, f.colorize, left+strings.Repeat(fill, boxWidth-2)+right))
}

func (f *ConsoleFormatter) footer() {
	fmt.Fprintln(f.w, render(f.styles.header, f.colorize, "╚"+strings.Repeat("═", boxWidth-2)+"╝"))
	fmt.Fprintln(f.w)
}

// boxLine pads content to the inner width. lipgloss.Width ignores ANSI
// sequences so styled content stays aligned.
func (f *ConsoleFormatter) boxLine(content string) {
	pad := boxWidth - 4 - lipgloss.Width(content)
	if pad < 0 {
		pad = 0
	}
	border := render(f.styles.header, f.colorize, "║")
	fmt.Fprintf(f.w, "%s %s%s %s\n", border, content, strings.Repeat(" ", pad), border)
}

func levelCount(c scoring.LevelCounts, level scoring.Level) int {
	switch level {
	case scoring.Mastery:
		return c.Mastery
	case scoring.Developing:
		return c.Developing
	case scoring.Emerging:
		return c.Emerging
	default:
		return 0
	}
}

const barWidth = 10

func renderBar(count, total int, level scoring.Level, colorize bool) string {
	if total == 0 {
		return ""
	}
	filled := (count * barWidth) / total
	if count > 0 && filled == 0 {
		filled = 1
	}
	full := strings.Repeat("█", filled)
	empty := strings.Repeat("░", barWidth-filled)
	if !colorize {
		return full + empty
	}
	return LevelStyle(level).Render(full) + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(empty)
}

func centered(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return strings.Repeat(" ", (width-n)/2) + s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
