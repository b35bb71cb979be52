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

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	w       io.Writer
	verbose bool
	lang    messages.Language
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(w io.Writer, verbose bool, lang messages.Language) *MarkdownFormatter {
	return &MarkdownFormatter{
		w:       w,
		verbose: verbose,
		lang:    lang,
	}
}

// FormatInterpretations writes one section per assessment.
func (f *MarkdownFormatter) FormatInterpretations(report *InterpretationReport) error {
	var builder strings.Builder

	builder.WriteString("# EGRA/EGMA Interpretation Report\n\n")
	builder.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))
	if report.Root != "" {
		builder.WriteString(fmt.Sprintf("**Dataset:** %s\n\n", report.Root))
	}
	builder.WriteString(strings.Repeat("-", 50) + "\n\n")

	builder.WriteString("## Summary\n\n")
	builder.WriteString("| Metric | Count |\n")
	builder.WriteString("|--------|-------|\n")
	builder.WriteString(fmt.Sprintf("| Assessments | %d |\n", len(report.Results)))
	builder.WriteString(fmt.Sprintf("| With narrative | %d |\n", report.Generated()))
	if report.Backend != "" {
		builder.WriteString(fmt.Sprintf("| Backend | `%s` |\n", report.Backend))
	}
	builder.WriteString("\n")

	if len(report.Results) == 0 {
		builder.WriteString("*No assessments to interpret.*\n")
		return f.write(builder.String())
	}

	if len(report.Results) > 1 {
		builder.WriteString("### Students\n\n")
		for _, res := range report.Results {
			title := resultTitle(res)
			builder.WriteString(fmt.Sprintf("- [%s](#%s)\n", title, createAnchor(title)))
		}
		builder.WriteString("\n")
	}

	for _, res := range report.Results {
		if err := f.writeResult(&builder, res); err != nil {
			return err
		}
	}
	return f.write(builder.String())
}

func resultTitle(res Result) string {
	return fmt.Sprintf("%s %s %s", res.Assessment.Student.Name, res.Assessment.Student.Grade, res.Assessment.Date)
}

func (f *MarkdownFormatter) writeResult(builder *strings.Builder, res Result) error {
	a := res.Assessment
	if res.Interpretation == nil || res.Interpretation.RuleBased == nil {
		return fmt.Errorf("no interpretation for %s on %s", a.Student.ID, a.Date)
	}
	rb := res.Interpretation.RuleBased

	builder.WriteString(fmt.Sprintf("## %s\n\n", resultTitle(res)))
	if f.verbose {
		builder.WriteString(fmt.Sprintf("ID: `%s` · Age: %d · Gender: %s\n\n", a.Student.ID, a.Student.Age, a.Student.Gender))
		if res.Source != "" {
			builder.WriteString(fmt.Sprintf("Source: `%s`\n\n", res.Source))
		}
	}

	for _, d := range []struct {
		domain  types.Domain
		level   scoring.Level
		summary string
	}{
		{types.DomainReading, rb.ReadingLevel, rb.Summary.Reading},
		{types.DomainMathematics, rb.MathematicsLevel, rb.Summary.Mathematics},
	} {
		builder.WriteString(fmt.Sprintf("### %s: %s %s\n\n", messages.DomainLabel(d.domain, f.lang),
			getLevelEmoji(d.level), messages.LevelLabel(d.level, f.lang)))
		builder.WriteString("| Skill | Score | Level | Observation |\n")
		builder.WriteString("|-------|-------|-------|-------------|\n")
		for _, k := range types.DomainKeys(d.domain) {
			sl, err := rb.Skill(k)
			if err != nil {
				return err
			}
			v, err := a.Value(k)
			if err != nil {
				return err
			}
			builder.WriteString(fmt.Sprintf("| %s | %s | %s %s | %s |\n",
				messages.MetricLabel(k, f.lang), messages.FormatMetricValue(k, v),
				getLevelEmoji(sl.Level), messages.LevelLabel(sl.Level, f.lang), escapeCell(sl.Message)))
		}
		builder.WriteString("\n")
		builder.WriteString(d.summary + "\n\n")
	}

	if res.Interpretation.HasGenerated() {
		builder.WriteString("### Narrative\n\n")
		for _, line := range strings.Split(strings.TrimSpace(*res.Interpretation.Generated), "\n") {
			builder.WriteString("> " + line + "\n")
		}
		builder.WriteString("\n")
	}
	builder.WriteString("---\n\n")
	return nil
}

// FormatSummary writes the class summary tables.
func (f *MarkdownFormatter) FormatSummary(r *summary.Report) error {
	var builder strings.Builder

	title := "# Class Summary"
	if r.Grade != "" {
		title += ": " + r.Grade
	}
	builder.WriteString(title + "\n\n")
	builder.WriteString(fmt.Sprintf("**Generated:** %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	if r.Empty() {
		builder.WriteString("*No assessments.*\n")
		return f.write(builder.String())
	}

	builder.WriteString("| Metric | Value |\n")
	builder.WriteString("|--------|-------|\n")
	builder.WriteString(fmt.Sprintf("| Students | %d |\n", r.Students))
	builder.WriteString(fmt.Sprintf("| Assessments | %d |\n", r.Assessments))
	builder.WriteString(fmt.Sprintf("| Average EGRA | %d |\n", r.EGRA))
	builder.WriteString(fmt.Sprintf("| Average EGMA | %d |\n", r.EGMA))
	builder.WriteString("\n")

	builder.WriteString("## Grades\n\n")
	builder.WriteString("| Grade | Students | Assessments | EGRA | EGMA |\n")
	builder.WriteString("|-------|----------|-------------|------|------|\n")
	for _, g := range r.Grades {
		builder.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %d |\n", g.Grade, g.Students, g.Assessments, g.EGRA, g.EGMA))
	}
	builder.WriteString("\n")

	builder.WriteString("## Levels\n\n")
	builder.WriteString(fmt.Sprintf("| Domain | %s | %s | %s |\n",
		messages.LevelLabel(scoring.Mastery, f.lang),
		messages.LevelLabel(scoring.Developing, f.lang),
		messages.LevelLabel(scoring.Emerging, f.lang)))
	builder.WriteString("|--------|---|---|---|\n")
	builder.WriteString(countsRow(messages.DomainLabel(types.DomainReading, f.lang), r.Reading))
	builder.WriteString(countsRow(messages.DomainLabel(types.DomainMathematics, f.lang), r.Mathematics))
	if f.verbose {
		for _, s := range r.Skills {
			builder.WriteString(countsRow(messages.MetricLabel(s.Metric, f.lang), s.Levels))
		}
	}
	builder.WriteString("\n")

	return f.write(builder.String())
}

func countsRow(label string, c scoring.LevelCounts) string {
	return fmt.Sprintf("| %s | %d | %d | %d |\n", label, c.Mastery, c.Developing, c.Emerging)
}

func (f *MarkdownFormatter) write(content string) error {
	if _, err := io.WriteString(f.w, content); err != nil {
		return fmt.Errorf("error writing markdown: %w", err)
	}
	return nil
}

// getLevelEmoji returns an emoji for the level
func getLevelEmoji(level scoring.Level) string {
	switch level {
	case scoring.Mastery:
		return "🟢"
	case scoring.Developing:
		return "🟡"
	case scoring.Emerging:
		return "🔴"
	default:
		return "⚪"
	}
}

// createAnchor creates a markdown-safe anchor
func createAnchor(text string) string {
	anchor := strings.ToLower(text)
	anchor = strings.ReplaceAll(anchor, " ", "-")
	anchor = strings.ReplaceAll(anchor, ".", "")
	anchor = strings.ReplaceAll(anchor, "/", "-")
	return anchor
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
