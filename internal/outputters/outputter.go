package outputters

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dotcommander/egralens/internal/config"
	"github.com/dotcommander/egralens/internal/messages"
	"github.com/dotcommander/egralens/internal/output"
	"github.com/dotcommander/egralens/internal/summary"
)

// Formatter renders the reports egralens produces.
type Formatter interface {
	FormatInterpretations(report *output.InterpretationReport) error
	FormatSummary(report *summary.Report) error
}

// Outputter handles output formatting
type Outputter struct {
	config  *config.Config
	stdout  io.Writer
	version string
}

// NewOutputter creates a new Outputter writing to stdout unless the
// configuration names an output file.
func NewOutputter(config *config.Config, stdout io.Writer, version string) *Outputter {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Outputter{
		config:  config,
		stdout:  stdout,
		version: version,
	}
}

// Interpretations formats an interpretation report using the configured format.
func (o *Outputter) Interpretations(report *output.InterpretationReport) error {
	if report.StartTime.IsZero() {
		report.StartTime = time.Now()
	}
	if report.Root == "" {
		report.Root = o.config.Root
	}
	return o.run(func(f Formatter) error { return f.FormatInterpretations(report) })
}

// Summary formats a class summary using the configured format.
func (o *Outputter) Summary(report *summary.Report) error {
	return o.run(func(f Formatter) error { return f.FormatSummary(report) })
}

func (o *Outputter) run(format func(Formatter) error) (err error) {
	w := o.stdout
	toFile := o.config.Output != ""
	if toFile {
		file, createErr := os.Create(o.config.Output)
		if createErr != nil {
			return fmt.Errorf("error writing to file %s: %w", o.config.Output, createErr)
		}
		defer func() {
			if closeErr := file.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("error closing %s: %w", o.config.Output, closeErr)
			}
		}()
		w = file
	}

	formatter, err := o.Formatter(w, !toFile)
	if err != nil {
		return err
	}
	return format(formatter)
}

// Formatter returns the formatter for the configured format. Color is only
// used when colorize is set.
func (o *Outputter) Formatter(w io.Writer, colorize bool) (Formatter, error) {
	lang, err := messages.ParseLanguage(o.config.Language)
	if err != nil {
		return nil, err
	}

	switch o.config.Format {
	case "", "console":
		return output.NewConsoleFormatter(w, o.config.Quiet, o.config.Verbose, colorize, lang), nil
	case "compact":
		return output.NewCompactFormatter(w, o.config.Quiet, colorize, lang), nil
	case "json":
		return output.NewJSONFormatter(w, true, o.version), nil
	case "markdown":
		return output.NewMarkdownFormatter(w, o.config.Verbose, lang), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", o.config.Format)
	}
}
