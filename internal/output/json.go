package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/egralens/internal/interpret"
	"github.com/dotcommander/egralens/internal/summary"
	"github.com/dotcommander/egralens/internal/types"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	w       io.Writer
	indent  bool
	version string
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(w io.Writer, indent bool, version string) *JSONFormatter {
	return &JSONFormatter{
		w:       w,
		indent:  indent,
		version: version,
	}
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// JSONReport is the interpretation report.
type JSONReport struct {
	Header  JSONHeader   `json:"header"`
	Summary JSONSummary  `json:"summary"`
	Results []JSONResult `json:"results"`
}

// JSONSummary contains run statistics
type JSONSummary struct {
	Assessments int    `json:"assessments"`
	Generated   int    `json:"generated"`
	Backend     string `json:"backend,omitempty"`
	Duration    string `json:"duration"`
}

// JSONResult is one interpreted assessment. The interpretation fields are
// inlined so the object matches the full interpretation shape.
type JSONResult struct {
	Student types.Student `json:"student"`
	Date    string        `json:"date"`
	Source  string        `json:"source,omitempty"`
	*interpret.FullInterpretation
}

// JSONSummaryReport wraps the class summary.
type JSONSummaryReport struct {
	Header  JSONHeader      `json:"header"`
	Summary *summary.Report `json:"summary"`
}

func (f *JSONFormatter) header() JSONHeader {
	return JSONHeader{
		Tool:      "egralens",
		Version:   f.version,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// FormatInterpretations writes the interpretation report.
func (f *JSONFormatter) FormatInterpretations(report *InterpretationReport) error {
	out := JSONReport{
		Header: f.header(),
		Summary: JSONSummary{
			Assessments: len(report.Results),
			Generated:   report.Generated(),
			Backend:     report.Backend,
			Duration:    report.duration().String(),
		},
		Results: make([]JSONResult, len(report.Results)),
	}
	for i, res := range report.Results {
		if res.Interpretation == nil {
			return fmt.Errorf("no interpretation for %s on %s", res.Assessment.Student.ID, res.Assessment.Date)
		}
		out.Results[i] = JSONResult{
			Student:            res.Assessment.Student,
			Date:               res.Assessment.Date,
			Source:             res.Source,
			FullInterpretation: res.Interpretation,
		}
	}
	return f.write(out)
}

// FormatSummary writes the class summary.
func (f *JSONFormatter) FormatSummary(r *summary.Report) error {
	return f.write(JSONSummaryReport{Header: f.header(), Summary: r})
}

func (f *JSONFormatter) write(v any) error {
	var data []byte
	var err error
	if f.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := f.w.Write(data); err != nil {
		return fmt.Errorf("error writing JSON: %w", err)
	}
	return nil
}
