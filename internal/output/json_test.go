package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/dotcommander/egralens/internal/scoring"
)

func TestJSONFormatter_FormatInterpretations(t *testing.T) {
	tests := []struct {
		name      string
		indent    bool
		generated *string
		validate  func(t *testing.T, raw string, report JSONReport)
	}{
		{
			name:   "compact without narrative",
			indent: false,
			validate: func(t *testing.T, raw string, report JSONReport) {
				if strings.Contains(raw, "\n  ") {
					t.Error("compact output should not be indented")
				}
				if !strings.Contains(raw, `"generatedInterpretation":null`) {
					t.Errorf("missing null narrative: %s", raw)
				}
				if report.Summary.Generated != 0 {
					t.Errorf("Generated = %d, want 0", report.Summary.Generated)
				}
			},
		},
		{
			name:      "indented with narrative",
			indent:    true,
			generated: ptr("Texte généré"),
			validate: func(t *testing.T, raw string, report JSONReport) {
				if !strings.Contains(raw, "\n  \"header\"") {
					t.Error("indented output expected")
				}
				if report.Summary.Generated != 1 {
					t.Errorf("Generated = %d, want 1", report.Summary.Generated)
				}
				got := report.Results[0].Generated
				if got == nil || *got != "Texte généré" {
					t.Errorf("Generated = %v, want narrative", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewJSONFormatter(&buf, tt.indent, "1.2.3")
			if err := f.FormatInterpretations(testReport(t, testResult(t, "Awa Diallo", tt.generated))); err != nil {
				t.Fatalf("FormatInterpretations() error = %v", err)
			}

			var report JSONReport
			if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
				t.Fatalf("Failed to parse JSON: %v", err)
			}
			if report.Header.Tool != "egralens" {
				t.Errorf("Tool = %q, want egralens", report.Header.Tool)
			}
			if report.Header.Version != "1.2.3" {
				t.Errorf("Version = %q, want 1.2.3", report.Header.Version)
			}
			if report.Header.Timestamp == "" {
				t.Error("Timestamp is empty")
			}
			if report.Summary.Assessments != 1 || report.Summary.Backend != "stub" {
				t.Errorf("Summary = %+v", report.Summary)
			}
			if len(report.Results) != 1 {
				t.Fatalf("Results length = %d, want 1", len(report.Results))
			}
			res := report.Results[0]
			if res.Student.ID != "s-001" || res.Date != "2024-03-12" || res.Source != "data/ce1.csv" {
				t.Errorf("Result identity = %+v", res)
			}
			if res.FullInterpretation == nil || res.RuleBased == nil {
				t.Fatal("rule-based interpretation missing")
			}
			if res.RuleBased.ReadingLevel != scoring.Mastery || res.RuleBased.MathematicsLevel != scoring.Developing {
				t.Errorf("levels = %s/%s", res.RuleBased.ReadingLevel, res.RuleBased.MathematicsLevel)
			}
			tt.validate(t, buf.String(), report)
		})
	}
}

func TestJSONFormatter_FormatSummary(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf, true, "dev")
	if err := f.FormatSummary(testSummary(t)); err != nil {
		t.Fatalf("FormatSummary() error = %v", err)
	}

	var got struct {
		Header  JSONHeader `json:"header"`
		Summary struct {
			Students int `json:"students"`
			EGRA     int `json:"egra"`
			EGMA     int `json:"egma"`
			Grades   []struct {
				Grade string `json:"grade"`
			} `json:"grades"`
			Skills []json.RawMessage `json:"skills"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}
	if got.Summary.Students != 1 || got.Summary.EGRA != 58 || got.Summary.EGMA != 63 {
		t.Errorf("Summary = %+v", got.Summary)
	}
	if len(got.Summary.Grades) != 1 || got.Summary.Grades[0].Grade != "CE1" {
		t.Errorf("Grades = %+v", got.Summary.Grades)
	}
	if len(got.Summary.Skills) != 9 {
		t.Errorf("Skills length = %d, want 9", len(got.Summary.Skills))
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestJSONFormatter_WriteError(t *testing.T) {
	f := NewJSONFormatter(failingWriter{}, false, "dev")
	err := f.FormatSummary(testSummary(t))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("error = %v, want write error", err)
	}
}
