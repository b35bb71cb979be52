package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dotcommander/egralens/internal/messages"
	"github.com/dotcommander/egralens/internal/summary"
)

func TestMarkdownFormatter_FormatInterpretations(t *testing.T) {
	tests := []struct {
		name            string
		results         func(t *testing.T) []Result
		verbose         bool
		wantContains    []string
		wantNotContains []string
	}{
		{
			name:    "single result",
			results: func(t *testing.T) []Result { return []Result{testResult(t, "Awa Diallo", nil)} },
			wantContains: []string{
				"# EGRA/EGMA Interpretation Report",
				"| Assessments | 1 |",
				"| With narrative | 0 |",
				"| Backend | `stub` |",
				"## Awa Diallo CE1 2024-03-12",
				"### Lecture (EGRA): 🟢 Maîtrisé",
				"### Mathématiques (EGMA): 🟡 En développement",
				"| Identification des lettres | 55 | 🟢 Maîtrisé |",
				"| Fluidité de lecture | 20 | 🔴 Émergent |",
				"| Conscience phonémique | 72.5% | 🟡 En développement |",
			},
			wantNotContains: []string{"### Students", "### Narrative", "Source:"},
		},
		{
			name: "table of contents and narrative",
			results: func(t *testing.T) []Result {
				return []Result{testResult(t, "Awa Diallo", ptr("Ligne un\nLigne deux")), testResult(t, "Moussa", nil)}
			},
			wantContains: []string{
				"### Students",
				"- [Awa Diallo CE1 2024-03-12](#awa-diallo-ce1-2024-03-12)",
				"### Narrative\n\n> Ligne un\n> Ligne deux\n",
				"| With narrative | 1 |",
			},
		},
		{
			name:         "verbose",
			results:      func(t *testing.T) []Result { return []Result{testResult(t, "Awa Diallo", nil)} },
			verbose:      true,
			wantContains: []string{"ID: `s-001` · Age: 8 · Gender: F", "Source: `data/ce1.csv`"},
		},
		{
			name:         "empty",
			results:      func(t *testing.T) []Result { return nil },
			wantContains: []string{"*No assessments to interpret.*"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f := NewMarkdownFormatter(&buf, tt.verbose, messages.French)
			if err := f.FormatInterpretations(testReport(t, tt.results(t)...)); err != nil {
				t.Fatalf("FormatInterpretations() error = %v", err)
			}
			got := buf.String()
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\n%s", want, got)
				}
			}
			for _, notWant := range tt.wantNotContains {
				if strings.Contains(got, notWant) {
					t.Errorf("output should not contain %q", notWant)
				}
			}
		})
	}
}

func TestMarkdownFormatter_FormatSummary(t *testing.T) {
	var buf bytes.Buffer
	f := NewMarkdownFormatter(&buf, true, messages.English)
	if err := f.FormatSummary(testSummary(t)); err != nil {
		t.Fatalf("FormatSummary() error = %v", err)
	}
	got := buf.String()
	for _, want := range []string{
		"# Class Summary",
		"| Students | 1 |",
		"| Average EGRA | 58 |",
		"| CE1 | 1 | 1 | 58 | 63 |",
		"| Domain | Mastery | Developing | Emerging |",
		"| Reading (EGRA) | 1 | 0 | 0 |",
		"| Mathematics (EGMA) | 0 | 1 | 0 |",
		"| Subtraction | 0 | 0 | 1 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
}

func TestMarkdownFormatter_FormatSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	f := NewMarkdownFormatter(&buf, false, messages.French)
	if err := f.FormatSummary(&summary.Report{Grade: "CP"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "# Class Summary: CP") || !strings.Contains(buf.String(), "*No assessments.*") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestCreateAnchor(t *testing.T) {
	if got := createAnchor("Awa Diallo CE1 2024.03/12"); got != "awa-diallo-ce1-202403-12" {
		t.Errorf("createAnchor() = %q", got)
	}
}

func TestEscapeCell(t *testing.T) {
	if got := escapeCell("a|b"); got != `a\|b` {
		t.Errorf("escapeCell() = %q", got)
	}
}
