package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dotcommander/egralens/internal/messages"
)

func TestCompactFormatter_FormatInterpretations(t *testing.T) {
	var buf bytes.Buffer
	f := NewCompactFormatter(&buf, false, false, messages.English)
	report := testReport(t,
		testResult(t, "Awa Diallo", nil),
		testResult(t, "Moussa", ptr("narrative")),
	)
	if err := f.FormatInterpretations(report); err != nil {
		t.Fatalf("FormatInterpretations() error = %v", err)
	}
	got := buf.String()

	for _, want := range []string{
		"Awa Diallo  CE1",
		"Moussa      CE1",
		"●◐○● ○●◐●○",
		"Mastery",
		"Developing",
		"✎",
		"2 assessments: reading 2/0/0, mathematics 0/2/0",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
	if n := strings.Count(got, "✎"); n != 1 {
		t.Errorf("narrative markers = %d, want 1", n)
	}
}

func TestCompactFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	f := NewCompactFormatter(&buf, true, false, messages.French)
	if err := f.FormatInterpretations(testReport(t, testResult(t, "Awa Diallo", nil))); err != nil {
		t.Fatal(err)
	}
	if err := f.FormatSummary(testSummary(t)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("quiet output = %q, want empty", buf.String())
	}
}

func TestCompactFormatter_FormatSummary(t *testing.T) {
	var buf bytes.Buffer
	f := NewCompactFormatter(&buf, false, false, messages.French)
	if err := f.FormatSummary(testSummary(t)); err != nil {
		t.Fatalf("FormatSummary() error = %v", err)
	}
	got := buf.String()
	for _, want := range []string{
		"CE1          1 students  EGRA  58  EGMA  63  reading 1/0/0  mathematics 0/1/0",
		"1 students, 1 assessments, EGRA 58, EGMA 63",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n%s", want, got)
		}
	}
}
