package output

import (
	"testing"
	"time"

	"github.com/dotcommander/egralens/internal/interpret"
	"github.com/dotcommander/egralens/internal/scoring"
	"github.com/dotcommander/egralens/internal/summary"
	"github.com/dotcommander/egralens/internal/types"
)

func testAssessment(name string) types.AssessmentData {
	return types.AssessmentData{
		Student: types.Student{ID: "s-001", Name: name, Grade: "CE1", Age: 8, Gender: types.GenderFemale},
		Date:    "2024-03-12",
		EGRA: types.EGRAMetrics{
			LetterIdentification: 55,
			PhonemeAwareness:     72.5,
			ReadingFluency:       20,
			ReadingComprehension: 85,
		},
		EGMA: types.EGMAMetrics{
			NumberIdentification:   18,
			QuantityDiscrimination: 90,
			MissingNumber:          65,
			Addition:               85,
			Subtraction:            55,
		},
	}
}

func testResult(t *testing.T, name string, generated *string) Result {
	t.Helper()
	a := testAssessment(name)
	rb, err := interpret.Interpret(a, scoring.DefaultThresholds())
	if err != nil {
		t.Fatalf("Interpret() error = %v", err)
	}
	return Result{
		Assessment:     a,
		Interpretation: &interpret.FullInterpretation{RuleBased: rb, Generated: generated},
		Source:         "data/ce1.csv",
	}
}

func testReport(t *testing.T, results ...Result) *InterpretationReport {
	t.Helper()
	return &InterpretationReport{
		Results:   results,
		StartTime: time.Now(),
		Backend:   "stub",
	}
}

func testSummary(t *testing.T) *summary.Report {
	t.Helper()
	a := testAssessment("Awa Diallo")
	r, err := summary.Build(types.Dataset{
		Students:    []types.Student{a.Student},
		Assessments: []types.AssessmentData{a},
	}, scoring.DefaultThresholds(), "")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return r
}

func ptr(s string) *string { return &s }
