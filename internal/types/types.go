// Package types provides the assessment data model shared across egralens.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMetric is returned when a metric key is not one of the nine
// EGRA/EGMA metrics. It signals a caller or configuration mismatch.
var ErrUnknownMetric = errors.New("unknown metric")

// Gender of a student as recorded on the assessment sheet.
type Gender string

// Gender constants.
const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Valid reports whether g is one of the recognized genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Student is the identity record of an assessed pupil. ID is the identity key.
type Student struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Grade  string `json:"grade" yaml:"grade"`
	Age    int    `json:"age" yaml:"age"`
	Gender Gender `json:"gender" yaml:"gender"`
}

// EGRAMetrics holds the Early Grade Reading Assessment scores.
type EGRAMetrics struct {
	LetterIdentification float64 `json:"letterIdentification" yaml:"letterIdentification"` // clpm
	PhonemeAwareness     float64 `json:"phonemeAwareness" yaml:"phonemeAwareness"`         // percent correct
	ReadingFluency       float64 `json:"readingFluency" yaml:"readingFluency"`             // cwpm
	ReadingComprehension float64 `json:"readingComprehension" yaml:"readingComprehension"` // percent correct
}

// EGMAMetrics holds the Early Grade Mathematics Assessment scores.
type EGMAMetrics struct {
	NumberIdentification   float64 `json:"numberIdentification" yaml:"numberIdentification"` // numbers per minute
	QuantityDiscrimination float64 `json:"quantityDiscrimination" yaml:"quantityDiscrimination"`
	MissingNumber          float64 `json:"missingNumber" yaml:"missingNumber"`
	Addition               float64 `json:"addition" yaml:"addition"`
	Subtraction            float64 `json:"subtraction" yaml:"subtraction"`
}

// AssessmentData is one administration of EGRA/EGMA for a student.
// A student has at most one assessment per date.
type AssessmentData struct {
	Student Student     `json:"student" yaml:"student"`
	Date    string      `json:"date" yaml:"date"`
	EGRA    EGRAMetrics `json:"egra" yaml:"egra"`
	EGMA    EGMAMetrics `json:"egma" yaml:"egma"`
}

// Key identifies an assessment within a dataset.
func (a AssessmentData) Key() string {
	return a.Student.ID + "|" + a.Date
}

// Value returns the raw score recorded for the given metric.
func (a AssessmentData) Value(key MetricKey) (float64, error) {
	switch key {
	case LetterIdentification:
		return a.EGRA.LetterIdentification, nil
	case PhonemeAwareness:
		return a.EGRA.PhonemeAwareness, nil
	case ReadingFluency:
		return a.EGRA.ReadingFluency, nil
	case ReadingComprehension:
		return a.EGRA.ReadingComprehension, nil
	case NumberIdentification:
		return a.EGMA.NumberIdentification, nil
	case QuantityDiscrimination:
		return a.EGMA.QuantityDiscrimination, nil
	case MissingNumber:
		return a.EGMA.MissingNumber, nil
	case Addition:
		return a.EGMA.Addition, nil
	case Subtraction:
		return a.EGMA.Subtraction, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, string(key))
	}
}

// Validate checks the identity fields required by the interpretation core.
// Scores are deliberately not range-checked: out-of-range values still classify.
func (a AssessmentData) Validate() error {
	var problems []string
	if strings.TrimSpace(a.Student.ID) == "" {
		problems = append(problems, "student id is empty")
	}
	if strings.TrimSpace(a.Student.Name) == "" {
		problems = append(problems, "student name is empty")
	}
	if strings.TrimSpace(a.Student.Grade) == "" {
		problems = append(problems, "student grade is empty")
	}
	if !a.Student.Gender.Valid() {
		problems = append(problems, fmt.Sprintf("invalid gender %q", a.Student.Gender))
	}
	if strings.TrimSpace(a.Date) == "" {
		problems = append(problems, "assessment date is empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid assessment: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Dataset is a batch of students and their assessments, as imported from a
// file or exported by the dashboard.
type Dataset struct {
	Students    []Student        `json:"students" yaml:"students"`
	Assessments []AssessmentData `json:"assessments" yaml:"assessments"`
}
