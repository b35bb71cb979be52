package importer

import (
	"fmt"
	"strings"

	"github.com/dotcommander/egralens/internal/types"
)

// NotMapped marks a metric column that is absent from the sheet. Its
// scores import as 0.
const NotMapped = "not_mapped"

// ColumnMapping names the sheet column holding each field. Name, Grade,
// Age and Gender are required; ID and Date fall back to a generated id
// and the import date.
type ColumnMapping struct {
	ID     string `mapstructure:"id" json:"id" yaml:"id"`
	Name   string `mapstructure:"name" json:"name" yaml:"name"`
	Grade  string `mapstructure:"grade" json:"grade" yaml:"grade"`
	Age    string `mapstructure:"age" json:"age" yaml:"age"`
	Gender string `mapstructure:"gender" json:"gender" yaml:"gender"`
	Date   string `mapstructure:"date" json:"date" yaml:"date"`

	LetterIdentification   string `mapstructure:"letterIdentification" json:"letterIdentification" yaml:"letterIdentification"`
	PhonemeAwareness       string `mapstructure:"phonemeAwareness" json:"phonemeAwareness" yaml:"phonemeAwareness"`
	ReadingFluency         string `mapstructure:"readingFluency" json:"readingFluency" yaml:"readingFluency"`
	ReadingComprehension   string `mapstructure:"readingComprehension" json:"readingComprehension" yaml:"readingComprehension"`
	NumberIdentification   string `mapstructure:"numberIdentification" json:"numberIdentification" yaml:"numberIdentification"`
	QuantityDiscrimination string `mapstructure:"quantityDiscrimination" json:"quantityDiscrimination" yaml:"quantityDiscrimination"`
	MissingNumber          string `mapstructure:"missingNumber" json:"missingNumber" yaml:"missingNumber"`
	Addition               string `mapstructure:"addition" json:"addition" yaml:"addition"`
	Subtraction            string `mapstructure:"subtraction" json:"subtraction" yaml:"subtraction"`
}

// DefaultMapping expects columns named after the fields themselves.
func DefaultMapping() ColumnMapping {
	return ColumnMapping{
		ID:                     "id",
		Name:                   "name",
		Grade:                  "grade",
		Age:                    "age",
		Gender:                 "gender",
		Date:                   "date",
		LetterIdentification:   string(types.LetterIdentification),
		PhonemeAwareness:       string(types.PhonemeAwareness),
		ReadingFluency:         string(types.ReadingFluency),
		ReadingComprehension:   string(types.ReadingComprehension),
		NumberIdentification:   string(types.NumberIdentification),
		QuantityDiscrimination: string(types.QuantityDiscrimination),
		MissingNumber:          string(types.MissingNumber),
		Addition:               string(types.Addition),
		Subtraction:            string(types.Subtraction),
	}
}

// Validate reports the required fields left unmapped.
func (m ColumnMapping) Validate() error {
	var missing []string
	for _, f := range []struct{ name, col string }{
		{"name", m.Name}, {"grade", m.Grade}, {"age", m.Age}, {"gender", m.Gender},
	} {
		if isUnmapped(f.col) {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("incomplete column mapping: assign columns for %s", strings.Join(missing, ", "))
	}
	return nil
}

// Metric returns the column mapped to a metric.
func (m ColumnMapping) Metric(key types.MetricKey) string {
	switch key {
	case types.LetterIdentification:
		return m.LetterIdentification
	case types.PhonemeAwareness:
		return m.PhonemeAwareness
	case types.ReadingFluency:
		return m.ReadingFluency
	case types.ReadingComprehension:
		return m.ReadingComprehension
	case types.NumberIdentification:
		return m.NumberIdentification
	case types.QuantityDiscrimination:
		return m.QuantityDiscrimination
	case types.MissingNumber:
		return m.MissingNumber
	case types.Addition:
		return m.Addition
	case types.Subtraction:
		return m.Subtraction
	default:
		return ""
	}
}

func isUnmapped(col string) bool {
	col = strings.TrimSpace(col)
	return col == "" || col == NotMapped
}
