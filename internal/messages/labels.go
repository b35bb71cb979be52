package messages

import (
	"fmt"
	"strings"

	"github.com/dotcommander/egralens/internal/scoring"
	"github.com/dotcommander/egralens/internal/types"
)

// Language selects the display labels.
type Language string

// Supported languages. French is the default, matching the narrative templates.
const (
	French  Language = "fr"
	English Language = "en"
)

// ParseLanguage converts a string to a Language.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fr":
		return French, nil
	case "en":
		return English, nil
	default:
		return "", fmt.Errorf("unsupported language %q: valid languages are fr, en", s)
	}
}

var levelLabels = map[Language]map[scoring.Level]string{
	French: {
		scoring.Mastery:    "Maîtrisé",
		scoring.Developing: "En développement",
		scoring.Emerging:   "Émergent",
	},
	English: {
		scoring.Mastery:    "Mastery",
		scoring.Developing: "Developing",
		scoring.Emerging:   "Emerging",
	},
}

var metricLabels = map[Language]map[types.MetricKey]string{
	French: {
		types.LetterIdentification:   "Identification des lettres",
		types.PhonemeAwareness:       "Conscience phonémique",
		types.ReadingFluency:         "Fluidité de lecture",
		types.ReadingComprehension:   "Compréhension de lecture",
		types.NumberIdentification:   "Identification des nombres",
		types.QuantityDiscrimination: "Discrimination des quantités",
		types.MissingNumber:          "Nombre manquant",
		types.Addition:               "Addition",
		types.Subtraction:            "Soustraction",
	},
	English: {
		types.LetterIdentification:   "Letter Identification",
		types.PhonemeAwareness:       "Phoneme Awareness",
		types.ReadingFluency:         "Reading Fluency",
		types.ReadingComprehension:   "Reading Comprehension",
		types.NumberIdentification:   "Number Identification",
		types.QuantityDiscrimination: "Quantity Discrimination",
		types.MissingNumber:          "Missing Number",
		types.Addition:               "Addition",
		types.Subtraction:            "Subtraction",
	},
}

var domainLabels = map[Language]map[types.Domain]string{
	French:  {types.DomainReading: "Lecture (EGRA)", types.DomainMathematics: "Mathématiques (EGMA)"},
	English: {types.DomainReading: "Reading (EGRA)", types.DomainMathematics: "Mathematics (EGMA)"},
}

// LevelLabel returns the display label of a level. Unknown languages fall
// back to French and unknown levels to the raw level string.
func LevelLabel(level scoring.Level, lang Language) string {
	if s, ok := labelsFor(levelLabels, lang)[level]; ok {
		return s
	}
	return string(level)
}

// MetricLabel returns the display label of a metric.
func MetricLabel(key types.MetricKey, lang Language) string {
	if s, ok := labelsFor(metricLabels, lang)[key]; ok {
		return s
	}
	return string(key)
}

// DomainLabel returns the display label of a domain.
func DomainLabel(d types.Domain, lang Language) string {
	if s, ok := labelsFor(domainLabels, lang)[d]; ok {
		return s
	}
	return string(d)
}

func labelsFor[K comparable](m map[Language]map[K]string, lang Language) map[K]string {
	if byKey, ok := m[lang]; ok {
		return byKey
	}
	return m[French]
}
