// Package messages holds the narrative templates used to describe a
// student's results: one sentence per metric and level, and one synthesis
// per domain and overall level.
package messages

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dotcommander/egralens/internal/scoring"
	"github.com/dotcommander/egralens/internal/types"
)

// ErrUnknownLevel is returned when a template is requested for a level
// outside mastery, developing, emerging.
var ErrUnknownLevel = errors.New("unknown level")

// Each template takes the formatted raw value as its only argument.
var metricTemplates = map[types.MetricKey]map[scoring.Level]string{
	types.LetterIdentification: {
		scoring.Mastery:    "Excellente identification des lettres (%s lettres par minute). L'élève a une maîtrise solide de la reconnaissance alphabétique.",
		scoring.Developing: "Identification des lettres en développement (%s lettres par minute). L'élève progresse mais nécessite plus de pratique.",
		scoring.Emerging:   "Identification des lettres émergente (%s lettres par minute). L'élève a besoin d'un soutien intensif en reconnaissance alphabétique.",
	},
	types.PhonemeAwareness: {
		scoring.Mastery:    "Excellente conscience phonémique (%s%%). L'élève distingue bien les sons de la langue.",
		scoring.Developing: "Conscience phonémique en développement (%s%%). L'élève progresse mais nécessite plus d'exercices de discrimination auditive.",
		scoring.Emerging:   "Conscience phonémique émergente (%s%%). L'élève a besoin d'activités ciblées sur la reconnaissance des sons.",
	},
	types.ReadingFluency: {
		scoring.Mastery:    "Excellente fluidité de lecture (%s mots corrects par minute). L'élève lit avec aisance.",
		scoring.Developing: "Fluidité de lecture en développement (%s mots corrects par minute). L'élève progresse mais a besoin de pratique additionnelle.",
		scoring.Emerging:   "Fluidité de lecture émergente (%s mots corrects par minute). L'élève nécessite un soutien intensif en lecture.",
	},
	types.ReadingComprehension: {
		scoring.Mastery:    "Excellente compréhension en lecture (%s%%). L'élève comprend bien ce qu'il lit.",
		scoring.Developing: "Compréhension en lecture en développement (%s%%). L'élève saisit certains éléments mais nécessite plus de pratique.",
		scoring.Emerging:   "Compréhension en lecture émergente (%s%%). L'élève a besoin d'activités ciblées sur la compréhension de textes.",
	},
	types.NumberIdentification: {
		scoring.Mastery:    "Excellente identification des nombres (%s nombres par minute). L'élève reconnaît bien les nombres.",
		scoring.Developing: "Identification des nombres en développement (%s nombres par minute). L'élève progresse mais a besoin de plus de pratique.",
		scoring.Emerging:   "Identification des nombres émergente (%s nombres par minute). L'élève nécessite un soutien particulier en reconnaissance numérique.",
	},
	types.QuantityDiscrimination: {
		scoring.Mastery:    "Excellente discrimination des quantités (%s%%). L'élève compare bien les nombres.",
		scoring.Developing: "Discrimination des quantités en développement (%s%%). L'élève progresse mais a besoin de plus d'exercices de comparaison.",
		scoring.Emerging:   "Discrimination des quantités émergente (%s%%). L'élève nécessite un soutien pour comprendre les relations entre les nombres.",
	},
	types.MissingNumber: {
		scoring.Mastery:    "Excellente identification des nombres manquants (%s%%). L'élève comprend bien les séquences numériques.",
		scoring.Developing: "Identification des nombres manquants en développement (%s%%). L'élève progresse mais a besoin de plus d'exercices sur les suites.",
		scoring.Emerging:   "Identification des nombres manquants émergente (%s%%). L'élève nécessite un soutien pour comprendre les patterns numériques.",
	},
	types.Addition: {
		scoring.Mastery:    "Excellente maîtrise de l'addition (%s%%). L'élève calcule avec précision.",
		scoring.Developing: "Maîtrise de l'addition en développement (%s%%). L'élève progresse mais a besoin de plus d'exercices.",
		scoring.Emerging:   "Maîtrise de l'addition émergente (%s%%). L'élève nécessite un soutien particulier en calcul additif.",
	},
	types.Subtraction: {
		scoring.Mastery:    "Excellente maîtrise de la soustraction (%s%%). L'élève soustrait avec précision.",
		scoring.Developing: "Maîtrise de la soustraction en développement (%s%%). L'élève progresse mais a besoin de plus d'exercices.",
		scoring.Emerging:   "Maîtrise de la soustraction émergente (%s%%). L'élève nécessite un soutien particulier en calcul soustractif.",
	},
}

// Message returns the narrative sentence for a metric at a level,
// interpolating the raw value. Unknown metrics are an error, never a default.
func Message(key types.MetricKey, level scoring.Level, value float64) (string, error) {
	byLevel, ok := metricTemplates[key]
	if !ok {
		return "", fmt.Errorf("no message for metric: %w: %q", types.ErrUnknownMetric, string(key))
	}
	tmpl, ok := byLevel[level]
	if !ok {
		return "", fmt.Errorf("no message for %s: %w: %q", key, ErrUnknownLevel, string(level))
	}
	return fmt.Sprintf(tmpl, FormatValue(value)), nil
}

// FormatValue renders a score with the shortest decimal form that round-trips,
// so 55 prints as "55" and 72.5 as "72.5".
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatMetricValue renders a score for a report column: per-minute counts
// bare, percentages with a "%" suffix.
func FormatMetricValue(key types.MetricKey, v float64) string {
	s := FormatValue(v)
	if info, err := types.LookupMetric(key); err == nil && !info.Unit.IsRate() {
		s += "%"
	}
	return s
}
