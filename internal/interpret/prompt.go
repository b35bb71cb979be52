package interpret

import (
	"fmt"
	"strings"

	"github.com/dotcommander/egralens/internal/messages"
	"github.com/dotcommander/egralens/internal/types"
)

// promptLabels are the value labels of the prompt, units included.
var promptLabels = map[types.MetricKey]string{
	types.LetterIdentification:   "Lettres par minute (clpm)",
	types.PhonemeAwareness:       "Conscience phonémique (%)",
	types.ReadingFluency:         "Mots corrects par minute (cwpm)",
	types.ReadingComprehension:   "Compréhension écrite (%)",
	types.NumberIdentification:   "Identification des nombres (par minute)",
	types.QuantityDiscrimination: "Discrimination des quantités (%)",
	types.MissingNumber:          "Nombres manquants (%)",
	types.Addition:               "Addition (%)",
	types.Subtraction:            "Soustraction (%)",
}

// PromptLabel returns the label BuildPrompt puts in front of a raw value.
func PromptLabel(key types.MetricKey) string {
	return promptLabels[key]
}

const promptInstruction = "Fournis une interprétation globale détaillée en français, en expliquant " +
	"l'importance de ces indicateurs et en proposant des recommandations précises et " +
	"personnalisées pour améliorer les compétences en lecture et en mathématiques de cet élève. " +
	"Adapte ton analyse au niveau scolaire et à l'âge de l'élève."

// BuildPrompt serializes the assessment and its rule-based interpretation
// into the prompt sent to the generation backend. The output depends only
// on its inputs.
func BuildPrompt(a types.AssessmentData, r *RuleBasedInterpretation) string {
	var b strings.Builder

	b.WriteString("Voici les résultats détaillés d'une évaluation EGRA/EGMA pour un élève:\n\n")

	b.WriteString("Informations sur l'élève:\n")
	fmt.Fprintf(&b, "- Nom: %s\n", a.Student.Name)
	fmt.Fprintf(&b, "- Niveau: %s\n", a.Student.Grade)
	fmt.Fprintf(&b, "- Âge: %d ans\n\n", a.Student.Age)

	b.WriteString("Résultats EGRA (Early Grade Reading Assessment):\n")
	writeValues(&b, a, types.DomainReading)
	b.WriteString("\nRésultats EGMA (Early Grade Mathematics Assessment):\n")
	writeValues(&b, a, types.DomainMathematics)

	b.WriteString("\nMessages du système à base de règles:\n\n")

	b.WriteString("Lecture:\n")
	writeMessages(&b, r, types.DomainReading)
	fmt.Fprintf(&b, "- Synthèse lecture: %s\n\n", r.Summary.Reading)

	b.WriteString("Mathématiques:\n")
	writeMessages(&b, r, types.DomainMathematics)
	fmt.Fprintf(&b, "- Synthèse mathématiques: %s\n\n", r.Summary.Mathematics)

	b.WriteString(promptInstruction)
	b.WriteString("\n")
	return b.String()
}

func writeValues(b *strings.Builder, a types.AssessmentData, d types.Domain) {
	for _, key := range types.DomainKeys(d) {
		v, err := a.Value(key)
		if err != nil {
			continue
		}
		fmt.Fprintf(b, "- %s: %s\n", promptLabels[key], messages.FormatValue(v))
	}
}

func writeMessages(b *strings.Builder, r *RuleBasedInterpretation, d types.Domain) {
	for _, key := range types.DomainKeys(d) {
		s, err := r.Skill(key)
		if err != nil {
			continue
		}
		fmt.Fprintf(b, "- %s\n", s.Message)
	}
}
