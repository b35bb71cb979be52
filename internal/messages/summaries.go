package messages

import (
	"fmt"

	"github.com/dotcommander/egralens/internal/scoring"
)

var readingSummaries = map[scoring.Level]string{
	scoring.Mastery:    "L'élève démontre une excellente maîtrise des compétences en lecture. Il/Elle lit avec fluidité et comprend bien les textes. Continuez à encourager la lecture régulière et à introduire des textes plus complexes.",
	scoring.Developing: "L'élève est en bonne progression dans l'acquisition des compétences en lecture. Il/Elle a besoin de pratique additionnelle pour renforcer sa fluidité et sa compréhension. Recommandations: exercices quotidiens de lecture, jeux phonologiques.",
	scoring.Emerging:   "L'élève est aux premiers stades du développement de la lecture. Un soutien intensif est nécessaire pour développer ses compétences fondamentales. Recommandations: activités structurées d'identification des lettres et des sons, lecture guidée quotidienne.",
}

var mathematicsSummaries = map[scoring.Level]string{
	scoring.Mastery:    "L'élève démontre une excellente maîtrise des compétences mathématiques évaluées. Il/Elle a une bonne compréhension des nombres et des opérations. Continuez à introduire des concepts plus avancés et des problèmes variés.",
	scoring.Developing: "L'élève progresse dans l'acquisition des compétences mathématiques. Il/Elle a besoin de pratique additionnelle pour renforcer sa compréhension des nombres et opérations. Recommandations: jeux mathématiques, exercices quotidiens.",
	scoring.Emerging:   "L'élève est aux premiers stades du développement des compétences mathématiques. Un soutien intensif est nécessaire. Recommandations: activités concrètes avec manipulations, jeux de nombres, pratique quotidienne des concepts de base.",
}

// ReadingSummary returns the reading synthesis for an overall level.
func ReadingSummary(level scoring.Level) (string, error) {
	s, ok := readingSummaries[level]
	if !ok {
		return "", fmt.Errorf("reading summary: %w: %q", ErrUnknownLevel, string(level))
	}
	return s, nil
}

// MathematicsSummary returns the mathematics synthesis for an overall level.
func MathematicsSummary(level scoring.Level) (string, error) {
	s, ok := mathematicsSummaries[level]
	if !ok {
		return "", fmt.Errorf("mathematics summary: %w: %q", ErrUnknownLevel, string(level))
	}
	return s, nil
}
