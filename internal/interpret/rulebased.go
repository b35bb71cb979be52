// Package interpret turns an assessment into a rule-based interpretation,
// builds the generation prompt from it, and merges the generated narrative
// into a full interpretation.
package interpret

import (
	"fmt"

	"github.com/dotcommander/egralens/internal/messages"
	"github.com/dotcommander/egralens/internal/scoring"
	"github.com/dotcommander/egralens/internal/types"
)

// SkillLevel is the classification of one metric with its narrative.
type SkillLevel struct {
	Level   scoring.Level `json:"level" yaml:"level"`
	Message string        `json:"message" yaml:"message"`
}

// Summary holds the two domain narratives.
type Summary struct {
	Reading     string `json:"reading" yaml:"reading"`
	Mathematics string `json:"mathematics" yaml:"mathematics"`
}

// RuleBasedInterpretation is derived entirely from an assessment and a
// threshold table. It is a value: discard and recompute freely.
type RuleBasedInterpretation struct {
	LetterIdentification   SkillLevel `json:"letterIdentification" yaml:"letterIdentification"`
	PhonemeAwareness       SkillLevel `json:"phonemeAwareness" yaml:"phonemeAwareness"`
	ReadingFluency         SkillLevel `json:"readingFluency" yaml:"readingFluency"`
	ReadingComprehension   SkillLevel `json:"readingComprehension" yaml:"readingComprehension"`
	NumberIdentification   SkillLevel `json:"numberIdentification" yaml:"numberIdentification"`
	QuantityDiscrimination SkillLevel `json:"quantityDiscrimination" yaml:"quantityDiscrimination"`
	MissingNumber          SkillLevel `json:"missingNumber" yaml:"missingNumber"`
	Addition               SkillLevel `json:"addition" yaml:"addition"`
	Subtraction            SkillLevel `json:"subtraction" yaml:"subtraction"`

	ReadingLevel     scoring.Level `json:"readingLevel" yaml:"readingLevel"`
	MathematicsLevel scoring.Level `json:"mathematicsLevel" yaml:"mathematicsLevel"`
	Summary          Summary       `json:"summary" yaml:"summary"`
}

// Skill returns the SkillLevel recorded for key.
func (r *RuleBasedInterpretation) Skill(key types.MetricKey) (SkillLevel, error) {
	p, err := r.slot(key)
	if err != nil {
		return SkillLevel{}, err
	}
	return *p, nil
}

// Levels returns the per-metric levels of one domain in canonical order.
func (r *RuleBasedInterpretation) Levels(d types.Domain) []scoring.Level {
	keys := types.DomainKeys(d)
	out := make([]scoring.Level, 0, len(keys))
	for _, k := range keys {
		if p, err := r.slot(k); err == nil {
			out = append(out, p.Level)
		}
	}
	return out
}

func (r *RuleBasedInterpretation) slot(key types.MetricKey) (*SkillLevel, error) {
	switch key {
	case types.LetterIdentification:
		return &r.LetterIdentification, nil
	case types.PhonemeAwareness:
		return &r.PhonemeAwareness, nil
	case types.ReadingFluency:
		return &r.ReadingFluency, nil
	case types.ReadingComprehension:
		return &r.ReadingComprehension, nil
	case types.NumberIdentification:
		return &r.NumberIdentification, nil
	case types.QuantityDiscrimination:
		return &r.QuantityDiscrimination, nil
	case types.MissingNumber:
		return &r.MissingNumber, nil
	case types.Addition:
		return &r.Addition, nil
	case types.Subtraction:
		return &r.Subtraction, nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownMetric, string(key))
	}
}

// Interpret classifies the nine metrics of a against th, writes a message
// for each, and summarises both domains. A zero th means the defaults.
func Interpret(a types.AssessmentData, th scoring.Thresholds) (*RuleBasedInterpretation, error) {
	th = th.OrDefault()
	r := &RuleBasedInterpretation{}

	for _, info := range types.Metrics() {
		value, err := a.Value(info.Key)
		if err != nil {
			return nil, err
		}
		cfg, err := th.For(info.Key)
		if err != nil {
			return nil, err
		}
		level := scoring.Classify(value, cfg)
		msg, err := messages.Message(info.Key, level, value)
		if err != nil {
			return nil, err
		}
		slot, err := r.slot(info.Key)
		if err != nil {
			return nil, err
		}
		*slot = SkillLevel{Level: level, Message: msg}
	}

	var err error
	if r.ReadingLevel, err = scoring.Aggregate(r.Levels(types.DomainReading)); err != nil {
		return nil, fmt.Errorf("reading: %w", err)
	}
	if r.MathematicsLevel, err = scoring.Aggregate(r.Levels(types.DomainMathematics)); err != nil {
		return nil, fmt.Errorf("mathematics: %w", err)
	}
	if r.Summary.Reading, err = messages.ReadingSummary(r.ReadingLevel); err != nil {
		return nil, err
	}
	if r.Summary.Mathematics, err = messages.MathematicsSummary(r.MathematicsLevel); err != nil {
		return nil, err
	}
	return r, nil
}
