package interpret

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dotcommander/egralens/internal/generation"
	"github.com/dotcommander/egralens/internal/scoring"
	"github.com/dotcommander/egralens/internal/types"
)

// Interpretation outcomes reported to the Recorder.
const (
	OutcomeComplete      = "complete"
	OutcomeRuleBasedOnly = "rule_based_only"
	OutcomeError         = "error"
)

// Recorder receives the outcome of each interpretation.
type Recorder interface {
	RecordInterpretation(outcome string)
	RecordGeneration(elapsed time.Duration, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordInterpretation(string)            {}
func (nopRecorder) RecordGeneration(time.Duration, error) {}

// FullInterpretation pairs the rule-based interpretation with the generated
// narrative. Generated is nil when generation failed or is disabled.
type FullInterpretation struct {
	RuleBased *RuleBasedInterpretation `json:"ruleBasedInterpretation" yaml:"ruleBasedInterpretation"`
	Generated *string                  `json:"generatedInterpretation" yaml:"generatedInterpretation"`
}

// HasGenerated reports whether a generated narrative is present.
func (f *FullInterpretation) HasGenerated() bool {
	return f != nil && f.Generated != nil
}

// Orchestrator produces full interpretations. It holds no mutable state and
// is safe for concurrent use as long as its gateway is.
type Orchestrator struct {
	gateway    generation.Gateway
	thresholds scoring.Thresholds
	logger     *zap.Logger
	recorder   Recorder
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithThresholds replaces the default threshold table.
func WithThresholds(th scoring.Thresholds) Option {
	return func(o *Orchestrator) { o.thresholds = th }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.recorder = r
		}
	}
}

// NewOrchestrator creates an orchestrator backed by gw.
func NewOrchestrator(gw generation.Gateway, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gateway:    gw,
		thresholds: scoring.DefaultThresholds(),
		logger:     zap.NewNop(),
		recorder:   nopRecorder{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.gateway == nil {
		o.gateway = generation.Disabled{}
	}
	return o
}

// Thresholds returns the threshold table in use.
func (o *Orchestrator) Thresholds() scoring.Thresholds {
	return o.thresholds
}

// FullInterpretation interprets a and asks the gateway for a narrative.
// Only an interpretation error is returned; a gateway failure is logged and
// leaves Generated nil.
func (o *Orchestrator) FullInterpretation(ctx context.Context, a types.AssessmentData) (*FullInterpretation, error) {
	rb, err := Interpret(a, o.thresholds)
	if err != nil {
		o.recorder.RecordInterpretation(OutcomeError)
		return nil, err
	}

	prompt := BuildPrompt(a, rb)

	start := time.Now()
	text, err := o.gateway.Generate(ctx, prompt)
	o.recorder.RecordGeneration(time.Since(start), err)
	if err != nil {
		o.logger.Warn("error generating interpretation",
			zap.String("student", a.Student.ID),
			zap.String("date", a.Date),
			zap.String("kind", string(generation.KindOf(err))),
			zap.Error(err))
		o.recorder.RecordInterpretation(OutcomeRuleBasedOnly)
		return &FullInterpretation{RuleBased: rb}, nil
	}

	o.recorder.RecordInterpretation(OutcomeComplete)
	return &FullInterpretation{RuleBased: rb, Generated: &text}, nil
}
