package scoring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dotcommander/egralens/internal/types"
)

// ThresholdConfig holds the three cut points of a metric.
// Invariant: Mastery >= Developing >= Emerging.
type ThresholdConfig struct {
	Mastery    float64 `json:"mastery" yaml:"mastery" mapstructure:"mastery"`
	Developing float64 `json:"developing" yaml:"developing" mapstructure:"developing"`
	Emerging   float64 `json:"emerging" yaml:"emerging" mapstructure:"emerging"`
}

// Validate checks the ordering of the cut points.
func (c ThresholdConfig) Validate() error {
	if c.Mastery < c.Developing {
		return fmt.Errorf("mastery (%g) must be >= developing (%g)", c.Mastery, c.Developing)
	}
	if c.Developing < c.Emerging {
		return fmt.Errorf("developing (%g) must be >= emerging (%g)", c.Developing, c.Emerging)
	}
	return nil
}

// defaultThresholds are the cut points shipped with egralens.
var defaultThresholds = map[types.MetricKey]ThresholdConfig{
	types.LetterIdentification:   {Mastery: 50, Developing: 30, Emerging: 0},
	types.PhonemeAwareness:       {Mastery: 80, Developing: 60, Emerging: 0},
	types.ReadingFluency:         {Mastery: 45, Developing: 25, Emerging: 0},
	types.ReadingComprehension:   {Mastery: 80, Developing: 60, Emerging: 0},
	types.NumberIdentification:   {Mastery: 40, Developing: 20, Emerging: 0},
	types.QuantityDiscrimination: {Mastery: 80, Developing: 60, Emerging: 0},
	types.MissingNumber:          {Mastery: 80, Developing: 60, Emerging: 0},
	types.Addition:               {Mastery: 80, Developing: 60, Emerging: 0},
	types.Subtraction:            {Mastery: 80, Developing: 60, Emerging: 0},
}

// Thresholds maps every metric to its ThresholdConfig. It is a read-only
// value: customisation goes through With, which returns a copy.
// The zero value behaves like DefaultThresholds.
type Thresholds struct {
	byMetric map[types.MetricKey]ThresholdConfig
}

// DefaultThresholds returns a fresh copy of the default cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{byMetric: cloneConfigs(defaultThresholds)}
}

// NewThresholds builds a Thresholds value from a complete mapping.
// Every metric must be present, no unknown metric may appear, and each
// config must satisfy its ordering invariant.
func NewThresholds(m map[types.MetricKey]ThresholdConfig) (Thresholds, error) {
	var errs []error
	for key := range m {
		if _, err := types.LookupMetric(key); err != nil {
			errs = append(errs, err)
		}
	}
	for _, key := range types.MetricKeys() {
		cfg, ok := m[key]
		if !ok {
			errs = append(errs, fmt.Errorf("missing thresholds for %s", key))
			continue
		}
		if err := cfg.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	if len(errs) > 0 {
		return Thresholds{}, errors.Join(errs...)
	}
	return Thresholds{byMetric: cloneConfigs(m)}, nil
}

// IsZero reports whether t was never initialised.
func (t Thresholds) IsZero() bool {
	return t.byMetric == nil
}

// OrDefault returns t, or the defaults when t is the zero value.
func (t Thresholds) OrDefault() Thresholds {
	if t.IsZero() {
		return DefaultThresholds()
	}
	return t
}

// For returns the cut points configured for key.
func (t Thresholds) For(key types.MetricKey) (ThresholdConfig, error) {
	src := t.byMetric
	if src == nil {
		src = defaultThresholds
	}
	cfg, ok := src[key]
	if !ok {
		return ThresholdConfig{}, fmt.Errorf("%w: %q", types.ErrUnknownMetric, string(key))
	}
	return cfg, nil
}

// With returns a copy of t where key uses cfg. The receiver is unchanged.
func (t Thresholds) With(key types.MetricKey, cfg ThresholdConfig) (Thresholds, error) {
	if _, err := types.LookupMetric(key); err != nil {
		return Thresholds{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Thresholds{}, fmt.Errorf("%s: %w", key, err)
	}
	next := cloneConfigs(t.OrDefault().byMetric)
	next[key] = cfg
	return Thresholds{byMetric: next}, nil
}

// Map returns a copy of the underlying mapping.
func (t Thresholds) Map() map[types.MetricKey]ThresholdConfig {
	return cloneConfigs(t.OrDefault().byMetric)
}

// String renders the thresholds in canonical metric order.
func (t Thresholds) String() string {
	var b strings.Builder
	for _, key := range types.MetricKeys() {
		cfg, _ := t.For(key)
		fmt.Fprintf(&b, "%s: mastery=%g developing=%g emerging=%g\n", key, cfg.Mastery, cfg.Developing, cfg.Emerging)
	}
	return b.String()
}

func cloneConfigs(m map[types.MetricKey]ThresholdConfig) map[types.MetricKey]ThresholdConfig {
	out := make(map[types.MetricKey]ThresholdConfig, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
