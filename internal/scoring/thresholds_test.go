package scoring

import (
	"testing"

	"github.com/dotcommander/egralens/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultThresholds(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		key  types.MetricKey
		want ThresholdConfig
	}{
		{types.LetterIdentification, ThresholdConfig{50, 30, 0}},
		{types.PhonemeAwareness, ThresholdConfig{80, 60, 0}},
		{types.ReadingFluency, ThresholdConfig{45, 25, 0}},
		{types.ReadingComprehension, ThresholdConfig{80, 60, 0}},
		{types.NumberIdentification, ThresholdConfig{40, 20, 0}},
		{types.QuantityDiscrimination, ThresholdConfig{80, 60, 0}},
		{types.MissingNumber, ThresholdConfig{80, 60, 0}},
		{types.Addition, ThresholdConfig{80, 60, 0}},
		{types.Subtraction, ThresholdConfig{80, 60, 0}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got, err := th.For(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, got.Validate())
		})
	}
}

func TestThresholdsForUnknownMetric(t *testing.T) {
	_, err := DefaultThresholds().For("reading")
	assert.ErrorIs(t, err, types.ErrUnknownMetric)

	var zero Thresholds
	_, err = zero.For("reading")
	assert.ErrorIs(t, err, types.ErrUnknownMetric)
}

func TestZeroThresholdsBehaveAsDefaults(t *testing.T) {
	var zero Thresholds
	assert.True(t, zero.IsZero())
	got, err := zero.For(types.ReadingFluency)
	require.NoError(t, err)
	assert.Equal(t, ThresholdConfig{45, 25, 0}, got)
	assert.Equal(t, DefaultThresholds().Map(), zero.OrDefault().Map())
}

func TestThresholdsWithDoesNotMutate(t *testing.T) {
	base := DefaultThresholds()
	custom, err := base.With(types.Addition, ThresholdConfig{Mastery: 90, Developing: 70, Emerging: 0})
	require.NoError(t, err)

	got, _ := custom.For(types.Addition)
	assert.Equal(t, 90.0, got.Mastery)

	orig, _ := base.For(types.Addition)
	assert.Equal(t, 80.0, orig.Mastery)

	fresh, _ := DefaultThresholds().For(types.Addition)
	assert.Equal(t, 80.0, fresh.Mastery)
}

func TestThresholdsWithRejectsInvalid(t *testing.T) {
	_, err := DefaultThresholds().With(types.Addition, ThresholdConfig{Mastery: 10, Developing: 70})
	assert.Error(t, err)

	_, err = DefaultThresholds().With("division", ThresholdConfig{Mastery: 10})
	assert.ErrorIs(t, err, types.ErrUnknownMetric)
}

func TestMapIsACopy(t *testing.T) {
	th := DefaultThresholds()
	m := th.Map()
	m[types.Addition] = ThresholdConfig{Mastery: 1}
	got, _ := th.For(types.Addition)
	assert.Equal(t, 80.0, got.Mastery)
}

func TestNewThresholds(t *testing.T) {
	t.Run("complete mapping", func(t *testing.T) {
		m := DefaultThresholds().Map()
		m[types.ReadingFluency] = ThresholdConfig{60, 40, 0}
		th, err := NewThresholds(m)
		require.NoError(t, err)
		got, _ := th.For(types.ReadingFluency)
		assert.Equal(t, 60.0, got.Mastery)

		// The input map is copied.
		m[types.ReadingFluency] = ThresholdConfig{1, 1, 1}
		got, _ = th.For(types.ReadingFluency)
		assert.Equal(t, 60.0, got.Mastery)
	})

	t.Run("missing metric", func(t *testing.T) {
		m := DefaultThresholds().Map()
		delete(m, types.Subtraction)
		_, err := NewThresholds(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing thresholds for subtraction")
	})

	t.Run("unknown metric", func(t *testing.T) {
		m := DefaultThresholds().Map()
		m["division"] = ThresholdConfig{80, 60, 0}
		_, err := NewThresholds(m)
		assert.ErrorIs(t, err, types.ErrUnknownMetric)
	})

	t.Run("bad ordering", func(t *testing.T) {
		m := DefaultThresholds().Map()
		m[types.Addition] = ThresholdConfig{Mastery: 50, Developing: 60, Emerging: 0}
		_, err := NewThresholds(m)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "addition")
	})
}

func TestThresholdConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ThresholdConfig
		wantErr bool
	}{
		{"ordered", ThresholdConfig{80, 60, 0}, false},
		{"all equal", ThresholdConfig{5, 5, 5}, false},
		{"mastery below developing", ThresholdConfig{50, 60, 0}, true},
		{"developing below emerging", ThresholdConfig{80, 10, 20}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestThresholdsString(t *testing.T) {
	s := DefaultThresholds().String()
	assert.Contains(t, s, "letterIdentification: mastery=50 developing=30 emerging=0\n")
	assert.Contains(t, s, "subtraction: mastery=80 developing=60 emerging=0\n")
}
