package interpret

import (
	"bufio"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/egralens/internal/messages"
	"github.com/dotcommander/egralens/internal/scoring"
	"github.com/dotcommander/egralens/internal/types"
)

func sampleAssessment() types.AssessmentData {
	return types.AssessmentData{
		Student: types.Student{ID: "s-001", Name: "Awa Diallo", Grade: "CE1", Age: 8, Gender: types.GenderFemale},
		Date:    "2024-03-12",
		EGRA: types.EGRAMetrics{
			LetterIdentification: 55,
			PhonemeAwareness:     72.5,
			ReadingFluency:       20,
			ReadingComprehension: 85,
		},
		EGMA: types.EGMAMetrics{
			NumberIdentification:   18,
			QuantityDiscrimination: 90,
			MissingNumber:          65,
			Addition:               85,
			Subtraction:            55,
		},
	}
}

func TestInterpretClassifiesEveryMetric(t *testing.T) {
	r, err := Interpret(sampleAssessment(), scoring.DefaultThresholds())
	require.NoError(t, err)

	want := map[types.MetricKey]scoring.Level{
		types.LetterIdentification:   scoring.Mastery,
		types.PhonemeAwareness:       scoring.Developing,
		types.ReadingFluency:         scoring.Emerging,
		types.ReadingComprehension:   scoring.Mastery,
		types.NumberIdentification:   scoring.Emerging,
		types.QuantityDiscrimination: scoring.Mastery,
		types.MissingNumber:          scoring.Developing,
		types.Addition:               scoring.Mastery,
		types.Subtraction:            scoring.Emerging,
	}
	for key, level := range want {
		s, err := r.Skill(key)
		require.NoError(t, err)
		assert.Equal(t, level, s.Level, "level of %s", key)
		assert.NotEmpty(t, s.Message, "message of %s", key)
	}

	// 2 of 4 reading metrics at mastery.
	assert.Equal(t, scoring.Mastery, r.ReadingLevel)
	// 2 mastery, 1 developing, 2 emerging out of 5.
	assert.Equal(t, scoring.Developing, r.MathematicsLevel)

	reading, _ := messages.ReadingSummary(scoring.Mastery)
	maths, _ := messages.MathematicsSummary(scoring.Developing)
	assert.Equal(t, reading, r.Summary.Reading)
	assert.Equal(t, maths, r.Summary.Mathematics)
}

func TestInterpretLetterIdentificationMastery(t *testing.T) {
	a := sampleAssessment()
	a.EGRA.LetterIdentification = 55

	r, err := Interpret(a, scoring.DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, scoring.Mastery, r.LetterIdentification.Level)
	assert.Contains(t, r.LetterIdentification.Message, "55")
}

func TestInterpretAllReadingEmerging(t *testing.T) {
	a := sampleAssessment()
	a.EGRA = types.EGRAMetrics{LetterIdentification: 10, PhonemeAwareness: 20, ReadingFluency: 5, ReadingComprehension: 0}

	r, err := Interpret(a, scoring.DefaultThresholds())
	require.NoError(t, err)

	for _, l := range r.Levels(types.DomainReading) {
		assert.Equal(t, scoring.Emerging, l)
	}
	want, err := messages.ReadingSummary(scoring.Emerging)
	require.NoError(t, err)
	assert.Equal(t, scoring.Emerging, r.ReadingLevel)
	assert.Equal(t, want, r.Summary.Reading)
}

func TestInterpretIsIdempotent(t *testing.T) {
	a := sampleAssessment()
	th := scoring.DefaultThresholds()

	first, err := Interpret(a, th)
	require.NoError(t, err)
	second, err := Interpret(a, th)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first, second)
}

func TestInterpretZeroThresholdsMeansDefaults(t *testing.T) {
	a := sampleAssessment()
	withDefaults, err := Interpret(a, scoring.DefaultThresholds())
	require.NoError(t, err)
	withZero, err := Interpret(a, scoring.Thresholds{})
	require.NoError(t, err)
	assert.Equal(t, withDefaults, withZero)
}

func TestInterpretCustomThresholds(t *testing.T) {
	th, err := scoring.DefaultThresholds().With(types.LetterIdentification, scoring.ThresholdConfig{Mastery: 60, Developing: 40})
	require.NoError(t, err)

	r, err := Interpret(sampleAssessment(), th)
	require.NoError(t, err)
	assert.Equal(t, scoring.Developing, r.LetterIdentification.Level)

	// The defaults are untouched.
	r, err = Interpret(sampleAssessment(), scoring.DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, scoring.Mastery, r.LetterIdentification.Level)
}

func TestInterpretOutOfRangeValues(t *testing.T) {
	a := sampleAssessment()
	a.EGMA.Addition = -5
	a.EGRA.PhonemeAwareness = 140

	r, err := Interpret(a, scoring.DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, scoring.Emerging, r.Addition.Level)
	assert.Equal(t, scoring.Mastery, r.PhonemeAwareness.Level)
	assert.Contains(t, r.Addition.Message, "-5%")
}

func TestSkillUnknownMetric(t *testing.T) {
	r, err := Interpret(sampleAssessment(), scoring.DefaultThresholds())
	require.NoError(t, err)

	_, err = r.Skill("spelling")
	assert.ErrorIs(t, err, types.ErrUnknownMetric)
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	a := sampleAssessment()
	r, err := Interpret(a, scoring.DefaultThresholds())
	require.NoError(t, err)

	p := BuildPrompt(a, r)
	assert.Equal(t, p, BuildPrompt(a, r))

	assert.Contains(t, p, "- Nom: Awa Diallo\n")
	assert.Contains(t, p, "- Niveau: CE1\n")
	assert.Contains(t, p, "- Âge: 8 ans\n")
	assert.Contains(t, p, "- Synthèse lecture: "+r.Summary.Reading)
	assert.Contains(t, p, "- Synthèse mathématiques: "+r.Summary.Mathematics)
	for _, info := range types.Metrics() {
		s, err := r.Skill(info.Key)
		require.NoError(t, err)
		assert.Contains(t, p, "- "+s.Message+"\n")
	}
	assert.True(t, strings.HasSuffix(p, "Adapte ton analyse au niveau scolaire et à l'âge de l'élève.\n"))
}

func TestBuildPromptValuesRoundTrip(t *testing.T) {
	a := sampleAssessment()
	a.EGRA.ReadingFluency = 33.125
	a.EGMA.MissingNumber = 0.1
	a.EGMA.Subtraction = 1e-7

	r, err := Interpret(a, scoring.DefaultThresholds())
	require.NoError(t, err)

	parsed := parsePromptValues(t, BuildPrompt(a, r))
	require.Len(t, parsed, len(types.MetricKeys()))
	for _, key := range types.MetricKeys() {
		want, err := a.Value(key)
		require.NoError(t, err)
		assert.Equal(t, want, parsed[key], "value of %s", key)
	}
}

func parsePromptValues(t *testing.T, prompt string) map[types.MetricKey]float64 {
	t.Helper()
	out := make(map[types.MetricKey]float64)
	sc := bufio.NewScanner(strings.NewReader(prompt))
	for sc.Scan() {
		line := sc.Text()
		for _, key := range types.MetricKeys() {
			prefix := "- " + PromptLabel(key) + ": "
			if !strings.HasPrefix(line, prefix) {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimPrefix(line, prefix), 64)
			require.NoError(t, err, "line %q", line)
			out[key] = v
		}
	}
	require.NoError(t, sc.Err())
	return out
}
