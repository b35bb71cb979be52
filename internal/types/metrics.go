package types

import "fmt"

// MetricKey names one of the nine assessed skills.
type MetricKey string

// Reading (EGRA) metrics.
const (
	LetterIdentification MetricKey = "letterIdentification"
	PhonemeAwareness     MetricKey = "phonemeAwareness"
	ReadingFluency       MetricKey = "readingFluency"
	ReadingComprehension MetricKey = "readingComprehension"
)

// Mathematics (EGMA) metrics.
const (
	NumberIdentification   MetricKey = "numberIdentification"
	QuantityDiscrimination MetricKey = "quantityDiscrimination"
	MissingNumber          MetricKey = "missingNumber"
	Addition               MetricKey = "addition"
	Subtraction            MetricKey = "subtraction"
)

// Domain groups metrics into the reading and mathematics families.
type Domain string

// Domain constants.
const (
	DomainReading     Domain = "reading"
	DomainMathematics Domain = "mathematics"
)

// Unit is the measurement unit of a raw metric value.
type Unit string

// Unit constants.
const (
	UnitLettersPerMinute Unit = "letters/minute"
	UnitWordsPerMinute   Unit = "words/minute"
	UnitNumbersPerMinute Unit = "numbers/minute"
	UnitPercent          Unit = "percent"
)

// IsRate reports whether the unit is a per-minute count.
func (u Unit) IsRate() bool {
	return u != UnitPercent
}

// MetricInfo describes a metric in the registry.
type MetricInfo struct {
	Key    MetricKey
	Domain Domain
	Unit   Unit
}

// registry lists the metrics in canonical order: the four reading metrics
// followed by the five mathematics metrics.
var registry = []MetricInfo{
	{LetterIdentification, DomainReading, UnitLettersPerMinute},
	{PhonemeAwareness, DomainReading, UnitPercent},
	{ReadingFluency, DomainReading, UnitWordsPerMinute},
	{ReadingComprehension, DomainReading, UnitPercent},
	{NumberIdentification, DomainMathematics, UnitNumbersPerMinute},
	{QuantityDiscrimination, DomainMathematics, UnitPercent},
	{MissingNumber, DomainMathematics, UnitPercent},
	{Addition, DomainMathematics, UnitPercent},
	{Subtraction, DomainMathematics, UnitPercent},
}

// Metrics returns a copy of the metric registry in canonical order.
func Metrics() []MetricInfo {
	out := make([]MetricInfo, len(registry))
	copy(out, registry)
	return out
}

// MetricKeys returns the nine metric keys in canonical order.
func MetricKeys() []MetricKey {
	keys := make([]MetricKey, len(registry))
	for i, m := range registry {
		keys[i] = m.Key
	}
	return keys
}

// DomainKeys returns the keys of one domain in canonical order.
func DomainKeys(d Domain) []MetricKey {
	var keys []MetricKey
	for _, m := range registry {
		if m.Domain == d {
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// LookupMetric returns the registry entry for key.
func LookupMetric(key MetricKey) (MetricInfo, error) {
	for _, m := range registry {
		if m.Key == key {
			return m, nil
		}
	}
	return MetricInfo{}, fmt.Errorf("%w: %q", ErrUnknownMetric, string(key))
}

// ParseMetricKey converts a string to a MetricKey, rejecting unknown names.
func ParseMetricKey(s string) (MetricKey, error) {
	m, err := LookupMetric(MetricKey(s))
	if err != nil {
		return "", err
	}
	return m.Key, nil
}
