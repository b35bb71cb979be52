package scoring

import (
	"errors"
	"fmt"
)

// ErrEmptyLevels is returned when aggregating an empty set of levels.
var ErrEmptyLevels = errors.New("no levels to aggregate")

// Level is the classification outcome for a single metric or a whole domain.
type Level string

// Level constants, from highest to lowest.
const (
	Mastery    Level = "mastery"
	Developing Level = "developing"
	Emerging   Level = "emerging"
)

// Levels returns the three levels from highest to lowest.
func Levels() []Level {
	return []Level{Mastery, Developing, Emerging}
}

// Valid reports whether l is one of the three known levels.
func (l Level) Valid() bool {
	switch l {
	case Mastery, Developing, Emerging:
		return true
	default:
		return false
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", fmt.Errorf("invalid level %q: valid levels are mastery, developing, emerging", s)
	}
	return l, nil
}

// Classify returns the level of value against cfg. Boundaries are inclusive
// on the upper side, so a value equal to a cut point takes the higher level.
// Any real value classifies, including negative or above-100 inputs.
func Classify(value float64, cfg ThresholdConfig) Level {
	switch {
	case value >= cfg.Mastery:
		return Mastery
	case value >= cfg.Developing:
		return Developing
	default:
		return Emerging
	}
}

// LevelCounts tallies levels of a domain.
type LevelCounts struct {
	Mastery    int `json:"mastery"`
	Developing int `json:"developing"`
	Emerging   int `json:"emerging"`
}

// Total returns the number of counted levels.
func (c LevelCounts) Total() int {
	return c.Mastery + c.Developing + c.Emerging
}

// Add increments the counter for l. Unknown levels are ignored.
func (c *LevelCounts) Add(l Level) {
	switch l {
	case Mastery:
		c.Mastery++
	case Developing:
		c.Developing++
	case Emerging:
		c.Emerging++
	}
}

// CountLevels tallies a slice of levels.
func CountLevels(levels []Level) LevelCounts {
	var c LevelCounts
	for _, l := range levels {
		c.Add(l)
	}
	return c
}

// Aggregate reduces the per-metric levels of one domain to an overall level.
//
// Mastery wins when at least half of the levels are mastery; otherwise
// emerging wins when at least half are emerging; otherwise developing.
// Mastery is checked first, so an exact half/half split resolves to mastery.
// Counts are doubled rather than halving the length, which keeps the
// comparison against the exact half for odd lengths.
func Aggregate(levels []Level) (Level, error) {
	if len(levels) == 0 {
		return "", ErrEmptyLevels
	}
	c := CountLevels(levels)
	n := len(levels)
	switch {
	case 2*c.Mastery >= n:
		return Mastery, nil
	case 2*c.Emerging >= n:
		return Emerging, nil
	default:
		return Developing, nil
	}
}
