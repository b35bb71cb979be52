package output

import (
	"time"

	"github.com/dotcommander/egralens/internal/interpret"
	"github.com/dotcommander/egralens/internal/types"
)

// Result pairs an assessment with its interpretation.
type Result struct {
	Assessment     types.AssessmentData
	Interpretation *interpret.FullInterpretation
	Source         string // dataset file the assessment came from, if known
}

// InterpretationReport is the input of every interpretation formatter.
type InterpretationReport struct {
	Results   []Result
	StartTime time.Time
	Root      string
	Backend   string
}

// Generated counts the results that carry a generated narrative.
func (r *InterpretationReport) Generated() int {
	n := 0
	for _, res := range r.Results {
		if res.Interpretation != nil && res.Interpretation.HasGenerated() {
			n++
		}
	}
	return n
}

func (r *InterpretationReport) duration() time.Duration {
	if r.StartTime.IsZero() {
		return 0
	}
	return time.Since(r.StartTime).Round(time.Millisecond)
}
