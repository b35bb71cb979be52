// Package summary computes class-level statistics over a dataset: per-grade
// EGRA/EGMA averages and the distribution of overall levels.
package summary

import (
	"fmt"
	"math"
	"sort"

	"github.com/dotcommander/egralens/internal/interpret"
	"github.com/dotcommander/egralens/internal/scoring"
	"github.com/dotcommander/egralens/internal/types"
)

// GradeSummary aggregates the assessments of one grade.
type GradeSummary struct {
	Grade       string              `json:"grade"`
	Students    int                 `json:"students"`
	Assessments int                 `json:"assessments"`
	EGRA        int                 `json:"egra"`
	EGMA        int                 `json:"egma"`
	Reading     scoring.LevelCounts `json:"reading"`
	Mathematics scoring.LevelCounts `json:"mathematics"`
}

// SkillDistribution counts the levels reached on one metric.
type SkillDistribution struct {
	Metric types.MetricKey     `json:"metric"`
	Domain types.Domain        `json:"domain"`
	Levels scoring.LevelCounts `json:"levels"`
}

// Report is the class summary. EGRA and EGMA are the mean of the grade
// averages, each rounded to an integer.
type Report struct {
	Grade       string              `json:"grade,omitempty"`
	Students    int                 `json:"students"`
	Assessments int                 `json:"assessments"`
	EGRA        int                 `json:"egra"`
	EGMA        int                 `json:"egma"`
	Reading     scoring.LevelCounts `json:"reading"`
	Mathematics scoring.LevelCounts `json:"mathematics"`
	Skills      []SkillDistribution `json:"skills"`
	Grades      []GradeSummary      `json:"grades"`
}

// Empty reports whether the summary covers no assessment.
func (r *Report) Empty() bool {
	return r.Assessments == 0
}

// Round rounds half away from zero, so -2.5 gives -3. This deliberately
// differs from JavaScript's Math.round, which rounds halves toward +Inf
// and gives -2; the two only disagree on negative halves, which can occur
// because out-of-range scores are accepted.
func Round(v float64) int {
	return int(math.Round(v))
}

// EGRAAverage is the mean of the four reading scores of an assessment.
func EGRAAverage(a types.AssessmentData) float64 {
	return domainMean(a, types.DomainReading)
}

// EGMAAverage is the mean of the five mathematics scores of an assessment.
func EGMAAverage(a types.AssessmentData) float64 {
	return domainMean(a, types.DomainMathematics)
}

func domainMean(a types.AssessmentData, d types.Domain) float64 {
	keys := types.DomainKeys(d)
	if len(keys) == 0 {
		return 0
	}
	var sum float64
	for _, k := range keys {
		v, _ := a.Value(k)
		sum += v
	}
	return sum / float64(len(keys))
}

type gradeAcc struct {
	summary  GradeSummary
	students map[string]struct{}
	egra     float64
	egma     float64
}

// Build summarizes d. When grade is non-empty only that grade is counted.
// Students are counted from d.Students plus any student that only appears
// in an assessment.
func Build(d types.Dataset, th scoring.Thresholds, grade string) (*Report, error) {
	th = th.OrDefault()
	report := &Report{Grade: grade}

	accs := make(map[string]*gradeAcc)
	acc := func(g string) *gradeAcc {
		a, ok := accs[g]
		if !ok {
			a = &gradeAcc{summary: GradeSummary{Grade: g}, students: make(map[string]struct{})}
			accs[g] = a
		}
		return a
	}
	keep := func(g string) bool { return grade == "" || g == grade }

	for _, st := range d.Students {
		if keep(st.Grade) {
			acc(st.Grade).students[st.ID] = struct{}{}
		}
	}

	skills := make(map[types.MetricKey]*scoring.LevelCounts)
	for _, k := range types.MetricKeys() {
		skills[k] = &scoring.LevelCounts{}
	}

	for _, a := range d.Assessments {
		if !keep(a.Student.Grade) {
			continue
		}
		r, err := interpret.Interpret(a, th)
		if err != nil {
			return nil, fmt.Errorf("summarizing %s on %s: %w", a.Student.ID, a.Date, err)
		}

		g := acc(a.Student.Grade)
		g.students[a.Student.ID] = struct{}{}
		g.summary.Assessments++
		g.egra += EGRAAverage(a)
		g.egma += EGMAAverage(a)
		g.summary.Reading.Add(r.ReadingLevel)
		g.summary.Mathematics.Add(r.MathematicsLevel)

		report.Reading.Add(r.ReadingLevel)
		report.Mathematics.Add(r.MathematicsLevel)
		for _, k := range types.MetricKeys() {
			sl, err := r.Skill(k)
			if err != nil {
				return nil, err
			}
			skills[k].Add(sl.Level)
		}
	}

	names := make([]string, 0, len(accs))
	for g := range accs {
		names = append(names, g)
	}
	sort.Strings(names)

	var egraSum, egmaSum float64
	var averaged int
	for _, name := range names {
		g := accs[name]
		g.summary.Students = len(g.students)
		if g.summary.Assessments > 0 {
			n := float64(g.summary.Assessments)
			g.summary.EGRA = Round(g.egra / n)
			g.summary.EGMA = Round(g.egma / n)
			egraSum += float64(g.summary.EGRA)
			egmaSum += float64(g.summary.EGMA)
			averaged++
		}
		report.Students += g.summary.Students
		report.Assessments += g.summary.Assessments
		report.Grades = append(report.Grades, g.summary)
	}
	if averaged > 0 {
		report.EGRA = Round(egraSum / float64(averaged))
		report.EGMA = Round(egmaSum / float64(averaged))
	}

	for _, info := range types.Metrics() {
		report.Skills = append(report.Skills, SkillDistribution{
			Metric: info.Key,
			Domain: info.Domain,
			Levels: *skills[info.Key],
		})
	}
	return report, nil
}
