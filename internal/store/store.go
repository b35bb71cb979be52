// Package store keeps the imported dataset in memory for the lifetime of
// one process.
package store

import (
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/dotcommander/egralens/internal/types"
)

// Store holds students and assessments. Students are unique by ID and
// assessments by (student ID, date). Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	students    []types.Student
	assessments []types.AssessmentData
	studentIDs  map[string]struct{}
	keys        map[string]struct{}
	logger      *zap.Logger
}

// New creates an empty store.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		studentIDs: make(map[string]struct{}),
		keys:       make(map[string]struct{}),
		logger:     logger,
	}
}

// AddStudents appends students whose ID is not yet known and returns how
// many were added.
func (s *Store) AddStudents(students []types.Student) int {
	s.mu.Lock()
	added := s.addStudentsLocked(students)
	s.mu.Unlock()

	if added > 0 {
		s.logger.Info("students added", zap.Int("count", added))
	}
	return added
}

// AddAssessments appends assessments whose (student ID, date) pair is not
// yet known, including duplicates within the batch, and returns how many
// were added.
func (s *Store) AddAssessments(assessments []types.AssessmentData) int {
	s.mu.Lock()
	added := s.addAssessmentsLocked(assessments)
	s.mu.Unlock()

	if added > 0 {
		s.logger.Info("assessments added", zap.Int("count", added))
	}
	return added
}

// Import adds both halves of a dataset.
func (s *Store) Import(d types.Dataset) (students, assessments int) {
	return s.AddStudents(d.Students), s.AddAssessments(d.Assessments)
}

// Replace discards the current contents and loads d.
func (s *Store) Replace(d types.Dataset) {
	s.mu.Lock()
	s.resetLocked()
	students := s.addStudentsLocked(d.Students)
	assessments := s.addAssessmentsLocked(d.Assessments)
	s.mu.Unlock()

	s.logger.Info("data replaced",
		zap.Int("students", students),
		zap.Int("assessments", assessments))
}

// Reset empties the store.
func (s *Store) Reset() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	s.logger.Info("data reset")
}

// Students returns a copy of the stored students in insertion order.
func (s *Store) Students() []types.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.students)
}

// Assessments returns a copy of the stored assessments in insertion order.
func (s *Store) Assessments() []types.AssessmentData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.assessments)
}

// Dataset returns a snapshot of the whole store.
func (s *Store) Dataset() types.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return types.Dataset{
		Students:    slices.Clone(s.students),
		Assessments: slices.Clone(s.assessments),
	}
}

// Len returns the number of students and assessments.
func (s *Store) Len() (students, assessments int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students), len(s.assessments)
}

// ForStudent returns the assessments of one student ordered by date.
func (s *Store) ForStudent(id string) []types.AssessmentData {
	return s.filter(func(a types.AssessmentData) bool { return a.Student.ID == id }, true)
}

// ByGrade returns the assessments of students in the given grade.
func (s *Store) ByGrade(grade string) []types.AssessmentData {
	return s.filter(func(a types.AssessmentData) bool { return a.Student.Grade == grade }, false)
}

// Grades returns the distinct grades found in the assessments, sorted.
func (s *Store) Grades() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var grades []string
	for _, a := range s.assessments {
		if _, ok := seen[a.Student.Grade]; ok {
			continue
		}
		seen[a.Student.Grade] = struct{}{}
		grades = append(grades, a.Student.Grade)
	}
	sort.Strings(grades)
	return grades
}

func (s *Store) filter(keep func(types.AssessmentData) bool, byDate bool) []types.AssessmentData {
	s.mu.RLock()
	var out []types.AssessmentData
	for _, a := range s.assessments {
		if keep(a) {
			out = append(out, a)
		}
	}
	s.mu.RUnlock()

	if byDate {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	}
	return out
}

func (s *Store) addStudentsLocked(students []types.Student) int {
	added := 0
	for _, st := range students {
		if _, ok := s.studentIDs[st.ID]; ok {
			continue
		}
		s.studentIDs[st.ID] = struct{}{}
		s.students = append(s.students, st)
		added++
	}
	return added
}

func (s *Store) addAssessmentsLocked(assessments []types.AssessmentData) int {
	added := 0
	for _, a := range assessments {
		key := a.Key()
		if _, ok := s.keys[key]; ok {
			continue
		}
		s.keys[key] = struct{}{}
		s.assessments = append(s.assessments, a)
		added++
	}
	return added
}

func (s *Store) resetLocked() {
	s.students = nil
	s.assessments = nil
	s.studentIDs = make(map[string]struct{})
	s.keys = make(map[string]struct{})
}
