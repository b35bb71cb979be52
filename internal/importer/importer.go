// Package importer reads assessment datasets from CSV sheets and from
// structured YAML or JSON exports.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/egralens/internal/cue"
	"github.com/dotcommander/egralens/internal/discovery"
	"github.com/dotcommander/egralens/internal/types"
)

// DateLayout is the calendar date format of assessment dates.
const DateLayout = "2006-01-02"

// ErrNotDataset marks a YAML or JSON document that has neither a students
// nor an assessments key, such as a saved report or a thresholds file.
var ErrNotDataset = errors.New("not a dataset: no students or assessments key")

// Options configures an Importer.
type Options struct {
	Mapping ColumnMapping
	// Date is stamped on rows without a date column. Empty means today.
	Date      string
	Now       func() time.Time
	NewID     func() string
	Validator *cue.Validator
	Logger    *zap.Logger
}

// Importer converts files into datasets.
type Importer struct {
	mapping   ColumnMapping
	date      string
	newID     func() string
	validator *cue.Validator
	logger    *zap.Logger
}

// New creates an Importer, filling in defaults for unset options.
func New(opts Options) (*Importer, error) {
	if opts.Mapping == (ColumnMapping{}) {
		opts.Mapping = DefaultMapping()
	}
	if err := opts.Mapping.Validate(); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Validator == nil {
		opts.Validator = cue.NewValidator()
		if err := opts.Validator.LoadSchemas(); err != nil {
			return nil, err
		}
	}

	date := strings.TrimSpace(opts.Date)
	if date == "" {
		date = opts.Now().Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("invalid import date %q: expected YYYY-MM-DD", opts.Date)
	}

	return &Importer{
		mapping:   opts.Mapping,
		date:      date,
		newID:     opts.NewID,
		validator: opts.Validator,
		logger:    opts.Logger,
	}, nil
}

// LoadFile reads one dataset file, choosing the reader by extension.
func (im *Importer) LoadFile(path string) (types.Dataset, error) {
	ft, err := discovery.DetectFileType(path)
	if err != nil {
		return types.Dataset{}, err
	}
	return im.load(path, ft)
}

// LoadFiles reads and merges files in order. Discovered files that are not
// datasets are skipped; explicit ones fail with ErrNotDataset.
func (im *Importer) LoadFiles(files []discovery.File) (types.Dataset, error) {
	var merged types.Dataset
	for _, f := range files {
		d, err := im.load(f.Path, f.Type)
		if errors.Is(err, ErrNotDataset) && !f.Explicit {
			im.logger.Debug("skipping non-dataset file", zap.String("file", f.Path))
			continue
		}
		if err != nil {
			return types.Dataset{}, err
		}
		merged.Students = append(merged.Students, d.Students...)
		merged.Assessments = append(merged.Assessments, d.Assessments...)
	}
	return merged, nil
}

func (im *Importer) load(path string, ft discovery.FileType) (types.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var d types.Dataset
	switch ft {
	case discovery.FileTypeCSV:
		d, err = im.ReadCSV(bytes.NewReader(data), path)
	case discovery.FileTypeYAML, discovery.FileTypeJSON:
		d, err = im.ReadStructured(data, path)
	default:
		return types.Dataset{}, fmt.Errorf("unsupported file type %s: %s", ft, path)
	}
	if err != nil {
		return types.Dataset{}, err
	}

	im.logger.Info("dataset loaded",
		zap.String("file", path),
		zap.String("type", ft.String()),
		zap.Int("students", len(d.Students)),
		zap.Int("assessments", len(d.Assessments)))
	return d, nil
}

// ReadCSV reads a sheet whose first row holds the column headers. Each
// row yields one student and one assessment. Semicolon-separated exports
// and decimal commas are accepted.
func (im *Importer) ReadCSV(r io.Reader, name string) (types.Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return types.Dataset{}, fmt.Errorf("reading %s: %w", name, err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(raw))
	cr.Comma = detectDelimiter(raw)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return types.Dataset{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	if len(rows) < 2 {
		return types.Dataset{}, fmt.Errorf("%s contains no data rows", name)
	}

	cols, err := im.resolveColumns(rows[0])
	if err != nil {
		return types.Dataset{}, fmt.Errorf("%s: %w", name, err)
	}

	var d types.Dataset
	var errs []error
	for i, row := range rows[1:] {
		line := i + 2
		if isBlank(row) {
			continue
		}
		a, err := im.parseRow(row, cols)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: line %d: %w", name, line, err))
			continue
		}
		d.Students = append(d.Students, a.Student)
		d.Assessments = append(d.Assessments, a)
	}
	if len(errs) > 0 {
		return types.Dataset{}, errors.Join(errs...)
	}
	return d, nil
}

// columns holds header indexes; -1 means the column is absent.
type columns struct {
	id, name, grade, age, gender, date int
	metrics                            map[types.MetricKey]int
}

func (im *Importer) resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	lookup := func(col string) int {
		if isUnmapped(col) {
			return -1
		}
		if i, ok := index[strings.ToLower(strings.TrimSpace(col))]; ok {
			return i
		}
		return -1
	}

	c := columns{
		id:      lookup(im.mapping.ID),
		name:    lookup(im.mapping.Name),
		grade:   lookup(im.mapping.Grade),
		age:     lookup(im.mapping.Age),
		gender:  lookup(im.mapping.Gender),
		date:    lookup(im.mapping.Date),
		metrics: make(map[types.MetricKey]int),
	}

	var missing []string
	for _, f := range []struct {
		field, col string
		idx        int
	}{
		{"name", im.mapping.Name, c.name},
		{"grade", im.mapping.Grade, c.grade},
		{"age", im.mapping.Age, c.age},
		{"gender", im.mapping.Gender, c.gender},
	} {
		if f.idx < 0 {
			missing = append(missing, fmt.Sprintf("%s (column %q)", f.field, f.col))
		}
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	for _, key := range types.MetricKeys() {
		c.metrics[key] = lookup(im.mapping.Metric(key))
		if c.metrics[key] < 0 {
			im.logger.Debug("metric column not mapped, scores import as 0", zap.String("metric", string(key)))
		}
	}
	return c, nil
}

func (im *Importer) parseRow(row []string, c columns) (types.AssessmentData, error) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	age, err := parseAge(cell(c.age))
	if err != nil {
		return types.AssessmentData{}, err
	}

	id := cell(c.id)
	if id == "" {
		id = im.newID()
	}
	gender := types.GenderFemale
	if strings.EqualFold(cell(c.gender), "M") {
		gender = types.GenderMale
	}
	date := cell(c.date)
	if date == "" {
		date = im.date
	}

	a := types.AssessmentData{
		Student: types.Student{
			ID:     id,
			Name:   cell(c.name),
			Grade:  cell(c.grade),
			Age:    age,
			Gender: gender,
		},
		Date: date,
	}

	values := make(map[types.MetricKey]float64, len(c.metrics))
	for key, idx := range c.metrics {
		v, err := parseScore(cell(idx))
		if err != nil {
			return types.AssessmentData{}, fmt.Errorf("%s: %w", key, err)
		}
		values[key] = v
	}
	a.EGRA = types.EGRAMetrics{
		LetterIdentification: values[types.LetterIdentification],
		PhonemeAwareness:     values[types.PhonemeAwareness],
		ReadingFluency:       values[types.ReadingFluency],
		ReadingComprehension: values[types.ReadingComprehension],
	}
	a.EGMA = types.EGMAMetrics{
		NumberIdentification:   values[types.NumberIdentification],
		QuantityDiscrimination: values[types.QuantityDiscrimination],
		MissingNumber:          values[types.MissingNumber],
		Addition:               values[types.Addition],
		Subtraction:            values[types.Subtraction],
	}

	if err := a.Validate(); err != nil {
		return types.AssessmentData{}, err
	}
	return a, nil
}

// rawDataset mirrors types.Dataset with untyped records for schema checks.
type rawDataset struct {
	Students    []map[string]any `yaml:"students"`
	Assessments []map[string]any `yaml:"assessments"`
}

// ReadStructured reads a {students, assessments} document in YAML or JSON.
// Every record is checked against the CUE schema before decoding.
func (im *Importer) ReadStructured(data []byte, name string) (types.Dataset, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.Dataset{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	if !hasDatasetKeys(doc) {
		return types.Dataset{}, fmt.Errorf("%s: %w", name, ErrNotDataset)
	}

	var raw rawDataset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return types.Dataset{}, fmt.Errorf("parsing %s: %w", name, err)
	}
	if len(raw.Students) == 0 && len(raw.Assessments) == 0 {
		return types.Dataset{}, fmt.Errorf("%s contains no students or assessments", name)
	}

	var problems []string
	check := func(kind string, i int, errs []cue.ValidationError, err error) error {
		if err != nil {
			return err
		}
		for _, e := range errs {
			e.File = name
			e.Record = i
			problems = append(problems, kind+" "+e.String())
		}
		return nil
	}
	for i, s := range raw.Students {
		errs, err := im.validator.ValidateStudent(s)
		if err := check("student", i, errs, err); err != nil {
			return types.Dataset{}, err
		}
	}
	for i, a := range raw.Assessments {
		errs, err := im.validator.ValidateAssessment(a)
		if err := check("assessment", i, errs, err); err != nil {
			return types.Dataset{}, err
		}
	}
	if len(problems) > 0 {
		return types.Dataset{}, fmt.Errorf("invalid dataset:\n  %s", strings.Join(problems, "\n  "))
	}

	var d types.Dataset
	if err := yaml.Unmarshal(data, &d); err != nil {
		return types.Dataset{}, fmt.Errorf("decoding %s: %w", name, err)
	}

	// Students referenced only by their assessments join the roster.
	known := make(map[string]bool, len(d.Students))
	for _, s := range d.Students {
		known[s.ID] = true
	}
	for _, a := range d.Assessments {
		if !known[a.Student.ID] {
			known[a.Student.ID] = true
			d.Students = append(d.Students, a.Student)
		}
	}
	return d, nil
}

func hasDatasetKeys(doc any) bool {
	m, ok := doc.(map[string]any)
	if !ok {
		return false
	}
	_, students := m["students"]
	_, assessments := m["assessments"]
	return students || assessments
}

func detectDelimiter(raw []byte) rune {
	header := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		header = raw[:i]
	}
	if bytes.Count(header, []byte(";")) > bytes.Count(header, []byte(",")) {
		return ';'
	}
	return ','
}

func parseAge(s string) (int, error) {
	if s == "" {
		return 0, errors.New("age is empty")
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || f < 0 || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid age %q", s)
	}
	return int(f), nil
}

// parseScore reads a score cell. Empty cells are 0.
func parseScore(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid score %q", s)
	}
	return v, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
