package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dotcommander/egralens/internal/config"
	"github.com/dotcommander/egralens/internal/cue"
	"github.com/dotcommander/egralens/internal/discovery"
	"github.com/dotcommander/egralens/internal/importer"
	"github.com/dotcommander/egralens/internal/logging"
	"github.com/dotcommander/egralens/internal/outputters"
	"github.com/dotcommander/egralens/internal/scoring"
	"github.com/dotcommander/egralens/internal/store"
)

// app bundles what every command needs: configuration, logger, schemas and
// the effective thresholds.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	validator  *cue.Validator
	thresholds scoring.Thresholds
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(rootPath, configFile)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	if cfg.Verbose && cfg.Logging.Level == logging.DefaultLevel {
		cfg.Logging.Level = "info"
	}
	logger, err := logging.NewWithWriter(cfg.Logging, stderr)
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}

	validator := cue.NewValidator()
	if err := validator.LoadSchemas(); err != nil {
		return nil, fmt.Errorf("error loading schemas: %w", err)
	}

	th, err := config.LoadThresholds(cfg.ThresholdsFile, validator)
	if err != nil {
		return nil, err
	}
	logger.Debug("thresholds loaded",
		zap.String("file", cfg.ThresholdsFile),
		zap.Stringer("thresholds", th))

	return &app{cfg: cfg, logger: logger, validator: validator, thresholds: th}, nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

func (a *app) outputter() *outputters.Outputter {
	return outputters.NewOutputter(a.cfg, stdout, Version)
}

// loadStore imports the dataset files named by args, or discovered under
// the root, into a fresh store. Discovered YAML or JSON files that are not
// datasets, like earlier reports, are skipped. The returned map gives the
// file each assessment was first read from, keyed by AssessmentData.Key.
func (a *app) loadStore(args []string) (*store.Store, map[string]string, error) {
	files, err := discovery.NewFileDiscovery(a.cfg.Root, a.cfg.FollowSymlinks, a.cfg.Exclude...).Resolve(args)
	if err != nil {
		return nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, fmt.Errorf("no dataset files found in %s", a.cfg.Root)
	}

	im, err := importer.New(importer.Options{
		Mapping:   a.cfg.Import.Mapping,
		Date:      a.cfg.Import.Date,
		Validator: a.validator,
		Logger:    a.logger.Named("import"),
	})
	if err != nil {
		return nil, nil, err
	}

	st := store.New(a.logger.Named("store"))
	sources := make(map[string]string)
	loaded := 0
	for _, f := range files {
		d, err := im.LoadFiles([]discovery.File{f})
		if err != nil {
			return nil, nil, err
		}
		if len(d.Students) == 0 && len(d.Assessments) == 0 {
			continue
		}
		loaded++
		for _, as := range d.Assessments {
			if _, ok := sources[as.Key()]; !ok {
				sources[as.Key()] = f.RelPath
			}
		}
		students, assessments := st.Import(d)
		a.logger.Debug("dataset imported",
			zap.String("file", f.RelPath),
			zap.Int("students", students),
			zap.Int("assessments", assessments))
	}
	if loaded == 0 {
		return nil, nil, fmt.Errorf("no dataset files found in %s", a.cfg.Root)
	}
	return st, sources, nil
}
