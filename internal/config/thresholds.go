package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/egralens/internal/cue"
	"github.com/dotcommander/egralens/internal/scoring"
	"github.com/dotcommander/egralens/internal/types"
)

// LoadThresholds reads a YAML or JSON threshold file and merges it over the
// defaults. Partial files are allowed. An empty path returns the defaults.
// A nil validator skips the schema check.
func LoadThresholds(path string, v *cue.Validator) (scoring.Thresholds, error) {
	th := scoring.DefaultThresholds()
	if path == "" {
		return th, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Thresholds{}, fmt.Errorf("error reading thresholds file: %w", err)
	}

	if v != nil {
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return scoring.Thresholds{}, fmt.Errorf("error parsing thresholds file %s: %w", path, err)
		}
		errs, err := v.ValidateThresholds(raw)
		if err != nil {
			return scoring.Thresholds{}, err
		}
		if len(errs) > 0 {
			msgs := make([]string, 0, len(errs))
			for _, e := range errs {
				e.File = path
				msgs = append(msgs, e.String())
			}
			return scoring.Thresholds{}, fmt.Errorf("invalid thresholds:\n  %s", strings.Join(msgs, "\n  "))
		}
	}

	var overrides map[string]scoring.ThresholdConfig
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return scoring.Thresholds{}, fmt.Errorf("error parsing thresholds file %s: %w", path, err)
	}

	for name, cfg := range overrides {
		key, err := types.ParseMetricKey(name)
		if err != nil {
			return scoring.Thresholds{}, fmt.Errorf("%s: %w", path, err)
		}
		if th, err = th.With(key, cfg); err != nil {
			return scoring.Thresholds{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	return th, nil
}

// SaveThresholds writes th as YAML in canonical metric order.
func SaveThresholds(th scoring.Thresholds, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range types.MetricKeys() {
		cfg, err := th.For(key)
		if err != nil {
			return err
		}
		var value yaml.Node
		if err := value.Encode(cfg); err != nil {
			return fmt.Errorf("error marshaling thresholds: %w", err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(key)},
			&value)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error marshaling thresholds: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing thresholds file: %w", err)
	}
	return nil
}
