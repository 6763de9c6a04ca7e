package config

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/cognicore/bitext/internal/bitexterr"
	"github.com/cognicore/bitext/pkg/bitext/registry"
)

// Config is a loaded pipeline configuration.
//
// Two YAML shapes are accepted. A structured document with a "stages" list
// names every stage with its parameters. A flat mapping of stage name to
// "true"/"false" enables stages with their default parameters, in file
// order; unknown names in a flat mapping are logged and skipped.
type Config struct {
	Workers    int                  `yaml:"workers"`
	KeyWorkers int                  `yaml:"key_workers"`
	Stages     []registry.StageSpec `yaml:"stages"`

	toggles []toggle
}

type toggle struct {
	name    string
	enabled bool
}

// Load reads a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", bitexterr.ErrInvalidConfig, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration document.
func Parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", bitexterr.ErrInvalidConfig, err)
	}
	if len(doc.Content) == 0 {
		return &Config{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", bitexterr.ErrInvalidConfig)
	}

	if isStructured(root) {
		for i := 0; i < len(root.Content); i += 2 {
			if key := root.Content[i]; !structuredKeys[key.Value] {
				return nil, fmt.Errorf("%w: unknown key %q at line %d (stage toggles cannot be mixed with a stages list)",
					bitexterr.ErrInvalidConfig, key.Value, key.Line)
			}
		}
		var cfg Config
		if err := root.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", bitexterr.ErrInvalidConfig, err)
		}
		if cfg.Workers < 0 || cfg.KeyWorkers < 0 {
			return nil, fmt.Errorf("%w: worker counts must be non-negative", bitexterr.ErrInvalidConfig)
		}
		for i, s := range cfg.Stages {
			if strings.TrimSpace(s.Name) == "" {
				return nil, fmt.Errorf("%w: stage %d has no name", bitexterr.ErrInvalidConfig, i+1)
			}
		}
		return &cfg, nil
	}

	cfg := &Config{}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: %s: expected a scalar value", bitexterr.ErrInvalidConfig, key.Value)
		}
		on, err := parseSwitch(val.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", bitexterr.ErrInvalidConfig, key.Value, err)
		}
		cfg.toggles = append(cfg.toggles, toggle{name: key.Value, enabled: on})
	}
	return cfg, nil
}

// structuredKeys are the top-level keys of the structured form.
var structuredKeys = map[string]bool{"stages": true, "workers": true, "key_workers": true}

func isStructured(root *yaml.Node) bool {
	for i := 0; i < len(root.Content); i += 2 {
		if structuredKeys[root.Content[i].Value] {
			return true
		}
	}
	return false
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1", "enabled":
		return true, nil
	case "false", "no", "off", "0", "disabled":
		return false, nil
	}
	return false, fmt.Errorf("expected true or false, got %q", s)
}

// Specs returns the stage list to resolve. For a flat mapping, names the
// registry does not know are logged and dropped; for a structured document
// they are returned as is and fail in the registry.
func (c *Config) Specs(reg *registry.Registry, logger *zap.Logger) []registry.StageSpec {
	if c.toggles == nil {
		return c.Stages
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var specs []registry.StageSpec
	for _, t := range c.toggles {
		if !reg.Has(t.name) {
			logger.Warn("config: ignoring unknown stage", zap.String("stage", t.name))
			continue
		}
		if t.enabled {
			specs = append(specs, registry.StageSpec{Name: t.name})
		}
	}
	return specs
}

// IsFlat reports whether the document used the name-to-switch form.
func (c *Config) IsFlat() bool { return c.toggles != nil }
