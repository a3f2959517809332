package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/twolayer/internal/scenario"
	"github.com/san-kum/twolayer/internal/units"
)

const (
	DefaultModel     = "two_layer"
	DefaultStartYear = 1750
	DefaultEndYear   = 2500
	DefaultStepLevel = 7.4
	DefaultRunDir    = "runs"
)

// Forcing kinds.
const (
	ForcingSinusoidRamp = "sinusoid_ramp"
	ForcingAbrupt       = "abrupt"
	ForcingCSV          = "csv"
)

type Config struct {
	Model      string            `yaml:"model"`
	Preset     string            `yaml:"preset,omitempty"`
	Parameters map[string]string `yaml:"parameters,omitempty"`
	Forcing    ForcingConfig     `yaml:"forcing"`
	Output     OutputConfig      `yaml:"output"`
	Workers    int               `yaml:"workers,omitempty"`
}

type ForcingConfig struct {
	Kind     string  `yaml:"kind"`
	Path     string  `yaml:"path,omitempty"`
	Variable string  `yaml:"variable,omitempty"`
	Start    int     `yaml:"start,omitempty"`
	End      int     `yaml:"end,omitempty"`
	StepYear int     `yaml:"step_year,omitempty"`
	Level    float64 `yaml:"level,omitempty"`
}

type OutputConfig struct {
	Dir  string `yaml:"dir"`
	Save bool   `yaml:"save"`
}

func DefaultConfig() *Config {
	return &Config{
		Model: DefaultModel,
		Forcing: ForcingConfig{
			Kind:     ForcingSinusoidRamp,
			Start:    DefaultStartYear,
			End:      DefaultEndYear,
			StepYear: DefaultStartYear + 1,
			Level:    DefaultStepLevel,
		},
		Output: OutputConfig{Dir: DefaultRunDir},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Quantities parses the preset parameters, then the file parameters on
// top, into unit-carrying overrides.
func (c *Config) Quantities() (map[string]units.Quantity, error) {
	raw := make(map[string]string)
	if c.Preset != "" {
		p := GetPreset(c.Model, c.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for model %s", c.Preset, c.Model)
		}
		for k, v := range p.Parameters {
			raw[k] = v
		}
	}
	for k, v := range c.Parameters {
		raw[k] = v
	}

	out := make(map[string]units.Quantity, len(raw))
	for k, v := range raw {
		q, err := units.ParseQuantity(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", k, err)
		}
		out[k] = q
	}
	return out, nil
}

// Scenarios builds the driver table described by f.
func (f ForcingConfig) Scenarios() ([]scenario.Scenario, error) {
	switch f.Kind {
	case "", ForcingSinusoidRamp:
		return []scenario.Scenario{scenario.SinusoidRamp(f.Start, f.End)}, nil
	case ForcingAbrupt:
		return []scenario.Scenario{scenario.AbruptStep(f.Start, f.End, f.StepYear, f.Level)}, nil
	case ForcingCSV:
		file, err := os.Open(f.Path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return scenario.ReadCSV(file)
	default:
		return nil, fmt.Errorf("unknown forcing kind: %s", f.Kind)
	}
}
