package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/twolayer/internal/config"
	"github.com/san-kum/twolayer/internal/experiment"
	"github.com/san-kum/twolayer/internal/logger"
	"github.com/san-kum/twolayer/internal/scenario"
	"github.com/san-kum/twolayer/internal/storage"
	"github.com/san-kum/twolayer/internal/units"
)

var ErrInvalidSweep = errors.New("automation: invalid sweep")

// Plan is a scripted sequence of experiments.
type Plan struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Steps       []PlanStep `yaml:"steps"`
}

// PlanStep is a single experiment in a plan.
type PlanStep struct {
	Model      string               `yaml:"model"`
	Preset     string               `yaml:"preset,omitempty"`
	Parameters map[string]string    `yaml:"parameters,omitempty"`
	Forcing    config.ForcingConfig `yaml:"forcing"`
	Workers    int                  `yaml:"workers,omitempty"`
	SaveAs     string               `yaml:"save_as,omitempty"`
}

// StepResult is the outcome of one plan step. RunID is empty unless the
// step was saved.
type StepResult struct {
	Step   int
	Result *experiment.Result
	RunID  string
}

// LoadPlan loads a plan from a YAML file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, err
	}

	for i := range plan.Steps {
		fillForcingDefaults(&plan.Steps[i].Forcing)
	}
	return &plan, nil
}

func fillForcingDefaults(f *config.ForcingConfig) {
	def := config.DefaultConfig().Forcing
	if f.Kind == "" {
		f.Kind = def.Kind
	}
	if f.Start == 0 {
		f.Start = def.Start
	}
	if f.End == 0 {
		f.End = def.End
	}
	if f.StepYear == 0 {
		f.StepYear = f.Start + 1
	}
	if f.Level == 0 {
		f.Level = def.Level
	}
}

// stepConfig turns a plan step into the config it describes, so presets and
// parameter strings resolve the same way as for a config file.
func (s PlanStep) stepConfig() *config.Config {
	cfg := config.DefaultConfig()
	if s.Model != "" {
		cfg.Model = s.Model
	}
	cfg.Preset = s.Preset
	cfg.Parameters = s.Parameters
	cfg.Forcing = s.Forcing
	cfg.Workers = s.Workers
	return cfg
}

// RunPlan executes every step of plan in order. Steps with save_as set are
// written to store when store is not nil.
func RunPlan(ctx context.Context, plan *Plan, registry *experiment.Registry, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(plan.Steps))

	for i, step := range plan.Steps {
		logger.Log.Infow("running plan step", "plan", plan.Name, "step", i+1, "of", len(plan.Steps), "model", step.Model)

		cfg := step.stepConfig()
		params, err := cfg.Quantities()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		drivers, err := cfg.Forcing.Scenarios()
		if err != nil {
			return results, fmt.Errorf("step %d forcing: %w", i+1, err)
		}

		exp := experiment.New(experiment.Config{
			Model:      cfg.Model,
			Parameters: params,
			Workers:    cfg.Workers,
		}, registry)

		res, err := exp.Run(ctx, drivers)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: i + 1, Result: res}
		if store != nil && step.SaveAs != "" {
			id, err := store.Save(res.Metadata(step.SaveAs), res.Outputs)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}

		results = append(results, sr)
	}

	return results, nil
}

// Sweep varies one parameter of a model between Min and Max, both in Unit.
type Sweep struct {
	Model     string
	Parameter string
	Min       float64
	Max       float64
	Points    int
	Unit      string
	Base      map[string]units.Quantity
	Workers   int
}

// SweepPoint holds the headline warming of one sweep value, taken from the
// first driver series.
type SweepPoint struct {
	Value        units.Quantity
	FinalWarming float64
	PeakWarming  float64
	Result       *experiment.Result
}

// Values returns the parameter values the sweep visits.
func (s *Sweep) Values() ([]units.Quantity, error) {
	if s.Points < 1 {
		return nil, fmt.Errorf("%w: need at least one point, got %d", ErrInvalidSweep, s.Points)
	}
	u, err := units.Parse(s.Unit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSweep, err)
	}

	if s.Points == 1 {
		return []units.Quantity{{Magnitude: s.Min, Unit: u}}, nil
	}

	step := (s.Max - s.Min) / float64(s.Points-1)
	out := make([]units.Quantity, s.Points)
	for i := range out {
		out[i] = units.Quantity{Magnitude: s.Min + float64(i)*step, Unit: u}
	}
	return out, nil
}

// RunSweep runs one experiment per sweep value over drivers.
func RunSweep(ctx context.Context, sweep *Sweep, registry *experiment.Registry, drivers []scenario.Scenario) ([]SweepPoint, error) {
	values, err := sweep.Values()
	if err != nil {
		return nil, err
	}

	results := make([]SweepPoint, 0, len(values))
	for i, v := range values {
		params := make(map[string]units.Quantity, len(sweep.Base)+1)
		for k, q := range sweep.Base {
			params[k] = q
		}
		params[sweep.Parameter] = v

		exp := experiment.New(experiment.Config{
			Model:      sweep.Model,
			Parameters: params,
			Workers:    sweep.Workers,
		}, registry)

		res, err := exp.Run(ctx, drivers)
		if err != nil {
			return results, fmt.Errorf("sweep %s=%s: %w", sweep.Parameter, v, err)
		}
		if len(res.Summaries) == 0 {
			return results, fmt.Errorf("sweep %s=%s: no temperature output", sweep.Parameter, v)
		}

		m := res.Summaries[0].Metrics
		results = append(results, SweepPoint{
			Value:        v,
			FinalWarming: m["final_warming"],
			PeakWarming:  m["peak_warming"],
			Result:       res,
		})

		logger.Log.Debugw("sweep point", "index", i+1, "of", len(values), "parameter", sweep.Parameter, "value", v.String())
	}

	return results, nil
}
