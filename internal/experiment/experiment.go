package experiment

import (
	"context"
	"errors"
	"strconv"

	"github.com/san-kum/twolayer/internal/dynamo"
	"github.com/san-kum/twolayer/internal/metrics"
	"github.com/san-kum/twolayer/internal/scenario"
	"github.com/san-kum/twolayer/internal/storage"
	"github.com/san-kum/twolayer/internal/units"
)

var ErrUnknownModel = errors.New("experiment: unknown model")

type Config struct {
	Model          string
	Parameters     map[string]units.Quantity
	Workers        int
	DriverVariable string
}

// Summary holds the diagnostics of one driver series.
type Summary struct {
	RunIdx   int
	Scenario string
	Metrics  map[string]float64
}

type Result struct {
	Model      string
	Parameters []dynamo.Parameter
	Outputs    []scenario.Scenario
	Summaries  []Summary
}

type Experiment struct {
	cfg      Config
	registry *Registry
}

func New(cfg Config, registry *Registry) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{cfg: cfg, registry: registry}
}

// Run checks the configured parameters by building one model, then runs
// every World driver series in drivers.
func (e *Experiment) Run(ctx context.Context, drivers []scenario.Scenario) (*Result, error) {
	probe, err := e.registry.GetModel(e.cfg.Model, e.cfg.Parameters)
	if err != nil {
		return nil, err
	}

	factory, err := e.registry.GetFactory(e.cfg.Model, e.cfg.Parameters)
	if err != nil {
		return nil, err
	}

	var opts []scenario.Option
	if e.cfg.Workers > 0 {
		opts = append(opts, scenario.WithWorkers(e.cfg.Workers))
	}
	if e.cfg.DriverVariable != "" {
		opts = append(opts, scenario.WithDriverVariable(e.cfg.DriverVariable))
	}

	out, err := scenario.NewRunner(factory, opts...).Run(ctx, drivers)
	if err != nil {
		return nil, err
	}

	return &Result{
		Model:      probe.Name(),
		Parameters: probe.Parameters(),
		Outputs:    out,
		Summaries:  Summarize(out),
	}, nil
}

// Metadata converts r into the record kept by the run store.
func (r *Result) Metadata(label string) storage.RunMetadata {
	params := make(map[string]string, len(r.Parameters))
	for _, p := range r.Parameters {
		params[p.Name] = p.Value.String()
	}

	runs := make([]storage.RunSummary, len(r.Summaries))
	for i, s := range r.Summaries {
		runs[i] = storage.RunSummary{RunIdx: s.RunIdx, Scenario: s.Scenario, Metrics: s.Metrics}
	}

	return storage.RunMetadata{
		Label:      label,
		Model:      r.Model,
		Parameters: params,
		Runs:       runs,
	}
}

// headline temperature variables, in order of preference
var surfaceVariables = []string{
	dynamo.VarSurfaceTemperature,
	dynamo.VarSurfaceTemperatureUpper,
}

// Summarize evaluates the default metrics for each run in a runner output.
func Summarize(out []scenario.Scenario) []Summary {
	byRun := make(map[string][]scenario.Scenario)
	var order []string
	for _, s := range out {
		idx := s.Get(scenario.MetaRunIdx)
		if _, ok := byRun[idx]; !ok {
			order = append(order, idx)
		}
		byRun[idx] = append(byRun[idx], s)
	}

	var summaries []Summary
	for _, idx := range order {
		run := byRun[idx]
		temps := find(run, surfaceVariables...)
		if temps == nil {
			continue
		}

		var uptake []float64
		if s := find(run, dynamo.VarHeatUptake); s != nil {
			uptake = s.Values
		}

		n, _ := strconv.Atoi(idx)
		summaries = append(summaries, Summary{
			RunIdx:   n,
			Scenario: temps.Get(scenario.MetaScenario),
			Metrics:  metrics.EvaluateSeries(temps.Values, uptake, metrics.DefaultMetrics()...),
		})
	}
	return summaries
}

func find(run []scenario.Scenario, variables ...string) *scenario.Scenario {
	for _, v := range variables {
		for i := range run {
			if run[i].Get(scenario.MetaVariable) == v {
				return &run[i]
			}
		}
	}
	return nil
}
