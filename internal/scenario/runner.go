package scenario

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/twolayer/internal/dynamo"
	"github.com/san-kum/twolayer/internal/logger"
	"github.com/san-kum/twolayer/internal/units"
)

// Runner runs a model over every driver series of a table.
type Runner struct {
	factory        dynamo.Factory
	workers        int
	driverVariable string
}

type Option func(*Runner)

// WithWorkers bounds the number of series run at once.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithDriverVariable selects the variable used as model forcing.
func WithDriverVariable(v string) Option {
	return func(r *Runner) {
		r.driverVariable = v
	}
}

func NewRunner(factory dynamo.Factory, opts ...Option) *Runner {
	r := &Runner{
		factory:        factory,
		workers:        runtime.NumCPU(),
		driverVariable: dynamo.VarERF,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run filters the World driver series out of in, runs each on a fresh
// model and returns the drivers followed by the model outputs, in input
// order. The context is checked between series, never inside a run.
func (r *Runner) Run(ctx context.Context, in []Scenario) ([]Scenario, error) {
	drivers := Filter(in, r.driverVariable, RegionWorld)
	if len(drivers) == 0 {
		return nil, fmt.Errorf("%w `%s`", ErrNoWorldData, r.driverVariable)
	}

	deltaT, err := SelectTimestep(TimeAxis(drivers))
	if err != nil {
		return nil, err
	}

	results := make([][]Scenario, len(drivers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, d := range drivers {
		i, d := i, d
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := r.runOne(i, d, deltaT)
			if err != nil {
				return fmt.Errorf("run_idx %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []Scenario
	for _, rs := range results {
		out = append(out, rs...)
	}

	logger.Log.Infow("scenarios complete",
		"series", len(drivers),
		"outputs", len(out),
		"delta_t", deltaT.String(),
	)
	return out, nil
}

func (r *Runner) runOne(idx int, driver Scenario, deltaT units.Quantity) ([]Scenario, error) {
	series := driver.DropNaN()
	if dropped := len(driver.Values) - len(series.Values); dropped > 0 {
		logger.Log.Warnw("dropped NaN drivers", "run_idx", idx, "scenario", driver.Get(MetaScenario), "count", dropped)
	}

	erf, err := series.Array()
	if err != nil {
		return nil, err
	}

	m, err := r.factory(deltaT)
	if err != nil {
		return nil, err
	}
	if err := m.SetDrivers(erf); err != nil {
		return nil, err
	}
	if err := m.Reset(); err != nil {
		return nil, err
	}
	if err := m.Run(); err != nil {
		return nil, err
	}

	meta := series.Clone().Meta
	meta[MetaClimateModel] = m.Name()
	for _, p := range m.Parameters() {
		meta[ParameterColumn(p)] = strconv.FormatFloat(p.Value.Magnitude, 'g', -1, 64)
	}
	meta[MetaRunIdx] = strconv.Itoa(idx)

	out := []Scenario{{Meta: meta, Times: series.Times, Values: series.Values}}
	for _, s := range m.Outputs() {
		o := Scenario{Meta: make(map[string]string, len(meta)), Times: series.Times, Values: s.Values}
		for k, v := range meta {
			o.Meta[k] = v
		}
		o.Meta[MetaVariable] = s.Variable
		o.Meta[MetaUnit] = s.Unit.String()
		out = append(out, o)
	}

	logger.Log.Debugw("scenario run",
		"run_idx", idx,
		"climate_model", m.Name(),
		"scenario", driver.Get(MetaScenario),
		"steps", len(series.Values),
	)
	return out, nil
}

// ParameterColumn is the metadata key a saved parameter is written under.
func ParameterColumn(p dynamo.Parameter) string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Value.Unit)
}
