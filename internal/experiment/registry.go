package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/twolayer/internal/dynamo"
	"github.com/san-kum/twolayer/internal/models"
	"github.com/san-kum/twolayer/internal/scenario"
	"github.com/san-kum/twolayer/internal/units"
)

type entry struct {
	factory    func(overrides map[string]units.Quantity) (dynamo.Factory, error)
	parameters func() []dynamo.Parameter
}

// Registry maps model names to factories built from parameter overrides.
type Registry struct {
	models map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]entry)}

	r.models["two_layer"] = entry{
		factory: func(overrides map[string]units.Quantity) (dynamo.Factory, error) {
			p := models.DefaultTwoLayerParams()
			for name, q := range overrides {
				if err := p.Set(name, q); err != nil {
					return nil, err
				}
			}
			return p.Factory(), nil
		},
		parameters: func() []dynamo.Parameter {
			p := models.DefaultTwoLayerParams()
			return []dynamo.Parameter{
				{Name: "du", Value: p.Du},
				{Name: "dl", Value: p.Dl},
				{Name: "lambda0", Value: p.Lambda0},
				{Name: "a", Value: p.A},
				{Name: "efficacy", Value: p.Efficacy},
				{Name: "eta", Value: p.Eta},
				{Name: "delta_t", Value: p.DeltaT},
			}
		},
	}

	r.models["impulse_response"] = entry{
		factory: func(overrides map[string]units.Quantity) (dynamo.Factory, error) {
			p := models.DefaultImpulseResponseParams()
			for name, q := range overrides {
				if err := p.Set(name, q); err != nil {
					return nil, err
				}
			}
			return p.Factory(), nil
		},
		parameters: func() []dynamo.Parameter {
			p := models.DefaultImpulseResponseParams()
			return []dynamo.Parameter{
				{Name: "q1", Value: p.Q1},
				{Name: "q2", Value: p.Q2},
				{Name: "d1", Value: p.D1},
				{Name: "d2", Value: p.D2},
				{Name: "efficacy", Value: p.Efficacy},
				{Name: "delta_t", Value: p.DeltaT},
			}
		},
	}

	return r
}

// GetFactory returns a factory for the named model with overrides applied.
// Unit checks run when the factory builds a model.
func (r *Registry) GetFactory(name string, overrides map[string]units.Quantity) (dynamo.Factory, error) {
	e, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return e.factory(overrides)
}

// GetModel builds the named model. The timestep comes from the delta_t
// override, or the model default.
func (r *Registry) GetModel(name string, overrides map[string]units.Quantity) (dynamo.Model, error) {
	f, err := r.GetFactory(name, overrides)
	if err != nil {
		return nil, err
	}

	deltaT, ok := overrides["delta_t"]
	if !ok {
		deltaT = r.defaultDeltaT(name)
	}
	return f(deltaT)
}

// DrivenModel is a model with its drivers set, ready for Reset.
type DrivenModel struct {
	Model  dynamo.Model
	Driver scenario.Scenario
}

// Drive builds the named model for the first World forcing series in
// drivers, with the timestep taken from the series' time axis.
func (r *Registry) Drive(name string, overrides map[string]units.Quantity, drivers []scenario.Scenario) (DrivenModel, error) {
	ss := scenario.Filter(drivers, dynamo.VarERF, scenario.RegionWorld)
	if len(ss) == 0 {
		return DrivenModel{}, fmt.Errorf("%w `%s`", scenario.ErrNoWorldData, dynamo.VarERF)
	}
	driver := ss[0].DropNaN()
	if len(driver.Values) == 0 {
		return DrivenModel{}, fmt.Errorf("%w: World `%s` has no finite values", scenario.ErrNoWorldData, dynamo.VarERF)
	}

	deltaT, err := scenario.SelectTimestep(driver.Times)
	if err != nil {
		return DrivenModel{}, err
	}

	withStep := make(map[string]units.Quantity, len(overrides)+1)
	for k, v := range overrides {
		withStep[k] = v
	}
	withStep["delta_t"] = deltaT

	m, err := r.GetModel(name, withStep)
	if err != nil {
		return DrivenModel{}, err
	}

	erf, err := driver.Array()
	if err != nil {
		return DrivenModel{}, err
	}
	if err := m.SetDrivers(erf); err != nil {
		return DrivenModel{}, err
	}
	return DrivenModel{Model: m, Driver: driver}, nil
}

func (r *Registry) defaultDeltaT(name string) units.Quantity {
	for _, p := range r.models[name].parameters() {
		if p.Name == "delta_t" {
			return p.Value
		}
	}
	return units.Q(1, "yr")
}

// DefaultParameters lists the named model's parameters with their defaults.
func (r *Registry) DefaultParameters(name string) ([]dynamo.Parameter, error) {
	e, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return e.parameters(), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
