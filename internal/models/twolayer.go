package models

import (
	"fmt"

	"github.com/san-kum/twolayer/internal/dynamo"
	"github.com/san-kum/twolayer/internal/integrators"
	"github.com/san-kum/twolayer/internal/physics"
	"github.com/san-kum/twolayer/internal/units"
)

// TwoLayerParams holds the unit-carrying parameters of a TwoLayer model.
type TwoLayerParams struct {
	Du       units.Quantity // depth of the upper layer
	Dl       units.Quantity // depth of the lower layer
	Lambda0  units.Quantity // feedback parameter at zero warming
	A        units.Quantity // state dependence of the feedback
	Efficacy units.Quantity
	Eta      units.Quantity // heat exchange coefficient between the layers
	DeltaT   units.Quantity
}

func DefaultTwoLayerParams() TwoLayerParams {
	return TwoLayerParams{
		Du:       units.Q(50, "m"),
		Dl:       units.Q(1200, "m"),
		Lambda0:  units.Q(3.74/3, "W/m^2/delta_degC"),
		A:        units.Q(0, "W/m^2/delta_degC^2"),
		Efficacy: units.Q(1, "dimensionless"),
		Eta:      units.Q(0.8, "W/m^2/delta_degC"),
		DeltaT:   units.Q(1, "yr"),
	}
}

// Set replaces the named parameter. Validation happens on construction.
func (p *TwoLayerParams) Set(name string, q units.Quantity) error {
	switch name {
	case "du":
		p.Du = q
	case "dl":
		p.Dl = q
	case "lambda0":
		p.Lambda0 = q
	case "a":
		p.A = q
	case "efficacy":
		p.Efficacy = q
	case "eta":
		p.Eta = q
	case "delta_t":
		p.DeltaT = q
	default:
		return fmt.Errorf("%w: %q for two_layer", ErrUnknownParameter, name)
	}
	return nil
}

// Factory returns a dynamo.Factory building models from p with the
// timestep replaced.
func (p TwoLayerParams) Factory() dynamo.Factory {
	return func(deltaT units.Quantity) (dynamo.Model, error) {
		q := p
		q.DeltaT = deltaT
		m, err := NewTwoLayer(q)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

// twoLayerMagnitudes are TwoLayerParams stripped to internal units.
type twoLayerMagnitudes struct {
	du, dl, lambda0, a, efficacy, eta float64
	heatCapacityUpper                 float64
	heatCapacityLower                 float64
}

// magnitudes validates every parameter except the timestep.
func (p TwoLayerParams) magnitudes() (twoLayerMagnitudes, error) {
	var m twoLayerMagnitudes
	err := validateFields([]field{
		{"du", p.Du, depthUnit, &m.du},
		{"dl", p.Dl, depthUnit, &m.dl},
		{"lambda0", p.Lambda0, feedbackUnit, &m.lambda0},
		{"a", p.A, stateDependenceUnit, &m.a},
		{"efficacy", p.Efficacy, dimensionlessUnit, &m.efficacy},
		{"eta", p.Eta, feedbackUnit, &m.eta},
	})
	if err != nil {
		return twoLayerMagnitudes{}, err
	}

	if m.heatCapacityUpper, err = layerHeatCapacity(p.Du); err != nil {
		return twoLayerMagnitudes{}, err
	}
	if m.heatCapacityLower, err = layerHeatCapacity(p.Dl); err != nil {
		return twoLayerMagnitudes{}, err
	}
	return m, nil
}

// layerHeatCapacity is depth * density * specific heat capacity of water.
func layerHeatCapacity(depth units.Quantity) (float64, error) {
	return physics.VolumetricHeatCapacity().Mul(depth).To(heatCapacityUnit)
}

// TwoLayer is a two-layer ocean energy balance model with an optional
// state-dependent feedback (Held et al. 2010, Gregory 2000).
type TwoLayer struct {
	dynamo.Base

	params TwoLayerParams
	twoLayerMagnitudes

	integ *integrators.Euler

	tempUpper []float64
	tempLower []float64
	rndt      []float64
}

// NewTwoLayer validates p and builds a model. Drivers must be set and the
// model reset before it can run.
func NewTwoLayer(p TwoLayerParams) (*TwoLayer, error) {
	mags, err := p.magnitudes()
	if err != nil {
		return nil, err
	}

	m := &TwoLayer{
		params:             p,
		twoLayerMagnitudes: mags,
		integ:              integrators.NewEuler(),
	}
	if err := m.SetDeltaT(p.DeltaT); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *TwoLayer) Name() string { return "two_layer" }

// Params returns the parameters the model was built with.
func (m *TwoLayer) Params() TwoLayerParams { return m.params }

// HeatCapacityUpper is the heat capacity per unit area of the upper layer.
func (m *TwoLayer) HeatCapacityUpper() units.Quantity {
	return units.Quantity{Magnitude: m.heatCapacityUpper, Unit: heatCapacityUnit}
}

// HeatCapacityLower is the heat capacity per unit area of the lower layer.
func (m *TwoLayer) HeatCapacityLower() units.Quantity {
	return units.Quantity{Magnitude: m.heatCapacityLower, Unit: heatCapacityUnit}
}

// Derivative returns the tendencies of the upper and lower layer
// temperatures in delta_degC/s.
func (m *TwoLayer) Derivative(x dynamo.State, erf float64) dynamo.State {
	tu, tl := x[0], x[1]

	lambdaNow := m.lambda0 - m.a*tu
	heatExchange := m.efficacy * m.eta * (tu - tl)

	return dynamo.State{
		(erf - lambdaNow*tu - heatExchange) / m.heatCapacityUpper,
		m.eta * (tu - tl) / m.heatCapacityLower,
	}
}

// Reset allocates NaN-filled state arrays sized to the drivers.
func (m *TwoLayer) Reset() error {
	n, err := m.ResetState()
	if err != nil {
		return err
	}

	m.tempUpper = dynamo.NaNs(n)
	m.tempLower = dynamo.NaNs(n)
	m.rndt = dynamo.NaNs(n)
	return nil
}

// Step computes the next timestep from the previous one.
func (m *TwoLayer) Step() error {
	i, err := m.Advance()
	if err != nil {
		return err
	}

	if i == 0 {
		m.tempUpper[0] = 0
		m.tempLower[0] = 0
		m.rndt[0] = 0
		return nil
	}

	dt := m.DeltaTMagnitude()
	prev := dynamo.State{m.tempUpper[i-1], m.tempLower[i-1]}
	next := m.integ.Step(m, prev, m.ERFMagnitude()[i-1], dt)

	m.tempUpper[i] = next[0]
	m.tempLower[i] = next[1]
	m.rndt[i] = m.heatCapacityUpper*(next[0]-prev[0])/dt +
		m.heatCapacityLower*(next[1]-prev[1])/dt

	if !(dynamo.State{next[0], next[1], m.rndt[i]}).IsValid() {
		return fmt.Errorf("%w at timestep %d, the timestep may be too long for du=%s",
			dynamo.ErrDiverged, i, m.params.Du)
	}
	return nil
}

// Run steps through every remaining timestep.
func (m *TwoLayer) Run() error {
	return dynamo.RunAll(m.Step, m.Len())
}

// TempUpper is the upper layer temperature series.
func (m *TwoLayer) TempUpper() units.Array { return dynamo.Snapshot(m.tempUpper, temperatureUnit) }

// TempLower is the lower layer temperature series.
func (m *TwoLayer) TempLower() units.Array { return dynamo.Snapshot(m.tempLower, temperatureUnit) }

// SurfaceTemperature is the upper layer temperature.
func (m *TwoLayer) SurfaceTemperature() units.Array { return m.TempUpper() }

func (m *TwoLayer) HeatUptake() units.Array { return dynamo.Snapshot(m.rndt, fluxUnit) }

func (m *TwoLayer) Outputs() []dynamo.Series {
	return []dynamo.Series{
		{Variable: dynamo.VarSurfaceTemperatureUpper, Unit: temperatureUnit, Values: m.TempUpper().Values},
		{Variable: dynamo.VarSurfaceTemperatureLower, Unit: temperatureUnit, Values: m.TempLower().Values},
		{Variable: dynamo.VarHeatUptake, Unit: fluxUnit, Values: m.HeatUptake().Values},
	}
}

func (m *TwoLayer) Parameters() []dynamo.Parameter {
	return []dynamo.Parameter{
		{Name: "du", Value: m.params.Du},
		{Name: "dl", Value: m.params.Dl},
		{Name: "lambda0", Value: m.params.Lambda0},
		{Name: "a", Value: m.params.A},
		{Name: "efficacy", Value: m.params.Efficacy},
		{Name: "eta", Value: m.params.Eta},
	}
}

// ImpulseResponseParameters returns the equivalent impulse-response
// parameters. It fails with ErrStateDependence unless a is zero.
func (m *TwoLayer) ImpulseResponseParameters() (ImpulseResponseParams, error) {
	return TwoLayerToImpulseResponse(m.params)
}

// ECS is the equilibrium climate sensitivity for a forcing f2x.
func (m *TwoLayer) ECS(f2x units.Quantity) (units.Quantity, error) {
	return ConvertLambdaToECS(m.params.Lambda0, f2x)
}
