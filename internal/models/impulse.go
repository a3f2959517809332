package models

import (
	"fmt"
	"math"

	"github.com/san-kum/twolayer/internal/dynamo"
	"github.com/san-kum/twolayer/internal/integrators"
	"github.com/san-kum/twolayer/internal/units"
)

// ImpulseResponseParams holds the unit-carrying parameters of an
// ImpulseResponse model.
type ImpulseResponseParams struct {
	Q1       units.Quantity // sensitivity of the short-timescale box
	Q2       units.Quantity // sensitivity of the long-timescale box
	D1       units.Quantity // short timescale
	D2       units.Quantity // long timescale
	Efficacy units.Quantity
	DeltaT   units.Quantity
}

func DefaultImpulseResponseParams() ImpulseResponseParams {
	return ImpulseResponseParams{
		Q1:       units.Q(0.33, "delta_degC/(W/m^2)"),
		Q2:       units.Q(0.41, "delta_degC/(W/m^2)"),
		D1:       units.Q(9, "yr"),
		D2:       units.Q(400, "yr"),
		Efficacy: units.Q(1, "dimensionless"),
		DeltaT:   units.Q(1, "yr"),
	}
}

// Set replaces the named parameter. Validation happens on construction.
func (p *ImpulseResponseParams) Set(name string, q units.Quantity) error {
	switch name {
	case "q1":
		p.Q1 = q
	case "q2":
		p.Q2 = q
	case "d1":
		p.D1 = q
	case "d2":
		p.D2 = q
	case "efficacy":
		p.Efficacy = q
	case "delta_t":
		p.DeltaT = q
	default:
		return fmt.Errorf("%w: %q for impulse_response", ErrUnknownParameter, name)
	}
	return nil
}

// Factory returns a dynamo.Factory building models from p with the
// timestep replaced.
func (p ImpulseResponseParams) Factory() dynamo.Factory {
	return func(deltaT units.Quantity) (dynamo.Model, error) {
		q := p
		q.DeltaT = deltaT
		m, err := NewImpulseResponse(q)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

type impulseMagnitudes struct {
	q1, q2, d1, d2, efficacy float64
}

// magnitudes validates every parameter except the timestep and enforces d1 < d2.
func (p ImpulseResponseParams) magnitudes() (impulseMagnitudes, error) {
	var m impulseMagnitudes
	err := validateFields([]field{
		{"q1", p.Q1, sensitivityUnit, &m.q1},
		{"q2", p.Q2, sensitivityUnit, &m.q2},
		{"d1", p.D1, timeUnit, &m.d1},
		{"d2", p.D2, timeUnit, &m.d2},
		{"efficacy", p.Efficacy, dimensionlessUnit, &m.efficacy},
	})
	if err != nil {
		return impulseMagnitudes{}, err
	}

	if m.d1 >= m.d2 {
		return impulseMagnitudes{}, fmt.Errorf("%w: got d1=%s, d2=%s", ErrTimescaleOrder, p.D1, p.D2)
	}
	return m, nil
}

// ImpulseResponse is a two-box impulse response model (Millar et al. 2017).
// Each box relaxes exponentially towards q_i*ERF with timescale d_i.
type ImpulseResponse struct {
	dynamo.Base

	params ImpulseResponseParams
	impulseMagnitudes

	// Two-layer equivalent coefficients used by the heat uptake term.
	lambda0    float64
	eta        float64
	phi1, phi2 float64

	integ *integrators.Exponential

	temp1 []float64
	temp2 []float64
	rndt  []float64
}

// NewImpulseResponse validates p and builds a model. It fails with
// ErrTimescaleOrder unless d1 < d2.
func NewImpulseResponse(p ImpulseResponseParams) (*ImpulseResponse, error) {
	mags, err := p.magnitudes()
	if err != nil {
		return nil, err
	}

	m := &ImpulseResponse{
		params:            p,
		impulseMagnitudes: mags,
		lambda0:           1 / (mags.q1 + mags.q2),
		integ:             integrators.NewExponential(),
	}

	if mags.efficacy != 1 {
		eq := boxesToLayers(mags)
		modes, err := solveModes(eq)
		if err != nil {
			return nil, err
		}
		m.eta = eq.eta
		m.phi1, m.phi2 = modes.phi1, modes.phi2
	}

	if err := m.SetDeltaT(p.DeltaT); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *ImpulseResponse) Name() string { return "impulse_response" }

// Params returns the parameters the model was built with.
func (m *ImpulseResponse) Params() ImpulseResponseParams { return m.params }

// Equilibrium is the temperature each box relaxes towards under erf.
func (m *ImpulseResponse) Equilibrium(erf float64) dynamo.State {
	return dynamo.State{erf * m.q1, erf * m.q2}
}

func (m *ImpulseResponse) Timescales() []float64 {
	return []float64{m.d1, m.d2}
}

// Reset allocates NaN-filled state arrays sized to the drivers.
func (m *ImpulseResponse) Reset() error {
	n, err := m.ResetState()
	if err != nil {
		return err
	}

	m.temp1 = dynamo.NaNs(n)
	m.temp2 = dynamo.NaNs(n)
	m.rndt = dynamo.NaNs(n)
	return nil
}

// Step computes the next timestep from the previous one.
func (m *ImpulseResponse) Step() error {
	i, err := m.Advance()
	if err != nil {
		return err
	}

	if i == 0 {
		m.temp1[0] = 0
		m.temp2[0] = 0
		m.rndt[0] = 0
		return nil
	}

	erf := m.ERFMagnitude()[i-1]
	prev := dynamo.State{m.temp1[i-1], m.temp2[i-1]}
	next := m.integ.Step(m, prev, erf, m.DeltaTMagnitude())

	m.temp1[i] = next[0]
	m.temp2[i] = next[1]

	m.rndt[i] = erf - m.lambda0*(prev[0]+prev[1])
	if m.efficacy != 1 {
		m.rndt[i] -= m.eta * (m.efficacy - 1) * ((1-m.phi1)*prev[0] + (1-m.phi2)*prev[1])
	}

	if !(dynamo.State{next[0], next[1], m.rndt[i]}).IsValid() {
		return fmt.Errorf("%w at timestep %d", dynamo.ErrDiverged, i)
	}
	return nil
}

// Run steps through every remaining timestep.
func (m *ImpulseResponse) Run() error {
	return dynamo.RunAll(m.Step, m.Len())
}

// Temp1 is the short-timescale box temperature series.
func (m *ImpulseResponse) Temp1() units.Array { return dynamo.Snapshot(m.temp1, temperatureUnit) }

// Temp2 is the long-timescale box temperature series.
func (m *ImpulseResponse) Temp2() units.Array { return dynamo.Snapshot(m.temp2, temperatureUnit) }

// SurfaceTemperature is the sum of both boxes.
func (m *ImpulseResponse) SurfaceTemperature() units.Array {
	if m.temp1 == nil {
		return units.NewArray(nil, temperatureUnit)
	}

	sum := make([]float64, len(m.temp1))
	for i := range sum {
		sum[i] = m.temp1[i] + m.temp2[i]
	}
	return units.NewArray(sum, temperatureUnit)
}

func (m *ImpulseResponse) HeatUptake() units.Array { return dynamo.Snapshot(m.rndt, fluxUnit) }

func (m *ImpulseResponse) Outputs() []dynamo.Series {
	return []dynamo.Series{
		{Variable: dynamo.VarSurfaceTemperatureBox1, Unit: temperatureUnit, Values: m.Temp1().Values},
		{Variable: dynamo.VarSurfaceTemperatureBox2, Unit: temperatureUnit, Values: m.Temp2().Values},
		{Variable: dynamo.VarSurfaceTemperature, Unit: temperatureUnit, Values: m.SurfaceTemperature().Values},
		{Variable: dynamo.VarHeatUptake, Unit: fluxUnit, Values: m.HeatUptake().Values},
	}
}

func (m *ImpulseResponse) Parameters() []dynamo.Parameter {
	return []dynamo.Parameter{
		{Name: "q1", Value: m.params.Q1},
		{Name: "q2", Value: m.params.Q2},
		{Name: "d1", Value: m.params.D1},
		{Name: "d2", Value: m.params.D2},
		{Name: "efficacy", Value: m.params.Efficacy},
	}
}

// TwoLayerParameters returns the equivalent two-layer parameters, with a = 0.
func (m *ImpulseResponse) TwoLayerParameters() (TwoLayerParams, error) {
	return ImpulseResponseToTwoLayer(m.params)
}

// Lambda0 is the feedback parameter implied by the box sensitivities.
func (m *ImpulseResponse) Lambda0() units.Quantity {
	return units.Quantity{Magnitude: m.lambda0, Unit: feedbackUnit}
}

// ECS is the equilibrium climate sensitivity for a forcing f2x.
func (m *ImpulseResponse) ECS(f2x units.Quantity) (units.Quantity, error) {
	return ConvertLambdaToECS(m.Lambda0(), f2x)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
