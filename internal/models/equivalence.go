package models

import (
	"fmt"
	"math"

	"github.com/san-kum/twolayer/internal/physics"
	"github.com/san-kum/twolayer/internal/units"
)

// layerSystem is a linear two-layer system in internal units.
type layerSystem struct {
	c, cd    float64 // J/delta_degC/m^2
	lambda0  float64 // W/m^2/delta_degC
	efficacy float64
	eta      float64 // W/m^2/delta_degC
}

// modes are the two characteristic responses of a layerSystem
// (Geoffroy et al. 2013). Timescales are in seconds.
type modes struct {
	tau1, tau2 float64
	phi1, phi2 float64
	q1, q2     float64
}

// solveModes finds the roots of the characteristic equation of the coupled
// layer ODEs and the box sensitivities that go with them.
func solveModes(s layerSystem) (modes, error) {
	b := (s.lambda0+s.efficacy*s.eta)/s.c + s.eta/s.cd
	bStar := (s.lambda0+s.efficacy*s.eta)/s.c - s.eta/s.cd
	delta := b*b - 4*s.lambda0*s.eta/(s.c*s.cd)
	if delta < 0 {
		return modes{}, fmt.Errorf("%w: negative discriminant %g", ErrNoEquivalent, delta)
	}
	root := math.Sqrt(delta)

	var m modes
	m.tau1 = s.c * s.cd / (2 * s.lambda0 * s.eta) * (b - root)
	m.tau2 = s.c * s.cd / (2 * s.lambda0 * s.eta) * (b + root)

	m.phi1 = s.c / (2 * s.efficacy * s.eta) * (bStar - root)
	m.phi2 = s.c / (2 * s.efficacy * s.eta) * (bStar + root)

	m.q1 = m.tau1 * m.phi2 / (s.c * (m.phi2 - m.phi1))
	m.q2 = -m.tau2 * m.phi1 / (s.c * (m.phi2 - m.phi1))

	if !finite(m.tau1, m.tau2, m.phi1, m.phi2, m.q1, m.q2) {
		return modes{}, fmt.Errorf("%w: degenerate layer parameters", ErrNoEquivalent)
	}
	return m, nil
}

// boxesToLayers inverts solveModes.
func boxesToLayers(b impulseMagnitudes) layerSystem {
	lambda0 := 1 / (b.q1 + b.q2)
	c := b.d1 * b.d2 / (b.q1*b.d2 + b.q2*b.d1)

	a1 := lambda0 * b.q1
	a2 := lambda0 * b.q2

	cd := (lambda0*(b.d1*a1+b.d2*a2) - c) / b.efficacy
	eta := cd / (b.d1*a2 + b.d2*a1)

	return layerSystem{c: c, cd: cd, lambda0: lambda0, efficacy: b.efficacy, eta: eta}
}

// TwoLayerToImpulseResponse converts two-layer parameters to the
// equivalent impulse-response parameters. Timescales are returned in years.
// Only systems without state dependence (a = 0) have an equivalent.
func TwoLayerToImpulseResponse(p TwoLayerParams) (ImpulseResponseParams, error) {
	mags, err := p.magnitudes()
	if err != nil {
		return ImpulseResponseParams{}, err
	}
	if mags.a != 0 {
		return ImpulseResponseParams{}, fmt.Errorf("%w: got a=%s", ErrStateDependence, p.A)
	}

	m, err := solveModes(layerSystem{
		c:        mags.heatCapacityUpper,
		cd:       mags.heatCapacityLower,
		lambda0:  mags.lambda0,
		efficacy: mags.efficacy,
		eta:      mags.eta,
	})
	if err != nil {
		return ImpulseResponseParams{}, err
	}

	d1, err := units.Quantity{Magnitude: m.tau1, Unit: timeUnit}.In(yearUnit)
	if err != nil {
		return ImpulseResponseParams{}, err
	}
	d2, err := units.Quantity{Magnitude: m.tau2, Unit: timeUnit}.In(yearUnit)
	if err != nil {
		return ImpulseResponseParams{}, err
	}

	return ImpulseResponseParams{
		Q1:       units.Quantity{Magnitude: m.q1, Unit: sensitivityUnit},
		Q2:       units.Quantity{Magnitude: m.q2, Unit: sensitivityUnit},
		D1:       d1,
		D2:       d2,
		Efficacy: p.Efficacy,
		DeltaT:   p.DeltaT,
	}, nil
}

// ImpulseResponseToTwoLayer converts impulse-response parameters to the
// equivalent two-layer parameters with a = 0.
func ImpulseResponseToTwoLayer(p ImpulseResponseParams) (TwoLayerParams, error) {
	mags, err := p.magnitudes()
	if err != nil {
		return TwoLayerParams{}, err
	}
	s := boxesToLayers(mags)

	rhoCw, err := physics.VolumetricHeatCapacity().To(heatCapacityUnit.Div(depthUnit))
	if err != nil {
		return TwoLayerParams{}, err
	}

	return TwoLayerParams{
		Du:       units.Quantity{Magnitude: s.c / rhoCw, Unit: depthUnit},
		Dl:       units.Quantity{Magnitude: s.cd / rhoCw, Unit: depthUnit},
		Lambda0:  units.Quantity{Magnitude: s.lambda0, Unit: feedbackUnit},
		A:        units.Quantity{Magnitude: 0, Unit: stateDependenceUnit},
		Efficacy: p.Efficacy,
		Eta:      units.Quantity{Magnitude: s.eta, Unit: feedbackUnit},
		DeltaT:   p.DeltaT,
	}, nil
}

// AmplitudeSum returns lambda0*q1 + lambda0*q2 with lambda0 = 1/(q1+q2),
// which is 1 for every parameter set.
func AmplitudeSum(p ImpulseResponseParams) (float64, error) {
	mags, err := p.magnitudes()
	if err != nil {
		return 0, err
	}
	lambda0 := 1 / (mags.q1 + mags.q2)
	return lambda0*mags.q1 + lambda0*mags.q2, nil
}
