package models

import (
	"math"

	"github.com/san-kum/twolayer/internal/dynamo"
	"github.com/san-kum/twolayer/internal/units"
)

// sinusoidRamp is a yearly forcing from 1750 to 2500: a 15 year
// oscillation on top of a linear ramp reaching 3 W/m^2.
func sinusoidRamp() units.Array {
	var values []float64
	for year := 1750; year <= 2500; year++ {
		t := float64(year)
		values = append(values, 0.3*math.Sin(t/15*2*math.Pi)+3.0*t/2500)
	}
	return units.A(values, "W/m^2")
}

func runModel(m dynamo.Model, erf units.Array) error {
	if err := m.SetDrivers(erf); err != nil {
		return err
	}
	if err := m.Reset(); err != nil {
		return err
	}
	return m.Run()
}

func maxAbsDiff(a, b []float64) float64 {
	d := 0.0
	for i := range a {
		d = math.Max(d, math.Abs(a[i]-b[i]))
	}
	return d
}

func allNaN(vs []float64) bool {
	for _, v := range vs {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}

func nan() float64 { return math.NaN() }

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
