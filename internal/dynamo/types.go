package dynamo

import (
	"math"

	"github.com/san-kum/twolayer/internal/units"
)

// Output variable names shared by models and the scenario runner.
const (
	VarERF                     = "Effective Radiative Forcing"
	VarSurfaceTemperature      = "Surface Temperature"
	VarSurfaceTemperatureUpper = "Surface Temperature|Upper"
	VarSurfaceTemperatureLower = "Surface Temperature|Lower"
	VarSurfaceTemperatureBox1  = "Surface Temperature|Box 1"
	VarSurfaceTemperatureBox2  = "Surface Temperature|Box 2"
	VarHeatUptake              = "Heat Uptake"
)

// State is the vector advanced by an integrator in one step.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is a right-hand side dX/dt = f(X, forcing).
type System interface {
	Derivative(x State, forcing float64) State
}

// Relaxing describes independent boxes that relax towards an equilibrium
// set by the forcing, each with its own e-folding timescale.
type Relaxing interface {
	Equilibrium(forcing float64) State
	Timescales() []float64
}

// Model is the lifecycle every climate model implements.
type Model interface {
	Name() string

	SetDrivers(erf units.Array) error
	Reset() error
	Step() error
	Run() error

	State() RunState
	Parameters() []Parameter
	Outputs() []Series

	SurfaceTemperature() units.Array
	HeatUptake() units.Array
}

// Factory builds a fresh model with the given timestep.
type Factory func(deltaT units.Quantity) (Model, error)

// Parameter is a named model parameter, recorded alongside run output.
type Parameter struct {
	Name  string
	Value units.Quantity
}

// Series is one named output time series.
type Series struct {
	Variable string
	Unit     units.Unit
	Values   []float64
}

// NaNs returns n NaN values, the read-back value of not-yet-computed steps.
func NaNs(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// RunAll calls step n times, stopping at the first error.
func RunAll(step func() error, n int) error {
	for i := 0; i < n; i++ {
		if err := step(); err != nil {
			return &StepError{Step: i, Wrapped: err}
		}
	}
	return nil
}

func cloneFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// Snapshot copies values into a unit-carrying array.
func Snapshot(values []float64, unit units.Unit) units.Array {
	return units.NewArray(cloneFloats(values), unit)
}
