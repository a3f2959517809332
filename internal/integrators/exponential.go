package integrators

import (
	"math"

	"github.com/san-kum/twolayer/internal/dynamo"
)

// Exponential advances independent relaxing boxes with their exact
// solution over one step, holding the forcing constant:
//
//	x[k] = x[k-1]*exp(-dt/d) + x_eq*(1 - exp(-dt/d))
type Exponential struct{}

func NewExponential() *Exponential {
	return &Exponential{}
}

func (e *Exponential) Step(sys dynamo.Relaxing, x dynamo.State, forcing float64, dt float64) dynamo.State {
	eq := sys.Equilibrium(forcing)
	d := sys.Timescales()

	result := make(dynamo.State, len(x))
	for i := range x {
		decay := math.Exp(-dt / d[i])
		result[i] = x[i]*decay + eq[i]*(1-decay)
	}
	return result
}
