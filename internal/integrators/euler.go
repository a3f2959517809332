package integrators

import "github.com/san-kum/twolayer/internal/dynamo"

// Euler is the explicit forward-difference scheme x[k] = x[k-1] + dt*f(x[k-1]).
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, forcing float64, dt float64) dynamo.State {
	dx := sys.Derivative(x, forcing)
	result := x.Clone()
	for i := range result {
		result[i] += dt * dx[i]
	}
	return result
}
