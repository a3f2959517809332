package dynamo

import (
	"fmt"
	"math"

	"github.com/san-kum/twolayer/internal/units"
)

var (
	// DeltaTUnit is the internal unit of the timestep.
	DeltaTUnit = units.MustParse("s")
	// ERFUnit is the internal unit of the forcing drivers.
	ERFUnit = units.MustParse("W/m^2")
)

// Base carries what every model shares: the timestep, the forcing drivers
// and the run position. Concrete models embed it and supply Reset, Step
// and Run.
type Base struct {
	deltaT    units.Quantity
	deltaTMag float64

	erf    units.Array
	erfMag []float64

	state RunState
}

// SetDeltaT sets the forward-differencing timestep.
func (b *Base) SetDeltaT(q units.Quantity) error {
	v, err := units.ValidateQuantity(q, "delta_t", DeltaTUnit)
	if err != nil {
		return err
	}
	if v <= 0 {
		return fmt.Errorf("delta_t must be positive, got %s", q)
	}
	b.deltaT = q
	b.deltaTMag = v
	return nil
}

// DeltaT returns the timestep as supplied.
func (b *Base) DeltaT() units.Quantity { return b.deltaT }

// DeltaTMagnitude returns the timestep in seconds.
func (b *Base) DeltaTMagnitude() float64 { return b.deltaTMag }

// SetDrivers stores the effective radiative forcing series. State arrays
// are left alone but the run position is cleared, so Reset must be called
// before the next step.
func (b *Base) SetDrivers(erf units.Array) error {
	if erf.Dims() != 1 {
		return ErrNotOneDimensional
	}

	mag, err := units.ValidateArray(erf, "erf", ERFUnit)
	if err != nil {
		return err
	}

	b.erf = erf
	b.erfMag = mag
	b.state = RunState{}
	return nil
}

// ERF returns the drivers as supplied.
func (b *Base) ERF() units.Array { return b.erf }

// ERFMagnitude returns the drivers in W/m^2.
func (b *Base) ERFMagnitude() []float64 { return b.erfMag }

// Len is the number of driver values, which fixes the run length.
func (b *Base) Len() int { return len(b.erfMag) }

func (b *Base) State() RunState { return b.state }

// ResetState checks the drivers and moves the run back to its start,
// returning the number of timesteps to allocate.
func (b *Base) ResetState() (int, error) {
	if b.erfMag == nil {
		return 0, fmt.Errorf("%w: the model's drivers have not been set yet, call SetDrivers first", ErrModelState)
	}
	for i, v := range b.erfMag {
		if math.IsNaN(v) {
			return 0, fmt.Errorf("%w: drivers contain NaN at index %d", ErrModelState, i)
		}
	}

	b.state.reset(len(b.erfMag))
	return len(b.erfMag), nil
}

// Advance moves to the next timestep index.
func (b *Base) Advance() (int, error) {
	return b.state.advance()
}
