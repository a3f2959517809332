package scenario

import (
	"fmt"
	"time"

	"github.com/san-kum/twolayer/internal/units"
)

const day = 24 * time.Hour

// SelectTimestep picks the model timestep from a time axis: one year when
// consecutive points are one calendar year apart, one month when they are
// 28 to 31 days apart. A single point is treated as yearly.
func SelectTimestep(times []time.Time) (units.Quantity, error) {
	if len(times) < 2 {
		return units.Q(1, "yr"), nil
	}

	yearly := true
	for i := 1; i < len(times); i++ {
		if times[i].Year()-times[i-1].Year() != 1 {
			yearly = false
			break
		}
	}
	if yearly {
		return units.Q(1, "yr"), nil
	}

	for i := 1; i < len(times); i++ {
		d := times[i].Sub(times[i-1])
		if d < 28*day || d > 31*day {
			return units.Quantity{}, fmt.Errorf("%w: step of %s between %s and %s",
				ErrUnknownTimestep, d, times[i-1].Format(time.DateOnly), times[i].Format(time.DateOnly))
		}
	}
	return units.Q(1, "month"), nil
}
