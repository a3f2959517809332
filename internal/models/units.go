package models

import "github.com/san-kum/twolayer/internal/units"

// Internal units. Magnitudes are stripped into these at construction.
var (
	depthUnit           = units.MustParse("m")
	heatCapacityUnit    = units.MustParse("J/delta_degC/m^2")
	feedbackUnit        = units.MustParse("W/m^2/delta_degC")
	stateDependenceUnit = units.MustParse("W/m^2/delta_degC^2")
	dimensionlessUnit   = units.MustParse("dimensionless")
	temperatureUnit     = units.MustParse("delta_degC")
	fluxUnit            = units.MustParse("W/m^2")
	sensitivityUnit     = units.MustParse("delta_degC/(W/m^2)")
	timeUnit            = units.MustParse("s")
	yearUnit            = units.MustParse("yr")
)

// field ties a named parameter to the unit it is validated against.
type field struct {
	name string
	q    units.Quantity
	unit units.Unit
	dst  *float64
}

// validateFields checks fields in order and stores their magnitudes,
// stopping at the first failure.
func validateFields(fields []field) error {
	for _, f := range fields {
		v, err := units.ValidateQuantity(f.q, f.name, f.unit)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}
