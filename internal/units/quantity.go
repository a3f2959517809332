package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Quantity is a scalar magnitude with a unit attached.
type Quantity struct {
	Magnitude float64
	Unit      Unit
}

// Q builds a quantity from a unit literal. It panics if unit does not
// parse, so it is only suitable for constants and defaults.
func Q(magnitude float64, unit string) Quantity {
	return Quantity{Magnitude: magnitude, Unit: MustParse(unit)}
}

// ParseQuantity parses strings like "50 m" or "0.8 W/m^2/delta_degC".
// A bare number yields a quantity without a unit, which validation rejects.
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	numEnd := strings.IndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t'
	})

	numPart, unitPart := s, ""
	if numEnd >= 0 {
		numPart, unitPart = s[:numEnd], strings.TrimSpace(s[numEnd:])
	}

	v, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	if unitPart == "" {
		return Quantity{Magnitude: v}, nil
	}

	u, err := Parse(unitPart)
	if err != nil {
		return Quantity{}, fmt.Errorf("parse quantity %q: %w", s, err)
	}
	return Quantity{Magnitude: v, Unit: u}, nil
}

// HasUnit reports whether a unit is attached.
func (q Quantity) HasUnit() bool { return !q.Unit.IsZero() }

// To returns the magnitude of q expressed in u.
func (q Quantity) To(u Unit) (float64, error) {
	if !q.HasUnit() {
		return 0, ErrNotQuantity
	}
	f, err := q.Unit.convert(u)
	if err != nil {
		return 0, err
	}
	return q.Magnitude * f, nil
}

// In returns q re-expressed in u.
func (q Quantity) In(u Unit) (Quantity, error) {
	v, err := q.To(u)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Magnitude: v, Unit: u}, nil
}

func (q Quantity) Mul(o Quantity) Quantity {
	return Quantity{Magnitude: q.Magnitude * o.Magnitude, Unit: q.Unit.Mul(o.Unit)}
}

func (q Quantity) Div(o Quantity) Quantity {
	return Quantity{Magnitude: q.Magnitude / o.Magnitude, Unit: q.Unit.Div(o.Unit)}
}

// Equal reports whether q and o have the same magnitude and unit symbol.
func (q Quantity) Equal(o Quantity) bool {
	return q.Magnitude == o.Magnitude && q.Unit.symbol == o.Unit.symbol
}

func (q Quantity) String() string {
	mag := strconv.FormatFloat(q.Magnitude, 'g', -1, 64)
	if !q.HasUnit() {
		return mag
	}
	return mag + " " + q.Unit.String()
}
