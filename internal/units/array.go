package units

import "fmt"

// Array is a block of magnitudes sharing one unit. Shape is nil for a
// plain series; tables built with NewMatrix carry their row/column shape so
// that one-dimensional inputs can be enforced.
type Array struct {
	Values []float64
	Shape  []int
	Unit   Unit
}

func NewArray(values []float64, unit Unit) Array {
	return Array{Values: values, Unit: unit}
}

// A builds an array from a unit literal, panicking on a malformed unit.
func A(values []float64, unit string) Array {
	return NewArray(values, MustParse(unit))
}

// NewMatrix flattens rows into a two-dimensional array. Rows must share a length.
func NewMatrix(rows [][]float64, unit Unit) (Array, error) {
	if len(rows) == 0 {
		return Array{Shape: []int{0, 0}, Unit: unit}, nil
	}

	cols := len(rows[0])
	values := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return Array{}, fmt.Errorf("units: row %d has %d columns, expected %d", i, len(r), cols)
		}
		values = append(values, r...)
	}

	return Array{Values: values, Shape: []int{len(rows), cols}, Unit: unit}, nil
}

// Dims returns the number of dimensions.
func (a Array) Dims() int {
	if len(a.Shape) == 0 {
		return 1
	}
	return len(a.Shape)
}

func (a Array) Len() int { return len(a.Values) }

// HasUnit reports whether a unit is attached.
func (a Array) HasUnit() bool { return !a.Unit.IsZero() }

// To returns a copy of the magnitudes expressed in u.
func (a Array) To(u Unit) ([]float64, error) {
	if !a.HasUnit() {
		return nil, ErrNotQuantity
	}
	f, err := a.Unit.convert(u)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(a.Values))
	for i, v := range a.Values {
		out[i] = v * f
	}
	return out, nil
}

// At returns element i as a quantity.
func (a Array) At(i int) Quantity {
	return Quantity{Magnitude: a.Values[i], Unit: a.Unit}
}
