package units

import (
	"errors"
	"fmt"
)

// ValidateQuantity checks that q carries a unit compatible with expected
// and returns its magnitude in expected. name identifies the value in errors.
func ValidateQuantity(q Quantity, name string, expected Unit) (float64, error) {
	if !q.HasUnit() {
		return 0, fmt.Errorf("%s %w", name, ErrNotQuantity)
	}

	v, err := q.To(expected)
	if err != nil {
		return 0, named(err, name)
	}
	return v, nil
}

// ValidateArray is ValidateQuantity for arrays. The returned slice is a copy.
func ValidateArray(a Array, name string, expected Unit) ([]float64, error) {
	if !a.HasUnit() {
		return nil, fmt.Errorf("%s %w", name, ErrNotQuantity)
	}

	v, err := a.To(expected)
	if err != nil {
		return nil, named(err, name)
	}
	return v, nil
}

func named(err error, name string) error {
	var ue *UnitError
	if errors.As(err, &ue) {
		return &UnitError{Name: name, From: ue.From, To: ue.To}
	}
	return err
}
