package units

import (
	"errors"
	"fmt"
)

var (
	// ErrNotQuantity indicates a value was supplied without any unit.
	ErrNotQuantity = errors.New("must be a quantity")

	// ErrUnknownUnit indicates a unit symbol that is not in the registry.
	ErrUnknownUnit = errors.New("units: unknown unit")

	// ErrSyntax indicates a unit expression that could not be parsed.
	ErrSyntax = errors.New("units: malformed unit expression")
)

// UnitError reports a value whose unit has the wrong dimension.
type UnitError struct {
	Name string
	From Unit
	To   Unit
}

func (e *UnitError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("cannot convert from '%s' to '%s'", e.From, e.To)
	}
	return fmt.Sprintf("wrong units for `%s`: cannot convert from '%s' to '%s'", e.Name, e.From, e.To)
}
