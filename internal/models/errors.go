package models

import "errors"

var (
	// ErrTimescaleOrder indicates d1 >= d2. Box 1 must be the short-timescale box.
	ErrTimescaleOrder = errors.New("models: d1 must be strictly less than d2")

	// ErrStateDependence indicates a two-layer parameter set with a != 0,
	// which has no impulse-response equivalent.
	ErrStateDependence = errors.New("models: state dependence (a) must be zero for the impulse-response equivalence")

	// ErrNoEquivalent indicates parameters whose equivalent two-layer system is not physical.
	ErrNoEquivalent = errors.New("models: parameters have no real two-layer equivalent")

	// ErrUnknownParameter indicates a parameter name the model does not have.
	ErrUnknownParameter = errors.New("models: unknown parameter")
)
