package models

import "github.com/san-kum/twolayer/internal/units"

// DefaultF2x is the forcing from a doubling of CO2.
var DefaultF2x = units.Q(3.74, "W/m^2")

// ConvertLambdaToECS returns the equilibrium climate sensitivity f2x/lambda.
func ConvertLambdaToECS(lambda, f2x units.Quantity) (units.Quantity, error) {
	l, err := units.ValidateQuantity(lambda, "lambda0", feedbackUnit)
	if err != nil {
		return units.Quantity{}, err
	}
	f, err := units.ValidateQuantity(f2x, "f2x", fluxUnit)
	if err != nil {
		return units.Quantity{}, err
	}
	return units.Quantity{Magnitude: f / l, Unit: temperatureUnit}, nil
}
