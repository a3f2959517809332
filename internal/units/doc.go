// Package units implements the dimensional analysis the models rely on.
//
// A [Unit] is parsed from a pint-style expression such as "W/m^2/delta_degC"
// or "delta_degC/(W/m^2)". Units carry a dimension vector (length, mass,
// time, temperature difference) and a scale factor to SI base units, which
// is all that is needed to check compatibility and convert magnitudes.
//
// Values cross the model boundary as a [Quantity] (scalar) or an [Array]
// (series). [ValidateQuantity] and [ValidateArray] are the single entry
// points that strip units: they fail with [ErrNotQuantity] when no unit is
// attached and with a [*UnitError] when the dimension is wrong.
//
// Temperatures are always differences. "K" and "delta_degC" are the same
// unit here; absolute temperatures are not represented.
package units
