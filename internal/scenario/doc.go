// Package scenario drives the climate models over labelled forcing series.
//
// A [Scenario] is one time series plus string metadata (model, scenario,
// region, variable, unit, ...). Tables of scenarios are read and written
// as wide CSV: metadata columns followed by one column per time point.
//
// [Runner] selects the driver series for the World region, picks the
// model timestep from the time axis, and runs every series concurrently
// on its own model instance. The returned table holds each driver series
// followed by the model outputs, tagged with the climate model name, its
// parameters and the run index.
package scenario
