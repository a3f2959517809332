// Package physics holds the physical constants shared by the climate models.
//
// Constants are [units.Quantity] values so they compose with model
// parameters through unit arithmetic, e.g. converting an ocean layer depth
// to a heat capacity per unit area:
//
//	c := depth.Mul(physics.DensityWater).Mul(physics.HeatCapacityWater)
package physics
