package physics

import "github.com/san-kum/twolayer/internal/units"

var (
	// DensityWater is the density of water.
	DensityWater = units.Q(1000, "kg/m^3")

	// HeatCapacityWater is the specific heat capacity of water.
	HeatCapacityWater = units.Q(4181, "J/delta_degC/kg")
)

// VolumetricHeatCapacity is the heat capacity of a cubic metre of water.
func VolumetricHeatCapacity() units.Quantity {
	return DensityWater.Mul(HeatCapacityWater)
}
