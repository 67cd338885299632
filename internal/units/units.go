package units

import "math"

// Unit convention used throughout the engine:
// lengths in m, forces in kN, unit weights in kN/m³,
// stresses in MPa, pressures in kPa (kN/m²), angles in degrees.

const (
	// Gravity is standard gravitational acceleration (m/s²)
	Gravity = 9.81

	// MPaToKPa converts a stress in MPa to kN/m²
	MPaToKPa = 1000.0

	// DefaultRockUnitWeight for hard jointed rock (kN/m³)
	DefaultRockUnitWeight = 26.0

	// DefaultShotcreteUnitWeight for sprayed concrete (kN/m³)
	DefaultShotcreteUnitWeight = 24.0

	// NominalWedgeAngle is the 1995 pyramid side angle (degrees)
	NominalWedgeAngle = 60.0
)

// Radians converts degrees to radians
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// KPa converts a stress in MPa to kN/m²
func KPa(mpa float64) float64 {
	return mpa * MPaToKPa
}

// UnitWeight converts a density (kg/m³) to a unit weight (kN/m³)
func UnitWeight(density float64) float64 {
	return density * Gravity / 1000
}
