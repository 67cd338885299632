package lining

import (
	"math"

	"github.com/workmatechiho-source/shotcrete/internal/units"
)

// Starting-point material values for fibre reinforced shotcrete at 28 days.
// Tune per project testing.

const (
	DefaultThickness           = 0.10 // m
	DefaultCompressiveStrength = 30.0 // f'c (MPa)
	DefaultBondStrength        = 1.0  // τb (MPa)
	DefaultFlexuralStrength    = 1.2  // f_r residual (MPa)
	DefaultShearStrength       = 1.5  // τv (MPa)
	DefaultPunchingStrength    = 1.2  // v_rd (MPa)

	// Characteristic flexural tensile strength coefficient, f_ct = 0.6·√f'c
	FlexuralCoefficient = 0.6

	// Minimum practical sprayed thickness (m)
	MinThickness = 0.03
)

// DefaultShotcrete returns the starting-point lining
func DefaultShotcrete() Shotcrete {
	return Shotcrete{
		Thickness:           DefaultThickness,
		BondStrength:        DefaultBondStrength,
		FlexuralStrength:    DefaultFlexuralStrength,
		ShearStrength:       DefaultShearStrength,
		PunchingStrength:    DefaultPunchingStrength,
		CompressiveStrength: DefaultCompressiveStrength,
		UnitWeight:          units.DefaultShotcreteUnitWeight,
	}
}

// FlexuralTensile estimates the peak flexural tensile strength from f'c (MPa)
func FlexuralTensile(fc float64) float64 {
	if fc <= 0 {
		return 0
	}
	return FlexuralCoefficient * math.Sqrt(fc)
}

// SelfWeight returns the lining weight over the given area (kN)
func (s Shotcrete) SelfWeight(area float64) float64 {
	gamma := s.UnitWeight
	if gamma == 0 {
		gamma = units.DefaultShotcreteUnitWeight
	}
	return gamma * s.Thickness * area
}
