package block

import "math"

// Compute runs the selected load model on a validated geometry.
// It is a pure function: the same inputs always give the same LoadResult.
func Compute(v Variant, g Geometry) (LoadResult, error) {
	if err := g.Validate(v); err != nil {
		return LoadResult{}, err
	}

	var s shape
	switch v {
	case Pyramid:
		s = pyramidShape(g)
	case FlatBlock:
		s = flatShape(g)
	case ShaleWedge:
		s = shaleShape(g)
	}

	area, perimeter := footprint(g)

	// W = V * γ_rock + q * A
	weight := s.volume*g.UnitWeight + g.Surcharge*area

	// An underflowed block carries no usable load and its margins overflow
	if !(weight > 0) || math.IsInf(weight, 0) || math.IsInf(1/weight, 0) {
		return LoadResult{}, &GeometryError{Field: "weight", Value: weight, Reason: "must be a positive finite load"}
	}

	return LoadResult{
		Variant:         v,
		Weight:          weight,
		Volume:          s.volume,
		Height:          s.height,
		ContactArea:     area,
		Perimeter:       perimeter,
		EffectiveSpan:   s.span,
		FaceArea:        s.faceArea,
		UniformPressure: weight / area,
	}, nil
}
