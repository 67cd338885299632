package block

import (
	"math"

	"github.com/workmatechiho-source/shotcrete/internal/units"
)

// shape holds the variant-specific terms before they are assembled
// into a LoadResult
type shape struct {
	volume   float64 // m³
	height   float64 // m
	span     float64 // m
	faceArea float64 // m²
}

// pyramidShape computes the 1995 pyramid: joint planes meet at one apex
// above the footprint centre. The apex height is set by the shorter span so
// that no face is steeper than the nominal 60°.
func pyramidShape(g Geometry) shape {
	a := math.Min(g.SpacingX, g.SpacingY)
	b := math.Max(g.SpacingX, g.SpacingY)

	h := 0.5 * a * math.Tan(units.Radians(units.NominalWedgeAngle))

	// V = (1/3) * base * height
	v := g.SpacingX * g.SpacingY * h / 3

	// Two triangular faces on each pair of edges
	slantX := math.Hypot(h, g.SpacingY/2)
	slantY := math.Hypot(h, g.SpacingX/2)
	faces := g.SpacingX*slantX + g.SpacingY*slantY

	return shape{volume: v, height: h, span: b, faceArea: faces}
}

// flatShape computes the 2017 flat-lying block: a prism of the loosened
// thickness bounded by the two joint sets and a bedding plane on top.
func flatShape(g Geometry) shape {
	a := math.Min(g.SpacingX, g.SpacingY)

	v := g.SpacingX * g.SpacingY * g.Thickness
	faces := g.SpacingX*g.SpacingY + 2*(g.SpacingX+g.SpacingY)*g.Thickness

	return shape{volume: v, height: g.Thickness, span: a, faceArea: faces}
}

// shaleShape computes the 2017 wedge bounded by four joint planes:
// the pair rising from the edges parallel to y dips at SideAngleX, the
// other pair at SideAngleY. The solid is a hip-roof wedge; its volume
// is integrated per quadrant.
//
//	z(u, v) = min(kx*u, ky*v),  u in [0, A], v in [0, B]
//
// where u, v are distances to the nearest edges and A, B the half spans.
func shaleShape(g Geometry) shape {
	halfX := g.SpacingX / 2
	halfY := g.SpacingY / 2
	kx := math.Tan(units.Radians(g.SideAngleX))
	ky := math.Tan(units.Radians(g.SideAngleY))

	var quadVolume, projX float64

	// u0 is where the two face families meet on the v = B line
	u0 := ky * halfY / kx
	if u0 >= halfX {
		// Ridge runs along y: the x-faces reach the centre line
		quadVolume = kx*halfY*halfX*halfX/2 - kx*kx*math.Pow(halfX, 3)/(6*ky)
		projX = halfX*halfY - kx*halfX*halfX/(2*ky)
	} else {
		quadVolume = ky*halfX*halfY*halfY/2 - ky*ky*math.Pow(halfY, 3)/(6*kx)
		projX = ky * halfY * halfY / (2 * kx)
	}
	projY := halfX*halfY - projX

	cosX := math.Cos(units.Radians(g.SideAngleX))
	cosY := math.Cos(units.Radians(g.SideAngleY))

	h := math.Min(kx*halfX, ky*halfY)
	span := math.Max(g.SpacingX, g.SpacingY)

	return shape{
		volume:   4 * quadVolume,
		height:   h,
		span:     span,
		faceArea: 4 * (projX/cosX + projY/cosY),
	}
}

// footprint returns the contact area and perimeter shared by all variants
func footprint(g Geometry) (area, perimeter float64) {
	return g.SpacingX * g.SpacingY, 2 * (g.SpacingX + g.SpacingY)
}
