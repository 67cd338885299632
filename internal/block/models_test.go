package block

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatBlockScenario(t *testing.T) {
	g := Geometry{SpacingX: 1.0, SpacingY: 1.0, Thickness: 1.0, UnitWeight: 27}

	res, err := Compute(FlatBlock, g)
	require.NoError(t, err)

	assert.InDelta(t, 27.0, res.Weight, 1e-12)
	assert.InDelta(t, 1.0, res.ContactArea, 1e-12)
	assert.InDelta(t, 4.0, res.Perimeter, 1e-12)
	assert.InDelta(t, 1.0, res.EffectiveSpan, 1e-12)
	assert.InDelta(t, 27.0, res.UniformPressure, 1e-12)
	assert.Equal(t, FlatBlock, res.Variant)
}

func TestPyramidWeight(t *testing.T) {
	g := Geometry{SpacingX: 2.0, SpacingY: 2.0, UnitWeight: 25}

	res, err := Compute(Pyramid, g)
	require.NoError(t, err)

	h := math.Tan(math.Pi / 3) // (s/2)·tan60° with s = 2
	assert.InDelta(t, h, res.Height, 1e-12)
	assert.InDelta(t, 4*h/3, res.Volume, 1e-12)
	assert.InDelta(t, 25*4*h/3, res.Weight, 1e-9)
	assert.InDelta(t, 4.0, res.ContactArea, 1e-12)
	// slant height is 2 m, four faces of 2 m²
	assert.InDelta(t, 8.0, res.FaceArea, 1e-9)
}

func TestPyramidIgnoresSideAngles(t *testing.T) {
	a, err := Compute(Pyramid, Geometry{SpacingX: 1.5, SpacingY: 1.5, UnitWeight: 26})
	require.NoError(t, err)
	b, err := Compute(Pyramid, Geometry{SpacingX: 1.5, SpacingY: 1.5, SideAngleX: 30, SideAngleY: 45, UnitWeight: 26})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestShaleWedgeMatchesPyramidOnSquare(t *testing.T) {
	for _, s := range []float64{0.5, 1.2, 2.0, 3.7} {
		p, err := Compute(Pyramid, Geometry{SpacingX: s, SpacingY: s, UnitWeight: 26})
		require.NoError(t, err)
		w, err := Compute(ShaleWedge, Geometry{SpacingX: s, SpacingY: s, SideAngleX: 60, SideAngleY: 60, UnitWeight: 26})
		require.NoError(t, err)

		assert.InDelta(t, p.Volume, w.Volume, 1e-9, "s=%.2f", s)
		assert.InDelta(t, p.Height, w.Height, 1e-9, "s=%.2f", s)
		assert.InDelta(t, p.FaceArea, w.FaceArea, 1e-9, "s=%.2f", s)
	}
}

func TestShaleWedgeHipRoofVolume(t *testing.T) {
	// Equal angles over a rectangle give a hip roof: V = k·a²·(3b − a)/12
	a, b, angle := 1.2, 2.0, 50.0
	k := math.Tan(angle * math.Pi / 180)
	want := k * a * a * (3*b - a) / 12

	for _, g := range []Geometry{
		{SpacingX: a, SpacingY: b, SideAngleX: angle, SideAngleY: angle, UnitWeight: 25},
		{SpacingX: b, SpacingY: a, SideAngleX: angle, SideAngleY: angle, UnitWeight: 25},
	} {
		res, err := Compute(ShaleWedge, g)
		require.NoError(t, err)
		assert.InDelta(t, want, res.Volume, 1e-9)
		assert.InDelta(t, k*a/2, res.Height, 1e-9)
		assert.InDelta(t, b, res.EffectiveSpan, 1e-12)
	}
}

func TestShaleWedgeSymmetry(t *testing.T) {
	g1 := Geometry{SpacingX: 1.1, SpacingY: 2.3, SideAngleX: 40, SideAngleY: 70, UnitWeight: 25}
	g2 := Geometry{SpacingX: 2.3, SpacingY: 1.1, SideAngleX: 70, SideAngleY: 40, UnitWeight: 25}

	r1, err := Compute(ShaleWedge, g1)
	require.NoError(t, err)
	r2, err := Compute(ShaleWedge, g2)
	require.NoError(t, err)

	assert.InDelta(t, r1.Volume, r2.Volume, 1e-9)
	assert.InDelta(t, r1.FaceArea, r2.FaceArea, 1e-9)
	assert.InDelta(t, r1.Height, r2.Height, 1e-9)
}

func TestSteeperShaleWedgeIsHeavier(t *testing.T) {
	prev := 0.0
	for _, angle := range []float64{20, 35, 45, 60, 75, 85} {
		res, err := Compute(ShaleWedge, Geometry{SpacingX: 1.5, SpacingY: 1.8, SideAngleX: angle, SideAngleY: angle, UnitWeight: 25})
		require.NoError(t, err)
		assert.Greater(t, res.Weight, prev, "angle=%.0f", angle)
		prev = res.Weight
	}
}

func TestDemandIsMonotonicInSpacing(t *testing.T) {
	base := Geometry{SpacingX: 0.5, SpacingY: 0.8, SideAngleX: 45, SideAngleY: 55, Thickness: 0.4, UnitWeight: 26, Surcharge: 2}

	for _, v := range Variants {
		t.Run(string(v), func(t *testing.T) {
			prevX, prevY := 0.0, 0.0
			for s := 0.25; s <= 4.0; s += 0.25 {
				gx := base
				gx.SpacingX = s
				rx, err := Compute(v, gx)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, rx.Weight, prevX, "spacing_x=%.2f", s)
				prevX = rx.Weight

				gy := base
				gy.SpacingY = s
				ry, err := Compute(v, gy)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, ry.Weight, prevY, "spacing_y=%.2f", s)
				prevY = ry.Weight
			}
		})
	}
}

func TestSurchargeAddsToWeight(t *testing.T) {
	g := Geometry{SpacingX: 2, SpacingY: 1.5, Thickness: 0.5, UnitWeight: 24}
	bare, err := Compute(FlatBlock, g)
	require.NoError(t, err)

	g.Surcharge = 10
	loaded, err := Compute(FlatBlock, g)
	require.NoError(t, err)

	assert.InDelta(t, bare.Weight+10*3, loaded.Weight, 1e-9)
	assert.Equal(t, bare.Volume, loaded.Volume)
}

func TestInvalidGeometry(t *testing.T) {
	valid := Geometry{SpacingX: 1, SpacingY: 1, SideAngleX: 45, SideAngleY: 45, Thickness: 0.5, UnitWeight: 26}

	tests := []struct {
		name    string
		variant Variant
		mutate  func(*Geometry)
		field   string
	}{
		{"zero spacing x pyramid", Pyramid, func(g *Geometry) { g.SpacingX = 0 }, "spacing_x"},
		{"negative spacing y pyramid", Pyramid, func(g *Geometry) { g.SpacingY = -1 }, "spacing_y"},
		{"zero spacing flat", FlatBlock, func(g *Geometry) { g.SpacingX = 0 }, "spacing_x"},
		{"negative spacing shale", ShaleWedge, func(g *Geometry) { g.SpacingY = -0.2 }, "spacing_y"},
		{"NaN spacing", FlatBlock, func(g *Geometry) { g.SpacingX = math.NaN() }, "spacing_x"},
		{"zero unit weight", Pyramid, func(g *Geometry) { g.UnitWeight = 0 }, "unit_weight"},
		{"negative surcharge", FlatBlock, func(g *Geometry) { g.Surcharge = -1 }, "surcharge"},
		{"flat without thickness", FlatBlock, func(g *Geometry) { g.Thickness = 0 }, "thickness"},
		{"shale angle zero", ShaleWedge, func(g *Geometry) { g.SideAngleX = 0 }, "side_angle_x"},
		{"shale angle ninety", ShaleWedge, func(g *Geometry) { g.SideAngleY = 90 }, "side_angle_y"},
		{"shale angle above ninety", ShaleWedge, func(g *Geometry) { g.SideAngleX = 120 }, "side_angle_x"},
		{"shale angle negative", ShaleWedge, func(g *Geometry) { g.SideAngleY = -10 }, "side_angle_y"},
		{"unknown variant", Variant("dome"), func(g *Geometry) {}, "variant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := valid
			tt.mutate(&g)

			_, err := Compute(tt.variant, g)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidGeometry))

			var gerr *GeometryError
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, tt.field, gerr.Field)
		})
	}
}

func TestDegenerateWeightRejected(t *testing.T) {
	g := Geometry{SpacingX: 1, SpacingY: 1, SideAngleX: 1e-320, SideAngleY: 45, UnitWeight: 25}

	_, err := Compute(ShaleWedge, g)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	var gerr *GeometryError
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, "weight", gerr.Field)

	// A surcharge still loads the lining
	g.Surcharge = 10
	res, err := Compute(ShaleWedge, g)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, res.Weight, 1e-9)
}

func TestParseVariant(t *testing.T) {
	tests := map[string]Variant{
		"pyramid":    Pyramid,
		"Pyramid60":  Pyramid,
		"FlatBlock":  FlatBlock,
		"hawkesbury": FlatBlock,
		" shale ":    ShaleWedge,
		"ShaleWedge": ShaleWedge,
	}
	for in, want := range tests {
		got, err := ParseVariant(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseVariant("dome")
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestPresetApply(t *testing.T) {
	g, v := Ashfield.Apply(Geometry{SpacingX: 1.5, SpacingY: 1.5}, "")
	assert.Equal(t, ShaleWedge, v)
	assert.Equal(t, 45.0, g.SideAngleX)
	assert.Equal(t, 45.0, g.SideAngleY)
	assert.Equal(t, 25.0, g.UnitWeight)

	// Explicit values win over the preset
	g, v = Hawkesbury.Apply(Geometry{SpacingX: 1, SpacingY: 1, Thickness: 1.2, UnitWeight: 23}, Pyramid)
	assert.Equal(t, Pyramid, v)
	assert.Equal(t, 1.2, g.Thickness)
	assert.Equal(t, 23.0, g.UnitWeight)

	p, err := ParsePreset("HawkesburySandstone")
	require.NoError(t, err)
	assert.Equal(t, Hawkesbury, p)

	_, err = ParsePreset("granite")
	assert.Error(t, err)
}
