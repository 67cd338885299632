package lining

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workmatechiho-source/shotcrete/internal/block"
	"github.com/workmatechiho-source/shotcrete/internal/codes"
)

func flatLoad(t *testing.T) block.LoadResult {
	t.Helper()
	load, err := block.Compute(block.FlatBlock, block.Geometry{SpacingX: 1, SpacingY: 1, Thickness: 1, UnitWeight: 27})
	require.NoError(t, err)
	return load
}

func TestAdhesionScenario(t *testing.T) {
	load := flatLoad(t)
	s := Shotcrete{Thickness: 0.05, BondStrength: 0.1}

	res, err := Capacity(codes.Adhesion, load, s, nil, codes.Builtin(), codes.BM2017)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, res.Capacity, 1e-9)
	assert.Equal(t, codes.Adhesion, res.Mode)
	assert.Equal(t, "adhesion/bond-area@BM2017", res.Formula)

	area, ok := res.Term("a_bond")
	require.True(t, ok)
	assert.InDelta(t, 1.0, area, 1e-12)
}

func TestAdhesionBondRing(t *testing.T) {
	load := flatLoad(t)
	s := Shotcrete{Thickness: 0.05, BondStrength: 0.5, BondWidth: 0.05}

	res, err := Capacity(codes.Adhesion, load, s, nil, codes.Builtin(), codes.BM2017)
	require.NoError(t, err)
	// 500 kPa over a 4 m x 0.05 m ring
	assert.InDelta(t, 100.0, res.Capacity, 1e-9)
}

func TestFlexureCapacity(t *testing.T) {
	load := flatLoad(t)
	s := Shotcrete{Thickness: 0.1, FlexuralStrength: 1.2}

	res, err := Capacity(codes.Flexure, load, s, nil, codes.Builtin(), codes.BM2017)
	require.NoError(t, err)

	mRd := 1200 * 0.1 * 0.1 / 6
	want := 8 * mRd * 1.0 / (0.6 * 1.0)
	assert.InDelta(t, want, res.Capacity, 1e-9)
}

func TestPunchingFallsBackToShearStrength(t *testing.T) {
	load := flatLoad(t)
	s := Shotcrete{Thickness: 0.1, ShearStrength: 1.5}

	res, err := Capacity(codes.Punching, load, s, nil, codes.Builtin(), codes.BM2017)
	require.NoError(t, err)
	assert.InDelta(t, 1500*4*0.1, res.Capacity, 1e-9)

	s.PunchingStrength = 1.2
	res, err = Capacity(codes.Punching, load, s, nil, codes.Builtin(), codes.BM2017)
	require.NoError(t, err)
	assert.InDelta(t, 1200*4*0.1, res.Capacity, 1e-9)
}

func TestDurabilityAllowanceReducesThickness(t *testing.T) {
	load := flatLoad(t)
	s := Shotcrete{Thickness: 0.1, ShearStrength: 1.5, DurabilityAllowance: 0.02}
	assert.InDelta(t, 0.08, s.EffectiveThickness(), 1e-12)

	res, err := Capacity(codes.Punching, load, s, nil, codes.Builtin(), codes.BM2017)
	require.NoError(t, err)
	assert.InDelta(t, 1500*4*0.08, res.Capacity, 1e-9)

	s.DurabilityAllowance = 0.5
	assert.Equal(t, 0.0, s.EffectiveThickness())

	_, err = Capacity(codes.Flexure, load, s, nil, codes.Builtin(), codes.BM2017)
	assert.ErrorIs(t, err, ErrInvalidMaterial)
}

func TestCapacityMonotonicInThickness(t *testing.T) {
	geometries := map[block.Variant]block.Geometry{
		block.Pyramid:    {SpacingX: 1.5, SpacingY: 2, UnitWeight: 26},
		block.FlatBlock:  {SpacingX: 1.5, SpacingY: 2, Thickness: 0.6, UnitWeight: 24},
		block.ShaleWedge: {SpacingX: 1.5, SpacingY: 2, SideAngleX: 45, SideAngleY: 55, UnitWeight: 25},
	}
	reinf := &Reinforcement{Capacity: 100, Spacing: 1.5}

	for v, g := range geometries {
		load, err := block.Compute(v, g)
		require.NoError(t, err)

		for _, r := range []*Reinforcement{nil, reinf} {
			var prev [4]CapacityResult
			for th := 0.03; th <= 0.3; th += 0.01 {
				s := DefaultShotcrete()
				s.Thickness = th
				s.DurabilityAllowance = 0.01

				caps, err := Capacities(load, s, r, codes.Builtin(), codes.BM2017)
				require.NoError(t, err)
				if th > 0.03 {
					for i := range caps {
						assert.GreaterOrEqual(t, caps[i].Capacity, prev[i].Capacity, "%s %s t=%.2f", v, caps[i].Mode, th)
					}
				}
				prev = caps
			}
		}
	}
}

func TestReinforcementContribution(t *testing.T) {
	load, err := block.Compute(block.Pyramid, block.Geometry{SpacingX: 2, SpacingY: 2, UnitWeight: 25})
	require.NoError(t, err)
	s := DefaultShotcrete()
	reinf := &Reinforcement{Capacity: 120, Spacing: 1.5}

	bare, err := Capacities(load, s, nil, codes.Builtin(), codes.BM2017)
	require.NoError(t, err)
	withBolts, err := Capacities(load, s, reinf, codes.Builtin(), codes.BM2017)
	require.NoError(t, err)

	idx := func(m codes.Mode) int { return m.Index() }

	assert.Equal(t, bare[idx(codes.Adhesion)].Capacity, withBolts[idx(codes.Adhesion)].Capacity)
	assert.Greater(t, withBolts[idx(codes.DirectShear)].Capacity, bare[idx(codes.DirectShear)].Capacity)
	assert.Greater(t, withBolts[idx(codes.Punching)].Capacity, bare[idx(codes.Punching)].Capacity)

	// flexure gets half the direct shear increment through dowel action
	n := 4.0 / (1.5 * 1.5)
	assert.InDelta(t, n*120, withBolts[idx(codes.DirectShear)].Capacity-bare[idx(codes.DirectShear)].Capacity, 1e-9)
	assert.InDelta(t, n*60, withBolts[idx(codes.Flexure)].Capacity-bare[idx(codes.Flexure)].Capacity, 1e-9)
}

func TestFibreMultiplier(t *testing.T) {
	load := flatLoad(t)
	s := Shotcrete{Thickness: 0.1, ShearStrength: 1.5, FibreDosage: 40}

	tbl, err := codes.Builtin().With(codes.Entry{Version: codes.BM2017, Mode: codes.DirectShear, Kind: codes.Fibre, Value: 1.2})
	require.NoError(t, err)

	res, err := Capacity(codes.DirectShear, load, s, nil, tbl, codes.BM2017)
	require.NoError(t, err)
	assert.InDelta(t, 1500*1.2, res.Capacity, 1e-9)

	// no dosage, no multiplier
	s.FibreDosage = 0
	res, err = Capacity(codes.DirectShear, load, s, nil, tbl, codes.BM2017)
	require.NoError(t, err)
	assert.InDelta(t, 1500.0, res.Capacity, 1e-9)
}

func TestMissingFactor(t *testing.T) {
	load := flatLoad(t)
	s := DefaultShotcrete()

	tests := []struct {
		name  string
		src   codes.Source
		mode  codes.Mode
		reinf *Reinforcement
	}{
		{"model factor", codes.Builtin().Without(codes.Flexure, codes.Model, codes.BM2017), codes.Flexure, nil},
		{"reinforcement share", codes.Builtin().Without(codes.Punching, codes.Reinforcement, codes.BM2017), codes.Punching, &Reinforcement{Capacity: 50, Spacing: 1}},
		{"unknown mode", codes.Builtin(), codes.Mode("torsion"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Capacity(tt.mode, load, s, tt.reinf, tt.src, codes.BM2017)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingFactor))
			assert.True(t, errors.Is(err, codes.ErrUnknownFactor))
		})
	}

	_, err := Capacity(codes.Adhesion, load, s, nil, codes.Builtin(), codes.Version("BM2030"))
	assert.ErrorIs(t, err, ErrMissingFactor)
}

func TestInvalidMaterial(t *testing.T) {
	load := flatLoad(t)

	tests := []struct {
		name   string
		mutate func(*Shotcrete)
		field  string
	}{
		{"zero thickness", func(s *Shotcrete) { s.Thickness = 0 }, "thickness"},
		{"negative bond", func(s *Shotcrete) { s.BondStrength = -0.1 }, "bond_strength"},
		{"NaN shear", func(s *Shotcrete) { s.ShearStrength = math.NaN() }, "shear_strength"},
		{"negative allowance", func(s *Shotcrete) { s.DurabilityAllowance = -0.01 }, "durability_allowance"},
		{"allowance equals thickness", func(s *Shotcrete) { s.DurabilityAllowance = s.Thickness }, "durability_allowance"},
		{"allowance above thickness", func(s *Shotcrete) { s.DurabilityAllowance = 2 * s.Thickness }, "durability_allowance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultShotcrete()
			tt.mutate(&s)
			_, err := Capacity(codes.DirectShear, load, s, nil, codes.Builtin(), codes.BM2017)
			require.Error(t, err)

			var merr *MaterialError
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, tt.field, merr.Field)
			assert.ErrorIs(t, err, ErrInvalidMaterial)
		})
	}

	_, err := Capacity(codes.DirectShear, load, DefaultShotcrete(), &Reinforcement{Capacity: 10}, codes.Builtin(), codes.BM2017)
	var merr *MaterialError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "reinforcement.spacing", merr.Field)

	for _, mode := range []codes.Mode{codes.Punching, codes.DirectShear} {
		_, err = Capacity(mode, load, DefaultShotcrete(), &Reinforcement{Capacity: 0, Spacing: 1}, codes.Builtin(), codes.BM2017)
		require.True(t, errors.As(err, &merr), mode)
		assert.Equal(t, "reinforcement.capacity", merr.Field)
		assert.ErrorIs(t, err, ErrInvalidMaterial)
	}
}

func TestMaterialHelpers(t *testing.T) {
	assert.InDelta(t, 0.6*math.Sqrt(30), FlexuralTensile(30), 1e-12)
	assert.Equal(t, 0.0, FlexuralTensile(0))

	s := DefaultShotcrete()
	assert.InDelta(t, 24*0.1*2, s.SelfWeight(2), 1e-12)
}
