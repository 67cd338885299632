package design

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workmatechiho-source/shotcrete/internal/block"
	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/lining"
)

func flatInput() Input {
	s := lining.DefaultShotcrete()
	s.Thickness = 0.05
	s.BondStrength = 0.1
	return Input{
		Geometry:   block.Geometry{SpacingX: 1, SpacingY: 1, Thickness: 1, UnitWeight: 27},
		Variant:    block.FlatBlock,
		Shotcrete:  s,
		Philosophy: FoS,
	}
}

func pyramidInput() Input {
	return Input{
		Geometry:      block.Geometry{SpacingX: 2, SpacingY: 2, UnitWeight: 25},
		Variant:       block.Pyramid,
		Shotcrete:     lining.DefaultShotcrete(),
		Reinforcement: &lining.Reinforcement{Capacity: 80, Spacing: 1.5},
		Philosophy:    LRFD,
		CodeVersion:   codes.BM2017,
	}
}

func TestFlatBlockFoSScenario(t *testing.T) {
	res, err := NewEvaluator(codes.Builtin()).Evaluate(flatInput())
	require.NoError(t, err)

	assert.InDelta(t, 27.0, res.Load.Weight, 1e-12)
	assert.InDelta(t, 1.0, res.Load.ContactArea, 1e-12)

	adh, ok := res.Mode(codes.Adhesion)
	require.True(t, ok)
	assert.InDelta(t, 100.0, adh.Capacity, 1e-9)
	assert.InDelta(t, 100.0/27.0, adh.Margin, 1e-9)
	assert.InDelta(t, 3.70, adh.Margin, 0.005)
	assert.True(t, adh.Pass)

	assert.Equal(t, FoS, res.Philosophy)
	assert.Equal(t, codes.DefaultVersion, res.CodeVersion)
	assert.Equal(t, codes.DefaultRequiredFoS, res.RequiredFoS)
}

func TestPyramidLRFDFactorSwap(t *testing.T) {
	in := pyramidInput()

	base, err := Evaluate(codes.Builtin(), in)
	require.NoError(t, err)
	assert.Equal(t, 1.0, base.RequiredFoS)

	for _, mr := range base.Modes {
		assert.Equal(t, 0.6, mr.Phi)
		assert.Equal(t, 1.5, mr.Gamma)
		assert.InDelta(t, 0.6*mr.Capacity/(1.5*mr.Demand), mr.Margin, 1e-12)
		assert.InDelta(t, 1/mr.Margin, mr.Utilization, 1e-12)
	}

	tbl, err := codes.Builtin().With(
		codes.Entry{Version: codes.BM2017, Mode: codes.Flexure, Kind: codes.Phi, Value: 0.8},
		codes.Entry{Version: codes.BM2017, Mode: codes.Punching, Kind: codes.Gamma, Value: 1.2},
	)
	require.NoError(t, err)

	swapped, err := Evaluate(tbl, in)
	require.NoError(t, err)

	fl0, _ := base.Mode(codes.Flexure)
	fl1, _ := swapped.Mode(codes.Flexure)
	assert.InDelta(t, fl0.Margin*0.8/0.6, fl1.Margin, 1e-9)

	pu0, _ := base.Mode(codes.Punching)
	pu1, _ := swapped.Mode(codes.Punching)
	assert.InDelta(t, pu0.Margin*1.5/1.2, pu1.Margin, 1e-9)

	// untouched modes keep their margins
	ad0, _ := base.Mode(codes.Adhesion)
	ad1, _ := swapped.Mode(codes.Adhesion)
	assert.Equal(t, ad0.Margin, ad1.Margin)

	// the demand itself never changes
	assert.Equal(t, base.Load, swapped.Load)
}

func TestPhilosophyConsistency(t *testing.T) {
	inputs := []Input{flatInput(), pyramidInput()}
	inputs = append(inputs, Input{
		Geometry:  block.Geometry{SpacingX: 1.2, SpacingY: 2.4, SideAngleX: 45, SideAngleY: 60, UnitWeight: 25},
		Variant:   block.ShaleWedge,
		Shotcrete: lining.DefaultShotcrete(),
	})

	for _, in := range inputs {
		t.Run(string(in.Variant), func(t *testing.T) {
			in.RequiredFoS = 1.0

			in.Philosophy = FoS
			fos, err := Evaluate(codes.Uniform(), in)
			require.NoError(t, err)

			in.Philosophy = LRFD
			lrfd, err := Evaluate(codes.Uniform(), in)
			require.NoError(t, err)

			for i := range fos.Modes {
				assert.InDelta(t, fos.Modes[i].Margin, lrfd.Modes[i].Margin, 1e-12)
				assert.Equal(t, fos.Modes[i].Pass, lrfd.Modes[i].Pass)
			}
			assert.Equal(t, fos.Governing, lrfd.Governing)
			assert.Equal(t, fos.Pass, lrfd.Pass)
		})
	}
}

func TestGoverningModeIsMinimum(t *testing.T) {
	ev := NewEvaluator(codes.Builtin())

	for _, in := range []Input{flatInput(), pyramidInput()} {
		for th := 0.03; th <= 0.3; th += 0.03 {
			in.Shotcrete.Thickness = th
			res, err := ev.Evaluate(in)
			require.NoError(t, err)

			for _, mr := range res.Modes {
				assert.LessOrEqual(t, res.GoverningMargin, mr.Margin)
			}
			gov := res.GoverningResult()
			assert.Equal(t, res.Governing, gov.Mode)
			assert.Equal(t, res.GoverningMargin, gov.Margin)
		}
	}
}

func TestGoverningModeTieBreak(t *testing.T) {
	geom := block.Geometry{SpacingX: 1, SpacingY: 1, Thickness: 1, UnitWeight: 27}

	tests := []struct {
		name      string
		shotcrete lining.Shotcrete
		want      codes.Mode
	}{
		{
			// adhesion 500 kN ties direct shear 500 kN
			name:      "adhesion beats direct shear",
			shotcrete: lining.Shotcrete{Thickness: 0.375, BondStrength: 0.5, ShearStrength: 0.5, PunchingStrength: 2, FlexuralStrength: 4},
			want:      codes.Adhesion,
		},
		{
			// punching 750 kN ties direct shear 750 kN
			name:      "punching beats direct shear",
			shotcrete: lining.Shotcrete{Thickness: 0.375, BondStrength: 2, ShearStrength: 0.75, PunchingStrength: 0.5, FlexuralStrength: 4},
			want:      codes.Punching,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(codes.Uniform(), Input{Geometry: geom, Variant: block.FlatBlock, Shotcrete: tt.shotcrete})
			require.NoError(t, err)

			tied := 0
			for _, mr := range res.Modes {
				if mr.Margin == res.GoverningMargin {
					tied++
				}
			}
			require.Equal(t, 2, tied)
			assert.Equal(t, tt.want, res.Governing)
		})
	}
}

func TestMarginMonotonicInThickness(t *testing.T) {
	in := pyramidInput()
	ev := NewEvaluator(codes.Builtin())

	var prev Result
	for i, th := range []float64{0.05, 0.075, 0.1, 0.15, 0.2, 0.25} {
		in.Shotcrete.Thickness = th
		res, err := ev.Evaluate(in)
		require.NoError(t, err)
		if i > 0 {
			for m := range res.Modes {
				assert.GreaterOrEqual(t, res.Modes[m].Margin, prev.Modes[m].Margin)
			}
		}
		prev = res
	}
}

func TestEvaluateIsPure(t *testing.T) {
	in := pyramidInput()
	ev := NewEvaluator(codes.Builtin())

	first, err := ev.Evaluate(in)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := ev.Evaluate(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	var wg sync.WaitGroup
	results := make([]Result, 32)
	errs := make([]error, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = ev.Evaluate(in)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, first, results[i])
	}
}

func TestResultDoesNotAliasInput(t *testing.T) {
	in := pyramidInput()
	res, err := Evaluate(codes.Builtin(), in)
	require.NoError(t, err)

	in.Reinforcement.Capacity = 999
	in.Geometry.SpacingX = 9

	assert.Equal(t, 80.0, res.Input.Reinforcement.Capacity)
	assert.Equal(t, 2.0, res.Input.Geometry.SpacingX)
}

func TestErrorsPropagate(t *testing.T) {
	ev := NewEvaluator(codes.Builtin())

	t.Run("invalid geometry", func(t *testing.T) {
		in := flatInput()
		in.Geometry.SpacingY = 0
		res, err := ev.Evaluate(in)
		require.Error(t, err)
		assert.True(t, errors.Is(err, block.ErrInvalidGeometry))
		assert.Equal(t, Result{}, res)

		var gerr *block.GeometryError
		require.True(t, errors.As(err, &gerr))
		assert.Equal(t, "spacing_y", gerr.Field)
	})

	t.Run("shale angle out of range", func(t *testing.T) {
		in := Input{
			Geometry:  block.Geometry{SpacingX: 1, SpacingY: 1, SideAngleX: 90, SideAngleY: 45, UnitWeight: 25},
			Variant:   block.ShaleWedge,
			Shotcrete: lining.DefaultShotcrete(),
		}
		_, err := ev.Evaluate(in)
		assert.ErrorIs(t, err, block.ErrInvalidGeometry)
	})

	t.Run("invalid material", func(t *testing.T) {
		in := flatInput()
		in.Shotcrete.Thickness = 0
		_, err := ev.Evaluate(in)
		assert.ErrorIs(t, err, lining.ErrInvalidMaterial)
	})

	t.Run("missing capacity factor", func(t *testing.T) {
		src := codes.Builtin().Without(codes.DirectShear, codes.Model, codes.BM2017)
		_, err := Evaluate(src, flatInput())
		assert.ErrorIs(t, err, lining.ErrMissingFactor)
		assert.ErrorIs(t, err, codes.ErrUnknownFactor)
	})

	t.Run("missing LRFD factor", func(t *testing.T) {
		src := codes.Builtin().Without(codes.Flexure, codes.Gamma, codes.BM2017)
		_, err := Evaluate(src, pyramidInput())
		assert.ErrorIs(t, err, lining.ErrMissingFactor)
		assert.ErrorIs(t, err, codes.ErrUnknownFactor)

		// FoS design never asks for γ
		in := pyramidInput()
		in.Philosophy = FoS
		_, err = Evaluate(src, in)
		assert.NoError(t, err)
	})

	t.Run("unknown code version", func(t *testing.T) {
		in := flatInput()
		in.CodeVersion = "BM2030"
		_, err := ev.Evaluate(in)
		assert.ErrorIs(t, err, codes.ErrUnknownFactor)
	})

	t.Run("bad philosophy and fos", func(t *testing.T) {
		in := flatInput()
		in.Philosophy = "ASD"
		_, err := ev.Evaluate(in)
		assert.ErrorIs(t, err, ErrInvalidInput)

		in = flatInput()
		in.RequiredFoS = -1
		_, err = ev.Evaluate(in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestRequiredFoSThreshold(t *testing.T) {
	in := flatInput()

	in.RequiredFoS = 3.5
	res, err := Evaluate(codes.Builtin(), in)
	require.NoError(t, err)
	adh, _ := res.Mode(codes.Adhesion)
	assert.True(t, adh.Pass)

	in.RequiredFoS = 4.0
	res, err = Evaluate(codes.Builtin(), in)
	require.NoError(t, err)
	adh, _ = res.Mode(codes.Adhesion)
	assert.False(t, adh.Pass)
	assert.False(t, res.Pass)

	ev := &Evaluator{Source: codes.Builtin(), DefaultFoS: 2.0}
	in.RequiredFoS = 0
	res, err = ev.Evaluate(in)
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.RequiredFoS)
}

func TestParsePhilosophy(t *testing.T) {
	p, err := ParsePhilosophy("")
	require.NoError(t, err)
	assert.Equal(t, FoS, p)

	p, err = ParsePhilosophy("lrfd")
	require.NoError(t, err)
	assert.Equal(t, LRFD, p)

	_, err = ParsePhilosophy("asd")
	assert.Error(t, err)
}
