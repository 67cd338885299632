package lining

import (
	"fmt"

	"github.com/workmatechiho-source/shotcrete/internal/block"
	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/units"
)

// formulaNames identifies the capacity expression used per mode
var formulaNames = map[codes.Mode]string{
	codes.Adhesion:    "adhesion/bond-area",
	codes.Flexure:     "flexure/two-way-strip",
	codes.Punching:    "punching/perimeter-shear",
	codes.DirectShear: "direct_shear/interface-sliding",
}

// Capacity computes the resisting force of one failure mode.
// The load result is read-only; reinf may be nil.
func Capacity(mode codes.Mode, load block.LoadResult, s Shotcrete, reinf *Reinforcement, src codes.Source, version codes.Version) (CapacityResult, error) {
	if err := s.Validate(); err != nil {
		return CapacityResult{}, err
	}
	if reinf != nil {
		if err := reinf.Validate(); err != nil {
			return CapacityResult{}, err
		}
	}
	name, ok := formulaNames[mode]
	if !ok {
		return CapacityResult{}, &missingFactorError{mode: mode, err: &codes.FactorError{Mode: mode, Version: version, Reason: "unknown failure mode"}}
	}

	resolve := func(kind codes.Kind) (float64, error) {
		f, err := src.Resolve(mode, kind, version)
		if err != nil {
			return 0, &missingFactorError{mode: mode, err: err}
		}
		return f, nil
	}

	model, err := resolve(codes.Model)
	if err != nil {
		return CapacityResult{}, err
	}

	tEff := s.EffectiveThickness()
	res := CapacityResult{
		Mode:    mode,
		Formula: fmt.Sprintf("%s@%s", name, version),
	}
	add := func(name string, value float64, unit string) {
		res.Terms = append(res.Terms, Term{Name: name, Value: value, Unit: unit})
	}

	var base float64
	switch mode {
	case codes.Adhesion:
		// C = τb · A_bond · F
		area := load.ContactArea
		if s.BondWidth > 0 {
			area = load.Perimeter * s.BondWidth
		}
		base = units.KPa(s.BondStrength) * area * model
		add("tau_b", s.BondStrength, "MPa")
		add("a_bond", area, "m²")

	case codes.Flexure:
		// M_rd = f_r · t²/6 per metre; C is the block weight whose
		// two-way strip moment β·wL²/8 reaches M_rd
		z := tEff * tEff / codes.SectionModulusDivisor
		mRd := units.KPa(s.FlexuralStrength) * z
		span := load.EffectiveSpan
		if span > 0 {
			base = 8 * mRd * load.ContactArea / (codes.TwoWayCoefficient * span * span) * model
		}
		add("f_r", s.FlexuralStrength, "MPa")
		add("t_eff", tEff, "m")
		add("z", z, "m³/m")
		add("m_rd", mRd, "kN·m/m")
		add("span", span, "m")

	case codes.Punching:
		// C = v_rd · perimeter · t_eff · F
		v := s.punchingStrength()
		base = units.KPa(v) * load.Perimeter * tEff * model
		add("v_rd", v, "MPa")
		add("perimeter", load.Perimeter, "m")
		add("t_eff", tEff, "m")

	case codes.DirectShear:
		// C = τv · A · F
		base = units.KPa(s.ShearStrength) * load.ContactArea * model
		add("tau_v", s.ShearStrength, "MPa")
		add("contact_area", load.ContactArea, "m²")
	}
	add("model_factor", model, "")

	if s.FibreDosage > 0 {
		fibre, err := resolve(codes.Fibre)
		if err != nil {
			return CapacityResult{}, err
		}
		base *= fibre
		add("fibre_factor", fibre, "")
	}
	add("shotcrete_capacity", base, "kN")

	total := base
	if reinf != nil {
		share, err := resolve(codes.Reinforcement)
		if err != nil {
			return CapacityResult{}, err
		}
		// supports inside the block footprint on a square pattern
		n := load.ContactArea / (reinf.Spacing * reinf.Spacing)
		contribution := n * reinf.Capacity * share
		total += contribution
		add("supports", n, "")
		add("reinforcement_share", share, "")
		add("reinforcement_capacity", contribution, "kN")
	}

	res.Capacity = total
	return res, nil
}

// Capacities computes all four modes in precedence order, stopping at the first error
func Capacities(load block.LoadResult, s Shotcrete, reinf *Reinforcement, src codes.Source, version codes.Version) ([4]CapacityResult, error) {
	var out [4]CapacityResult
	for i, mode := range codes.Modes {
		c, err := Capacity(mode, load, s, reinf, src, version)
		if err != nil {
			return [4]CapacityResult{}, err
		}
		out[i] = c
	}
	return out, nil
}
