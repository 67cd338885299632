package design

import (
	"errors"
	"fmt"
	"math"

	"github.com/workmatechiho-source/shotcrete/internal/block"
	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/lining"
)

// ErrInvalidInput is matched when the philosophy or required FoS is unusable
var ErrInvalidInput = errors.New("invalid design input")

// Evaluator runs the load, capacity and comparison pipeline.
// It holds only read-only configuration and is safe for concurrent use.
type Evaluator struct {
	Source     codes.Source
	DefaultFoS float64 // used when Input.RequiredFoS is zero
}

// NewEvaluator returns an evaluator over src with the standard required FoS
func NewEvaluator(src codes.Source) *Evaluator {
	return &Evaluator{Source: src, DefaultFoS: codes.DefaultRequiredFoS}
}

// Evaluate produces a Result from the input, or the first component error
// unchanged. It never mutates in.
func (e *Evaluator) Evaluate(in Input) (Result, error) {
	philosophy := in.Philosophy
	if philosophy == "" {
		philosophy = FoS
	}
	if philosophy != FoS && philosophy != LRFD {
		return Result{}, fmt.Errorf("%w: unknown philosophy %q", ErrInvalidInput, in.Philosophy)
	}

	version := in.CodeVersion
	if version == "" {
		version = codes.DefaultVersion
	}

	required := in.RequiredFoS
	if required == 0 {
		required = e.DefaultFoS
	}
	if required == 0 {
		required = codes.DefaultRequiredFoS
	}
	if math.IsNaN(required) || math.IsInf(required, 0) || required < 0 {
		return Result{}, fmt.Errorf("%w: required_fos=%g must be a positive number", ErrInvalidInput, in.RequiredFoS)
	}
	if philosophy == LRFD {
		required = 1.0
	}

	// Step 1: demand
	load, err := block.Compute(in.Variant, in.Geometry)
	if err != nil {
		return Result{}, err
	}

	// Step 2: capacities, fail-fast
	caps, err := lining.Capacities(load, in.Shotcrete, in.Reinforcement, e.Source, version)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Input:       in.clone(),
		Load:        load,
		Capacities:  caps,
		Philosophy:  philosophy,
		CodeVersion: version,
		RequiredFoS: required,
		Pass:        true,
	}

	// Step 3: per-mode comparison
	for i, c := range caps {
		mr := ModeResult{
			Mode:     c.Mode,
			Demand:   load.Weight,
			Capacity: c.Capacity,
			Phi:      1,
			Gamma:    1,
		}
		if philosophy == LRFD {
			if mr.Phi, err = e.resolve(c.Mode, codes.Phi, version); err != nil {
				return Result{}, err
			}
			if mr.Gamma, err = e.resolve(c.Mode, codes.Gamma, version); err != nil {
				return Result{}, err
			}
		}

		mr.Margin = (mr.Phi * mr.Capacity) / (mr.Gamma * mr.Demand)
		mr.Utilization = utilization(mr.Margin)
		mr.Pass = mr.Margin >= required
		res.Modes[i] = mr

		if !mr.Pass {
			res.Pass = false
		}
	}

	// Step 4: governing mode, earliest mode wins a tie
	gov := 0
	for i := 1; i < len(res.Modes); i++ {
		if res.Modes[i].Margin < res.Modes[gov].Margin {
			gov = i
		}
	}
	res.Governing = res.Modes[gov].Mode
	res.GoverningMargin = res.Modes[gov].Margin

	return res, nil
}

func (e *Evaluator) resolve(mode codes.Mode, kind codes.Kind, version codes.Version) (float64, error) {
	f, err := e.Source.Resolve(mode, kind, version)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %w", lining.ErrMissingFactor, mode, kind, err)
	}
	return f, nil
}

// utilization is 1/margin, capped so a zero capacity still encodes as a number
func utilization(margin float64) float64 {
	if margin <= 0 {
		return math.MaxFloat64
	}
	return 1 / margin
}

// Evaluate runs a single evaluation against src with the standard defaults
func Evaluate(src codes.Source, in Input) (Result, error) {
	return NewEvaluator(src).Evaluate(in)
}
