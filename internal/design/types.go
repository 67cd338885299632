package design

import (
	"fmt"
	"strings"

	"github.com/workmatechiho-source/shotcrete/internal/block"
	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/lining"
)

// Philosophy selects how demand and capacity are compared
type Philosophy string

const (
	// FoS compares capacity/demand with a required factor of safety
	FoS Philosophy = "FOS"
	// LRFD compares φ·capacity with γ·demand
	LRFD Philosophy = "LRFD"
)

// Philosophies lists the recognised design philosophies
var Philosophies = []Philosophy{FoS, LRFD}

// ParsePhilosophy accepts "fos" or "lrfd", case-insensitive.
// An empty string selects FoS.
func ParsePhilosophy(s string) (Philosophy, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "FOS", "FS":
		return FoS, nil
	case "LRFD":
		return LRFD, nil
	}
	return "", fmt.Errorf("unknown design philosophy %q (expected fos | lrfd)", s)
}

// Input is everything one evaluation needs
type Input struct {
	Geometry      block.Geometry        `json:"geometry" yaml:"geometry"`
	Variant       block.Variant         `json:"variant" yaml:"variant"`
	Shotcrete     lining.Shotcrete      `json:"shotcrete" yaml:"shotcrete"`
	Reinforcement *lining.Reinforcement `json:"reinforcement,omitempty" yaml:"reinforcement,omitempty"`
	Philosophy    Philosophy            `json:"philosophy" yaml:"philosophy"`
	CodeVersion   codes.Version         `json:"code_version" yaml:"code_version"`

	// Required factor of safety for FoS design; zero takes the evaluator default
	RequiredFoS float64 `json:"required_fos,omitempty" yaml:"required_fos,omitempty"`
}

// clone copies the input so the echo shares nothing with the caller
func (in Input) clone() Input {
	out := in
	if in.Reinforcement != nil {
		r := *in.Reinforcement
		out.Reinforcement = &r
	}
	return out
}

// ModeResult is the verdict for one failure mode
type ModeResult struct {
	Mode     codes.Mode `json:"mode"`
	Demand   float64    `json:"demand"`   // kN
	Capacity float64    `json:"capacity"` // kN

	// Factors applied (LRFD); both are 1 in FoS design
	Phi   float64 `json:"phi"`
	Gamma float64 `json:"gamma"`

	Margin      float64 `json:"margin"`      // FoS, or φC/(γD) in LRFD
	Utilization float64 `json:"utilization"` // 1/margin
	Pass        bool    `json:"pass"`
}

// Result is the terminal, immutable artifact of an evaluation.
// It holds no references into the caller's input.
type Result struct {
	Input Input `json:"input"`

	Load       block.LoadResult          `json:"load"`
	Capacities [4]lining.CapacityResult `json:"capacities"`
	Modes      [4]ModeResult             `json:"modes"`

	Governing       codes.Mode `json:"governing"`
	GoverningMargin float64    `json:"governing_margin"`
	Pass            bool       `json:"pass"`

	Philosophy  Philosophy    `json:"philosophy"`
	CodeVersion codes.Version `json:"code_version"`
	RequiredFoS float64       `json:"required_fos"` // threshold applied; 1 in LRFD
}

// Mode returns the verdict for m
func (r Result) Mode(m codes.Mode) (ModeResult, bool) {
	i := m.Index()
	if i < 0 || i >= len(r.Modes) {
		return ModeResult{}, false
	}
	return r.Modes[i], true
}

// GoverningResult returns the verdict of the governing mode
func (r Result) GoverningResult() ModeResult {
	mr, _ := r.Mode(r.Governing)
	return mr
}
