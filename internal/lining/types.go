package lining

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/workmatechiho-source/shotcrete/internal/codes"
)

// Shotcrete holds the lining properties at the design age.
// Thickness in m, strengths in MPa, unit weight in kN/m³.
type Shotcrete struct {
	Thickness float64 `json:"thickness" yaml:"thickness" validate:"gt=0"`

	BondStrength        float64 `json:"bond_strength" yaml:"bond_strength" validate:"gte=0"`                         // τb, rock to shotcrete adhesion
	FlexuralStrength    float64 `json:"flexural_strength" yaml:"flexural_strength" validate:"gte=0"`                 // f_r, residual flexural tensile strength
	ShearStrength       float64 `json:"shear_strength" yaml:"shear_strength" validate:"gte=0"`                       // τv, in-plane shear
	PunchingStrength    float64 `json:"punching_strength,omitempty" yaml:"punching_strength,omitempty" validate:"gte=0"` // v_rd, falls back to τv when zero
	CompressiveStrength float64 `json:"compressive_strength,omitempty" yaml:"compressive_strength,omitempty" validate:"gte=0"`

	UnitWeight  float64 `json:"unit_weight,omitempty" yaml:"unit_weight,omitempty" validate:"gte=0"`
	FibreDosage float64 `json:"fibre_dosage,omitempty" yaml:"fibre_dosage,omitempty" validate:"gte=0"` // kg/m³

	// Thickness deducted for long-term deterioration (m)
	DurabilityAllowance float64 `json:"durability_allowance,omitempty" yaml:"durability_allowance,omitempty" validate:"gte=0,ltfield=Thickness"`

	// Width of the adhesive ring around the footprint (m); zero bonds the full contact area
	BondWidth float64 `json:"bond_width,omitempty" yaml:"bond_width,omitempty" validate:"gte=0"`
}

// EffectiveThickness is the thickness left after the durability allowance.
// Validate rejects an allowance that consumes the whole lining.
func (s Shotcrete) EffectiveThickness() float64 {
	t := s.Thickness - s.DurabilityAllowance
	if t < 0 {
		return 0
	}
	return t
}

// punchingStrength returns v_rd, or τv when no punching value is given
func (s Shotcrete) punchingStrength() float64 {
	if s.PunchingStrength > 0 {
		return s.PunchingStrength
	}
	return s.ShearStrength
}

// Reinforcement describes bolts or mesh anchors on a square pattern.
// A nil *Reinforcement means shotcrete-only resistance.
type Reinforcement struct {
	Capacity float64 `json:"capacity" yaml:"capacity" validate:"gt=0"` // kN per support
	Spacing  float64 `json:"spacing" yaml:"spacing" validate:"gt=0"`   // m
}

// Term is one named intermediate value of a capacity calculation
type Term struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// CapacityResult is the resisting force of one failure mode
type CapacityResult struct {
	Mode     codes.Mode `json:"mode"`
	Capacity float64    `json:"capacity"` // kN
	Formula  string     `json:"formula"`  // e.g. punching/perimeter-shear@BM2017
	Terms    []Term     `json:"terms"`
}

// Term returns the named intermediate value
func (r CapacityResult) Term(name string) (float64, bool) {
	for _, t := range r.Terms {
		if t.Name == name {
			return t.Value, true
		}
	}
	return 0, false
}

var (
	// ErrInvalidMaterial is matched by every shotcrete or reinforcement validation failure
	ErrInvalidMaterial = errors.New("invalid material")

	// ErrMissingFactor is matched when a capacity model cannot resolve a factor.
	// The underlying codes.ErrUnknownFactor stays reachable through errors.Is.
	ErrMissingFactor = errors.New("missing factor")
)

// MaterialError names the offending material field
type MaterialError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *MaterialError) Error() string {
	return fmt.Sprintf("invalid material: %s=%g %s", e.Field, e.Value, e.Reason)
}

func (e *MaterialError) Unwrap() error {
	return ErrInvalidMaterial
}

type missingFactorError struct {
	mode codes.Mode
	err  error
}

func (e *missingFactorError) Error() string {
	return fmt.Sprintf("missing factor for %s capacity: %v", e.mode, e.err)
}

func (e *missingFactorError) Unwrap() []error {
	return []error{ErrMissingFactor, e.err}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks thickness > 0, every strength >= 0 and an allowance below t
func (s Shotcrete) Validate() error {
	return structError(validate.Struct(s))
}

// Validate checks the support capacity and pattern spacing
func (r Reinforcement) Validate() error {
	if err := structError(validate.Struct(r)); err != nil {
		var merr *MaterialError
		if errors.As(err, &merr) {
			merr.Field = "reinforcement." + merr.Field
		}
		return err
	}
	return nil
}

func structError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		value, _ := fe.Value().(float64)
		reason := "fails " + fe.Tag()
		switch fe.Tag() {
		case "gt":
			reason = "must be > " + fe.Param()
		case "gte":
			reason = "must be >= " + fe.Param()
		case "ltfield":
			reason = "must be less than the lining thickness"
		}
		return &MaterialError{Field: fe.Field(), Value: value, Reason: reason}
	}
	return &MaterialError{Reason: err.Error()}
}
