package block

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Variant selects the block/wedge load model
type Variant string

const (
	// Pyramid is the Barrett & McCreath (1995) pyramidal wedge with 60° sides
	Pyramid Variant = "pyramid"
	// FlatBlock is the 2017 flat-lying block (Hawkesbury sandstone style)
	FlatBlock Variant = "flat"
	// ShaleWedge is the 2017 wedge with independently variable side angles
	ShaleWedge Variant = "shale"
)

// Variants lists the recognised load models in display order
var Variants = []Variant{Pyramid, FlatBlock, ShaleWedge}

// Valid reports whether v is one of the recognised load models
func (v Variant) Valid() bool {
	switch v {
	case Pyramid, FlatBlock, ShaleWedge:
		return true
	}
	return false
}

// Description returns a human-readable name of the load model
func (v Variant) Description() string {
	switch v {
	case Pyramid:
		return "Pyramidal wedge, 60° sides (1995)"
	case FlatBlock:
		return "Flat block (2017)"
	case ShaleWedge:
		return "Shale wedge, variable sides (2017)"
	}
	return string(v)
}

// ParseVariant accepts the canonical names plus a few common aliases
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pyramid", "pyramid60", "bm1995", "barrett":
		return Pyramid, nil
	case "flat", "flatblock", "flat_block", "hawkesbury":
		return FlatBlock, nil
	case "shale", "shalewedge", "shale_wedge":
		return ShaleWedge, nil
	}
	return "", &GeometryError{Field: "variant", Reason: fmt.Sprintf("unknown load model %q (expected pyramid | flat | shale)", s)}
}

// Geometry describes the loosened block or wedge above the lining.
// All lengths in m, angles in degrees measured from the horizontal
// excavation surface to the joint plane, unit weight in kN/m³.
type Geometry struct {
	// Joint spacing along the two sets
	SpacingX float64 `json:"spacing_x" yaml:"spacing_x" validate:"gt=0"`
	SpacingY float64 `json:"spacing_y" yaml:"spacing_y" validate:"gt=0"`

	// Side angles (shale wedge only; the pyramid uses 60°)
	SideAngleX float64 `json:"side_angle_x,omitempty" yaml:"side_angle_x,omitempty" validate:"gte=0,lt=90"`
	SideAngleY float64 `json:"side_angle_y,omitempty" yaml:"side_angle_y,omitempty" validate:"gte=0,lt=90"`

	// Thickness of the loosened zone (flat block only)
	Thickness float64 `json:"thickness,omitempty" yaml:"thickness,omitempty" validate:"gte=0"`

	// Rock unit weight (kN/m³)
	UnitWeight float64 `json:"unit_weight" yaml:"unit_weight" validate:"gt=0"`

	// Optional uniform surcharge on the block, e.g. water (kPa)
	Surcharge float64 `json:"surcharge,omitempty" yaml:"surcharge,omitempty" validate:"gte=0"`
}

// LoadResult holds the demand and geometric terms produced by a load model.
// Every variant fills the same fields.
type LoadResult struct {
	Variant Variant `json:"variant"`

	Weight          float64 `json:"weight"`           // Block weight incl. surcharge (kN)
	Volume          float64 `json:"volume"`           // Block volume (m³)
	Height          float64 `json:"height"`           // Apex height or block thickness (m)
	ContactArea     float64 `json:"contact_area"`     // Block footprint on the lining (m²)
	Perimeter       float64 `json:"perimeter"`        // Footprint perimeter (m)
	EffectiveSpan   float64 `json:"effective_span"`   // Span used for flexure (m)
	FaceArea        float64 `json:"face_area"`        // Joint surface area bounding the block (m²)
	UniformPressure float64 `json:"uniform_pressure"` // Weight spread over the footprint (kPa)
}

// ErrInvalidGeometry is matched by every geometry validation failure
var ErrInvalidGeometry = errors.New("invalid geometry")

// GeometryError names the offending geometry field
type GeometryError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *GeometryError) Error() string {
	if e.Field == "" || e.Field == "variant" {
		return fmt.Sprintf("invalid geometry: %s", e.Reason)
	}
	return fmt.Sprintf("invalid geometry: %s=%g %s", e.Field, e.Value, e.Reason)
}

func (e *GeometryError) Unwrap() error {
	return ErrInvalidGeometry
}

// validate is safe for concurrent use; it only caches struct metadata
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

// Validate checks the geometry for the selected load model
func (g Geometry) Validate(v Variant) error {
	if !v.Valid() {
		return &GeometryError{Field: "variant", Reason: fmt.Sprintf("unknown load model %q", v)}
	}

	if err := validate.Struct(g); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			value, _ := fe.Value().(float64)
			return &GeometryError{Field: fe.Field(), Value: value, Reason: ruleText(fe.Tag(), fe.Param())}
		}
		return &GeometryError{Reason: err.Error()}
	}

	switch v {
	case FlatBlock:
		if g.Thickness <= 0 {
			return &GeometryError{Field: "thickness", Value: g.Thickness, Reason: "must be > 0 for a flat block"}
		}
	case ShaleWedge:
		if g.SideAngleX <= 0 {
			return &GeometryError{Field: "side_angle_x", Value: g.SideAngleX, Reason: "must be within (0°, 90°) for a shale wedge"}
		}
		if g.SideAngleY <= 0 {
			return &GeometryError{Field: "side_angle_y", Value: g.SideAngleY, Reason: "must be within (0°, 90°) for a shale wedge"}
		}
	}

	return nil
}

func ruleText(tag, param string) string {
	switch tag {
	case "gt":
		return "must be > " + param
	case "gte":
		return "must be >= " + param
	case "lt":
		return "must be < " + param
	case "lte":
		return "must be <= " + param
	}
	return "fails " + tag
}
