package block

import (
	"fmt"
	"strings"

	"github.com/workmatechiho-source/shotcrete/internal/units"
)

// Preset is a geology preset that supplies a default load model and the
// geometry fields the user left empty
type Preset string

const (
	Generic    Preset = "generic"
	Hawkesbury Preset = "hawkesbury_sandstone"
	Ashfield   Preset = "ashfield_shale"
)

// PresetDefaults are the values a preset contributes
type PresetDefaults struct {
	Description string
	Variant     Variant
	SideAngleX  float64 // degrees
	SideAngleY  float64 // degrees
	Thickness   float64 // m
	UnitWeight  float64 // kN/m³
}

// Presets lists the recognised geology presets in display order
var Presets = []Preset{Generic, Hawkesbury, Ashfield}

var presetDefaults = map[Preset]PresetDefaults{
	Generic: {
		Description: "Generic jointed rock, conservative 1995 pyramid",
		Variant:     Pyramid,
		UnitWeight:  units.DefaultRockUnitWeight,
	},
	Hawkesbury: {
		Description: "Hawkesbury Sandstone, flat-bedded blocks",
		Variant:     FlatBlock,
		Thickness:   0.6,
		UnitWeight:  24,
	},
	Ashfield: {
		Description: "Ashfield Shale, 45° joint-bounded wedges",
		Variant:     ShaleWedge,
		SideAngleX:  45,
		SideAngleY:  45,
		UnitWeight:  25,
	},
}

// ParsePreset accepts a preset name, case-insensitive
func ParsePreset(s string) (Preset, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "", "generic":
		return Generic, nil
	case "hawkesbury", "hawkesbury_sandstone", "hawkesburysandstone":
		return Hawkesbury, nil
	case "ashfield", "ashfield_shale", "ashfieldshale":
		return Ashfield, nil
	}
	return "", fmt.Errorf("unknown geology preset %q", s)
}

// Defaults returns the values contributed by the preset
func (p Preset) Defaults() PresetDefaults {
	return presetDefaults[p]
}

// Apply fills the zero-valued geometry fields from the preset.
// Spacings are never defaulted. The returned variant is the preset's
// unless one was chosen explicitly.
func (p Preset) Apply(g Geometry, v Variant) (Geometry, Variant) {
	d, ok := presetDefaults[p]
	if !ok {
		return g, v
	}
	if v == "" {
		v = d.Variant
	}
	if g.SideAngleX == 0 {
		g.SideAngleX = d.SideAngleX
	}
	if g.SideAngleY == 0 {
		g.SideAngleY = d.SideAngleY
	}
	if g.Thickness == 0 {
		g.Thickness = d.Thickness
	}
	if g.UnitWeight == 0 {
		g.UnitWeight = d.UnitWeight
	}
	return g, v
}
