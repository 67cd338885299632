package casefile

import (
	"fmt"

	"github.com/workmatechiho-source/shotcrete/internal/block"
	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/design"
	"github.com/workmatechiho-source/shotcrete/internal/export"
	"github.com/workmatechiho-source/shotcrete/internal/lining"
	"github.com/workmatechiho-source/shotcrete/internal/sweep"
)

// Case is a design case read from a JSON or YAML file.
// Lengths in m, strengths in MPa, unit weights in kN/m³, angles in degrees.
type Case struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Notes       string `json:"notes,omitempty" yaml:"notes,omitempty"`
	AgeLabel    string `json:"age_label,omitempty" yaml:"age_label,omitempty"` // e.g. "28 days"

	// Geology preset; fills the load model and any geometry left empty
	Preset string `json:"preset,omitempty" yaml:"preset,omitempty"`

	// Load model: pyramid | flat | shale (preset default when empty)
	Variant string `json:"variant,omitempty" yaml:"variant,omitempty"`

	Philosophy  string  `json:"philosophy,omitempty" yaml:"philosophy,omitempty"`     // fos | lrfd
	CodeVersion string  `json:"code_version,omitempty" yaml:"code_version,omitempty"` // BM1995 | BM2017
	RequiredFoS float64 `json:"required_fos,omitempty" yaml:"required_fos,omitempty"`

	Geometry      block.Geometry        `json:"geometry" yaml:"geometry"`
	Shotcrete     lining.Shotcrete      `json:"shotcrete" yaml:"shotcrete"`
	Reinforcement *lining.Reinforcement `json:"reinforcement,omitempty" yaml:"reinforcement,omitempty"`

	// Optional parameter sweep for the stability chart
	Sweep *SweepRange `json:"sweep,omitempty" yaml:"sweep,omitempty"`
}

// SweepRange describes a stability chart sweep
type SweepRange struct {
	Parameter string  `json:"parameter" yaml:"parameter"`
	From      float64 `json:"from" yaml:"from"`
	To        float64 `json:"to" yaml:"to"`
	Steps     int     `json:"steps" yaml:"steps"`
}

// New returns a case with the default shotcrete; decoding a file over it
// keeps the defaults for any field the file omits
func New() *Case {
	return &Case{Shotcrete: lining.DefaultShotcrete()}
}

// Validate checks the selector fields. Geometry and material values are
// validated by the evaluation itself.
func (c *Case) Validate() error {
	if _, err := block.ParsePreset(c.Preset); err != nil {
		return &ValidationError{msg: err.Error()}
	}
	if c.Variant != "" {
		if _, err := block.ParseVariant(c.Variant); err != nil {
			return &ValidationError{msg: err.Error()}
		}
	}
	if _, err := design.ParsePhilosophy(c.Philosophy); err != nil {
		return &ValidationError{msg: err.Error()}
	}
	if _, err := codes.ParseVersion(c.CodeVersion); err != nil {
		return &ValidationError{msg: err.Error()}
	}
	if c.RequiredFoS < 0 {
		return &ValidationError{msg: fmt.Sprintf("required_fos must be positive, got %g", c.RequiredFoS)}
	}
	if c.Sweep != nil {
		if _, err := sweep.ParseParameter(c.Sweep.Parameter); err != nil {
			return &ValidationError{msg: err.Error()}
		}
		if c.Sweep.Steps < 2 {
			return &ValidationError{msg: fmt.Sprintf("sweep needs at least 2 steps, got %d", c.Sweep.Steps)}
		}
	}
	return nil
}

// Input converts the case into an evaluation input
func (c *Case) Input() (design.Input, error) {
	if err := c.Validate(); err != nil {
		return design.Input{}, err
	}

	preset, _ := block.ParsePreset(c.Preset)
	var variant block.Variant
	if c.Variant != "" {
		variant, _ = block.ParseVariant(c.Variant)
	}
	geometry, variant := preset.Apply(c.Geometry, variant)

	philosophy, _ := design.ParsePhilosophy(c.Philosophy)
	version, _ := codes.ParseVersion(c.CodeVersion)

	in := design.Input{
		Geometry:    geometry,
		Variant:     variant,
		Shotcrete:   c.Shotcrete,
		Philosophy:  philosophy,
		CodeVersion: version,
		RequiredFoS: c.RequiredFoS,
	}
	if c.Reinforcement != nil {
		r := *c.Reinforcement
		in.Reinforcement = &r
	}
	return in, nil
}

// SweepOptions converts the sweep block, if any
func (c *Case) SweepOptions() (sweep.Options, bool) {
	if c.Sweep == nil {
		return sweep.Options{}, false
	}
	p, _ := sweep.ParseParameter(c.Sweep.Parameter)
	return sweep.Options{Parameter: p, From: c.Sweep.From, To: c.Sweep.To, Steps: c.Sweep.Steps}, true
}

// Meta returns the report metadata of the case
func (c *Case) Meta() export.Meta {
	m := export.NewMeta(c.Name)
	m.Description = c.Description
	m.Notes = c.Notes
	m.AgeLabel = c.AgeLabel
	preset, _ := block.ParsePreset(c.Preset)
	m.Preset = string(preset)
	return m
}

// ValidationError represents a case file validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
