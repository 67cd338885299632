package codes

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Version identifies a factor table revision
type Version string

const (
	// BM1995 follows Barrett & McCreath (1995)
	BM1995 Version = "BM1995"
	// BM2017 follows the 2017 revisit with its corrections
	BM2017 Version = "BM2017"

	DefaultVersion = BM2017
)

// Versions lists the recognised table revisions
var Versions = []Version{BM1995, BM2017}

// Valid reports whether v is a recognised revision
func (v Version) Valid() bool {
	for _, known := range Versions {
		if v == known {
			return true
		}
	}
	return false
}

// ParseVersion accepts a version name, case-insensitive
func ParseVersion(s string) (Version, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	switch key {
	case "":
		return DefaultVersion, nil
	case "BM1995", "1995":
		return BM1995, nil
	case "BM2017", "2017":
		return BM2017, nil
	}
	return "", &FactorError{Version: Version(s), Reason: "unknown code version"}
}

// Mode names a failure mode of the lining
type Mode string

const (
	Adhesion    Mode = "adhesion"
	Flexure     Mode = "flexure"
	Punching    Mode = "punching"
	DirectShear Mode = "direct_shear"
)

// Modes lists the failure modes in precedence order.
// The order breaks ties when picking the governing mode.
var Modes = []Mode{Adhesion, Flexure, Punching, DirectShear}

// Index returns the precedence index of m, or -1
func (m Mode) Index() int {
	for i, known := range Modes {
		if m == known {
			return i
		}
	}
	return -1
}

// Title returns the display name of the mode
func (m Mode) Title() string {
	switch m {
	case Adhesion:
		return "Adhesion"
	case Flexure:
		return "Flexure"
	case Punching:
		return "Punching shear"
	case DirectShear:
		return "Direct shear"
	}
	return string(m)
}

// Kind names a factor family
type Kind string

const (
	Phi           Kind = "phi"           // Strength reduction (LRFD)
	Gamma         Kind = "gamma"         // Load factor (LRFD)
	Model         Kind = "model"         // Capacity model factor
	Fibre         Kind = "fibre"         // Fibre contribution multiplier
	Reinforcement Kind = "reinforcement" // Share of bolt capacity credited to the mode
)

// Kinds lists the factor families in display order
var Kinds = []Kind{Phi, Gamma, Model, Fibre, Reinforcement}

func (k Kind) valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Source resolves named design factors
type Source interface {
	Resolve(mode Mode, kind Kind, version Version) (float64, error)
}

// ErrUnknownFactor is matched when a factor cannot be resolved
var ErrUnknownFactor = errors.New("unknown factor")

// FactorError identifies the lookup that failed
type FactorError struct {
	Mode    Mode
	Kind    Kind
	Version Version
	Reason  string
}

func (e *FactorError) Error() string {
	if e.Mode == "" && e.Kind == "" {
		return fmt.Sprintf("unknown factor: %s %q", e.Reason, e.Version)
	}
	return fmt.Sprintf("unknown factor: %s/%s@%s: %s", e.Mode, e.Kind, e.Version, e.Reason)
}

func (e *FactorError) Unwrap() error {
	return ErrUnknownFactor
}

// Entry is one row of a factor table
type Entry struct {
	Version Version `json:"version" yaml:"version" mapstructure:"version"`
	Mode    Mode    `json:"mode" yaml:"mode" mapstructure:"mode"`
	Kind    Kind    `json:"kind" yaml:"kind" mapstructure:"kind"`
	Value   float64 `json:"value" yaml:"value" mapstructure:"value"`
	Note    string  `json:"note,omitempty" yaml:"note,omitempty" mapstructure:"note"`
}

type key struct {
	version Version
	mode    Mode
	kind    Kind
}

// Table is an immutable factor lookup keyed by (version, mode, kind).
// It is safe for concurrent use.
type Table struct {
	entries map[key]Entry
}

// NewTable builds a table; later entries replace earlier ones with the same key
func NewTable(entries []Entry) (*Table, error) {
	t := &Table{entries: make(map[key]Entry, len(entries))}
	for i, e := range entries {
		if err := e.validate(); err != nil {
			return nil, fmt.Errorf("factor entry %d: %w", i+1, err)
		}
		t.entries[key{e.Version, e.Mode, e.Kind}] = e
	}
	return t, nil
}

func (e Entry) validate() error {
	if !e.Version.Valid() {
		return fmt.Errorf("unknown code version %q", e.Version)
	}
	if e.Mode.Index() < 0 {
		return fmt.Errorf("unknown failure mode %q", e.Mode)
	}
	if !e.Kind.valid() {
		return fmt.Errorf("unknown factor kind %q", e.Kind)
	}
	if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) || e.Value < 0 {
		return fmt.Errorf("%s/%s@%s: value must be finite and >= 0, got %g", e.Mode, e.Kind, e.Version, e.Value)
	}
	if (e.Kind == Phi || e.Kind == Gamma) && e.Value == 0 {
		return fmt.Errorf("%s/%s@%s: value must be > 0", e.Mode, e.Kind, e.Version)
	}
	return nil
}

// Resolve returns the factor for the given mode, kind and version
func (t *Table) Resolve(mode Mode, kind Kind, version Version) (float64, error) {
	if !version.Valid() {
		return 0, &FactorError{Mode: mode, Kind: kind, Version: version, Reason: "unknown code version"}
	}
	e, ok := t.entries[key{version, mode, kind}]
	if !ok {
		return 0, &FactorError{Mode: mode, Kind: kind, Version: version, Reason: "no table entry"}
	}
	return e.Value, nil
}

// With returns a new table with the overrides applied; t is unchanged
func (t *Table) With(overrides ...Entry) (*Table, error) {
	return NewTable(append(t.Entries(), overrides...))
}

// Without returns a new table lacking the given key; t is unchanged
func (t *Table) Without(mode Mode, kind Kind, version Version) *Table {
	out := &Table{entries: make(map[key]Entry, len(t.entries))}
	for k, e := range t.entries {
		if k == (key{version, mode, kind}) {
			continue
		}
		out.entries[k] = e
	}
	return out
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the rows sorted by version, mode precedence and kind
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		if a.Mode != b.Mode {
			return a.Mode.Index() < b.Mode.Index()
		}
		return kindIndex(a.Kind) < kindIndex(b.Kind)
	})
	return out
}

func kindIndex(k Kind) int {
	for i, known := range Kinds {
		if k == known {
			return i
		}
	}
	return len(Kinds)
}
