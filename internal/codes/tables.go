package codes

// Default design factors per failure mode.
// φ and γ follow the LRFD starter values of the 2017 revisit (φ = 0.6,
// γ = 1.5); adhesion has no φ of its own and takes the shear value.
// Fibre multipliers are neutral until code-mandated values exist.
// Reinforcement shares credit bolts fully in shear and punching and
// half in flexure through dowel action.
var modeDefaults = []struct {
	Mode          Mode
	Phi           float64
	Gamma         float64
	Model         float64
	Fibre         float64
	Reinforcement float64
}{
	{Mode: Adhesion, Phi: 0.6, Gamma: 1.5, Model: 1.0, Fibre: 1.0, Reinforcement: 0.0},
	{Mode: Flexure, Phi: 0.6, Gamma: 1.5, Model: 1.0, Fibre: 1.0, Reinforcement: 0.5},
	{Mode: Punching, Phi: 0.6, Gamma: 1.5, Model: 1.0, Fibre: 1.0, Reinforcement: 1.0},
	{Mode: DirectShear, Phi: 0.6, Gamma: 1.5, Model: 1.0, Fibre: 1.0, Reinforcement: 1.0},
}

var versionNotes = map[Version]string{
	BM1995: "Barrett & McCreath 1995",
	BM2017: "Barrett & McCreath 2017 revisit",
}

// BuiltinEntries returns the default rows for every recognised version.
// The slice is freshly allocated on each call.
func BuiltinEntries() []Entry {
	var out []Entry
	for _, v := range Versions {
		note := versionNotes[v]
		for _, d := range modeDefaults {
			out = append(out,
				Entry{Version: v, Mode: d.Mode, Kind: Phi, Value: d.Phi, Note: note},
				Entry{Version: v, Mode: d.Mode, Kind: Gamma, Value: d.Gamma, Note: note},
				Entry{Version: v, Mode: d.Mode, Kind: Model, Value: d.Model, Note: note},
				Entry{Version: v, Mode: d.Mode, Kind: Fibre, Value: d.Fibre, Note: "placeholder pending code values"},
				Entry{Version: v, Mode: d.Mode, Kind: Reinforcement, Value: d.Reinforcement, Note: note},
			)
		}
	}
	return out
}

// Builtin returns a table holding the default rows
func Builtin() *Table {
	t, err := NewTable(BuiltinEntries())
	if err != nil {
		// The built-in rows are constants; failing here is a programming error
		panic(err)
	}
	return t
}

// Uniform returns a table where every φ, γ and model factor equals one.
// Fibre and reinforcement rows keep their defaults.
func Uniform() *Table {
	entries := BuiltinEntries()
	for i := range entries {
		switch entries[i].Kind {
		case Phi, Gamma, Model:
			entries[i].Value = 1.0
		}
	}
	t, _ := NewTable(entries)
	return t
}
