package codes

// Design constants shared by the capacity models and the orchestrator

const (
	// DefaultRequiredFoS is the factor of safety required in FoS design
	DefaultRequiredFoS = 1.5

	// TwoWayCoefficient reduces the one-way strip moment wL²/8 for
	// two-way spanning between supports
	TwoWayCoefficient = 0.6

	// SectionModulusDivisor gives Z = b·t²/6 for a rectangular strip
	SectionModulusDivisor = 6.0
)
