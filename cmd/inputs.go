package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workmatechiho-source/shotcrete/internal/casefile"
	"github.com/workmatechiho-source/shotcrete/internal/lining"
	"github.com/workmatechiho-source/shotcrete/internal/units"
)

// caseFlags holds the flags shared by evaluate and sweep. A case file is
// read first; any flag given explicitly overrides the file.
type caseFlags struct {
	file string

	name       string
	preset     string
	variant    string
	philosophy string
	code       string
	fos        float64

	// Geometry
	spacingX   float64
	spacingY   float64
	blockThick float64
	angleX     float64
	angleY     float64
	unitWeight float64
	density    float64
	surcharge  float64

	// Shotcrete
	thickness   float64
	bond        float64
	flexural    float64
	shear       float64
	punching    float64
	fc          float64
	fibre       float64
	durability  float64
	bondWidth   float64
	boltCap     float64
	boltSpacing float64
}

func addCaseFlags(cmd *cobra.Command, f *caseFlags) {
	d := lining.DefaultShotcrete()
	fs := cmd.Flags()

	fs.StringVarP(&f.file, "file", "f", "", "Case file (.json, .yaml)")
	fs.StringVar(&f.name, "name", "", "Case name for reports")
	fs.StringVar(&f.preset, "preset", "", "Geology preset: generic | hawkesbury | ashfield")
	fs.StringVarP(&f.variant, "model", "m", "", "Load model: pyramid | flat | shale (preset default)")
	fs.StringVarP(&f.philosophy, "philosophy", "p", "", "Design philosophy: fos | lrfd (config default)")
	fs.StringVarP(&f.code, "code", "c", "", "Factor table: BM1995 | BM2017 (config default)")
	fs.Float64Var(&f.fos, "fos", 0, "Required factor of safety (config default)")

	fs.Float64VarP(&f.spacingX, "sx", "x", 0, "Joint spacing along x (m)")
	fs.Float64VarP(&f.spacingY, "sy", "y", 0, "Joint spacing along y (m), defaults to sx")
	fs.Float64Var(&f.blockThick, "block-thickness", 0, "Loosened zone thickness, flat block (m)")
	fs.Float64Var(&f.angleX, "theta-x", 0, "Joint angle along x, shale wedge (degrees)")
	fs.Float64Var(&f.angleY, "theta-y", 0, "Joint angle along y, shale wedge (degrees)")
	fs.Float64VarP(&f.unitWeight, "rock-weight", "g", 0, "Rock unit weight (kN/m³), preset default")
	fs.Float64Var(&f.density, "rock-density", 0, "Rock density (kg/m³), converted to a unit weight")
	fs.Float64Var(&f.surcharge, "surcharge", 0, "Uniform surcharge on the block (kPa)")

	fs.Float64VarP(&f.thickness, "thickness", "t", d.Thickness, "Shotcrete thickness (m)")
	fs.Float64Var(&f.bond, "bond", d.BondStrength, "Bond strength τb (MPa)")
	fs.Float64Var(&f.flexural, "flexural", d.FlexuralStrength, "Flexural tensile strength f_r (MPa)")
	fs.Float64Var(&f.shear, "shear", d.ShearStrength, "Direct shear strength τv (MPa)")
	fs.Float64Var(&f.punching, "punching", d.PunchingStrength, "Punching shear strength v_rd (MPa)")
	fs.Float64Var(&f.fc, "fc", d.CompressiveStrength, "Compressive strength f'c (MPa)")
	fs.Float64Var(&f.fibre, "fibre", 0, "Fibre dosage (kg/m³)")
	fs.Float64Var(&f.durability, "durability", 0, "Durability allowance deducted from t (m)")
	fs.Float64Var(&f.bondWidth, "bond-width", 0, "Adhesive ring width (m), 0 bonds the full footprint")
	fs.Float64Var(&f.boltCap, "bolt-capacity", 0, "Rock bolt capacity (kN)")
	fs.Float64Var(&f.boltSpacing, "bolt-spacing", 0, "Rock bolt spacing (m)")
}

// loadCase builds the case from the file and the flags that were set
func loadCase(cmd *cobra.Command, f *caseFlags) (*casefile.Case, error) {
	c := casefile.New()
	if f.file != "" {
		loaded, err := casefile.LoadFromFile(f.file)
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if f.file == "" || flags.Changed(name) {
			apply()
		}
	}
	setIfChanged := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}

	setIfChanged("name", func() { c.Name = f.name })
	setIfChanged("preset", func() { c.Preset = f.preset })
	setIfChanged("model", func() { c.Variant = f.variant })
	setIfChanged("philosophy", func() { c.Philosophy = f.philosophy })
	setIfChanged("code", func() { c.CodeVersion = f.code })
	setIfChanged("fos", func() { c.RequiredFoS = f.fos })

	set("sx", func() { c.Geometry.SpacingX = f.spacingX })
	set("sy", func() { c.Geometry.SpacingY = f.spacingY })
	set("block-thickness", func() { c.Geometry.Thickness = f.blockThick })
	set("theta-x", func() { c.Geometry.SideAngleX = f.angleX })
	set("theta-y", func() { c.Geometry.SideAngleY = f.angleY })
	set("rock-weight", func() { c.Geometry.UnitWeight = f.unitWeight })
	setIfChanged("rock-density", func() { c.Geometry.UnitWeight = units.UnitWeight(f.density) })
	set("surcharge", func() { c.Geometry.Surcharge = f.surcharge })

	set("thickness", func() { c.Shotcrete.Thickness = f.thickness })
	set("bond", func() { c.Shotcrete.BondStrength = f.bond })
	set("flexural", func() { c.Shotcrete.FlexuralStrength = f.flexural })
	set("shear", func() { c.Shotcrete.ShearStrength = f.shear })
	set("punching", func() { c.Shotcrete.PunchingStrength = f.punching })
	set("fc", func() { c.Shotcrete.CompressiveStrength = f.fc })
	set("fibre", func() { c.Shotcrete.FibreDosage = f.fibre })
	set("durability", func() { c.Shotcrete.DurabilityAllowance = f.durability })
	set("bond-width", func() { c.Shotcrete.BondWidth = f.bondWidth })

	if flags.Changed("bolt-capacity") || flags.Changed("bolt-spacing") {
		r := lining.Reinforcement{Capacity: f.boltCap, Spacing: f.boltSpacing}
		if c.Reinforcement != nil {
			r = *c.Reinforcement
			if flags.Changed("bolt-capacity") {
				r.Capacity = f.boltCap
			}
			if flags.Changed("bolt-spacing") {
				r.Spacing = f.boltSpacing
			}
		}
		c.Reinforcement = &r
	}

	// A square grid needs only sx
	if c.Geometry.SpacingY == 0 {
		c.Geometry.SpacingY = c.Geometry.SpacingX
	}
	// Selectors left empty take the configured defaults
	if c.Philosophy == "" {
		c.Philosophy = string(appConfig.DefaultPhilosophy())
	}
	if c.CodeVersion == "" {
		c.CodeVersion = string(appConfig.DefaultVersion())
	}

	if c.Geometry.SpacingX == 0 {
		return nil, fmt.Errorf("joint spacing is required: use --sx or a case file")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
