package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/workmatechiho-source/shotcrete/internal/block"
	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/design"
	"github.com/workmatechiho-source/shotcrete/internal/lining"
	"github.com/workmatechiho-source/shotcrete/internal/sweep"
)

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List geology presets, load models and default shotcrete properties",
	Run:   runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) {
	fmt.Println()
	fmt.Println("GEOLOGY PRESETS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Preset\tModel\tγ (kN/m³)\tDefaults\n")
	fmt.Fprintf(w, "  ──────\t─────\t─────────\t────────\n")
	for _, p := range block.Presets {
		d := p.Defaults()
		extra := d.Description
		switch d.Variant {
		case block.FlatBlock:
			extra = fmt.Sprintf("%s, t = %.2f m", extra, d.Thickness)
		case block.ShaleWedge:
			extra = fmt.Sprintf("%s, θ = %.0f°/%.0f°", extra, d.SideAngleX, d.SideAngleY)
		}
		fmt.Fprintf(w, "  %s\t%s\t%.1f\t%s\n", p, d.Variant, d.UnitWeight, extra)
	}
	w.Flush()
	fmt.Println()

	fmt.Println("LOAD MODELS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, v := range block.Variants {
		fmt.Fprintf(w, "  %s\t%s\n", v, v.Description())
	}
	w.Flush()
	fmt.Println()

	s := lining.DefaultShotcrete()
	fmt.Println("DEFAULT SHOTCRETE:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Thickness:\t%.0f mm\n", s.Thickness*1000)
	fmt.Fprintf(w, "  Compressive strength (f'c):\t%.1f MPa\n", s.CompressiveStrength)
	fmt.Fprintf(w, "  Bond strength (τb):\t%.2f MPa\n", s.BondStrength)
	fmt.Fprintf(w, "  Flexural strength (f_r):\t%.2f MPa\n", s.FlexuralStrength)
	fmt.Fprintf(w, "  Shear strength (τv):\t%.2f MPa\n", s.ShearStrength)
	fmt.Fprintf(w, "  Punching strength (v_rd):\t%.2f MPa\n", s.PunchingStrength)
	fmt.Fprintf(w, "  0.6√f'c:\t%.2f MPa\n", lining.FlexuralTensile(s.CompressiveStrength))
	w.Flush()
	fmt.Println()

	fmt.Printf("  Philosophies: %v, factor tables: %v\n", design.Philosophies, codes.Versions)
	fmt.Println()

	fmt.Println("SWEEP PARAMETERS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	for _, p := range sweep.Parameters {
		fmt.Printf("  %s (%s)\n", p, p.Unit())
	}
	fmt.Println()
}
