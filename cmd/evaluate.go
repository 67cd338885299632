package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/workmatechiho-source/shotcrete/internal/casefile"
	"github.com/workmatechiho-source/shotcrete/internal/design"
	"github.com/workmatechiho-source/shotcrete/internal/diagram"
	"github.com/workmatechiho-source/shotcrete/internal/export"
	"github.com/workmatechiho-source/shotcrete/internal/lining"
	"github.com/workmatechiho-source/shotcrete/internal/sweep"
)

var (
	evalFlags caseFlags

	evalShowDiagram bool
	evalShowTerms   bool
	evalJSON        bool
	evalExportFile  string
	evalXLSXFile    string
	evalPDFFile     string
)

var evaluateCmd = &cobra.Command{
	Use:     "evaluate",
	Aliases: []string{"eval", "check"},
	Short:   "Check a shotcrete lining against a loosened block",
	Long: `Compute the block load and the four lining capacities (adhesion,
flexure, punching shear and direct shear), then report the margin of each
mode and the governing one.

Inputs come from flags, from a case file (--file), or both; flags given
explicitly override the file.

Examples:
  # Generic pyramid on 1.5 m joints, 100 mm shotcrete
  shotcrete evaluate --sx 1.5

  # Hawkesbury flat block, LRFD, with rock bolts
  shotcrete evaluate --preset hawkesbury --sx 2 --sy 2.5 -p lrfd \
      --bolt-capacity 120 --bolt-spacing 1.5

  # Case file with Excel and PDF reports
  shotcrete evaluate -f crown.yaml --xlsx crown.xlsx --pdf crown.pdf`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	addCaseFlags(evaluateCmd, &evalFlags)

	evaluateCmd.Flags().BoolVar(&evalShowDiagram, "diagram", false, "Show ASCII panel and margin diagrams")
	evaluateCmd.Flags().BoolVar(&evalShowTerms, "terms", false, "Show the intermediate terms of every capacity")
	evaluateCmd.Flags().BoolVar(&evalJSON, "json", false, "Print the result as JSON")
	evaluateCmd.Flags().StringVarP(&evalExportFile, "output", "o", "", "Export panel diagram to file (png, svg, pdf)")
	evaluateCmd.Flags().StringVar(&evalXLSXFile, "xlsx", "", "Write an Excel workbook")
	evaluateCmd.Flags().StringVar(&evalPDFFile, "pdf", "", "Write a PDF report")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	c, err := loadCase(cmd, &evalFlags)
	if err != nil {
		return err
	}
	in, err := c.Input()
	if err != nil {
		return err
	}
	ev, err := appConfig.Evaluator()
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := ev.Evaluate(in)
	if err != nil {
		return err
	}
	logger.Debug("evaluated",
		zap.String("variant", string(res.Load.Variant)),
		zap.String("governing", string(res.Governing)),
		zap.Duration("elapsed", time.Since(start)))

	if evalJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printResult(c, res, evalShowTerms)

	if t := res.Input.Shotcrete.Thickness; t < lining.MinThickness {
		fmt.Printf("  Warning: %.0f mm is below the %.0f mm minimum sprayed thickness\n\n", t*1000, lining.MinThickness*1000)
	}

	if evalShowDiagram {
		data := diagram.PanelDataFromResult(res)
		fmt.Println(diagram.DrawPanel(data))
		fmt.Println(diagram.DrawMarginBars(data))
	}

	if evalExportFile != "" {
		if err := diagram.ExportPanelDiagram(diagram.PanelDataFromResult(res), evalExportFile); err != nil {
			fmt.Printf("Error exporting diagram: %v\n", err)
		} else {
			fmt.Printf("Diagram exported to: %s\n", evalExportFile)
		}
	}

	return writeReports(cmd.Context(), c, res)
}

// writeReports writes the workbook and PDF requested on the command line.
// A sweep block in the case adds the stability sheet to the workbook.
func writeReports(ctx context.Context, c *casefile.Case, res design.Result) error {
	if evalXLSXFile == "" && evalPDFFile == "" {
		return nil
	}
	meta := c.Meta()

	if evalXLSXFile != "" {
		var series *sweep.Series
		if opts, ok := c.SweepOptions(); ok {
			if ctx == nil {
				ctx = context.Background()
			}
			ev, err := appConfig.Evaluator()
			if err != nil {
				return err
			}
			opts.Workers = appConfig.Workers
			series, err = sweep.Run(ctx, ev, res.Input, opts)
			if err != nil {
				return fmt.Errorf("sweep: %w", err)
			}
		}
		if err := export.SaveWorkbook(evalXLSXFile, meta, res, series); err != nil {
			return err
		}
		fmt.Printf("Workbook written to: %s\n", evalXLSXFile)
	}

	if evalPDFFile != "" {
		if err := export.SavePDFReport(evalPDFFile, meta, res); err != nil {
			return err
		}
		fmt.Printf("PDF report written to: %s\n", evalPDFFile)
	}
	return nil
}

func printResult(c *casefile.Case, res design.Result, showTerms bool) {
	in := res.Input

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("        SHOTCRETE SUPPORT CHECK - BARRETT & McCREATH")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	if c.Name != "" {
		fmt.Printf("  Case: %s\n", c.Name)
	}
	if c.Description != "" {
		fmt.Printf("  Description: %s\n", c.Description)
	}
	if c.AgeLabel != "" {
		fmt.Printf("  Shotcrete age: %s\n", c.AgeLabel)
	}
	fmt.Printf("  Philosophy: %s, factors %s\n", res.Philosophy, res.CodeVersion)
	fmt.Println()

	fmt.Println("BLOCK GEOMETRY:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Load model:\t%s\n", res.Load.Variant.Description())
	fmt.Fprintf(w, "  Joint spacing (sx × sy):\t%.2f × %.2f m\n", in.Geometry.SpacingX, in.Geometry.SpacingY)
	if in.Geometry.SideAngleX > 0 {
		fmt.Fprintf(w, "  Joint angles (θx, θy):\t%.1f°, %.1f°\n", in.Geometry.SideAngleX, in.Geometry.SideAngleY)
	}
	fmt.Fprintf(w, "  Rock unit weight:\t%.1f kN/m³\n", in.Geometry.UnitWeight)
	if in.Geometry.Surcharge > 0 {
		fmt.Fprintf(w, "  Surcharge:\t%.1f kPa\n", in.Geometry.Surcharge)
	}
	w.Flush()
	fmt.Println()

	fmt.Println("SHOTCRETE LINING:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Thickness (t):\t%.0f mm\n", in.Shotcrete.Thickness*1000)
	if in.Shotcrete.DurabilityAllowance > 0 {
		fmt.Fprintf(w, "  Effective thickness:\t%.0f mm\n", in.Shotcrete.EffectiveThickness()*1000)
	}
	fmt.Fprintf(w, "  Bond strength (τb):\t%.2f MPa\n", in.Shotcrete.BondStrength)
	fmt.Fprintf(w, "  Flexural strength (f_r):\t%.2f MPa\n", in.Shotcrete.FlexuralStrength)
	fmt.Fprintf(w, "  Shear strength (τv):\t%.2f MPa\n", in.Shotcrete.ShearStrength)
	if in.Shotcrete.PunchingStrength > 0 {
		fmt.Fprintf(w, "  Punching strength (v_rd):\t%.2f MPa\n", in.Shotcrete.PunchingStrength)
	}
	if in.Shotcrete.FibreDosage > 0 {
		fmt.Fprintf(w, "  Fibre dosage:\t%.0f kg/m³\n", in.Shotcrete.FibreDosage)
	}
	if in.Reinforcement != nil {
		fmt.Fprintf(w, "  Rock bolts:\t%.0f kN @ %.2f m\n", in.Reinforcement.Capacity, in.Reinforcement.Spacing)
	}
	w.Flush()
	fmt.Println()

	fmt.Println("BLOCK LOAD:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Height:\t%.3f m\n", res.Load.Height)
	fmt.Fprintf(w, "  Volume:\t%.3f m³\n", res.Load.Volume)
	fmt.Fprintf(w, "  Contact area:\t%.3f m²\n", res.Load.ContactArea)
	fmt.Fprintf(w, "  Perimeter:\t%.3f m\n", res.Load.Perimeter)
	fmt.Fprintf(w, "  Weight (W):\t%.2f kN\n", res.Load.Weight)
	w.Flush()
	fmt.Println()

	fmt.Println("FAILURE MODES:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if res.Philosophy == design.LRFD {
		fmt.Fprintf(w, "  Mode\tDemand (kN)\tCapacity (kN)\tφ\tγ\tφC/γD\tStatus\n")
		fmt.Fprintf(w, "  ────\t───────────\t─────────────\t─\t─\t─────\t──────\n")
	} else {
		fmt.Fprintf(w, "  Mode\tDemand (kN)\tCapacity (kN)\tFoS\tStatus\n")
		fmt.Fprintf(w, "  ────\t───────────\t─────────────\t───\t──────\n")
	}
	for _, mr := range res.Modes {
		status := "OK"
		if !mr.Pass {
			status = "FAIL"
		}
		if mr.Mode == res.Governing {
			status += " ← GOVERNS"
		}
		if res.Philosophy == design.LRFD {
			fmt.Fprintf(w, "  %s\t%.2f\t%.2f\t%.2f\t%.2f\t%.3f\t%s\n",
				mr.Mode.Title(), mr.Demand, mr.Capacity, mr.Phi, mr.Gamma, mr.Margin, status)
		} else {
			fmt.Fprintf(w, "  %s\t%.2f\t%.2f\t%.3f\t%s\n",
				mr.Mode.Title(), mr.Demand, mr.Capacity, mr.Margin, status)
		}
	}
	w.Flush()
	fmt.Println()

	if showTerms {
		printTerms(res)
	}

	gov := res.GoverningResult()
	verdict := "ADEQUATE"
	if !res.Pass {
		verdict = "NOT ADEQUATE"
	}
	label := "FoS"
	if res.Philosophy == design.LRFD {
		label = "φC/γD"
	}
	fmt.Println(diagram.DrawSummaryBox("RESULT: "+verdict, []string{
		fmt.Sprintf("Governing mode: %s", gov.Mode.Title()),
		fmt.Sprintf("%s = %.3f (required %.2f)", label, res.GoverningMargin, res.RequiredFoS),
		fmt.Sprintf("Utilization = %.1f%%", gov.Utilization*100),
	}))
}

func printTerms(res design.Result) {
	fmt.Println("CAPACITY TERMS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	for _, cr := range res.Capacities {
		fmt.Printf("  %s (%s)\n", cr.Mode.Title(), cr.Formula)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, t := range cr.Terms {
			fmt.Fprintf(w, "    %s\t%.4g\t%s\n", t.Name, t.Value, t.Unit)
		}
		w.Flush()
	}
	fmt.Println()
}

