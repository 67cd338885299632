package cmd

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/diagram"
	"github.com/workmatechiho-source/shotcrete/internal/export"
	"github.com/workmatechiho-source/shotcrete/internal/sweep"
)

var (
	sweepFlags caseFlags

	sweepParam      string
	sweepFrom       float64
	sweepTo         float64
	sweepSteps      int
	sweepChart      bool
	sweepHeight     int
	sweepJSON       bool
	sweepExportFile string
	sweepXLSXFile   string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Stability chart: margins against one varying parameter",
	Long: `Evaluate the case over an evenly spaced range of one parameter and
tabulate the margin of every failure mode. Evaluations run in parallel.

Parameters:
  spacing           - both joint spacings (m)
  spacing_x         - joint spacing along x (m)
  spacing_y         - joint spacing along y (m)
  lining_thickness  - shotcrete thickness (m)
  block_thickness   - loosened zone of a flat block (m)
  side_angle        - both shale wedge joint angles (degrees)

A sweep block in the case file supplies the range when the flags are
not given.

Examples:
  # Margin against joint spacing, terminal chart
  shotcrete sweep --sx 1.5 --param spacing --from 0.5 --to 3 --steps 26 --chart

  # Thickness study for a shale wedge, chart and workbook
  shotcrete sweep --preset ashfield --sx 1.8 --param t --from 0.05 --to 0.2 \
      -o thickness.png --xlsx thickness.xlsx`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	addCaseFlags(sweepCmd, &sweepFlags)

	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "Parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "First value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0, "Last value")
	sweepCmd.Flags().IntVarP(&sweepSteps, "steps", "n", 21, "Number of values")
	sweepCmd.Flags().BoolVar(&sweepChart, "chart", false, "Show a terminal chart")
	sweepCmd.Flags().IntVar(&sweepHeight, "height", 15, "Terminal chart height (rows)")
	sweepCmd.Flags().BoolVar(&sweepJSON, "json", false, "Print the series as JSON")
	sweepCmd.Flags().StringVarP(&sweepExportFile, "output", "o", "", "Export stability chart to file (png, svg, pdf)")
	sweepCmd.Flags().StringVar(&sweepXLSXFile, "xlsx", "", "Write an Excel workbook with the sweep sheet")
}

func sweepOptions(cmd *cobra.Command, fromCase sweep.Options, hasCase bool) (sweep.Options, error) {
	opts := fromCase
	flags := cmd.Flags()

	if flags.Changed("param") || !hasCase {
		if sweepParam == "" {
			return opts, fmt.Errorf("--param is required (or a sweep block in the case file)")
		}
		p, err := sweep.ParseParameter(sweepParam)
		if err != nil {
			return opts, err
		}
		opts.Parameter = p
	}
	if flags.Changed("from") || !hasCase {
		opts.From = sweepFrom
	}
	if flags.Changed("to") || !hasCase {
		opts.To = sweepTo
	}
	if flags.Changed("steps") || !hasCase {
		opts.Steps = sweepSteps
	}
	opts.Workers = appConfig.Workers
	return opts, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	c, err := loadCase(cmd, &sweepFlags)
	if err != nil {
		return err
	}
	in, err := c.Input()
	if err != nil {
		return err
	}
	fromCase, hasCase := c.SweepOptions()
	opts, err := sweepOptions(cmd, fromCase, hasCase)
	if err != nil {
		return err
	}
	ev, err := appConfig.Evaluator()
	if err != nil {
		return err
	}

	start := time.Now()
	series, err := sweep.Run(cmd.Context(), ev, in, opts)
	if err != nil {
		return err
	}
	logger.Debug("sweep finished",
		zap.String("parameter", string(opts.Parameter)),
		zap.Int("steps", opts.Steps),
		zap.Int("workers", opts.Workers),
		zap.Duration("elapsed", time.Since(start)))

	if sweepJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(series)
	}

	summary, err := series.Summary()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("              SHOTCRETE STABILITY SWEEP")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
	if c.Name != "" {
		fmt.Printf("  Case: %s\n", c.Name)
	}
	first := series.Points[0].Result
	fmt.Printf("  Load model: %s\n", first.Load.Variant.Description())
	fmt.Printf("  Philosophy: %s, factors %s, required %.2f\n", first.Philosophy, first.CodeVersion, first.RequiredFoS)
	fmt.Printf("  Varying %s from %g to %g %s (%d steps)\n", opts.Parameter, opts.From, opts.To, opts.Parameter.Unit(), opts.Steps)
	fmt.Println()

	fmt.Println("MARGINS:")
	fmt.Println("───────────────────────────────────────────────────────────────")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  %s (%s)\tW (kN)", opts.Parameter, opts.Parameter.Unit())
	for _, m := range codes.Modes {
		fmt.Fprintf(w, "\t%s", m.Title())
	}
	fmt.Fprintf(w, "\tGoverning\t\n")
	for _, p := range series.Points {
		status := ""
		if !p.Result.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(w, "  %.3f\t%.2f", p.Value, p.Result.Load.Weight)
		for _, mr := range p.Result.Modes {
			fmt.Fprintf(w, "\t%.3f", mr.Margin)
		}
		fmt.Fprintf(w, "\t%s\t%s\n", p.Result.Governing.Title(), status)
	}
	w.Flush()
	fmt.Println()

	lines := []string{
		fmt.Sprintf("Governing margin: %.3f to %.3f", summary.Min, summary.Max),
		fmt.Sprintf("Mean %.3f, median %.3f", summary.Mean, summary.Median),
		fmt.Sprintf("Passing: %d of %d", summary.Passing, len(series.Points)),
	}
	if summary.AnyPass() && !math.IsNaN(summary.FirstPass) {
		lines = append(lines, fmt.Sprintf("Passes from %g to %g %s", summary.FirstPass, summary.LastPass, opts.Parameter.Unit()))
	}
	for _, m := range codes.Modes {
		if n := summary.Governing[m]; n > 0 {
			lines = append(lines, fmt.Sprintf("%s governs %d", m.Title(), n))
		}
	}
	fmt.Println(diagram.DrawSummaryBox("SWEEP SUMMARY", lines))

	data := diagram.ChartDataFromSeries(series)
	if sweepChart {
		fmt.Println(diagram.TerminalChart(data, sweepHeight))
		fmt.Println()
	}

	if sweepExportFile != "" {
		if err := diagram.ExportStabilityChart(data, sweepExportFile); err != nil {
			fmt.Printf("Error exporting chart: %v\n", err)
		} else {
			fmt.Printf("Chart exported to: %s\n", sweepExportFile)
		}
	}

	if sweepXLSXFile != "" {
		base, err := ev.Evaluate(in)
		if err != nil {
			return err
		}
		if err := export.SaveWorkbook(sweepXLSXFile, c.Meta(), base, series); err != nil {
			return err
		}
		fmt.Printf("Workbook written to: %s\n", sweepXLSXFile)
	}
	return nil
}
