package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/workmatechiho-source/shotcrete/internal/codes"
)

var factorsVersion string

var factorsCmd = &cobra.Command{
	Use:   "factors",
	Short: "List the design factor tables",
	Long: `List the resistance (φ), load (γ), model, fibre and reinforcement
factors for each failure mode, with any overrides from the config file
applied.

Examples:
  # Both editions
  shotcrete factors

  # The 1995 table only
  shotcrete factors --code BM1995`,
	RunE: runFactors,
}

func init() {
	rootCmd.AddCommand(factorsCmd)

	factorsCmd.Flags().StringVarP(&factorsVersion, "code", "c", "", "Show one factor table: BM1995 | BM2017")
}

func runFactors(cmd *cobra.Command, args []string) error {
	tbl, err := appConfig.Table()
	if err != nil {
		return err
	}

	versions := codes.Versions
	if factorsVersion != "" {
		v, err := codes.ParseVersion(factorsVersion)
		if err != nil {
			return err
		}
		versions = []codes.Version{v}
	}

	overridden := make(map[codes.Entry]bool)
	for _, e := range appConfig.Factors {
		overridden[codes.Entry{Version: e.Version, Mode: e.Mode, Kind: e.Kind}] = true
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println("                  DESIGN FACTOR TABLES")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()

	for _, v := range versions {
		fmt.Printf("%s:\n", v)
		fmt.Println("───────────────────────────────────────────────────────────────")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "  Mode")
		for _, k := range codes.Kinds {
			fmt.Fprintf(w, "\t%s", k)
		}
		fmt.Fprintf(w, "\t\n")
		fmt.Fprintf(w, "  ────")
		for range codes.Kinds {
			fmt.Fprintf(w, "\t────")
		}
		fmt.Fprintf(w, "\t\n")

		for _, m := range codes.Modes {
			fmt.Fprintf(w, "  %s", m.Title())
			for _, k := range codes.Kinds {
				value, err := tbl.Resolve(m, k, v)
				if err != nil {
					fmt.Fprintf(w, "\t-")
					continue
				}
				marker := ""
				if overridden[codes.Entry{Version: v, Mode: m, Kind: k}] {
					marker = "*"
				}
				fmt.Fprintf(w, "\t%.2f%s", value, marker)
			}
			fmt.Fprintf(w, "\t\n")
		}
		w.Flush()
		fmt.Println()
	}

	if len(appConfig.Factors) > 0 {
		fmt.Println("  * = overridden by configuration")
		fmt.Println()
	}
	fmt.Printf("  Default table: %s\n", appConfig.DefaultVersion())
	fmt.Println()
	return nil
}
