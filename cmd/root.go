package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/workmatechiho-source/shotcrete/internal/config"
	"github.com/workmatechiho-source/shotcrete/internal/version"
)

var (
	cfgFile string
	verbose bool

	// Loaded before any subcommand runs
	appConfig *config.Config
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "shotcrete",
	Short: "Shotcrete Support Design Tool",
	Long: `shotcrete - Shotcrete Support Design for Jointed Rock

A CLI tool for checking shotcrete linings that support loosened rock
blocks in underground excavations, following the Barrett & McCreath
approach (1995) and its 2017 update.

This tool helps tunnel engineers perform:
  - Block load calculation (pyramid, flat block and shale wedge models)
  - Adhesion, flexure, punching shear and direct shear checks
  - Factor of safety and LRFD verdicts with the governing mode
  - Parameter sweeps and stability charts
  - Excel and PDF design reports

Settings are read from shotcrete.yaml, a .env file and SHOTCRETE_*
environment variables.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg

		if verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			logger = l
		}
		logger.Debug("configuration loaded",
			zap.String("philosophy", cfg.Philosophy),
			zap.String("code_version", cfg.CodeVersion),
			zap.Float64("required_fos", cfg.RequiredFoS),
			zap.Int("factor_overrides", len(cfg.Factors)))
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   shotcrete v%-45s║\n", version.Version)
		fmt.Println("  ║   Shotcrete Support Design for Jointed Rock               ║")
		fmt.Println("  ║   Barrett & McCreath 1995 / 2017                          ║")
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for checking shotcrete linings against")
		fmt.Println("  loosened rock blocks in tunnels and caverns.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Pyramid, flat block and shale wedge load models")
		fmt.Println("    • Adhesion, flexure, punching and direct shear capacities")
		fmt.Println("    • FoS and LRFD design with versioned factor tables")
		fmt.Println("    • Parameter sweeps with terminal and image charts")
		fmt.Println("    • Excel workbooks, PDF reports and an HTTP API")
		fmt.Println()
		fmt.Println("  Use 'shotcrete --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	defer func() { _ = logger.Sync() }()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./shotcrete.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log configuration and timings to stderr")
}
