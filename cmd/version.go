package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workmatechiho-source/shotcrete/internal/codes"
	"github.com/workmatechiho-source/shotcrete/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of shotcrete",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shotcrete v%s\n", version.Version)
		fmt.Println("Shotcrete Support Design Tool")
		fmt.Printf("Factor tables: %v (default %s)\n", codes.Versions, codes.DefaultVersion)
		if version.GitCommit != "unknown" {
			fmt.Printf("Commit %s, built %s\n", version.GitCommit, version.BuildTime)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
