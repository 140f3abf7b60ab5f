// Package cmd implements the riskline command line interface. Commands run
// the assessment pipeline against a JSON ledger file instead of the database.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ledgerPath string

var rootCmd = &cobra.Command{
	Use:   "riskline",
	Short: "Automotive program risk assessment",
	Long: `riskline generates, evaluates, and scores automotive program risks
across a product hierarchy of ranges, projects, and components.

Risks are kept in a JSON ledger file. Generation settings come from
config.toml and RISKLINE_* environment variables, as for the server.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&ledgerPath, "ledger", "risks.json", "Path of the JSON risk ledger")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(reevaluateCmd)
	rootCmd.AddCommand(recomposeCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(commandCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(versionCmd)
}
