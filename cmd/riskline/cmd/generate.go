package cmd

import (
	"fmt"

	"github.com/JaimeStill/riskline/internal/hierarchy"
	"github.com/spf13/cobra"
)

var (
	hierarchyPath string
	replace       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run a full assessment over a product hierarchy",
	Long: `Generate extracts risks for every range, project, and component of the
hierarchy, evaluates and mitigates them, and stores the batch in the ledger.

Without --hierarchy the assessment.hierarchy_file setting is used. By default
the batch is appended after the highest stored id; --replace empties the
ledger first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		var h *hierarchy.Hierarchy
		if hierarchyPath != "" {
			if h, err = hierarchy.Load(hierarchyPath); err != nil {
				return err
			}
		}

		result, err := a.assessments.Generate(cmd.Context(), h, replace)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "batch %s: %d risks stored in %s\n", result.BatchID, len(result.Risks), ledgerPath)
		return writeJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	generateCmd.Flags().StringVar(&hierarchyPath, "hierarchy", "", "Path of the hierarchy JSON file")
	generateCmd.Flags().BoolVar(&replace, "replace", false, "Empty the ledger before storing the batch")
}
