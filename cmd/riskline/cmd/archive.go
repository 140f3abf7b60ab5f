package cmd

import (
	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Snapshot the ledger to blob storage as JSON and CSV",
	Long: `Archive uploads every stored risk under a new batch id. Archiving must
be enabled with assessment.archive or RISKLINE_ASSESSMENT_ARCHIVE.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.assessments.Archive(cmd.Context())
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), result)
	},
}
