package cmd

import (
	"github.com/JaimeStill/riskline/internal/risks"
	"github.com/spf13/cobra"
)

var (
	topMetric string
	topLimit  int
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "List the highest ranked risks in the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		rank, err := risks.ParseRank(topMetric)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		items, err := a.risks.Top(cmd.Context(), rank, topLimit)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), items)
	},
}

func init() {
	topCmd.Flags().StringVar(&topMetric, "metric", string(risks.RankCost), "Ranking index: cost or time")
	topCmd.Flags().IntVar(&topLimit, "limit", 5, "Number of risks to list")
}
