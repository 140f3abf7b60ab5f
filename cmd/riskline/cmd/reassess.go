package cmd

import (
	"context"

	"github.com/JaimeStill/riskline/internal/risks"
	"github.com/spf13/cobra"
)

var reevaluateCmd = &cobra.Command{
	Use:   "reevaluate <risk-id>",
	Short: "Re-estimate probability, impact, and detection of one risk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reassess(cmd, args[0], func(a *app, ctx context.Context, id string) (*risks.Risk, error) {
			return a.assessments.Reevaluate(ctx, id)
		})
	},
}

var recomposeCmd = &cobra.Command{
	Use:   "recompose <risk-id>",
	Short: "Rewrite the mitigation plan of one risk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return reassess(cmd, args[0], func(a *app, ctx context.Context, id string) (*risks.Risk, error) {
			return a.assessments.Recompose(ctx, id)
		})
	},
}

func reassess(cmd *cobra.Command, id string, fn func(*app, context.Context, string) (*risks.Risk, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	r, err := fn(a, cmd.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), r)
}
