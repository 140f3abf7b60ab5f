package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/riskline/internal/commands"
	"github.com/JaimeStill/riskline/internal/risks"
	"github.com/spf13/cobra"
)

var (
	commandAction  string
	commandRisk    string
	commandReplace bool
)

var commandCmd = &cobra.Command{
	Use:   "command [phrase...]",
	Short: "Run a dashboard command given as a phrase or an action",
	Long: `Command resolves a spoken or typed phrase, in Italian or English, to a
dashboard action and runs it against the ledger. --action names the action
directly and takes precedence over the phrase.

Run "riskline command --list" to print the accepted actions and phrases.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			return writeJSON(cmd.OutOrStdout(), commands.Vocabulary{
				Actions: commands.Actions(),
				Phrases: commands.Phrases(),
			})
		}

		req := commands.Request{
			Action:  commandAction,
			Phrase:  strings.Join(args, " "),
			Replace: commandReplace,
		}
		if commandRisk != "" {
			r, err := readRisk(commandRisk)
			if err != nil {
				return err
			}
			req.Risk = r
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.commands.Dispatch(cmd.Context(), req)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), result)
	},
}

func readRisk(path string) (*risks.Risk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read risk: %w", err)
	}
	var r risks.Risk
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse risk %s: %w", path, err)
	}
	return &r, nil
}

func init() {
	commandCmd.Flags().StringVar(&commandAction, "action", "", "Action name, overriding the phrase")
	commandCmd.Flags().StringVar(&commandRisk, "risk", "", "JSON file holding the risk for add and edit actions")
	commandCmd.Flags().BoolVar(&commandReplace, "replace", false, "Empty the ledger before a generate action stores its batch")
	commandCmd.Flags().Bool("list", false, "Print the accepted actions and phrases")
}
