// Package commands maps spoken or typed phrases to a fixed action vocabulary
// and dispatches those actions against the risk store and assessment system.
package commands

import (
	"fmt"
	"strings"
)

// Action is one entry of the command vocabulary.
type Action string

const (
	GenerateRiskAssessment Action = "generate_risk_assessment"
	ShowDashboard          Action = "show_dashboard"
	ShowRiskManagement     Action = "show_risk_management"
	ShowAgentConfiguration Action = "show_agent_configuration"
	ShowVoiceCommands      Action = "show_voice_commands"
	FilterStrategic        Action = "filter_strategic"
	FilterProject          Action = "filter_project"
	FilterOperational      Action = "filter_operational"
	ShowAllRisks           Action = "show_all_risks"
	SaveData               Action = "save_data"
	ShowTopRisks           Action = "show_top_risks"
	AddRisk                Action = "add_risk"
	EditRisk               Action = "edit_risk"
)

var actions = []Action{
	GenerateRiskAssessment,
	ShowDashboard,
	ShowRiskManagement,
	ShowAgentConfiguration,
	ShowVoiceCommands,
	FilterStrategic,
	FilterProject,
	FilterOperational,
	ShowAllRisks,
	SaveData,
	ShowTopRisks,
	AddRisk,
	EditRisk,
}

// Actions returns the vocabulary in declaration order.
func Actions() []Action {
	return append([]Action(nil), actions...)
}

// ParseAction returns the action named s.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range actions {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}
