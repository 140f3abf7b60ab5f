package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/riskline/internal/assessments"
	"github.com/JaimeStill/riskline/internal/risks"
)

const topLimit = 5

// Request is a command to dispatch. Action takes precedence over Phrase.
// Risk carries the payload of add_risk and edit_risk; Replace applies to
// generate_risk_assessment.
type Request struct {
	Action  string      `json:"action,omitempty"`
	Phrase  string      `json:"phrase,omitempty"`
	Risk    *risks.Risk `json:"risk,omitempty"`
	Replace bool        `json:"replace,omitempty"`
}

// Result is the outcome of a dispatched command.
type Result struct {
	Command
	Data any `json:"data,omitempty"`
}

// Dashboard summarizes the risk store.
type Dashboard struct {
	Summary *risks.Summary `json:"summary"`
	TopCost []risks.Risk   `json:"top_cost"`
	TopTime []risks.Risk   `json:"top_time"`
}

// TopRisks lists the highest risk indices.
type TopRisks struct {
	Cost []risks.Risk `json:"cost"`
	Time []risks.Risk `json:"time"`
}

// Vocabulary describes the accepted actions.
type Vocabulary struct {
	Actions []Action            `json:"actions"`
	Phrases map[Action][]string `json:"phrases"`
}

// Dispatcher executes commands against the risk store and assessment system.
type Dispatcher struct {
	risks       risks.System
	assessments assessments.System
	agentConfig any
	logger      *slog.Logger
}

// New creates a Dispatcher. agentConfig is returned verbatim by
// show_agent_configuration.
func New(rs risks.System, as assessments.System, agentConfig any, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		risks:       rs,
		assessments: as,
		agentConfig: agentConfig,
		logger:      logger.With("system", "commands"),
	}
}

// Handler returns the HTTP handler for the dispatcher.
func (d *Dispatcher) Handler() *Handler {
	return NewHandler(d, d.logger)
}

// Resolve turns a request into a command without executing it.
func Resolve(req Request) (Command, error) {
	if req.Action != "" {
		a, err := ParseAction(req.Action)
		if err != nil {
			return Command{}, err
		}
		return newCommand(a), nil
	}
	if req.Phrase != "" {
		return Match(req.Phrase)
	}
	return Command{}, ErrEmptyCommand
}

// Dispatch resolves and executes req.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	cmd, err := Resolve(req)
	if err != nil {
		return nil, err
	}

	data, err := d.execute(ctx, cmd, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd.Action, err)
	}

	d.logger.InfoContext(ctx, "command dispatched", "action", cmd.Action)
	return &Result{Command: cmd, Data: data}, nil
}

func (d *Dispatcher) execute(ctx context.Context, cmd Command, req Request) (any, error) {
	switch cmd.Action {
	case GenerateRiskAssessment:
		return d.assessments.Generate(ctx, nil, req.Replace)
	case ShowDashboard:
		return d.dashboard(ctx)
	case ShowRiskManagement, ShowAllRisks:
		return d.risks.All(ctx, risks.Filters{})
	case FilterStrategic, FilterProject, FilterOperational:
		level, _ := filterLevel(cmd.Action)
		return d.risks.All(ctx, risks.Filters{Level: &level})
	case ShowAgentConfiguration:
		return d.agentConfig, nil
	case ShowVoiceCommands:
		return Vocabulary{Actions: Actions(), Phrases: Phrases()}, nil
	case SaveData:
		return d.assessments.Archive(ctx)
	case ShowTopRisks:
		return d.top(ctx)
	case AddRisk:
		if req.Risk == nil {
			return nil, ErrPayloadRequired
		}
		return d.risks.Upsert(ctx, *req.Risk)
	case EditRisk:
		if req.Risk == nil || req.Risk.ID == "" {
			return nil, ErrPayloadRequired
		}
		return d.risks.Update(ctx, req.Risk.ID, *req.Risk)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
}

func (d *Dispatcher) dashboard(ctx context.Context) (*Dashboard, error) {
	summary, err := d.risks.Summary(ctx)
	if err != nil {
		return nil, err
	}
	top, err := d.top(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Summary: summary, TopCost: top.Cost, TopTime: top.Time}, nil
}

func (d *Dispatcher) top(ctx context.Context) (*TopRisks, error) {
	byCost, err := d.risks.Top(ctx, risks.RankCost, topLimit)
	if err != nil {
		return nil, err
	}
	byTime, err := d.risks.Top(ctx, risks.RankTime, topLimit)
	if err != nil {
		return nil, err
	}
	return &TopRisks{Cost: byCost, Time: byTime}, nil
}
