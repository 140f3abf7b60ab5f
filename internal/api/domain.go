package api

import (
	"github.com/JaimeStill/riskline/internal/assessments"
	"github.com/JaimeStill/riskline/internal/commands"
	"github.com/JaimeStill/riskline/internal/config"
	"github.com/JaimeStill/riskline/internal/risks"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Risks       risks.System
	Assessments assessments.System
	Commands    *commands.Dispatcher
}

// AgentConfiguration is the view returned by the show agent configuration command.
type AgentConfiguration struct {
	Provider   string                  `json:"provider"`
	Assessment config.AssessmentConfig `json:"assessment"`
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	risksSystem := risks.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	assessmentsSystem := assessments.New(
		runtime.Workflow,
		risksSystem,
		runtime.Storage,
		assessments.Config{
			HierarchyFile: cfg.Assessment.HierarchyFile,
			MaxListSize:   cfg.Storage.MaxListSize,
		},
		runtime.Logger,
	)

	dispatcher := commands.New(
		risksSystem,
		assessmentsSystem,
		AgentConfiguration{
			Provider:   cfg.Generation.Provider,
			Assessment: cfg.Assessment,
		},
		runtime.Logger,
	)

	return &Domain{
		Risks:       risksSystem,
		Assessments: assessmentsSystem,
		Commands:    dispatcher,
	}
}
