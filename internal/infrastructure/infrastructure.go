// Package infrastructure provides core service initialization for application startup.
// It assembles the dependencies domain systems require: logging, database,
// optional snapshot storage, and the generation-backed assessment runtime.
package infrastructure

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/riskline/internal/config"
	"github.com/JaimeStill/riskline/internal/evaluation"
	"github.com/JaimeStill/riskline/internal/extraction"
	"github.com/JaimeStill/riskline/internal/generation"
	"github.com/JaimeStill/riskline/internal/mitigation"
	"github.com/JaimeStill/riskline/internal/workflow"
	"github.com/JaimeStill/riskline/pkg/database"
	"github.com/JaimeStill/riskline/pkg/lifecycle"
	"github.com/JaimeStill/riskline/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// Storage is nil when snapshot archiving is disabled.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Workflow  *workflow.Runtime
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := NewLogger(cfg.SlogLevel())

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	var store storage.System
	if cfg.Assessment.ArchiveEnabled() {
		store, err = storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
	}

	rt, err := NewWorkflowRuntime(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Workflow:  rt,
	}, nil
}

// NewLogger returns the text logger shared by every subsystem.
func NewLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewWorkflowRuntime builds the extraction, evaluation, and mitigation
// components, each with its own generation client tuned to the stage
// temperature. An unavailable provider leaves the client nil so the
// component runs on its deterministic fallback.
func NewWorkflowRuntime(cfg *config.Config, logger *slog.Logger) (*workflow.Runtime, error) {
	client := func(component string, feature config.FeatureConfig) (generation.Client, error) {
		c, err := generation.New(&cfg.Generation, generation.Options{
			Component:   component,
			Temperature: feature.Temperature,
		})
		if errors.Is(err, generation.ErrUnavailable) {
			logger.Warn("generation client unavailable", "component", component, "error", err)
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s client init failed: %w", component, err)
		}
		return c, nil
	}

	ext, err := client("extraction", cfg.Assessment.Extraction)
	if err != nil {
		return nil, err
	}
	eval, err := client("evaluation", cfg.Assessment.Evaluation)
	if err != nil {
		return nil, err
	}
	mit, err := client("mitigation", cfg.Assessment.Mitigation)
	if err != nil {
		return nil, err
	}

	return &workflow.Runtime{
		Extractor: extraction.New(ext, logger),
		Evaluator: evaluation.New(eval, logger),
		Composer:  mitigation.New(mit, logger),
		Features:  cfg.Assessment.Features(),
		Logger:    logger.With("system", "workflow"),
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	return nil
}
