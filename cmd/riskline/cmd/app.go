package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/JaimeStill/riskline/internal/assessments"
	"github.com/JaimeStill/riskline/internal/commands"
	"github.com/JaimeStill/riskline/internal/config"
	"github.com/JaimeStill/riskline/internal/infrastructure"
	"github.com/JaimeStill/riskline/internal/risks"
	"github.com/JaimeStill/riskline/pkg/lifecycle"
	"github.com/JaimeStill/riskline/pkg/pagination"
	"github.com/JaimeStill/riskline/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// app wires the domain systems for a single CLI invocation.
type app struct {
	cfg         *config.Config
	lifecycle   *lifecycle.Coordinator
	logger      *slog.Logger
	risks       risks.System
	assessments assessments.System
	commands    *commands.Dispatcher
}

func newApp() (*app, error) {
	cfg, err := config.LoadPipeline()
	if err != nil {
		return nil, err
	}

	logger := infrastructure.NewLogger(cfg.SlogLevel())
	lc := lifecycle.New()

	rt, err := infrastructure.NewWorkflowRuntime(cfg, logger)
	if err != nil {
		return nil, err
	}

	rs, err := risks.NewFile(ledgerPath, logger, pagination.Config{DefaultPageSize: 25, MaxPageSize: 100})
	if err != nil {
		return nil, err
	}

	var store storage.System
	if cfg.Assessment.ArchiveEnabled() {
		store, err = storage.New(&cfg.Storage, logger)
		if err != nil {
			return nil, fmt.Errorf("storage init failed: %w", err)
		}
		if err := store.Start(lc); err != nil {
			return nil, fmt.Errorf("storage start failed: %w", err)
		}
	}
	lc.WaitForStartup()

	as := assessments.New(rt, rs, store, assessments.Config{
		HierarchyFile: cfg.Assessment.HierarchyFile,
		MaxListSize:   cfg.Storage.MaxListSize,
	}, logger)

	return &app{
		cfg:         cfg,
		lifecycle:   lc,
		logger:      logger,
		risks:       rs,
		assessments: as,
		commands: commands.New(rs, as, map[string]any{
			"provider":   cfg.Generation.Provider,
			"assessment": cfg.Assessment,
		}, logger),
	}, nil
}

func (a *app) close() {
	if err := a.lifecycle.Shutdown(shutdownTimeout); err != nil {
		a.logger.Error("shutdown failed", "error", err)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
