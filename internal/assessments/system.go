package assessments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/riskline/internal/hierarchy"
	"github.com/JaimeStill/riskline/internal/risks"
	"github.com/JaimeStill/riskline/internal/workflow"
	"github.com/JaimeStill/riskline/pkg/storage"
)

// Config carries the assessment settings that live outside the workflow runtime.
type Config struct {
	// HierarchyFile is read when Generate receives no hierarchy.
	HierarchyFile string
	// MaxListSize bounds snapshot listings.
	MaxListSize int32
}

type system struct {
	rt      *workflow.Runtime
	risks   risks.System
	storage storage.System
	cfg     Config
	logger  *slog.Logger
}

// New creates the assessment system. A nil store disables snapshot archiving.
func New(rt *workflow.Runtime, rs risks.System, store storage.System, cfg Config, logger *slog.Logger) System {
	logger = logger.With("system", "assessments")
	if store == nil {
		logger.Info("snapshot archive disabled")
	}
	return &system{
		rt:      rt,
		risks:   rs,
		storage: store,
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger, s.cfg.MaxListSize)
}

func (s *system) Features() workflow.Features {
	return s.rt.Features
}

func (s *system) Generate(ctx context.Context, h *hierarchy.Hierarchy, replace bool) (*Assessment, error) {
	h, err := s.resolve(h)
	if err != nil {
		return nil, err
	}

	result, err := workflow.Execute(ctx, s.rt, *h)
	if err != nil {
		return nil, fmt.Errorf("run assessment: %w", err)
	}

	stored, err := s.risks.Ingest(ctx, result.Risks, replace)
	if err != nil {
		return nil, fmt.Errorf("store assessment: %w", err)
	}

	a := &Assessment{
		BatchID:     result.BatchID,
		Risks:       stored,
		CompletedAt: result.CompletedAt,
	}

	if s.storage != nil {
		snap, err := s.archive(ctx, a)
		if err != nil {
			s.logger.Error("snapshot archive failed", "batch_id", a.BatchID, "error", err)
		} else {
			a.Snapshot = snap
		}
	}

	s.logger.InfoContext(
		ctx, "assessment generated",
		"batch_id", a.BatchID,
		"risk_count", len(a.Risks),
		"replace", replace,
		"archived", a.Snapshot != nil,
	)
	return a, nil
}

func (s *system) Reevaluate(ctx context.Context, id string) (*risks.Risk, error) {
	current, err := s.risks.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := workflow.Reevaluate(ctx, s.rt, *current)
	return s.risks.Update(ctx, id, updated)
}

func (s *system) Recompose(ctx context.Context, id string) (*risks.Risk, error) {
	current, err := s.risks.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := workflow.Recompose(ctx, s.rt, *current)
	return s.risks.Update(ctx, id, updated)
}

func (s *system) Archive(ctx context.Context) (*Assessment, error) {
	if s.storage == nil {
		return nil, ErrArchiveDisabled
	}

	items, err := s.risks.All(ctx, risks.Filters{})
	if err != nil {
		return nil, fmt.Errorf("load risks: %w", err)
	}

	a := &Assessment{
		BatchID:     uuid.New(),
		Risks:       items,
		CompletedAt: time.Now(),
	}

	snap, err := s.archive(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("archive risks: %w", err)
	}
	a.Snapshot = snap

	s.logger.InfoContext(ctx, "risk store archived", "batch_id", a.BatchID, "risk_count", len(items))
	return a, nil
}

func (s *system) Snapshot(ctx context.Context, batch uuid.UUID, f Format) (io.ReadCloser, error) {
	if s.storage == nil {
		return nil, ErrArchiveDisabled
	}
	return s.storage.Download(ctx, SnapshotKey(batch, f))
}

func (s *system) Snapshots(ctx context.Context, limit int32) ([]storage.Blob, error) {
	if s.storage == nil {
		return nil, ErrArchiveDisabled
	}
	return s.storage.List(ctx, SnapshotPrefix, limit)
}

func (s *system) resolve(h *hierarchy.Hierarchy) (*hierarchy.Hierarchy, error) {
	if h != nil {
		return h, nil
	}
	if s.cfg.HierarchyFile == "" {
		return nil, ErrNoHierarchy
	}
	return hierarchy.Load(s.cfg.HierarchyFile)
}

// archive uploads the JSON and CSV renditions of a concurrently. When either
// upload fails the other is removed so a batch is archived whole or not at all.
func (s *system) archive(ctx context.Context, a *Assessment) (*Snapshot, error) {
	snap := &Snapshot{
		JSONKey: SnapshotKey(a.BatchID, FormatJSON),
		CSVKey:  SnapshotKey(a.BatchID, FormatCSV),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(a); err != nil {
			return fmt.Errorf("encode json snapshot: %w", err)
		}
		return s.storage.Upload(gctx, snap.JSONKey, &buf, FormatJSON.ContentType())
	})

	g.Go(func() error {
		var buf bytes.Buffer
		if err := risks.WriteCSV(&buf, a.Risks); err != nil {
			return fmt.Errorf("encode csv snapshot: %w", err)
		}
		return s.storage.Upload(gctx, snap.CSVKey, &buf, FormatCSV.ContentType())
	})

	if err := g.Wait(); err != nil {
		for _, key := range []string{snap.JSONKey, snap.CSVKey} {
			if derr := s.storage.Delete(context.WithoutCancel(ctx), key); derr != nil && !errors.Is(derr, storage.ErrNotFound) {
				s.logger.Warn("remove partial snapshot failed", "key", key, "error", derr)
			}
		}
		return nil, err
	}

	return snap, nil
}
