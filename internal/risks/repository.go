package risks

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	"github.com/JaimeStill/riskline/pkg/pagination"
	"github.com/JaimeStill/riskline/pkg/query"
	"github.com/JaimeStill/riskline/pkg/repository"
)

const insertColumns = `id, level, subject, owner, title, description, probability, cost_impact, time_impact, detection, mitigation_plan`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a risk repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "risks"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Risk], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count risks: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRisk)
	if err != nil {
		return nil, fmt.Errorf("query risks: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) All(ctx context.Context, filters Filters) ([]Risk, error) {
	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	q, args := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, q, args, scanRisk)
	if err != nil {
		return nil, fmt.Errorf("query risks: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, id string) (*Risk, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	item, err := repository.QueryOne(ctx, r.db, q, args, scanRisk)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &item, nil
}

func (r *repo) Update(ctx context.Context, id string, item Risk) (*Risk, error) {
	item.ID = id
	if err := item.Validate(); err != nil {
		return nil, err
	}
	item.Normalize()

	q := fmt.Sprintf(`
		UPDATE risks r
		SET subject = $3, owner = $4, title = $5, description = $6, probability = $7,
			cost_impact = $8, time_impact = $9, detection = $10, mitigation_plan = $11,
			updated_at = NOW()
		WHERE r.id = $1 AND r.level = $2
		RETURNING %s`, projection.Columns())

	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Risk, error) {
		var current Level
		err := tx.QueryRowContext(ctx, "SELECT level FROM risks WHERE id = $1 FOR UPDATE", id).Scan(&current)
		if err != nil {
			return Risk{}, repository.MapError(err, ErrNotFound, ErrDuplicate)
		}
		if current != item.Level {
			return Risk{}, fmt.Errorf("%w: %s is %s", ErrLevelImmutable, id, current)
		}
		return repository.QueryOne(ctx, tx, q, insertArgs(item), scanRisk)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("risk updated", "id", updated.ID)
	return &updated, nil
}

// Upsert inserts or replaces by ID. A conflicting row at another level is
// left untouched, so no row is returned and the write reports ErrLevelImmutable.
func (r *repo) Upsert(ctx context.Context, item Risk) (*Risk, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	item.Normalize()

	q := fmt.Sprintf(`
		INSERT INTO risks AS r (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			subject = EXCLUDED.subject, owner = EXCLUDED.owner, title = EXCLUDED.title,
			description = EXCLUDED.description, probability = EXCLUDED.probability,
			cost_impact = EXCLUDED.cost_impact, time_impact = EXCLUDED.time_impact,
			detection = EXCLUDED.detection, mitigation_plan = EXCLUDED.mitigation_plan,
			updated_at = NOW()
		WHERE r.level = EXCLUDED.level
		RETURNING %s`, insertColumns, projection.Columns())

	stored, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Risk, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs(item), scanRisk)
	})
	if err != nil {
		return nil, repository.MapError(err, fmt.Errorf("%w: %s", ErrLevelImmutable, item.ID), ErrDuplicate)
	}

	r.logger.Info("risk stored", "id", stored.ID, "level", stored.Level)
	return &stored, nil
}

func (r *repo) Delete(ctx context.Context, id string) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM risks WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("risk deleted", "id", id)
	return nil
}

func (r *repo) Ingest(ctx context.Context, batch []Risk, replace bool) ([]Risk, error) {
	for i := range batch {
		if err := batch[i].Validate(); err != nil {
			return nil, err
		}
	}

	q := fmt.Sprintf(`
		INSERT INTO risks AS r (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s`, insertColumns, projection.Columns())

	stored, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]Risk, error) {
		if _, err := tx.ExecContext(ctx, "LOCK TABLE risks IN SHARE ROW EXCLUSIVE MODE"); err != nil {
			return nil, err
		}
		if replace {
			if _, err := tx.ExecContext(ctx, "DELETE FROM risks"); err != nil {
				return nil, err
			}
		} else {
			var last int
			err := tx.QueryRowContext(ctx, `
				SELECT COALESCE(MAX(substring(id FROM '^R([0-9]+)$')::bigint), 0)
				FROM risks`).Scan(&last)
			if err != nil {
				return nil, err
			}
			batch = Renumber(batch, last)
		}

		out := make([]Risk, 0, len(batch))
		for _, item := range batch {
			item.Normalize()
			saved, err := repository.QueryOne(ctx, tx, q, insertArgs(item), scanRisk)
			if err != nil {
				return nil, err
			}
			out = append(out, saved)
		}
		return out, nil
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("assessment batch stored", "count", len(stored), "replace", replace)
	return stored, nil
}

func (r *repo) Top(ctx context.Context, rank Rank, limit int) ([]Risk, error) {
	field := "RICost"
	if rank == RankTime {
		field = "RITime"
	}

	qb := query.
		NewBuilder(projection).
		OrderByFields([]query.SortField{
			{Field: field, Descending: true},
			{Field: "Seq"},
		})

	q, args := qb.BuildPage(1, max(limit, 1))
	items, err := repository.QueryMany(ctx, r.db, q, args, scanRisk)
	if err != nil {
		return nil, fmt.Errorf("query top risks: %w", err)
	}
	return items, nil
}

func (r *repo) Summary(ctx context.Context) (*Summary, error) {
	q := `
		SELECT level, COUNT(*), COALESCE(SUM(ri_cost), 0), COALESCE(SUM(ri_time), 0)
		FROM risks
		GROUP BY level`

	rows, err := repository.QueryMany(ctx, r.db, q, nil, func(s repository.Scanner) (LevelSummary, error) {
		var ls LevelSummary
		err := s.Scan(&ls.Level, &ls.Count, &ls.RICost, &ls.RITime)
		return ls, err
	})
	if err != nil {
		return nil, fmt.Errorf("summarize risks: %w", err)
	}

	summary := Summarize(nil)
	for _, ls := range rows {
		i := slices.Index(levels, ls.Level)
		if i < 0 {
			continue
		}
		summary.Levels[i] = ls
		summary.Total += ls.Count
	}
	return &summary, nil
}

func insertArgs(item Risk) []any {
	return []any{
		item.ID,
		string(item.Level),
		item.Subject,
		item.Owner,
		item.Title,
		item.Description,
		item.Probability,
		item.CostImpact,
		item.TimeImpact,
		item.Detection,
		item.MitigationPlan,
	}
}
