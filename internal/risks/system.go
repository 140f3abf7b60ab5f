package risks

import (
	"context"

	"github.com/JaimeStill/riskline/pkg/pagination"
)

// System defines the public contract for risk ledger operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Risk], error)

	All(ctx context.Context, filters Filters) ([]Risk, error)
	Find(ctx context.Context, id string) (*Risk, error)
	Update(ctx context.Context, id string, r Risk) (*Risk, error)
	Upsert(ctx context.Context, r Risk) (*Risk, error)
	Delete(ctx context.Context, id string) error

	// Ingest stores an assessment batch; see Ledger.Ingest.
	Ingest(ctx context.Context, batch []Risk, replace bool) ([]Risk, error)

	Top(ctx context.Context, rank Rank, limit int) ([]Risk, error)
	Summary(ctx context.Context) (*Summary, error)
}
