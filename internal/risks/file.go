package risks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/JaimeStill/riskline/pkg/pagination"
)

type fileSystem struct {
	mu         sync.Mutex
	path       string
	ledger     *Ledger
	logger     *slog.Logger
	pagination pagination.Config
}

// NewFile creates a System persisted as a JSON ledger at path. Every
// mutation rewrites the file. List ignores sort fields and pages in ledger
// order.
func NewFile(path string, logger *slog.Logger, pagination pagination.Config) (System, error) {
	ledger, err := LoadLedger(path)
	if err != nil {
		return nil, err
	}
	return &fileSystem{
		path:       path,
		ledger:     ledger,
		logger:     logger.With("system", "risks", "ledger", path),
		pagination: pagination,
	}, nil
}

func (f *fileSystem) Handler() *Handler {
	return NewHandler(f, f.logger, f.pagination)
}

func (f *fileSystem) List(_ context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Risk], error) {
	page.Normalize(f.pagination)

	f.mu.Lock()
	items := filters.match(f.ledger.All())
	f.mu.Unlock()

	if page.Search != nil {
		items = search(items, *page.Search)
	}

	total := len(items)
	start := min(page.Offset(), total)
	end := min(start+page.PageSize, total)

	result := pagination.NewPageResult(items[start:end], total, page.Page, page.PageSize)
	return &result, nil
}

func (f *fileSystem) All(_ context.Context, filters Filters) ([]Risk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return filters.match(f.ledger.All()), nil
}

func (f *fileSystem) Find(_ context.Context, id string) (*Risk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.ledger.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return &r, nil
}

func (f *fileSystem) Update(_ context.Context, id string, item Risk) (*Risk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.ledger.Find(id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	item.ID = id
	return f.store(item)
}

func (f *fileSystem) Upsert(_ context.Context, item Risk) (*Risk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store(item)
}

func (f *fileSystem) store(item Risk) (*Risk, error) {
	next, err := NewLedger(f.ledger.All()...)
	if err != nil {
		return nil, err
	}
	if _, err := next.Upsert(item); err != nil {
		return nil, err
	}
	if err := f.commit(next); err != nil {
		return nil, err
	}

	stored, _ := f.ledger.Find(item.ID)
	f.logger.Info("risk stored", "id", stored.ID, "level", stored.Level)
	return &stored, nil
}

func (f *fileSystem) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := NewLedger(f.ledger.All()...)
	if err != nil {
		return err
	}
	if err := next.Delete(id); err != nil {
		return err
	}
	if err := f.commit(next); err != nil {
		return err
	}

	f.logger.Info("risk deleted", "id", id)
	return nil
}

func (f *fileSystem) Ingest(_ context.Context, batch []Risk, replace bool) ([]Risk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, err := NewLedger(f.ledger.All()...)
	if err != nil {
		return nil, err
	}
	stored, err := next.Ingest(batch, replace)
	if err != nil {
		return nil, err
	}
	if err := f.commit(next); err != nil {
		return nil, err
	}

	f.logger.Info("assessment batch stored", "count", len(stored), "replace", replace)
	return stored, nil
}

func (f *fileSystem) Top(_ context.Context, rank Rank, limit int) ([]Risk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.Top(rank, max(limit, 1)), nil
}

func (f *fileSystem) Summary(_ context.Context) (*Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.ledger.Summary()
	return &s, nil
}

// commit saves next and adopts it only when the write succeeds.
func (f *fileSystem) commit(next *Ledger) error {
	if err := next.Save(f.path); err != nil {
		return err
	}
	f.ledger = next
	return nil
}

func (f Filters) match(items []Risk) []Risk {
	out := make([]Risk, 0, len(items))
	for _, r := range items {
		if f.Level != nil && r.Level != *f.Level {
			continue
		}
		if f.Owner != nil && r.Owner != *f.Owner {
			continue
		}
		if f.Subject != nil && !strings.Contains(strings.ToLower(r.Subject), strings.ToLower(*f.Subject)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func search(items []Risk, term string) []Risk {
	term = strings.ToLower(term)
	out := make([]Risk, 0, len(items))
	for _, r := range items {
		if strings.Contains(strings.ToLower(r.Title), term) ||
			strings.Contains(strings.ToLower(r.Description), term) {
			out = append(out, r)
		}
	}
	return out
}
