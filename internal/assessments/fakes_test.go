package assessments_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/JaimeStill/riskline/internal/risks"
	"github.com/JaimeStill/riskline/pkg/lifecycle"
	"github.com/JaimeStill/riskline/pkg/storage"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memoryStore is an in-memory storage.System. Uploads whose key contains
// failOn return an error.
type memoryStore struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	failOn string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{blobs: map[string][]byte{}}
}

func (m *memoryStore) Start(*lifecycle.Coordinator) error { return nil }

func (m *memoryStore) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	if m.failOn != "" && strings.Contains(key, m.failOn) {
		return errors.New("upload refused")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = data
	return nil
}

func (m *memoryStore) Download(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.blobs, key)
	return nil
}

func (m *memoryStore) List(_ context.Context, prefix string, maxResults int32) ([]storage.Blob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []storage.Blob{}
	for k, v := range m.blobs {
		if strings.HasPrefix(k, prefix) && int32(len(out)) < maxResults {
			out = append(out, storage.Blob{Key: k, Size: int64(len(v))})
		}
	}
	return out, nil
}

// ledgerStore backs risks.System with an in-memory Ledger. Only the methods
// the assessment system calls are implemented.
type ledgerStore struct {
	risks.System
	ledger *risks.Ledger
}

func newLedgerStore(items ...risks.Risk) *ledgerStore {
	l, err := risks.NewLedger(items...)
	if err != nil {
		panic(err)
	}
	return &ledgerStore{ledger: l}
}

func (s *ledgerStore) Find(_ context.Context, id string) (*risks.Risk, error) {
	r, ok := s.ledger.Find(id)
	if !ok {
		return nil, risks.ErrNotFound
	}
	return &r, nil
}

func (s *ledgerStore) Update(_ context.Context, id string, r risks.Risk) (*risks.Risk, error) {
	if _, ok := s.ledger.Find(id); !ok {
		return nil, risks.ErrNotFound
	}
	r.ID = id
	if _, err := s.ledger.Upsert(r); err != nil {
		return nil, err
	}
	stored, _ := s.ledger.Find(id)
	return &stored, nil
}

func (s *ledgerStore) All(_ context.Context, f risks.Filters) ([]risks.Risk, error) {
	if f.Level != nil {
		return s.ledger.Filter(*f.Level), nil
	}
	return s.ledger.All(), nil
}

func (s *ledgerStore) Ingest(_ context.Context, batch []risks.Risk, replace bool) ([]risks.Risk, error) {
	return s.ledger.Ingest(batch, replace)
}
