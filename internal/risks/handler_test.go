package risks_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/riskline/internal/risks"
	"github.com/JaimeStill/riskline/pkg/pagination"
	"github.com/JaimeStill/riskline/pkg/routes"
)

type mockSystem struct {
	listFn    func(context.Context, pagination.PageRequest, risks.Filters) (*pagination.PageResult[risks.Risk], error)
	allFn     func(context.Context, risks.Filters) ([]risks.Risk, error)
	findFn    func(context.Context, string) (*risks.Risk, error)
	updateFn  func(context.Context, string, risks.Risk) (*risks.Risk, error)
	upsertFn  func(context.Context, risks.Risk) (*risks.Risk, error)
	deleteFn  func(context.Context, string) error
	ingestFn  func(context.Context, []risks.Risk, bool) ([]risks.Risk, error)
	topFn     func(context.Context, risks.Rank, int) ([]risks.Risk, error)
	summaryFn func(context.Context) (*risks.Summary, error)
}

func (m *mockSystem) Handler() *risks.Handler { return nil }

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, f risks.Filters) (*pagination.PageResult[risks.Risk], error) {
	return m.listFn(ctx, page, f)
}

func (m *mockSystem) All(ctx context.Context, f risks.Filters) ([]risks.Risk, error) {
	return m.allFn(ctx, f)
}

func (m *mockSystem) Find(ctx context.Context, id string) (*risks.Risk, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Update(ctx context.Context, id string, r risks.Risk) (*risks.Risk, error) {
	return m.updateFn(ctx, id, r)
}

func (m *mockSystem) Upsert(ctx context.Context, r risks.Risk) (*risks.Risk, error) {
	return m.upsertFn(ctx, r)
}

func (m *mockSystem) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func (m *mockSystem) Ingest(ctx context.Context, batch []risks.Risk, replace bool) ([]risks.Risk, error) {
	return m.ingestFn(ctx, batch, replace)
}

func (m *mockSystem) Top(ctx context.Context, rank risks.Rank, limit int) ([]risks.Risk, error) {
	return m.topFn(ctx, rank, limit)
}

func (m *mockSystem) Summary(ctx context.Context) (*risks.Summary, error) {
	return m.summaryFn(ctx)
}

func newMux(sys risks.System) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := risks.NewHandler(sys, logger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100})
	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())
	return mux
}

func serve(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestHandlerFindNotFound(t *testing.T) {
	mux := newMux(&mockSystem{
		findFn: func(_ context.Context, id string) (*risks.Risk, error) {
			return nil, risks.ErrNotFound
		},
	})

	rec := serve(mux, "GET", "/risks/R42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerUpsert(t *testing.T) {
	var got risks.Risk
	mux := newMux(&mockSystem{
		upsertFn: func(_ context.Context, r risks.Risk) (*risks.Risk, error) {
			got = r
			r.Normalize()
			return &r, nil
		},
	})

	rec := serve(mux, "POST", "/risks", `{"id":"R1","level":"project","title":"Tooling delay","probability":0.4,"cost_impact":1000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, risks.LevelProject, got.Level)

	var body risks.Risk
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.InDelta(t, 400, body.RICost, 1e-9)
}

func TestHandlerUpsertRejectsUnknownLevel(t *testing.T) {
	mux := newMux(&mockSystem{})
	rec := serve(mux, "POST", "/risks", `{"id":"R1","level":"tactical","title":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerUpdateStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"missing", risks.ErrNotFound, http.StatusNotFound},
		{"level change", risks.ErrLevelImmutable, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newMux(&mockSystem{
				updateFn: func(_ context.Context, id string, r risks.Risk) (*risks.Risk, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					r.ID = id
					return &r, nil
				},
			})
			rec := serve(mux, "PUT", "/risks/R1", `{"level":"project","title":"x"}`)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandlerDelete(t *testing.T) {
	mux := newMux(&mockSystem{
		deleteFn: func(_ context.Context, id string) error {
			if id == "R1" {
				return nil
			}
			return risks.ErrNotFound
		},
	})

	assert.Equal(t, http.StatusNoContent, serve(mux, "DELETE", "/risks/R1", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(mux, "DELETE", "/risks/R2", "").Code)
}

func TestHandlerTop(t *testing.T) {
	var gotRank risks.Rank
	var gotLimit int
	mux := newMux(&mockSystem{
		topFn: func(_ context.Context, rank risks.Rank, limit int) ([]risks.Risk, error) {
			gotRank, gotLimit = rank, limit
			return []risks.Risk{}, nil
		},
	})

	rec := serve(mux, "GET", "/risks/top", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, risks.RankCost, gotRank)
	assert.Equal(t, 5, gotLimit)

	rec = serve(mux, "GET", "/risks/top?metric=time&limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, risks.RankTime, gotRank)
	assert.Equal(t, 3, gotLimit)

	assert.Equal(t, http.StatusBadRequest, serve(mux, "GET", "/risks/top?metric=budget", "").Code)
	assert.Equal(t, http.StatusBadRequest, serve(mux, "GET", "/risks/top?limit=0", "").Code)
}

func TestHandlerListRejectsUnknownLevel(t *testing.T) {
	mux := newMux(&mockSystem{})
	rec := serve(mux, "GET", "/risks?level=tactical", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerListPassesFilters(t *testing.T) {
	var got risks.Filters
	mux := newMux(&mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, f risks.Filters) (*pagination.PageResult[risks.Risk], error) {
			got = f
			res := pagination.NewPageResult[risks.Risk](nil, 0, 1, 20)
			return &res, nil
		},
	})

	rec := serve(mux, "GET", "/risks?level=Strategic&subject=Fiat", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Level)
	assert.Equal(t, risks.LevelStrategic, *got.Level)
	assert.Equal(t, "Fiat", *got.Subject)
}

func TestHandlerExportCSV(t *testing.T) {
	mux := newMux(&mockSystem{
		allFn: func(_ context.Context, _ risks.Filters) ([]risks.Risk, error) {
			r := sample("R1", risks.LevelProject, 0.5, 1000, 4)
			r.Normalize()
			return []risks.Risk{r}, nil
		},
	})

	rec := serve(mux, "GET", "/risks/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "id,level,subject"))
	assert.True(t, strings.HasPrefix(lines[1], "R1,project,"))
	assert.Contains(t, lines[1], ",500.00,2.00,")
}
