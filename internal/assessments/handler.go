package assessments

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/riskline/internal/hierarchy"
	"github.com/JaimeStill/riskline/pkg/handlers"
	"github.com/JaimeStill/riskline/pkg/routes"
	"github.com/JaimeStill/riskline/pkg/storage"
)

// Handler provides HTTP endpoints for assessment operations.
type Handler struct {
	sys         System
	logger      *slog.Logger
	maxListSize int32
}

// NewHandler creates a Handler. maxListSize is the default snapshot listing size.
func NewHandler(sys System, logger *slog.Logger, maxListSize int32) *Handler {
	return &Handler{
		sys:         sys,
		logger:      logger.With("handler", "assessments"),
		maxListSize: max(maxListSize, 1),
	}
}

// Routes returns the route group definition for assessment endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/assessments",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Generate},
			{Method: "POST", Pattern: "/reevaluate/{id}", Handler: h.Reevaluate},
			{Method: "POST", Pattern: "/recompose/{id}", Handler: h.Recompose},
			{Method: "POST", Pattern: "/archive", Handler: h.Archive},
			{Method: "GET", Pattern: "/snapshots", Handler: h.Snapshots},
			{Method: "GET", Pattern: "/snapshots/{batch}", Handler: h.Snapshot},
		},
	}
}

// Generate runs an assessment over the hierarchy in the request body, or
// over the configured hierarchy file when the body is empty.
// The replace query parameter empties the risk store first.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	replace := false
	if v := r.URL.Query().Get("replace"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid replace: %w", err))
			return
		}
		replace = b
	}

	hr, err := readHierarchy(r)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	a, err := h.sys.Generate(r.Context(), hr, replace)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, a)
}

// Reevaluate re-runs evaluation for one stored risk.
func (h *Handler) Reevaluate(w http.ResponseWriter, r *http.Request) {
	risk, err := h.sys.Reevaluate(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, risk)
}

// Recompose re-runs mitigation planning for one stored risk.
func (h *Handler) Recompose(w http.ResponseWriter, r *http.Request) {
	risk, err := h.sys.Recompose(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, risk)
}

// Archive snapshots the current risk store.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	a, err := h.sys.Archive(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, a)
}

// Snapshots lists archived snapshot blobs.
func (h *Handler) Snapshots(w http.ResponseWriter, r *http.Request) {
	limit, err := storage.ParseMaxResults(r.URL.Query().Get("limit"), h.maxListSize)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	blobs, err := h.sys.Snapshots(r.Context(), limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, blobs)
}

// Snapshot streams the archived copy of a batch; format selects json or csv.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	batch, err := uuid.Parse(r.PathValue("batch"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidBatch, err))
		return
	}

	format, err := ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	body, err := h.sys.Snapshot(r.Context(), batch, format)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", batch.String()+"."+string(format)))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("stream snapshot failed", "batch_id", batch, "error", err)
	}
}

func readHierarchy(r *http.Request) (*hierarchy.Hierarchy, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", hierarchy.ErrInvalid, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return hierarchy.Parse(data)
}
