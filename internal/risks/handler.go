package risks

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/JaimeStill/riskline/pkg/handlers"
	"github.com/JaimeStill/riskline/pkg/pagination"
	"github.com/JaimeStill/riskline/pkg/routes"
)

const defaultTopLimit = 5

// Handler provides HTTP endpoints for risk ledger operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "risks"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for risk endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/risks",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/top", Handler: h.Top},
			{Method: "GET", Pattern: "/summary", Handler: h.Summary},
			{Method: "GET", Pattern: "/export", Handler: h.Export},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Upsert},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "PUT", Pattern: "/{id}", Handler: h.Update},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Delete},
		},
	}
}

// List returns a paginated list of risks with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching risks.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalid, err))
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single risk by its ID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	item, err := h.sys.Find(r.Context(), r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, item)
}

// Upsert stores the risk from the JSON body, replacing any risk with the same ID.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var item Risk
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalid, err))
		return
	}

	stored, err := h.sys.Upsert(r.Context(), item)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, stored)
}

// Update replaces the risk identified by the path with the JSON body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var item Risk
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalid, err))
		return
	}

	updated, err := h.sys.Update(r.Context(), r.PathValue("id"), item)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, updated)
}

// Delete removes a risk by its ID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Top returns the highest-ranked risks. Query parameters: metric (cost|time), limit.
func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	rank, err := ParseRank(r.URL.Query().Get("metric"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	limit := defaultTopLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: limit %q", ErrInvalid, v))
			return
		}
		limit = n
	}

	items, err := h.sys.Top(r.Context(), rank, limit)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Summary returns per-level counts and risk index totals.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.sys.Summary(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}

// Export streams the filtered ledger as CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	filters, err := FiltersFromQuery(r.URL.Query())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	items, err := h.sys.All(r.Context(), filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="risks.csv"`)
	if err := WriteCSV(w, items); err != nil {
		h.logger.Error("csv export failed", "error", err)
	}
}
