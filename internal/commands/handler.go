package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/riskline/pkg/handlers"
	"github.com/JaimeStill/riskline/pkg/routes"
)

// Handler provides the HTTP endpoint for command dispatch.
type Handler struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewHandler creates a Handler for the given dispatcher.
func NewHandler(d *Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		dispatcher: d,
		logger:     logger.With("handler", "commands"),
	}
}

// Routes returns the route group definition for command endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/commands",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Vocabulary},
			{Method: "POST", Pattern: "", Handler: h.Dispatch},
		},
	}
}

// Vocabulary lists the accepted actions and example phrases.
func (h *Handler) Vocabulary(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Vocabulary{Actions: Actions(), Phrases: Phrases()})
}

// Dispatch executes a command given as {"action": ...} or {"phrase": ...}.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
