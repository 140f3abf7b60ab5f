package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/riskline/pkg/handlers"
)

type topRisk struct {
	ID     string  `json:"id"`
	RICost float64 `json:"riCost"`
}

func TestRespondJSONEncodesBody(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, []topRisk{{ID: "R4", RICost: 1_350_000}})

	if rec.Code != http.StatusCreated {
		t.Errorf("status: got %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %s", ct)
	}

	var got []topRisk
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].ID != "R4" || got[0].RICost != 1_350_000 {
		t.Errorf("body: got %+v", got)
	}
}

func TestRespondErrorLogLevel(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		err       error
		wantLevel string
	}{
		{"rejected edit", http.StatusConflict, errors.New("level is immutable"), "level=WARN"},
		{"store failure", http.StatusInternalServerError, errors.New("connection reset"), "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			rec := httptest.NewRecorder()

			handlers.RespondError(rec, logger, tt.status, tt.err)

			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.err.Error() {
				t.Errorf("error: got %q, want %q", body["error"], tt.err.Error())
			}
			if !strings.Contains(logs.String(), tt.wantLevel) {
				t.Errorf("log %q should contain %q", logs.String(), tt.wantLevel)
			}
		})
	}
}
