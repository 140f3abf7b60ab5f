package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/riskline/pkg/routes"
)

func status(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

func TestRegisterGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux,
		routes.Group{
			Prefix: "/risks",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: status(http.StatusOK)},
				{Method: "GET", Pattern: "/{id}", Handler: status(http.StatusOK)},
				{Method: "DELETE", Pattern: "/{id}", Handler: status(http.StatusNoContent)},
			},
		},
		routes.Group{
			Prefix: "/assessments",
			Routes: []routes.Route{
				{Method: "POST", Pattern: "", Handler: status(http.StatusCreated)},
			},
			Children: []routes.Group{
				{
					Prefix: "/snapshots",
					Routes: []routes.Route{
						{Method: "GET", Pattern: "/{batch}", Handler: status(http.StatusOK)},
					},
				},
			},
		},
	)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"list risks", "GET", "/risks", http.StatusOK},
		{"find risk", "GET", "/risks/R1", http.StatusOK},
		{"delete risk", "DELETE", "/risks/R1", http.StatusNoContent},
		{"generate", "POST", "/assessments", http.StatusCreated},
		{"nested snapshot", "GET", "/assessments/snapshots/abc", http.StatusOK},
		{"wrong method", "PUT", "/assessments", http.StatusMethodNotAllowed},
		{"unknown path", "GET", "/commands", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
