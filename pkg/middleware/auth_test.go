package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/JaimeStill/riskline/pkg/middleware"
)

type staticVerifier struct {
	token string
}

func (v staticVerifier) Verify(_ context.Context, raw string) (*oidc.IDToken, error) {
	if raw != v.token {
		return nil, errors.New("signature mismatch")
	}
	return &oidc.IDToken{Subject: "analyst-7"}, nil
}

func authHandler(v middleware.TokenVerifier) (http.Handler, *string) {
	var subject string
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, _ = middleware.Subject(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return middleware.Auth(v, []string{"/healthz"}, logger)(next), &subject
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{name: "valid token", path: "/api/risks", header: "Bearer good", want: http.StatusOK},
		{name: "lowercase scheme", path: "/api/risks", header: "bearer good", want: http.StatusOK},
		{name: "missing header", path: "/api/risks", want: http.StatusUnauthorized},
		{name: "wrong scheme", path: "/api/risks", header: "Basic good", want: http.StatusUnauthorized},
		{name: "bad token", path: "/api/risks", header: "Bearer bad", want: http.StatusUnauthorized},
		{name: "skipped path", path: "/healthz", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := authHandler(staticVerifier{token: "good"})

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAuthStoresSubject(t *testing.T) {
	handler, subject := authHandler(staticVerifier{token: "good"})

	req := httptest.NewRequest(http.MethodGet, "/api/risks", nil)
	req.Header.Set("Authorization", "Bearer good")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if *subject != "analyst-7" {
		t.Errorf("subject: got %q, want analyst-7", *subject)
	}
}

func TestAuthRejectsUnsignedToken(t *testing.T) {
	verifier := oidc.NewVerifier(
		"https://login.example.com",
		&oidc.StaticKeySet{},
		&oidc.Config{ClientID: "riskline"},
	)
	handler, _ := authHandler(verifier)

	req := httptest.NewRequest(http.MethodGet, "/api/risks", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestAuthConfigFinalize(t *testing.T) {
	t.Setenv("TEST_AUTH_ISSUER", "https://login.example.com")

	cfg := middleware.AuthConfig{}
	err := cfg.Finalize(&middleware.AuthEnv{Issuer: "TEST_AUTH_ISSUER", Audience: "TEST_AUTH_AUDIENCE"})
	if err == nil {
		t.Fatal("expected error when audience is missing")
	}

	t.Setenv("TEST_AUTH_AUDIENCE", "riskline")
	cfg = middleware.AuthConfig{}
	if err := cfg.Finalize(&middleware.AuthEnv{Issuer: "TEST_AUTH_ISSUER", Audience: "TEST_AUTH_AUDIENCE"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if !cfg.Enabled() {
		t.Error("auth should be enabled")
	}
	if len(cfg.SkipPaths) != 3 {
		t.Errorf("skip paths: got %v", cfg.SkipPaths)
	}

	disabled := middleware.AuthConfig{}
	if err := disabled.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	if disabled.Enabled() {
		t.Error("auth should be disabled without issuer")
	}
}
