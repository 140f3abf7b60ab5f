// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/JaimeStill/riskline/internal/config"
	"github.com/JaimeStill/riskline/internal/infrastructure"
	"github.com/JaimeStill/riskline/pkg/middleware"
	"github.com/JaimeStill/riskline/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// Token verification is added only when an auth issuer is configured.
func NewModule(ctx context.Context, cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(limitBody(cfg.API.MaxBodySizeBytes()))

	if cfg.API.Auth.Enabled() {
		verifier, err := middleware.NewVerifier(ctx, &cfg.API.Auth)
		if err != nil {
			return nil, fmt.Errorf("auth verifier: %w", err)
		}
		m.Use(middleware.Auth(verifier, cfg.API.Auth.SkipPaths, runtime.Logger))
	}

	return m, nil
}

func limitBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
