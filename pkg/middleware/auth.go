package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
)

// AuthConfig enables bearer-token verification against an OIDC issuer.
// Authentication is disabled when Issuer is empty.
type AuthConfig struct {
	Issuer    string   `toml:"issuer"`
	Audience  string   `toml:"audience"`
	SkipPaths []string `toml:"skip_paths"`
}

// AuthEnv maps auth config fields to environment variable names.
type AuthEnv struct {
	Issuer   string
	Audience string
}

// Enabled reports whether an issuer is configured.
func (c *AuthConfig) Enabled() bool {
	return c.Issuer != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AuthConfig) Finalize(env *AuthEnv) error {
	if c.SkipPaths == nil {
		c.SkipPaths = []string{"/healthz", "/readyz", "/metrics"}
	}
	if env != nil {
		if v, ok := lookup(env.Issuer); ok {
			c.Issuer = v
		}
		if v, ok := lookup(env.Audience); ok {
			c.Audience = v
		}
	}
	if c.Enabled() && c.Audience == "" {
		return fmt.Errorf("audience required when issuer is set")
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.Audience != "" {
		c.Audience = overlay.Audience
	}
	if len(overlay.SkipPaths) > 0 {
		c.SkipPaths = overlay.SkipPaths
	}
}

// TokenVerifier verifies a raw bearer token.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*oidc.IDToken, error)
}

// NewVerifier discovers the issuer's keys and returns a verifier that
// checks the configured audience.
func NewVerifier(ctx context.Context, cfg *AuthConfig) (*oidc.IDTokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover issuer %s: %w", cfg.Issuer, err)
	}
	return provider.Verifier(&oidc.Config{ClientID: cfg.Audience}), nil
}

type subjectKey struct{}

// Subject returns the verified token subject stored by Auth.
func Subject(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey{}).(string)
	return s, ok
}

// Auth returns middleware that rejects requests without a valid bearer
// token. Requests whose path is in skip pass through unverified.
func Auth(v TokenVerifier, skip []string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || slices.Contains(skip, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := bearer(r.Header.Get("Authorization"))
			if !ok {
				unauthorized(w, ErrMissingToken)
				return
			}

			token, err := v.Verify(r.Context(), raw)
			if err != nil {
				logger.Warn("token verification failed", "uri", r.URL.RequestURI(), "error", err)
				unauthorized(w, ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey{}, token.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
