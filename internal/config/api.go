package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/riskline/pkg/formatting"
	"github.com/JaimeStill/riskline/pkg/middleware"
	"github.com/JaimeStill/riskline/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "RISKLINE_CORS_ENABLED",
	Origins:          "RISKLINE_CORS_ORIGINS",
	AllowedMethods:   "RISKLINE_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "RISKLINE_CORS_ALLOWED_HEADERS",
	AllowCredentials: "RISKLINE_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "RISKLINE_CORS_MAX_AGE",
}

var authEnv = &middleware.AuthEnv{
	Issuer:   "RISKLINE_AUTH_ISSUER",
	Audience: "RISKLINE_AUTH_AUDIENCE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "RISKLINE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "RISKLINE_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, request limits, CORS, auth, and pagination settings.
type APIConfig struct {
	BasePath    string                `toml:"base_path"`
	MaxBodySize string                `toml:"max_body_size"`
	CORS        middleware.CORSConfig `toml:"cors"`
	Auth        middleware.AuthConfig `toml:"auth"`
	Pagination  pagination.Config     `toml:"pagination"`
}

// MaxBodySizeBytes returns MaxBodySize in bytes.
func (c *APIConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 1 << 20
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Auth.Merge(&overlay.Auth)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("RISKLINE_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("RISKLINE_API_MAX_BODY_SIZE"); v != "" {
		c.MaxBodySize = v
	}
}
