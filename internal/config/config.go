package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/JaimeStill/riskline/internal/generation"
	"github.com/JaimeStill/riskline/pkg/database"
	"github.com/JaimeStill/riskline/pkg/storage"
	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvRisklineEnv             = "RISKLINE_ENV"
	EnvRisklineShutdownTimeout = "RISKLINE_SHUTDOWN_TIMEOUT"
	EnvRisklineVersion         = "RISKLINE_VERSION"
	EnvRisklineLogLevel        = "RISKLINE_LOG_LEVEL"
)

var databaseEnv = &database.Env{
	Host:            "RISKLINE_DB_HOST",
	Port:            "RISKLINE_DB_PORT",
	Name:            "RISKLINE_DB_NAME",
	User:            "RISKLINE_DB_USER",
	Password:        "RISKLINE_DB_PASSWORD",
	SSLMode:         "RISKLINE_DB_SSL_MODE",
	MaxOpenConns:    "RISKLINE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "RISKLINE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "RISKLINE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "RISKLINE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "RISKLINE_STORAGE_CONTAINER_NAME",
	ConnectionString: "RISKLINE_STORAGE_CONNECTION_STRING",
	AccountURL:       "RISKLINE_STORAGE_ACCOUNT_URL",
	MaxListSize:      "RISKLINE_STORAGE_MAX_LIST_SIZE",
}

var generationEnv = &generation.Env{
	Provider: "RISKLINE_GENERATION_PROVIDER",

	AgentProviderName: "RISKLINE_AGENT_PROVIDER_NAME",
	AgentBaseURL:      "RISKLINE_AGENT_BASE_URL",
	AgentToken:        "RISKLINE_AGENT_TOKEN",
	AgentDeployment:   "RISKLINE_AGENT_DEPLOYMENT",
	AgentAPIVersion:   "RISKLINE_AGENT_API_VERSION",
	AgentAuthType:     "RISKLINE_AGENT_AUTH_TYPE",
	AgentModelName:    "RISKLINE_AGENT_MODEL_NAME",

	OpenAIToken:   "RISKLINE_OPENAI_TOKEN",
	OpenAIModel:   "RISKLINE_OPENAI_MODEL",
	OpenAIBaseURL: "RISKLINE_OPENAI_BASE_URL",
}

// Config is the root configuration for the Riskline service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	Generation      generation.Config `toml:"generation"`
	Assessment      AssessmentConfig  `toml:"assessment"`
	API             APIConfig         `toml:"api"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	LogLevel        string            `toml:"log_level"`
	Version         string            `toml:"version"`
}

// Env returns the RISKLINE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvRisklineEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// SlogLevel returns LogLevel as a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// LoadPipeline reads configuration like Load but finalizes only what an
// offline assessment run needs: logging, generation, assessment, and
// storage when archiving is enabled. Server, database, and API sections
// are left as read.
func LoadPipeline() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.finalizePipeline(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

func read() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := LoadFile(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	return cfg, nil
}

// LoadFile parses a single TOML config file without finalizing it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Generation.Merge(&overlay.Generation)
	c.Assessment.Merge(&overlay.Assessment)
	c.API.Merge(&overlay.API)
}

// Finalize applies defaults, environment overrides, and validation across
// all sub-configs. Storage is only finalized when archiving is enabled.
func (c *Config) Finalize() error {
	if err := c.finalizePipeline(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

func (c *Config) finalizePipeline() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Generation.Finalize(generationEnv); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if err := c.Assessment.Finalize(); err != nil {
		return fmt.Errorf("assessment: %w", err)
	}
	if c.Assessment.ArchiveEnabled() {
		if err := c.Storage.Finalize(storageEnv); err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvRisklineShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvRisklineLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvRisklineVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	return nil
}

func overlayPath() string {
	if env := os.Getenv(EnvRisklineEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
