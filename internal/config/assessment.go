package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/riskline/internal/workflow"
)

const (
	EnvHierarchyFile     = "RISKLINE_HIERARCHY_FILE"
	EnvAssessmentArchive = "RISKLINE_ASSESSMENT_ARCHIVE"
)

// FeatureConfig toggles one pipeline stage and sets its sampling temperature.
// Nil fields take the stage defaults.
type FeatureConfig struct {
	Enabled     *bool    `toml:"enabled" json:"enabled"`
	Temperature *float64 `toml:"temperature" json:"temperature"`
}

// FeatureEnv maps feature fields to environment variable names.
type FeatureEnv struct {
	Enabled     string
	Temperature string
}

// IsEnabled reports whether the stage runs.
func (c *FeatureConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

func (c *FeatureConfig) finalize(defaultTemp float64, env FeatureEnv) error {
	if c.Enabled == nil {
		enabled := true
		c.Enabled = &enabled
	}
	if c.Temperature == nil {
		c.Temperature = &defaultTemp
	}

	if v := os.Getenv(env.Enabled); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env.Enabled, err)
		}
		c.Enabled = &b
	}
	if v := os.Getenv(env.Temperature); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env.Temperature, err)
		}
		c.Temperature = &f
	}

	if *c.Temperature < 0 || *c.Temperature > 1 {
		return fmt.Errorf("temperature must be within [0,1], got %v", *c.Temperature)
	}
	return nil
}

func (c *FeatureConfig) merge(overlay *FeatureConfig) {
	if overlay.Enabled != nil {
		c.Enabled = overlay.Enabled
	}
	if overlay.Temperature != nil {
		c.Temperature = overlay.Temperature
	}
}

// AssessmentConfig holds the pipeline feature toggles, the default
// hierarchy file, and whether batches are archived to blob storage.
type AssessmentConfig struct {
	Extraction    FeatureConfig `toml:"extraction" json:"extraction"`
	Evaluation    FeatureConfig `toml:"evaluation" json:"evaluation"`
	Mitigation    FeatureConfig `toml:"mitigation" json:"mitigation"`
	HierarchyFile string        `toml:"hierarchy_file" json:"hierarchy_file"`
	Archive       *bool         `toml:"archive" json:"archive"`
}

var (
	extractionEnv = FeatureEnv{Enabled: "RISKLINE_EXTRACTION_ENABLED", Temperature: "RISKLINE_EXTRACTION_TEMPERATURE"}
	evaluationEnv = FeatureEnv{Enabled: "RISKLINE_EVALUATION_ENABLED", Temperature: "RISKLINE_EVALUATION_TEMPERATURE"}
	mitigationEnv = FeatureEnv{Enabled: "RISKLINE_MITIGATION_ENABLED", Temperature: "RISKLINE_MITIGATION_TEMPERATURE"}
)

// Default stage temperatures.
const (
	DefaultExtractionTemperature = 0.7
	DefaultEvaluationTemperature = 0.3
	DefaultMitigationTemperature = 0.6
)

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AssessmentConfig) Finalize() error {
	if err := c.Extraction.finalize(DefaultExtractionTemperature, extractionEnv); err != nil {
		return fmt.Errorf("extraction: %w", err)
	}
	if err := c.Evaluation.finalize(DefaultEvaluationTemperature, evaluationEnv); err != nil {
		return fmt.Errorf("evaluation: %w", err)
	}
	if err := c.Mitigation.finalize(DefaultMitigationTemperature, mitigationEnv); err != nil {
		return fmt.Errorf("mitigation: %w", err)
	}

	if c.Archive == nil {
		archive := false
		c.Archive = &archive
	}
	if v := os.Getenv(EnvHierarchyFile); v != "" {
		c.HierarchyFile = v
	}
	if v := os.Getenv(EnvAssessmentArchive); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvAssessmentArchive, err)
		}
		c.Archive = &b
	}
	return nil
}

// Merge overwrites non-nil and non-empty fields from overlay.
func (c *AssessmentConfig) Merge(overlay *AssessmentConfig) {
	c.Extraction.merge(&overlay.Extraction)
	c.Evaluation.merge(&overlay.Evaluation)
	c.Mitigation.merge(&overlay.Mitigation)
	if overlay.HierarchyFile != "" {
		c.HierarchyFile = overlay.HierarchyFile
	}
	if overlay.Archive != nil {
		c.Archive = overlay.Archive
	}
}

// ArchiveEnabled reports whether batches are archived to blob storage.
func (c *AssessmentConfig) ArchiveEnabled() bool {
	return c.Archive != nil && *c.Archive
}

// Features returns the stage toggles for the workflow runtime.
func (c *AssessmentConfig) Features() workflow.Features {
	return workflow.Features{
		Extraction: c.Extraction.IsEnabled(),
		Evaluation: c.Evaluation.IsEnabled(),
		Mitigation: c.Mitigation.IsEnabled(),
	}
}
