// Package extraction turns a hierarchy subject into candidate risks using the
// generation service, falling back to a fixed catalog per level.
package extraction

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/riskline/internal/generation"
	"github.com/JaimeStill/riskline/internal/prompts"
	"github.com/JaimeStill/riskline/internal/risks"
)

const component = "extraction"

// Extractor produces candidate risks for one subject at a time.
// A nil client marks the generation service unavailable.
type Extractor struct {
	client generation.Client
	logger *slog.Logger
}

// New creates an Extractor. A nil client is logged once and every
// extraction uses the catalog.
func New(client generation.Client, logger *slog.Logger) *Extractor {
	logger = logger.With("component", component)
	if client == nil {
		logger.Warn("generation service unavailable, using risk catalog")
	}
	return &Extractor{client: client, logger: logger}
}

// Extract returns the risks identified for subject at level. parent names
// the enclosing project for component extraction and only shapes the
// request. The result is never empty and Extract never fails: any service
// or parse failure yields the catalog for level.
func (e *Extractor) Extract(ctx context.Context, level risks.Level, subject, parent string) []risks.Risk {
	if e.client == nil {
		generation.RecordFallback(component, generation.ReasonUnavailable)
		return Catalog(level, subject)
	}

	prompt, err := prompts.Extract(prompts.ExtractInput{
		Level:   string(level),
		Subject: subject,
		Parent:  parent,
	})
	if err != nil {
		e.logger.Warn("build extraction prompt failed", "subject", subject, "error", err)
		generation.RecordFallback(component, generation.ReasonCallFailed)
		return Catalog(level, subject)
	}

	text, err := e.client.Generate(ctx, prompt)
	if err != nil {
		e.logger.Warn("extraction call failed, using catalog", "level", level, "subject", subject, "error", err)
		generation.RecordFallback(component, generation.ReasonCallFailed)
		return Catalog(level, subject)
	}

	found := Parse(text, level, subject)
	if len(found) == 0 {
		e.logger.Warn("no risks parsed from response, using catalog", "level", level, "subject", subject)
		generation.RecordFallback(component, generation.ReasonParseMiss)
		return Catalog(level, subject)
	}

	e.logger.Debug("risks extracted", "level", level, "subject", subject, "count", len(found))
	return found
}

// Parse reads risks from a generation response: a JSON array of risk objects
// when the response is one, blank-line separated field blocks otherwise.
func Parse(text string, level risks.Level, subject string) []risks.Risk {
	if found := parseJSON(text, level, subject); len(found) > 0 {
		return found
	}
	return parseBlocks(text, level, subject)
}
