// Package mitigation composes mitigation plans for risks.
package mitigation

import (
	"context"
	"log/slog"
	"strings"

	"github.com/JaimeStill/riskline/internal/generation"
	"github.com/JaimeStill/riskline/internal/prompts"
	"github.com/JaimeStill/riskline/internal/risks"
)

const component = "mitigation"

// Request carries the risk context a plan is composed for.
type Request struct {
	Title       string
	Description string
	Level       risks.Level
	Subject     string
	Probability float64
	CostImpact  int64
	TimeImpact  int64
}

// RequestFor builds the composition request of r.
func RequestFor(r risks.Risk) Request {
	return Request{
		Title:       r.Title,
		Description: r.Description,
		Level:       r.Level,
		Subject:     r.Subject,
		Probability: r.Probability,
		CostImpact:  r.CostImpact,
		TimeImpact:  r.TimeImpact,
	}
}

// Composer writes mitigation plans, falling back to canned plans.
type Composer struct {
	client generation.Client
	logger *slog.Logger
}

// New creates a Composer. A nil client is logged once and every plan comes
// from the canned catalog.
func New(client generation.Client, logger *slog.Logger) *Composer {
	logger = logger.With("component", component)
	if client == nil {
		logger.Warn("generation service unavailable, using canned mitigation plans")
	}
	return &Composer{client: client, logger: logger}
}

// Compose returns a mitigation plan for req. The result is never empty.
func (c *Composer) Compose(ctx context.Context, req Request) string {
	if c.client == nil {
		generation.RecordFallback(component, generation.ReasonUnavailable)
		return Plan(req.Title, req.Level)
	}

	prompt, err := prompts.Compose(prompts.ComposeInput{
		Title:       req.Title,
		Description: req.Description,
		Level:       string(req.Level),
		Subject:     req.Subject,
		Probability: req.Probability,
		CostImpact:  req.CostImpact,
		TimeImpact:  req.TimeImpact,
	})
	if err != nil {
		c.logger.Warn("build mitigation prompt failed", "title", req.Title, "error", err)
		generation.RecordFallback(component, generation.ReasonCallFailed)
		return Plan(req.Title, req.Level)
	}

	text, err := c.client.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("mitigation call failed, using canned plan", "title", req.Title, "error", err)
		generation.RecordFallback(component, generation.ReasonCallFailed)
		return Plan(req.Title, req.Level)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		generation.RecordFallback(component, generation.ReasonParseMiss)
		return Plan(req.Title, req.Level)
	}
	return text
}
