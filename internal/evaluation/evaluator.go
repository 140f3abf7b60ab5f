// Package evaluation estimates the probability, cost impact, time impact and
// detectability of a risk through the generation service.
package evaluation

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/JaimeStill/riskline/internal/generation"
	"github.com/JaimeStill/riskline/internal/prompts"
	"github.com/JaimeStill/riskline/internal/risks"
	"github.com/JaimeStill/riskline/pkg/formatting"
)

const component = "evaluation"

// Values kept when a response line is missing or carries no number.
const (
	DefaultProbability = 0.5
	DefaultCostImpact  = 1_000_000
	DefaultTimeImpact  = 8
	DefaultDetection   = 0.6
)

// Bounds of the randomized estimate used when the service cannot answer.
const (
	minProbability = 0.2
	maxProbability = 0.7
	minCost        = 300_000
	maxCost        = 3_000_000
	minWeeks       = 2
	maxWeeks       = 20
	minDetection   = 0.3
	maxDetection   = 0.8
)

// Evaluator produces numeric estimates for risks. It is safe for concurrent use.
type Evaluator struct {
	client generation.Client
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithRand sets the random source of the fallback estimate.
func WithRand(r *rand.Rand) Option {
	return func(e *Evaluator) {
		e.rng = r
	}
}

// New creates an Evaluator. A nil client is logged once and every
// evaluation returns a randomized estimate.
func New(client generation.Client, logger *slog.Logger, opts ...Option) *Evaluator {
	e := &Evaluator{
		client: client,
		logger: logger.With("component", component),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if client == nil {
		e.logger.Warn("generation service unavailable, using randomized estimates")
	}
	return e
}

// Evaluate returns a complete estimate for the described risk. It never fails:
// an unavailable service or failed call yields a randomized in-range estimate,
// and unreadable response lines keep their defaults.
func (e *Evaluator) Evaluate(ctx context.Context, title, description string, level risks.Level, subject string) risks.Evaluation {
	if e.client == nil {
		generation.RecordFallback(component, generation.ReasonUnavailable)
		return e.random()
	}

	prompt, err := prompts.Evaluate(prompts.EvaluateInput{
		Title:       title,
		Description: description,
		Level:       string(level),
		Subject:     subject,
	})
	if err != nil {
		e.logger.Warn("build evaluation prompt failed", "title", title, "error", err)
		generation.RecordFallback(component, generation.ReasonCallFailed)
		return e.random()
	}

	text, err := e.client.Generate(ctx, prompt)
	if err != nil {
		e.logger.Warn("evaluation call failed, using randomized estimate", "title", title, "error", err)
		generation.RecordFallback(component, generation.ReasonCallFailed)
		return e.random()
	}

	return Parse(text)
}

func (e *Evaluator) random() risks.Evaluation {
	e.mu.Lock()
	defer e.mu.Unlock()

	return risks.Evaluation{
		Probability: round2(minProbability + e.rng.Float64()*(maxProbability-minProbability)),
		CostImpact:  minCost + e.rng.Int64N(maxCost-minCost+1),
		TimeImpact:  minWeeks + e.rng.Int64N(maxWeeks-minWeeks+1),
		Detection:   round2(minDetection + e.rng.Float64()*(maxDetection-minDetection)),
	}
}

// Line keywords per field, matched case-insensitively; the first line
// containing any keyword of a field supplies its value.
var (
	probabilityKeys = []string{"probability"}
	costKeys        = []string{"cost impact", "financial impact", "€"}
	timeKeys        = []string{"time impact", "schedule", "weeks"}
	detectionKeys   = []string{"detection"}
)

// Parse reads an evaluation response line by line. Fields without a matching
// line or without a readable number keep their defaults.
func Parse(text string) risks.Evaluation {
	ev := risks.Evaluation{
		Probability: DefaultProbability,
		CostImpact:  DefaultCostImpact,
		TimeImpact:  DefaultTimeImpact,
		Detection:   DefaultDetection,
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	if v, ok := findLine(lines, probabilityKeys); ok {
		if p, found := formatting.ExtractFirstFloat(v); found {
			ev.Probability = clampUnit(p)
		}
	}
	if v, ok := findLine(lines, costKeys); ok {
		if c, found := formatting.ExtractDigits(v); found {
			ev.CostImpact = c
		}
	}
	if v, ok := findLine(lines, timeKeys); ok {
		if w, found := formatting.ExtractFirstInt(v); found {
			ev.TimeImpact = w
		}
	}
	if v, ok := findLine(lines, detectionKeys); ok {
		if d, found := formatting.ExtractFirstFloat(v); found {
			ev.Detection = clampUnit(d)
		}
	}

	return ev
}

// findLine returns the value part of the first line containing any key:
// the text after its first colon, or the whole line when it has none.
func findLine(lines, keys []string) (string, bool) {
	for _, line := range lines {
		if !formatting.ContainsAnyFold(line, keys...) {
			continue
		}
		if v, ok := formatting.ValueAfterColon(line); ok {
			return v, true
		}
		return line, true
	}
	return "", false
}

func clampUnit(v float64) float64 {
	return min(max(v, 0), 1)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
