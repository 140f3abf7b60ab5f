package evaluation_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/riskline/internal/evaluation"
	"github.com/JaimeStill/riskline/internal/generation"
	"github.com/JaimeStill/riskline/internal/risks"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want risks.Evaluation
	}{
		{
			name: "well formed",
			text: "Probability: 0.35\nCost Impact: €1,500,000\nTime Impact: 12 weeks\nDetection: 0.7",
			want: risks.Evaluation{Probability: 0.35, CostImpact: 1_500_000, TimeImpact: 12, Detection: 0.7},
		},
		{
			name: "numbered with ranges in labels",
			text: "1. Risk Probability (0.0-1.0): 0.4\n2. Financial Impact (EUR): 2000000\n3. Schedule delay: 6 weeks\n4. Detection (0-1): 0.25",
			want: risks.Evaluation{Probability: 0.4, CostImpact: 2_000_000, TimeImpact: 6, Detection: 0.25},
		},
		{
			name: "missing lines keep defaults",
			text: "Probability: 0.9",
			want: risks.Evaluation{
				Probability: 0.9,
				CostImpact:  evaluation.DefaultCostImpact,
				TimeImpact:  evaluation.DefaultTimeImpact,
				Detection:   evaluation.DefaultDetection,
			},
		},
		{
			name: "unreadable numbers keep defaults",
			text: "Probability: high\nCost Impact: significant\nTime Impact: a few weeks\nDetection: n/a",
			want: risks.Evaluation{
				Probability: evaluation.DefaultProbability,
				CostImpact:  evaluation.DefaultCostImpact,
				TimeImpact:  evaluation.DefaultTimeImpact,
				Detection:   evaluation.DefaultDetection,
			},
		},
		{
			name: "out of range values clamp",
			text: "probability: 4.5\ndetection: 2",
			want: risks.Evaluation{
				Probability: 1,
				CostImpact:  evaluation.DefaultCostImpact,
				TimeImpact:  evaluation.DefaultTimeImpact,
				Detection:   1,
			},
		},
		{
			name: "empty response",
			text: "",
			want: risks.Evaluation{
				Probability: evaluation.DefaultProbability,
				CostImpact:  evaluation.DefaultCostImpact,
				TimeImpact:  evaluation.DefaultTimeImpact,
				Detection:   evaluation.DefaultDetection,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evaluation.Parse(tt.text))
		})
	}
}

func assertInRange(t *testing.T, ev risks.Evaluation) {
	t.Helper()
	assert.GreaterOrEqual(t, ev.Probability, 0.2)
	assert.LessOrEqual(t, ev.Probability, 0.7)
	assert.GreaterOrEqual(t, ev.CostImpact, int64(300_000))
	assert.LessOrEqual(t, ev.CostImpact, int64(3_000_000))
	assert.GreaterOrEqual(t, ev.TimeImpact, int64(2))
	assert.LessOrEqual(t, ev.TimeImpact, int64(20))
	assert.GreaterOrEqual(t, ev.Detection, 0.3)
	assert.LessOrEqual(t, ev.Detection, 0.8)
	assert.InDelta(t, ev.Probability, float64(int(ev.Probability*100+0.5))/100, 1e-9)
}

func TestEvaluateFailingClientIsInRange(t *testing.T) {
	failing := generation.Func(func(context.Context, string) (string, error) {
		return "", errors.New("connection refused")
	})
	e := evaluation.New(failing, discard(), evaluation.WithRand(rand.New(rand.NewPCG(1, 2))))

	for range 200 {
		assertInRange(t, e.Evaluate(context.Background(), "Supplier insolvency", "", risks.LevelProject, "Model X"))
	}
}

func TestEvaluateWithoutClientIsInRange(t *testing.T) {
	e := evaluation.New(nil, discard())
	for range 50 {
		assertInRange(t, e.Evaluate(context.Background(), "x", "y", risks.LevelStrategic, "z"))
	}
}

func TestEvaluateRandIsDeterministicPerSeed(t *testing.T) {
	a := evaluation.New(nil, discard(), evaluation.WithRand(rand.New(rand.NewPCG(7, 7))))
	b := evaluation.New(nil, discard(), evaluation.WithRand(rand.New(rand.NewPCG(7, 7))))

	for range 5 {
		assert.Equal(t,
			a.Evaluate(context.Background(), "t", "d", risks.LevelProject, "s"),
			b.Evaluate(context.Background(), "t", "d", risks.LevelProject, "s"),
		)
	}
}

func TestEvaluateParsesResponse(t *testing.T) {
	var prompt string
	client := generation.Func(func(_ context.Context, p string) (string, error) {
		prompt = p
		return "Probability: 0.3\nCost Impact: 750000\nTime Impact: 5 weeks\nDetection: 0.45", nil
	})

	e := evaluation.New(client, discard())
	got := e.Evaluate(context.Background(), "Die cracking", "Press tooling fatigue", risks.LevelOperational, "Stamping")

	assert.Equal(t, risks.Evaluation{Probability: 0.3, CostImpact: 750_000, TimeImpact: 5, Detection: 0.45}, got)
	require.Contains(t, prompt, "Risk Title: Die cracking")
	assert.Contains(t, prompt, `"Stamping"`)
}
