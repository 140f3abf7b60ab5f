package workflow_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/riskline/internal/evaluation"
	"github.com/JaimeStill/riskline/internal/extraction"
	"github.com/JaimeStill/riskline/internal/generation"
	"github.com/JaimeStill/riskline/internal/hierarchy"
	"github.com/JaimeStill/riskline/internal/mitigation"
	"github.com/JaimeStill/riskline/internal/risks"
	"github.com/JaimeStill/riskline/internal/workflow"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type call struct {
	level   risks.Level
	subject string
	parent  string
}

type fakeExtractor struct {
	calls []call
}

// Extract returns one pending risk per call, without mitigation plan.
func (f *fakeExtractor) Extract(_ context.Context, level risks.Level, subject, parent string) []risks.Risk {
	f.calls = append(f.calls, call{level, subject, parent})
	return []risks.Risk{{
		ID:      "R1",
		Level:   level,
		Subject: subject,
		Title:   fmt.Sprintf("Risk for %s", subject),
		Pending: risks.MetricsAll,
	}}
}

type fakeEvaluator struct {
	calls int
}

func (f *fakeEvaluator) Evaluate(context.Context, string, string, risks.Level, string) risks.Evaluation {
	f.calls++
	return risks.Evaluation{Probability: 0.5, CostImpact: 200_000, TimeImpact: 10, Detection: 0.4}
}

type fakeComposer struct {
	calls int
}

func (f *fakeComposer) Compose(_ context.Context, req mitigation.Request) string {
	f.calls++
	return "plan for " + req.Title
}

type fakes struct {
	extractor *fakeExtractor
	evaluator *fakeEvaluator
	composer  *fakeComposer
}

func newRuntime(features workflow.Features) (*workflow.Runtime, fakes) {
	f := fakes{&fakeExtractor{}, &fakeEvaluator{}, &fakeComposer{}}
	return &workflow.Runtime{
		Extractor: f.extractor,
		Evaluator: f.evaluator,
		Composer:  f.composer,
		Features:  features,
		Logger:    discard(),
	}, f
}

func sample() hierarchy.Hierarchy {
	return hierarchy.Hierarchy{Ranges: []hierarchy.Range{{
		Name: "Premium SUV",
		Projects: []hierarchy.Project{{
			Name:       "Model X",
			Components: []hierarchy.Component{{Name: "Brake System"}, {}},
		}},
	}}}
}

func TestExecuteEmptyHierarchy(t *testing.T) {
	rt, f := newRuntime(workflow.AllFeatures())

	result, err := workflow.Execute(context.Background(), rt, hierarchy.Hierarchy{})
	require.NoError(t, err)

	assert.NotNil(t, result.Risks)
	assert.Empty(t, result.Risks)
	assert.Empty(t, f.extractor.calls)
	assert.Zero(t, f.evaluator.calls)
	assert.Zero(t, f.composer.calls)
}

func TestExecuteTraversalOrder(t *testing.T) {
	rt, f := newRuntime(workflow.AllFeatures())

	result, err := workflow.Execute(context.Background(), rt, sample())
	require.NoError(t, err)

	assert.Equal(t, []call{
		{risks.LevelStrategic, "Premium SUV", ""},
		{risks.LevelProject, "Model X", ""},
		{risks.LevelOperational, "Brake System", "Model X"},
		{risks.LevelOperational, hierarchy.UnknownComponent, "Model X"},
	}, f.extractor.calls)

	require.Len(t, result.Risks, 4)
	for i, r := range result.Risks {
		assert.Equal(t, fmt.Sprintf("R%d", i+1), r.ID)
		assert.True(t, r.Complete())
		assert.Equal(t, "plan for "+r.Title, r.MitigationPlan)
		assert.InDelta(t, r.Probability*float64(r.CostImpact), r.RICost, 1e-9)
		assert.InDelta(t, r.Probability*float64(r.TimeImpact), r.RITime, 1e-9)
		assert.Equal(t, r.Title, r.Description)
	}
	assert.Equal(t, 4, f.evaluator.calls)
	assert.Equal(t, 4, f.composer.calls)
	assert.False(t, result.CompletedAt.IsZero())
}

func TestExecuteFeatureToggles(t *testing.T) {
	t.Run("extraction disabled", func(t *testing.T) {
		rt, f := newRuntime(workflow.Features{Evaluation: true, Mitigation: true})

		result, err := workflow.Execute(context.Background(), rt, sample())
		require.NoError(t, err)

		assert.Empty(t, result.Risks)
		assert.Empty(t, f.extractor.calls)
	})

	t.Run("evaluation disabled", func(t *testing.T) {
		rt, f := newRuntime(workflow.Features{Extraction: true, Mitigation: true})

		result, err := workflow.Execute(context.Background(), rt, sample())
		require.NoError(t, err)

		assert.Zero(t, f.evaluator.calls)
		assert.Equal(t, 4, f.composer.calls)
		for _, r := range result.Risks {
			assert.False(t, r.Complete())
		}
	})

	t.Run("mitigation disabled", func(t *testing.T) {
		rt, f := newRuntime(workflow.Features{Extraction: true, Evaluation: true})

		result, err := workflow.Execute(context.Background(), rt, sample())
		require.NoError(t, err)

		assert.Equal(t, 4, f.evaluator.calls)
		assert.Zero(t, f.composer.calls)
		for _, r := range result.Risks {
			assert.Empty(t, r.MitigationPlan)
		}
	})
}

func TestExecuteRangeWithoutProjects(t *testing.T) {
	rt := &workflow.Runtime{
		Extractor: extraction.New(nil, discard()),
		Evaluator: evaluation.New(nil, discard()),
		Composer:  mitigation.New(nil, discard()),
		Features:  workflow.AllFeatures(),
		Logger:    discard(),
	}

	h := hierarchy.Hierarchy{Ranges: []hierarchy.Range{{Name: "Compact EV"}}}

	result, err := workflow.Execute(context.Background(), rt, h)
	require.NoError(t, err)

	require.NotEmpty(t, result.Risks)
	for _, r := range result.Risks {
		assert.Equal(t, risks.LevelStrategic, r.Level)
		assert.Equal(t, "Compact EV", r.Subject)
		assert.NotEmpty(t, r.MitigationPlan)
	}
}

func TestExecuteFailingClient(t *testing.T) {
	failing := generation.Func(func(context.Context, string) (string, error) {
		return "", errors.New("connection refused")
	})

	rt := &workflow.Runtime{
		Extractor: extraction.New(failing, discard()),
		Evaluator: evaluation.New(failing, discard(), evaluation.WithRand(rand.New(rand.NewPCG(1, 2)))),
		Composer:  mitigation.New(failing, discard()),
		Features:  workflow.AllFeatures(),
		Logger:    discard(),
	}

	result, err := workflow.Execute(context.Background(), rt, sample())
	require.NoError(t, err)

	require.Len(t, result.Risks, 12)
	for _, r := range result.Risks {
		assert.GreaterOrEqual(t, r.Probability, 0.0)
		assert.LessOrEqual(t, r.Probability, 1.0)
		assert.GreaterOrEqual(t, r.Detection, 0.0)
		assert.LessOrEqual(t, r.Detection, 1.0)
		assert.NotEmpty(t, r.MitigationPlan)
	}
}

type mixedExtractor struct{}

// Extract returns one complete risk with a plan and one risk missing its
// cost and time estimates.
func (mixedExtractor) Extract(_ context.Context, level risks.Level, subject, _ string) []risks.Risk {
	complete := risks.Risk{
		ID: "R1", Level: level, Subject: subject, Title: "Tooling capacity",
		Probability: 0.9, CostImpact: 400_000, TimeImpact: 6, Detection: 0.7,
		MitigationPlan: "keep",
	}
	partial := risks.Risk{
		ID: "R2", Level: level, Subject: subject, Title: "Battery cell supply",
		Probability: 0.8, Pending: risks.MetricCost | risks.MetricTime,
	}
	return []risks.Risk{complete, partial}
}

type recordingEvaluator struct {
	titles []string
}

func (e *recordingEvaluator) Evaluate(_ context.Context, title, _ string, _ risks.Level, _ string) risks.Evaluation {
	e.titles = append(e.titles, title)
	return risks.Evaluation{Probability: 0.5, CostImpact: 200_000, TimeImpact: 10, Detection: 0.4}
}

func TestExecuteLeavesCompleteRisksUntouched(t *testing.T) {
	evaluator := &recordingEvaluator{}
	composer := &fakeComposer{}
	rt := &workflow.Runtime{
		Extractor: mixedExtractor{},
		Evaluator: evaluator,
		Composer:  composer,
		Features:  workflow.AllFeatures(),
		Logger:    discard(),
	}

	h := hierarchy.Hierarchy{Ranges: []hierarchy.Range{{Name: "Compact EV"}}}
	result, err := workflow.Execute(context.Background(), rt, h)
	require.NoError(t, err)
	require.Len(t, result.Risks, 2)

	assert.Equal(t, []string{"Battery cell supply"}, evaluator.titles)
	assert.Equal(t, 1, composer.calls)

	complete := result.Risks[0]
	assert.Equal(t, "Tooling capacity", complete.Title)
	assert.Equal(t, 0.9, complete.Probability)
	assert.Equal(t, int64(400_000), complete.CostImpact)
	assert.Equal(t, "keep", complete.MitigationPlan)
	assert.InDelta(t, 360_000, complete.RICost, 1e-6)

	partial := result.Risks[1]
	assert.Equal(t, 0.5, partial.Probability)
	assert.Equal(t, int64(200_000), partial.CostImpact)
	assert.Equal(t, int64(10), partial.TimeImpact)
	assert.Equal(t, "plan for Battery cell supply", partial.MitigationPlan)
	assert.True(t, partial.Complete())
}

func TestExecuteRepeatedRunsRenumber(t *testing.T) {
	rt, _ := newRuntime(workflow.AllFeatures())

	first, err := workflow.Execute(context.Background(), rt, sample())
	require.NoError(t, err)

	second, err := workflow.Execute(context.Background(), rt, sample())
	require.NoError(t, err)

	require.Len(t, second.Risks, len(first.Risks))
	for i := range first.Risks {
		assert.Equal(t, first.Risks[i].ID, second.Risks[i].ID)
	}
	assert.NotEqual(t, first.BatchID, second.BatchID)
}

func TestReevaluate(t *testing.T) {
	r := risks.Risk{ID: "R7", Level: risks.LevelProject, Subject: "Model X", Title: "Supplier delay"}
	r.ApplyEvaluation(risks.Evaluation{Probability: 0.1, CostImpact: 10, TimeImpact: 1, Detection: 0.1})

	rt, f := newRuntime(workflow.AllFeatures())
	got := workflow.Reevaluate(context.Background(), rt, r)

	assert.Equal(t, 1, f.evaluator.calls)
	assert.Equal(t, 0.5, got.Probability)
	assert.Equal(t, int64(200_000), got.CostImpact)
	assert.InDelta(t, 100_000.0, got.RICost, 1e-9)
	assert.InDelta(t, 5.0, got.RITime, 1e-9)
	assert.Equal(t, "R7", got.ID)

	rt, f = newRuntime(workflow.Features{Extraction: true, Mitigation: true})
	got = workflow.Reevaluate(context.Background(), rt, r)

	assert.Zero(t, f.evaluator.calls)
	assert.Equal(t, r, got)
}

func TestRecompose(t *testing.T) {
	r := risks.Risk{ID: "R2", Level: risks.LevelStrategic, Title: "Market shift", MitigationPlan: "old plan"}

	rt, f := newRuntime(workflow.AllFeatures())
	got := workflow.Recompose(context.Background(), rt, r)

	assert.Equal(t, 1, f.composer.calls)
	assert.Equal(t, "plan for Market shift", got.MitigationPlan)

	rt, f = newRuntime(workflow.Features{Extraction: true, Evaluation: true})
	got = workflow.Recompose(context.Background(), rt, r)

	assert.Zero(t, f.composer.calls)
	assert.Equal(t, "old plan", got.MitigationPlan)
}
