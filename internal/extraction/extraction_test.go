package extraction_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/riskline/internal/extraction"
	"github.com/JaimeStill/riskline/internal/generation"
	"github.com/JaimeStill/riskline/internal/risks"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func reply(text string, err error) generation.Client {
	return generation.Func(func(context.Context, string) (string, error) {
		return text, err
	})
}

const twoRisks = `Here are the most critical risks:

Risk 1: Battery Cell Shortage

Description: Single-source cells for the pack.

Probability: 0.4

Cost Impact: €2,500,000

Time Impact: 6 weeks

Detection: 0.3

Mitigation: Dual source.

Risk 2: Homologation Delay

Description: New UNECE rules.

Probability: 0.7`

func TestParseFlushesOnProbability(t *testing.T) {
	got := extraction.Parse(twoRisks, risks.LevelProject, "EV Platform")
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "R1", first.ID)
	assert.Equal(t, risks.LevelProject, first.Level)
	assert.Equal(t, "EV Platform", first.Subject)
	assert.Equal(t, "Battery Cell Shortage", first.Title)
	assert.Equal(t, "Single-source cells for the pack.", first.Description)
	assert.Equal(t, 0.4, first.Probability)
	assert.Empty(t, first.Owner)

	assert.False(t, first.Pending.Has(risks.MetricProbability))
	assert.True(t, first.Pending.Has(risks.MetricCost|risks.MetricTime|risks.MetricDetection))
	assert.Equal(t, int64(0), first.CostImpact)
	assert.Empty(t, first.MitigationPlan)

	assert.Equal(t, "R2", got[1].ID)
	assert.Equal(t, "Homologation Delay", got[1].Title)
	assert.Equal(t, 0.7, got[1].Probability)
}

func TestParseFieldsBeforeProbability(t *testing.T) {
	text := "Risk: Tooling Delay\n\nCost Impact: 1.2 million euros\n\nTime Impact: about 4-6 weeks\n\nDetection: hard\n\nProbability: high 0.65"

	got := extraction.Parse(text, risks.LevelOperational, "Body Shop")
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, int64(12), r.CostImpact)
	assert.Equal(t, int64(extraction.DefaultTimeImpact), r.TimeImpact)
	assert.Equal(t, extraction.DefaultDetection, r.Detection)
	assert.Equal(t, 0.65, r.Probability)
	assert.True(t, r.Complete())
	assert.InDelta(t, 0.65*12, r.RICost, 1e-9)
	assert.InDelta(t, 0.65*4, r.RITime, 1e-9)
}

func TestParseTrailingPartialGetsDefaults(t *testing.T) {
	text := "Risk 1: Paint Shop Outage\n\nDescription: Oven failure.\n\nTime Impact: 3 weeks"

	got := extraction.Parse(text, risks.LevelOperational, "Paint Shop")
	require.Len(t, got, 1)

	r := got[0]
	assert.True(t, r.Complete())
	assert.Equal(t, extraction.DefaultProbability, r.Probability)
	assert.Equal(t, int64(extraction.DefaultCostImpact), r.CostImpact)
	assert.Equal(t, int64(3), r.TimeImpact)
	assert.Equal(t, extraction.DefaultDetection, r.Detection)
	assert.Equal(t, extraction.DefaultMitigation, r.MitigationPlan)
	assert.Equal(t, "Oven failure.", r.Description)
	assert.InDelta(t, 50_000, r.RICost, 1e-9)
	assert.InDelta(t, 1.5, r.RITime, 1e-9)
}

func TestParsePartialWithoutDescriptionUsesTitle(t *testing.T) {
	got := extraction.Parse("Risk 1: Stamping Die Wear", risks.LevelOperational, "Press Line")
	require.Len(t, got, 1)
	assert.Equal(t, "Stamping Die Wear", got[0].Description)
}

func TestParseOpeningBlockIsScanned(t *testing.T) {
	got := extraction.Parse("Risk 1: Probability of recall 0.3", risks.LevelProject, "Model X")
	require.Len(t, got, 1)
	assert.Equal(t, 0.3, got[0].Probability)
}

func TestParseClampsProbability(t *testing.T) {
	got := extraction.Parse("Risk 1: Warranty Claims\n\nProbability: 1.5", risks.LevelProject, "Model X")
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].Probability)
}

func TestParseUnreadableProbabilityDefaults(t *testing.T) {
	got := extraction.Parse("Risk 1: Warranty Claims\n\nProbability: medium", risks.LevelProject, "Model X")
	require.Len(t, got, 1)
	assert.Equal(t, extraction.DefaultProbability, got[0].Probability)
}

func TestParseMarkerIsCaseSensitive(t *testing.T) {
	got := extraction.Parse("risk 1: lowercase marker\n\nProbability: 0.4", risks.LevelProject, "Model X")
	assert.Empty(t, got)
}

func TestParseJSONArray(t *testing.T) {
	text := "```json\n[{\"title\":\"Cell shortage\",\"probability\":0.4,\"cost_impact\":2000000},{\"description\":\"untitled\"}]\n```"

	got := extraction.Parse(text, risks.LevelProject, "EV Platform")
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, "R1", r.ID)
	assert.Equal(t, "Cell shortage", r.Description)
	assert.Equal(t, int64(2_000_000), r.CostImpact)
	assert.Equal(t, int64(extraction.DefaultTimeImpact), r.TimeImpact)
	assert.True(t, r.Pending.Has(risks.MetricTime|risks.MetricDetection))
	assert.False(t, r.Pending.Has(risks.MetricCost))
	assert.InDelta(t, 800_000, r.RICost, 1e-6)
}

func TestCatalog(t *testing.T) {
	tests := []struct {
		level  risks.Level
		titles []string
	}{
		{risks.LevelStrategic, []string{"Market Demand Shift", "Regulatory Compliance Failure", "Competitive Technology Disruption"}},
		{risks.LevelProject, []string{"Supply Chain Disruption", "Quality Control Issues", "Resource Allocation Conflicts"}},
		{risks.LevelOperational, []string{"Manufacturing Process Variation", "Test Equipment Failure", "Software Integration Issues"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			got := extraction.Catalog(tt.level, "Brake System")
			require.Len(t, got, 3)
			for i, r := range got {
				assert.Equal(t, tt.titles[i], r.Title)
				assert.Equal(t, tt.level, r.Level)
				assert.Equal(t, "Brake System", r.Subject)
				assert.Contains(t, r.Description, "Brake System")
				assert.NotEmpty(t, r.MitigationPlan)
				assert.Empty(t, r.Owner)
				assert.True(t, r.Complete())
				assert.InDelta(t, r.Probability*float64(r.CostImpact), r.RICost, 1e-6)
			}
			assert.Equal(t, []string{"R1", "R2", "R3"}, []string{got[0].ID, got[1].ID, got[2].ID})
		})
	}
}

func TestCatalogValues(t *testing.T) {
	got := extraction.Catalog(risks.LevelProject, "Model Y")
	assert.Equal(t, 0.45, got[0].Probability)
	assert.Equal(t, int64(2_000_000), got[0].CostImpact)
	assert.Equal(t, int64(8), got[0].TimeImpact)
	assert.Equal(t, 0.6, got[0].Detection)
	assert.InDelta(t, 900_000, got[0].RICost, 1e-6)
	assert.Equal(t, "Critical component shortage affecting Model Y production timeline.", got[0].Description)
}

func TestExtractWithoutClientUsesCatalog(t *testing.T) {
	e := extraction.New(nil, discard())
	got := e.Extract(context.Background(), risks.LevelStrategic, "Premium SUV", "")
	require.Len(t, got, 3)
	assert.Equal(t, "Market Demand Shift", got[0].Title)
}

func TestExtractCallFailureUsesCatalog(t *testing.T) {
	e := extraction.New(reply("", errors.New("timeout")), discard())
	got := e.Extract(context.Background(), risks.LevelOperational, "Brake System", "Model X")
	require.Len(t, got, 3)
	assert.Equal(t, "Manufacturing Process Variation", got[0].Title)
	assert.Equal(t, "Brake System", got[0].Subject)
}

func TestExtractUnparseableUsesCatalog(t *testing.T) {
	e := extraction.New(reply("I cannot help with that.", nil), discard())
	got := e.Extract(context.Background(), risks.LevelProject, "Model Y", "")
	require.Len(t, got, 3)
	assert.Equal(t, "Supply Chain Disruption", got[0].Title)
}

func TestExtractParsesResponse(t *testing.T) {
	var prompt string
	client := generation.Func(func(_ context.Context, p string) (string, error) {
		prompt = p
		return twoRisks, nil
	})

	e := extraction.New(client, discard())
	got := e.Extract(context.Background(), risks.LevelOperational, "Brake System", "Model X")

	require.Len(t, got, 2)
	assert.Equal(t, "Brake System", got[0].Subject)
	assert.Equal(t, risks.LevelOperational, got[0].Level)
	assert.True(t, strings.Contains(prompt, "Model X Brake System project component"), prompt)
}
