package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/riskline/internal/risks"
)

const testHierarchy = `{
  "ranges": [
    {
      "name": "Compact SUV",
      "projects": [
        {"name": "Hybrid Drivetrain", "components": [{"name": "Battery Pack"}]}
      ]
    }
  ]
}`

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	t.Setenv("RISKLINE_GENERATION_PROVIDER", "none")
	t.Setenv("RISKLINE_LOG_LEVEL", "error")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hierarchy.json"), []byte(testHierarchy), 0o644))
	return dir
}

func TestGenerateWritesLedger(t *testing.T) {
	dir := setup(t)
	ledger := filepath.Join(dir, "risks.json")

	run(t, "generate", "--ledger", ledger, "--hierarchy", "hierarchy.json", "--replace")

	l, err := risks.LoadLedger(ledger)
	require.NoError(t, err)
	require.Positive(t, l.Len())

	levels := map[risks.Level]bool{}
	for _, r := range l.All() {
		levels[r.Level] = true
		assert.NotEmpty(t, r.MitigationPlan, r.ID)
	}
	assert.Len(t, levels, 3)

	first, ok := l.Find("R1")
	require.True(t, ok)
	assert.Equal(t, risks.LevelStrategic, first.Level)
}

func TestTopListsRankedRisks(t *testing.T) {
	dir := setup(t)
	ledger := filepath.Join(dir, "risks.json")
	run(t, "generate", "--ledger", ledger, "--hierarchy", "hierarchy.json", "--replace")

	out := run(t, "top", "--ledger", ledger, "--metric", "time", "--limit", "2")

	var items []risks.Risk
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.GreaterOrEqual(t, items[0].RITime, items[1].RITime)
}

func TestCommandFiltersByPhrase(t *testing.T) {
	dir := setup(t)
	ledger := filepath.Join(dir, "risks.json")
	run(t, "generate", "--ledger", ledger, "--hierarchy", "hierarchy.json", "--replace")

	out := run(t, "command", "--ledger", ledger, "filter", "by", "operational", "level")

	var result struct {
		Data []risks.Risk `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotEmpty(t, result.Data)
	for _, r := range result.Data {
		assert.Equal(t, risks.LevelOperational, r.Level)
	}
}
