package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAssess_JSON(t *testing.T) {
	out, err := run(t, "assess", "--diameter", "1000", "--velocity", "25", "--angle", "45", "--site", "new-york", "-o", "json")
	require.NoError(t, err)

	var a models.ImpactAssessment
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, "new-york", a.SiteID)
	assert.Equal(t, models.SeverityCatastrophic, a.SeverityLevel)
	assert.Equal(t, int64(7_560_000), a.Casualties)
	assert.InDelta(t, 11732, a.EnergyMt, 1)
}

func TestAssess_YAML(t *testing.T) {
	out, err := run(t, "assess", "--diameter", "50", "--velocity", "15", "--angle", "20", "--site", "sydney", "--output", "yaml")
	require.NoError(t, err)

	var a models.ImpactAssessment
	require.NoError(t, yaml.Unmarshal([]byte(out), &a))
	assert.Equal(t, "sydney", a.SiteID)
	assert.Equal(t, models.SeverityLow, a.SeverityLevel)
	assert.Equal(t, models.TsunamiRiskHigh, a.TsunamiRisk)
}

func TestAssess_Table(t *testing.T) {
	out, err := run(t, "assess", "--site", "london")
	require.NoError(t, err)
	assert.Contains(t, out, "London")
	assert.Contains(t, out, "Severity")
}

func TestAssess_Errors(t *testing.T) {
	_, err := run(t, "assess", "--site", "atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "known sites")

	_, err = run(t, "assess", "--diameter", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "diameter_m")

	_, err = run(t, "assess", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestSweep_AllSites(t *testing.T) {
	out, err := run(t, "sweep", "--diameter", "200", "-o", "json")
	require.NoError(t, err)

	var results []models.ImpactAssessment
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 7)
	assert.Equal(t, "new-york", results[0].SiteID)
	assert.Equal(t, "sao-paulo", results[6].SiteID)
}

func TestStrategies(t *testing.T) {
	out, err := run(t, "strategies", "--budget", "1500", "--lead-time", "120", "-o", "json")
	require.NoError(t, err)

	var results []models.FeasibilityResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 4)
	assert.Equal(t, models.StrategyNuclear, results[0].Strategy.ID)
	assert.True(t, results[0].Feasible)
	assert.Equal(t, models.StrategyEvacuation, results[3].Strategy.ID)
	assert.False(t, results[3].Affordable)

	_, err = run(t, "strategies", "--budget", "-5")
	assert.Error(t, err)
}

func TestStrategies_Table(t *testing.T) {
	out, err := run(t, "strategies")
	require.NoError(t, err)
	assert.Contains(t, out, "Nuclear Detonation")
	assert.Contains(t, out, "$500M-$2B")
}

func TestCompare(t *testing.T) {
	out, err := run(t, "compare", "evacuation", "-o", "json")
	require.NoError(t, err)

	var c models.MitigationComparison
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, int64(2_400_000), c.CasualtiesBefore)
	assert.Equal(t, int64(240_000), c.CasualtiesAfter)

	_, err = run(t, "compare", "wishful-thinking")
	assert.Error(t, err)

	_, err = run(t, "compare")
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	out, err := run(t, "project", "--lead-time", "0", "-o", "json")
	require.NoError(t, err)

	var p models.OutcomeProjection
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, int64(1_680_000), p.Casualties)
	assert.Equal(t, int64(620), p.EconomicLossBillionUSD)
	assert.Equal(t, int64(78), p.InfrastructureDamagePct)

	out, err = run(t, "project", "--lead-time", "48")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "120000"), "expected casualty floor in %q", out)

	_, err = run(t, "project", "--lead-time", "-2")
	assert.Error(t, err)
}

func TestUSD(t *testing.T) {
	assert.Equal(t, "$500M", usd(500e6))
	assert.Equal(t, "$1.5B", usd(1.5e9))
	assert.Equal(t, "$200B", usd(200e9))
	assert.Equal(t, "$900", usd(900))
}
