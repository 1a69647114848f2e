package mitigation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

func mustStrategy(t *testing.T, id models.StrategyID) models.MitigationStrategy {
	t.Helper()
	s, err := DefaultCatalog().Strategy(id)
	require.NoError(t, err)
	return s
}

func TestEvaluate_KineticUnderTightConstraints(t *testing.T) {
	results, err := Evaluate(
		[]models.MitigationStrategy{mustStrategy(t, models.StrategyKinetic)},
		models.MissionConstraints{BudgetM: 100, LeadTimeMonths: 6},
	)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.False(t, results[0].Affordable)
	assert.False(t, results[0].TimeFeasible)
	assert.False(t, results[0].Feasible)
}

func TestEvaluate_MonthsAgainstYearMinimum(t *testing.T) {
	kinetic := mustStrategy(t, models.StrategyKinetic)

	// 24 months is under the 5-year minimum. Comparing months against the
	// raw year figure (24 >= 5) would wrongly accept it.
	results, err := Evaluate([]models.MitigationStrategy{kinetic}, models.MissionConstraints{BudgetM: 5000, LeadTimeMonths: 24})
	require.NoError(t, err)
	assert.True(t, results[0].Affordable)
	assert.False(t, results[0].TimeFeasible)
	assert.False(t, results[0].Feasible)

	results, err = Evaluate([]models.MitigationStrategy{kinetic}, models.MissionConstraints{BudgetM: 5000, LeadTimeMonths: 60})
	require.NoError(t, err)
	assert.True(t, results[0].TimeFeasible)
	assert.True(t, results[0].Feasible)
}

func TestEvaluate_BoundariesAreInclusive(t *testing.T) {
	nuclear := mustStrategy(t, models.StrategyNuclear)

	results, err := Evaluate([]models.MitigationStrategy{nuclear}, models.MissionConstraints{BudgetM: 1000, LeadTimeMonths: 24})
	require.NoError(t, err)
	assert.True(t, results[0].Affordable)
	assert.True(t, results[0].TimeFeasible)
	assert.True(t, results[0].Feasible)
}

func TestEvaluate_DefaultCatalog(t *testing.T) {
	results, err := Evaluate(DefaultCatalog().Strategies(), models.MissionConstraints{BudgetM: 5000, LeadTimeMonths: 24})
	require.NoError(t, err)

	got := make(map[models.StrategyID]models.FeasibilityResult, len(results))
	for _, r := range results {
		got[r.Strategy.ID] = r
	}

	assert.False(t, got[models.StrategyKinetic].Feasible)
	assert.True(t, got[models.StrategyNuclear].Feasible)
	assert.False(t, got[models.StrategyGravity].TimeFeasible)
	assert.True(t, got[models.StrategyGravity].Affordable)
	assert.False(t, got[models.StrategyEvacuation].Affordable)
	assert.True(t, got[models.StrategyEvacuation].TimeFeasible)
}

func TestEvaluate_RejectsNegativeConstraints(t *testing.T) {
	_, err := Evaluate(DefaultCatalog().Strategies(), models.MissionConstraints{BudgetM: -1, LeadTimeMonths: 12})
	var invalid *InvalidConstraintError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "budget_m", invalid.Field)

	_, err = Evaluate(DefaultCatalog().Strategies(), models.MissionConstraints{BudgetM: 1, LeadTimeMonths: -12})
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "lead_time_months", invalid.Field)
}

func TestRank_SuccessRateThenCost(t *testing.T) {
	ranked := Rank(DefaultCatalog().Strategies())

	ids := make([]models.StrategyID, len(ranked))
	for i, s := range ranked {
		ids[i] = s.ID
	}
	assert.Equal(t, []models.StrategyID{
		models.StrategyNuclear,
		models.StrategyKinetic,
		models.StrategyGravity,
		models.StrategyEvacuation,
	}, ids)
}

func TestRank_TieBreaksOnMinimumCost(t *testing.T) {
	in := []models.MitigationStrategy{
		{ID: "pricey", SuccessRatePct: 80, CostRangeUSD: models.USDRange{Min: 900}},
		{ID: "cheap", SuccessRatePct: 80, CostRangeUSD: models.USDRange{Min: 100}},
		{ID: "best", SuccessRatePct: 90, CostRangeUSD: models.USDRange{Min: 5000}},
	}

	ranked := Rank(in)
	assert.Equal(t, models.StrategyID("best"), ranked[0].ID)
	assert.Equal(t, models.StrategyID("cheap"), ranked[1].ID)
	assert.Equal(t, models.StrategyID("pricey"), ranked[2].ID)

	// input untouched
	assert.Equal(t, models.StrategyID("pricey"), in[0].ID)
}
