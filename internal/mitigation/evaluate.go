package mitigation

import (
	"cmp"
	"math"
	"slices"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

const monthsPerYear = 12

// Evaluate flags each strategy as affordable and achievable in time under
// the given constraints. Results keep the order of the input slice.
//
// The minimum mission duration is converted from years to months before it
// is compared with the lead time.
func Evaluate(strategies []models.MitigationStrategy, c models.MissionConstraints) ([]models.FeasibilityResult, error) {
	if c.BudgetM < 0 || math.IsNaN(c.BudgetM) {
		return nil, &InvalidConstraintError{Field: "budget_m", Value: c.BudgetM}
	}
	if c.LeadTimeMonths < 0 || math.IsNaN(c.LeadTimeMonths) {
		return nil, &InvalidConstraintError{Field: "lead_time_months", Value: c.LeadTimeMonths}
	}

	budgetUSD := c.BudgetM * 1e6
	results := make([]models.FeasibilityResult, 0, len(strategies))
	for _, s := range strategies {
		affordable := budgetUSD >= s.CostRangeUSD.Min
		timeFeasible := c.LeadTimeMonths >= s.TimeRangeYears.Min*monthsPerYear
		results = append(results, models.FeasibilityResult{
			Strategy:     s,
			Feasible:     affordable && timeFeasible,
			Affordable:   affordable,
			TimeFeasible: timeFeasible,
		})
	}
	return results, nil
}

// Rank returns the strategies ordered by success rate, highest first, with
// the cheaper minimum cost winning ties. The input is not modified.
func Rank(strategies []models.MitigationStrategy) []models.MitigationStrategy {
	ranked := slices.Clone(strategies)
	slices.SortStableFunc(ranked, func(a, b models.MitigationStrategy) int {
		if c := cmp.Compare(b.SuccessRatePct, a.SuccessRatePct); c != 0 {
			return c
		}
		return cmp.Compare(a.CostRangeUSD.Min, b.CostRangeUSD.Min)
	})
	return ranked
}
