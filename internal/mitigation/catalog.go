package mitigation

import (
	"errors"
	"fmt"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

// DefaultBaselineCasualties is the pre-mitigation toll used when a caller
// has no assessment of its own to compare against.
const DefaultBaselineCasualties int64 = 2_400_000

// CasualtyOverrides maps each strategy to the residual casualty count after
// it is carried out. The figures are discrete per strategy and do not follow
// from the success rate.
type CasualtyOverrides map[models.StrategyID]int64

// Catalog is an immutable, validated set of strategies.
type Catalog struct {
	strategies []models.MitigationStrategy
	overrides  CasualtyOverrides
}

// NewCatalog checks that every strategy id is unique and has exactly one
// override, and that no override names a strategy outside the catalog.
func NewCatalog(strategies []models.MitigationStrategy, overrides CasualtyOverrides) (*Catalog, error) {
	seen := make(map[models.StrategyID]struct{}, len(strategies))
	var errs []error

	for _, s := range strategies {
		if _, dup := seen[s.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate strategy id %q", s.ID))
			continue
		}
		seen[s.ID] = struct{}{}

		if _, ok := overrides[s.ID]; !ok {
			errs = append(errs, fmt.Errorf("strategy %q has no casualty override", s.ID))
		}
		if s.CostRangeUSD.Min > s.CostRangeUSD.Max || s.TimeRangeYears.Min > s.TimeRangeYears.Max {
			errs = append(errs, fmt.Errorf("strategy %q has an inverted range", s.ID))
		}
	}
	for id, after := range overrides {
		if _, ok := seen[id]; !ok {
			errs = append(errs, &UnknownStrategyError{ID: id})
		}
		if after < 0 {
			errs = append(errs, fmt.Errorf("override for %q is negative", id))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("error building mitigation catalog: %w", errors.Join(errs...))
	}

	c := &Catalog{
		strategies: make([]models.MitigationStrategy, len(strategies)),
		overrides:  make(CasualtyOverrides, len(overrides)),
	}
	for i, s := range strategies {
		c.strategies[i] = cloneStrategy(s)
	}
	for id, after := range overrides {
		c.overrides[id] = after
	}
	return c, nil
}

func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultStrategies(), CasualtyOverrides{
		models.StrategyKinetic:    0,
		models.StrategyNuclear:    1_800_000,
		models.StrategyGravity:    0,
		models.StrategyEvacuation: 240_000,
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Strategies returns a copy of the catalog in definition order.
func (c *Catalog) Strategies() []models.MitigationStrategy {
	out := make([]models.MitigationStrategy, len(c.strategies))
	for i, s := range c.strategies {
		out[i] = cloneStrategy(s)
	}
	return out
}

func (c *Catalog) Strategy(id models.StrategyID) (models.MitigationStrategy, error) {
	for _, s := range c.strategies {
		if s.ID == id {
			return cloneStrategy(s), nil
		}
	}
	return models.MitigationStrategy{}, &UnknownStrategyError{ID: id}
}

// Compare returns the before/after casualty view for a strategy. A zero
// baseline selects DefaultBaselineCasualties. The residual toll never
// exceeds the baseline.
func (c *Catalog) Compare(id models.StrategyID, baseline int64) (models.MitigationComparison, error) {
	s, err := c.Strategy(id)
	if err != nil {
		return models.MitigationComparison{}, err
	}
	if baseline < 0 {
		return models.MitigationComparison{}, &InvalidConstraintError{Field: "baseline", Value: float64(baseline)}
	}
	if baseline == 0 {
		baseline = DefaultBaselineCasualties
	}

	return models.MitigationComparison{
		StrategyID:        s.ID,
		CasualtiesBefore:  baseline,
		CasualtiesAfter:   min(c.overrides[s.ID], baseline),
		RiskReductionPct:  s.SuccessRatePct,
		MissionComplexity: s.RiskLevel,
	}, nil
}

func cloneStrategy(s models.MitigationStrategy) models.MitigationStrategy {
	s.Pros = append([]string(nil), s.Pros...)
	s.Cons = append([]string(nil), s.Cons...)
	return s
}

func defaultStrategies() []models.MitigationStrategy {
	return []models.MitigationStrategy{
		{
			ID:             models.StrategyKinetic,
			Name:           "Kinetic Impactor",
			Description:    "High-velocity spacecraft collision to alter trajectory",
			CostRangeUSD:   models.USDRange{Min: 500e6, Max: 2e9},
			TimeRangeYears: models.YearRange{Min: 5, Max: 15},
			SuccessRatePct: 85,
			RiskLevel:      models.RiskLow,
			Pros:           []string{"Proven technology", "No radioactive debris", "Precise targeting"},
			Cons:           []string{"Requires early detection", "Limited to smaller asteroids", "Single-shot mission"},
		},
		{
			ID:             models.StrategyNuclear,
			Name:           "Nuclear Detonation",
			Description:    "Nuclear explosive to fragment or deflect asteroid",
			CostRangeUSD:   models.USDRange{Min: 1e9, Max: 5e9},
			TimeRangeYears: models.YearRange{Min: 2, Max: 10},
			SuccessRatePct: 95,
			RiskLevel:      models.RiskHigh,
			Pros:           []string{"Highest success rate", "Effective on large asteroids", "Rapid deployment possible"},
			Cons:           []string{"Radioactive debris risk", "International approval needed", "Fragmentation concerns"},
		},
		{
			ID:             models.StrategyGravity,
			Name:           "Gravity Tractor",
			Description:    "Long-term gravitational influence using spacecraft",
			CostRangeUSD:   models.USDRange{Min: 200e6, Max: 800e6},
			TimeRangeYears: models.YearRange{Min: 10, Max: 50},
			SuccessRatePct: 75,
			RiskLevel:      models.RiskVeryLow,
			Pros:           []string{"Gentle deflection", "No contamination", "Continuous control"},
			Cons:           []string{"Extremely long lead time", "Limited effectiveness", "Requires stable orbit"},
		},
		{
			ID:             models.StrategyEvacuation,
			Name:           "Civil Evacuation",
			Description:    "Large-scale population relocation and sheltering",
			CostRangeUSD:   models.USDRange{Min: 50e9, Max: 200e9},
			TimeRangeYears: models.YearRange{Min: 1, Max: 5},
			SuccessRatePct: 60,
			RiskLevel:      models.RiskMedium,
			Pros:           []string{"Guaranteed population safety", "No space mission risk", "Immediate implementation"},
			Cons:           []string{"Massive infrastructure impact", "Economic devastation", "Limited by logistics"},
		},
	}
}
