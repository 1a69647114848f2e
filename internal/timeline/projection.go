package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

var ErrNegativeLeadTime = errors.New("lead time must be a non-negative number")

// outcomeModel reduces a baseline linearly with warning lead time and never
// goes below its floor.
type outcomeModel struct {
	baseline float64
	rate     float64 // fraction of baseline removed per hour of warning
	floor    float64
}

var (
	casualtyModel       = outcomeModel{baseline: 1_680_000, rate: 0.18, floor: 120_000}
	economicLossModel   = outcomeModel{baseline: 620, rate: 0.14, floor: 150} // billion USD
	infrastructureModel = outcomeModel{baseline: 78, rate: 0.10, floor: 35}   // percent damaged
)

func (m outcomeModel) at(leadTimeHours float64) int64 {
	reduced := math.Floor(m.baseline * (1 - leadTimeHours*m.rate))
	return int64(math.Max(m.floor, reduced))
}

// Project returns the casualty, economic loss and infrastructure damage
// figures for a warning lead time. Zero hours yields the baselines.
func Project(leadTimeHours float64) (models.OutcomeProjection, error) {
	if leadTimeHours < 0 || math.IsNaN(leadTimeHours) || math.IsInf(leadTimeHours, 0) {
		return models.OutcomeProjection{}, fmt.Errorf("%w: %v", ErrNegativeLeadTime, leadTimeHours)
	}
	return models.OutcomeProjection{
		LeadTimeHours:           leadTimeHours,
		Casualties:              casualtyModel.at(leadTimeHours),
		EconomicLossBillionUSD:  economicLossModel.at(leadTimeHours),
		InfrastructureDamagePct: infrastructureModel.at(leadTimeHours),
	}, nil
}
