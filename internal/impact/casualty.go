package impact

import (
	"math"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

type damageProfile struct {
	casualtyMultiplier float64
	buildingsDestroyed models.Percent
}

var damageBySeverity = map[models.SeverityLevel]damageProfile{
	models.SeverityLow:          {casualtyMultiplier: 0.1, buildingsDestroyed: 15},
	models.SeverityModerate:     {casualtyMultiplier: 0.3, buildingsDestroyed: 45},
	models.SeverityHigh:         {casualtyMultiplier: 0.6, buildingsDestroyed: 75},
	models.SeverityCatastrophic: {casualtyMultiplier: 0.9, buildingsDestroyed: 95},
}

// EstimateCasualties returns the casualty count and the share of buildings
// destroyed for a severity tier at the given site. The count never exceeds
// the site population.
func EstimateCasualties(severity models.SeverityLevel, site models.TargetSite) (int64, models.Percent, error) {
	profile, ok := damageBySeverity[severity]
	if !ok {
		return 0, 0, &UnknownSeverityError{Severity: severity}
	}
	if site.PopulationM < 0 || math.IsNaN(site.PopulationM) || math.IsInf(site.PopulationM, 0) {
		return 0, 0, &InvalidParameterError{Field: "population_m", Value: site.PopulationM, Reason: "must be a finite non-negative number"}
	}

	population := site.PopulationM * 1_000_000
	casualties := math.Round(site.PopulationM * profile.casualtyMultiplier * 1_000_000)
	if casualties > population {
		casualties = math.Floor(population)
	}
	return int64(casualties), profile.buildingsDestroyed, nil
}
