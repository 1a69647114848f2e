package impact

import (
	"math"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

// JoulesPerMegaton is the TNT-equivalent energy of one megaton.
const JoulesPerMegaton = 4.184e15

// Energy thresholds (Mt) at which the next severity tier starts.
const (
	moderateThresholdMt     = 10
	highThresholdMt         = 50
	catastrophicThresholdMt = 200
)

// Entry angles below this are shallow enough to raise tsunami risk at a
// coastal site.
const tsunamiAngleDeg = 30

// Calculator turns asteroid parameters into an ImpactAssessment. It holds
// only the coastal site table and is safe for concurrent use.
type Calculator struct {
	coastal map[string]struct{}
}

func NewCalculator(coastalSiteIDs ...string) *Calculator {
	coastal := make(map[string]struct{}, len(coastalSiteIDs))
	for _, id := range coastalSiteIDs {
		coastal[id] = struct{}{}
	}
	return &Calculator{coastal: coastal}
}

func DefaultCalculator() *Calculator {
	return NewCalculator(DefaultCoastalSites...)
}

// IsCoastal reports whether tsunami risk applies to the site at shallow
// entry angles.
func (c *Calculator) IsCoastal(siteID string) bool {
	_, ok := c.coastal[siteID]
	return ok
}

func (c *Calculator) Assess(params models.AsteroidParameters, site models.TargetSite) (models.ImpactAssessment, error) {
	if err := validateParameters(params); err != nil {
		return models.ImpactAssessment{}, err
	}

	radiusM := params.DiameterM / 2
	massKg := params.DensityKgM3 * (4.0 / 3.0) * math.Pi * math.Pow(radiusM, 3)
	velocityMps := params.VelocityKmS * 1000
	energyJ := 0.5 * massKg * velocityMps * velocityMps
	energyMt := energyJ / JoulesPerMegaton

	cubeRoot := math.Cbrt(energyMt)
	severity := ClassifySeverity(energyMt)

	casualties, buildings, err := EstimateCasualties(severity, site)
	if err != nil {
		return models.ImpactAssessment{}, err
	}

	return models.ImpactAssessment{
		SiteID:                site.ID,
		EnergyMt:              energyMt,
		CraterKm:              0.5 * math.Pow(energyMt, 1/3.4),
		FireballKm:            0.45 * cubeRoot,
		SevereKm:              2.0 * cubeRoot,
		ModerateKm:            4.0 * cubeRoot,
		SeverityLevel:         severity,
		Casualties:            casualties,
		BuildingsDestroyedPct: buildings,
		TsunamiRisk:           c.tsunamiRisk(params.AngleDeg, site.ID),
	}, nil
}

// ClassifySeverity maps a release energy to its tier. A value exactly on a
// threshold belongs to the higher tier.
func ClassifySeverity(energyMt float64) models.SeverityLevel {
	switch {
	case energyMt < moderateThresholdMt:
		return models.SeverityLow
	case energyMt < highThresholdMt:
		return models.SeverityModerate
	case energyMt < catastrophicThresholdMt:
		return models.SeverityHigh
	default:
		return models.SeverityCatastrophic
	}
}

func (c *Calculator) tsunamiRisk(angleDeg float64, siteID string) models.TsunamiRisk {
	if angleDeg < tsunamiAngleDeg && c.IsCoastal(siteID) {
		return models.TsunamiRiskHigh
	}
	return models.TsunamiRiskNone
}

func validateParameters(p models.AsteroidParameters) error {
	positive := []struct {
		field string
		value float64
	}{
		{"diameter_m", p.DiameterM},
		{"velocity_kms", p.VelocityKmS},
		{"density_kg_m3", p.DensityKgM3},
	}
	for _, f := range positive {
		if !isFinite(f.value) {
			return &InvalidParameterError{Field: f.field, Value: f.value, Reason: "must be a finite number"}
		}
		if f.value <= 0 {
			return &InvalidParameterError{Field: f.field, Value: f.value, Reason: "must be greater than zero"}
		}
	}
	if !isFinite(p.AngleDeg) {
		return &InvalidParameterError{Field: "angle_deg", Value: p.AngleDeg, Reason: "must be a finite number"}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
