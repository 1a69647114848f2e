package models

type SeverityLevel string

const (
	SeverityLow          SeverityLevel = "Low"
	SeverityModerate     SeverityLevel = "Moderate"
	SeverityHigh         SeverityLevel = "High"
	SeverityCatastrophic SeverityLevel = "Catastrophic"
)

// Rank orders severity tiers from 1 (Low) to 4 (Catastrophic). Unknown
// values rank 0.
func (s SeverityLevel) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityModerate:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCatastrophic:
		return 4
	default:
		return 0
	}
}

type TsunamiRisk string

const (
	TsunamiRiskHigh TsunamiRisk = "High"
	TsunamiRiskNone TsunamiRisk = "N/A"
)

// Percent is a whole percentage point value (0-100).
type Percent int

// ImpactAssessment is the result of one calculation. It is built once and
// never mutated afterwards.
type ImpactAssessment struct {
	SiteID                string        `json:"site_id" yaml:"site_id"`
	EnergyMt              float64       `json:"energy_mt" yaml:"energy_mt"`
	CraterKm              float64       `json:"crater_km" yaml:"crater_km"`
	FireballKm            float64       `json:"fireball_km" yaml:"fireball_km"`
	SevereKm              float64       `json:"severe_km" yaml:"severe_km"`
	ModerateKm            float64       `json:"moderate_km" yaml:"moderate_km"`
	SeverityLevel         SeverityLevel `json:"severity_level" yaml:"severity_level"`
	Casualties            int64         `json:"casualties" yaml:"casualties"`
	BuildingsDestroyedPct Percent       `json:"buildings_destroyed_pct" yaml:"buildings_destroyed_pct"`
	TsunamiRisk           TsunamiRisk   `json:"tsunami_risk" yaml:"tsunami_risk"`
}
