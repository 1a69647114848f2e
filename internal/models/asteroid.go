package models

// AsteroidParameters are the physical inputs of one impact assessment.
type AsteroidParameters struct {
	DiameterM   float64 `json:"diameter_m" yaml:"diameter_m"`
	VelocityKmS float64 `json:"velocity_kms" yaml:"velocity_kms"`
	AngleDeg    float64 `json:"angle_deg" yaml:"angle_deg"` // 90 = vertical entry
	DensityKgM3 float64 `json:"density_kg_m3" yaml:"density_kg_m3"`
}

// TargetSite is a read-only catalog entry. Coordinates are carried through
// untouched; nothing in the engine interprets them.
type TargetSite struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	PopulationM float64     `json:"population_m" yaml:"population_m"` // millions
	Coordinates Coordinates `json:"coordinates" yaml:"coordinates"`
}

type Coordinates struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
}
