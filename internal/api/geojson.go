package api

import (
	"github.com/mr1hm/go-impact-risk/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func siteFeature(s models.TargetSite) Feature {
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: []float64{s.Coordinates.Longitude, s.Coordinates.Latitude},
		},
		Properties: map[string]any{
			"id":           s.ID,
			"name":         s.Name,
			"population_m": s.PopulationM,
		},
	}
}

func sitesToGeoJSON(sites []models.TargetSite) FeatureCollection {
	features := make([]Feature, 0, len(sites))
	for _, s := range sites {
		features = append(features, siteFeature(s))
	}
	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// assessmentsToGeoJSON pairs each site with its assessment; the damage radii
// are exposed as properties for the map layer to draw rings from.
func assessmentsToGeoJSON(sites []models.TargetSite, assessments []models.ImpactAssessment) FeatureCollection {
	features := make([]Feature, 0, len(sites))
	for i, s := range sites {
		f := siteFeature(s)
		a := assessments[i]
		f.Properties["energy_mt"] = a.EnergyMt
		f.Properties["crater_km"] = a.CraterKm
		f.Properties["fireball_km"] = a.FireballKm
		f.Properties["severe_km"] = a.SevereKm
		f.Properties["moderate_km"] = a.ModerateKm
		f.Properties["severity_level"] = a.SeverityLevel
		f.Properties["casualties"] = a.Casualties
		f.Properties["buildings_destroyed_pct"] = a.BuildingsDestroyedPct
		f.Properties["tsunami_risk"] = a.TsunamiRisk
		features = append(features, f)
	}
	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
