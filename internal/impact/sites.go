package impact

import (
	"fmt"

	"github.com/mr1hm/go-impact-risk/internal/models"
)

// DefaultCoastalSites are the site ids treated as exposed to tsunami risk
// when no other set is configured.
var DefaultCoastalSites = []string{"new-york", "tokyo", "sydney"}

// Sites returns the target site catalog. The slice is freshly allocated on
// every call.
func Sites() []models.TargetSite {
	return []models.TargetSite{
		{ID: "new-york", Name: "New York City", PopulationM: 8.4, Coordinates: models.Coordinates{Latitude: 40.7128, Longitude: -74.0060}},
		{ID: "london", Name: "London", PopulationM: 9.5, Coordinates: models.Coordinates{Latitude: 51.5074, Longitude: -0.1278}},
		{ID: "tokyo", Name: "Tokyo", PopulationM: 14, Coordinates: models.Coordinates{Latitude: 35.6895, Longitude: 139.6917}},
		{ID: "mumbai", Name: "Mumbai", PopulationM: 12.5, Coordinates: models.Coordinates{Latitude: 19.0760, Longitude: 72.8777}},
		{ID: "sydney", Name: "Sydney", PopulationM: 5.3, Coordinates: models.Coordinates{Latitude: -33.8688, Longitude: 151.2093}},
		{ID: "cairo", Name: "Cairo", PopulationM: 10.1, Coordinates: models.Coordinates{Latitude: 30.0444, Longitude: 31.2357}},
		{ID: "sao-paulo", Name: "São Paulo", PopulationM: 12.4, Coordinates: models.Coordinates{Latitude: -23.5505, Longitude: -46.6333}},
	}
}

func SiteByID(id string) (models.TargetSite, error) {
	for _, s := range Sites() {
		if s.ID == id {
			return s, nil
		}
	}
	return models.TargetSite{}, fmt.Errorf("%w: %s", ErrUnknownSite, id)
}
