package service

import (
	"github.com/towradar/backend/internal/geo"
	"github.com/towradar/backend/internal/models"
)

// AnnotateDistances computes each incident's distance from the company
// base exactly once. Records without valid coordinates are excluded
// here, before any threshold comparison.
func AnnotateDistances(c models.Company, incidents []models.Incident) []models.RelevantIncident {
	out := make([]models.RelevantIncident, 0, len(incidents))
	for _, inc := range incidents {
		if !geo.ValidCoords(inc.Lat, inc.Lng) {
			continue
		}
		out = append(out, models.RelevantIncident{
			Incident:   inc,
			DistanceKm: geo.DistanceKm(c.BaseLat, c.BaseLng, inc.Lat, inc.Lng),
			Display:    models.ClassifyDisplay(string(inc.Category), inc.Description),
		})
	}
	return out
}

func WithinKm(incidents []models.RelevantIncident, km float64) []models.RelevantIncident {
	out := make([]models.RelevantIncident, 0, len(incidents))
	for _, inc := range incidents {
		if inc.DistanceKm <= km {
			out = append(out, inc)
		}
	}
	return out
}

// FilterRelevant returns the incidents inside the company's service
// radius. Alerting uses the wider AlertRadiusKm threshold instead.
func FilterRelevant(c models.Company, incidents []models.Incident) []models.RelevantIncident {
	return WithinKm(AnnotateDistances(c, incidents), c.RadiusKm)
}
