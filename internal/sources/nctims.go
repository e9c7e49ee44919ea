package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/towradar/backend/internal/geo"
	"github.com/towradar/backend/internal/models"
)

// NCTims reads the NC DOT TIMS county incident feed. The response
// shape drifts between deployments, so the item list is accepted as a
// top-level array or under "incidents"/"items", and field names are
// coalesced across the spellings seen in the wild.
type NCTims struct {
	BaseURL string
	County  string
	Client  *http.Client
}

func (s *NCTims) Name() string { return "nc_tims" }

func (s *NCTims) Fetch(ctx context.Context) ([]models.Incident, error) {
	if s.Client == nil {
		s.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if s.BaseURL == "" {
		s.BaseURL = "https://eapps.ncdot.gov/services/traffic-prod/v1"
	}
	county := s.County
	if county == "" {
		county = "60"
	}

	endpoint := fmt.Sprintf("%s/counties/%s/incidents?recent=true&verbose=true", s.BaseURL, county)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("nc tims http error: %s", resp.Status)
	}

	var raw any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	items := extractItems(raw)
	out := make([]models.Incident, 0, len(items))
	for _, entry := range items {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if inc, ok := s.normalize(item); ok {
			out = append(out, inc)
		}
	}
	return out, nil
}

func (s *NCTims) normalize(item map[string]any) (models.Incident, bool) {
	lat, latOK := firstNumber(item, "latitude", "lat")
	lng, lngOK := firstNumber(item, "longitude", "lon", "long")
	if !latOK || !lngOK || !geo.ValidCoords(lat, lng) {
		return models.Incident{}, false
	}

	description := firstString(item, "eventDescription", "description", "impactingRoadway")
	road := firstString(item, "roadName", "routeId", "routeName", "roadwayName")

	occurredAt := time.Now().UTC()
	if raw := firstString(item, "startTime", "createDateTime", "lastUpdated", "timestamp"); raw != "" {
		if t, err := parseFeedTime(raw); err == nil {
			occurredAt = t
		}
	}

	externalID := firstString(item, "id", "eventId", "incidentId")
	if externalID == "" {
		externalID = fmt.Sprintf("%f,%f,%d", lat, lng, occurredAt.Unix())
	}

	city := firstString(item, "city")
	if city == "" {
		city = "Charlotte"
	}

	return models.Incident{
		Source:      s.Name(),
		ExternalID:  externalID,
		Category:    mapNCCategory(firstString(item, "incidentType", "eventType")),
		Description: description,
		Lat:         lat,
		Lng:         lng,
		Road:        optString(road),
		City:        optString(city),
		State:       optString("NC"),
		OccurredAt:  occurredAt,
	}, true
}

func mapNCCategory(raw string) models.Category {
	v := strings.ToLower(raw)
	if strings.Contains(v, "crash") || strings.Contains(v, "accident") || strings.Contains(v, "collision") {
		return models.CategoryAccident
	}
	if strings.Contains(v, "disabled") || strings.Contains(v, "stall") {
		return models.CategoryDisabled
	}
	return models.CategoryHazard
}

func extractItems(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		if items, ok := v["incidents"].([]any); ok {
			return items
		}
		if items, ok := v["items"].([]any); ok {
			return items
		}
	}
	return nil
}

func parseFeedTime(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", raw)
}
