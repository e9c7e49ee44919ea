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

// DOTFeed is a template adapter for 511/DOT style JSON feeds that
// publish {items:[{id,type,eventType,latitude,longitude,...}]}.
// Only tow-relevant types (disabled, accident, crash) pass through.
type DOTFeed struct {
	URL    string
	Client *http.Client
}

type dotFeedResponse struct {
	Items []struct {
		ID          any      `json:"id"`
		Type        string   `json:"type"`
		EventType   string   `json:"eventType"`
		Description string   `json:"description"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
		RoadName    string   `json:"roadName"`
		City        string   `json:"city"`
		State       string   `json:"state"`
		Timestamp   string   `json:"timestamp"`
	} `json:"items"`
}

func (s *DOTFeed) Name() string { return "dot_sample" }

func (s *DOTFeed) Fetch(ctx context.Context) ([]models.Incident, error) {
	if s.URL == "" {
		return nil, nil
	}
	if s.Client == nil {
		s.Client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("dot feed http error: %s", resp.Status)
	}

	var body dotFeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	var out []models.Incident
	for _, item := range body.Items {
		t := strings.ToLower(item.Type)
		if !strings.Contains(t, "disabled") && !strings.Contains(t, "accident") && !strings.Contains(t, "crash") {
			continue
		}
		// Null or absent coordinates decode to nil, not 0,0.
		if item.Latitude == nil || item.Longitude == nil || !geo.ValidCoords(*item.Latitude, *item.Longitude) {
			continue
		}

		category := models.CategoryDisabled
		if strings.EqualFold(item.EventType, "ACCIDENT") {
			category = models.CategoryAccident
		}

		occurredAt := time.Now().UTC()
		if item.Timestamp != "" {
			if ts, err := parseFeedTime(item.Timestamp); err == nil {
				occurredAt = ts
			}
		}

		out = append(out, models.Incident{
			Source:      s.Name(),
			ExternalID:  asString(item.ID),
			Category:    category,
			Description: item.Description,
			Lat:         *item.Latitude,
			Lng:         *item.Longitude,
			Road:        optString(item.RoadName),
			City:        optString(item.City),
			State:       optString(item.State),
			OccurredAt:  occurredAt,
		})
	}
	return out, nil
}
