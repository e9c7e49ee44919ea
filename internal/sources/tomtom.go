package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/towradar/backend/internal/geo"
	"github.com/towradar/backend/internal/models"
)

// TomTom reads the TomTom incidentDetails API for a bounding box.
// Geometry arrives as GeoJSON; LineString incidents are pinned to
// their first coordinate.
type TomTom struct {
	BaseURL string
	APIKey  string
	BBox    string
	City    string
	State   string
	Client  *http.Client
}

type tomTomResponse struct {
	Incidents []struct {
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates json.RawMessage `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			ID           any      `json:"id"`
			IconCategory int      `json:"iconCategory"`
			StartTime    string   `json:"startTime"`
			From         string   `json:"from"`
			RoadNumbers  []string `json:"roadNumbers"`
			Events       []struct {
				Description  string `json:"description"`
				IconCategory int    `json:"iconCategory"`
			} `json:"events"`
		} `json:"properties"`
	} `json:"incidents"`
}

func (s *TomTom) Name() string { return "tomtom" }

func (s *TomTom) Fetch(ctx context.Context) ([]models.Incident, error) {
	if s.APIKey == "" {
		// Source is configured off; not an error.
		return nil, nil
	}
	if s.Client == nil {
		s.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if s.BaseURL == "" {
		s.BaseURL = "https://api.tomtom.com/traffic/services/5"
	}
	bbox := s.BBox
	if bbox == "" {
		bbox = "-81.1,35.0,-80.6,35.4"
	}

	q := url.Values{}
	q.Set("key", s.APIKey)
	q.Set("bbox", bbox)
	q.Set("fields", "{incidents{type,geometry{type,coordinates},properties{id,iconCategory,events{description,code,iconCategory},startTime,from,roadNumbers}}}")
	q.Set("language", "en-US")
	q.Set("timeValidityFilter", "present")
	endpoint := s.BaseURL + "/incidentDetails?" + q.Encode()

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
		return nil, fmt.Errorf("tomtom http error: %s", resp.Status)
	}

	var body tomTomResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	out := make([]models.Incident, 0, len(body.Incidents))
	for _, item := range body.Incidents {
		lat, lng, ok := geoPoint(item.Geometry.Type, item.Geometry.Coordinates)
		if !ok || !geo.ValidCoords(lat, lng) {
			continue
		}

		props := item.Properties
		description := "Traffic incident"
		iconCategory := props.IconCategory
		if len(props.Events) > 0 {
			if props.Events[0].Description != "" {
				description = props.Events[0].Description
			}
			if iconCategory == 0 {
				iconCategory = props.Events[0].IconCategory
			}
		} else if props.From != "" {
			description = props.From
		}

		road := ""
		if len(props.RoadNumbers) > 0 {
			road = props.RoadNumbers[0]
		} else if props.From != "" {
			road = props.From
		}

		occurredAt := time.Now().UTC()
		if props.StartTime != "" {
			if t, err := parseFeedTime(props.StartTime); err == nil {
				occurredAt = t
			}
		}

		externalID := asString(props.ID)
		if externalID == "" {
			externalID = fmt.Sprintf("tomtom-%f-%f", lat, lng)
		}

		out = append(out, models.Incident{
			Source:      s.Name(),
			ExternalID:  externalID,
			Category:    mapTomTomCategory(iconCategory),
			Description: description,
			Lat:         lat,
			Lng:         lng,
			Road:        optString(road),
			City:        optString(s.City),
			State:       optString(s.State),
			OccurredAt:  occurredAt,
		})
	}
	return out, nil
}

// TomTom icon categories: 1 accident, 14 broken-down vehicle;
// everything else (fog, ice, jam, closures, works...) is a hazard.
func mapTomTomCategory(code int) models.Category {
	switch code {
	case 1:
		return models.CategoryAccident
	case 14:
		return models.CategoryDisabled
	default:
		return models.CategoryHazard
	}
}

func geoPoint(geomType string, coords json.RawMessage) (float64, float64, bool) {
	switch geomType {
	case "Point":
		var pt []float64
		if err := json.Unmarshal(coords, &pt); err != nil || len(pt) < 2 {
			return 0, 0, false
		}
		return pt[1], pt[0], true
	case "LineString":
		var line [][]float64
		if err := json.Unmarshal(coords, &line); err != nil || len(line) == 0 || len(line[0]) < 2 {
			return 0, 0, false
		}
		return line[0][1], line[0][0], true
	default:
		return 0, 0, false
	}
}
