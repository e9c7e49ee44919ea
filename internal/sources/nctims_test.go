package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/towradar/backend/internal/models"
)

func TestNCTimsFetchNormalizes(t *testing.T) {
	payload := `{"incidents":[
		{"id": 101, "incidentType": "Vehicle Crash", "latitude": 35.24, "longitude": -80.84,
		 "eventDescription": "Two-car collision", "roadName": "I-77", "startTime": "2024-03-01T12:00:00Z"},
		{"eventId": "abc", "eventType": "Disabled Vehicle", "lat": "35.20", "lon": "-80.80",
		 "description": "Stalled on shoulder"},
		{"id": 103, "incidentType": "Fog", "latitude": null, "longitude": -80.85},
		{"id": 104, "incidentType": "Spilled Load", "latitude": 35.30, "longitude": -80.90}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	src := &NCTims{BaseURL: srv.URL}
	incidents, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(incidents) != 3 {
		t.Fatalf("expected 3 incidents (null latitude dropped), got %d", len(incidents))
	}

	if incidents[0].Category != models.CategoryAccident {
		t.Fatalf("expected accident, got %s", incidents[0].Category)
	}
	if incidents[0].ExternalID != "101" {
		t.Fatalf("expected external id 101, got %s", incidents[0].ExternalID)
	}
	if incidents[0].Road == nil || *incidents[0].Road != "I-77" {
		t.Fatalf("expected road I-77, got %v", incidents[0].Road)
	}

	if incidents[1].Category != models.CategoryDisabled {
		t.Fatalf("expected disabled_vehicle, got %s", incidents[1].Category)
	}
	if incidents[1].ExternalID != "abc" {
		t.Fatalf("expected eventId fallback, got %s", incidents[1].ExternalID)
	}
	if incidents[1].Lat != 35.20 {
		t.Fatalf("expected string coords parsed, got %f", incidents[1].Lat)
	}

	// Unknown upstream code defaults to hazard.
	if incidents[2].Category != models.CategoryHazard {
		t.Fatalf("expected hazard default, got %s", incidents[2].Category)
	}
}

func TestNCTimsFetchTopLevelArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "incidentType": "accident", "latitude": 35.1, "longitude": -80.7}]`))
	}))
	defer srv.Close()

	src := &NCTims{BaseURL: srv.URL}
	incidents, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(incidents) != 1 {
		t.Fatalf("expected 1 incident, got %d", len(incidents))
	}
}

func TestNCTimsFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := &NCTims{BaseURL: srv.URL}
	incidents, err := src.Fetch(context.Background())
	if err == nil {
		t.Fatalf("expected error on 502")
	}
	if len(incidents) != 0 {
		t.Fatalf("expected empty result on failure, got %d", len(incidents))
	}
}

func TestNCTimsSyntheticExternalID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"incidentType": "crash", "latitude": 35.1, "longitude": -80.7}]`))
	}))
	defer srv.Close()

	src := &NCTims{BaseURL: srv.URL}
	incidents, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(incidents) != 1 || incidents[0].ExternalID == "" {
		t.Fatalf("expected synthetic external id, got %+v", incidents)
	}
}
