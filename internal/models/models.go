package models

import "time"

// Category is the canonical incident category produced by the source
// adapters. Unknown upstream codes map to CategoryHazard.
type Category string

const (
	CategoryAccident Category = "accident"
	CategoryDisabled Category = "disabled_vehicle"
	CategoryHazard   Category = "hazard"
)

// Incident is the canonical, source-independent record. The pair
// (Source, ExternalID) is its natural key across ingestion cycles.
type Incident struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	ExternalID  string    `json:"external_id"`
	Category    Category  `json:"category"`
	Description string    `json:"description,omitempty"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Road        *string   `json:"road"`
	City        *string   `json:"city"`
	State       *string   `json:"state"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RelevantIncident annotates an incident with the distance from a
// company's base, computed once and reused for display and alerting.
type RelevantIncident struct {
	Incident
	DistanceKm float64         `json:"distance_km"`
	Display    DisplayCategory `json:"display_category"`
}

type Company struct {
	ID            string                   `json:"id"`
	UserID        string                   `json:"user_id"`
	Name          string                   `json:"name"`
	BaseLat       float64                  `json:"base_lat"`
	BaseLng       float64                  `json:"base_lng"`
	RadiusKm      float64                  `json:"radius_km"`
	AlertBufferKm float64                  `json:"alert_buffer_km"`
	AlertsEnabled bool                     `json:"alerts_enabled"`
	AlertToggles  map[DisplayCategory]bool `json:"alert_toggles"`
	AlertEmail    *string                  `json:"alert_email"`
	AlertPhone    *string                  `json:"alert_phone"`
	QuietStart    *string                  `json:"quiet_hours_start"`
	QuietEnd      *string                  `json:"quiet_hours_end"`
}

// AlertRadiusKm is the widened threshold used for alert-worthiness,
// as opposed to plain dashboard relevance.
func (c Company) AlertRadiusKm() float64 {
	return c.RadiusKm + c.AlertBufferKm
}

type ClaimStatus string

const (
	ClaimClaimed   ClaimStatus = "claimed"
	ClaimEnRoute   ClaimStatus = "en_route"
	ClaimOnScene   ClaimStatus = "on_scene"
	ClaimCompleted ClaimStatus = "completed"
)

type Claim struct {
	ID          string      `json:"id"`
	CompanyID   string      `json:"company_id"`
	IncidentID  string      `json:"incident_id"`
	Status      ClaimStatus `json:"status"`
	TruckID     *string     `json:"truck_id"`
	DriverID    *string     `json:"driver_id"`
	ClaimedAt   time.Time   `json:"claimed_at"`
	EnRouteAt   *time.Time  `json:"en_route_at"`
	OnSceneAt   *time.Time  `json:"on_scene_at"`
	CompletedAt *time.Time  `json:"completed_at"`
}

type TruckStatus string

const (
	TruckAvailable TruckStatus = "available"
	TruckOnJob     TruckStatus = "on_job"
)

type Truck struct {
	ID        string      `json:"id"`
	CompanyID string      `json:"company_id"`
	Name      string      `json:"name"`
	Status    TruckStatus `json:"status"`
}

// NotificationRecord is the dedup ledger row: at most one per
// (company, incident) pair, ever.
type NotificationRecord struct {
	CompanyID  string    `json:"company_id"`
	IncidentID string    `json:"incident_id"`
	Channel    string    `json:"channel"`
	CreatedAt  time.Time `json:"created_at"`
}
