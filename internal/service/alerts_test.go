package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/towradar/backend/internal/models"
	"github.com/towradar/backend/internal/notify"
)

type fakeAlertStore struct {
	mu        sync.Mutex
	companies []models.Company
	incidents []models.Incident
	ledger    map[string]bool
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{ledger: map[string]bool{}}
}

func (s *fakeAlertStore) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return s.companies, nil
}

func (s *fakeAlertStore) ListIncidentsSince(ctx context.Context, cutoff time.Time) ([]models.Incident, error) {
	return s.incidents, nil
}

func (s *fakeAlertStore) CreateNotificationRecord(ctx context.Context, companyID, incidentID, channel string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := companyID + "/" + incidentID
	if s.ledger[key] {
		return false, nil
	}
	s.ledger[key] = true
	return true, nil
}

type recordingChannel struct {
	name     string
	severity notify.Severity
	err      error
	sends    []notify.Alert
}

func (c *recordingChannel) Name() string              { return c.name }
func (c *recordingChannel) Severity() notify.Severity { return c.severity }
func (c *recordingChannel) Send(ctx context.Context, alert notify.Alert) error {
	c.sends = append(c.sends, alert)
	return c.err
}

func alertCompany() models.Company {
	return models.Company{
		ID:            "c1",
		BaseLat:       35.2271,
		BaseLng:       -80.8431,
		RadiusKm:      40,
		AlertsEnabled: true,
		AlertToggles: map[models.DisplayCategory]bool{
			models.DisplayCrash:    true,
			models.DisplayDisabled: true,
			models.DisplayHazard:   true,
		},
	}
}

func alertIncident(id string, cat models.Category) models.Incident {
	return models.Incident{ID: id, Category: cat, Lat: 35.2400, Lng: -80.8400, OccurredAt: time.Now()}
}

func TestAlertEngineAtMostOncePerPair(t *testing.T) {
	store := newFakeAlertStore()
	store.companies = []models.Company{alertCompany()}
	store.incidents = []models.Incident{alertIncident("i1", models.CategoryAccident)}

	ch := &recordingChannel{name: "email", severity: notify.SeverityNormal}
	e := &AlertEngine{Store: store, Channels: []notify.Channel{ch}, Logger: zerolog.Nop()}

	first, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if first != 1 || second != 0 {
		t.Fatalf("expected 1 then 0 notifications, got %d then %d", first, second)
	}
	if len(ch.sends) != 1 {
		t.Fatalf("expected a single dispatch, got %d", len(ch.sends))
	}
}

func TestAlertEngineRespectsToggles(t *testing.T) {
	c := alertCompany()
	c.AlertToggles[models.DisplayDisabled] = false

	store := newFakeAlertStore()
	store.companies = []models.Company{c}
	store.incidents = []models.Incident{
		alertIncident("i1", models.CategoryAccident),
		alertIncident("i2", models.CategoryDisabled),
	}

	ch := &recordingChannel{name: "email", severity: notify.SeverityNormal}
	e := &AlertEngine{Store: store, Channels: []notify.Channel{ch}, Logger: zerolog.Nop()}

	n, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only the crash to alert, got %d", n)
	}
	if len(ch.sends) != 1 || len(ch.sends[0].Incidents) != 1 || ch.sends[0].Incidents[0].ID != "i1" {
		t.Fatalf("unexpected dispatch payload: %+v", ch.sends)
	}
	// The toggled-off incident must not burn a ledger row.
	if store.ledger["c1/i2"] {
		t.Fatalf("disabled-category incident should not be recorded")
	}
}

func TestAlertEngineSkipsDisabledCompany(t *testing.T) {
	c := alertCompany()
	c.AlertsEnabled = false

	store := newFakeAlertStore()
	store.companies = []models.Company{c}
	store.incidents = []models.Incident{alertIncident("i1", models.CategoryAccident)}

	ch := &recordingChannel{name: "email", severity: notify.SeverityNormal}
	e := &AlertEngine{Store: store, Channels: []notify.Channel{ch}, Logger: zerolog.Nop()}

	n, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 0 || len(ch.sends) != 0 || len(store.ledger) != 0 {
		t.Fatalf("disabled company should produce nothing")
	}
}

func TestAlertEngineQuietHoursSuppressOnlyLowSeverity(t *testing.T) {
	c := alertCompany()
	c.QuietStart = str("22:00")
	c.QuietEnd = str("06:00")

	store := newFakeAlertStore()
	store.companies = []models.Company{c}
	store.incidents = []models.Incident{alertIncident("i1", models.CategoryAccident)}

	inApp := &recordingChannel{name: "in_app", severity: notify.SeverityLow}
	email := &recordingChannel{name: "email", severity: notify.SeverityNormal}
	sms := &recordingChannel{name: "sms", severity: notify.SeverityHigh}
	e := &AlertEngine{
		Store:    store,
		Channels: []notify.Channel{inApp, email, sms},
		Logger:   zerolog.Nop(),
		Now:      func() time.Time { return at(2, 30) },
	}

	n, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 1 {
		t.Fatalf("quiet hours must not stop the alert itself, got %d", n)
	}
	if len(inApp.sends) != 0 {
		t.Fatalf("low-severity channel should be suppressed during quiet hours")
	}
	if len(email.sends) != 1 || len(sms.sends) != 1 {
		t.Fatalf("normal and high severity channels should still dispatch")
	}
}

func TestAlertEngineChannelFailureKeepsLedger(t *testing.T) {
	store := newFakeAlertStore()
	store.companies = []models.Company{alertCompany()}
	store.incidents = []models.Incident{alertIncident("i1", models.CategoryAccident)}

	ch := &recordingChannel{name: "email", severity: notify.SeverityNormal, err: errors.New("smtp down")}
	e := &AlertEngine{Store: store, Channels: []notify.Channel{ch}, Logger: zerolog.Nop()}

	if _, err := e.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !store.ledger["c1/i1"] {
		t.Fatalf("ledger row must survive a failed dispatch")
	}

	// A rerun stays silent even though delivery failed.
	n, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 0 {
		t.Fatalf("failed delivery must not be retried, got %d", n)
	}
}
