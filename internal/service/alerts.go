package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/towradar/backend/internal/models"
	"github.com/towradar/backend/internal/notify"
)

// AlertStore is the slice of the persistence layer the alert engine
// needs; *db.Store satisfies it.
type AlertStore interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	ListIncidentsSince(ctx context.Context, cutoff time.Time) ([]models.Incident, error)
	CreateNotificationRecord(ctx context.Context, companyID, incidentID, channel string) (bool, error)
}

// AlertEngine runs one notification pass: for every company it finds
// alert-worthy incidents, claims a ledger row per (company, incident)
// pair, and dispatches the ones it won through all channels. The
// conditional ledger insert is the authoritative dedup guard; there is
// no reliance on comparing against a previous in-memory fetch.
type AlertEngine struct {
	Store    AlertStore
	Channels []notify.Channel
	Window   time.Duration
	Logger   zerolog.Logger
	Now      func() time.Time
}

func (e *AlertEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *AlertEngine) Run(ctx context.Context) (int, error) {
	window := e.Window
	if window <= 0 {
		window = time.Hour
	}

	incidents, err := e.Store.ListIncidentsSince(ctx, e.now().Add(-window))
	if err != nil {
		return 0, err
	}
	companies, err := e.Store.ListCompanies(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, company := range companies {
		total += e.runCompany(ctx, company, incidents)
	}
	return total, nil
}

func (e *AlertEngine) runCompany(ctx context.Context, c models.Company, incidents []models.Incident) int {
	if !c.AlertsEnabled {
		return 0
	}

	candidates := WithinKm(AnnotateDistances(c, incidents), c.AlertRadiusKm())
	label := e.channelLabel()

	var fresh []models.RelevantIncident
	for _, inc := range candidates {
		if !c.AlertToggles[inc.Display] {
			continue
		}
		created, err := e.Store.CreateNotificationRecord(ctx, c.ID, inc.ID, label)
		if err != nil {
			e.Logger.Error().Err(err).Str("company_id", c.ID).Str("incident_id", inc.ID).Msg("notification record insert failed")
			continue
		}
		if !created {
			// Another evaluation already owns this pair.
			continue
		}
		fresh = append(fresh, inc)
	}
	if len(fresh) == 0 {
		return 0
	}

	quiet := InQuietWindow(e.now(), c.QuietStart, c.QuietEnd)
	alert := notify.Alert{Company: c, Incidents: fresh}
	for _, ch := range e.Channels {
		if quiet && ch.Severity() == notify.SeverityLow {
			e.Logger.Debug().Str("channel", ch.Name()).Str("company_id", c.ID).Msg("quiet hours, channel suppressed")
			continue
		}
		// The ledger row stays regardless of delivery outcome:
		// at-most-once, not at-least-once.
		if err := ch.Send(ctx, alert); err != nil {
			e.Logger.Error().Err(err).Str("channel", ch.Name()).Str("company_id", c.ID).Msg("channel dispatch failed")
		}
	}
	return len(fresh)
}

func (e *AlertEngine) channelLabel() string {
	if len(e.Channels) == 0 {
		return "none"
	}
	names := make([]string, 0, len(e.Channels))
	for _, ch := range e.Channels {
		names = append(names, ch.Name())
	}
	return strings.Join(names, "_")
}
