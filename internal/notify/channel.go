package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/towradar/backend/internal/models"
)

type Severity int

const (
	// SeverityLow channels (in-app sound) are the only ones suppressed
	// during quiet hours.
	SeverityLow Severity = iota
	SeverityNormal
	SeverityHigh
)

// Alert is one company's batch of newly alert-worthy incidents for a
// single refresh cycle.
type Alert struct {
	Company   models.Company
	Incidents []models.RelevantIncident
}

// Channel delivers an alert through one outbound medium. Delivery is
// fire-and-forget: a failed send is logged by the caller and never
// retried, because the notification ledger row already exists.
type Channel interface {
	Name() string
	Severity() Severity
	Send(ctx context.Context, alert Alert) error
}

func incidentLine(inc models.RelevantIncident) string {
	road := "Unknown road"
	if inc.Road != nil && *inc.Road != "" {
		road = *inc.Road
	}
	city := "Unknown"
	if inc.City != nil && *inc.City != "" {
		city = *inc.City
	}
	state := ""
	if inc.State != nil {
		state = *inc.State
	}
	return fmt.Sprintf("• %s at %s — %s, %s (%s)",
		strings.ToUpper(string(inc.Category)), road, city, state,
		inc.OccurredAt.Local().Format(time.Stamp))
}
