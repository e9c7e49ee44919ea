package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// InAppChannel queues alerts on a per-company redis list. Connected
// dashboard sessions drain the list on their refresh cycle. This is
// the lowest-severity channel and is suppressed during quiet hours.
type InAppChannel struct {
	Client *redis.Client
	Prefix string
}

type InAppAlert struct {
	IncidentID string    `json:"incident_id"`
	Category   string    `json:"category"`
	Display    string    `json:"display_category"`
	Road       *string   `json:"road"`
	City       *string   `json:"city"`
	DistanceKm float64   `json:"distance_km"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (c *InAppChannel) Name() string       { return "in_app" }
func (c *InAppChannel) Severity() Severity { return SeverityLow }

func (c *InAppChannel) key(companyID string) string {
	prefix := c.Prefix
	if prefix == "" {
		prefix = "alerts:inapp"
	}
	return fmt.Sprintf("%s:%s", prefix, companyID)
}

func (c *InAppChannel) Send(ctx context.Context, alert Alert) error {
	if c.Client == nil {
		return nil
	}
	key := c.key(alert.Company.ID)
	for _, inc := range alert.Incidents {
		payload := InAppAlert{
			IncidentID: inc.ID,
			Category:   string(inc.Category),
			Display:    string(inc.Display),
			Road:       inc.Road,
			City:       inc.City,
			DistanceKm: inc.DistanceKm,
			OccurredAt: inc.OccurredAt,
		}
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		if err := c.Client.LPush(ctx, key, b).Err(); err != nil {
			return err
		}
	}
	return nil
}

// Drain pops up to limit pending alerts for a company. Used by the
// dashboard poll endpoint; an empty queue is not an error.
func (c *InAppChannel) Drain(ctx context.Context, companyID string, limit int) ([]InAppAlert, error) {
	if c.Client == nil {
		return nil, nil
	}
	vals, err := c.Client.LPopCount(ctx, c.key(companyID), limit).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]InAppAlert, 0, len(vals))
	for _, v := range vals {
		var a InAppAlert
		if err := json.Unmarshal([]byte(v), &a); err != nil {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
