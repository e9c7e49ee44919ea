package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// PushChannel posts title+body payloads to a delivery webhook, one per
// incident. The receiving side fans out to device push providers.
type PushChannel struct {
	URL    string
	Client *http.Client
}

type pushPayload struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	CompanyID  string `json:"company_id"`
	IncidentID string `json:"incident_id"`
}

func (c *PushChannel) Name() string       { return "push" }
func (c *PushChannel) Severity() Severity { return SeverityNormal }

func (c *PushChannel) Send(ctx context.Context, alert Alert) error {
	if c.URL == "" {
		return nil
	}
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 5 * time.Second}
	}

	for _, inc := range alert.Incidents {
		road := "Unknown location"
		if inc.Road != nil && *inc.Road != "" {
			road = *inc.Road
		}
		payload := pushPayload{
			Title:      fmt.Sprintf("New %s", strings.ReplaceAll(string(inc.Category), "_", " ")),
			Body:       fmt.Sprintf("%s — %.1f km away", road, inc.DistanceKm),
			CompanyID:  alert.Company.ID,
			IncidentID: inc.ID,
		}
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(b))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.Client.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("push webhook error: %s", resp.Status)
		}
	}
	return nil
}
