package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/towradar/backend/internal/models"
)

// SMSChannel sends one text per incident through the Twilio messages
// API. Log-only when credentials are missing.
type SMSChannel struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	FromNumber string
	Client     *http.Client
	Logger     zerolog.Logger
}

func (c *SMSChannel) Name() string       { return "sms" }
func (c *SMSChannel) Severity() Severity { return SeverityHigh }

func (c *SMSChannel) Send(ctx context.Context, alert Alert) error {
	if alert.Company.AlertPhone == nil || *alert.Company.AlertPhone == "" {
		return nil
	}
	phone := *alert.Company.AlertPhone

	for _, inc := range alert.Incidents {
		body := smsBody(inc)
		if c.AccountSID == "" || c.AuthToken == "" || c.FromNumber == "" {
			c.Logger.Info().Str("to", phone).Str("body", body).Msg("sms alert (no provider configured)")
			continue
		}
		if err := c.send(ctx, phone, body); err != nil {
			return err
		}
	}
	return nil
}

func (c *SMSChannel) send(ctx context.Context, to, body string) error {
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = "https://api.twilio.com"
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", baseURL, c.AccountSID)

	form := url.Values{}
	form.Set("From", c.FromNumber)
	form.Set("To", to)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.AccountSID, c.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms provider error: %s", resp.Status)
	}
	return nil
}

func smsBody(inc models.RelevantIncident) string {
	road := "unknown road"
	if inc.Road != nil && *inc.Road != "" {
		road = *inc.Road
	}
	city := "your area"
	if inc.City != nil && *inc.City != "" {
		city = *inc.City
	}
	return fmt.Sprintf("[TowRadar] %s near %s in %s — ~%s. Check dashboard for details.",
		strings.ToUpper(string(inc.Category)), road, city,
		inc.OccurredAt.Local().Format(time.Kitchen))
}
