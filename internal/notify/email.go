package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EmailChannel sends one summary email per alert batch through a
// Resend-compatible HTTP API. Without an API key it degrades to
// logging the message, which keeps local development quiet but honest.
type EmailChannel struct {
	BaseURL    string
	APIKey     string
	From       string
	FallbackTo string
	Client     *http.Client
	Logger     zerolog.Logger
}

func (c *EmailChannel) Name() string       { return "email" }
func (c *EmailChannel) Severity() Severity { return SeverityNormal }

func (c *EmailChannel) Send(ctx context.Context, alert Alert) error {
	to := c.FallbackTo
	if alert.Company.AlertEmail != nil && *alert.Company.AlertEmail != "" {
		to = *alert.Company.AlertEmail
	}
	if to == "" {
		return nil
	}

	n := len(alert.Incidents)
	plural := ""
	if n > 1 {
		plural = "s"
	}
	subject := fmt.Sprintf("[TowRadar] %d new incident%s near your coverage area", n, plural)

	lines := make([]string, 0, n+5)
	lines = append(lines,
		fmt.Sprintf("Hi %s,", alert.Company.Name),
		"",
		fmt.Sprintf("TowRadar detected %d new incident%s near your coverage area:", n, plural),
		"")
	for _, inc := range alert.Incidents {
		lines = append(lines, incidentLine(inc))
	}
	lines = append(lines, "", "Log into your dashboard to see more details.")
	text := strings.Join(lines, "\n")

	if c.APIKey == "" {
		c.Logger.Info().Str("to", to).Str("subject", subject).Msg("email alert (no provider configured)")
		return nil
	}

	if c.Client == nil {
		c.Client = &http.Client{Timeout: 10 * time.Second}
	}
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}

	payload := map[string]any{
		"from":    c.From,
		"to":      []string{to},
		"subject": subject,
		"text":    text,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/emails", bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("email provider error: %s", resp.Status)
	}
	return nil
}
