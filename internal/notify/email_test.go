package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/towradar/backend/internal/models"
)

func strp(s string) *string { return &s }

func sampleAlert() Alert {
	return Alert{
		Company: models.Company{ID: "c1", Name: "Queen City Towing", AlertEmail: strp("ops@example.com")},
		Incidents: []models.RelevantIncident{
			{
				Incident: models.Incident{
					Category: models.CategoryAccident,
					Road:     strp("I-77"),
					City:     strp("Charlotte"),
					State:    strp("NC"),
				},
				DistanceKm: 1.5,
				Display:    models.DisplayCrash,
			},
		},
	}
}

func TestEmailChannelSendsResendPayload(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ch := &EmailChannel{
		BaseURL: srv.URL,
		APIKey:  "re_test",
		From:    "alerts@towradar.dev",
		Logger:  zerolog.Nop(),
	}
	if err := ch.Send(context.Background(), sampleAlert()); err != nil {
		t.Fatalf("send: %v", err)
	}

	if auth != "Bearer re_test" {
		t.Fatalf("expected bearer auth, got %q", auth)
	}
	subject, _ := got["subject"].(string)
	if subject != "[TowRadar] 1 new incident near your coverage area" {
		t.Fatalf("unexpected subject: %q", subject)
	}
	text, _ := got["text"].(string)
	if !strings.Contains(text, "ACCIDENT at I-77") {
		t.Fatalf("body missing incident line: %q", text)
	}
	if !strings.Contains(text, "Hi Queen City Towing") {
		t.Fatalf("body missing greeting: %q", text)
	}
}

func TestEmailChannelLogOnlyWithoutKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	ch := &EmailChannel{BaseURL: srv.URL, Logger: zerolog.Nop()}
	if err := ch.Send(context.Background(), sampleAlert()); err != nil {
		t.Fatalf("send: %v", err)
	}
	if called {
		t.Fatalf("no HTTP call expected without an API key")
	}
}

func TestEmailChannelFallbackRecipient(t *testing.T) {
	alert := sampleAlert()
	alert.Company.AlertEmail = nil

	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
	}))
	defer srv.Close()

	ch := &EmailChannel{BaseURL: srv.URL, APIKey: "re_test", FallbackTo: "dispatch@example.com", Logger: zerolog.Nop()}
	if err := ch.Send(context.Background(), alert); err != nil {
		t.Fatalf("send: %v", err)
	}
	to, _ := got["to"].([]any)
	if len(to) != 1 || to[0] != "dispatch@example.com" {
		t.Fatalf("expected fallback recipient, got %v", got["to"])
	}
}

func TestSMSChannelSkipsWithoutPhone(t *testing.T) {
	ch := &SMSChannel{AccountSID: "sid", AuthToken: "tok", FromNumber: "+1555", Logger: zerolog.Nop()}
	alert := sampleAlert()
	alert.Company.AlertPhone = nil
	if err := ch.Send(context.Background(), alert); err != nil {
		t.Fatalf("send without phone should be a no-op, got %v", err)
	}
}

func TestSMSChannelPostsTwilioForm(t *testing.T) {
	var form map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/2010-04-01/Accounts/sid/Messages.json") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		r.ParseForm()
		form = r.PostForm
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	alert := sampleAlert()
	alert.Company.AlertPhone = strp("+17045550100")

	ch := &SMSChannel{BaseURL: srv.URL, AccountSID: "sid", AuthToken: "tok", FromNumber: "+1555", Logger: zerolog.Nop()}
	if err := ch.Send(context.Background(), alert); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(form["To"]) != 1 || form["To"][0] != "+17045550100" {
		t.Fatalf("unexpected To: %v", form["To"])
	}
	if body := form["Body"][0]; !strings.Contains(body, "ACCIDENT near I-77 in Charlotte") {
		t.Fatalf("unexpected body: %q", body)
	}
}
