package sources

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/towradar/backend/internal/models"
)

// Source is one upstream incident feed. Fetch performs the HTTP call
// and normalizes the response into canonical incidents. A failed fetch
// returns an empty slice and an error scoped to this source; malformed
// records inside an otherwise good response are dropped, not fatal.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Incident, error)
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v := asString(m[k]); v != "" {
			return v
		}
	}
	return ""
}

func firstNumber(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := asNumber(m[k]); ok {
			return v, true
		}
	}
	return 0, false
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

func asNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
