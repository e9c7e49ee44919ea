package service

import (
	"strconv"
	"strings"
	"time"
)

// InQuietWindow reports whether now falls inside a quiet-hours window
// given as "HH:MM" times of day. A window whose start is after its end
// spans midnight.
func InQuietWindow(now time.Time, start, end *string) bool {
	if start == nil || end == nil {
		return false
	}
	startMin, ok := parseMinutes(*start)
	if !ok {
		return false
	}
	endMin, ok := parseMinutes(*end)
	if !ok {
		return false
	}

	current := now.Hour()*60 + now.Minute()
	if startMin > endMin {
		return current >= startMin || current < endMin
	}
	return current >= startMin && current < endMin
}

func parseMinutes(v string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(v), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
