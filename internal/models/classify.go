package models

import "strings"

// DisplayCategory is the coarser UI-facing classification derived from
// free text, independent of which feed produced the incident.
type DisplayCategory string

const (
	DisplayCrash    DisplayCategory = "crash"
	DisplayDisabled DisplayCategory = "disabled"
	DisplayHazard   DisplayCategory = "hazard"
	DisplayClosure  DisplayCategory = "closure"
	DisplayOther    DisplayCategory = "other"
)

// ClassifyDisplay maps category and description text onto a display
// category by case-insensitive substring match, in fixed priority
// order: crash first, then disabled, hazard, closure, else other.
func ClassifyDisplay(category, description string) DisplayCategory {
	t := strings.ToLower(category)
	d := strings.ToLower(description)

	if strings.Contains(t, "crash") || strings.Contains(t, "accident") {
		return DisplayCrash
	}
	if strings.Contains(t, "disabled") || strings.Contains(d, "disabled") || strings.Contains(t, "stall") || strings.Contains(d, "stall") {
		return DisplayDisabled
	}
	if strings.Contains(t, "hazard") || strings.Contains(d, "hazard") {
		return DisplayHazard
	}
	if strings.Contains(t, "closure") || strings.Contains(t, "lane closed") {
		return DisplayClosure
	}
	return DisplayOther
}
