package models

import "testing"

func TestClassifyDisplayPriorityOrder(t *testing.T) {
	cases := []struct {
		category    string
		description string
		want        DisplayCategory
	}{
		{"accident", "", DisplayCrash},
		{"crash", "disabled vehicle nearby", DisplayCrash},
		{"disabled_vehicle", "", DisplayDisabled},
		{"", "Vehicle disabled on shoulder", DisplayDisabled},
		{"", "vehicle stalled in left lane", DisplayDisabled},
		{"hazard", "", DisplayHazard},
		{"", "debris hazard in roadway", DisplayHazard},
		{"closure", "", DisplayClosure},
		{"lane closed", "", DisplayClosure},
		{"congestion", "slow traffic", DisplayOther},
		{"", "", DisplayOther},
	}
	for _, tc := range cases {
		if got := ClassifyDisplay(tc.category, tc.description); got != tc.want {
			t.Fatalf("ClassifyDisplay(%q, %q) = %s, want %s", tc.category, tc.description, got, tc.want)
		}
	}
}

func TestClassifyDisplayCaseInsensitive(t *testing.T) {
	if got := ClassifyDisplay("ACCIDENT", ""); got != DisplayCrash {
		t.Fatalf("expected crash, got %s", got)
	}
	if got := ClassifyDisplay("", "DISABLED on I-77"); got != DisplayDisabled {
		t.Fatalf("expected disabled, got %s", got)
	}
}
