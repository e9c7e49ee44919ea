package service

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2024, 3, 1, hour, min, 0, 0, time.UTC)
}

func str(s string) *string { return &s }

func TestInQuietWindowSameDay(t *testing.T) {
	start, end := str("13:00"), str("17:00")

	if !InQuietWindow(at(14, 30), start, end) {
		t.Fatalf("14:30 should be inside 13:00-17:00")
	}
	if InQuietWindow(at(12, 59), start, end) {
		t.Fatalf("12:59 should be outside 13:00-17:00")
	}
	if InQuietWindow(at(17, 0), start, end) {
		t.Fatalf("end minute is exclusive")
	}
	if !InQuietWindow(at(13, 0), start, end) {
		t.Fatalf("start minute is inclusive")
	}
}

func TestInQuietWindowSpansMidnight(t *testing.T) {
	start, end := str("22:00"), str("06:00")

	if !InQuietWindow(at(23, 30), start, end) {
		t.Fatalf("23:30 should be quiet in a 22:00-06:00 window")
	}
	if !InQuietWindow(at(2, 0), start, end) {
		t.Fatalf("02:00 should be quiet in a 22:00-06:00 window")
	}
	if InQuietWindow(at(12, 0), start, end) {
		t.Fatalf("12:00 should not be quiet in a 22:00-06:00 window")
	}
	if InQuietWindow(at(6, 0), start, end) {
		t.Fatalf("06:00 should end the window")
	}
}

func TestInQuietWindowInvalidInputs(t *testing.T) {
	if InQuietWindow(at(3, 0), nil, nil) {
		t.Fatalf("nil window should never be quiet")
	}
	if InQuietWindow(at(3, 0), str("22:00"), nil) {
		t.Fatalf("half-open window should never be quiet")
	}
	if InQuietWindow(at(3, 0), str("25:00"), str("06:00")) {
		t.Fatalf("unparseable start should disable the window")
	}
	if InQuietWindow(at(3, 0), str("22:00"), str("bogus")) {
		t.Fatalf("unparseable end should disable the window")
	}
}
