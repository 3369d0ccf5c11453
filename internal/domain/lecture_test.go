package domain

import (
	"testing"
	"time"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load location %s: %v", name, err)
	}
	return loc
}

func TestLecture_CloseInstant(t *testing.T) {
	t.Parallel()
	tokyo := mustLoadLocation(t, "Asia/Tokyo")

	l := &Lecture{CloseDate: "2025-06-01", CloseTime: "18:00"}

	got, err := l.CloseInstant(tokyo)
	if err != nil {
		t.Fatalf("CloseInstant: unexpected error: %v", err)
	}

	want := time.Date(2025, 6, 1, 18, 0, 0, 0, tokyo)
	if !got.Equal(want) {
		t.Errorf("CloseInstant mismatch: got %v, want %v", got, want)
	}
}

func TestLecture_CloseInstant_Malformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		date string
		tm   string
	}{
		{"empty date", "", "18:00"},
		{"empty time", "2025-06-01", ""},
		{"bad date", "06/01/2025", "18:00"},
		{"bad time", "2025-06-01", "6pm"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			l := &Lecture{CloseDate: tc.date, CloseTime: tc.tm}
			if _, err := l.CloseInstant(time.UTC); err == nil {
				t.Error("expected error for malformed close date/time")
			}
		})
	}
}

func TestLecture_IsClosable_DeadlineBoundary(t *testing.T) {
	t.Parallel()
	tokyo := mustLoadLocation(t, "Asia/Tokyo")

	l := &Lecture{
		SurveyStatus: SurveyStatusActive,
		CloseDate:    "2025-06-01",
		CloseTime:    "18:00",
	}
	deadline := time.Date(2025, 6, 1, 18, 0, 0, 0, tokyo)

	if l.IsClosable(deadline.Add(-time.Second), tokyo) {
		t.Error("lecture must not be closable strictly before the deadline")
	}
	if !l.IsClosable(deadline, tokyo) {
		t.Error("lecture must be closable exactly at the deadline")
	}
	if !l.IsClosable(deadline.Add(time.Hour), tokyo) {
		t.Error("lecture must be closable after the deadline")
	}
}

func TestLecture_IsClosable_StateFilter(t *testing.T) {
	t.Parallel()

	// Deadline long past; only the state should decide.
	past := &Lecture{CloseDate: "2020-01-01", CloseTime: "00:00"}

	for _, status := range []SurveyStatus{SurveyStatusClosed, SurveyStatusAnalyzed} {
		past.SurveyStatus = status
		if past.IsClosable(time.Now(), time.UTC) {
			t.Errorf("lecture in state %s must not be closable", status)
		}
	}

	past.SurveyStatus = SurveyStatusActive
	if !past.IsClosable(time.Now(), time.UTC) {
		t.Error("active lecture past its deadline must be closable")
	}
}

func TestLecture_IsClosable_MalformedDeadline(t *testing.T) {
	t.Parallel()

	l := &Lecture{
		SurveyStatus: SurveyStatusActive,
		CloseDate:    "not-a-date",
		CloseTime:    "18:00",
	}
	if l.IsClosable(time.Now(), time.UTC) {
		t.Error("lecture with malformed deadline must not be closable")
	}
}
