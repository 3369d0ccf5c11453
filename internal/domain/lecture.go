package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Date and time layouts used by the lecture scheduling fields.
// The survey close moment is stored as two separate strings and combined
// into an instant in the survey's configured local time zone.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Lecture is an event with a scheduled anonymous-survey window.
// Content fields are mutated only by the owner before closure; the status
// and lifecycle timestamps are mutated only by the lifecycle service.
type Lecture struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Title        string
	LectureDate  string // DateLayout
	LectureTime  string // TimeLayout
	CloseDate    string // DateLayout
	CloseTime    string // TimeLayout
	SurveyStatus SurveyStatus
	ClosedAt     *time.Time
	AnalyzedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CloseInstant combines CloseDate and CloseTime into a single instant in loc.
func (l *Lecture) CloseInstant(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, l.CloseDate+" "+l.CloseTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("lecture %s: parse close date/time: %w", l.ID, err)
	}
	return t, nil
}

// IsClosable reports whether the survey deadline has passed for an ACTIVE
// lecture. Lectures in any other state are never closable; a malformed
// close date/time makes the lecture not closable rather than an error,
// so one bad row cannot wedge the discovery scan.
func (l *Lecture) IsClosable(now time.Time, loc *time.Location) bool {
	if l.SurveyStatus != SurveyStatusActive {
		return false
	}
	deadline, err := l.CloseInstant(loc)
	if err != nil {
		return false
	}
	return !now.Before(deadline)
}
