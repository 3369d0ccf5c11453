package domain

import (
	"time"

	"github.com/google/uuid"
)

// RawResponse is one anonymous survey submission. It is immutable once
// inserted and belongs to exactly one lecture. UserAgent and IPAddress are
// request metadata used only for duplicate suppression; they are never
// surfaced in aggregates.
type RawResponse struct {
	ID            uuid.UUID
	LectureID     uuid.UUID
	Gender        Gender
	AgeGroup      AgeGroup
	Understanding int // 1..5
	Satisfaction  int // 1..5
	Comment       *string
	UserAgent     *string
	IPAddress     *string
	CreatedAt     time.Time
}

// Rating returns the ordinal answer for a rating question, or 0 for a
// non-rating question code.
func (r *RawResponse) Rating(q QuestionCode) int {
	switch q {
	case QuestionUnderstanding:
		return r.Understanding
	case QuestionSatisfaction:
		return r.Satisfaction
	}
	return 0
}

// Option returns the categorical option code this response holds for q.
// Rating answers are reported as their digit string ("1".."5").
func (r *RawResponse) Option(q QuestionCode) string {
	switch q {
	case QuestionGender:
		return string(r.Gender)
	case QuestionAgeGroup:
		return string(r.AgeGroup)
	case QuestionUnderstanding:
		return ratingOption(r.Understanding)
	case QuestionSatisfaction:
		return ratingOption(r.Satisfaction)
	}
	return ""
}

func ratingOption(v int) string {
	if v < RatingMin || v > RatingMax {
		return ""
	}
	return string(rune('0' + v))
}
