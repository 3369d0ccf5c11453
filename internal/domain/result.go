package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxTotalResponses is the hard ceiling on the response count recorded on a
// ResultSet. A count above it indicates corruption upstream, not load.
const MaxTotalResponses = 100_000

// ResultSet is one immutable snapshot of "analysis ran at time T for
// lecture L". ClosedAt is the deterministic cut timestamp that decided
// which responses counted; it doubles as the version key, so at most one
// ResultSet exists per (lecture, closedAt) pair. CreatedAt always equals
// ClosedAt: the record's creation time is defined by the business event,
// not by the wall clock at insert.
type ResultSet struct {
	ID             uuid.UUID
	LectureID      uuid.UUID
	ClosedAt       time.Time
	TotalResponses int
	CreatedAt      time.Time
}

// SimpleMeasure carries the measures of a univariate distribution cell.
type SimpleMeasure struct {
	N     int
	BaseN int
	Pct   float64
}

// CrossMeasure carries the measures of one cross-tabulation cell.
// Each percentage is stored with the denominator it was computed against.
type CrossMeasure struct {
	N          int
	RowPct     float64
	RowBaseN   int
	ColPct     float64
	ColBaseN   int
	TotalPct   float64
	TotalBaseN int
}

// SummaryMeasure carries a scalar aggregate for a rating question.
type SummaryMeasure struct {
	AvgScore float64
}

// ResultFact is one statistical measurement row belonging to a ResultSet.
// The measure variants form a tagged union keyed by StatType: exactly one
// of Simple, Cross, Summary is non-nil, matching the fact's family.
// LectureID is denormalized for direct lookup without joining result_sets.
type ResultFact struct {
	ID          uuid.UUID
	ResultSetID uuid.UUID
	LectureID   uuid.UUID
	StatType    StatType

	Dim1Question QuestionCode
	Dim1Option   string

	// Dim2 is present only for cross2 facts.
	Dim2Question *QuestionCode
	Dim2Option   *string

	// TargetQuestion is present only for summary facts.
	TargetQuestion *QuestionCode

	Simple  *SimpleMeasure
	Cross   *CrossMeasure
	Summary *SummaryMeasure
}

// Validate checks that the populated variant and dimension fields match the
// fact's StatType.
func (f *ResultFact) Validate() error {
	if !f.StatType.IsValid() {
		return NewValidationError("stat_type", "unknown stat type")
	}
	if f.Dim1Question == "" || f.Dim1Option == "" {
		return NewValidationError("dim1", "required")
	}

	switch f.StatType {
	case StatTypeSimple:
		if f.Simple == nil || f.Cross != nil || f.Summary != nil {
			return NewValidationError("measures", "simple fact must carry exactly the simple measure")
		}
		if f.Dim2Question != nil || f.TargetQuestion != nil {
			return NewValidationError("dimensions", "simple fact must not carry dim2 or target")
		}
	case StatTypeCross2:
		if f.Cross == nil || f.Simple != nil || f.Summary != nil {
			return NewValidationError("measures", "cross2 fact must carry exactly the cross measure")
		}
		if f.Dim2Question == nil || f.Dim2Option == nil {
			return NewValidationError("dim2", "required for cross2")
		}
		if f.TargetQuestion != nil {
			return NewValidationError("target_question", "not allowed for cross2")
		}
	case StatTypeSummary:
		if f.Summary == nil || f.Simple != nil || f.Cross != nil {
			return NewValidationError("measures", "summary fact must carry exactly the summary measure")
		}
		if f.TargetQuestion == nil {
			return NewValidationError("target_question", "required for summary")
		}
		if f.Dim2Question != nil || f.Dim2Option != nil {
			return NewValidationError("dim2", "not allowed for summary")
		}
	}

	return nil
}
