package results

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// CreateResultSetInput holds the parameters of one aggregation run.
type CreateResultSetInput struct {
	LectureID      uuid.UUID
	ClosedAt       time.Time
	TotalResponses int
}

// Validate checks the timestamp window and the response-count bounds.
// The future bound is evaluated against the injected now, never the
// ambient clock.
func (i CreateResultSetInput) Validate(now time.Time) error {
	var errs []domain.FieldError

	if i.LectureID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "lecture_id", Message: "required"})
	}
	if i.ClosedAt.Before(epochFloor) {
		errs = append(errs, domain.FieldError{Field: "closed_at", Message: "before epoch floor"})
	}
	if i.ClosedAt.After(now.Add(maxClosedAtFuture)) {
		errs = append(errs, domain.FieldError{Field: "closed_at", Message: "more than one year in the future"})
	}
	if i.TotalResponses < 0 {
		errs = append(errs, domain.FieldError{Field: "total_responses", Message: "must be non-negative"})
	}
	if i.TotalResponses > domain.MaxTotalResponses {
		errs = append(errs, domain.FieldError{Field: "total_responses", Message: "exceeds hard ceiling"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreateResultSet inserts the immutable snapshot of one aggregation run.
//
// Preconditions, checked before any write: the input is well-formed, the
// lecture exists and is in an analyzable state (CLOSED or ANALYZED), and
// no result set exists yet for this exact (lecture, closedAt) pair. The
// duplicate lookup is the fast path with a precise error; the unique
// index behind CreateResultSet settles concurrent races.
//
// The persisted createdAt equals closedAt: creation time is defined by
// the business event, not by the wall clock at insert.
func (s *Service) CreateResultSet(ctx context.Context, input CreateResultSetInput, now time.Time) (*domain.ResultSet, error) {
	if err := input.Validate(now); err != nil {
		return nil, err
	}

	lecture, err := s.lectures.GetByID(ctx, input.LectureID)
	if err != nil {
		return nil, fmt.Errorf("create result set: %w", err)
	}
	if !lecture.SurveyStatus.IsAnalyzable() {
		return nil, fmt.Errorf("lecture %s in state %s: %w",
			lecture.ID, lecture.SurveyStatus, domain.ErrConflict)
	}

	existing, err := s.results.GetByLectureAndClosedAt(ctx, input.LectureID, input.ClosedAt)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("create result set: duplicate check: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("result set for lecture %s at %s: %w",
			input.LectureID, input.ClosedAt.Format(time.RFC3339), domain.ErrAlreadyExists)
	}

	set, err := s.results.CreateResultSet(ctx, &domain.ResultSet{
		ID:             uuid.New(),
		LectureID:      input.LectureID,
		ClosedAt:       input.ClosedAt,
		TotalResponses: input.TotalResponses,
		CreatedAt:      input.ClosedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("create result set: %w", err)
	}

	s.log.InfoContext(ctx, "result set created",
		slog.String("lecture_id", input.LectureID.String()),
		slog.String("result_set_id", set.ID.String()),
		slog.Int("total_responses", input.TotalResponses),
	)

	return set, nil
}

// SaveFacts persists all facts of a run against an existing result set.
// Facts are validated before the batch goes out. The batch runs inside a
// transaction, so a mid-batch storage failure leaves no partial facts
// behind and is surfaced unchanged; the lecture stays not-yet-analyzed.
func (s *Service) SaveFacts(ctx context.Context, set *domain.ResultSet, facts []domain.ResultFact) error {
	for i := range facts {
		if err := facts[i].Validate(); err != nil {
			return fmt.Errorf("fact %d: %w", i, err)
		}
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.results.InsertFacts(ctx, set, facts)
	})
	if err != nil {
		return fmt.Errorf("save facts: %w", err)
	}

	s.log.InfoContext(ctx, "result facts saved",
		slog.String("result_set_id", set.ID.String()),
		slog.Int("facts", len(facts)),
	)

	return nil
}
