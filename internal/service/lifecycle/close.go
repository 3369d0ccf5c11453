package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// Close performs the ACTIVE -> CLOSED transition for one lecture.
// now is injected by the caller (the sweep's single batch timestamp), so
// repeated runs over the same data are deterministic; it also becomes the
// lecture's closedAt, which later keys the result set.
//
// Preconditions: the lecture exists, is ACTIVE, and its combined close
// date/time in the survey zone is at or before now.
func (s *Service) Close(ctx context.Context, lectureID uuid.UUID, now time.Time) (*domain.Lecture, error) {
	lecture, err := s.lectures.GetByID(ctx, lectureID)
	if err != nil {
		return nil, fmt.Errorf("close lecture: %w", err)
	}

	if lecture.SurveyStatus != domain.SurveyStatusActive {
		return nil, fmt.Errorf("lecture %s: %w", lectureID, ErrNotActive)
	}

	deadline, err := lecture.CloseInstant(s.loc)
	if err != nil {
		return nil, fmt.Errorf("close lecture: %w: %w", err, domain.ErrValidation)
	}
	if now.Before(deadline) {
		return nil, fmt.Errorf("lecture %s: %w", lectureID, ErrDeadlineNotPassed)
	}

	if err := s.lectures.MarkClosed(ctx, lectureID, now); err != nil {
		return nil, fmt.Errorf("close lecture: %w", err)
	}

	closedAt := now
	lecture.SurveyStatus = domain.SurveyStatusClosed
	lecture.ClosedAt = &closedAt
	lecture.UpdatedAt = now

	s.log.InfoContext(ctx, "survey closed",
		slog.String("lecture_id", lectureID.String()),
		slog.Time("closed_at", closedAt),
	)

	return lecture, nil
}

// MarkAnalyzed performs the CLOSED -> ANALYZED transition. It is valid
// only immediately after a successful aggregation run for the lecture.
func (s *Service) MarkAnalyzed(ctx context.Context, lectureID uuid.UUID, analyzedAt time.Time) error {
	lecture, err := s.lectures.GetByID(ctx, lectureID)
	if err != nil {
		return fmt.Errorf("mark analyzed: %w", err)
	}

	if lecture.SurveyStatus != domain.SurveyStatusClosed {
		return fmt.Errorf("lecture %s: %w", lectureID, ErrNotClosed)
	}

	if err := s.lectures.MarkAnalyzed(ctx, lectureID, analyzedAt); err != nil {
		return fmt.Errorf("mark analyzed: %w", err)
	}

	s.log.InfoContext(ctx, "survey analyzed",
		slog.String("lecture_id", lectureID.String()),
		slog.Time("analyzed_at", analyzedAt),
	)

	return nil
}
