// Package lifecycle implements the lecture survey state machine:
// ACTIVE -> CLOSED -> ANALYZED, driven by the sweep over expired surveys.
// Transitions never skip a state and never move backward. The service
// checks state first for a descriptive error; the repository's guarded
// UPDATE is the layer that makes the transition race-safe.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// Transition precondition failures. Both unwrap to domain.ErrConflict so
// the transport and sweep layers can treat them uniformly.
var (
	ErrNotActive         = fmt.Errorf("lecture survey is not active: %w", domain.ErrConflict)
	ErrNotClosed         = fmt.Errorf("lecture survey is not closed: %w", domain.ErrConflict)
	ErrDeadlineNotPassed = fmt.Errorf("survey deadline has not passed: %w", domain.ErrConflict)
)

type lectureRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lecture, error)
	ListByStatus(ctx context.Context, status domain.SurveyStatus) ([]*domain.Lecture, error)
	MarkClosed(ctx context.Context, id uuid.UUID, closedAt time.Time) error
	MarkAnalyzed(ctx context.Context, id uuid.UUID, analyzedAt time.Time) error
}

// Service implements the survey lifecycle business logic.
type Service struct {
	lectures lectureRepo
	loc      *time.Location
	log      *slog.Logger
}

// NewService creates a lifecycle service. loc is the time zone in which
// lecture close date/time strings are interpreted.
func NewService(log *slog.Logger, lectures lectureRepo, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		lectures: lectures,
		loc:      loc,
		log:      log.With("service", "lifecycle"),
	}
}

// Location returns the zone used for deadline arithmetic.
func (s *Service) Location() *time.Location { return s.loc }
