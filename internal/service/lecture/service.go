// Package lecture implements owner-facing lecture management: creating a
// lecture with its survey window and reading it back. Lifecycle
// transitions live elsewhere; this package never mutates survey status.
package lecture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

const titleMaxLen = 255

type lectureRepo interface {
	Create(ctx context.Context, l *domain.Lecture) (*domain.Lecture, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lecture, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Lecture, error)
	ListByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status domain.SurveyStatus) ([]*domain.Lecture, error)
}

// Service implements lecture management.
type Service struct {
	lectures lectureRepo
	loc      *time.Location
	log      *slog.Logger
}

// NewService creates a lecture service. loc is the zone close date/time
// strings are interpreted in; nil falls back to UTC.
func NewService(log *slog.Logger, lectures lectureRepo, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		lectures: lectures,
		loc:      loc,
		log:      log.With("service", "lecture"),
	}
}

// CreateInput holds parameters for lecture creation.
type CreateInput struct {
	OwnerID     uuid.UUID
	Title       string
	LectureDate string
	LectureTime string
	CloseDate   string
	CloseTime   string
}

// Validate validates the creation input. Date and time strings must parse
// in their canonical layouts so the closure sweep can always compute the
// deadline.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.OwnerID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "owner_id", Message: "required"})
	}
	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > titleMaxLen {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long"})
	}

	if _, err := time.Parse(domain.DateLayout, i.LectureDate); err != nil {
		errs = append(errs, domain.FieldError{Field: "lecture_date", Message: "must be YYYY-MM-DD"})
	}
	if _, err := time.Parse(domain.TimeLayout, i.LectureTime); err != nil {
		errs = append(errs, domain.FieldError{Field: "lecture_time", Message: "must be HH:MM"})
	}
	if _, err := time.Parse(domain.DateLayout, i.CloseDate); err != nil {
		errs = append(errs, domain.FieldError{Field: "close_date", Message: "must be YYYY-MM-DD"})
	}
	if _, err := time.Parse(domain.TimeLayout, i.CloseTime); err != nil {
		errs = append(errs, domain.FieldError{Field: "close_time", Message: "must be HH:MM"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Create inserts a new lecture with its survey ACTIVE.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Lecture, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.lectures.Create(ctx, &domain.Lecture{
		OwnerID:      input.OwnerID,
		Title:        input.Title,
		LectureDate:  input.LectureDate,
		LectureTime:  input.LectureTime,
		CloseDate:    input.CloseDate,
		CloseTime:    input.CloseTime,
		SurveyStatus: domain.SurveyStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("create lecture: %w", err)
	}

	s.log.InfoContext(ctx, "lecture created",
		slog.String("lecture_id", created.ID.String()),
		slog.String("owner_id", created.OwnerID.String()),
		slog.String("closes", created.CloseDate+" "+created.CloseTime),
	)
	return created, nil
}

// GetForOwner returns a lecture after verifying ownership. Another
// owner's lecture is domain.ErrForbidden, not a 404, because lecture IDs
// are shared openly in survey links.
func (s *Service) GetForOwner(ctx context.Context, ownerID, lectureID uuid.UUID) (*domain.Lecture, error) {
	l, err := s.lectures.GetByID(ctx, lectureID)
	if err != nil {
		return nil, fmt.Errorf("get lecture: %w", err)
	}
	if l.OwnerID != ownerID {
		return nil, fmt.Errorf("lecture %s: %w", lectureID, domain.ErrForbidden)
	}
	return l, nil
}

// Get returns a lecture without an ownership check, for the public
// submission page to display title and status.
func (s *Service) Get(ctx context.Context, lectureID uuid.UUID) (*domain.Lecture, error) {
	l, err := s.lectures.GetByID(ctx, lectureID)
	if err != nil {
		return nil, fmt.Errorf("get lecture: %w", err)
	}
	return l, nil
}

// ListForOwner returns the owner's lectures, optionally filtered by
// survey status, newest first.
func (s *Service) ListForOwner(ctx context.Context, ownerID uuid.UUID, status domain.SurveyStatus) ([]*domain.Lecture, error) {
	if status != "" && !status.IsValid() {
		return nil, domain.NewValidationError("status", "unknown survey status")
	}

	var (
		lectures []*domain.Lecture
		err      error
	)
	if status == "" {
		lectures, err = s.lectures.ListByOwner(ctx, ownerID)
	} else {
		lectures, err = s.lectures.ListByOwnerAndStatus(ctx, ownerID, status)
	}
	if err != nil {
		return nil, fmt.Errorf("list lectures: %w", err)
	}
	return lectures, nil
}

// Location returns the zone close date/time strings are interpreted in.
func (s *Service) Location() *time.Location { return s.loc }
