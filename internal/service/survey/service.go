// Package survey implements the public, anonymous submission flow. It is
// the only write path into raw_responses; everything downstream (closure,
// aggregation) treats that table as immutable history.
package survey

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// DefaultCommentMaxLen bounds the free-text comment when no limit is
// configured.
const DefaultCommentMaxLen = 2000

// ErrSurveyNotAccepting is returned when the target lecture is no longer
// collecting responses.
var ErrSurveyNotAccepting = fmt.Errorf("survey is not accepting responses: %w", domain.ErrConflict)

type responseRepo interface {
	Insert(ctx context.Context, resp *domain.RawResponse) (*domain.RawResponse, error)
	ExistsByLectureAndIP(ctx context.Context, lectureID uuid.UUID, ip string) (bool, error)
}

type lectureRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lecture, error)
}

// Service handles anonymous survey submissions.
type Service struct {
	responses     responseRepo
	lectures      lectureRepo
	commentMaxLen int
	log           *slog.Logger
}

// NewService creates a survey service. commentMaxLen <= 0 selects the
// default limit.
func NewService(log *slog.Logger, responses responseRepo, lectures lectureRepo, commentMaxLen int) *Service {
	if commentMaxLen <= 0 {
		commentMaxLen = DefaultCommentMaxLen
	}
	return &Service{
		responses:     responses,
		lectures:      lectures,
		commentMaxLen: commentMaxLen,
		log:           log.With("service", "survey"),
	}
}
