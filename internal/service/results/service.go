// Package results owns ResultSet persistence and the read side consumed
// by dashboards. Dashboards only ever read from here; they never
// recompute statistics from raw responses.
package results

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// epochFloor is the sanity floor for closedAt timestamps. A cut before it
// means a corrupted clock, not a real survey.
var epochFloor = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// maxClosedAtFuture bounds how far in the future a closedAt may lie
// relative to the wall clock, guarding against clock-skew corruption.
const maxClosedAtFuture = 365 * 24 * time.Hour

type resultRepo interface {
	CreateResultSet(ctx context.Context, set *domain.ResultSet) (*domain.ResultSet, error)
	GetByLectureAndClosedAt(ctx context.Context, lectureID uuid.UUID, closedAt time.Time) (*domain.ResultSet, error)
	GetLatestByLecture(ctx context.Context, lectureID uuid.UUID) (*domain.ResultSet, error)
	InsertFacts(ctx context.Context, set *domain.ResultSet, facts []domain.ResultFact) error
	ListFacts(ctx context.Context, filter domain.FactFilter) ([]domain.ResultFact, error)
	LatestSummaryAverages(ctx context.Context, lectureIDs []uuid.UUID, target domain.QuestionCode) ([]float64, error)
}

type lectureRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lecture, error)
	ListByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status domain.SurveyStatus) ([]*domain.Lecture, error)
}

// txRunner runs a callback inside a database transaction. Repositories
// pick the transaction up through the context.
type txRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements result persistence and dashboard queries.
type Service struct {
	results  resultRepo
	lectures lectureRepo
	tx       txRunner
	log      *slog.Logger
}

// NewService creates a results service.
func NewService(log *slog.Logger, results resultRepo, lectures lectureRepo, tx txRunner) *Service {
	return &Service{
		results:  results,
		lectures: lectures,
		tx:       tx,
		log:      log.With("service", "results"),
	}
}
