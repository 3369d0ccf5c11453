// Package sweep runs the scheduled batch that closes expired surveys and
// turns their raw responses into persisted result sets. One run is a
// fan-out of independent per-lecture pipelines: a failure in one pipeline
// is recorded and never aborts the rest of the batch.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
	"github.com/moritahr/lecfeed-backend/internal/service/results"
)

// DefaultConcurrency caps simultaneous per-lecture pipelines when no
// limit is configured.
const DefaultConcurrency = 4

// Pipeline stages, reported on failure so operators can tell a closure
// problem from an analysis problem.
const (
	StageClose           = "close"
	StageFetchResponses  = "fetchResponses"
	StageCreateResultSet = "createResultSet"
	StageSaveFacts       = "saveFacts"
	StageMarkAnalyzed    = "markAnalyzed"
)

type lifecycleService interface {
	DiscoverClosable(ctx context.Context, now time.Time) ([]*domain.Lecture, error)
	DiscoverUnanalyzed(ctx context.Context) ([]*domain.Lecture, error)
	Close(ctx context.Context, lectureID uuid.UUID, now time.Time) (*domain.Lecture, error)
	MarkAnalyzed(ctx context.Context, lectureID uuid.UUID, analyzedAt time.Time) error
}

type resultWriter interface {
	CreateResultSet(ctx context.Context, input results.CreateResultSetInput, now time.Time) (*domain.ResultSet, error)
	SaveFacts(ctx context.Context, set *domain.ResultSet, facts []domain.ResultFact) error
}

type responseReader interface {
	ListByLecture(ctx context.Context, lectureID uuid.UUID) ([]domain.RawResponse, error)
}

// Failure identifies one lecture whose pipeline did not finish, and where
// it stopped.
type Failure struct {
	LectureID uuid.UUID
	Stage     string
	Message   string
}

// Summary is the settled outcome of one sweep run.
type Summary struct {
	Candidates    int
	Closed        int
	CloseFailed   int
	Analyzed      int
	AnalyzeFailed int
	Failures      []Failure
	Duration      time.Duration
}

// Service orchestrates the close-and-analyze batch.
type Service struct {
	lifecycle   lifecycleService
	results     resultWriter
	responses   responseReader
	concurrency int
	log         *slog.Logger
}

// NewService creates a sweep service. concurrency <= 0 selects the
// default limit.
func NewService(log *slog.Logger, lifecycle lifecycleService, results resultWriter, responses responseReader, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		lifecycle:   lifecycle,
		results:     results,
		responses:   responses,
		concurrency: concurrency,
		log:         log.With("service", "sweep"),
	}
}
