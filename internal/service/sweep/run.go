package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/moritahr/lecfeed-backend/internal/domain"
	"github.com/moritahr/lecfeed-backend/internal/service/results"
	"github.com/moritahr/lecfeed-backend/internal/service/stats"
)

// outcome is the settled result of one lecture's pipeline.
type outcome struct {
	lectureID uuid.UUID
	closed    bool
	analyzed  bool
	stage     string
	err       error
}

// Run executes one sweep: every ACTIVE lecture whose deadline has passed
// at now is closed and analyzed, and every lecture a previous run left
// stuck in CLOSED is re-analyzed with this run's cut. Pipelines run
// concurrently up to the configured limit; each records its own settled
// outcome and never fails the group, so one broken lecture cannot starve
// the others.
//
// The same now stamps the closure, the result set's closedAt, and the
// ANALYZED transition, keeping one run's artifacts mutually consistent.
func (s *Service) Run(ctx context.Context, now time.Time) (*Summary, error) {
	started := time.Now()

	candidates, err := s.lifecycle.DiscoverClosable(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("sweep: discover: %w", err)
	}

	stuck, err := s.lifecycle.DiscoverUnanalyzed(ctx)
	if err != nil {
		return nil, fmt.Errorf("sweep: discover stuck: %w", err)
	}
	candidates = append(candidates, stuck...)

	s.log.InfoContext(ctx, "sweep started",
		slog.Int("candidates", len(candidates)),
		slog.Time("cut", now),
	)

	outcomes := make([]outcome, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, lecture := range candidates {
		g.Go(func() error {
			outcomes[i] = s.runPipeline(gctx, lecture, now)
			return nil
		})
	}
	_ = g.Wait() // pipelines settle, they never return errors

	summary := s.summarize(outcomes)
	summary.Candidates = len(candidates)
	summary.Duration = time.Since(started)

	s.log.InfoContext(ctx, "sweep finished",
		slog.Int("candidates", summary.Candidates),
		slog.Int("closed", summary.Closed),
		slog.Int("close_failed", summary.CloseFailed),
		slog.Int("analyzed", summary.Analyzed),
		slog.Int("analyze_failed", summary.AnalyzeFailed),
		slog.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// runPipeline drives one lecture from ACTIVE to ANALYZED. Any failure
// after closure leaves the lecture CLOSED; a later run picks it up again
// and redoes the analysis under a fresh cut timestamp. A lecture that
// arrives already CLOSED skips the transition and goes straight to
// aggregation.
func (s *Service) runPipeline(ctx context.Context, lecture *domain.Lecture, now time.Time) outcome {
	out := outcome{lectureID: lecture.ID}

	if lecture.SurveyStatus == domain.SurveyStatusActive {
		if _, err := s.lifecycle.Close(ctx, lecture.ID, now); err != nil {
			out.stage, out.err = StageClose, err
			return out
		}
	}
	out.closed = true

	responses, err := s.responses.ListByLecture(ctx, lecture.ID)
	if err != nil {
		out.stage, out.err = StageFetchResponses, err
		return out
	}

	facts := stats.Aggregate(responses)

	set, err := s.results.CreateResultSet(ctx, results.CreateResultSetInput{
		LectureID:      lecture.ID,
		ClosedAt:       now,
		TotalResponses: len(responses),
	}, now)
	if err != nil {
		out.stage, out.err = StageCreateResultSet, err
		return out
	}

	if err := s.results.SaveFacts(ctx, set, facts); err != nil {
		out.stage, out.err = StageSaveFacts, err
		return out
	}

	if err := s.lifecycle.MarkAnalyzed(ctx, lecture.ID, now); err != nil {
		out.stage, out.err = StageMarkAnalyzed, err
		return out
	}
	out.analyzed = true
	return out
}

func (s *Service) summarize(outcomes []outcome) *Summary {
	summary := &Summary{}
	for _, out := range outcomes {
		switch {
		case !out.closed:
			summary.CloseFailed++
		case out.analyzed:
			summary.Closed++
			summary.Analyzed++
		default:
			summary.Closed++
			summary.AnalyzeFailed++
		}
		if out.err != nil {
			summary.Failures = append(summary.Failures, Failure{
				LectureID: out.lectureID,
				Stage:     out.stage,
				Message:   out.err.Error(),
			})
			s.log.Error("lecture pipeline failed",
				slog.String("lecture_id", out.lectureID.String()),
				slog.String("stage", out.stage),
				slog.String("error", out.err.Error()),
			)
		}
	}
	return summary
}

// String renders the one-line operator summary.
func (s *Summary) String() string {
	return fmt.Sprintf("sweep: %d candidates, %d closed (%d failed), %d analyzed (%d failed) in %s",
		s.Candidates, s.Closed, s.CloseFailed, s.Analyzed, s.AnalyzeFailed, s.Duration.Round(time.Millisecond))
}
