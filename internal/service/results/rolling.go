package results

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
	"github.com/moritahr/lecfeed-backend/internal/service/stats"
)

// RollingAverage is the cross-lecture aggregate for one rating question.
type RollingAverage struct {
	Question domain.QuestionCode
	Average  float64
	Lectures int
}

// RollingAverageForOwner averages the latest summary average of a rating
// question across all of a user's analyzed lectures.
//
// This is deliberately an average of averages, computed from persisted
// facts and NOT weighted by each lecture's response count; re-aggregating
// raw responses here would break the "dashboards read only results"
// contract. The simplification is part of the product definition.
func (s *Service) RollingAverageForOwner(ctx context.Context, ownerID uuid.UUID, question domain.QuestionCode) (*RollingAverage, error) {
	if !question.IsRating() {
		return nil, domain.NewValidationError("question", "must be a rating question")
	}

	lectures, err := s.lectures.ListByOwnerAndStatus(ctx, ownerID, domain.SurveyStatusAnalyzed)
	if err != nil {
		return nil, fmt.Errorf("rolling average: %w", err)
	}

	out := &RollingAverage{Question: question}
	if len(lectures) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(lectures))
	for i, l := range lectures {
		ids[i] = l.ID
	}

	averages, err := s.results.LatestSummaryAverages(ctx, ids, question)
	if err != nil {
		return nil, fmt.Errorf("rolling average: %w", err)
	}
	if len(averages) == 0 {
		return out, nil
	}

	sum := 0.0
	for _, avg := range averages {
		sum += avg
	}

	out.Average = stats.Round2(sum / float64(len(averages)))
	out.Lectures = len(averages)

	return out, nil
}
