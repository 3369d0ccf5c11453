package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// DiscoverClosable returns every ACTIVE lecture whose survey deadline is
// at or before now. Lectures already CLOSED or ANALYZED are filtered at
// the status level, which is what makes repeated sweeps idempotent.
// Lectures with malformed close strings are skipped, not failed: one bad
// row must not stall the whole scan.
func (s *Service) DiscoverClosable(ctx context.Context, now time.Time) ([]*domain.Lecture, error) {
	active, err := s.lectures.ListByStatus(ctx, domain.SurveyStatusActive)
	if err != nil {
		return nil, fmt.Errorf("discover closable lectures: %w", err)
	}

	closable := []*domain.Lecture{}
	for _, l := range active {
		if l.IsClosable(now, s.loc) {
			closable = append(closable, l)
		}
	}

	return closable, nil
}

// DiscoverUnanalyzed returns every lecture stuck in CLOSED: it was
// closed by an earlier run whose aggregation never completed. These are
// re-analyzed with a fresh cut; the earlier partial result set stays
// behind, keyed by its own closedAt.
func (s *Service) DiscoverUnanalyzed(ctx context.Context) ([]*domain.Lecture, error) {
	stuck, err := s.lectures.ListByStatus(ctx, domain.SurveyStatusClosed)
	if err != nil {
		return nil, fmt.Errorf("discover unanalyzed lectures: %w", err)
	}
	return stuck, nil
}
