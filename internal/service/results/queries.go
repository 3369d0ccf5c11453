package results

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// Analysis is a result set together with all of its facts.
type Analysis struct {
	Set   *domain.ResultSet
	Facts []domain.ResultFact
}

// BasicStatistics is the dashboard's first view: the four simple
// distributions plus the two summary averages.
type BasicStatistics struct {
	Set       *domain.ResultSet
	Simple    map[domain.QuestionCode][]domain.ResultFact
	Summaries map[domain.QuestionCode]float64
}

// CrossSlice is one named cross-tabulation of the cross-analysis view.
type CrossSlice struct {
	Dim1  domain.QuestionCode
	Dim2  domain.QuestionCode
	Facts []domain.ResultFact
}

// CrossAnalysis is the dashboard's second view: the four cross-tab slices.
type CrossAnalysis struct {
	Set    *domain.ResultSet
	Slices []CrossSlice
}

// crossViewPairs mirrors the aggregation engine's fixed pair list.
var crossViewPairs = [][2]domain.QuestionCode{
	{domain.QuestionUnderstanding, domain.QuestionGender},
	{domain.QuestionUnderstanding, domain.QuestionAgeGroup},
	{domain.QuestionSatisfaction, domain.QuestionGender},
	{domain.QuestionSatisfaction, domain.QuestionAgeGroup},
}

// LatestAnalysis returns the latest result set and all of its facts for a
// lecture. A lecture that exists but was never analyzed yields (nil, nil):
// "not yet analyzed" is an expected state, distinguished from the input
// error of a missing lecture (domain.ErrNotFound).
func (s *Service) LatestAnalysis(ctx context.Context, lectureID uuid.UUID) (*Analysis, error) {
	if _, err := s.lectures.GetByID(ctx, lectureID); err != nil {
		return nil, fmt.Errorf("latest analysis: %w", err)
	}

	set, err := s.results.GetLatestByLecture(ctx, lectureID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest analysis: %w", err)
	}

	facts, err := s.results.ListFacts(ctx, domain.FactFilter{ResultSetID: set.ID})
	if err != nil {
		return nil, fmt.Errorf("latest analysis: %w", err)
	}

	return &Analysis{Set: set, Facts: facts}, nil
}

// BasicStats returns the simple distributions for the four questions plus
// the two summary averages, all from the lecture's latest result set.
// Returns (nil, nil) when the lecture has not been analyzed yet.
func (s *Service) BasicStats(ctx context.Context, lectureID uuid.UUID) (*BasicStatistics, error) {
	analysis, err := s.LatestAnalysis(ctx, lectureID)
	if err != nil || analysis == nil {
		return nil, err
	}

	out := &BasicStatistics{
		Set:       analysis.Set,
		Simple:    make(map[domain.QuestionCode][]domain.ResultFact),
		Summaries: make(map[domain.QuestionCode]float64),
	}

	for _, f := range analysis.Facts {
		switch f.StatType {
		case domain.StatTypeSimple:
			out.Simple[f.Dim1Question] = append(out.Simple[f.Dim1Question], f)
		case domain.StatTypeSummary:
			out.Summaries[*f.TargetQuestion] = f.Summary.AvgScore
		}
	}

	return out, nil
}

// CrossStats returns the four named cross-tab slices from the lecture's
// latest result set. Returns (nil, nil) when not yet analyzed.
func (s *Service) CrossStats(ctx context.Context, lectureID uuid.UUID) (*CrossAnalysis, error) {
	if _, err := s.lectures.GetByID(ctx, lectureID); err != nil {
		return nil, fmt.Errorf("cross stats: %w", err)
	}

	set, err := s.results.GetLatestByLecture(ctx, lectureID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("cross stats: %w", err)
	}

	out := &CrossAnalysis{Set: set}
	for _, pair := range crossViewPairs {
		facts, err := s.results.ListFacts(ctx, domain.FactFilter{
			ResultSetID:  set.ID,
			StatType:     domain.StatTypeCross2,
			Dim1Question: pair[0],
			Dim2Question: pair[1],
		})
		if err != nil {
			return nil, fmt.Errorf("cross stats: %w", err)
		}
		out.Slices = append(out.Slices, CrossSlice{Dim1: pair[0], Dim2: pair[1], Facts: facts})
	}

	return out, nil
}

// SimpleDistribution returns the simple facts of one question from the
// lecture's latest result set. Returns (nil, nil) when not yet analyzed.
func (s *Service) SimpleDistribution(ctx context.Context, lectureID uuid.UUID, question domain.QuestionCode) ([]domain.ResultFact, error) {
	if !question.IsValid() {
		return nil, domain.NewValidationError("question", "unknown question code")
	}

	if _, err := s.lectures.GetByID(ctx, lectureID); err != nil {
		return nil, fmt.Errorf("simple distribution: %w", err)
	}

	set, err := s.results.GetLatestByLecture(ctx, lectureID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("simple distribution: %w", err)
	}

	facts, err := s.results.ListFacts(ctx, domain.FactFilter{
		ResultSetID:  set.ID,
		StatType:     domain.StatTypeSimple,
		Dim1Question: question,
	})
	if err != nil {
		return nil, fmt.Errorf("simple distribution: %w", err)
	}

	return facts, nil
}
