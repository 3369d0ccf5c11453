// Package stats is the aggregation engine: a pure, deterministic
// computation from a lecture's raw response set to its result facts.
// It performs no I/O; persistence and lifecycle checks belong to callers.
//
// Three statistic families are produced over the same response set:
//
//   - simple: univariate distribution per closed-ended question
//   - cross2: bivariate cross-tabulation for four fixed question pairs
//   - summary: unconditioned mean per rating question
//
// Zero-count cells are emitted (full vocabulary grid) so dashboards never
// have to distinguish "absent" from "zero".
package stats

import (
	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// simpleQuestions are the closed-ended questions that get a univariate
// distribution, in output order.
var simpleQuestions = []domain.QuestionCode{
	domain.QuestionGender,
	domain.QuestionAgeGroup,
	domain.QuestionUnderstanding,
	domain.QuestionSatisfaction,
}

// crossPairs are the (rating x categorical) slices dashboards consume.
// The rating question is always dim1.
var crossPairs = [][2]domain.QuestionCode{
	{domain.QuestionUnderstanding, domain.QuestionGender},
	{domain.QuestionUnderstanding, domain.QuestionAgeGroup},
	{domain.QuestionSatisfaction, domain.QuestionGender},
	{domain.QuestionSatisfaction, domain.QuestionAgeGroup},
}

// summaryQuestions are the rating questions that get a scalar average.
var summaryQuestions = []domain.QuestionCode{
	domain.QuestionUnderstanding,
	domain.QuestionSatisfaction,
}

// Aggregate computes the complete fact set for one lecture's responses.
// It is fully deterministic: the same response multiset yields the same
// facts in the same order (vocabulary order, not input order). Identity
// fields (result set id, lecture id, row ids) are stamped at persistence
// time by the caller.
func Aggregate(responses []domain.RawResponse) []domain.ResultFact {
	facts := make([]domain.ResultFact, 0, factCount())

	facts = append(facts, simpleFacts(responses)...)
	facts = append(facts, crossFacts(responses)...)
	facts = append(facts, summaryFacts(responses)...)

	return facts
}

// factCount is the fixed output size: every vocabulary cell is emitted
// regardless of the response set.
func factCount() int {
	n := 0
	for _, q := range simpleQuestions {
		n += len(optionsFor(q))
	}
	for _, pair := range crossPairs {
		n += len(optionsFor(pair[0])) * len(optionsFor(pair[1]))
	}
	n += len(summaryQuestions)
	return n
}

// optionsFor returns the full option vocabulary of a question in its
// canonical order.
func optionsFor(q domain.QuestionCode) []string {
	switch q {
	case domain.QuestionGender:
		genders := domain.GenderOptions()
		opts := make([]string, len(genders))
		for i, g := range genders {
			opts[i] = string(g)
		}
		return opts
	case domain.QuestionAgeGroup:
		groups := domain.AgeGroupOptions()
		opts := make([]string, len(groups))
		for i, a := range groups {
			opts[i] = string(a)
		}
		return opts
	case domain.QuestionUnderstanding, domain.QuestionSatisfaction:
		return domain.RatingOptions()
	}
	return nil
}

// pct computes n/base*100, defined as 0 when the denominator is 0 so an
// empty response set never produces NaN.
func pct(n, base int) float64 {
	if base == 0 {
		return 0
	}
	return float64(n) / float64(base) * 100
}
