package stats

import (
	"math"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// Round2 rounds half away from zero to two decimal places. This is the
// only rounding applied anywhere in the engine: percentages are stored
// unrounded, averages are published rounded.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// summaryFacts computes the unconditioned mean of each rating question,
// recorded under the "_total" sentinel dimension. An empty response set
// yields an average of 0 rather than an undefined value.
func summaryFacts(responses []domain.RawResponse) []domain.ResultFact {
	var facts []domain.ResultFact

	for _, q := range summaryQuestions {
		avg := 0.0
		if len(responses) > 0 {
			sum := 0
			for i := range responses {
				sum += responses[i].Rating(q)
			}
			avg = Round2(float64(sum) / float64(len(responses)))
		}

		target := q
		facts = append(facts, domain.ResultFact{
			StatType:       domain.StatTypeSummary,
			Dim1Question:   domain.QuestionTotal,
			Dim1Option:     string(domain.QuestionTotal),
			TargetQuestion: &target,
			Summary:        &domain.SummaryMeasure{AvgScore: avg},
		})
	}

	return facts
}
