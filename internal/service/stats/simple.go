package stats

import "github.com/moritahr/lecfeed-backend/internal/domain"

// simpleFacts computes the univariate distribution of every closed-ended
// question: one fact per (question, option) with n, baseN and an
// unrounded percentage.
func simpleFacts(responses []domain.RawResponse) []domain.ResultFact {
	baseN := len(responses)
	var facts []domain.ResultFact

	for _, q := range simpleQuestions {
		counts := make(map[string]int)
		for i := range responses {
			counts[responses[i].Option(q)]++
		}

		for _, opt := range optionsFor(q) {
			n := counts[opt]
			facts = append(facts, domain.ResultFact{
				StatType:     domain.StatTypeSimple,
				Dim1Question: q,
				Dim1Option:   opt,
				Simple: &domain.SimpleMeasure{
					N:     n,
					BaseN: baseN,
					Pct:   pct(n, baseN),
				},
			})
		}
	}

	return facts
}
