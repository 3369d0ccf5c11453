package stats

import "github.com/moritahr/lecfeed-backend/internal/domain"

// crossFacts computes the four fixed cross-tabulations. Every cell of the
// combinatorial grid is emitted, including zero-count cells, with row,
// column and total percentages alongside their denominators.
func crossFacts(responses []domain.RawResponse) []domain.ResultFact {
	grandTotal := len(responses)
	var facts []domain.ResultFact

	for _, pair := range crossPairs {
		dim1, dim2 := pair[0], pair[1]
		dim1Opts := optionsFor(dim1)
		dim2Opts := optionsFor(dim2)

		type cellKey struct{ d1, d2 string }
		cells := make(map[cellKey]int)
		rowTotals := make(map[string]int)
		colTotals := make(map[string]int)

		for i := range responses {
			d1 := responses[i].Option(dim1)
			d2 := responses[i].Option(dim2)
			cells[cellKey{d1, d2}]++
			rowTotals[d1]++
			colTotals[d2]++
		}

		for _, o1 := range dim1Opts {
			for _, o2 := range dim2Opts {
				n := cells[cellKey{o1, o2}]
				d2q := dim2
				d2o := o2
				facts = append(facts, domain.ResultFact{
					StatType:     domain.StatTypeCross2,
					Dim1Question: dim1,
					Dim1Option:   o1,
					Dim2Question: &d2q,
					Dim2Option:   &d2o,
					Cross: &domain.CrossMeasure{
						N:          n,
						RowPct:     pct(n, rowTotals[o1]),
						RowBaseN:   rowTotals[o1],
						ColPct:     pct(n, colTotals[o2]),
						ColBaseN:   colTotals[o2],
						TotalPct:   pct(n, grandTotal),
						TotalBaseN: grandTotal,
					},
				})
			}
		}
	}

	return facts
}
