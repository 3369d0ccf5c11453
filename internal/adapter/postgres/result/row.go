package result

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// factRow is the flat nullable-column shape of result_facts. The tagged
// union in domain.ResultFact is flattened here and nowhere else.
type factRow struct {
	ID             uuid.UUID `db:"id"`
	ResultSetID    uuid.UUID `db:"result_set_id"`
	LectureID      uuid.UUID `db:"lecture_id"`
	StatType       string    `db:"stat_type"`
	Dim1Question   string    `db:"dim1_question"`
	Dim1Option     string    `db:"dim1_option"`
	Dim2Question   *string   `db:"dim2_question"`
	Dim2Option     *string   `db:"dim2_option"`
	TargetQuestion *string   `db:"target_question"`
	N              *int      `db:"n"`
	BaseN          *int      `db:"base_n"`
	Pct            *float64  `db:"pct"`
	RowPct         *float64  `db:"row_pct"`
	RowBaseN       *int      `db:"row_base_n"`
	ColPct         *float64  `db:"col_pct"`
	ColBaseN       *int      `db:"col_base_n"`
	TotalPct       *float64  `db:"total_pct"`
	TotalBaseN     *int      `db:"total_base_n"`
	AvgScore       *float64  `db:"avg_score"`
}

// toFactRow flattens a domain fact for insertion, stamping set identity
// and a fresh row id.
func toFactRow(set *domain.ResultSet, f *domain.ResultFact) factRow {
	row := factRow{
		ID:           uuid.New(),
		ResultSetID:  set.ID,
		LectureID:    set.LectureID,
		StatType:     string(f.StatType),
		Dim1Question: string(f.Dim1Question),
		Dim1Option:   f.Dim1Option,
	}

	if f.Dim2Question != nil {
		s := string(*f.Dim2Question)
		row.Dim2Question = &s
	}
	row.Dim2Option = f.Dim2Option
	if f.TargetQuestion != nil {
		s := string(*f.TargetQuestion)
		row.TargetQuestion = &s
	}

	switch {
	case f.Simple != nil:
		row.N = &f.Simple.N
		row.BaseN = &f.Simple.BaseN
		row.Pct = &f.Simple.Pct
	case f.Cross != nil:
		row.N = &f.Cross.N
		row.RowPct = &f.Cross.RowPct
		row.RowBaseN = &f.Cross.RowBaseN
		row.ColPct = &f.Cross.ColPct
		row.ColBaseN = &f.Cross.ColBaseN
		row.TotalPct = &f.Cross.TotalPct
		row.TotalBaseN = &f.Cross.TotalBaseN
	case f.Summary != nil:
		row.AvgScore = &f.Summary.AvgScore
	}

	return row
}

// toDomainFact rebuilds the tagged union from a flat row. A row whose
// nullable measures do not match its stat_type is data corruption and is
// reported as an error rather than silently skipped.
func toDomainFact(row *factRow) (domain.ResultFact, error) {
	f := domain.ResultFact{
		ID:           row.ID,
		ResultSetID:  row.ResultSetID,
		LectureID:    row.LectureID,
		StatType:     domain.StatType(row.StatType),
		Dim1Question: domain.QuestionCode(row.Dim1Question),
		Dim1Option:   row.Dim1Option,
		Dim2Option:   row.Dim2Option,
	}

	if row.Dim2Question != nil {
		q := domain.QuestionCode(*row.Dim2Question)
		f.Dim2Question = &q
	}
	if row.TargetQuestion != nil {
		q := domain.QuestionCode(*row.TargetQuestion)
		f.TargetQuestion = &q
	}

	switch f.StatType {
	case domain.StatTypeSimple:
		if row.N == nil || row.BaseN == nil || row.Pct == nil {
			return domain.ResultFact{}, fmt.Errorf("result_fact %s: simple fact with missing measures", row.ID)
		}
		f.Simple = &domain.SimpleMeasure{N: *row.N, BaseN: *row.BaseN, Pct: *row.Pct}
	case domain.StatTypeCross2:
		if row.N == nil || row.RowPct == nil || row.RowBaseN == nil ||
			row.ColPct == nil || row.ColBaseN == nil || row.TotalPct == nil || row.TotalBaseN == nil {
			return domain.ResultFact{}, fmt.Errorf("result_fact %s: cross2 fact with missing measures", row.ID)
		}
		f.Cross = &domain.CrossMeasure{
			N:          *row.N,
			RowPct:     *row.RowPct,
			RowBaseN:   *row.RowBaseN,
			ColPct:     *row.ColPct,
			ColBaseN:   *row.ColBaseN,
			TotalPct:   *row.TotalPct,
			TotalBaseN: *row.TotalBaseN,
		}
	case domain.StatTypeSummary:
		if row.AvgScore == nil {
			return domain.ResultFact{}, fmt.Errorf("result_fact %s: summary fact with missing avg_score", row.ID)
		}
		f.Summary = &domain.SummaryMeasure{AvgScore: *row.AvgScore}
	default:
		return domain.ResultFact{}, fmt.Errorf("result_fact %s: unknown stat_type %q", row.ID, row.StatType)
	}

	return f, nil
}
