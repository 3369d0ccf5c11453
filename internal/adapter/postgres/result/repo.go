// Package result implements ResultSet and ResultFact persistence using
// PostgreSQL. ResultSets are guarded by a unique index on
// (lecture_id, closed_at); facts are written in one pgx batch. Fact reads
// go through a squirrel-built query because dashboards filter by an
// optional combination of stat type and question codes.
package result

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/moritahr/lecfeed-backend/internal/adapter/postgres"
	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// Repo provides result persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new result repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ---------------------------------------------------------------------------
// ResultSet operations
// ---------------------------------------------------------------------------

const createSetSQL = `
INSERT INTO result_sets (id, lecture_id, closed_at, total_responses, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, lecture_id, closed_at, total_responses, created_at`

const getSetByLectureAndClosedAtSQL = `
SELECT id, lecture_id, closed_at, total_responses, created_at
FROM result_sets
WHERE lecture_id = $1 AND closed_at = $2`

const getLatestSetByLectureSQL = `
SELECT id, lecture_id, closed_at, total_responses, created_at
FROM result_sets
WHERE lecture_id = $1
ORDER BY closed_at DESC
LIMIT 1`

// CreateResultSet inserts a new immutable result set. A concurrent insert
// for the same (lecture, closedAt) pair loses at the unique index and
// surfaces as domain.ErrAlreadyExists.
func (r *Repo) CreateResultSet(ctx context.Context, set *domain.ResultSet) (*domain.ResultSet, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var out domain.ResultSet
	err := q.QueryRow(ctx, createSetSQL,
		set.ID, set.LectureID, set.ClosedAt, set.TotalResponses, set.CreatedAt,
	).Scan(&out.ID, &out.LectureID, &out.ClosedAt, &out.TotalResponses, &out.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "result_set", set.ID)
	}

	return &out, nil
}

// GetByLectureAndClosedAt returns the result set for an exact
// (lecture, closedAt) pair. Returns domain.ErrNotFound when absent.
func (r *Repo) GetByLectureAndClosedAt(ctx context.Context, lectureID uuid.UUID, closedAt time.Time) (*domain.ResultSet, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var set domain.ResultSet
	err := q.QueryRow(ctx, getSetByLectureAndClosedAtSQL, lectureID, closedAt).
		Scan(&set.ID, &set.LectureID, &set.ClosedAt, &set.TotalResponses, &set.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "result_set", lectureID)
	}

	return &set, nil
}

// GetLatestByLecture returns the most recent result set for a lecture,
// where "latest" means maximum closed_at. Returns domain.ErrNotFound when
// the lecture has never been analyzed.
func (r *Repo) GetLatestByLecture(ctx context.Context, lectureID uuid.UUID) (*domain.ResultSet, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var set domain.ResultSet
	err := q.QueryRow(ctx, getLatestSetByLectureSQL, lectureID).
		Scan(&set.ID, &set.LectureID, &set.ClosedAt, &set.TotalResponses, &set.CreatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "result_set", lectureID)
	}

	return &set, nil
}

// ---------------------------------------------------------------------------
// ResultFact operations
// ---------------------------------------------------------------------------

const insertFactSQL = `
INSERT INTO result_facts (
    id, result_set_id, lecture_id, stat_type,
    dim1_question, dim1_option, dim2_question, dim2_option, target_question,
    n, base_n, pct,
    row_pct, row_base_n, col_pct, col_base_n, total_pct, total_base_n,
    avg_score
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

var factColumns = []string{
	"id", "result_set_id", "lecture_id", "stat_type",
	"dim1_question", "dim1_option", "dim2_question", "dim2_option", "target_question",
	"n", "base_n", "pct",
	"row_pct", "row_base_n", "col_pct", "col_base_n", "total_pct", "total_base_n",
	"avg_score",
}

// InsertFacts writes all facts of a run in one pgx batch, stamping each
// fact with the owning set's identity and a fresh row id. A mid-batch
// failure aborts the remaining queued inserts; the caller treats the
// lecture as not yet analyzed.
func (r *Repo) InsertFacts(ctx context.Context, set *domain.ResultSet, facts []domain.ResultFact) error {
	if len(facts) == 0 {
		return nil
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	batch := &pgx.Batch{}
	for i := range facts {
		row := toFactRow(set, &facts[i])
		batch.Queue(insertFactSQL,
			row.ID, row.ResultSetID, row.LectureID, row.StatType,
			row.Dim1Question, row.Dim1Option, row.Dim2Question, row.Dim2Option, row.TargetQuestion,
			row.N, row.BaseN, row.Pct,
			row.RowPct, row.RowBaseN, row.ColPct, row.ColBaseN, row.TotalPct, row.TotalBaseN,
			row.AvgScore,
		)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return postgres.MapError(err, "result_fact", set.ID)
		}
	}

	return nil
}

// ListFacts returns the facts matching the filter. Consumers do not rely
// on row order, but the query orders by dimension codes for stable output.
func (r *Repo) ListFacts(ctx context.Context, filter domain.FactFilter) ([]domain.ResultFact, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	builder := psql.Select(factColumns...).From("result_facts")
	if filter.ResultSetID != uuid.Nil {
		builder = builder.Where(sq.Eq{"result_set_id": filter.ResultSetID})
	}
	if filter.LectureID != uuid.Nil {
		builder = builder.Where(sq.Eq{"lecture_id": filter.LectureID})
	}
	if filter.StatType != "" {
		builder = builder.Where(sq.Eq{"stat_type": filter.StatType})
	}
	if filter.Dim1Question != "" {
		builder = builder.Where(sq.Eq{"dim1_question": filter.Dim1Question})
	}
	if filter.Dim2Question != "" {
		builder = builder.Where(sq.Eq{"dim2_question": filter.Dim2Question})
	}
	if filter.TargetQuestion != "" {
		builder = builder.Where(sq.Eq{"target_question": filter.TargetQuestion})
	}
	builder = builder.OrderBy("stat_type", "dim1_question", "dim1_option", "dim2_question", "dim2_option")

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build fact query: %w", err)
	}

	var rows []factRow
	if err := pgxscan.Select(ctx, q, &rows, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("list result facts: %w", err)
	}

	facts := make([]domain.ResultFact, len(rows))
	for i := range rows {
		f, err := toDomainFact(&rows[i])
		if err != nil {
			return nil, err
		}
		facts[i] = f
	}

	return facts, nil
}

const latestSummaryAvgSQL = `
SELECT f.avg_score
FROM result_sets rs
JOIN result_facts f ON f.result_set_id = rs.id
WHERE rs.lecture_id = ANY($1::uuid[])
  AND f.stat_type = $2
  AND f.target_question = $3
  AND rs.closed_at = (
      SELECT max(rs2.closed_at) FROM result_sets rs2 WHERE rs2.lecture_id = rs.lecture_id
  )
ORDER BY rs.lecture_id`

// LatestSummaryAverages returns, for each given lecture that has been
// analyzed, the summary average of the target question from that lecture's
// latest result set. Lectures without a result set contribute nothing.
func (r *Repo) LatestSummaryAverages(ctx context.Context, lectureIDs []uuid.UUID, target domain.QuestionCode) ([]float64, error) {
	if len(lectureIDs) == 0 {
		return []float64{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, latestSummaryAvgSQL, lectureIDs, domain.StatTypeSummary, target)
	if err != nil {
		return nil, fmt.Errorf("latest summary averages: %w", err)
	}
	defer rows.Close()

	averages := []float64{}
	for rows.Next() {
		var avg float64
		if err := rows.Scan(&avg); err != nil {
			return nil, fmt.Errorf("scan summary average: %w", err)
		}
		averages = append(averages, avg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary averages: %w", err)
	}

	return averages, nil
}
