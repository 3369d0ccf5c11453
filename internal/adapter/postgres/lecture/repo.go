// Package lecture implements the Lecture repository using PostgreSQL.
// Lifecycle transitions are guarded UPDATEs conditioned on the current
// status, so a concurrent sweep cannot move a lecture backward or skip
// a state even if the service-level check raced.
package lecture

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/moritahr/lecfeed-backend/internal/adapter/postgres"
	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// Repo provides lecture persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new lecture repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

const lectureColumns = `
    id, owner_id, title, lecture_date, lecture_time, close_date, close_time,
    survey_status, closed_at, analyzed_at, created_at, updated_at`

const getByIDSQL = `
SELECT` + lectureColumns + `
FROM lectures
WHERE id = $1`

const listByStatusSQL = `
SELECT` + lectureColumns + `
FROM lectures
WHERE survey_status = $1
ORDER BY close_date, close_time, id`

const listByOwnerSQL = `
SELECT` + lectureColumns + `
FROM lectures
WHERE owner_id = $1
ORDER BY lecture_date DESC, lecture_time DESC, id`

const listByOwnerAndStatusSQL = `
SELECT` + lectureColumns + `
FROM lectures
WHERE owner_id = $1 AND survey_status = $2
ORDER BY lecture_date DESC, lecture_time DESC, id`

const createSQL = `
INSERT INTO lectures (
    id, owner_id, title, lecture_date, lecture_time, close_date, close_time,
    survey_status, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
RETURNING` + lectureColumns

const markClosedSQL = `
UPDATE lectures
SET survey_status = $2, closed_at = $3, updated_at = $4
WHERE id = $1 AND survey_status = $5`

const markAnalyzedSQL = `
UPDATE lectures
SET survey_status = $2, analyzed_at = $3, updated_at = $4
WHERE id = $1 AND survey_status = $5`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a lecture by primary key.
// Returns domain.ErrNotFound if the lecture does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lecture, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	l, err := scanLecture(q.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "lecture", id)
	}

	return l, nil
}

// ListByStatus returns all lectures in the given lifecycle state, ordered
// by close date/time. Returns an empty slice (not nil) when none match.
func (r *Repo) ListByStatus(ctx context.Context, status domain.SurveyStatus) ([]*domain.Lecture, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listByStatusSQL, status)
	if err != nil {
		return nil, fmt.Errorf("list lectures by status: %w", err)
	}
	defer rows.Close()

	return collectLectures(rows)
}

// ListByOwner returns all lectures owned by a user, newest first.
func (r *Repo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Lecture, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listByOwnerSQL, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list lectures by owner: %w", err)
	}
	defer rows.Close()

	return collectLectures(rows)
}

// ListByOwnerAndStatus returns a user's lectures in the given state,
// newest first.
func (r *Repo) ListByOwnerAndStatus(ctx context.Context, ownerID uuid.UUID, status domain.SurveyStatus) ([]*domain.Lecture, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listByOwnerAndStatusSQL, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("list lectures by owner and status: %w", err)
	}
	defer rows.Close()

	return collectLectures(rows)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new lecture in ACTIVE state and returns the persisted
// row. A zero ID or CreatedAt is stamped here.
func (r *Repo) Create(ctx context.Context, l *domain.Lecture) (*domain.Lecture, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	id := l.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := l.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	created, err := scanLecture(q.QueryRow(ctx, createSQL,
		id, l.OwnerID, l.Title, l.LectureDate, l.LectureTime,
		l.CloseDate, l.CloseTime, l.SurveyStatus, createdAt,
	))
	if err != nil {
		return nil, postgres.MapError(err, "lecture", l.ID)
	}

	return created, nil
}

// MarkClosed performs the ACTIVE -> CLOSED transition. The UPDATE is
// conditioned on the current status; 0 affected rows means the lecture is
// missing or not ACTIVE anymore, reported as domain.ErrConflict.
func (r *Repo) MarkClosed(ctx context.Context, id uuid.UUID, closedAt time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, markClosedSQL,
		id, domain.SurveyStatusClosed, closedAt, closedAt, domain.SurveyStatusActive,
	)
	if err != nil {
		return postgres.MapError(err, "lecture", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lecture %s: not in %s state: %w", id, domain.SurveyStatusActive, domain.ErrConflict)
	}

	return nil
}

// MarkAnalyzed performs the CLOSED -> ANALYZED transition with the same
// guarded-update contract as MarkClosed.
func (r *Repo) MarkAnalyzed(ctx context.Context, id uuid.UUID, analyzedAt time.Time) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	tag, err := q.Exec(ctx, markAnalyzedSQL,
		id, domain.SurveyStatusAnalyzed, analyzedAt, analyzedAt, domain.SurveyStatusClosed,
	)
	if err != nil {
		return postgres.MapError(err, "lecture", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lecture %s: not in %s state: %w", id, domain.SurveyStatusClosed, domain.ErrConflict)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Scanning helpers
// ---------------------------------------------------------------------------

func scanLecture(row pgx.Row) (*domain.Lecture, error) {
	var l domain.Lecture
	err := row.Scan(
		&l.ID, &l.OwnerID, &l.Title, &l.LectureDate, &l.LectureTime,
		&l.CloseDate, &l.CloseTime, &l.SurveyStatus,
		&l.ClosedAt, &l.AnalyzedAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func collectLectures(rows pgx.Rows) ([]*domain.Lecture, error) {
	lectures := []*domain.Lecture{}
	for rows.Next() {
		l, err := scanLecture(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lecture: %w", err)
		}
		lectures = append(lectures, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lectures: %w", err)
	}
	return lectures, nil
}
