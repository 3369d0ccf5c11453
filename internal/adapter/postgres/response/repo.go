// Package response implements the RawResponse repository using PostgreSQL.
// The table is append-only: rows are inserted while a survey is open and
// only ever read afterwards. Duplicate-IP suppression is backed by a
// partial unique index on (lecture_id, ip_address) where ip_address is
// not null; the repository lookup is the fast path, the index is the
// source of truth.
package response

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/adapter/postgres"
	"github.com/moritahr/lecfeed-backend/internal/domain"
)

// Repo provides raw response persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new response repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

const insertSQL = `
INSERT INTO raw_responses (
    id, lecture_id, gender, age_group, understanding, satisfaction,
    comment, user_agent, ip_address, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, lecture_id, gender, age_group, understanding, satisfaction,
          comment, user_agent, ip_address, created_at`

const listByLectureSQL = `
SELECT id, lecture_id, gender, age_group, understanding, satisfaction,
       comment, user_agent, ip_address, created_at
FROM raw_responses
WHERE lecture_id = $1
ORDER BY created_at, id`

const countByLectureSQL = `SELECT count(*) FROM raw_responses WHERE lecture_id = $1`

const existsByLectureAndIPSQL = `
SELECT EXISTS (
    SELECT 1 FROM raw_responses WHERE lecture_id = $1 AND ip_address = $2
)`

// Insert stores a new response and returns the persisted row. A zero ID
// or CreatedAt is stamped here. A duplicate (lecture, ip) pair surfaces
// as domain.ErrAlreadyExists via the partial unique index.
func (r *Repo) Insert(ctx context.Context, resp *domain.RawResponse) (*domain.RawResponse, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	id := resp.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	createdAt := resp.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var out domain.RawResponse
	err := q.QueryRow(ctx, insertSQL,
		id, resp.LectureID, resp.Gender, resp.AgeGroup,
		resp.Understanding, resp.Satisfaction,
		resp.Comment, resp.UserAgent, resp.IPAddress, createdAt,
	).Scan(
		&out.ID, &out.LectureID, &out.Gender, &out.AgeGroup,
		&out.Understanding, &out.Satisfaction,
		&out.Comment, &out.UserAgent, &out.IPAddress, &out.CreatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "raw_response", resp.ID)
	}

	return &out, nil
}

// ListByLecture returns the complete response set for a lecture in
// insertion order. Returns an empty slice (not nil) when there are none.
func (r *Repo) ListByLecture(ctx context.Context, lectureID uuid.UUID) ([]domain.RawResponse, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	rows, err := q.Query(ctx, listByLectureSQL, lectureID)
	if err != nil {
		return nil, fmt.Errorf("list responses by lecture: %w", err)
	}
	defer rows.Close()

	responses := []domain.RawResponse{}
	for rows.Next() {
		var resp domain.RawResponse
		if err := rows.Scan(
			&resp.ID, &resp.LectureID, &resp.Gender, &resp.AgeGroup,
			&resp.Understanding, &resp.Satisfaction,
			&resp.Comment, &resp.UserAgent, &resp.IPAddress, &resp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}

	return responses, nil
}

// CountByLecture returns the number of responses recorded for a lecture.
func (r *Repo) CountByLecture(ctx context.Context, lectureID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, countByLectureSQL, lectureID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count responses by lecture: %w", err)
	}

	return count, nil
}

// ExistsByLectureAndIP reports whether the lecture already has a response
// from the given client IP.
func (r *Repo) ExistsByLectureAndIP(ctx context.Context, lectureID uuid.UUID, ip string) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	var exists bool
	if err := q.QueryRow(ctx, existsByLectureAndIPSQL, lectureID, ip).Scan(&exists); err != nil {
		return false, fmt.Errorf("check response by lecture and ip: %w", err)
	}

	return exists, nil
}
