package result_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/adapter/postgres/lecture"
	"github.com/moritahr/lecfeed-backend/internal/adapter/postgres/result"
	"github.com/moritahr/lecfeed-backend/internal/adapter/postgres/testhelper"
	"github.com/moritahr/lecfeed-backend/internal/domain"
)

func newRepos(t *testing.T) (*result.Repo, *lecture.Repo) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	return result.New(pool), lecture.New(pool)
}

func createLecture(t *testing.T, lectures *lecture.Repo) *domain.Lecture {
	t.Helper()
	created, err := lectures.Create(context.Background(), &domain.Lecture{
		OwnerID:      uuid.New(),
		Title:        "Integration Lecture",
		LectureDate:  "2026-04-01",
		LectureTime:  "10:00",
		CloseDate:    "2026-04-01",
		CloseTime:    "12:00",
		SurveyStatus: domain.SurveyStatusActive,
	})
	if err != nil {
		t.Fatalf("create lecture: %v", err)
	}
	return created
}

func createSet(t *testing.T, results *result.Repo, lectureID uuid.UUID, closedAt time.Time) *domain.ResultSet {
	t.Helper()
	set, err := results.CreateResultSet(context.Background(), &domain.ResultSet{
		ID:             uuid.New(),
		LectureID:      lectureID,
		ClosedAt:       closedAt,
		TotalResponses: 10,
		CreatedAt:      closedAt,
	})
	if err != nil {
		t.Fatalf("create result set: %v", err)
	}
	return set
}

func TestRepo_CreateResultSet_DuplicateCut(t *testing.T) {
	t.Parallel()
	results, lectures := newRepos(t)
	ctx := context.Background()

	lec := createLecture(t, lectures)
	cut := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	createSet(t, results, lec.ID, cut)

	_, err := results.CreateResultSet(ctx, &domain.ResultSet{
		ID:             uuid.New(),
		LectureID:      lec.ID,
		ClosedAt:       cut,
		TotalResponses: 10,
		CreatedAt:      cut,
	})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("duplicate cut error = %v, want ErrAlreadyExists", err)
	}
}

// InsertFacts queues one statement per fact in a single pgx batch; this
// exercises the real wire path that unit tests cannot mock.
func TestRepo_InsertFacts_BatchRoundtrip(t *testing.T) {
	t.Parallel()
	results, lectures := newRepos(t)
	ctx := context.Background()

	lec := createLecture(t, lectures)
	cut := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	set := createSet(t, results, lec.ID, cut)

	ageGroup := domain.QuestionAgeGroup
	twenties := string(domain.AgeGroupTwenties)
	satisfaction := domain.QuestionSatisfaction

	facts := []domain.ResultFact{
		{
			StatType:     domain.StatTypeSimple,
			Dim1Question: domain.QuestionGender,
			Dim1Option:   string(domain.GenderFemale),
			Simple:       &domain.SimpleMeasure{N: 6, BaseN: 10, Pct: 60},
		},
		{
			StatType:     domain.StatTypeCross2,
			Dim1Question: domain.QuestionGender,
			Dim1Option:   string(domain.GenderFemale),
			Dim2Question: &ageGroup,
			Dim2Option:   &twenties,
			Cross: &domain.CrossMeasure{
				N: 4, RowPct: 66.7, RowBaseN: 6,
				ColPct: 80, ColBaseN: 5, TotalPct: 40, TotalBaseN: 10,
			},
		},
		{
			StatType:       domain.StatTypeSummary,
			Dim1Question:   domain.QuestionTotal,
			Dim1Option:     string(domain.QuestionTotal),
			TargetQuestion: &satisfaction,
			Summary:        &domain.SummaryMeasure{AvgScore: 4.3},
		},
	}

	if err := results.InsertFacts(ctx, set, facts); err != nil {
		t.Fatalf("insert facts: %v", err)
	}

	simple, err := results.ListFacts(ctx, domain.FactFilter{
		ResultSetID: set.ID,
		StatType:    domain.StatTypeSimple,
	})
	if err != nil {
		t.Fatalf("list simple facts: %v", err)
	}
	if len(simple) != 1 {
		t.Fatalf("simple facts = %d, want 1", len(simple))
	}
	if simple[0].Simple == nil || simple[0].Simple.N != 6 {
		t.Fatalf("simple measure = %+v, want N=6", simple[0].Simple)
	}
	if simple[0].LectureID != lec.ID {
		t.Fatalf("fact lecture id = %s, want %s", simple[0].LectureID, lec.ID)
	}

	all, err := results.ListFacts(ctx, domain.FactFilter{ResultSetID: set.ID})
	if err != nil {
		t.Fatalf("list all facts: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all facts = %d, want 3", len(all))
	}

	avgs, err := results.LatestSummaryAverages(ctx, []uuid.UUID{lec.ID}, domain.QuestionSatisfaction)
	if err != nil {
		t.Fatalf("latest summary averages: %v", err)
	}
	if len(avgs) != 1 || avgs[0] != 4.3 {
		t.Fatalf("averages = %v, want [4.3]", avgs)
	}
}

func TestRepo_GetLatestByLecture_PicksNewestCut(t *testing.T) {
	t.Parallel()
	results, lectures := newRepos(t)
	ctx := context.Background()

	lec := createLecture(t, lectures)
	older := time.Date(2026, 4, 3, 12, 0, 0, 0, time.UTC)
	newer := older.Add(2 * time.Hour)

	createSet(t, results, lec.ID, older)
	want := createSet(t, results, lec.ID, newer)

	got, err := results.GetLatestByLecture(ctx, lec.ID)
	if err != nil {
		t.Fatalf("get latest: %v", err)
	}
	if got.ID != want.ID {
		t.Fatalf("latest set = %s, want %s", got.ID, want.ID)
	}
}
