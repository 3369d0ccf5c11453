package survey

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moritahr/lecfeed-backend/internal/domain"
)

type responseRepoMock struct {
	InsertFunc               func(ctx context.Context, resp *domain.RawResponse) (*domain.RawResponse, error)
	ExistsByLectureAndIPFunc func(ctx context.Context, lectureID uuid.UUID, ip string) (bool, error)
}

func (m *responseRepoMock) Insert(ctx context.Context, resp *domain.RawResponse) (*domain.RawResponse, error) {
	return m.InsertFunc(ctx, resp)
}

func (m *responseRepoMock) ExistsByLectureAndIP(ctx context.Context, lectureID uuid.UUID, ip string) (bool, error) {
	return m.ExistsByLectureAndIPFunc(ctx, lectureID, ip)
}

type lectureRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Lecture, error)
}

func (m *lectureRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Lecture, error) {
	return m.GetByIDFunc(ctx, id)
}

func activeLectureMock(id uuid.UUID) *lectureRepoMock {
	return &lectureRepoMock{
		GetByIDFunc: func(ctx context.Context, _ uuid.UUID) (*domain.Lecture, error) {
			return &domain.Lecture{ID: id, SurveyStatus: domain.SurveyStatusActive}, nil
		},
	}
}

func echoInsert() *responseRepoMock {
	return &responseRepoMock{
		InsertFunc: func(ctx context.Context, resp *domain.RawResponse) (*domain.RawResponse, error) {
			out := *resp
			out.ID = uuid.New()
			return &out, nil
		},
		ExistsByLectureAndIPFunc: func(ctx context.Context, _ uuid.UUID, _ string) (bool, error) {
			return false, nil
		},
	}
}

func validInput(lectureID uuid.UUID) SubmitInput {
	return SubmitInput{
		LectureID:     lectureID,
		Gender:        domain.GenderFemale,
		AgeGroup:      domain.AgeGroupTwenties,
		Understanding: 4,
		Satisfaction:  5,
	}
}

func TestService_Submit_Success(t *testing.T) {
	t.Parallel()

	lectureID := uuid.New()
	svc := NewService(slog.Default(), echoInsert(), activeLectureMock(lectureID), 0)

	resp, err := svc.Submit(context.Background(), validInput(lectureID))

	require.NoError(t, err)
	assert.Equal(t, lectureID, resp.LectureID)
	assert.Equal(t, 4, resp.Understanding)
	assert.NotEqual(t, uuid.Nil, resp.ID)
}

func TestService_Submit_LectureNotActive(t *testing.T) {
	t.Parallel()

	lectureID := uuid.New()
	lectures := &lectureRepoMock{
		GetByIDFunc: func(ctx context.Context, _ uuid.UUID) (*domain.Lecture, error) {
			return &domain.Lecture{ID: lectureID, SurveyStatus: domain.SurveyStatusClosed}, nil
		},
	}
	svc := NewService(slog.Default(), echoInsert(), lectures, 0)

	_, err := svc.Submit(context.Background(), validInput(lectureID))

	require.ErrorIs(t, err, ErrSurveyNotAccepting)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestService_Submit_DuplicateIP(t *testing.T) {
	t.Parallel()

	lectureID := uuid.New()
	inserted := 0
	responses := &responseRepoMock{
		ExistsByLectureAndIPFunc: func(ctx context.Context, _ uuid.UUID, ip string) (bool, error) {
			assert.Equal(t, "203.0.113.7", ip)
			return true, nil
		},
		InsertFunc: func(ctx context.Context, resp *domain.RawResponse) (*domain.RawResponse, error) {
			inserted++
			return resp, nil
		},
	}
	svc := NewService(slog.Default(), responses, activeLectureMock(lectureID), 0)

	input := validInput(lectureID)
	ip := "203.0.113.7"
	input.IPAddress = &ip

	_, err := svc.Submit(context.Background(), input)

	require.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Zero(t, inserted)
}

func TestService_Submit_NoIPSkipsDuplicateCheck(t *testing.T) {
	t.Parallel()

	lectureID := uuid.New()
	responses := &responseRepoMock{
		ExistsByLectureAndIPFunc: func(ctx context.Context, _ uuid.UUID, _ string) (bool, error) {
			t.Error("duplicate check must not run without an IP address")
			return false, nil
		},
		InsertFunc: func(ctx context.Context, resp *domain.RawResponse) (*domain.RawResponse, error) {
			out := *resp
			out.ID = uuid.New()
			return &out, nil
		},
	}
	svc := NewService(slog.Default(), responses, activeLectureMock(lectureID), 0)

	_, err := svc.Submit(context.Background(), validInput(lectureID))
	require.NoError(t, err)
}

func TestSubmitInput_Validate(t *testing.T) {
	t.Parallel()

	longComment := strings.Repeat("あ", DefaultCommentMaxLen+1)
	okComment := strings.Repeat("あ", DefaultCommentMaxLen)

	cases := []struct {
		name    string
		mutate  func(*SubmitInput)
		wantErr bool
	}{
		{"valid", func(i *SubmitInput) {}, false},
		{"missing lecture id", func(i *SubmitInput) { i.LectureID = uuid.Nil }, true},
		{"unknown gender", func(i *SubmitInput) { i.Gender = "alien" }, true},
		{"unknown age group", func(i *SubmitInput) { i.AgeGroup = "teens" }, true},
		{"understanding below range", func(i *SubmitInput) { i.Understanding = 0 }, true},
		{"understanding above range", func(i *SubmitInput) { i.Understanding = 6 }, true},
		{"satisfaction below range", func(i *SubmitInput) { i.Satisfaction = 0 }, true},
		{"comment at limit", func(i *SubmitInput) { i.Comment = &okComment }, false},
		{"comment over limit", func(i *SubmitInput) { i.Comment = &longComment }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			input := validInput(uuid.New())
			tc.mutate(&input)

			err := input.Validate(DefaultCommentMaxLen)
			if tc.wantErr {
				require.ErrorIs(t, err, domain.ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
