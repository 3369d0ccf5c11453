package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
	"github.com/moritahr/lecfeed-backend/internal/service/survey"
)

type surveyServiceMock struct {
	SubmitFunc func(ctx context.Context, input survey.SubmitInput) (*domain.RawResponse, error)
}

func (m *surveyServiceMock) Submit(ctx context.Context, input survey.SubmitInput) (*domain.RawResponse, error) {
	return m.SubmitFunc(ctx, input)
}

func submitRequestBody() string {
	return `{"gender":"female","ageGroup":"twenties","understanding":4,"satisfaction":5}`
}

func newSubmitRequest(lectureID uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/surveys/"+lectureID.String()+"/responses", strings.NewReader(body))
	req.SetPathValue("id", lectureID.String())
	return req
}

func TestSurveyHandler_Submit(t *testing.T) {
	t.Parallel()

	lectureID := uuid.New()

	t.Run("success returns 201", func(t *testing.T) {
		svc := &surveyServiceMock{
			SubmitFunc: func(ctx context.Context, input survey.SubmitInput) (*domain.RawResponse, error) {
				if input.LectureID != lectureID {
					t.Errorf("lecture id = %v, want %v", input.LectureID, lectureID)
				}
				if input.Gender != domain.GenderFemale || input.Understanding != 4 {
					t.Errorf("unexpected input %+v", input)
				}
				return &domain.RawResponse{ID: uuid.New(), LectureID: lectureID}, nil
			},
		}
		h := NewSurveyHandler(svc, slog.Default())

		rec := httptest.NewRecorder()
		h.Submit(rec, newSubmitRequest(lectureID, submitRequestBody()))

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
	})

	t.Run("client ip forwarded for duplicate suppression", func(t *testing.T) {
		var gotIP *string
		svc := &surveyServiceMock{
			SubmitFunc: func(ctx context.Context, input survey.SubmitInput) (*domain.RawResponse, error) {
				gotIP = input.IPAddress
				return &domain.RawResponse{ID: uuid.New()}, nil
			},
		}
		h := NewSurveyHandler(svc, slog.Default())

		req := newSubmitRequest(lectureID, submitRequestBody())
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		rec := httptest.NewRecorder()
		h.Submit(rec, req)

		if gotIP == nil || *gotIP != "203.0.113.7" {
			t.Errorf("ip = %v, want 203.0.113.7", gotIP)
		}
	})

	t.Run("validation error is precise", func(t *testing.T) {
		svc := &surveyServiceMock{
			SubmitFunc: func(ctx context.Context, input survey.SubmitInput) (*domain.RawResponse, error) {
				return nil, domain.NewValidationError("understanding", "must be between 1 and 5")
			},
		}
		h := NewSurveyHandler(svc, slog.Default())

		rec := httptest.NewRecorder()
		h.Submit(rec, newSubmitRequest(lectureID, submitRequestBody()))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("closed survey returns 409", func(t *testing.T) {
		svc := &surveyServiceMock{
			SubmitFunc: func(ctx context.Context, input survey.SubmitInput) (*domain.RawResponse, error) {
				return nil, survey.ErrSurveyNotAccepting
			},
		}
		h := NewSurveyHandler(svc, slog.Default())

		rec := httptest.NewRecorder()
		h.Submit(rec, newSubmitRequest(lectureID, submitRequestBody()))

		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("persistence failure collapses into a generic retry message", func(t *testing.T) {
		svc := &surveyServiceMock{
			SubmitFunc: func(ctx context.Context, input survey.SubmitInput) (*domain.RawResponse, error) {
				return nil, errors.New("pq: connection reset by peer")
			},
		}
		h := NewSurveyHandler(svc, slog.Default())

		rec := httptest.NewRecorder()
		h.Submit(rec, newSubmitRequest(lectureID, submitRequestBody()))

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if strings.Contains(body["error"], "pq:") {
			t.Errorf("internals leaked to respondent: %q", body["error"])
		}
		if !strings.Contains(body["error"], "try again") {
			t.Errorf("message does not prompt a retry: %q", body["error"])
		}
	})

	t.Run("invalid survey id", func(t *testing.T) {
		h := NewSurveyHandler(&surveyServiceMock{}, slog.Default())

		req := httptest.NewRequest(http.MethodPost, "/surveys/not-a-uuid/responses", strings.NewReader(submitRequestBody()))
		req.SetPathValue("id", "not-a-uuid")
		rec := httptest.NewRecorder()
		h.Submit(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}
