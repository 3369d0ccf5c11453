package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
	"github.com/moritahr/lecfeed-backend/internal/service/survey"
)

// surveyService defines the minimal interface needed by SurveyHandler.
type surveyService interface {
	Submit(ctx context.Context, input survey.SubmitInput) (*domain.RawResponse, error)
}

// SurveyHandler serves the public anonymous submission endpoint.
type SurveyHandler struct {
	svc surveyService
	log *slog.Logger
}

// NewSurveyHandler creates a SurveyHandler.
func NewSurveyHandler(svc surveyService, logger *slog.Logger) *SurveyHandler {
	return &SurveyHandler{svc: svc, log: logger.With("handler", "survey")}
}

type submitRequest struct {
	Gender        string  `json:"gender"`
	AgeGroup      string  `json:"ageGroup"`
	Understanding int     `json:"understanding"`
	Satisfaction  int     `json:"satisfaction"`
	Comment       *string `json:"comment,omitempty"`
}

// Submit handles POST /surveys/{id}/responses.
//
// Validation failures are reported precisely so the form can highlight
// the field, but any persistence failure collapses into one generic
// retry-prompting message: respondents cannot act on internals, and the
// duplicate guard must not leak whether an IP already answered.
func (h *SurveyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	lectureID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid survey id")
		return
	}

	var req submitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var userAgent *string
	if ua := r.UserAgent(); ua != "" {
		userAgent = &ua
	}

	_, err = h.svc.Submit(r.Context(), survey.SubmitInput{
		LectureID:     lectureID,
		Gender:        domain.Gender(req.Gender),
		AgeGroup:      domain.AgeGroup(req.AgeGroup),
		Understanding: req.Understanding,
		Satisfaction:  req.Satisfaction,
		Comment:       req.Comment,
		UserAgent:     userAgent,
		IPAddress:     clientIP(r),
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "survey not found")
	case errors.Is(err, survey.ErrSurveyNotAccepting):
		writeError(w, http.StatusConflict, "this survey is no longer accepting responses")
	default:
		h.log.ErrorContext(r.Context(), "submit failed",
			slog.String("lecture_id", lectureID.String()),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusServiceUnavailable, "could not record your response, please try again")
	}
}
