package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
	"github.com/moritahr/lecfeed-backend/internal/service/lecture"
)

// lectureService defines the minimal interface needed by LectureHandler.
type lectureService interface {
	Create(ctx context.Context, input lecture.CreateInput) (*domain.Lecture, error)
	GetForOwner(ctx context.Context, ownerID, lectureID uuid.UUID) (*domain.Lecture, error)
	Get(ctx context.Context, lectureID uuid.UUID) (*domain.Lecture, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID, status domain.SurveyStatus) ([]*domain.Lecture, error)
}

// LectureHandler serves owner-facing lecture endpoints.
type LectureHandler struct {
	svc lectureService
	log *slog.Logger
}

// NewLectureHandler creates a LectureHandler.
func NewLectureHandler(svc lectureService, logger *slog.Logger) *LectureHandler {
	return &LectureHandler{svc: svc, log: logger.With("handler", "lectures")}
}

type createLectureRequest struct {
	Title       string `json:"title"`
	LectureDate string `json:"lectureDate"`
	LectureTime string `json:"lectureTime"`
	CloseDate   string `json:"closeDate"`
	CloseTime   string `json:"closeTime"`
}

type lectureResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	LectureDate  string     `json:"lectureDate"`
	LectureTime  string     `json:"lectureTime"`
	CloseDate    string     `json:"closeDate"`
	CloseTime    string     `json:"closeTime"`
	SurveyStatus string     `json:"surveyStatus"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
	AnalyzedAt   *time.Time `json:"analyzedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Create handles POST /lectures.
func (h *LectureHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	var req createLectureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.svc.Create(r.Context(), lecture.CreateInput{
		OwnerID:     ownerID,
		Title:       req.Title,
		LectureDate: req.LectureDate,
		LectureTime: req.LectureTime,
		CloseDate:   req.CloseDate,
		CloseTime:   req.CloseTime,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLectureResponse(created))
}

// Get handles GET /lectures/{id}.
func (h *LectureHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	lectureID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lecture id")
		return
	}

	l, err := h.svc.GetForOwner(r.Context(), ownerID, lectureID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toLectureResponse(l))
}

// GetPublic handles GET /surveys/{id}: the subset of lecture data the
// anonymous submission page needs.
func (h *LectureHandler) GetPublic(w http.ResponseWriter, r *http.Request) {
	lectureID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lecture id")
		return
	}

	l, err := h.svc.Get(r.Context(), lectureID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":        l.ID.String(),
		"title":     l.Title,
		"accepting": l.SurveyStatus == domain.SurveyStatusActive,
	})
}

// List handles GET /lectures?status=ACTIVE.
func (h *LectureHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	status := domain.SurveyStatus(r.URL.Query().Get("status"))

	lectures, err := h.svc.ListForOwner(r.Context(), ownerID, status)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]lectureResponse, len(lectures))
	for i, l := range lectures {
		out[i] = toLectureResponse(l)
	}
	writeJSON(w, http.StatusOK, map[string]any{"lectures": out})
}

func toLectureResponse(l *domain.Lecture) lectureResponse {
	return lectureResponse{
		ID:           l.ID.String(),
		Title:        l.Title,
		LectureDate:  l.LectureDate,
		LectureTime:  l.LectureTime,
		CloseDate:    l.CloseDate,
		CloseTime:    l.CloseTime,
		SurveyStatus: l.SurveyStatus.String(),
		ClosedAt:     l.ClosedAt,
		AnalyzedAt:   l.AnalyzedAt,
		CreatedAt:    l.CreatedAt,
	}
}
