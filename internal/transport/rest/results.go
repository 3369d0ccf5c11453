package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/moritahr/lecfeed-backend/internal/domain"
	"github.com/moritahr/lecfeed-backend/internal/service/results"
)

// resultsService defines the minimal interface needed by ResultsHandler.
type resultsService interface {
	LatestAnalysis(ctx context.Context, lectureID uuid.UUID) (*results.Analysis, error)
	BasicStats(ctx context.Context, lectureID uuid.UUID) (*results.BasicStatistics, error)
	CrossStats(ctx context.Context, lectureID uuid.UUID) (*results.CrossAnalysis, error)
	RollingAverageForOwner(ctx context.Context, ownerID uuid.UUID, question domain.QuestionCode) (*results.RollingAverage, error)
}

type ownerGuard interface {
	GetForOwner(ctx context.Context, ownerID, lectureID uuid.UUID) (*domain.Lecture, error)
}

// ResultsHandler serves owner-facing dashboard endpoints. Every lecture-
// scoped route verifies ownership before reading results.
type ResultsHandler struct {
	svc      resultsService
	lectures ownerGuard
	log      *slog.Logger
}

// NewResultsHandler creates a ResultsHandler.
func NewResultsHandler(svc resultsService, lectures ownerGuard, logger *slog.Logger) *ResultsHandler {
	return &ResultsHandler{svc: svc, lectures: lectures, log: logger.With("handler", "results")}
}

type factResponse struct {
	StatType       string   `json:"statType"`
	Dim1Question   string   `json:"dim1Question"`
	Dim1Option     string   `json:"dim1Option"`
	Dim2Question   *string  `json:"dim2Question,omitempty"`
	Dim2Option     *string  `json:"dim2Option,omitempty"`
	TargetQuestion *string  `json:"targetQuestion,omitempty"`
	N              *int     `json:"n,omitempty"`
	BaseN          *int     `json:"baseN,omitempty"`
	Pct            *float64 `json:"pct,omitempty"`
	RowPct         *float64 `json:"rowPct,omitempty"`
	RowBaseN       *int     `json:"rowBaseN,omitempty"`
	ColPct         *float64 `json:"colPct,omitempty"`
	ColBaseN       *int     `json:"colBaseN,omitempty"`
	TotalPct       *float64 `json:"totalPct,omitempty"`
	TotalBaseN     *int     `json:"totalBaseN,omitempty"`
	AvgScore       *float64 `json:"avgScore,omitempty"`
}

type resultSetResponse struct {
	ID             string    `json:"id"`
	LectureID      string    `json:"lectureId"`
	ClosedAt       time.Time `json:"closedAt"`
	TotalResponses int       `json:"totalResponses"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Latest handles GET /lectures/{id}/results/latest. A lecture that was
// never analyzed returns 200 with analyzed=false rather than a 404: the
// lecture exists, it just has no results yet.
func (h *ResultsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	lectureID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	analysis, err := h.svc.LatestAnalysis(r.Context(), lectureID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if analysis == nil {
		writeJSON(w, http.StatusOK, map[string]any{"analyzed": false})
		return
	}

	facts := make([]factResponse, len(analysis.Facts))
	for i := range analysis.Facts {
		facts[i] = toFactResponse(&analysis.Facts[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"analyzed":  true,
		"resultSet": toResultSetResponse(analysis.Set),
		"facts":     facts,
	})
}

// Basic handles GET /lectures/{id}/results/basic.
func (h *ResultsHandler) Basic(w http.ResponseWriter, r *http.Request) {
	lectureID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	stats, err := h.svc.BasicStats(r.Context(), lectureID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if stats == nil {
		writeJSON(w, http.StatusOK, map[string]any{"analyzed": false})
		return
	}

	simple := make(map[string][]factResponse, len(stats.Simple))
	for q, facts := range stats.Simple {
		out := make([]factResponse, len(facts))
		for i := range facts {
			out[i] = toFactResponse(&facts[i])
		}
		simple[string(q)] = out
	}

	summaries := make(map[string]float64, len(stats.Summaries))
	for q, avg := range stats.Summaries {
		summaries[string(q)] = avg
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analyzed":  true,
		"resultSet": toResultSetResponse(stats.Set),
		"simple":    simple,
		"summaries": summaries,
	})
}

// Cross handles GET /lectures/{id}/results/cross.
func (h *ResultsHandler) Cross(w http.ResponseWriter, r *http.Request) {
	lectureID, ok := h.authorize(w, r)
	if !ok {
		return
	}

	analysis, err := h.svc.CrossStats(r.Context(), lectureID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if analysis == nil {
		writeJSON(w, http.StatusOK, map[string]any{"analyzed": false})
		return
	}

	slices := make([]map[string]any, len(analysis.Slices))
	for i, slice := range analysis.Slices {
		facts := make([]factResponse, len(slice.Facts))
		for j := range slice.Facts {
			facts[j] = toFactResponse(&slice.Facts[j])
		}
		slices[i] = map[string]any{
			"dim1Question": string(slice.Dim1),
			"dim2Question": string(slice.Dim2),
			"facts":        facts,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analyzed":  true,
		"resultSet": toResultSetResponse(analysis.Set),
		"slices":    slices,
	})
}

// RollingAverage handles GET /results/rolling-average?question=satisfaction.
func (h *ResultsHandler) RollingAverage(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	question := domain.QuestionCode(r.URL.Query().Get("question"))

	avg, err := h.svc.RollingAverageForOwner(r.Context(), ownerID, question)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"question": string(avg.Question),
		"average":  avg.Average,
		"lectures": avg.Lectures,
	})
}

// authorize extracts the lecture id and verifies the caller owns it.
func (h *ResultsHandler) authorize(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	ownerID, ok := ownerFrom(w, r)
	if !ok {
		return uuid.Nil, false
	}

	lectureID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lecture id")
		return uuid.Nil, false
	}

	if _, err := h.lectures.GetForOwner(r.Context(), ownerID, lectureID); err != nil {
		handleError(w, r, h.log, err)
		return uuid.Nil, false
	}

	return lectureID, true
}

func toResultSetResponse(set *domain.ResultSet) resultSetResponse {
	return resultSetResponse{
		ID:             set.ID.String(),
		LectureID:      set.LectureID.String(),
		ClosedAt:       set.ClosedAt,
		TotalResponses: set.TotalResponses,
		CreatedAt:      set.CreatedAt,
	}
}

func toFactResponse(f *domain.ResultFact) factResponse {
	out := factResponse{
		StatType:     string(f.StatType),
		Dim1Question: string(f.Dim1Question),
		Dim1Option:   f.Dim1Option,
		Dim2Option:   f.Dim2Option,
	}
	if f.Dim2Question != nil {
		s := string(*f.Dim2Question)
		out.Dim2Question = &s
	}
	if f.TargetQuestion != nil {
		s := string(*f.TargetQuestion)
		out.TargetQuestion = &s
	}
	switch {
	case f.Simple != nil:
		out.N = &f.Simple.N
		out.BaseN = &f.Simple.BaseN
		out.Pct = &f.Simple.Pct
	case f.Cross != nil:
		out.N = &f.Cross.N
		out.RowPct = &f.Cross.RowPct
		out.RowBaseN = &f.Cross.RowBaseN
		out.ColPct = &f.Cross.ColPct
		out.ColBaseN = &f.Cross.ColBaseN
		out.TotalPct = &f.Cross.TotalPct
		out.TotalBaseN = &f.Cross.TotalBaseN
	case f.Summary != nil:
		out.AvgScore = &f.Summary.AvgScore
	}
	return out
}
