package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/moritahr/lecfeed-backend/internal/service/sweep"
)

// sweepService defines the minimal interface needed by SweepHandler.
type sweepService interface {
	Run(ctx context.Context, now time.Time) (*sweep.Summary, error)
}

// SweepHandler exposes the close-and-analyze batch as an internal
// endpoint for schedulers that trigger over HTTP instead of running the
// sweep binary.
type SweepHandler struct {
	svc sweepService
	log *slog.Logger
}

// NewSweepHandler creates a SweepHandler.
func NewSweepHandler(svc sweepService, logger *slog.Logger) *SweepHandler {
	return &SweepHandler{svc: svc, log: logger.With("handler", "sweep")}
}

type failureResponse struct {
	LectureID string `json:"lectureId"`
	Stage     string `json:"stage"`
	Message   string `json:"message"`
}

// Run handles POST /internal/sweep.
func (h *SweepHandler) Run(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Run(r.Context(), time.Now())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	failures := make([]failureResponse, len(summary.Failures))
	for i, f := range summary.Failures {
		failures[i] = failureResponse{
			LectureID: f.LectureID.String(),
			Stage:     f.Stage,
			Message:   f.Message,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"candidates":    summary.Candidates,
		"closed":        summary.Closed,
		"closeFailed":   summary.CloseFailed,
		"analyzed":      summary.Analyzed,
		"analyzeFailed": summary.AnalyzeFailed,
		"failures":      failures,
		"duration":      summary.Duration.String(),
	})
}
