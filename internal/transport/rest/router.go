package rest

import (
	"net/http"

	"github.com/moritahr/lecfeed-backend/internal/config"
	"github.com/moritahr/lecfeed-backend/internal/transport/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health   *HealthHandler
	Lectures *LectureHandler
	Results  *ResultsHandler
	Survey   *SurveyHandler
	Sweep    *SweepHandler
}

// submitRateLimitPerMinute caps anonymous submissions per client IP.
const submitRateLimitPerMinute = 30

// NewRouter builds the HTTP routing table.
//
// Three surfaces share the mux: operational probes (no auth), the public
// survey surface (anonymous, rate limited), and the owner API (token
// required).
func NewRouter(h Handlers, validator middleware.TokenValidator, limiter *middleware.RateLimiter, corsCfg config.CORSConfig) http.Handler {
	mux := http.NewServeMux()

	// Probes.
	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	// Public survey surface.
	submit := limiter.Limit(submitRateLimitPerMinute)(http.HandlerFunc(h.Survey.Submit))
	mux.Handle("POST /surveys/{id}/responses", submit)
	mux.HandleFunc("GET /surveys/{id}", h.Lectures.GetPublic)

	// Owner API.
	owner := middleware.Chain(middleware.Auth(validator), middleware.RequireOwner)
	mux.Handle("POST /lectures", owner(http.HandlerFunc(h.Lectures.Create)))
	mux.Handle("GET /lectures", owner(http.HandlerFunc(h.Lectures.List)))
	mux.Handle("GET /lectures/{id}", owner(http.HandlerFunc(h.Lectures.Get)))
	mux.Handle("GET /lectures/{id}/results/latest", owner(http.HandlerFunc(h.Results.Latest)))
	mux.Handle("GET /lectures/{id}/results/basic", owner(http.HandlerFunc(h.Results.Basic)))
	mux.Handle("GET /lectures/{id}/results/cross", owner(http.HandlerFunc(h.Results.Cross)))
	mux.Handle("GET /results/rolling-average", owner(http.HandlerFunc(h.Results.RollingAverage)))

	// Internal operations.
	mux.Handle("POST /internal/sweep", owner(http.HandlerFunc(h.Sweep.Run)))

	return middleware.CORS(corsCfg)(mux)
}
