// Package app wires configuration, storage, services, and the HTTP
// transport into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/moritahr/lecfeed-backend/internal/adapter/postgres"
	lecturerepo "github.com/moritahr/lecfeed-backend/internal/adapter/postgres/lecture"
	responserepo "github.com/moritahr/lecfeed-backend/internal/adapter/postgres/response"
	resultrepo "github.com/moritahr/lecfeed-backend/internal/adapter/postgres/result"
	"github.com/moritahr/lecfeed-backend/internal/auth"
	"github.com/moritahr/lecfeed-backend/internal/config"
	"github.com/moritahr/lecfeed-backend/internal/service/lecture"
	"github.com/moritahr/lecfeed-backend/internal/service/lifecycle"
	"github.com/moritahr/lecfeed-backend/internal/service/results"
	"github.com/moritahr/lecfeed-backend/internal/service/survey"
	"github.com/moritahr/lecfeed-backend/internal/service/sweep"
	"github.com/moritahr/lecfeed-backend/internal/transport/middleware"
	"github.com/moritahr/lecfeed-backend/internal/transport/rest"
)

// rateLimiterCleanupInterval controls how often idle rate-limit buckets
// are evicted.
const rateLimiterCleanupInterval = 5 * time.Minute

// Run starts the HTTP server and blocks until the process receives
// SIGINT/SIGTERM or the server fails. It owns the full lifecycle:
// config, logger, database pool, services, router, graceful shutdown.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := NewLogger(cfg.Log)
	log.Info("starting server",
		"version", BuildVersion(),
		"addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	lectures := lecturerepo.New(pool)
	responses := responserepo.New(pool)
	resultSets := resultrepo.New(pool)

	lectureSvc := lecture.NewService(log, lectures, cfg.Survey.Timezone)
	lifecycleSvc := lifecycle.NewService(log, lectures, cfg.Survey.Timezone)
	surveySvc := survey.NewService(log, responses, lectures, cfg.Survey.CommentMaxLen)
	resultsSvc := results.NewService(log, resultSets, lectures, postgres.NewTxManager(pool))
	sweepSvc := sweep.NewService(log, lifecycleSvc, resultsSvc, responses, cfg.Survey.SweepConcurrency)

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	limiter := middleware.NewRateLimiter(rateLimiterCleanupInterval)
	defer limiter.Stop()

	handlers := rest.Handlers{
		Health:   rest.NewHealthHandler(pool, BuildVersion()),
		Lectures: rest.NewLectureHandler(lectureSvc, log),
		Results:  rest.NewResultsHandler(resultsSvc, lectureSvc, log),
		Survey:   rest.NewSurveyHandler(surveySvc, log),
		Sweep:    rest.NewSweepHandler(sweepSvc, log),
	}

	router := rest.NewRouter(handlers, tokens, limiter, cfg.CORS)

	base := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(log),
		middleware.Recovery(log),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      base(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		return err
	}

	log.Info("server stopped")
	return nil
}
