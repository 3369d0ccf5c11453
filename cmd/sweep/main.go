// Command sweep closes every lecture whose survey deadline has passed
// and computes its statistics. It is intended to be invoked by an
// external cron job, not as an in-process goroutine; a lecture left
// CLOSED by a partial failure is simply picked up again on the next
// invocation.
//
// Exit codes: 0 = success (including per-lecture failures, which are
// reported in the summary), 1 = the batch itself could not run.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/moritahr/lecfeed-backend/internal/adapter/postgres"
	lecturerepo "github.com/moritahr/lecfeed-backend/internal/adapter/postgres/lecture"
	responserepo "github.com/moritahr/lecfeed-backend/internal/adapter/postgres/response"
	resultrepo "github.com/moritahr/lecfeed-backend/internal/adapter/postgres/result"
	"github.com/moritahr/lecfeed-backend/internal/app"
	"github.com/moritahr/lecfeed-backend/internal/config"
	"github.com/moritahr/lecfeed-backend/internal/service/lifecycle"
	"github.com/moritahr/lecfeed-backend/internal/service/results"
	"github.com/moritahr/lecfeed-backend/internal/service/sweep"
)

const runTimeout = 10 * time.Minute

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	lectures := lecturerepo.New(pool)
	responses := responserepo.New(pool)
	resultSets := resultrepo.New(pool)

	lifecycleSvc := lifecycle.NewService(logger, lectures, cfg.Survey.Timezone)
	resultsSvc := results.NewService(logger, resultSets, lectures, postgres.NewTxManager(pool))
	sweepSvc := sweep.NewService(logger, lifecycleSvc, resultsSvc, responses, cfg.Survey.SweepConcurrency)

	summary, err := sweepSvc.Run(ctx, time.Now())
	if err != nil {
		logger.Error("sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("sweep completed", slog.String("summary", summary.String()))
}
