package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"llm-market-analyst/internal/analyzer"
	"llm-market-analyst/internal/declog"
	"llm-market-analyst/internal/job"
	"llm-market-analyst/internal/llm"
	"llm-market-analyst/internal/logger"
	"llm-market-analyst/internal/marketctx"
	"llm-market-analyst/internal/quotes"
	"llm-market-analyst/internal/report"
	"llm-market-analyst/internal/server"
	"llm-market-analyst/internal/store"
	"llm-market-analyst/internal/trace"
	"llm-market-analyst/internal/universe"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	_ = godotenv.Load()

	must(logger.Init())
	must(trace.Init())

	configPath := os.Getenv("ANALYST_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := store.LoadConfig(configPath)
	must(err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Mode == "DRY_RUN" {
		logger.Info(ctx, "Running in DRY_RUN mode")
	}

	uni := universe.New(cfg.Universe)
	src, err := quotes.New(cfg)
	must(err)

	mc := marketctx.NewProvider(cfg, src)
	oracle := llm.New(ctx, cfg)

	snapshots, err := report.NewSnapshotter(cfg.Snapshot.Dir, cfg.Snapshot.Keep)
	must(err)

	journal := declog.New(os.Getenv("ANALYST_LOG_DIR"))
	if v := os.Getenv("ANALYST_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		_ = journal.CompressOlder(n)
	}

	runner := analyzer.New(cfg, uni, src, mc, oracle, snapshots, journal)
	batchJob := job.New()

	runBatch := func() {
		if err := batchJob.TryStart(); err != nil {
			logger.Warn(ctx, "Scheduled batch skipped", "reason", err.Error())
			return
		}
		result, err := runner.RunBatch(ctx)
		if err != nil {
			logger.ErrorWithErr(ctx, "Batch failed", err)
			batchJob.Fail(err)
			return
		}
		batchJob.Complete(result)
	}

	var sched *cron.Cron
	if cfg.Batch.Schedule != "" {
		sched = cron.New()
		if _, err := sched.AddFunc(cfg.Batch.Schedule, runBatch); err != nil {
			log.Fatalf("invalid batch schedule %q: %v", cfg.Batch.Schedule, err)
		}
		sched.Start()
		logger.Info(ctx, "Batch schedule active", "cron", cfg.Batch.Schedule)
	}

	srv := server.New(cfg, batchJob, runner, snapshots)
	serverErr := make(chan error, 1)
	go func() { serverErr <- srv.Start() }()

	logger.Info(ctx, "Analyst started", "instruments", uni.Len(), "workers", cfg.Batch.Workers)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigc:
		logger.Info(ctx, "Shutting down")
	case err := <-serverErr:
		if err != nil {
			logger.ErrorWithErr(ctx, "HTTP server failed", err)
		}
	}

	if sched != nil {
		<-sched.Stop().Done()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(shutdownCtx, "Server shutdown error", err)
	}
	_ = trace.Shutdown(shutdownCtx)
}
