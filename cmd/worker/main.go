package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dealdesk/dealdocs/internal/bootstrap"
	"github.com/dealdesk/dealdocs/internal/config"
	"github.com/dealdesk/dealdocs/internal/observability/logging"
	"github.com/dealdesk/dealdocs/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	pipelineMetrics := metrics.NewPipelineMetrics("worker")
	go serveMetrics(ctx, cfg.WorkerMetricsPort, pipelineMetrics.Handler(), logger)

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeBatchSubmitted(ctx, func(handlerCtx context.Context, batchID string) error {
		return processBatch(handlerCtx, app, pipelineMetrics, batchID)
	})
	if err != nil {
		log.Fatalf("worker subscribe error: %v", err)
	}
}

func processBatch(ctx context.Context, app *bootstrap.App, pipelineMetrics *metrics.PipelineMetrics, batchID string) error {
	req, err := app.RequestStore.LoadRequest(ctx, batchID)
	if err != nil {
		return fmt.Errorf("load batch %s: %w", batchID, err)
	}

	pipelineMetrics.StartBatch()
	started := time.Now()

	result, err := app.Pipeline.Run(ctx, req)
	if err != nil {
		pipelineMetrics.FinishBatch("worker", time.Since(started), false)
		return fmt.Errorf("run batch %s: %w", batchID, err)
	}

	pipelineMetrics.FinishBatch("worker", time.Since(started), result.Success)
	pipelineMetrics.RecordDocuments("worker", len(result.Documents), len(result.Errors))
	pipelineMetrics.RecordOracleUsage("worker",
		result.Metadata.Model,
		result.Metadata.APICallsMade,
		result.Metadata.TotalInputTokens,
		result.Metadata.TotalOutputTokens,
		result.Metadata.CacheReadTokens,
	)

	if err := app.Persister.Persist(ctx, req, result); err != nil {
		return fmt.Errorf("persist batch %s: %w", batchID, err)
	}
	return nil
}

func serveMetrics(ctx context.Context, port string, handler http.Handler, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("worker_metrics_server_error", "error", err)
	}
}
