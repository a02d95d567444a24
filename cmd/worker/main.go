package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/fir-intake/internal/bootstrap"
	"github.com/kirillkom/fir-intake/internal/config"
	"github.com/kirillkom/fir-intake/internal/core/domain"
	"github.com/kirillkom/fir-intake/internal/observability/logging"
	"github.com/kirillkom/fir-intake/internal/observability/metrics"
)

const serviceName = "fir-intake-worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer app.Close()

	m := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: m.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker metrics server error", slog.String("error", err.Error()))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker subscribed", slog.String("subject", cfg.NATSStatusSubject))
	err = app.Queue.SubscribeStatusChanged(ctx, func(handlerCtx context.Context, change domain.StatusChange) error {
		m.StartDispatch()
		m.ObserveEventLag(serviceName, time.Since(change.ChangedAt))
		start := time.Now()

		dispatchCtx, cancel := context.WithTimeout(handlerCtx, 30*time.Second)
		defer cancel()
		dispatchErr := app.NotifyUC.Dispatch(dispatchCtx, change)

		m.FinishDispatch(serviceName, time.Since(start), dispatchErr)
		return dispatchErr
	})
	if err != nil && ctx.Err() == nil {
		slog.Error("worker subscribe error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
