package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/kirillkom/fir-intake/internal/adapters/http"
	"github.com/kirillkom/fir-intake/internal/bootstrap"
	"github.com/kirillkom/fir-intake/internal/config"
	"github.com/kirillkom/fir-intake/internal/observability/logging"
	"github.com/kirillkom/fir-intake/internal/observability/metrics"
)

const serviceName = "fir-intake-api"

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

	// A corrupt artifact is fatal; a missing one only delays readiness.
	if err := app.LoadCorpus(cfg.CorpusPath); err != nil {
		slog.Error("corpus load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	m := metrics.NewHTTPServerMetrics(serviceName)
	if app.SearchUC.Ready() {
		m.RecordCorpusSwap(serviceName, app.SearchUC.CorpusSize())
	}

	// Hot-swap the corpus when the indexer announces a rebuild.
	go func() {
		err := app.Queue.SubscribeCorpusRebuilt(ctx, func(_ context.Context, artifactPath string) error {
			if artifactPath == "" {
				artifactPath = cfg.CorpusPath
			}
			if err := app.LoadCorpus(artifactPath); err != nil {
				return err
			}
			m.RecordCorpusSwap(serviceName, app.SearchUC.CorpusSize())
			return nil
		})
		if err != nil && ctx.Err() == nil {
			slog.Error("corpus subscription failed", slog.String("error", err.Error()))
		}
	}()

	router := httpadapter.NewRouter(cfg, app.SearchUC, app.Intake, m).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api listening", slog.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api server error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("api shutdown error", slog.String("error", err.Error()))
	}
}
