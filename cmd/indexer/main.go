// The indexer is the offline build step: it embeds a raw statute table
// and writes the paired corpus artifact the api serves from. With
// -publish it also announces the rebuild so running api instances
// hot-swap without a restart.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirillkom/fir-intake/internal/config"
	"github.com/kirillkom/fir-intake/internal/core/usecase"
	"github.com/kirillkom/fir-intake/internal/infrastructure/corpus"
	"github.com/kirillkom/fir-intake/internal/infrastructure/llm/ollama"
	natsqueue "github.com/kirillkom/fir-intake/internal/infrastructure/queue/nats"
	"github.com/kirillkom/fir-intake/internal/infrastructure/resilience"
	"github.com/kirillkom/fir-intake/internal/infrastructure/vector/flat"
	"github.com/kirillkom/fir-intake/internal/observability/logging"
)

const serviceName = "fir-intake-indexer"

func main() {
	cfg := config.Load()

	tablePath := flag.String("table", "", "statute table to embed (.csv or .xlsx)")
	outPath := flag.String("out", cfg.CorpusPath, "output artifact path")
	publish := flag.Bool("publish", false, "announce the rebuild over NATS")
	flag.Parse()

	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel))

	if *tablePath == "" {
		slog.Error("missing required -table flag")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *tablePath, *outPath, *publish); err != nil {
		slog.Error("index build failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, tablePath, outPath string, publish bool) error {
	sections, err := corpus.ReadTable(tablePath)
	if err != nil {
		return err
	}
	slog.Info("statute table loaded",
		slog.String("path", tablePath),
		slog.Int("rows", len(sections)))

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	embedder := ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel, cfg.EmbedDim, executor)
	buildUC := usecase.NewBuildIndexUseCase(embedder, flat.NewBuilder())

	entries, index, err := buildUC.Build(ctx, sections)
	if err != nil {
		return err
	}

	artifact := corpus.NewArtifact(cfg.OllamaEmbedModel, cfg.EmbedDim, entries)
	if err := corpus.Save(outPath, artifact); err != nil {
		return err
	}
	slog.Info("corpus artifact written",
		slog.String("path", outPath),
		slog.Int("rows", index.Size()))

	if !publish {
		return nil
	}

	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSStatusSubject, cfg.NATSCorpusSubject, natsqueue.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return err
	}
	defer queue.Close()

	if err := queue.PublishCorpusRebuilt(ctx, outPath); err != nil {
		return err
	}
	slog.Info("rebuild announced", slog.String("subject", cfg.NATSCorpusSubject))
	return nil
}
