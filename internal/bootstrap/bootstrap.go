// Package bootstrap wires infrastructure to the use cases shared by the
// api and worker binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/kirillkom/fir-intake/internal/config"
	"github.com/kirillkom/fir-intake/internal/core/ports"
	"github.com/kirillkom/fir-intake/internal/core/usecase"
	"github.com/kirillkom/fir-intake/internal/infrastructure/corpus"
	"github.com/kirillkom/fir-intake/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/fir-intake/internal/infrastructure/normalizer"
	natsqueue "github.com/kirillkom/fir-intake/internal/infrastructure/queue/nats"
	"github.com/kirillkom/fir-intake/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/fir-intake/internal/infrastructure/resilience"
	"github.com/kirillkom/fir-intake/internal/infrastructure/vector/flat"
)

type App struct {
	Config config.Config

	Queue    ports.EventQueue
	Embedder ports.Embedder

	SearchUC *usecase.SearchUseCase
	BuildUC  *usecase.BuildIndexUseCase
	Intake   ports.ComplaintIntake
	NotifyUC ports.NotificationDispatcher

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	complaintRepo := postgres.NewComplaintRepository(db)
	if err := complaintRepo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	notificationRepo := postgres.NewNotificationRepository(db)

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSStatusSubject, cfg.NATSCorpusSubject, natsqueue.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init event queue: %w", err)
	}

	catalog, err := normalizer.LoadCatalog(cfg.KeywordCatalogPath)
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("load keyword catalog: %w", err)
	}
	norm := normalizer.New(catalog)

	embedder := ollama.New(cfg.OllamaURL, cfg.OllamaEmbedModel, cfg.EmbedDim, executor)

	searchUC := usecase.NewSearchUseCase(norm, embedder, cfg.SearchTopK)
	buildUC := usecase.NewBuildIndexUseCase(embedder, flat.NewBuilder())

	var suggester ports.StatuteSearcher
	if cfg.SuggestOnSubmit {
		suggester = searchUC
	}
	intake := usecase.NewComplaintUseCase(complaintRepo, notificationRepo, queue, suggester)
	notifyUC := usecase.NewNotifyUseCase(notificationRepo)

	return &App{
		Config: cfg,

		Queue:    queue,
		Embedder: embedder,

		SearchUC: searchUC,
		BuildUC:  buildUC,
		Intake:   intake,
		NotifyUC: notifyUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// LoadCorpus reads the artifact at path and atomically installs the
// corpus+index pairing. A missing artifact leaves the service not ready
// and is not an error; a present but invalid artifact is.
func (a *App) LoadCorpus(path string) error {
	entries, err := corpus.Load(path, a.Config.EmbedDim)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("corpus artifact missing, serving not-ready until it appears",
				slog.String("path", path))
			return nil
		}
		return fmt.Errorf("load corpus: %w", err)
	}

	vectors := make([][]float32, len(entries))
	for i, e := range entries {
		vectors[i] = e.Embedding
	}
	index, err := flat.Build(vectors)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	if err := a.SearchUC.Swap(entries, index); err != nil {
		return fmt.Errorf("install corpus: %w", err)
	}

	slog.Info("corpus loaded",
		slog.String("path", path),
		slog.Int("rows", len(entries)))
	return nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
