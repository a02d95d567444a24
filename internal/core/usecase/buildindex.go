package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirillkom/fir-intake/internal/core/domain"
	"github.com/kirillkom/fir-intake/internal/core/ports"
)

const embedBatchSize = 32

type BuildIndexUseCase struct {
	embedder ports.Embedder
	builder  ports.IndexBuilder
}

func NewBuildIndexUseCase(embedder ports.Embedder, builder ports.IndexBuilder) *BuildIndexUseCase {
	return &BuildIndexUseCase{
		embedder: embedder,
		builder:  builder,
	}
}

// Build embeds every statute section and constructs the paired index.
// Row order of the input table is preserved end to end; an empty table
// yields a valid empty corpus.
func (uc *BuildIndexUseCase) Build(ctx context.Context, sections []domain.StatuteSection) ([]domain.CorpusEntry, ports.VectorIndex, error) {
	// Only the description carries retrieval semantics; identifiers are
	// metadata and would skew corpus vectors relative to query vectors.
	// Missing descriptions embed as empty strings.
	texts := make([]string, len(sections))
	for i, s := range sections {
		texts[i] = s.Description
	}

	vectors, err := uc.embedAll(ctx, texts)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.CorpusEntry, len(sections))
	for i, s := range sections {
		entries[i] = domain.CorpusEntry{
			SectionID:   s.SectionID,
			Description: s.Description,
			Embedding:   vectors[i],
		}
	}

	index, err := uc.builder.Build(vectors)
	if err != nil {
		return nil, nil, fmt.Errorf("build index: %w", err)
	}
	return entries, index, nil
}

func (uc *BuildIndexUseCase) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := uc.embedder.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed rows %d..%d: %w", start, end-1, err)
		}
		if len(batch) != end-start {
			return nil, domain.WrapError(domain.ErrEncoding, "embed statute batch",
				fmt.Errorf("provider returned %d vectors for %d texts", len(batch), end-start))
		}
		vectors = append(vectors, batch...)
	}
	if len(vectors) != len(texts) {
		return nil, domain.WrapError(domain.ErrEncoding, "embed statute table",
			errors.New("vector count does not match row count"))
	}
	return vectors, nil
}
