package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/kirillkom/fir-intake/internal/core/domain"
	"github.com/kirillkom/fir-intake/internal/core/ports"
)

// pairing binds one corpus snapshot to the index built from it. The two
// halves are immutable after construction and are only ever replaced
// together, so a search never ranks rows against a foreign matrix.
type pairing struct {
	entries []domain.CorpusEntry
	index   ports.VectorIndex
}

type SearchUseCase struct {
	normalizer ports.Normalizer
	embedder   ports.Embedder
	active     atomic.Pointer[pairing]
	defaultK   int
}

func NewSearchUseCase(normalizer ports.Normalizer, embedder ports.Embedder, defaultK int) *SearchUseCase {
	if defaultK <= 0 {
		defaultK = 5
	}
	return &SearchUseCase{
		normalizer: normalizer,
		embedder:   embedder,
		defaultK:   defaultK,
	}
}

// Swap atomically replaces the active corpus+index pairing. In-flight
// searches finish against the snapshot they started with.
func (uc *SearchUseCase) Swap(entries []domain.CorpusEntry, index ports.VectorIndex) error {
	if index == nil {
		return domain.WrapError(domain.ErrCorpusLoad, "swap corpus", errors.New("nil index"))
	}
	if index.Size() != len(entries) {
		return domain.WrapError(domain.ErrCorpusLoad, "swap corpus",
			fmt.Errorf("index holds %d rows, corpus holds %d", index.Size(), len(entries)))
	}
	uc.active.Store(&pairing{entries: entries, index: index})
	return nil
}

// Ready reports whether a corpus pairing has been installed.
func (uc *SearchUseCase) Ready() bool {
	return uc.active.Load() != nil
}

// CorpusSize is the row count of the active corpus, zero before the
// first swap.
func (uc *SearchUseCase) CorpusSize() int {
	current := uc.active.Load()
	if current == nil {
		return 0
	}
	return len(current.entries)
}

// Search ranks statute sections against a raw incident narrative. A
// provider encoding failure degrades to an empty result set rather than
// an error; the loaded corpus is untouched either way.
func (uc *SearchUseCase) Search(ctx context.Context, rawText string, k int) ([]domain.RankedResult, error) {
	// Only empty raw input is invalid. A narrative that normalizes down
	// to nothing (all noise) still embeds; the degenerate composite is
	// the provider's problem, not the caller's.
	if strings.TrimSpace(rawText) == "" {
		return nil, domain.WrapError(domain.ErrInvalidQuery, "normalize query",
			errors.New("narrative is empty"))
	}
	query := uc.normalizer.Normalize(rawText)

	current := uc.active.Load()
	if current == nil {
		return nil, domain.WrapError(domain.ErrNotReady, "search statutes",
			errors.New("no corpus pairing installed"))
	}
	if k <= 0 {
		k = uc.defaultK
	}

	vector, err := uc.embedder.EmbedQuery(ctx, query.CleanedText)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("embed query: %w", ctx.Err())
		}
		slog.Warn("embedding provider failed, degrading to empty result",
			slog.String("error", err.Error()))
		return []domain.RankedResult{}, nil
	}

	hits, err := current.index.Search(vector, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]domain.RankedResult, len(hits))
	for i, hit := range hits {
		entry := current.entries[hit.Row]
		results[i] = domain.RankedResult{
			Rank:        i + 1,
			SectionID:   entry.SectionID,
			Description: entry.Description,
			Distance:    hit.Distance,
		}
	}
	return results, nil
}
