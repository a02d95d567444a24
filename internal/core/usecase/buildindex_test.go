package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/fir-intake/internal/core/domain"
	"github.com/kirillkom/fir-intake/internal/core/ports"
)

type buildEmbedderFake struct {
	batches [][]string
	err     error
	short   bool
}

func (f *buildEmbedderFake) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	batch := make([]string, len(texts))
	copy(batch, texts)
	f.batches = append(f.batches, batch)

	n := len(texts)
	if f.short && n > 0 {
		n--
	}
	vectors := make([][]float32, n)
	for i := range vectors {
		vectors[i] = []float32{float32(len(texts[i]))}
	}
	return vectors, nil
}

func (f *buildEmbedderFake) EmbedQuery(context.Context, string) ([]float32, error) {
	return nil, errors.New("not used")
}

type builderFake struct {
	vectors [][]float32
	err     error
}

func (f *builderFake) Build(vectors [][]float32) (ports.VectorIndex, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.vectors = vectors
	return &bruteIndex{vectors: vectors}, nil
}

func sections(n int) []domain.StatuteSection {
	out := make([]domain.StatuteSection, n)
	for i := range out {
		out[i] = domain.StatuteSection{SectionID: "S" + string(rune('A'+i%26)), Description: "desc"}
	}
	return out
}

func TestBuildPreservesRowOrder(t *testing.T) {
	embedder := &buildEmbedderFake{}
	builder := &builderFake{}
	uc := NewBuildIndexUseCase(embedder, builder)

	input := []domain.StatuteSection{
		{SectionID: "S1", Description: "theft"},
		{SectionID: "S2", Description: "assault"},
		{SectionID: "S3", Description: ""},
	}
	entries, index, err := uc.Build(context.Background(), input)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(entries) != 3 || index.Size() != 3 {
		t.Fatalf("expected 3 rows, got %d entries and index size %d", len(entries), index.Size())
	}
	for i, e := range entries {
		if e.SectionID != input[i].SectionID {
			t.Fatalf("row order not preserved at %d: %s", i, e.SectionID)
		}
	}
	if len(builder.vectors) != 3 {
		t.Fatalf("builder did not receive all rows")
	}
}

func TestBuildEmbedsBareDescriptions(t *testing.T) {
	embedder := &buildEmbedderFake{}
	uc := NewBuildIndexUseCase(embedder, &builderFake{})

	input := []domain.StatuteSection{
		{SectionID: "S1", Description: "theft of property"},
		{SectionID: "S2", Description: ""},
	}
	if _, _, err := uc.Build(context.Background(), input); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(embedder.batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(embedder.batches))
	}
	texts := embedder.batches[0]
	if texts[0] != "theft of property" {
		t.Fatalf("row 0 embedded text = %q, want the bare description", texts[0])
	}
	if texts[1] != "" {
		t.Fatalf("missing description must embed as empty string, got %q", texts[1])
	}
}

func TestBuildBatchesLargeTables(t *testing.T) {
	embedder := &buildEmbedderFake{}
	uc := NewBuildIndexUseCase(embedder, &builderFake{})

	entries, index, err := uc.Build(context.Background(), sections(embedBatchSize+7))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(entries) != embedBatchSize+7 || index.Size() != embedBatchSize+7 {
		t.Fatalf("unexpected row counts: %d entries", len(entries))
	}
	if len(embedder.batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(embedder.batches))
	}
	if len(embedder.batches[0]) != embedBatchSize || len(embedder.batches[1]) != 7 {
		t.Fatalf("unexpected batch sizes: %d, %d", len(embedder.batches[0]), len(embedder.batches[1]))
	}
}

func TestBuildEmptyTableYieldsEmptyCorpus(t *testing.T) {
	uc := NewBuildIndexUseCase(&buildEmbedderFake{}, &builderFake{})
	entries, index, err := uc.Build(context.Background(), nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(entries) != 0 || index.Size() != 0 {
		t.Fatalf("expected empty corpus")
	}
}

func TestBuildRejectsVectorCountMismatch(t *testing.T) {
	embedder := &buildEmbedderFake{short: true}
	uc := NewBuildIndexUseCase(embedder, &builderFake{})
	_, _, err := uc.Build(context.Background(), sections(3))
	if !domain.IsKind(err, domain.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}

func TestBuildPropagatesProviderError(t *testing.T) {
	embedder := &buildEmbedderFake{err: errors.New("provider down")}
	uc := NewBuildIndexUseCase(embedder, &builderFake{})
	if _, _, err := uc.Build(context.Background(), sections(2)); err == nil {
		t.Fatalf("expected error")
	}
}
