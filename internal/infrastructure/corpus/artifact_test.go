package corpus

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/fir-intake/internal/core/domain"
)

func sampleEntries() []domain.CorpusEntry {
	return []domain.CorpusEntry{
		{SectionID: "S1", Description: "theft of property", Embedding: []float32{0.9, 0.1}},
		{SectionID: "S2", Description: "assault causing hurt", Embedding: []float32{0.1, 0.9}},
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statutes.corpus.json")
	if err := Save(path, NewArtifact("all-minilm", 2, sampleEntries())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := Load(path, 2)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].SectionID != "S1" || entries[1].SectionID != "S2" {
		t.Fatalf("row order not preserved: %+v", entries)
	}
	if entries[0].Embedding[0] != 0.9 {
		t.Fatalf("embedding not preserved: %+v", entries[0])
	}
}

func TestLoadRejectsRowCountMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	artifact := NewArtifact("all-minilm", 2, sampleEntries())
	artifact.Embeddings = artifact.Embeddings[:1]
	writeRaw(t, path, artifact)

	_, err := Load(path, 2)
	if !domain.IsKind(err, domain.ErrCorpusLoad) {
		t.Fatalf("expected ErrCorpusLoad, got %v", err)
	}
}

func TestLoadRejectsDeclaredDimensionSkew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	artifact := NewArtifact("all-minilm", 3, sampleEntries())
	writeRaw(t, path, artifact)

	_, err := Load(path, 3)
	if !domain.IsKind(err, domain.ErrCorpusLoad) {
		t.Fatalf("expected ErrCorpusLoad for row/declared dim skew, got %v", err)
	}
}

func TestLoadRejectsProviderDimensionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statutes.json")
	if err := Save(path, NewArtifact("all-minilm", 2, sampleEntries())); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	_, err := Load(path, 384)
	if !domain.IsKind(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	artifact := NewArtifact("all-minilm", 2, sampleEntries())
	artifact.Version = 99
	writeRaw(t, path, artifact)

	_, err := Load(path, 2)
	if !domain.IsKind(err, domain.ErrCorpusLoad) {
		t.Fatalf("expected ErrCorpusLoad, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), 2)
	if !domain.IsKind(err, domain.ErrCorpusLoad) {
		t.Fatalf("expected ErrCorpusLoad, got %v", err)
	}
}

func TestEmptyArtifactIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := Save(path, NewArtifact("all-minilm", 384, nil)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	entries, err := Load(path, 384)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty corpus, got %d entries", len(entries))
	}
}

func writeRaw(t *testing.T, path string, artifact Artifact) {
	t.Helper()
	data, err := json.Marshal(artifact)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
}
