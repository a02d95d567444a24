// Package corpus persists and loads the paired build artifact: the
// row-ordered statute table together with its row-ordered embedding
// matrix. Both halves always travel as one document so a loaded corpus
// can never mix rows from different builds.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kirillkom/fir-intake/internal/core/domain"
)

const ArtifactVersion = 1

type Artifact struct {
	Version    int                     `json:"version"`
	Model      string                  `json:"model"`
	Dim        int                     `json:"dim"`
	Sections   []domain.StatuteSection `json:"sections"`
	Embeddings [][]float32             `json:"embeddings"`
}

// NewArtifact assembles an artifact from row-aligned entries. The entry
// order is preserved; the caller guarantees it matches the index build.
func NewArtifact(model string, dim int, entries []domain.CorpusEntry) Artifact {
	sections := make([]domain.StatuteSection, len(entries))
	embeddings := make([][]float32, len(entries))
	for i, e := range entries {
		sections[i] = domain.StatuteSection{SectionID: e.SectionID, Description: e.Description}
		embeddings[i] = e.Embedding
	}
	return Artifact{
		Version:    ArtifactVersion,
		Model:      model,
		Dim:        dim,
		Sections:   sections,
		Embeddings: embeddings,
	}
}

// Save writes the artifact atomically: a temp file in the target
// directory followed by a rename, so a crashed build never leaves a
// half-written corpus behind.
func Save(path string, artifact Artifact) error {
	data, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename artifact into place: %w", err)
	}
	return nil
}

// Load reads an artifact and validates its internal consistency plus
// the dimensionality expected by the configured embedding provider.
// Any violation is a domain.ErrCorpusLoad (dimensionality skew against
// the provider additionally carries domain.ErrDimensionMismatch).
func Load(path string, expectedDim int) ([]domain.CorpusEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCorpusLoad, "read artifact", err)
	}

	var artifact Artifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, domain.WrapError(domain.ErrCorpusLoad, "decode artifact", err)
	}
	if artifact.Version != ArtifactVersion {
		return nil, domain.WrapError(domain.ErrCorpusLoad, "check artifact",
			fmt.Errorf("unsupported artifact version %d", artifact.Version))
	}
	if len(artifact.Sections) != len(artifact.Embeddings) {
		return nil, domain.WrapError(domain.ErrCorpusLoad, "check artifact",
			fmt.Errorf("row count mismatch: %d sections, %d embeddings", len(artifact.Sections), len(artifact.Embeddings)))
	}
	for i, v := range artifact.Embeddings {
		if len(v) != artifact.Dim {
			return nil, domain.WrapError(domain.ErrCorpusLoad, "check artifact",
				fmt.Errorf("embedding row %d has dimension %d, artifact declares %d", i, len(v), artifact.Dim))
		}
	}
	if expectedDim > 0 && len(artifact.Embeddings) > 0 && artifact.Dim != expectedDim {
		return nil, domain.WrapError(domain.ErrDimensionMismatch, "check artifact",
			fmt.Errorf("artifact dimension %d does not match provider dimension %d", artifact.Dim, expectedDim))
	}

	entries := make([]domain.CorpusEntry, len(artifact.Sections))
	for i, s := range artifact.Sections {
		entries[i] = domain.CorpusEntry{
			SectionID:   s.SectionID,
			Description: s.Description,
			Embedding:   artifact.Embeddings[i],
		}
	}
	return entries, nil
}
