// Package flat implements an exact brute-force nearest-neighbor index
// over a row-ordered embedding matrix, using squared Euclidean distance.
// Corpora of a few hundred to a few thousand statute rows make linear
// scans cheap enough that no spatial structure is needed.
package flat

import (
	"fmt"
	"sort"

	"github.com/kirillkom/fir-intake/internal/core/domain"
	"github.com/kirillkom/fir-intake/internal/core/ports"
)

type Index struct {
	dim     int
	vectors [][]float32
}

type Builder struct{}

func NewBuilder() Builder { return Builder{} }

func (Builder) Build(vectors [][]float32) (ports.VectorIndex, error) {
	return Build(vectors)
}

// Build validates that every row shares one dimensionality and freezes
// the matrix into an index. An empty matrix yields a valid empty index
// so the service can start before the first corpus load.
func Build(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return &Index{}, nil
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, domain.WrapError(domain.ErrDimensionMismatch, "build index", fmt.Errorf("row 0 has zero dimension"))
	}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, domain.WrapError(
				domain.ErrDimensionMismatch,
				"build index",
				fmt.Errorf("row %d has dimension %d, want %d", i, len(v), dim),
			)
		}
	}

	return &Index{dim: dim, vectors: vectors}, nil
}

func (ix *Index) Size() int { return len(ix.vectors) }

func (ix *Index) Dim() int { return ix.dim }

// Search returns the min(k, size) nearest rows by squared L2 distance,
// sorted by non-decreasing distance with ties broken by ascending row
// index. Searching an empty index returns an empty result, never an
// error.
func (ix *Index) Search(query []float32, k int) ([]domain.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("search: k must be positive, got %d", k)
	}
	if len(ix.vectors) == 0 {
		return []domain.VectorHit{}, nil
	}
	if len(query) != ix.dim {
		return nil, domain.WrapError(
			domain.ErrDimensionMismatch,
			"search",
			fmt.Errorf("query has dimension %d, index has %d", len(query), ix.dim),
		)
	}

	hits := make([]domain.VectorHit, len(ix.vectors))
	for row, v := range ix.vectors {
		hits[row] = domain.VectorHit{Row: row, Distance: squaredL2(query, v)}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Row < hits[j].Row
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

// squaredL2 accumulates in float64 so near-tie orderings do not depend
// on summation order of float32 rounding.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
