package ports

import (
	"context"

	"github.com/kirillkom/fir-intake/internal/core/domain"
)

// Embedder projects text into the fixed-dimension vector space shared
// with the statute corpus. Both forms are deterministic for a fixed
// provider version; provider failures carry the domain.ErrEncoding kind.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Normalizer turns a raw incident narrative into the keyword-annotated
// composite query handed to the embedder. Total over all inputs.
type Normalizer interface {
	Normalize(text string) domain.NormalizedQuery
}

// VectorIndex is an exact nearest-neighbor structure over the corpus
// embedding matrix, queried by squared Euclidean distance. Row order
// corresponds one-to-one with corpus row order.
type VectorIndex interface {
	Size() int
	Dim() int
	Search(query []float32, k int) ([]domain.VectorHit, error)
}

// IndexBuilder constructs a VectorIndex from a row-ordered embedding
// matrix. An empty matrix yields a valid empty index.
type IndexBuilder interface {
	Build(vectors [][]float32) (VectorIndex, error)
}

// ComplaintRepository persists complaint state.
type ComplaintRepository interface {
	Create(ctx context.Context, c *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error)
	ListPending(ctx context.Context, stationID string) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus, notes string, sections []string) error
}

// NotificationRepository persists user-facing notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// EventQueue publishes/consumes workflow and corpus lifecycle events.
type EventQueue interface {
	PublishStatusChanged(ctx context.Context, change domain.StatusChange) error
	SubscribeStatusChanged(ctx context.Context, handler func(context.Context, domain.StatusChange) error) error
	PublishCorpusRebuilt(ctx context.Context, artifactPath string) error
	SubscribeCorpusRebuilt(ctx context.Context, handler func(context.Context, string) error) error
}
