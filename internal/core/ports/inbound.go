package ports

import (
	"context"

	"github.com/kirillkom/fir-intake/internal/core/domain"
)

// StatuteSearcher is the inbound contract for semantic statute retrieval.
type StatuteSearcher interface {
	Search(ctx context.Context, rawText string, k int) ([]domain.RankedResult, error)
	Ready() bool
	CorpusSize() int
}

// CorpusSwapper replaces the active corpus+index pairing atomically.
type CorpusSwapper interface {
	Swap(entries []domain.CorpusEntry, index VectorIndex) error
}

// ComplaintIntake is the inbound contract for the complaint workflow.
type ComplaintIntake interface {
	Submit(ctx context.Context, c *domain.Complaint) (*domain.Complaint, error)
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error)
	ListPending(ctx context.Context, stationID string) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, next domain.ComplaintStatus, notes string, sections []string) error
	Notifications(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
}

// NotificationDispatcher is the inbound contract for the async worker
// that turns status-change events into notification rows.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, change domain.StatusChange) error
}
