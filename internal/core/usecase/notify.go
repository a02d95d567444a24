package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/fir-intake/internal/core/domain"
	"github.com/kirillkom/fir-intake/internal/core/ports"
)

type NotifyUseCase struct {
	notifications ports.NotificationRepository
}

func NewNotifyUseCase(notifications ports.NotificationRepository) *NotifyUseCase {
	return &NotifyUseCase{notifications: notifications}
}

// Dispatch turns one status-change event into a stored notification.
func (uc *NotifyUseCase) Dispatch(ctx context.Context, change domain.StatusChange) error {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    change.UserID,
		Message:   statusMessage(change),
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	return nil
}

func statusMessage(change domain.StatusChange) string {
	short := change.ComplaintID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("Your complaint (%s) status has been updated to '%s'.", short, statusLabel(change.To))
}

func statusLabel(status domain.ComplaintStatus) string {
	switch status {
	case domain.StatusSubmitted:
		return "Submitted"
	case domain.StatusInReview:
		return "In Review"
	case domain.StatusResolved:
		return "Resolved"
	case domain.StatusArchived:
		return "Archived"
	default:
		return string(status)
	}
}
