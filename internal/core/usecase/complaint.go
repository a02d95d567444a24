package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/fir-intake/internal/core/domain"
	"github.com/kirillkom/fir-intake/internal/core/ports"
)

const suggestedSectionCount = 3

type ComplaintUseCase struct {
	repo          ports.ComplaintRepository
	notifications ports.NotificationRepository
	queue         ports.EventQueue
	searcher      ports.StatuteSearcher
}

func NewComplaintUseCase(
	repo ports.ComplaintRepository,
	notifications ports.NotificationRepository,
	queue ports.EventQueue,
	searcher ports.StatuteSearcher,
) *ComplaintUseCase {
	return &ComplaintUseCase{
		repo:          repo,
		notifications: notifications,
		queue:         queue,
		searcher:      searcher,
	}
}

// Submit registers a new complaint in the submitted state. Statute
// suggestions are best-effort: a retrieval failure never blocks intake.
func (uc *ComplaintUseCase) Submit(ctx context.Context, c *domain.Complaint) (*domain.Complaint, error) {
	if strings.TrimSpace(c.Narrative) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit complaint",
			errors.New("narrative is required"))
	}
	if strings.TrimSpace(c.UserID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit complaint",
			errors.New("user id is required"))
	}

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.Status = domain.StatusSubmitted
	c.CreatedAt = now
	c.UpdatedAt = now
	c.SuggestedSections = uc.suggestSections(ctx, c.Narrative)

	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}
	return c, nil
}

func (uc *ComplaintUseCase) suggestSections(ctx context.Context, narrative string) []string {
	if uc.searcher == nil {
		return nil
	}
	results, err := uc.searcher.Search(ctx, narrative, suggestedSectionCount)
	if err != nil {
		slog.Warn("statute suggestion skipped", slog.String("error", err.Error()))
		return nil
	}
	sections := make([]string, 0, len(results))
	for _, r := range results {
		sections = append(sections, r.SectionID)
	}
	return sections
}

func (uc *ComplaintUseCase) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch complaint: %w", err)
	}
	return c, nil
}

func (uc *ComplaintUseCase) ListByUser(ctx context.Context, userID string) ([]domain.Complaint, error) {
	complaints, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list complaints by user: %w", err)
	}
	return complaints, nil
}

func (uc *ComplaintUseCase) ListPending(ctx context.Context, stationID string) ([]domain.Complaint, error) {
	complaints, err := uc.repo.ListPending(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("list pending complaints: %w", err)
	}
	return complaints, nil
}

// UpdateStatus moves a complaint forward through the state machine and
// publishes a status-change event. Publishing is best-effort; the state
// change is already durable when the event goes out.
func (uc *ComplaintUseCase) UpdateStatus(ctx context.Context, id string, next domain.ComplaintStatus, notes string, sections []string) error {
	current, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch complaint: %w", err)
	}
	if !current.Status.CanTransitionTo(next) {
		return domain.WrapError(domain.ErrInvalidTransition, "update complaint status",
			fmt.Errorf("cannot move from %s to %s", current.Status, next))
	}

	if err := uc.repo.UpdateStatus(ctx, id, next, notes, sections); err != nil {
		return fmt.Errorf("update complaint status: %w", err)
	}

	change := domain.StatusChange{
		ComplaintID: id,
		UserID:      current.UserID,
		From:        current.Status,
		To:          next,
		ChangedAt:   time.Now().UTC(),
	}
	if err := uc.queue.PublishStatusChanged(ctx, change); err != nil {
		slog.Warn("status change event not published",
			slog.String("complaint_id", id),
			slog.String("error", err.Error()))
	}
	return nil
}

func (uc *ComplaintUseCase) Notifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	items, err := uc.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

func (uc *ComplaintUseCase) MarkNotificationRead(ctx context.Context, id, userID string) error {
	if err := uc.notifications.MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
