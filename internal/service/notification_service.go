package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/repository"
	"github.com/incidentia/helpdesk/pkg/util"
)

// NotificationService creates notification fan-outs and serves per-user
// inbox operations.
type NotificationService struct {
	db            repository.TxBeginner
	notifications repository.NotificationRepository
}

// NewNotificationService constructs the service.
func NewNotificationService(db repository.TxBeginner, notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{db: db, notifications: notifications}
}

// FanOutInput describes one notification delivered to a recipient set.
type FanOutInput struct {
	Type         domain.NotificationType
	Message      string
	TicketID     *string
	RecipientIDs []string
}

// FanOut creates one notification row plus one delivery-state row per
// unique recipient inside a single transaction. Any failure rolls the
// whole fan-out back; duplicate recipient ids collapse to one row.
func (s *NotificationService) FanOut(ctx context.Context, input FanOutInput) (*domain.Notification, error) {
	var notification *domain.Notification
	err := repository.InTx(ctx, s.db, func(tx pgx.Tx) error {
		var txErr error
		notification, txErr = s.FanOutInTx(ctx, tx, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return notification, nil
}

// FanOutInTx runs the fan-out inside a caller-supplied transaction.
func (s *NotificationService) FanOutInTx(ctx context.Context, tx pgx.Tx, input FanOutInput) (*domain.Notification, error) {
	recipients := dedupe(input.RecipientIDs)
	if len(recipients) == 0 {
		return nil, util.NewValidationError("notification requires at least one recipient", nil)
	}
	if input.Message == "" {
		return nil, util.NewValidationError("notification message is required", nil)
	}

	repo := s.notifications.WithTx(tx)
	notification := &domain.Notification{
		Type:     input.Type,
		Message:  input.Message,
		TicketID: input.TicketID,
	}
	if err := repo.Create(ctx, notification); err != nil {
		return nil, err
	}
	for _, userID := range recipients {
		if err := repo.AddRecipient(ctx, notification.ID, userID); err != nil {
			return nil, err
		}
	}
	return notification, nil
}

// ListForUser returns the user's visible notifications plus the total.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.UserNotification, int64, error) {
	return s.notifications.ListForUser(ctx, userID, limit, offset)
}

// UnreadCount returns the number of unread, visible notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notifications.UnreadCount(ctx, userID)
}

// MarkRead stamps the user's delivery state for one notification.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	if err := s.notifications.MarkRead(ctx, notificationID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("notification", map[string]any{"id": notificationID})
		}
		return err
	}
	return nil
}

// MarkAllRead stamps every unread delivery state for the user.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

// Hide removes a notification from the user's inbox without touching the
// shared notification row.
func (s *NotificationService) Hide(ctx context.Context, notificationID, userID string) error {
	if err := s.notifications.Hide(ctx, notificationID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("notification", map[string]any{"id": notificationID})
		}
		return err
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
