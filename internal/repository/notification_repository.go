package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
)

// NotificationRepository persists notifications and per-recipient
// delivery state.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	AddRecipient(ctx context.Context, notificationID, userID string) error
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.UserNotification, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Hide(ctx context.Context, notificationID, userID string) error
	WithTx(tx pgx.Tx) NotificationRepository
}

type notificationRepository struct {
	db Querier
}

// NewNotificationRepository builds the repository.
func NewNotificationRepository(db Querier) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) WithTx(tx pgx.Tx) NotificationRepository {
	return &notificationRepository{db: tx}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (type, message, ticket_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		notification.Type,
		notification.Message,
		notification.TicketID,
	).Scan(&notification.ID, &notification.CreatedAt)
}

// AddRecipient inserts a delivery-state row. Duplicate recipients are
// tolerated via ON CONFLICT DO NOTHING.
func (r *notificationRepository) AddRecipient(ctx context.Context, notificationID, userID string) error {
	const query = `
        INSERT INTO notification_recipients (notification_id, user_id)
        VALUES ($1,$2)
        ON CONFLICT (notification_id, user_id) DO NOTHING`
	_, err := r.db.Exec(ctx, query, notificationID, userID)
	return err
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]domain.UserNotification, int64, error) {
	var total int64
	const countQuery = `
        SELECT COUNT(*) FROM notification_recipients nr
        WHERE nr.user_id=$1 AND NOT nr.hidden`
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
        SELECT n.id, n.type, n.message, n.ticket_id, n.created_at, nr.read_at, nr.hidden
        FROM notifications n
        JOIN notification_recipients nr ON nr.notification_id = n.id
        WHERE nr.user_id=$1 AND NOT nr.hidden
        ORDER BY n.created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.UserNotification
	for rows.Next() {
		var n domain.UserNotification
		if err := rows.Scan(
			&n.ID,
			&n.Type,
			&n.Message,
			&n.TicketID,
			&n.CreatedAt,
			&n.ReadAt,
			&n.Hidden,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	const query = `
        SELECT COUNT(*) FROM notification_recipients
        WHERE user_id=$1 AND read_at IS NULL AND NOT hidden`
	var count int64
	err := r.db.QueryRow(ctx, query, userID).Scan(&count)
	return count, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	const query = `
        UPDATE notification_recipients SET read_at=NOW()
        WHERE notification_id=$1 AND user_id=$2 AND read_at IS NULL`
	cmd, err := r.db.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// already read or not a recipient; distinguish via lookup
		var exists bool
		checkErr := r.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM notification_recipients WHERE notification_id=$1 AND user_id=$2)`,
			notificationID, userID).Scan(&exists)
		if checkErr != nil {
			return checkErr
		}
		if !exists {
			return pgx.ErrNoRows
		}
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	const query = `
        UPDATE notification_recipients SET read_at=NOW()
        WHERE user_id=$1 AND read_at IS NULL`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *notificationRepository) Hide(ctx context.Context, notificationID, userID string) error {
	const query = `
        UPDATE notification_recipients SET hidden=TRUE
        WHERE notification_id=$1 AND user_id=$2`
	cmd, err := r.db.Exec(ctx, query, notificationID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
