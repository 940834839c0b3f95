package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
)

var historySortColumns = map[string]string{
	"changed_at": "changed_at",
	"old_status": "old_status",
	"new_status": "new_status",
}

// StatusHistoryFilter captures audit-trail listing parameters.
type StatusHistoryFilter struct {
	TicketID        *string
	ChangedByUserID *string
	OldStatus       *domain.TicketStatus
	NewStatus       *domain.TicketStatus
	ChangedFrom     *time.Time
	ChangedTo       *time.Time
	SortBy          string
	SortDesc        bool
	Limit           int
	Offset          int
}

// StatusHistoryRepository stores immutable status-transition entries.
// Entries are append-only; no update or delete is exposed.
type StatusHistoryRepository interface {
	Create(ctx context.Context, entry *domain.StatusHistory) error
	ListWithFilter(ctx context.Context, filter StatusHistoryFilter) ([]domain.StatusHistory, int64, error)
	WithTx(tx pgx.Tx) StatusHistoryRepository
}

type statusHistoryRepository struct {
	db Querier
}

// NewStatusHistoryRepository builds the repository.
func NewStatusHistoryRepository(db Querier) StatusHistoryRepository {
	return &statusHistoryRepository{db: db}
}

func (r *statusHistoryRepository) WithTx(tx pgx.Tx) StatusHistoryRepository {
	return &statusHistoryRepository{db: tx}
}

func (r *statusHistoryRepository) Create(ctx context.Context, entry *domain.StatusHistory) error {
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now()
	}
	const query = `
        INSERT INTO status_history (ticket_id, old_status, new_status, changed_by_user_id, changed_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		entry.TicketID,
		entry.OldStatus,
		entry.NewStatus,
		entry.ChangedByUserID,
		entry.ChangedAt,
	).Scan(&entry.ID)
}

func (r *statusHistoryRepository) ListWithFilter(ctx context.Context, filter StatusHistoryFilter) ([]domain.StatusHistory, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.TicketID != nil {
		args = append(args, *filter.TicketID)
		clauses = append(clauses, fmt.Sprintf("ticket_id=$%d", len(args)))
	}
	if filter.ChangedByUserID != nil {
		args = append(args, *filter.ChangedByUserID)
		clauses = append(clauses, fmt.Sprintf("changed_by_user_id=$%d", len(args)))
	}
	if filter.OldStatus != nil {
		args = append(args, *filter.OldStatus)
		clauses = append(clauses, fmt.Sprintf("old_status=$%d", len(args)))
	}
	if filter.NewStatus != nil {
		args = append(args, *filter.NewStatus)
		clauses = append(clauses, fmt.Sprintf("new_status=$%d", len(args)))
	}
	if filter.ChangedFrom != nil {
		args = append(args, *filter.ChangedFrom)
		clauses = append(clauses, fmt.Sprintf("changed_at >= $%d", len(args)))
	}
	if filter.ChangedTo != nil {
		args = append(args, *filter.ChangedTo)
		clauses = append(clauses, fmt.Sprintf("changed_at <= $%d", len(args)))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	if err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM status_history WHERE %s`, where), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn, ok := historySortColumns[filter.SortBy]
	if !ok {
		sortColumn = "changed_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT id, ticket_id, old_status, new_status, changed_by_user_id, changed_at
        FROM status_history WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		where, sortColumn, direction, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.StatusHistory
	for rows.Next() {
		var entry domain.StatusHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.TicketID,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.ChangedByUserID,
			&entry.ChangedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}
