package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
)

// ticketSortColumns is the allow-list for ListWithFilter sorting.
var ticketSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"status":     "status",
	"priority":   "priority",
	"closed_at":  "closed_at",
}

// TicketFilter captures ticket listing parameters.
type TicketFilter struct {
	DepartmentID   *string
	AssignedUserID *string
	DeviceID       *string
	CreatedByID    *string
	Statuses       []domain.TicketStatus
	Priorities     []domain.TicketPriority
	SearchTerm     *string
	CreatedFrom    *time.Time
	CreatedTo      *time.Time
	SortBy         string
	SortDesc       bool
	Limit          int
	Offset         int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int64, error)
	Delete(ctx context.Context, id string) error
	WithTx(tx pgx.Tx) TicketRepository
}

type ticketRepository struct {
	db Querier
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(db Querier) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) WithTx(tx pgx.Tx) TicketRepository {
	return &ticketRepository{db: tx}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, status, priority, device_id, assigned_user_id, department_id, parent_ticket_id, created_by_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.DeviceID,
		ticket.AssignedUserID,
		ticket.DepartmentID,
		ticket.ParentTicketID,
		ticket.CreatedByID,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4, device_id=$5,
            assigned_user_id=$6, department_id=$7, parent_ticket_id=$8, closed_at=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.db.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.DeviceID,
		ticket.AssignedUserID,
		ticket.DepartmentID,
		ticket.ParentTicketID,
		ticket.ClosedAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, title, description, status, priority, device_id, assigned_user_id,
               department_id, parent_ticket_id, created_by_id, created_at, updated_at, closed_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.DeviceID,
		&ticket.AssignedUserID,
		&ticket.DepartmentID,
		&ticket.ParentTicketID,
		&ticket.CreatedByID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, int64, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.AssignedUserID != nil {
		args = append(args, *filter.AssignedUserID)
		clauses = append(clauses, fmt.Sprintf("assigned_user_id=$%d", len(args)))
	}
	if filter.DeviceID != nil {
		args = append(args, *filter.DeviceID)
		clauses = append(clauses, fmt.Sprintf("device_id=$%d", len(args)))
	}
	if filter.CreatedByID != nil {
		args = append(args, *filter.CreatedByID)
		clauses = append(clauses, fmt.Sprintf("created_by_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tickets WHERE %s`, where)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn, ok := ticketSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`
        SELECT id, title, description, status, priority, device_id, assigned_user_id,
               department_id, parent_ticket_id, created_by_id, created_at, updated_at, closed_at
        FROM tickets WHERE %s ORDER BY %s %s LIMIT %d OFFSET %d`,
		where, sortColumn, direction, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tickets, err := scanTickets(rows)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Status,
			&ticket.Priority,
			&ticket.DeviceID,
			&ticket.AssignedUserID,
			&ticket.DepartmentID,
			&ticket.ParentTicketID,
			&ticket.CreatedByID,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
			&ticket.ClosedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
