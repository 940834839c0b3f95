package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
)

// CommentRepository manages threaded ticket comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.Comment, int64, error)
	WithTx(tx pgx.Tx) CommentRepository
}

type commentRepository struct {
	db Querier
}

// NewCommentRepository builds the repository.
func NewCommentRepository(db Querier) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) WithTx(tx pgx.Tx) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO comments (ticket_id, user_id, parent_comment_id, text)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		comment.TicketID,
		comment.UserID,
		comment.ParentCommentID,
		comment.Text,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	const query = `
        SELECT id, ticket_id, user_id, parent_comment_id, text, created_at, updated_at
        FROM comments WHERE id=$1`
	var comment domain.Comment
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.TicketID,
		&comment.UserID,
		&comment.ParentCommentID,
		&comment.Text,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.Comment, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE ticket_id=$1`, ticketID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
        SELECT id, ticket_id, user_id, parent_comment_id, text, created_at, updated_at
        FROM comments WHERE ticket_id=$1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, ticketID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TicketID,
			&comment.UserID,
			&comment.ParentCommentID,
			&comment.Text,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}
