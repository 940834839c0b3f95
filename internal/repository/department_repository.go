package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
)

// DepartmentRepository manages department reference data.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	Update(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id string) (*domain.Department, error)
	List(ctx context.Context, search string, limit, offset int) ([]domain.Department, int64, error)
	Delete(ctx context.Context, id string) error
}

type departmentRepository struct {
	db Querier
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(db Querier) DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	const query = `
        INSERT INTO departments (name)
        VALUES ($1)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query, dept.Name).
		Scan(&dept.ID, &dept.CreatedAt, &dept.UpdatedAt)
}

func (r *departmentRepository) Update(ctx context.Context, dept *domain.Department) error {
	const query = `
        UPDATE departments SET name=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.db.Exec(ctx, query, dept.Name, dept.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id string) (*domain.Department, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM departments WHERE id=$1`
	var dept domain.Department
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&dept.ID,
		&dept.Name,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context, search string, limit, offset int) ([]domain.Department, int64, error) {
	where, args := searchClause("name", search)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM departments WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset = clampPage(limit, offset)
	args = append(args, limit, offset)
	query := `
        SELECT id, name, created_at, updated_at
        FROM departments WHERE ` + where + `
        ORDER BY name ASC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Department
	for rows.Next() {
		var dept domain.Department
		if err := rows.Scan(&dept.ID, &dept.Name, &dept.CreatedAt, &dept.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, dept)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *departmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM departments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
