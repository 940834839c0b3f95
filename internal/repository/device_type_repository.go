package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
)

// DeviceTypeRepository manages device-type reference data.
type DeviceTypeRepository interface {
	Create(ctx context.Context, dt *domain.DeviceType) error
	Update(ctx context.Context, dt *domain.DeviceType) error
	GetByID(ctx context.Context, id string) (*domain.DeviceType, error)
	List(ctx context.Context, search string, limit, offset int) ([]domain.DeviceType, int64, error)
	Delete(ctx context.Context, id string) error
}

type deviceTypeRepository struct {
	db Querier
}

// NewDeviceTypeRepository builds the repository.
func NewDeviceTypeRepository(db Querier) DeviceTypeRepository {
	return &deviceTypeRepository{db: db}
}

func (r *deviceTypeRepository) Create(ctx context.Context, dt *domain.DeviceType) error {
	const query = `
        INSERT INTO device_types (name, code)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query, dt.Name, dt.Code).
		Scan(&dt.ID, &dt.CreatedAt, &dt.UpdatedAt)
}

func (r *deviceTypeRepository) Update(ctx context.Context, dt *domain.DeviceType) error {
	const query = `
        UPDATE device_types SET name=$1, code=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, dt.Name, dt.Code, dt.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *deviceTypeRepository) GetByID(ctx context.Context, id string) (*domain.DeviceType, error) {
	const query = `
        SELECT id, name, code, created_at, updated_at
        FROM device_types WHERE id=$1`
	var dt domain.DeviceType
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&dt.ID,
		&dt.Name,
		&dt.Code,
		&dt.CreatedAt,
		&dt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *deviceTypeRepository) List(ctx context.Context, search string, limit, offset int) ([]domain.DeviceType, int64, error) {
	where, args := searchClause("name, code", search)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM device_types WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset = clampPage(limit, offset)
	args = append(args, limit, offset)
	query := `
        SELECT id, name, code, created_at, updated_at
        FROM device_types WHERE ` + where + `
        ORDER BY name ASC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.DeviceType
	for rows.Next() {
		var dt domain.DeviceType
		if err := rows.Scan(&dt.ID, &dt.Name, &dt.Code, &dt.CreatedAt, &dt.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *deviceTypeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM device_types WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
