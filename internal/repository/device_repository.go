package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
)

// DeviceRepository manages device reference data.
type DeviceRepository interface {
	Create(ctx context.Context, device *domain.Device) error
	Update(ctx context.Context, device *domain.Device) error
	GetByID(ctx context.Context, id string) (*domain.Device, error)
	List(ctx context.Context, search string, limit, offset int) ([]domain.Device, int64, error)
	Delete(ctx context.Context, id string) error
}

type deviceRepository struct {
	db Querier
}

// NewDeviceRepository builds the repository.
func NewDeviceRepository(db Querier) DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) Create(ctx context.Context, device *domain.Device) error {
	const query = `
        INSERT INTO devices (name, device_type_id, department_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		device.Name,
		device.DeviceTypeID,
		device.DepartmentID,
	).Scan(&device.ID, &device.CreatedAt, &device.UpdatedAt)
}

func (r *deviceRepository) Update(ctx context.Context, device *domain.Device) error {
	const query = `
        UPDATE devices SET name=$1, device_type_id=$2, department_id=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query,
		device.Name,
		device.DeviceTypeID,
		device.DepartmentID,
		device.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *deviceRepository) GetByID(ctx context.Context, id string) (*domain.Device, error) {
	const query = `
        SELECT id, name, device_type_id, department_id, created_at, updated_at
        FROM devices WHERE id=$1`
	var device domain.Device
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&device.ID,
		&device.Name,
		&device.DeviceTypeID,
		&device.DepartmentID,
		&device.CreatedAt,
		&device.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepository) List(ctx context.Context, search string, limit, offset int) ([]domain.Device, int64, error) {
	where, args := searchClause("name", search)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM devices WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit, offset = clampPage(limit, offset)
	args = append(args, limit, offset)
	query := `
        SELECT id, name, device_type_id, department_id, created_at, updated_at
        FROM devices WHERE ` + where + `
        ORDER BY name ASC LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Device
	for rows.Next() {
		var device domain.Device
		if err := rows.Scan(
			&device.ID,
			&device.Name,
			&device.DeviceTypeID,
			&device.DepartmentID,
			&device.CreatedAt,
			&device.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, device)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *deviceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM devices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
