package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/repository"
	"github.com/incidentia/helpdesk/pkg/util"
)

// DepartmentService manages department reference data.
type DepartmentService struct {
	departments repository.DepartmentRepository
}

// NewDepartmentService constructs the service.
func NewDepartmentService(departments repository.DepartmentRepository) *DepartmentService {
	return &DepartmentService{departments: departments}
}

// Create adds a department with a unique name.
func (s *DepartmentService) Create(ctx context.Context, name string) (*domain.Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("name is required", nil)
	}
	dept := &domain.Department{Name: name}
	if err := s.departments.Create(ctx, dept); err != nil {
		if _, ok := util.IsUniqueViolation(err); ok {
			return nil, util.NewConflict("department name already exists", map[string]any{"name": name})
		}
		return nil, err
	}
	return dept, nil
}

// Get fetches a department by id.
func (s *DepartmentService) Get(ctx context.Context, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("department", map[string]any{"id": id})
		}
		return nil, err
	}
	return dept, nil
}

// List returns a page of departments plus the total matching count.
func (s *DepartmentService) List(ctx context.Context, search string, limit, offset int) ([]domain.Department, int64, error) {
	return s.departments.List(ctx, search, limit, offset)
}

// Update renames a department.
func (s *DepartmentService) Update(ctx context.Context, id, name string) (*domain.Department, error) {
	dept, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("name is required", nil)
	}
	dept.Name = name
	if err := s.departments.Update(ctx, dept); err != nil {
		if _, ok := util.IsUniqueViolation(err); ok {
			return nil, util.NewConflict("department name already exists", map[string]any{"name": name})
		}
		return nil, err
	}
	return dept, nil
}

// Delete removes a department. Departments still referenced by tickets,
// devices, or users are protected by RESTRICT constraints and surface as
// a conflict, never a silent cascade.
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("department", map[string]any{"id": id})
		}
		if _, ok := util.IsForeignKeyViolation(err); ok {
			return util.NewConflict("department is still referenced", map[string]any{"id": id})
		}
		return err
	}
	return nil
}
