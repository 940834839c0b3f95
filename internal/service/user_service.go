package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/repository"
	"github.com/incidentia/helpdesk/pkg/util"
)

// UserService serves account directory reads and administrative updates.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("user", map[string]any{"id": id})
		}
		return nil, err
	}
	return user, nil
}

// List returns a page of users plus the total matching count.
func (s *UserService) List(ctx context.Context, search string, limit, offset int) ([]domain.User, int64, error) {
	return s.users.List(ctx, search, limit, offset)
}

// UserUpdateInput describes admin-editable account fields.
type UserUpdateInput struct {
	Name         *string
	Role         *domain.UserRole
	DepartmentID *string
}

// Update applies an administrative account update.
func (s *UserService) Update(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Role != nil {
		if !domain.ValidUserRole(*input.Role) {
			return nil, util.NewValidationError("invalid role", map[string]any{"role": string(*input.Role)})
		}
		user.Role = *input.Role
	}
	if input.DepartmentID != nil {
		user.DepartmentID = input.DepartmentID
	}
	if err := s.users.Update(ctx, user); err != nil {
		if constraint, ok := util.IsForeignKeyViolation(err); ok {
			return nil, util.NewValidationError("invalid reference", map[string]any{"reference": constraint})
		}
		return nil, err
	}
	return user, nil
}
