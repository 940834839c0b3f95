package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/incidentia/helpdesk/internal/auth"
	"github.com/incidentia/helpdesk/internal/config"
	"github.com/incidentia/helpdesk/internal/domain"
	"github.com/incidentia/helpdesk/internal/repository"
	"github.com/incidentia/helpdesk/internal/verify"
	"github.com/incidentia/helpdesk/pkg/util"
)

// CodeDeliverer sends a password reset code out of band.
type CodeDeliverer interface {
	DeliverResetCode(ctx context.Context, email, code string)
}

// AuthService coordinates registration, login, and password flows.
type AuthService struct {
	users      repository.UserRepository
	codes      verify.CodeStore
	deliverer  CodeDeliverer
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies bundles requirements for the auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	CodeStore verify.CodeStore
	Deliverer CodeDeliverer
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		codes:      deps.CodeStore,
		deliverer:  deps.Deliverer,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a new account with the USER role.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, time.Time, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, "", time.Time{}, util.NewValidationError("name, email and password are required", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.UserRoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if _, ok := util.IsUniqueViolation(err); ok {
			return nil, "", time.Time{}, util.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates an account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, util.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, util.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// RequestPasswordReset issues a short-lived code for the account. The
// code goes out through a side channel; unknown emails are not revealed.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	code, err := s.codes.Issue(ctx, user.ID)
	if err != nil {
		return "", err
	}
	if s.deliverer != nil {
		s.deliverer.DeliverResetCode(ctx, user.Email, code)
	}
	return code, nil
}

// ConfirmPasswordReset consumes the code and sets a new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return util.NewValidationError("new password is required", nil)
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewValidationError("invalid reset code", nil)
		}
		return err
	}
	if err := s.codes.Consume(ctx, user.ID, code); err != nil {
		if errors.Is(err, verify.ErrCodeMismatch) {
			return util.NewValidationError("invalid reset code", nil)
		}
		return err
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// ChangePassword verifies the current password before replacing it.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	if newPassword == "" {
		return util.NewValidationError("new password is required", nil)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, current); err != nil {
		return util.NewUnauthorized("invalid credentials")
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}
