package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/inventario-backend/pkg/config"
	"github.com/angelmondragon/inventario-backend/pkg/db"
	"github.com/angelmondragon/inventario-backend/pkg/db/models"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/inventario-backend/pkg/errors"
	"github.com/angelmondragon/inventario-backend/pkg/security"
	"gorm.io/gorm"
)

type usersRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	DeleteByID(ctx context.Context, id uint) (bool, error)
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}

type sessionRevoker interface {
	RevokeUser(ctx context.Context, userID uint) error
}

// Service exposes account administration.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	Delete(ctx context.Context, actor Actor, input DeleteUserInput) error
	ChangePassword(ctx context.Context, actor Actor, input ChangePasswordInput) error
	SetPassword(ctx context.Context, username, password string) error
}

type service struct {
	repo        usersRepository
	sessions    sessionRevoker
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo        usersRepository
	Sessions    sessionRevoker
	PasswordCfg config.PasswordConfig
}

// NewService builds a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session revoker required")
	}
	return &service{
		repo:        params.Repo,
		sessions:    params.Sessions,
		passwordCfg: params.PasswordCfg,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	username, err := normalizeUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if err := checkPassword("password", input.Password); err != nil {
		return nil, err
	}
	role, err := enums.ParseRole(input.Role)
	if err != nil {
		return nil, pkgerrors.Validation("role", "must be admin or supervisor")
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, pkgerrors.DuplicateUsername(username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		// a concurrent create can slip past the lookup above
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.DuplicateUsername(username)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, input DeleteUserInput) error {
	target := strings.TrimSpace(input.Username)
	if target == "" {
		return pkgerrors.Validation("username", "is required")
	}
	if input.Confirmation == "" {
		return pkgerrors.Validation("confirmation", "is required")
	}

	admin, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "session user no longer exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup acting user")
	}
	ok, err := security.VerifyPassword(input.Confirmation, admin.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify confirmation")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "confirmation password is incorrect")
	}
	if target == admin.Username {
		return pkgerrors.Validation("username", "cannot be your own account")
	}

	user, err := s.repo.FindByUsername(ctx, target)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	// Sessions go first so a Redis failure leaves the account intact and retryable.
	if err := s.sessions.RevokeUser(ctx, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke sessions")
	}

	deleted, err := s.repo.DeleteByID(ctx, user.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func (s *service) ChangePassword(ctx context.Context, actor Actor, input ChangePasswordInput) error {
	if err := checkPassword("new_password", input.NewPassword); err != nil {
		return err
	}
	user, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "session user no longer exists")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	ok, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "current password is incorrect")
	}
	return s.storePassword(ctx, user.ID, input.NewPassword)
}

// SetPassword overwrites a password without the current one and drops every
// session of that user. Operator tooling only.
func (s *service) SetPassword(ctx context.Context, username, password string) error {
	if err := checkPassword("password", password); err != nil {
		return err
	}
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if err := s.storePassword(ctx, user.ID, password); err != nil {
		return err
	}
	if err := s.sessions.RevokeUser(ctx, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke sessions")
	}
	return nil
}

func (s *service) storePassword(ctx context.Context, userID uint, password string) error {
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	return nil
}

func normalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return "", pkgerrors.Validation("username", fmt.Sprintf("must be %d-%d characters", MinUsernameLength, MaxUsernameLength))
	}
	return username, nil
}

func checkPassword(field, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return pkgerrors.Validation(field, fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	return nil
}
