package users

import (
	"strings"
	"time"

	"github.com/angelmondragon/inventario-backend/pkg/db/models"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
	MinPasswordLength = 8
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Role        enums.Role `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	PasswordHash string
	Role         enums.Role
}

// CreateUserInput is the admin-supplied payload for a new account.
type CreateUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=admin supervisor"`
}

// DeleteUserInput names the account to remove plus the acting admin's own password.
type DeleteUserInput struct {
	Username     string `json:"username" validate:"required"`
	Confirmation string `json:"confirmation" validate:"required"`
}

// ChangePasswordInput rotates the caller's own password.
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Actor identifies the signed-in user performing an administrative action.
type Actor struct {
	UserID   uint
	Username string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Username:     strings.TrimSpace(c.Username),
		PasswordHash: c.PasswordHash,
		Role:         c.Role,
	}
}
