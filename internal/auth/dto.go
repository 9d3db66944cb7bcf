package auth

import (
	"github.com/angelmondragon/inventario-backend/internal/users"
	"github.com/angelmondragon/inventario-backend/pkg/auth/session"
)

// LoginRequest captures the credentials posted by the login form.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the cookie value and the session it points to.
type LoginResult struct {
	Token   string          `json:"-"`
	Session *session.Record `json:"-"`
	User    *users.UserDTO  `json:"user"`
}
