package auth

import (
	"github.com/angelmondragon/inventario-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenPayload captures the data sealed into the session cookie.
type SessionTokenPayload struct {
	SessionID string
	UserID    uint
	Username  string
	Role      enums.Role
}

// SessionTokenClaims is the signed body of the session cookie. The jti is the
// server-side session id; the cookie alone never grants access.
type SessionTokenClaims struct {
	UserID   uint       `json:"uid"`
	Username string     `json:"username"`
	Role     enums.Role `json:"role"`
	jwt.RegisteredClaims
}
