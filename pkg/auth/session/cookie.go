package session

import (
	"net/http"
	"time"

	"github.com/angelmondragon/inventario-backend/pkg/config"
)

// Cookie builds the browser-session cookie carrying token. It has no Max-Age so it
// dies with the browser; the server-side record enforces the idle timeout.
func Cookie(cfg config.SessionConfig, token string) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the session cookie in the browser.
func ClearCookie(cfg config.SessionConfig) *http.Cookie {
	c := Cookie(cfg, "")
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}

// TokenFromRequest returns the session token cookie value, or "" when absent.
func TokenFromRequest(cfg config.SessionConfig, r *http.Request) string {
	c, err := r.Cookie(cfg.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
