package controllers

import (
	"net/http"

	"github.com/angelmondragon/inventario-backend/api/responses"
	"github.com/angelmondragon/inventario-backend/api/validators"
	"github.com/angelmondragon/inventario-backend/api/views"
	"github.com/angelmondragon/inventario-backend/internal/auth"
	"github.com/angelmondragon/inventario-backend/pkg/auth/session"
	"github.com/angelmondragon/inventario-backend/pkg/config"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
)

const (
	loginSuccess = "success"
	loginFailure = "failure"
)

type loginCounter interface {
	IncLogin(outcome string)
}

func LoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.Page(r.Context(), nil, w, http.StatusOK, views.PageLogin, newPage(r, "Iniciar sesión"))
	}
}

// AuthLogin checks credentials, opens a session and sets the browser-session cookie.
func AuthLogin(svc auth.Service, cfg config.SessionConfig, metrics loginCounter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		page := newPage(r, "Iniciar sesión")

		var body auth.LoginRequest
		if err := validators.DecodeRequest(r, &body); err != nil {
			countLogin(metrics, loginFailure)
			page.Form = submitted(r)
			responses.FailForm(ctx, logg, w, r, err, views.PageLogin, page)
			return
		}

		result, err := svc.Login(ctx, body)
		if err != nil {
			countLogin(metrics, loginFailure)
			page.Form = map[string]string{"username": body.Username}
			responses.FailForm(ctx, logg, w, r, err, views.PageLogin, page)
			return
		}
		countLogin(metrics, loginSuccess)

		http.SetCookie(w, session.Cookie(cfg, result.Token))
		if logg != nil {
			logg.Info(logg.WithUsername(ctx, result.User.Username), "auth.login")
		}
		if responses.WantsJSON(r) {
			responses.WriteSuccess(w, result)
			return
		}
		responses.Redirect(w, r, "/dashboard")
	}
}

// AuthLogout drops the server-side session and clears the cookie. It never fails the client.
func AuthLogout(svc auth.Service, cfg config.SessionConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := svc.Logout(ctx, session.TokenFromRequest(cfg, r)); err != nil && logg != nil {
			logg.Error(ctx, "auth.logout.revoke_failed", err)
		}
		http.SetCookie(w, session.ClearCookie(cfg))
		if responses.WantsJSON(r) {
			responses.WriteSuccess(w, map[string]bool{"logged_out": true})
			return
		}
		responses.Redirect(w, r, "/")
	}
}

func countLogin(metrics loginCounter, outcome string) {
	if metrics != nil {
		metrics.IncLogin(outcome)
	}
}
