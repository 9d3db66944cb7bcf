package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/angelmondragon/inventario-backend/api/responses"
	"github.com/angelmondragon/inventario-backend/pkg/auth/session"
	"github.com/angelmondragon/inventario-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/inventario-backend/pkg/errors"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
)

type sessionResolver interface {
	Resolve(ctx context.Context, token string) (*session.Record, error)
}

// Session requires an active server-side session behind the cookie. HTML clients
// without one are sent back to the login page; JSON clients get a 401.
func Session(cfg config.SessionConfig, resolver sessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := session.TokenFromRequest(cfg, r)
			if token == "" {
				denySession(ctx, logg, w, r)
				return
			}

			rec, err := resolver.Resolve(ctx, token)
			if err != nil {
				if errors.Is(err, session.ErrNoSession) {
					http.SetCookie(w, session.ClearCookie(cfg))
					denySession(ctx, logg, w, r)
					return
				}
				responses.Fail(ctx, logg, w, r, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "session lookup failed"))
				return
			}

			ctx = WithSession(ctx, rec)
			if logg != nil {
				ctx = logg.WithUserID(ctx, strconv.FormatUint(uint64(rec.UserID), 10))
				ctx = logg.WithUsername(ctx, rec.Username)
				ctx = logg.WithActorRole(ctx, rec.Role.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func denySession(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	if responses.WantsJSON(r) {
		responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
		return
	}
	responses.Redirect(w, r, "/")
}
