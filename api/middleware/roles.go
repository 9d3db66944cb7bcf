package middleware

import (
	"net/http"

	"github.com/angelmondragon/inventario-backend/api/responses"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/inventario-backend/pkg/errors"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
)

// RequireCapability rejects sessions whose role is not granted capability.
// It must run after Session.
func RequireCapability(capability enums.Capability, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			rec := SessionFromContext(ctx)
			if rec == nil {
				responses.Fail(ctx, logg, w, r, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}
			if !rec.Role.Can(capability) {
				if logg != nil {
					ctx = logg.WithField(ctx, "capability", capability.String())
				}
				responses.Fail(ctx, logg, w, r, pkgerrors.Unauthorized())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
