package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/inventario-backend/api/responses"
	pkgerrors "github.com/angelmondragon/inventario-backend/pkg/errors"
	"github.com/angelmondragon/inventario-backend/pkg/locations"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
)

// LocationParam is the route parameter every location-scoped path declares.
const LocationParam = "location"

type locationLookup interface {
	Lookup(raw string) (locations.Location, bool)
}

// Location resolves the {location} path segment against the configured set.
// Unknown values are a 404 so nothing is served for them.
func Location(registry locationLookup, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			raw := chi.URLParam(r, LocationParam)
			loc, ok := registry.Lookup(raw)
			if !ok {
				err := pkgerrors.New(pkgerrors.CodeNotFound, "unknown location").
					WithDetails(map[string]string{"location": raw})
				responses.Fail(ctx, logg, w, r, err)
				return
			}
			ctx = WithLocation(ctx, loc)
			if logg != nil {
				ctx = logg.WithLocation(ctx, loc.Code)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
