package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/inventario-backend/api/middleware"
	"github.com/angelmondragon/inventario-backend/api/views"
	"github.com/angelmondragon/inventario-backend/internal/users"
	pkgerrors "github.com/angelmondragon/inventario-backend/pkg/errors"
	"github.com/angelmondragon/inventario-backend/pkg/locations"
)

// newPage seeds template data with the session and location the middleware resolved.
func newPage(r *http.Request, title string) views.Page {
	page := views.Page{
		Title:   title,
		Session: middleware.SessionFromContext(r.Context()),
	}
	if loc, ok := middleware.LocationFromContext(r.Context()); ok {
		page.Location = &loc
	}
	return page
}

// submitted echoes posted form values back into a re-rendered form. Secrets are never echoed.
func submitted(r *http.Request) map[string]string {
	out := map[string]string{}
	for key, values := range r.PostForm {
		if len(values) == 0 || strings.Contains(key, "password") || key == "confirmation" {
			continue
		}
		out[key] = values[0]
	}
	return out
}

func currentLocation(r *http.Request) (locations.Location, error) {
	loc, ok := middleware.LocationFromContext(r.Context())
	if !ok {
		return locations.Location{}, pkgerrors.New(pkgerrors.CodeInternal, "location guard missing")
	}
	return loc, nil
}

func currentActor(r *http.Request) (users.Actor, error) {
	rec := middleware.SessionFromContext(r.Context())
	if rec == nil {
		return users.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return users.Actor{UserID: rec.UserID, Username: rec.Username}, nil
}

func locationPath(prefix string, loc locations.Location) string {
	return prefix + "/" + loc.Code
}
