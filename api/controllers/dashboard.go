package controllers

import (
	"net/http"

	"github.com/angelmondragon/inventario-backend/api/middleware"
	"github.com/angelmondragon/inventario-backend/api/responses"
	"github.com/angelmondragon/inventario-backend/api/validators"
	"github.com/angelmondragon/inventario-backend/api/views"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/inventario-backend/pkg/errors"
	"github.com/angelmondragon/inventario-backend/pkg/locations"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
)

type locationLister interface {
	All() []locations.Location
	Lookup(raw string) (locations.Location, bool)
}

type selectStateRequest struct {
	State string `json:"state" validate:"required"`
}

type dashboardResponse struct {
	Username  string               `json:"username"`
	Role      enums.Role           `json:"role"`
	Locations []locations.Location `json:"locations"`
}

// Dashboard sends admins to the location picker and shows supervisors their landing page.
func Dashboard(registry locationLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := middleware.SessionFromContext(r.Context())
		if rec == nil {
			responses.Fail(r.Context(), logg, w, r, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}
		if responses.WantsJSON(r) {
			responses.WriteSuccess(w, dashboardResponse{Username: rec.Username, Role: rec.Role, Locations: registry.All()})
			return
		}
		if rec.Role == enums.RoleAdmin {
			responses.Redirect(w, r, "/select_state")
			return
		}
		page := newPage(r, "Panel")
		page.Locations = registry.All()
		responses.Page(r.Context(), logg, w, http.StatusOK, views.PageSupervisorDashboard, page)
	}
}

func SelectStatePage(registry locationLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := newPage(r, "Seleccionar ubicación")
		page.Locations = registry.All()
		responses.Page(r.Context(), logg, w, http.StatusOK, views.PageSelectState, page)
	}
}

func SelectState(registry locationLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		page := newPage(r, "Seleccionar ubicación")
		page.Locations = registry.All()

		var body selectStateRequest
		if err := validators.DecodeRequest(r, &body); err != nil {
			responses.FailForm(ctx, logg, w, r, err, views.PageSelectState, page)
			return
		}
		loc, ok := registry.Lookup(body.State)
		if !ok {
			err := pkgerrors.New(pkgerrors.CodeNotFound, "unknown location")
			responses.FailForm(ctx, logg, w, r, err, views.PageSelectState, page)
			return
		}
		target := locationPath("/state_dashboard", loc)
		if responses.WantsJSON(r) {
			responses.WriteSuccess(w, map[string]string{"location": loc.Code, "redirect": target})
			return
		}
		responses.Redirect(w, r, target)
	}
}

func StateDashboard(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loc, err := currentLocation(r)
		if err != nil {
			responses.Fail(r.Context(), logg, w, r, err)
			return
		}
		if responses.WantsJSON(r) {
			responses.WriteSuccess(w, loc)
			return
		}
		responses.Page(r.Context(), logg, w, http.StatusOK, views.PageStateDashboard, newPage(r, loc.Label))
	}
}

// ChooseLocation is mounted on the location-less variants of scoped routes.
func ChooseLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.Redirect(w, r, "/select_state")
	}
}
