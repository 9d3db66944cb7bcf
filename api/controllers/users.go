package controllers

import (
	"net/http"

	"github.com/angelmondragon/inventario-backend/api/responses"
	"github.com/angelmondragon/inventario-backend/api/validators"
	"github.com/angelmondragon/inventario-backend/api/views"
	"github.com/angelmondragon/inventario-backend/internal/users"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
)

func CreateUserPage(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := newPage(r, "Crear usuario")
		page.Data = enums.Roles()
		responses.Page(r.Context(), logg, w, http.StatusOK, views.PageCreateUser, page)
	}
}

func CreateUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		page := newPage(r, "Crear usuario")
		page.Data = enums.Roles()

		var body users.CreateUserInput
		if err := validators.DecodeRequest(r, &body); err != nil {
			page.Form = submitted(r)
			responses.FailForm(ctx, logg, w, r, err, views.PageCreateUser, page)
			return
		}

		created, err := svc.Create(ctx, body)
		if err != nil {
			page.Form = submitted(r)
			responses.FailForm(ctx, logg, w, r, err, views.PageCreateUser, page)
			return
		}
		if logg != nil {
			logg.Info(logg.WithFields(ctx, map[string]any{
				"created_username": created.Username,
				"created_role":     created.Role,
			}), "users.created")
		}

		if responses.WantsJSON(r) {
			responses.WriteSuccessStatus(w, http.StatusCreated, created)
			return
		}
		responses.Redirect(w, r, "/view_users")
	}
}

func ViewUsers(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		list, err := svc.List(ctx)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}
		if responses.WantsJSON(r) {
			responses.WriteSuccess(w, list)
			return
		}
		page := newPage(r, "Usuarios")
		page.Data = list
		responses.Page(ctx, logg, w, http.StatusOK, views.PageViewUsers, page)
	}
}

// DeleteUserPage lists every account except the acting admin's own.
func DeleteUserPage(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		page := newPage(r, "Eliminar usuario")
		candidates, err := deletable(r, svc)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}
		page.Data = candidates
		responses.Page(ctx, logg, w, http.StatusOK, views.PageDeleteUser, page)
	}
}

// DeleteUser removes an account once the acting admin re-enters their own password.
func DeleteUser(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actor, err := currentActor(r)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}

		var body users.DeleteUserInput
		err = validators.DecodeRequest(r, &body)
		if err == nil {
			err = svc.Delete(ctx, actor, body)
		}
		if err != nil {
			page := newPage(r, "Eliminar usuario")
			page.Form = submitted(r)
			if candidates, listErr := deletable(r, svc); listErr == nil {
				page.Data = candidates
			}
			responses.FailForm(ctx, logg, w, r, err, views.PageDeleteUser, page)
			return
		}
		if logg != nil {
			logg.Warn(logg.WithField(ctx, "deleted_username", body.Username), "users.deleted")
		}

		if responses.WantsJSON(r) {
			responses.WriteSuccess(w, map[string]string{"deleted": body.Username})
			return
		}
		responses.Redirect(w, r, "/view_users")
	}
}

func ChangePasswordPage(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.Page(r.Context(), logg, w, http.StatusOK, views.PageChangePassword, newPage(r, "Cambiar contraseña"))
	}
}

func ChangePassword(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		page := newPage(r, "Cambiar contraseña")
		actor, err := currentActor(r)
		if err != nil {
			responses.Fail(ctx, logg, w, r, err)
			return
		}

		var body users.ChangePasswordInput
		err = validators.DecodeRequest(r, &body)
		if err == nil {
			err = svc.ChangePassword(ctx, actor, body)
		}
		if err != nil {
			responses.FailForm(ctx, logg, w, r, err, views.PageChangePassword, page)
			return
		}

		if responses.WantsJSON(r) {
			responses.WriteSuccess(w, map[string]bool{"password_changed": true})
			return
		}
		page.Notice = "Contraseña actualizada."
		responses.Page(ctx, logg, w, http.StatusOK, views.PageChangePassword, page)
	}
}

func deletable(r *http.Request, svc users.Service) ([]users.UserDTO, error) {
	actor, err := currentActor(r)
	if err != nil {
		return nil, err
	}
	list, err := svc.List(r.Context())
	if err != nil {
		return nil, err
	}
	out := make([]users.UserDTO, 0, len(list))
	for _, u := range list {
		if u.ID != actor.UserID {
			out = append(out, u)
		}
	}
	return out, nil
}
