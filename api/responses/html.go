package responses

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/angelmondragon/inventario-backend/api/views"
	"github.com/angelmondragon/inventario-backend/pkg/logger"
)

// WantsJSON reports whether the client negotiated the JSON envelope instead of HTML pages.
func WantsJSON(r *http.Request) bool {
	if r == nil {
		return false
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == "application/json" {
			return true
		}
	}
	return false
}

// Redirect sends a 303 so a POSTed form is followed by a GET.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Page renders an HTML page. A template failure falls back to a plain 500.
func Page(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, status int, name string, data views.Page) {
	if err := views.Render(w, status, name, data); err != nil {
		if logg != nil {
			logg.Error(logg.WithField(ctx, "page", name), "render.failed", err)
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// Fail writes err as a JSON envelope or an HTML error page, depending on the client.
func Fail(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if WantsJSON(r) {
		WriteError(ctx, logg, w, err)
		return
	}
	status, apiErr := describe(err)
	logError(ctx, logg, err)
	Page(ctx, logg, w, status, views.PageError, views.Page{
		Title:  http.StatusText(status),
		Status: status,
		Error:  apiErr.Message,
	})
}

// FailForm re-renders a rejected form with the public error message and the submitted values.
// Server side failures still get the error page.
func FailForm(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, r *http.Request, err error, name string, data views.Page) {
	status, apiErr := describe(err)
	if WantsJSON(r) || status >= http.StatusInternalServerError {
		Fail(ctx, logg, w, r, err)
		return
	}
	logError(ctx, logg, err)
	data.Error = apiErr.Message
	Page(ctx, logg, w, status, name, data)
}
