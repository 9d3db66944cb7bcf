// Package views renders the server-side HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"time"

	"github.com/Masterminds/sprig/v3"

	"github.com/angelmondragon/inventario-backend/pkg/auth/session"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
	"github.com/angelmondragon/inventario-backend/pkg/locations"
)

const (
	PageLogin               = "login"
	PageSupervisorDashboard = "supervisor_dashboard"
	PageSelectState         = "select_state"
	PageStateDashboard      = "state_dashboard"
	PageAddProduct          = "add_product"
	PageViewInventory       = "view_inventory"
	PageEditInventory       = "edit_inventory"
	PageViewHistory         = "view_history"
	PageCreateUser          = "create_user"
	PageViewUsers           = "view_users"
	PageDeleteUser          = "delete_user_form"
	PageChangePassword      = "change_password"
	PageError               = "error"
)

const layoutFile = "templates/layout.html"

//go:embed templates/*.html
var templatesFS embed.FS

var pages = mustParse()

// Page is the data every template receives.
type Page struct {
	Title     string
	Session   *session.Record
	Location  *locations.Location
	Locations []locations.Location
	Status    int
	Error     string
	Notice    string
	Form      map[string]string
	Data      any
}

// Can reports whether the signed-in role holds the named capability.
func (p Page) Can(capability string) bool {
	if p.Session == nil {
		return false
	}
	return p.Session.Role.Can(enums.Capability(capability))
}

// Value returns a previously submitted form value so a rejected form keeps its input.
func (p Page) Value(field string) string {
	if p.Form == nil {
		return ""
	}
	return p.Form[field]
}

func funcs() template.FuncMap {
	fm := sprig.HtmlFuncMap()
	fm["stamp"] = stamp
	return fm
}

// stamp formats a time.Time or *time.Time in UTC, "-" when unset.
func stamp(v any) string {
	var t time.Time
	switch ts := v.(type) {
	case time.Time:
		t = ts
	case *time.Time:
		if ts != nil {
			t = *ts
		}
	}
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

func mustParse() map[string]*template.Template {
	parsed, err := parse()
	if err != nil {
		panic(err)
	}
	return parsed
}

func parse() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(Names()))
	for _, name := range Names() {
		tmpl, err := template.New(name).Funcs(funcs()).ParseFS(templatesFS, layoutFile, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		out[name] = tmpl
	}
	return out, nil
}

// Names lists every renderable page.
func Names() []string {
	names := []string{
		PageLogin,
		PageSupervisorDashboard,
		PageSelectState,
		PageStateDashboard,
		PageAddProduct,
		PageViewInventory,
		PageEditInventory,
		PageViewHistory,
		PageCreateUser,
		PageViewUsers,
		PageDeleteUser,
		PageChangePassword,
		PageError,
	}
	sort.Strings(names)
	return names
}

// Render executes the named page inside the shared layout and writes it with status.
// Nothing is written when the template fails.
func Render(w http.ResponseWriter, status int, name string, data Page) error {
	tmpl, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if data.Status == 0 {
		data.Status = status
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
