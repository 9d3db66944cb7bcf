package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/inventario-backend/pkg/auth/session"
	"github.com/angelmondragon/inventario-backend/pkg/config"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSessionConfig = config.SessionConfig{CookieName: "inventario_session"}

type stubResolver struct {
	rec *session.Record
	err error
}

func (s stubResolver) Resolve(ctx context.Context, token string) (*session.Record, error) {
	if token != "good" {
		return nil, session.ErrNoSession
	}
	return s.rec, s.err
}

func withCookie(r *http.Request, token string) *http.Request {
	r.AddCookie(&http.Cookie{Name: testSessionConfig.CookieName, Value: token})
	return r
}

func TestSessionPutsRecordInContext(t *testing.T) {
	rec := &session.Record{ID: "s1", UserID: 7, Username: "maria", Role: enums.RoleSupervisor}
	var got *session.Record
	handler := Session(testSessionConfig, stubResolver{rec: rec}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, withCookie(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "good"))

	require.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "maria", got.Username)
}

func TestSessionMissingRedirectsBrowsers(t *testing.T) {
	handler := Session(testSessionConfig, stubResolver{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/view_inventory/GDL", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, withCookie(httptest.NewRequest(http.MethodGet, "/view_inventory/GDL", nil), "expired"))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1, "stale cookie is cleared")
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestSessionMissingIs401ForJSON(t *testing.T) {
	handler := Session(testSessionConfig, stubResolver{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a session")
	}))
	req := httptest.NewRequest(http.MethodGet, "/view_inventory/GDL", nil)
	req.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionStoreOutageIs503(t *testing.T) {
	handler := Session(testSessionConfig, stubResolver{err: errors.New("redis down")}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when the store is down")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, withCookie(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "good"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequireCapability(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	guard := RequireCapability(enums.CapabilityViewHistory, nil)(ok)

	cases := []struct {
		name string
		rec  *session.Record
		want int
	}{
		{"admin", &session.Record{Username: "admin", Role: enums.RoleAdmin}, http.StatusOK},
		{"supervisor", &session.Record{Username: "maria", Role: enums.RoleSupervisor}, http.StatusForbidden},
		{"no session", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/view_history/GDL", nil)
			if tc.rec != nil {
				req = req.WithContext(WithSession(req.Context(), tc.rec))
			}
			w := httptest.NewRecorder()
			guard.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "not authorized")
				assert.NotContains(t, w.Body.String(), "GDL")
			}
		})
	}
}
