package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/angelmondragon/inventario-backend/internal/users"
	"github.com/angelmondragon/inventario-backend/pkg/auth/session"
	"github.com/angelmondragon/inventario-backend/pkg/config"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/inventario-backend/pkg/errors"
	"github.com/angelmondragon/inventario-backend/pkg/migrate/migratetest"
	redisclient "github.com/angelmondragon/inventario-backend/pkg/redis"
	"github.com/angelmondragon/inventario-backend/pkg/security"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	svc      Service
	users    users.Service
	repo     *users.Repository
	sessions *session.Manager
}

func newHarness(t *testing.T) harness {
	t.Helper()
	client := migratetest.NewSQLite(t)
	repo := users.NewRepository(client.DB())

	mr := miniredis.RunT(t)
	raw := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = raw.Close() })
	sessions, err := session.NewManager(redisclient.NewFromRaw(raw), config.SessionConfig{
		Secret:  "test-secret",
		Issuer:  "inventario-test",
		IdleTTL: time.Hour,
		MaxAge:  2 * time.Hour,
	})
	require.NoError(t, err)

	usersSvc, err := users.NewService(users.ServiceParams{Repo: repo, Sessions: sessions})
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{UserRepo: repo, SessionManager: sessions})
	require.NoError(t, err)
	return harness{svc: svc, users: usersSvc, repo: repo, sessions: sessions}
}

func TestLoginRoundTripsRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	for _, tc := range []struct {
		username string
		role     enums.Role
	}{
		{"admin", enums.RoleAdmin},
		{"maria", enums.RoleSupervisor},
	} {
		_, err := h.users.Create(ctx, users.CreateUserInput{Username: tc.username, Password: "password1", Role: string(tc.role)})
		require.NoError(t, err)

		res, err := h.svc.Login(ctx, LoginRequest{Username: " " + tc.username + " ", Password: "password1"})
		require.NoError(t, err)
		assert.Equal(t, tc.role, res.Session.Role)
		assert.Equal(t, tc.role, res.User.Role)
		require.NotNil(t, res.User.LastLoginAt)

		rec, err := h.sessions.Resolve(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, tc.username, rec.Username)
		assert.Equal(t, tc.role, rec.Role)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.users.Create(ctx, users.CreateUserInput{Username: "admin", Password: "password1", Role: "admin"})
	require.NoError(t, err)

	_, unknownErr := h.svc.Login(ctx, LoginRequest{Username: "ghost", Password: "password1"})
	_, wrongErr := h.svc.Login(ctx, LoginRequest{Username: "admin", Password: "wrong-password"})
	_, blankErr := h.svc.Login(ctx, LoginRequest{Username: "", Password: ""})

	for _, err := range []error{unknownErr, wrongErr, blankErr} {
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
		assert.Equal(t, "invalid credentials", typed.Message())
	}
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())

	stored, err := h.repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Nil(t, stored.LastLoginAt, "failed logins must not touch last_login_at")
}

func TestLogoutRevokesSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.users.Create(ctx, users.CreateUserInput{Username: "admin", Password: "password1", Role: "admin"})
	require.NoError(t, err)

	res, err := h.svc.Login(ctx, LoginRequest{Username: "admin", Password: "password1"})
	require.NoError(t, err)
	require.NoError(t, h.svc.Logout(ctx, res.Token))
	_, err = h.sessions.Resolve(ctx, res.Token)
	assert.ErrorIs(t, err, session.ErrNoSession)

	require.NoError(t, h.svc.Logout(ctx, res.Token), "logout is idempotent")
	require.NoError(t, h.svc.Logout(ctx, ""), "logout without a cookie is a no-op")
}

func TestDeletedUserCannotLogIn(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin, err := h.users.Create(ctx, users.CreateUserInput{Username: "admin", Password: "admin-pass", Role: "admin"})
	require.NoError(t, err)
	_, err = h.users.Create(ctx, users.CreateUserInput{Username: "maria", Password: "password1", Role: "supervisor"})
	require.NoError(t, err)

	res, err := h.svc.Login(ctx, LoginRequest{Username: "maria", Password: "password1"})
	require.NoError(t, err)

	actor := users.Actor{UserID: admin.ID, Username: admin.Username}
	require.NoError(t, h.users.Delete(ctx, actor, users.DeleteUserInput{Username: "maria", Confirmation: "admin-pass"}))

	_, err = h.sessions.Resolve(ctx, res.Token)
	assert.ErrorIs(t, err, session.ErrNoSession, "deleting a user drops their live sessions")
	_, err = h.svc.Login(ctx, LoginRequest{Username: "maria", Password: "password1"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized), "got %v", err)
}

type brokenSessions struct{}

func (brokenSessions) Create(ctx context.Context, id session.Identity) (string, *session.Record, error) {
	return "", nil, errors.New("redis down")
}

func (brokenSessions) RevokeToken(ctx context.Context, token string) error {
	return errors.New("redis down")
}

func TestLoginSurfacesSessionStoreOutage(t *testing.T) {
	client := migratetest.NewSQLite(t)
	repo := users.NewRepository(client.DB())
	usersSvc, err := users.NewService(users.ServiceParams{Repo: repo, Sessions: &session.Manager{}})
	require.NoError(t, err)
	_, err = usersSvc.Create(context.Background(), users.CreateUserInput{Username: "admin", Password: "password1", Role: "admin"})
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{UserRepo: repo, SessionManager: brokenSessions{}})
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "password1"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency), "got %v", err)
	err = svc.Logout(context.Background(), "token")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency), "got %v", err)
}

func TestLoginUpgradesOutdatedHash(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, err := h.users.Create(ctx, users.CreateUserInput{Username: "admin", Password: "password1", Role: "admin"})
	require.NoError(t, err)
	before, err := h.repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)

	stronger := config.PasswordConfig{ArgonMemoryKB: 16, ArgonTime: 2, ArgonParallelism: 1}
	require.True(t, security.NeedsRehash(before.PasswordHash, stronger))

	svc, err := NewService(ServiceParams{UserRepo: h.repo, SessionManager: h.sessions, PasswordCfg: stronger})
	require.NoError(t, err)
	_, err = svc.Login(ctx, LoginRequest{Username: "admin", Password: "password1"})
	require.NoError(t, err)

	after, err := h.repo.FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, before.PasswordHash, after.PasswordHash)
	assert.False(t, security.NeedsRehash(after.PasswordHash, stronger))

	_, err = svc.Login(ctx, LoginRequest{Username: "admin", Password: "password1"})
	require.NoError(t, err, "upgraded hash still verifies")
}
