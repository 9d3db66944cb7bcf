package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	pkgAuth "github.com/angelmondragon/inventario-backend/pkg/auth"
	"github.com/angelmondragon/inventario-backend/pkg/config"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
	redisclient "github.com/angelmondragon/inventario-backend/pkg/redis"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// ErrNoSession is returned when the cookie is missing, forged, expired or revoked.
var ErrNoSession = errors.New("no active session")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	SAdd(ctx context.Context, key string, members ...any) error
	SRem(ctx context.Context, key string, members ...any) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
	UserSessionsKey(userID string) string
}

// Identity is the authenticated principal a session is bound to.
type Identity struct {
	UserID   uint
	Username string
	Role     enums.Role
}

// Record is the server-side state of one browser session.
type Record struct {
	ID        string     `json:"id"`
	UserID    uint       `json:"user_id"`
	Username  string     `json:"username"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// Manager creates, resolves and revokes sessions stored in Redis.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	cfg   config.SessionConfig
	now   func() time.Time
}

// Resolver exposes the read-only surface needed by middleware.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*Record, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return newManager(client, client, cfg, time.Now)
}

func newManager(store sessionStore, keyer sessionKeyer, cfg config.SessionConfig, now func() time.Time) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if cfg.IdleTTL <= 0 {
		return nil, fmt.Errorf("session idle ttl must be positive")
	}
	if cfg.MaxAge < cfg.IdleTTL {
		return nil, fmt.Errorf("session max age (%s) must not be shorter than idle ttl (%s)", cfg.MaxAge, cfg.IdleTTL)
	}
	return &Manager{store: store, keyer: keyer, cfg: cfg, now: now}, nil
}

// Create stores a new session for the identity and returns the signed cookie value.
func (m *Manager) Create(ctx context.Context, id Identity) (string, *Record, error) {
	if strings.TrimSpace(id.Username) == "" {
		return "", nil, fmt.Errorf("username is required")
	}
	if !id.Role.IsValid() {
		return "", nil, fmt.Errorf("invalid role %q", id.Role)
	}

	now := m.now().UTC()
	rec := &Record{
		ID:        uuid.NewString(),
		UserID:    id.UserID,
		Username:  id.Username,
		Role:      id.Role,
		CreatedAt: now,
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", nil, fmt.Errorf("encoding session: %w", err)
	}

	token, err := pkgAuth.MintSessionToken(m.cfg, now, pkgAuth.SessionTokenPayload{
		SessionID: rec.ID,
		UserID:    rec.UserID,
		Username:  rec.Username,
		Role:      rec.Role,
	})
	if err != nil {
		return "", nil, err
	}

	if err := m.store.Set(ctx, m.keyer.SessionKey(rec.ID), payload, m.cfg.IdleTTL); err != nil {
		return "", nil, err
	}
	indexKey := m.keyer.UserSessionsKey(userKey(rec.UserID))
	if err := m.store.SAdd(ctx, indexKey, rec.ID); err != nil {
		return "", nil, err
	}
	if _, err := m.store.Expire(ctx, indexKey, m.cfg.MaxAge); err != nil {
		return "", nil, err
	}
	return token, rec, nil
}

// Resolve verifies the cookie value, loads the server-side record and slides its idle TTL.
func (m *Manager) Resolve(ctx context.Context, token string) (*Record, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoSession
	}
	claims, err := pkgAuth.ParseSessionToken(m.cfg, token)
	if err != nil {
		return nil, ErrNoSession
	}

	key := m.keyer.SessionKey(claims.ID)
	raw, err := m.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrNoSession
		}
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	if rec.ID != claims.ID || rec.UserID != claims.UserID {
		return nil, ErrNoSession
	}

	if _, err := m.store.Expire(ctx, key, m.cfg.IdleTTL); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Revoke deletes one session. Revoking an unknown session is not an error.
func (m *Manager) Revoke(ctx context.Context, rec *Record) error {
	if rec == nil || rec.ID == "" {
		return nil
	}
	if err := m.store.Del(ctx, m.keyer.SessionKey(rec.ID)); err != nil {
		return err
	}
	return m.store.SRem(ctx, m.keyer.UserSessionsKey(userKey(rec.UserID)), rec.ID)
}

// RevokeToken resolves the cookie value without sliding its TTL and revokes it.
func (m *Manager) RevokeToken(ctx context.Context, token string) error {
	claims, err := pkgAuth.ParseSessionToken(m.cfg, token)
	if err != nil {
		return nil
	}
	return m.Revoke(ctx, &Record{ID: claims.ID, UserID: claims.UserID})
}

// RevokeUser deletes every session belonging to the user.
func (m *Manager) RevokeUser(ctx context.Context, userID uint) error {
	indexKey := m.keyer.UserSessionsKey(userKey(userID))
	ids, err := m.store.SMembers(ctx, indexKey)
	if err != nil && !errors.Is(err, redislib.Nil) {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, m.keyer.SessionKey(id))
	}
	keys = append(keys, indexKey)
	return m.store.Del(ctx, keys...)
}

func userKey(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}
