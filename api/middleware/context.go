package middleware

import (
	"context"

	"github.com/angelmondragon/inventario-backend/pkg/auth/session"
	"github.com/angelmondragon/inventario-backend/pkg/locations"
)

type contextKey string

const (
	ctxSession  contextKey = "session"
	ctxLocation contextKey = "location"
)

// SessionFromContext returns the resolved session, or nil on public routes.
func SessionFromContext(ctx context.Context) *session.Record {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxSession).(*session.Record); ok {
		return v
	}
	return nil
}

// LocationFromContext returns the location validated by the Location guard.
func LocationFromContext(ctx context.Context) (locations.Location, bool) {
	if ctx == nil {
		return locations.Location{}, false
	}
	v, ok := ctx.Value(ctxLocation).(locations.Location)
	return v, ok
}

// WithSession injects the session into the context.
func WithSession(ctx context.Context, rec *session.Record) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, rec)
}

// WithLocation injects the validated location for downstream handlers.
func WithLocation(ctx context.Context, loc locations.Location) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLocation, loc)
}
