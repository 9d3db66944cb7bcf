package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/inventario-backend/pkg/config"
	"github.com/angelmondragon/inventario-backend/pkg/enums"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret: "secret",
		Issuer: "inventario",
		MaxAge: 30 * time.Minute,
	}
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := testSessionConfig()
	now := time.Now().UTC()

	token, err := MintSessionToken(cfg, now, SessionTokenPayload{
		SessionID: "sess-1",
		UserID:    7,
		Username:  "bob",
		Role:      enums.RoleSupervisor,
	})
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}
	if claims.ID != "sess-1" {
		t.Fatalf("expected jti sess-1, got %s", claims.ID)
	}
	if claims.UserID != 7 || claims.Username != "bob" {
		t.Fatalf("unexpected identity %d/%s", claims.UserID, claims.Username)
	}
	if claims.Role != enums.RoleSupervisor {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(cfg.MaxAge)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v", exp, claims.ExpiresAt.UTC())
	}
}

func TestParseSessionTokenInvalidSignature(t *testing.T) {
	cfg := testSessionConfig()
	token, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{SessionID: "s", Role: enums.RoleAdmin})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}

	tampered := token[:strings.LastIndex(token, ".")] + ".AAAA"
	if _, err := ParseSessionToken(cfg, tampered); err == nil {
		t.Fatal("expected tampered token to fail")
	}
}

func TestParseSessionTokenExpired(t *testing.T) {
	cfg := testSessionConfig()
	token, err := MintSessionToken(cfg, time.Now().Add(-2*cfg.MaxAge), SessionTokenPayload{SessionID: "s", Role: enums.RoleAdmin})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseSessionToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseSessionTokenWrongIssuer(t *testing.T) {
	cfg := testSessionConfig()
	token, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{SessionID: "s", Role: enums.RoleAdmin})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	other := cfg
	other.Issuer = "someone-else"
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestMintSessionTokenValidation(t *testing.T) {
	cfg := testSessionConfig()
	if _, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{SessionID: "s", Role: "owner"}); err == nil {
		t.Fatal("expected invalid role to fail")
	}
	if _, err := MintSessionToken(cfg, time.Now(), SessionTokenPayload{Role: enums.RoleAdmin}); err == nil {
		t.Fatal("expected missing session id to fail")
	}
	noSecret := cfg
	noSecret.Secret = ""
	if _, err := MintSessionToken(noSecret, time.Now(), SessionTokenPayload{SessionID: "s", Role: enums.RoleAdmin}); err == nil {
		t.Fatal("expected missing secret to fail")
	}
}
