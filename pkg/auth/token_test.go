package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ojvaldez/storefront-admin-backend/pkg/config"
)

func mintTestToken(t *testing.T, secret, issuer string, userID uuid.UUID, ttl time.Duration) string {
	t.Helper()
	now := time.Now()
	claims := AccessTokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestParseAccessTokenSuccess(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "identity.example.com"}
	userID := uuid.New()

	token := mintTestToken(t, cfg.Secret, cfg.Issuer, userID, time.Hour)

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user id %s, got %s", userID, claims.UserID)
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "identity.example.com"}
	token := mintTestToken(t, cfg.Secret, "someone-else", uuid.New(), time.Hour)

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "identity.example.com"}
	token := mintTestToken(t, "other-secret", cfg.Issuer, uuid.New(), time.Hour)

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "identity.example.com"}
	token := mintTestToken(t, cfg.Secret, cfg.Issuer, uuid.New(), -time.Minute)

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseAccessTokenRejectsMissingUserID(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "identity.example.com"}
	token := mintTestToken(t, cfg.Secret, cfg.Issuer, uuid.Nil, time.Hour)

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected missing user id to fail")
	}
}
