package tests

import (
	"testing"
	"time"

	"github.com/Aesmazing/Boko-Hacks-2025/server/models/auth"
)

func TestJWT_GenerateAndValidate(t *testing.T) {
	service := auth.NewJWTService(&auth.Config{
		SecretKey:     []byte("test-secret-key"),
		TokenDuration: time.Hour,
	}, nil)

	token, expiresAt, err := service.GenerateToken(42, "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty token")
	}
	if time.Until(expiresAt) < 59*time.Minute {
		t.Errorf("Unexpected expiry %v", expiresAt)
	}

	claims, err := service.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" {
		t.Errorf("Claims mismatch: %+v", claims)
	}
}

func TestJWT_RejectsWrongKey(t *testing.T) {
	issuer := auth.NewJWTService(&auth.Config{
		SecretKey:     []byte("key-one"),
		TokenDuration: time.Hour,
	}, nil)
	verifier := auth.NewJWTService(&auth.Config{
		SecretKey:     []byte("key-two"),
		TokenDuration: time.Hour,
	}, nil)

	token, _, err := issuer.GenerateToken(1, "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with a different signing key")
	}
}

func TestJWT_RejectsExpired(t *testing.T) {
	service := auth.NewJWTService(&auth.Config{
		SecretKey:     []byte("test-secret-key"),
		TokenDuration: -time.Minute,
	}, nil)

	token, _, err := service.GenerateToken(1, "alice")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := service.ValidateToken(token); err == nil {
		t.Error("Expected validation to fail for an expired token")
	}
}

func TestJWT_RejectsGarbage(t *testing.T) {
	service := auth.NewJWTService(nil, nil)

	if _, err := service.ValidateToken("not-a-token"); err == nil {
		t.Error("Expected validation to fail for a malformed token")
	}
}
