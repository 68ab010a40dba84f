package util

import (
	"testing"
	"time"

	"learning_pathway_backend/internal/config"
	"learning_pathway_backend/internal/model"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.ExpireTime = time.Hour
	return cfg
}

func testUser() *model.User {
	user := &model.User{
		Name:  "Alice",
		Email: "alice@example.com",
		Role:  model.Student,
	}
	user.ID = 42
	return user
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := testConfig("0123456789abcdef0123456789abcdef")

	token, err := GenerateJWT(testUser(), cfg)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, cfg)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != model.Student {
		t.Errorf("Role = %s, want student", claims.Role)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("Email = %s", claims.Email)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(testUser(), testConfig("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, testConfig("another-secret-another-secret!!!")); err == nil {
		t.Fatal("expected error for token signed with different secret")
	}
}

func TestParseJWTGarbage(t *testing.T) {
	if _, err := ParseJWT("not.a.token", testConfig("0123456789abcdef0123456789abcdef")); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestParseJWTExpired(t *testing.T) {
	cfg := testConfig("0123456789abcdef0123456789abcdef")
	cfg.JWT.ExpireTime = -time.Hour

	token, err := GenerateJWT(testUser(), cfg)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, cfg); err == nil {
		t.Fatal("expected error for expired token")
	}
}
