package jwt

import (
	"testing"
	"time"
)

func TestGenerateAndParse(t *testing.T) {
	cfg := AuthConfig{Secret: "s3cret", Expire: 3600}
	token, err := GenerateToken(cfg, Claims{UserID: "u1", Name: "Ada", Email: "ada@campus.edu"}, time.Now())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(token, cfg.Secret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Identity() != "u1" || claims.Name != "Ada" || claims.Email != "ada@campus.edu" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseWrongSecret(t *testing.T) {
	cfg := AuthConfig{Secret: "a", Expire: 60}
	token, err := GenerateToken(cfg, Claims{UserID: "u1"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseToken(token, "b"); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseExpired(t *testing.T) {
	cfg := AuthConfig{Secret: "a", Expire: 60}
	token, err := GenerateToken(cfg, Claims{UserID: "u1"}, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	_, err = ParseToken(token, "a")
	if !IsTokenExpired(err) {
		t.Fatalf("expected expired error, got %v", err)
	}
}

func TestGenerateRequiresIdentity(t *testing.T) {
	if _, err := GenerateToken(AuthConfig{Secret: "a", Expire: 60}, Claims{}, time.Now()); err != ErrMissingUserID {
		t.Fatalf("expected ErrMissingUserID, got %v", err)
	}
}

func TestIdentityFallsBackToSubject(t *testing.T) {
	c := Claims{}
	c.Subject = "sub-1"
	if c.Identity() != "sub-1" {
		t.Fatalf("Identity = %q", c.Identity())
	}
}
