package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	tm := newTestTokens()
	tok, issued, err := tm.Issue("user-42", RoleDoctor)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if issued.ID == "" {
		t.Error("expected a jti")
	}

	claims, err := tm.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-42" || claims.Role != RoleDoctor || claims.ID != issued.ID {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if d := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); d != time.Hour {
		t.Errorf("expected 1h lifetime, got %v", d)
	}
}

func TestTokenManager_RequiresUser(t *testing.T) {
	if _, _, err := newTestTokens().Issue("", RolePatient); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestPasswordHashing(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Error("expected error for short password")
	}

	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash must not equal the plain password")
	}
	if err := CheckPassword(hash, "correct horse battery"); err != nil {
		t.Errorf("expected match, got %v", err)
	}
	if err := CheckPassword(hash, "wrong password"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
}
