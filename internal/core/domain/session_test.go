package domain

import (
	"errors"
	"testing"
)

func TestNewUserClaims_DisplayNameFallsBackToEmail(t *testing.T) {
	u, err := NewUserClaims(Credentials{Email: "ops@example.com", Token: "t", UserID: "7", Role: RoleSuperAdmin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.Name != "" {
		t.Fatalf("expected empty name, got %q", u.Name)
	}
	if u.DisplayName != "ops@example.com" {
		t.Fatalf("expected email as display name, got %q", u.DisplayName)
	}
}

func TestNewUserClaims_RequiresIdentityFields(t *testing.T) {
	if _, err := NewUserClaims(Credentials{Email: "a@b.c", Token: "t"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSession_HasRole(t *testing.T) {
	s := &Session{User: UserClaims{Role: RoleCityAdmin}, Token: "t"}
	if !s.HasRole(RoleSuperAdmin, RoleCityAdmin) {
		t.Fatalf("expected CITY_ADMIN to match")
	}
	if s.HasRole(RoleSuperAdmin) {
		t.Fatalf("expected SUPER_ADMIN-only list to reject")
	}
	var nilSess *Session
	if nilSess.Authenticated() || nilSess.HasRole(RoleCityAdmin) {
		t.Fatalf("nil session must be unauthenticated")
	}
}
