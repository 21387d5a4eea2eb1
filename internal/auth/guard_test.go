package auth

import (
	"context"
	"testing"
	"time"
)

func mustToken(t *testing.T, secret, role string) string {
	t.Helper()
	token, err := NewAccessToken(secret, "issuer", time.Minute, Claims{
		UserID:   "user-1",
		Email:    "user@example.local",
		Username: "user",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return token
}

func TestAuthorizeRejections(t *testing.T) {
	guard := NewGuard("secret", nil)
	token := mustToken(t, "secret", "Nurse")
	foreign := mustToken(t, "other-secret", "Nurse")

	cases := []struct {
		name   string
		header string
		roles  []string
		want   error
	}{
		{name: "missing header", header: "", want: ErrUnauthorized},
		{name: "wrong scheme", header: "Token abc", want: ErrMalformed},
		{name: "missing token part", header: "Bearer", want: ErrMalformed},
		{name: "invalid token", header: "Bearer not-a-token", want: ErrUnauthorized},
		{name: "wrong key", header: "Bearer " + foreign, want: ErrUnauthorized},
		{name: "role not allowed", header: "Bearer " + token, roles: []string{"teacher"}, want: ErrForbidden},
	}

	for _, tc := range cases {
		if _, err := guard.Authorize(context.Background(), tc.header, tc.roles...); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestAuthorizeSuccess(t *testing.T) {
	guard := NewGuard("secret", nil)
	token := mustToken(t, "secret", "Nurse")

	claims, err := guard.Authorize(context.Background(), "Bearer "+token)
	if err != nil {
		t.Fatalf("expected success without role list, got %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "Nurse" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := guard.Authorize(context.Background(), "Bearer "+token, "admin", "nurse"); err != nil {
		t.Fatalf("expected nurse to pass admin/nurse list, got %v", err)
	}
}

func TestAuthorizeSchemeCaseInsensitive(t *testing.T) {
	guard := NewGuard("secret", nil)
	token := mustToken(t, "secret", "Admin")

	if _, err := guard.Authorize(context.Background(), "bearer "+token); err != nil {
		t.Fatalf("expected lowercase scheme to be accepted, got %v", err)
	}
}

func TestAuthorizeRoleNormalization(t *testing.T) {
	guard := NewGuard("secret", nil)
	token := mustToken(t, "secret", " Admin ")

	if _, err := guard.Authorize(context.Background(), "Bearer "+token, "admin"); err != nil {
		t.Fatalf("expected padded role to match lowercase allow-list, got %v", err)
	}
}

type memoryDenylist struct {
	revoked map[string]bool
}

func (d *memoryDenylist) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	if d.revoked == nil {
		d.revoked = map[string]bool{}
	}
	d.revoked[tokenID] = true
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return d.revoked[tokenID], nil
}

func TestRevokeBlocksToken(t *testing.T) {
	denylist := &memoryDenylist{}
	guard := NewGuard("secret", denylist)
	token := mustToken(t, "secret", "Admin")

	if _, err := guard.Authorize(context.Background(), "Bearer "+token); err != nil {
		t.Fatalf("expected token valid before revocation, got %v", err)
	}
	if err := guard.Revoke(context.Background(), "Bearer "+token); err != nil {
		t.Fatalf("revoke error: %v", err)
	}
	if _, err := guard.Authorize(context.Background(), "Bearer "+token); err != ErrUnauthorized {
		t.Fatalf("expected revoked token to be unauthorized, got %v", err)
	}
}
