package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrMalformed    = errors.New("malformed authorization header")
	ErrForbidden    = errors.New("forbidden")
)

// Denylist holds revoked token ids until their natural expiry. A nil
// Denylist means logout is purely client-side and tokens stay valid for
// their full lifetime.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Guard turns an Authorization header into an authenticated identity or a
// rejection. It is the single authorization entry point for every protected
// endpoint.
type Guard struct {
	secret   string
	denylist Denylist
}

func NewGuard(secret string, denylist Denylist) *Guard {
	return &Guard{secret: secret, denylist: denylist}
}

// Authorize verifies the bearer token in header and, when allowedRoles is
// non-empty, checks membership of the identity's role. Role comparison is
// case-insensitive and whitespace-trimmed. Read-only: safe to call before
// any mutation.
func (g *Guard) Authorize(ctx context.Context, header string, allowedRoles ...string) (*Claims, error) {
	if header == "" {
		return nil, ErrUnauthorized
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, ErrMalformed
	}

	claims, err := ParseToken(g.secret, parts[1])
	if err != nil {
		return nil, ErrUnauthorized
	}

	if g.denylist != nil && claims.ID != "" {
		revoked, err := g.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrUnauthorized
		}
	}

	if len(allowedRoles) > 0 {
		role := strings.TrimSpace(strings.ToLower(claims.Role))
		if !containsRole(allowedRoles, role) {
			return nil, ErrForbidden
		}
	}

	return claims, nil
}

// Revoke adds the token id behind header to the denylist until the token's
// own expiry. A best-effort no-op without a configured denylist.
func (g *Guard) Revoke(ctx context.Context, header string) error {
	claims, err := g.Authorize(ctx, header)
	if err != nil {
		return err
	}
	if g.denylist == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return g.denylist.Revoke(ctx, claims.ID, ttl)
}

func containsRole(allowed []string, role string) bool {
	for _, candidate := range allowed {
		if strings.TrimSpace(strings.ToLower(candidate)) == role {
			return true
		}
	}
	return false
}
