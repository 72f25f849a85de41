package ports

import (
	"context"

	"github.com/citylink/admin-gateway/internal/core/domain"
)

// SessionService issues and reads signed session tokens.
type SessionService interface {
	// Issue builds a session from an already-validated credential bundle and
	// returns it together with its signed token.
	Issue(ctx context.Context, creds domain.Credentials) (*domain.Session, string, error)
	// Parse verifies a signed token and returns the embedded session.
	Parse(ctx context.Context, token string) (*domain.Session, error)
	// Revoke invalidates a session before its natural expiry.
	Revoke(ctx context.Context, sess *domain.Session) error
}
