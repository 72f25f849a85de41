package ports

import (
	"context"
	"time"
)

// RevocationStore remembers signed-out session ids until they would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID string, until time.Time) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
