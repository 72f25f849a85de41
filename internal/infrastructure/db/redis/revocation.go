package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/citylink/admin-gateway/internal/core/ports"
)

const revocationPrefix = "session:revoked:"

// RevocationStore records signed-out session ids in Redis.
// Key format: session:revoked:<session_id>, expiring with the session.
type RevocationStore struct {
	client redis.Cmdable
	now    func() time.Time
}

var _ ports.RevocationStore = (*RevocationStore)(nil)

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client redis.Cmdable) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// Revoke marks sessionID as signed out until the session would have expired.
// Already-expired sessions are not stored.
func (s *RevocationStore) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, s.key(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revocation set: %w", err)
	}
	return nil
}

// IsRevoked reports whether sessionID has been signed out.
func (s *RevocationStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (s *RevocationStore) key(sessionID string) string {
	return revocationPrefix + sessionID
}
