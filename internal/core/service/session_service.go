package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/citylink/admin-gateway/internal/api/metrics"
	"github.com/citylink/admin-gateway/internal/core/domain"
	"github.com/citylink/admin-gateway/internal/core/ports"
)

// sessionClaims is the JWT payload. The user record and upstream token are
// copied in verbatim at issuance and never recomputed.
type sessionClaims struct {
	User  domain.UserClaims `json:"user"`
	Token string            `json:"token"`
	jwt.RegisteredClaims
}

// SessionService signs sessions into HS256 JWTs.
type SessionService struct {
	secret  []byte
	ttl     time.Duration
	revoked ports.RevocationStore
	now     func() time.Time
	log     zerolog.Logger
}

// SessionOption customises a SessionService.
type SessionOption func(*SessionService)

// WithRevocationStore enables sign-out revocation checks.
func WithRevocationStore(store ports.RevocationStore) SessionOption {
	return func(s *SessionService) { s.revoked = store }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionService) { s.now = now }
}

// WithSessionLifetime overrides domain.SessionLifetime.
func WithSessionLifetime(ttl time.Duration) SessionOption {
	return func(s *SessionService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func NewSessionService(secret string, log zerolog.Logger, opts ...SessionOption) *SessionService {
	s := &SessionService{
		secret: []byte(secret),
		ttl:    domain.SessionLifetime,
		now:    time.Now,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.SessionService = (*SessionService)(nil)

// Issue trusts creds as given; it only checks that email, token and userId
// are present.
func (s *SessionService) Issue(_ context.Context, creds domain.Credentials) (*domain.Session, string, error) {
	user, err := domain.NewUserClaims(creds)
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		User:      user,
		Token:     creds.Token,
		ExpiresAt: now.Add(s.ttl).Truncate(time.Second),
	}

	claims := sessionClaims{
		User:  sess.User,
		Token: sess.Token,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", fmt.Errorf("sign session: %w", err)
	}

	metrics.SessionsIssuedTotal.Inc()
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("session issued")
	s.log.Debug().Interface("session", sess).Msg("session payload")

	return sess, signed, nil
}

// Parse verifies the signature and expiry of token. Expired tokens yield
// ErrSessionExpired; revoked ones ErrSessionRevoked.
func (s *SessionService) Parse(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Revocation is best effort; an unreachable store must not log
			// every user out.
			s.log.Warn().Err(err).Str("session_id", claims.ID).Msg("revocation check failed")
		} else if revoked {
			return nil, domain.ErrSessionRevoked
		}
	}

	sess := &domain.Session{
		ID:    claims.ID,
		User:  claims.User,
		Token: claims.Token,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// Revoke records sess as signed out. Without a revocation store it is a
// no-op and the token stays valid until expiry.
func (s *SessionService) Revoke(ctx context.Context, sess *domain.Session) error {
	if sess == nil || sess.ID == "" || s.revoked == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, sess.ID, sess.ExpiresAt); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	metrics.SessionsRevokedTotal.Inc()
	s.log.Info().Str("user_id", sess.User.ID).Msg("session revoked")
	return nil
}
