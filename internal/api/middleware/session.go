package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/citylink/admin-gateway/internal/api/metrics"
	"github.com/citylink/admin-gateway/internal/core/domain"
	"github.com/citylink/admin-gateway/internal/core/ports"
)

const sessionKey = "session"

// SessionFrom returns the session loaded by LoadSession, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	sess, _ := c.Get(sessionKey).(*domain.Session)
	return sess
}

// SetSession stores sess on the context.
func SetSession(c echo.Context, sess *domain.Session) {
	c.Set(sessionKey, sess)
}

// SessionToken returns the raw session JWT from the session cookie, falling
// back to an "Authorization: Bearer" header for non-browser clients.
func SessionToken(c echo.Context, cookieName string) string {
	if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	parts := strings.SplitN(c.Request().Header.Get(echo.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// LoadSession verifies the session JWT, when present, and injects the
// session into the context. It never rejects; RequireSession does.
func LoadSession(svc ports.SessionService, cookieName string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := SessionToken(c, cookieName)
			if raw == "" {
				return next(c)
			}

			sess, err := svc.Parse(c.Request().Context(), raw)
			if err != nil {
				log.Debug().Err(err).Str("path", c.Request().URL.Path).Msg("session rejected")
				return next(c)
			}

			log.Debug().
				Str("user_id", sess.User.ID).
				Str("role", sess.User.Role).
				Time("expires", sess.ExpiresAt).
				Msg("session loaded")
			SetSession(c, sess)
			return next(c)
		}
	}
}

// RequireSession rejects requests without a session carrying a non-empty
// upstream token.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !SessionFrom(c).Authenticated() {
				metrics.ProxyRejectionsTotal.WithLabelValues(c.Path(), metrics.ReasonUnauthenticated).Inc()
				return domain.ErrUnauthenticated
			}
			return next(c)
		}
	}
}
