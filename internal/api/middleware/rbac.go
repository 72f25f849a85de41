package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/citylink/admin-gateway/internal/api/metrics"
	"github.com/citylink/admin-gateway/internal/core/domain"
)

// RBAC enforces a role allow-list, returning domain.ErrForbidden for other
// roles. An empty list admits any session; it must run after RequireSession.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(allowed) == 0 {
				return next(c)
			}
			var role string
			if sess := SessionFrom(c); sess != nil {
				role = sess.User.Role
			}
			if _, ok := allowed[role]; !ok {
				metrics.ProxyRejectionsTotal.WithLabelValues(c.Path(), metrics.ReasonForbidden).Inc()
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
