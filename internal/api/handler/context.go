package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/citylink/admin-gateway/internal/api/middleware"
	"github.com/citylink/admin-gateway/internal/core/domain"
)

// ctxSession returns the session injected by the LoadSession middleware and
// fails fast when it is missing or carries no upstream token.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess := middleware.SessionFrom(c)
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return sess, nil
}
