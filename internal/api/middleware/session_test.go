package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/citylink/admin-gateway/internal/core/domain"
)

type stubSessionService struct {
	parseFn func(token string) (*domain.Session, error)
}

func (s *stubSessionService) Issue(context.Context, domain.Credentials) (*domain.Session, string, error) {
	return nil, "", errors.New("not implemented")
}

func (s *stubSessionService) Parse(_ context.Context, token string) (*domain.Session, error) {
	return s.parseFn(token)
}

func (s *stubSessionService) Revoke(context.Context, *domain.Session) error { return nil }

func acceptToken(want string) *stubSessionService {
	return &stubSessionService{parseFn: func(token string) (*domain.Session, error) {
		if token != want {
			return nil, domain.ErrUnauthenticated
		}
		return sessionWithRole(domain.RoleSuperAdmin), nil
	}}
}

func TestLoadSession_FromCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sess", Value: "jwt-1"})
	c := e.NewContext(req, httptest.NewRecorder())

	var got *domain.Session
	handler := LoadSession(acceptToken("jwt-1"), "sess", zerolog.Nop())(func(c echo.Context) error {
		got = SessionFrom(c)
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got == nil || got.User.Role != domain.RoleSuperAdmin {
		t.Fatalf("expected session in context, got %+v", got)
	}
}

func TestLoadSession_FromBearerHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer jwt-2")
	c := e.NewContext(req, httptest.NewRecorder())

	var got *domain.Session
	handler := LoadSession(acceptToken("jwt-2"), "sess", zerolog.Nop())(func(c echo.Context) error {
		got = SessionFrom(c)
		return nil
	})
	_ = handler(c)
	if got == nil {
		t.Fatalf("expected session from bearer header")
	}
}

func TestLoadSession_InvalidTokenContinuesAnonymously(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sess", Value: "forged"})
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	handler := LoadSession(acceptToken("jwt-1"), "sess", zerolog.Nop())(func(c echo.Context) error {
		called = true
		if SessionFrom(c) != nil {
			t.Fatalf("forged token must not produce a session")
		}
		return nil
	})
	if err := handler(c); err != nil || !called {
		t.Fatalf("expected next to run anonymously, err=%v", err)
	}
}

func TestRequireSession_RejectsMissingAndEmptyToken(t *testing.T) {
	cases := map[string]*domain.Session{
		"no session":  nil,
		"empty token": {User: domain.UserClaims{ID: "u", Role: domain.RoleSuperAdmin}},
	}
	for name, sess := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
			if sess != nil {
				SetSession(c, sess)
			}
			handler := RequireSession()(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			if err := handler(c); !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("expected ErrUnauthenticated, got %v", err)
			}
		})
	}
}

func TestRequireSession_Allows(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	SetSession(c, sessionWithRole(domain.RoleCustomer))

	called := false
	handler := RequireSession()(func(c echo.Context) error {
		called = true
		return nil
	})
	if err := handler(c); err != nil || !called {
		t.Fatalf("expected next to be called, err=%v", err)
	}
}
