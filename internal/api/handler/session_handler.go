package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/citylink/admin-gateway/internal/core/domain"
	"github.com/citylink/admin-gateway/internal/core/ports"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name string
	// Secure is off only in development, where the gateway runs on plain http.
	Secure bool
}

type SessionHandler struct {
	sessions ports.SessionService
	cookie   CookieConfig
	log      zerolog.Logger
	debug    bool
}

func NewSessionHandler(sessions ports.SessionService, cookie CookieConfig, log zerolog.Logger, debug bool) *SessionHandler {
	return &SessionHandler{sessions: sessions, cookie: cookie, log: log, debug: debug}
}

// issueSessionRequest is the credential bundle produced by the external
// login step. Only presence of email, token and userId is checked.
type issueSessionRequest struct {
	Email     string `json:"email"     form:"email"     validate:"required"`
	Token     string `json:"token"     form:"token"     validate:"required"`
	UserID    string `json:"userId"    form:"userId"    validate:"required"`
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName"  form:"lastName"`
	Role      string `json:"role"      form:"role"`
	Phone     string `json:"phone"     form:"phone"`
}

func (r issueSessionRequest) credentials() domain.Credentials {
	return domain.Credentials{
		Email:     r.Email,
		Token:     r.Token,
		UserID:    r.UserID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      r.Role,
		Phone:     r.Phone,
	}
}

// Issue exchanges a credential bundle for a signed session cookie.
//
// @Summary      Issue a session
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      issueSessionRequest  true  "Credential bundle from the identity provider"
// @Success      200   {object}  domain.Envelope
// @Failure      400   {object}  domain.Envelope
// @Failure      401   {object}  domain.Envelope
// @Router       /api/auth/session [post]
func (h *SessionHandler) Issue(c echo.Context) error {
	var req issueSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		h.log.Debug().Err(err).Msg("credential bundle rejected")
		return domain.ErrInvalidCredentials
	}

	sess, token, err := h.sessions.Issue(c.Request().Context(), req.credentials())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return err
		}
		return fmt.Errorf("issue session: %w", err)
	}

	c.SetCookie(h.sessionCookie(token, sess.ExpiresAt))
	h.logSession("session issued", sess)
	return respond(c, http.StatusOK, sess, "Signed in successfully")
}

// Current returns the session carried by the request.
//
// @Summary      Read the current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Envelope
// @Failure      401  {object}  domain.Envelope
// @Router       /api/auth/session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	h.logSession("session read", sess)
	return respond(c, http.StatusOK, sess, "")
}

// SignOut clears the cookie and revokes the session when revocation is
// configured. It succeeds even without a session.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Envelope
// @Router       /api/auth/session [delete]
func (h *SessionHandler) SignOut(c echo.Context) error {
	if sess, err := ctxSession(c); err == nil {
		if err := h.sessions.Revoke(c.Request().Context(), sess); err != nil {
			h.log.Warn().Err(err).Str("user_id", sess.User.ID).Msg("session revocation failed")
		}
	}
	c.SetCookie(h.expiredCookie())
	return c.JSON(http.StatusOK, domain.Envelope{Success: true, Message: "Signed out successfully"})
}

func (h *SessionHandler) sessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(domain.SessionLifetime / time.Second),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *SessionHandler) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *SessionHandler) logSession(msg string, sess *domain.Session) {
	if !h.debug {
		return
	}
	h.log.Debug().
		Str("user_id", sess.User.ID).
		Str("email", sess.User.Email).
		Str("role", sess.User.Role).
		Str("display_name", sess.User.DisplayName).
		Time("expires", sess.ExpiresAt).
		Msg(msg)
}

func respond(c echo.Context, status int, data any, msg string) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return c.JSON(status, domain.Envelope{Success: true, Data: raw, Message: msg})
}
