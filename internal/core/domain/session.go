package domain

import (
	"strings"
	"time"
)

// Role values carried in the session's role claim.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleCityAdmin  = "CITY_ADMIN"
	RoleStoreOwner = "STORE_OWNER"
	RoleDriver     = "DRIVER"
	RoleCustomer   = "CUSTOMER"
)

// SessionLifetime is the fixed lifetime of an issued session (3,000,000 ms).
const SessionLifetime = 3_000_000 * time.Millisecond

// Credentials is the identity bundle handed to the session gate after an
// external login step. None of the fields are verified here.
type Credentials struct {
	Email     string `json:"email"     form:"email"`
	Token     string `json:"token"     form:"token"`
	UserID    string `json:"userId"    form:"userId"`
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName"  form:"lastName"`
	Role      string `json:"role"      form:"role"`
	Phone     string `json:"phone"     form:"phone"`
}

// UserClaims is the user record embedded in the session.
type UserClaims struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Phone       string `json:"phone,omitempty"`
}

// Session is the validated identity every proxy handler receives.
type Session struct {
	ID        string     `json:"-"`
	User      UserClaims `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires"`
}

// NewUserClaims builds the user record from a credential bundle. It returns
// ErrInvalidCredentials when email, token or userId is absent.
func NewUserClaims(c Credentials) (UserClaims, error) {
	if strings.TrimSpace(c.Email) == "" || c.Token == "" || strings.TrimSpace(c.UserID) == "" {
		return UserClaims{}, ErrInvalidCredentials
	}

	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	display := name
	if display == "" {
		display = c.Email
	}

	return UserClaims{
		ID:          c.UserID,
		Email:       c.Email,
		Name:        name,
		Role:        c.Role,
		DisplayName: display,
		Phone:       c.Phone,
	}, nil
}

// Authenticated reports whether the session carries an upstream bearer token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// HasRole reports whether the session's role is one of roles.
func (s *Session) HasRole(roles ...string) bool {
	if s == nil {
		return false
	}
	for _, r := range roles {
		if s.User.Role == r {
			return true
		}
	}
	return false
}
