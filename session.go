package blogclient

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the client-side credential snapshot. Token presence is the sole
// source of truth for "authenticated"; User is a cached identity trusted
// until refreshed or cleared.
type Session struct {
	Token        string `json:"token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// EmptySession is the anonymous session value
func EmptySession() Session {
	return Session{}
}

func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

func (s Session) IsEmpty() bool {
	return s.Token == "" && s.RefreshToken == "" && s.User == nil
}

// Role returns the cached identity's role, or RoleReader when anonymous
func (s Session) Role() UserRole {
	if s.User == nil {
		return RoleReader
	}
	if s.User.Role.IsValid() {
		return s.User.Role
	}
	return RoleReader
}

func (s Session) HasRole(role UserRole) bool {
	return s.User != nil && s.User.Role == role
}

// ExpiresAt peeks at the credential's exp claim without verifying the
// signature. Verification is the backend's job; the client only needs the
// timestamp to decide whether a refresh is worthwhile.
func (s Session) ExpiresAt() (time.Time, bool) {
	if s.Token == "" {
		return time.Time{}, false
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(s.Token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}

// ExpiresWithin reports whether the credential expires inside the window.
// Tokens with no readable expiry are treated as non-expiring.
func (s Session) ExpiresWithin(window time.Duration) bool {
	exp, ok := s.ExpiresAt()
	if !ok {
		return false
	}
	return time.Until(exp) < window
}

func (s Session) String() string {
	user := "<anonymous>"
	if s.User != nil {
		user = fmt.Sprintf("%s (%s)", s.User.Email, s.User.Role)
	}
	return fmt.Sprintf("user=%s authenticated=%t refreshable=%t", user, s.IsAuthenticated(), s.RefreshToken != "")
}
