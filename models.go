package blogclient

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// UserRole is the user's role
type UserRole string

const (
	// RoleReader can browse and read published posts
	RoleReader UserRole = "reader"
	// RoleAuthor can additionally create and edit posts
	RoleAuthor UserRole = "author"
	// RoleAdmin can additionally delete posts and manage the platform
	RoleAdmin UserRole = "admin"
)

// User is the authenticated identity cached alongside the credential.
// Replaced wholesale on every auth transition, never mutated in place.
type User struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      UserRole   `json:"role"`
	Avatar    string     `json:"avatar,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// LoginRequest is the payload for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterRequest is the payload for POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 120)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 128)),
	)
}

// AuthResponse is the backend reply to login, register, and refresh
type AuthResponse struct {
	User         *User  `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// RefreshRequest is the payload for POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// APIError is the error payload shape the backend emits on failure
type APIError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Detail     string `json:"error,omitempty"`
}
