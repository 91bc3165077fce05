package blogclient_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blogclient "github.com/goliatone/go-blog-client"
)

func TestSessionIsAuthenticated(t *testing.T) {
	assert.False(t, blogclient.EmptySession().IsAuthenticated())

	session := blogclient.Session{Token: "opaque-token"}
	assert.True(t, session.IsAuthenticated())

	// Identity without credential is not authenticated; the token is the
	// sole source of truth.
	session = blogclient.Session{User: &blogclient.User{Email: "admin@blog.com"}}
	assert.False(t, session.IsAuthenticated())
}

func TestSessionIsEmpty(t *testing.T) {
	assert.True(t, blogclient.EmptySession().IsEmpty())
	assert.False(t, blogclient.Session{Token: "t"}.IsEmpty())
	assert.False(t, blogclient.Session{RefreshToken: "r"}.IsEmpty())
	assert.False(t, blogclient.Session{User: &blogclient.User{}}.IsEmpty())
}

func TestSessionRole(t *testing.T) {
	tests := []struct {
		name     string
		session  blogclient.Session
		expected blogclient.UserRole
	}{
		{
			name:     "anonymous defaults to reader",
			session:  blogclient.EmptySession(),
			expected: blogclient.RoleReader,
		},
		{
			name:     "admin identity",
			session:  blogclient.Session{User: &blogclient.User{Role: blogclient.RoleAdmin}},
			expected: blogclient.RoleAdmin,
		},
		{
			name:     "unknown role falls back to reader",
			session:  blogclient.Session{User: &blogclient.User{Role: "superuser"}},
			expected: blogclient.RoleReader,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.session.Role())
		})
	}
}

func TestSessionExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	session := blogclient.Session{Token: token}

	got, ok := session.ExpiresAt()
	require.True(t, ok)
	assert.WithinDuration(t, exp, got, time.Second)

	assert.False(t, session.ExpiresWithin(time.Minute))
	assert.True(t, session.ExpiresWithin(2*time.Hour))
}

func TestSessionExpiresAtOpaqueToken(t *testing.T) {
	session := blogclient.Session{Token: "not-a-jwt"}

	_, ok := session.ExpiresAt()
	assert.False(t, ok)
	assert.False(t, session.ExpiresWithin(time.Hour))
}
