package blogclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blogclient "github.com/goliatone/go-blog-client"
)

func authenticatedStore(t *testing.T) *blogclient.SessionStore {
	t.Helper()
	store := blogclient.NewSessionStore(nil)
	require.NoError(t, store.Persist(context.Background(), blogclient.Session{
		Token: "session-token",
		User:  &blogclient.User{Email: "admin@blog.com", Role: blogclient.RoleAdmin},
	}))
	return store
}

func TestBearerTransportAttachesCredential(t *testing.T) {
	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	}))
	defer server.Close()

	client := &http.Client{
		Transport: blogclient.NewBearerTransport(nil, authenticatedStore(t), false),
	}

	resp, err := client.Get(server.URL + "/posts")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer session-token", seen)
}

func TestBearerTransportSkipsPublicAuthEndpoints(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "login", path: "/api/auth/login"},
		{name: "register", path: "/api/auth/register"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = r.Header.Get("Authorization")
			}))
			defer server.Close()

			client := &http.Client{
				Transport: blogclient.NewBearerTransport(nil, authenticatedStore(t), false),
			}

			resp, err := client.Post(server.URL+tt.path, "application/json", nil)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Empty(t, seen)
		})
	}
}

func TestBearerTransportBypassMode(t *testing.T) {
	var seen string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	}))
	defer server.Close()

	client := &http.Client{
		Transport: blogclient.NewBearerTransport(nil, authenticatedStore(t), true),
	}

	resp, err := client.Get(server.URL + "/posts")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, seen)
}

func TestBearerTransportAnonymousPassesThrough(t *testing.T) {
	var seen string
	var present bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
	}))
	defer server.Close()

	client := &http.Client{
		Transport: blogclient.NewBearerTransport(nil, blogclient.NewSessionStore(nil), false),
	}

	resp, err := client.Get(server.URL + "/posts")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, seen)
	assert.False(t, present)
}

func TestBearerTransportDoesNotMutateOriginalRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL+"/posts", nil)
	require.NoError(t, err)

	client := &http.Client{
		Transport: blogclient.NewBearerTransport(nil, authenticatedStore(t), false),
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	// The header travels on a clone; the caller's request stays pristine.
	assert.Empty(t, req.Header.Get("Authorization"))
}
