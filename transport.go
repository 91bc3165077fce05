package blogclient

import (
	"net/http"
	"strings"
)

// Paths that never carry a credential: the caller is not authenticated yet
// when these are in flight.
var publicAuthPaths = []string{
	"/auth/login",
	"/auth/register",
}

func isPublicAuthPath(path string) bool {
	for _, public := range publicAuthPaths {
		if strings.HasSuffix(path, public) {
			return true
		}
	}
	return false
}

// BearerTransport attaches the session credential to outgoing requests. The
// original request is never mutated; a clone carries the header. Requests to
// the public auth endpoints, requests in mock-bypass mode, and requests made
// while anonymous pass through untouched, leaving the backend as the final
// arbiter.
type BearerTransport struct {
	next   http.RoundTripper
	store  *SessionStore
	bypass bool
}

// NewBearerTransport wraps next (http.DefaultTransport when nil) with
// credential injection from store. With bypass true the transport is a
// pass-through, matching the mock-data mode of the platform.
func NewBearerTransport(next http.RoundTripper, store *SessionStore, bypass bool) *BearerTransport {
	return &BearerTransport{next: next, store: store, bypass: bypass}
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.bypass || isPublicAuthPath(req.URL.Path) {
		return t.base().RoundTrip(req)
	}

	token := t.store.Get().Token
	if token == "" {
		return t.base().RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)

	return t.base().RoundTrip(clone)
}

func (t *BearerTransport) base() http.RoundTripper {
	if t.next != nil {
		return t.next
	}
	return http.DefaultTransport
}
