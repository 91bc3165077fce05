package blogclient

import "net/url"

// Default redirect targets for denied route entries. The asymmetry is
// deliberate: an anonymous visitor is sent to login so the attempted path
// can be resumed, while an authenticated non-admin is sent home.
const (
	LoginRoute = "/login"
	HomeRoute  = "/"
)

// GuardResult is the outcome of consulting a route guard
type GuardResult struct {
	Allowed    bool
	RedirectTo string
}

// AuthState is the read-only projection guards consult. AuthClient satisfies
// it; tests can supply a stub.
type AuthState interface {
	IsAuthenticated() bool
	IsAdmin() bool
}

// RequireAuthentication admits authenticated sessions. Denied entries
// redirect to the login route carrying the originally attempted path so the
// navigation can resume after sign-in.
func RequireAuthentication(auth AuthState, attemptedPath string) GuardResult {
	if auth.IsAuthenticated() {
		return GuardResult{Allowed: true}
	}

	redirect := LoginRoute
	if attemptedPath != "" {
		query := url.Values{}
		query.Set("returnUrl", attemptedPath)
		redirect = LoginRoute + "?" + query.Encode()
	}

	return GuardResult{RedirectTo: redirect}
}

// RequireAdmin admits authenticated admin sessions. Everyone else is sent to
// the home route; the attempted path is not preserved for non-admins.
func RequireAdmin(auth AuthState, _ string) GuardResult {
	if auth.IsAuthenticated() && auth.IsAdmin() {
		return GuardResult{Allowed: true}
	}

	return GuardResult{RedirectTo: HomeRoute}
}
