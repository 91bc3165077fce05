// Package blogclient is the Go client SDK for the blog platform REST API:
// public post browsing and search, authentication, and the role-gated admin
// operations (create, update, delete).
//
// Session lifecycle:
//   - SessionStore owns the client credential, refresh credential, and cached
//     user identity. It is the only writer of persisted session state and can
//     be backed by memory, SQLite (via Bun), or Redis. Readers always observe
//     a complete snapshot, never a partially written one.
//   - AuthClient owns the Anonymous/Authenticated transitions. Login installs
//     credentials atomically, Logout clears them unconditionally even when the
//     backend is unreachable, and Refresh rotates the credential in place.
//
// Request pipeline:
//   - BearerTransport clones outgoing requests and attaches the bearer
//     credential, skipping the public auth endpoints and mock-bypass mode.
//   - Every failed response is classified into a uniform fault (see
//     ClassifyStatus) before it reaches callers. An unauthorized fault clears
//     the session as a side effect so stale credentials never linger.
//
// Route guards:
//   - RequireAuthentication and RequireAdmin are synchronous predicates over
//     the cached session meant to be consulted by a navigation layer before
//     committing to a protected route.
package blogclient
