package blogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

var _ Authenticator = (*AuthClient)(nil)

// AuthClient orchestrates login, registration, logout, and refresh against
// the backend and is the only component that writes to the SessionStore.
type AuthClient struct {
	store   *SessionStore
	cfg     Config
	http    *http.Client
	logger  Logger
	baseURL string
}

// New returns an AuthClient over the given store, wired with the bearer
// transport and the configured request timeout.
func New(store *SessionStore, cfg Config) *AuthClient {
	client := &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: NewBearerTransport(nil, store, cfg.UseMockData),
	}

	return &AuthClient{
		store:   store,
		cfg:     cfg,
		http:    client,
		logger:  defLogger{},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (c *AuthClient) WithLogger(logger Logger) *AuthClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithHTTPClient swaps the underlying HTTP client. Its transport is wrapped
// with the bearer transport so credential injection is preserved.
func (c *AuthClient) WithHTTPClient(client *http.Client) *AuthClient {
	if client == nil {
		return c
	}
	client.Transport = NewBearerTransport(client.Transport, c.store, c.cfg.UseMockData)
	c.http = client
	return c
}

func (c *AuthClient) WithBaseURL(baseURL string) *AuthClient {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

// Store exposes the session store for components that need read access
func (c *AuthClient) Store() *SessionStore {
	return c.store
}

// Load rehydrates the session from durable storage. Call once at startup;
// the client stays anonymous when storage holds nothing.
func (c *AuthClient) Load(ctx context.Context) error {
	return c.store.Load(ctx)
}

// Login exchanges credentials for a session. On success the credential and
// identity are installed atomically; on rejection the session is left
// exactly as it was.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*User, error) {
	payload := LoginRequest{Email: email, Password: password}
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload").
			WithTextCode(TextCodeValidationError)
	}

	res := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, res); err != nil {
		c.logger.Error("Login error: %v", err)
		return nil, err
	}

	session := Session{
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
		User:         res.User,
	}

	if err := c.store.Persist(ctx, session); err != nil {
		c.logger.Error("Login failed to persist session: %v", err)
		return nil, err
	}

	return res.User, nil
}

// Register creates a new account. The response carries a token, but the
// platform treats registration and sign-in as separate steps: the caller is
// expected to go through the login flow next, so nothing is installed here.
func (c *AuthClient) Register(ctx context.Context, name, email, password string) (*User, error) {
	payload := RegisterRequest{Name: name, Email: email, Password: password}
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithTextCode(TextCodeValidationError)
	}

	res := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/register", payload, res); err != nil {
		c.logger.Error("Register error: %v", err)
		return nil, err
	}

	return res.User, nil
}

// Logout notifies the backend best-effort and clears the session regardless
// of the outcome. Client-side session termination is never blocked by an
// unreachable server.
func (c *AuthClient) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", struct{}{}, nil); err != nil {
		c.logger.Warn("Logout backend call failed: %v", err)
	}

	return c.store.Clear(ctx)
}

// Refresh trades the refresh credential for a fresh token. A missing refresh
// credential fails immediately; a backend rejection takes the same
// unconditional-logout path as Logout. Transient network failures keep the
// session so the caller can retry.
func (c *AuthClient) Refresh(ctx context.Context) (Session, error) {
	current := c.store.Get()
	if current.RefreshToken == "" {
		return EmptySession(), ErrNoRefreshCredential
	}

	res := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", RefreshRequest{RefreshToken: current.RefreshToken}, res); err != nil {
		if KindOf(err) != FaultNetwork {
			if clearErr := c.store.Clear(ctx); clearErr != nil {
				c.logger.Error("Refresh failed to clear session: %v", clearErr)
			}
		}
		return EmptySession(), err
	}

	next := Session{
		Token:        res.Token,
		RefreshToken: res.RefreshToken,
		User:         res.User,
	}
	if next.RefreshToken == "" {
		next.RefreshToken = current.RefreshToken
	}
	if next.User == nil {
		next.User = current.User
	}

	if err := c.store.Persist(ctx, next); err != nil {
		c.logger.Error("Refresh failed to persist session: %v", err)
		return EmptySession(), err
	}

	return next, nil
}

// Profile fetches the authoritative identity and re-caches it
func (c *AuthClient) Profile(ctx context.Context) (*User, error) {
	user := &User{}
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, user); err != nil {
		return nil, err
	}

	if err := c.cacheUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateProfile applies a partial identity update and re-caches the result
func (c *AuthClient) UpdateProfile(ctx context.Context, updates map[string]any) (*User, error) {
	user := &User{}
	if err := c.do(ctx, http.MethodPatch, "/auth/profile", updates, user); err != nil {
		return nil, err
	}

	if err := c.cacheUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (c *AuthClient) IsAuthenticated() bool {
	return c.store.Get().IsAuthenticated()
}

func (c *AuthClient) CurrentUser() *User {
	return c.store.Get().User
}

// HasRole checks if the current user has a specific role
func (c *AuthClient) HasRole(role UserRole) bool {
	return c.store.Get().HasRole(role)
}

// IsAdmin checks if the current user is an admin
func (c *AuthClient) IsAdmin() bool {
	return c.HasRole(RoleAdmin)
}

// Subscribe registers an observer for session transitions
func (c *AuthClient) Subscribe(observer SessionObserver) func() {
	return c.store.Subscribe(observer)
}

func (c *AuthClient) cacheUser(ctx context.Context, user *User) error {
	session := c.store.Get()
	session.User = user
	return c.store.Persist(ctx, session)
}

// do runs one API request and funnels every failure through the fault
// classifier. An unauthorized fault on a protected endpoint clears the
// session before the fault propagates, so a stale credential can never
// outlive the response that invalidated it.
func (c *AuthClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request payload")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ClassifyNetworkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.faultFromResponse(ctx, resp, path)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to decode response payload")
	}

	return nil
}

func (c *AuthClient) faultFromResponse(ctx context.Context, resp *http.Response, path string) error {
	apiErr := APIError{}
	if raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16)); err == nil && len(raw) > 0 {
		// Best effort; a non-JSON error body still classifies by status.
		_ = json.Unmarshal(raw, &apiErr)
	}

	fault := ClassifyStatus(resp.StatusCode, apiErr.Message)

	if IsUnauthorizedFault(fault) && !isPublicAuthPath(path) {
		if err := c.store.Clear(ctx); err != nil {
			c.logger.Error("failed to clear session after unauthorized response: %v", err)
		}
	}

	if c.cfg.EnableLogging {
		c.logger.Debug(
			"request fault %s %s status=%d details=%s",
			resp.Request.Method,
			path,
			resp.StatusCode,
			print.MaybePrettyJSON(fault.Metadata),
		)
	}

	return fault
}
