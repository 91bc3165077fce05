// Package mockapi is the development stand-in for the blog platform backend.
// It serves the same REST surface the SDK consumes (auth, profile, posts)
// from seeded in-memory data, signing real JWTs so the full request pipeline
// can be exercised without a deployed backend. Not a production server.
package mockapi

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	blogclient "github.com/goliatone/go-blog-client"
)

const tokenTTL = time.Hour

type account struct {
	user         blogclient.User
	passwordHash []byte
}

// Server holds the mock backend state. Safe for concurrent use.
type Server struct {
	app        *fiber.App
	signingKey []byte

	mu         sync.RWMutex
	users      map[string]*account
	nextUserID int64
	posts      map[int64]blogclient.Post
	nextPostID int64
	refresh    map[string]string // refresh token -> account email
}

// Option customizes the mock server
type Option func(*Server)

// WithSigningKey overrides the JWT signing key
func WithSigningKey(key []byte) Option {
	return func(s *Server) {
		if len(key) > 0 {
			s.signingKey = key
		}
	}
}

// New returns a mock server seeded with the development accounts and posts
func New(opts ...Option) *Server {
	s := &Server{
		app:        fiber.New(fiber.Config{DisableStartupMessage: true}),
		signingKey: []byte("mock-signing-key"),
		users:      map[string]*account{},
		posts:      map[int64]blogclient.Post{},
		refresh:    map[string]string{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	s.seed()
	s.routes()

	return s
}

// App exposes the fiber app, mainly so tests can drive it in-process
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves the mock backend on addr
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", s.handleLogin)
	auth.Post("/register", s.handleRegister)
	auth.Post("/logout", s.handleLogout)
	auth.Post("/refresh", s.handleRefresh)
	auth.Get("/profile", s.requireAuth, s.handleProfile)
	auth.Patch("/profile", s.requireAuth, s.handleProfileUpdate)

	posts := api.Group("/posts")
	posts.Get("/", s.handlePostList)
	posts.Get("/featured", s.handlePostFeatured)
	posts.Get("/slug/:slug", s.handlePostBySlug)
	posts.Get("/:id", s.handlePostByID)
	posts.Post("/", s.requireAuth, s.requireRole(blogclient.RoleAuthor), s.handlePostCreate)
	posts.Put("/:id", s.requireAuth, s.requireRole(blogclient.RoleAuthor), s.handlePostUpdate)
	posts.Delete("/:id", s.requireAuth, s.requireRole(blogclient.RoleAdmin), s.handlePostDelete)
	posts.Post("/:id/like", s.handlePostLike)
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(blogclient.APIError{
		Message:    message,
		StatusCode: status,
	})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	payload := blogclient.LoginRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid login payload")
	}

	s.mu.RLock()
	acct, found := s.users[strings.ToLower(payload.Email)]
	s.mu.RUnlock()

	if !found || bcrypt.CompareHashAndPassword(acct.passwordHash, []byte(payload.Password)) != nil {
		return respondError(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	return s.respondAuth(c, acct.user)
}

func (s *Server) handleRegister(c *fiber.Ctx) error {
	payload := blogclient.RegisterRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid registration payload")
	}

	if err := payload.Validate(); err != nil {
		return respondError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	email := strings.ToLower(payload.Email)

	s.mu.Lock()
	if _, exists := s.users[email]; exists {
		s.mu.Unlock()
		return respondError(c, fiber.StatusConflict, "An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		s.mu.Unlock()
		return respondError(c, fiber.StatusInternalServerError, "failed to create account")
	}

	s.nextUserID++
	now := time.Now()
	acct := &account{
		user: blogclient.User{
			ID:        s.nextUserID,
			Email:     email,
			Name:      payload.Name,
			Role:      blogclient.RoleReader,
			CreatedAt: &now,
		},
		passwordHash: hash,
	}
	s.users[email] = acct
	s.mu.Unlock()

	c.Status(fiber.StatusCreated)
	return s.respondAuth(c, acct.user)
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	// Best-effort endpoint; the client clears its session regardless.
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleRefresh(c *fiber.Ctx) error {
	payload := blogclient.RefreshRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid refresh payload")
	}

	s.mu.Lock()
	email, found := s.refresh[payload.RefreshToken]
	if found {
		// Rotation: a refresh token is single use.
		delete(s.refresh, payload.RefreshToken)
	}
	acct := s.users[email]
	s.mu.Unlock()

	if !found || acct == nil {
		return respondError(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	return s.respondAuth(c, acct.user)
}

func (s *Server) handleProfile(c *fiber.Ctx) error {
	user := c.Locals("user").(blogclient.User)
	return c.JSON(user)
}

func (s *Server) handleProfileUpdate(c *fiber.Ctx) error {
	user := c.Locals("user").(blogclient.User)

	updates := map[string]any{}
	if err := c.BodyParser(&updates); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid profile payload")
	}

	s.mu.Lock()
	acct := s.users[user.Email]
	if acct == nil {
		s.mu.Unlock()
		return respondError(c, fiber.StatusNotFound, "account not found")
	}
	if name, ok := updates["name"].(string); ok && name != "" {
		acct.user.Name = name
	}
	if avatar, ok := updates["avatar"].(string); ok {
		acct.user.Avatar = avatar
	}
	updated := acct.user
	s.mu.Unlock()

	return c.JSON(updated)
}

func (s *Server) respondAuth(c *fiber.Ctx, user blogclient.User) error {
	token, err := s.mintToken(user)
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "failed to sign token")
	}

	refreshToken := uuid.NewString()
	s.mu.Lock()
	s.refresh[refreshToken] = user.Email
	s.mu.Unlock()

	return c.JSON(blogclient.AuthResponse{
		User:         &user,
		Token:        token,
		RefreshToken: refreshToken,
	})
}

func (s *Server) mintToken(user blogclient.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"role":  user.Role,
		"iat":   jwt.NewNumericDate(now),
		"exp":   jwt.NewNumericDate(now.Add(tokenTTL)),
		"jti":   uuid.NewString(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return respondError(c, fiber.StatusUnauthorized, "Missing bearer token")
	}

	raw := strings.TrimPrefix(header, "Bearer ")
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil || !parsed.Valid {
		return respondError(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return respondError(c, fiber.StatusUnauthorized, "Invalid token claims")
	}

	email, _ := claims["email"].(string)

	s.mu.RLock()
	acct := s.users[email]
	s.mu.RUnlock()

	if acct == nil {
		return respondError(c, fiber.StatusUnauthorized, "Unknown account")
	}

	c.Locals("user", acct.user)
	return c.Next()
}

func (s *Server) requireRole(minRole blogclient.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals("user").(blogclient.User)
		if !user.Role.IsAtLeast(minRole) {
			return respondError(c, fiber.StatusForbidden, "You don't have permission to perform this action")
		}
		return c.Next()
	}
}

func (s *Server) handlePostList(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	category := c.Query("category")
	tag := c.Query("tag")
	search := strings.ToLower(c.Query("search"))
	featuredOnly := c.Query("featured") == "true"

	s.mu.RLock()
	matched := make([]blogclient.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if category != "" && !strings.EqualFold(post.Category.Name, category) {
			continue
		}
		if tag != "" && !hasTag(post.Tags, tag) {
			continue
		}
		if featuredOnly && !post.Featured {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(post.Title), search) &&
			!strings.Contains(strings.ToLower(post.Excerpt), search) {
			continue
		}
		matched = append(matched, post)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].PublishedDate.After(matched[j].PublishedDate)
	})

	start := (page - 1) * limit
	if start >= len(matched) {
		return c.JSON([]blogclient.Post{})
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	return c.JSON(matched[start:end])
}

func (s *Server) handlePostFeatured(c *fiber.Ctx) error {
	s.mu.RLock()
	featured := make([]blogclient.Post, 0)
	for _, post := range s.posts {
		if post.Featured {
			featured = append(featured, post)
		}
	}
	s.mu.RUnlock()

	sort.Slice(featured, func(i, j int) bool {
		return featured[i].PublishedDate.After(featured[j].PublishedDate)
	})

	return c.JSON(featured)
}

func (s *Server) handlePostByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid post id")
	}

	s.mu.RLock()
	post, found := s.posts[id]
	s.mu.RUnlock()

	if !found {
		return respondError(c, fiber.StatusNotFound, "Post not found")
	}

	return c.JSON(post)
}

func (s *Server) handlePostBySlug(c *fiber.Ctx) error {
	slug := c.Params("slug")

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, post := range s.posts {
		if post.Slug == slug {
			return c.JSON(post)
		}
	}

	return respondError(c, fiber.StatusNotFound, "Post not found")
}

func (s *Server) handlePostCreate(c *fiber.Ctx) error {
	user := c.Locals("user").(blogclient.User)

	post := blogclient.Post{}
	if err := c.BodyParser(&post); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid post payload")
	}

	if post.Title == "" || post.Content == "" {
		return respondError(c, fiber.StatusUnprocessableEntity, "title and content are required")
	}

	s.mu.Lock()
	s.nextPostID++
	post.ID = s.nextPostID
	post.AuthorID = user.ID
	if post.Author.Name == "" {
		post.Author = blogclient.AuthorRef{Name: user.Name}
	}
	if post.Slug == "" {
		post.Slug = slugify(post.Title)
	}
	if post.PublishedDate.IsZero() {
		post.PublishedDate = time.Now()
	}
	s.posts[post.ID] = post
	s.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (s *Server) handlePostUpdate(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid post id")
	}

	incoming := blogclient.Post{}
	if err := c.BodyParser(&incoming); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid post payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post, found := s.posts[id]
	if !found {
		return respondError(c, fiber.StatusNotFound, "Post not found")
	}

	if incoming.Title != "" {
		post.Title = incoming.Title
	}
	if incoming.Content != "" {
		post.Content = incoming.Content
	}
	if incoming.Excerpt != "" {
		post.Excerpt = incoming.Excerpt
	}
	if len(incoming.Tags) > 0 {
		post.Tags = incoming.Tags
	}
	if incoming.Category.Name != "" {
		post.Category = incoming.Category
	}
	post.Featured = incoming.Featured
	now := time.Now()
	post.UpdatedDate = &now

	s.posts[id] = post
	return c.JSON(post)
}

func (s *Server) handlePostDelete(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid post id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.posts[id]; !found {
		return respondError(c, fiber.StatusNotFound, "Post not found")
	}

	delete(s.posts, id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handlePostLike(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid post id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post, found := s.posts[id]
	if !found {
		return respondError(c, fiber.StatusNotFound, "Post not found")
	}

	post.Likes++
	s.posts[id] = post
	return c.JSON(post)
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	return strings.Trim(slug, "-")
}
