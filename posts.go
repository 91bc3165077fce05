package blogclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Author is the expanded author shape some backends return inline on posts
type Author struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Category is the expanded category shape
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
}

// AuthorRef resolves the backend's "string or object" author payload once at
// the API boundary. When only a display name was provided, Author is nil.
type AuthorRef struct {
	Name   string
	Author *Author
}

func (a *AuthorRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		a.Name = name
		a.Author = nil
		return nil
	}

	author := &Author{}
	if err := json.Unmarshal(data, author); err != nil {
		return err
	}

	a.Author = author
	a.Name = author.Name
	return nil
}

func (a AuthorRef) MarshalJSON() ([]byte, error) {
	if a.Author != nil {
		return json.Marshal(a.Author)
	}
	return json.Marshal(a.Name)
}

// CategoryRef resolves the "string or object" category payload
type CategoryRef struct {
	Name     string
	Category *Category
}

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		c.Name = name
		c.Category = nil
		return nil
	}

	category := &Category{}
	if err := json.Unmarshal(data, category); err != nil {
		return err
	}

	c.Category = category
	c.Name = category.Name
	return nil
}

func (c CategoryRef) MarshalJSON() ([]byte, error) {
	if c.Category != nil {
		return json.Marshal(c.Category)
	}
	return json.Marshal(c.Name)
}

// Post is a blog post as served by the backend
type Post struct {
	ID            int64       `json:"id"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	Excerpt       string      `json:"excerpt"`
	Content       string      `json:"content"`
	Author        AuthorRef   `json:"author"`
	AuthorAvatar  string      `json:"authorAvatar,omitempty"`
	CoverImage    string      `json:"coverImage,omitempty"`
	Tags          []string    `json:"tags"`
	Category      CategoryRef `json:"category"`
	PublishedDate time.Time   `json:"publishedDate"`
	UpdatedDate   *time.Time  `json:"updatedDate,omitempty"`
	ReadTime      int         `json:"readTime"`
	Likes         int         `json:"likes"`
	Views         int         `json:"views"`
	Featured      bool        `json:"featured"`
	Published     bool        `json:"published,omitempty"`
	AuthorID      int64       `json:"authorId,omitempty"`
	CategoryID    int64       `json:"categoryId,omitempty"`
}

// PostFilters narrows List results. Zero values are omitted from the query.
type PostFilters struct {
	Category string
	Tag      string
	Search   string
	Featured bool
}

// PostService is the post API surface. Every call flows through the shared
// client, so writes carry the bearer credential and failures classify into
// uniform faults.
type PostService struct {
	api *AuthClient
}

func NewPostService(api *AuthClient) *PostService {
	return &PostService{api: api}
}

// List returns a page of posts with optional filters
func (s *PostService) List(ctx context.Context, page, limit int, filters *PostFilters) ([]Post, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))

	if filters != nil {
		if filters.Category != "" {
			query.Set("category", filters.Category)
		}
		if filters.Tag != "" {
			query.Set("tag", filters.Tag)
		}
		if filters.Search != "" {
			query.Set("search", filters.Search)
		}
		if filters.Featured {
			query.Set("featured", "true")
		}
	}

	posts := []Post{}
	if err := s.api.do(ctx, http.MethodGet, "/posts?"+query.Encode(), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Featured returns the posts flagged for the home page
func (s *PostService) Featured(ctx context.Context) ([]Post, error) {
	posts := []Post{}
	if err := s.api.do(ctx, http.MethodGet, "/posts/featured", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostService) GetByID(ctx context.Context, id int64) (*Post, error) {
	post := &Post{}
	if err := s.api.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	post := &Post{}
	if err := s.api.do(ctx, http.MethodGet, "/posts/slug/"+url.PathEscape(slug), nil, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) ByCategory(ctx context.Context, category string) ([]Post, error) {
	return s.List(ctx, 1, 50, &PostFilters{Category: category})
}

func (s *PostService) ByTag(ctx context.Context, tag string) ([]Post, error) {
	return s.List(ctx, 1, 50, &PostFilters{Tag: tag})
}

func (s *PostService) Search(ctx context.Context, term string) ([]Post, error) {
	return s.List(ctx, 1, 50, &PostFilters{Search: term})
}

// Create publishes a new post. Requires an author or admin credential; the
// backend is the final arbiter.
func (s *PostService) Create(ctx context.Context, post Post) (*Post, error) {
	created := &Post{}
	if err := s.api.do(ctx, http.MethodPost, "/posts", post, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *PostService) Update(ctx context.Context, id int64, post Post) (*Post, error) {
	updated := &Post{}
	if err := s.api.do(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), post, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a post. Admin only; callers should gate the action on
// CanDelete before offering it.
func (s *PostService) Delete(ctx context.Context, id int64) error {
	if user := s.api.CurrentUser(); user != nil && !user.Role.CanDelete() {
		return goerrors.New("Access forbidden. You don't have permission.", goerrors.CategoryAuth).
			WithTextCode(TextCodeForbidden)
	}
	return s.api.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil)
}

// Like increments the post's like counter
func (s *PostService) Like(ctx context.Context, id int64) (*Post, error) {
	post := &Post{}
	if err := s.api.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/like", id), struct{}{}, post); err != nil {
		return nil, err
	}
	return post, nil
}
