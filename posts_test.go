package blogclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blogclient "github.com/goliatone/go-blog-client"
)

func TestAuthorRefStringOrObject(t *testing.T) {
	t.Run("plain string author", func(t *testing.T) {
		ref := blogclient.AuthorRef{}
		require.NoError(t, json.Unmarshal([]byte(`"Sarah Johnson"`), &ref))
		assert.Equal(t, "Sarah Johnson", ref.Name)
		assert.Nil(t, ref.Author)
	})

	t.Run("expanded author object", func(t *testing.T) {
		ref := blogclient.AuthorRef{}
		require.NoError(t, json.Unmarshal([]byte(`{"id":3,"name":"Sarah Johnson","role":"author"}`), &ref))
		assert.Equal(t, "Sarah Johnson", ref.Name)
		require.NotNil(t, ref.Author)
		assert.Equal(t, int64(3), ref.Author.ID)
	})

	t.Run("string form marshals back to a string", func(t *testing.T) {
		out, err := json.Marshal(blogclient.AuthorRef{Name: "Sarah Johnson"})
		require.NoError(t, err)
		assert.JSONEq(t, `"Sarah Johnson"`, string(out))
	})
}

func TestCategoryRefStringOrObject(t *testing.T) {
	ref := blogclient.CategoryRef{}
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"Frontend","slug":"frontend"}`), &ref))
	assert.Equal(t, "Frontend", ref.Name)
	require.NotNil(t, ref.Category)
	assert.Equal(t, "frontend", ref.Category.Slug)

	require.NoError(t, json.Unmarshal([]byte(`"Backend"`), &ref))
	assert.Equal(t, "Backend", ref.Name)
	assert.Nil(t, ref.Category)
}

func TestPostListBuildsQuery(t *testing.T) {
	var query map[string][]string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(w, http.StatusOK, []blogclient.Post{})
	})

	client, _, done := newTestClient(t, mux)
	defer done()

	posts := blogclient.NewPostService(client)
	_, err := posts.List(context.Background(), 2, 5, &blogclient.PostFilters{
		Category: "Frontend",
		Search:   "angular",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, query["page"])
	assert.Equal(t, []string{"5"}, query["limit"])
	assert.Equal(t, []string{"Frontend"}, query["category"])
	assert.Equal(t, []string{"angular"}, query["search"])
	assert.NotContains(t, query, "tag")
}

func TestPostGetByIDNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/posts/99", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, blogclient.APIError{
			Message:    "Post not found",
			StatusCode: http.StatusNotFound,
		})
	})

	client, _, done := newTestClient(t, mux)
	defer done()

	posts := blogclient.NewPostService(client)
	_, err := posts.GetByID(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, blogclient.FaultNotFound, blogclient.KindOf(err))
	assert.Contains(t, err.Error(), "Post not found")
}

func TestPostCreateCarriesCredential(t *testing.T) {
	var authHeader string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/posts", func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")

		post := blogclient.Post{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&post))
		post.ID = 42
		writeJSON(w, http.StatusCreated, post)
	})

	client, store, done := newTestClient(t, mux)
	defer done()

	ctx := context.Background()
	require.NoError(t, store.Persist(ctx, blogclient.Session{
		Token: "author-token",
		User:  &blogclient.User{ID: 2, Role: blogclient.RoleAuthor},
	}))

	posts := blogclient.NewPostService(client)
	created, err := posts.Create(ctx, blogclient.Post{
		Title:         "Draft",
		Content:       "body",
		Author:        blogclient.AuthorRef{Name: "Sarah Johnson"},
		Category:      blogclient.CategoryRef{Name: "Frontend"},
		PublishedDate: time.Now(),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "Bearer author-token", authHeader)
}

func TestPostDeleteGatedOnRole(t *testing.T) {
	called := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/posts/1", func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	})

	client, store, done := newTestClient(t, mux)
	defer done()

	ctx := context.Background()
	require.NoError(t, store.Persist(ctx, blogclient.Session{
		Token: "t",
		User:  &blogclient.User{Role: blogclient.RoleAuthor},
	}))

	posts := blogclient.NewPostService(client)

	err := posts.Delete(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, blogclient.FaultForbidden, blogclient.KindOf(err))
	assert.False(t, called)

	require.NoError(t, store.Persist(ctx, blogclient.Session{
		Token: "t",
		User:  &blogclient.User{Role: blogclient.RoleAdmin},
	}))

	require.NoError(t, posts.Delete(ctx, 1))
	assert.True(t, called)
}

func TestPostUnauthorizedResponseClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/posts/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, blogclient.APIError{
			Message:    "token expired",
			StatusCode: http.StatusUnauthorized,
		})
	})

	client, store, done := newTestClient(t, mux)
	defer done()

	ctx := context.Background()
	require.NoError(t, store.Persist(ctx, blogclient.Session{
		Token: "stale",
		User:  &blogclient.User{Role: blogclient.RoleAdmin},
	}))

	posts := blogclient.NewPostService(client)
	_, err := posts.Update(ctx, 1, blogclient.Post{Title: "x"})
	require.Error(t, err)

	assert.Equal(t, blogclient.FaultUnauthorized, blogclient.KindOf(err))
	assert.False(t, client.IsAuthenticated())
}
