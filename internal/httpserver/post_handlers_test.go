package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdoshkin/blog_platform/internal/models"
	"github.com/avdoshkin/blog_platform/internal/transport"
)

func TestCreatePost_RequiresAuth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/posts", transport.CreatePostRequest{
		Title: "Hello World", Body: "First post",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreatePost_AndReadBack(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user, token := env.createUser(t, "Ann", "ann@x.com", "secret1", models.RoleUser)

	rec := env.do(t, http.MethodPost, "/api/posts", transport.CreatePostRequest{
		Title: "Hello, World!", Excerpt: "greetings", Body: "First post", Published: true,
	}, bearer(token))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["success"])
	post := body["post"].(map[string]interface{})
	assert.Equal(t, "hello-world", post["slug"])
	assert.Equal(t, user.ID.String(), post["author_id"])

	rec = env.do(t, http.MethodGet, "/api/posts/hello-world", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody(t, rec)
	assert.Equal(t, "Hello, World!", got["post"].(map[string]interface{})["title"])

	rec = env.do(t, http.MethodGet, "/api/posts", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)
	assert.Equal(t, float64(1), list["total"])
}

func TestCreatePost_DuplicateTitle(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.createUser(t, "Ann", "ann@x.com", "secret1", models.RoleUser)

	req := transport.CreatePostRequest{Title: "Same Title", Body: "one", Published: true}
	rec := env.do(t, http.MethodPost, "/api/posts", req, bearer(token))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/posts", req, bearer(token))
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetPost_UnpublishedHidden(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, token := env.createUser(t, "Ann", "ann@x.com", "secret1", models.RoleUser)

	rec := env.do(t, http.MethodPost, "/api/posts", transport.CreatePostRequest{
		Title: "Draft Post", Body: "wip", Published: false,
	}, bearer(token))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/posts/draft-post", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/posts", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)
	assert.Equal(t, float64(0), list["total"])
}

func TestDeletePost_AdminOnly(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	_, userToken := env.createUser(t, "Ann", "ann@x.com", "secret1", models.RoleUser)
	_, adminToken := env.createUser(t, "Root", "root@x.com", "secret1", models.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/posts", transport.CreatePostRequest{
		Title: "To Be Removed", Body: "bye", Published: true,
	}, bearer(userToken))
	require.Equal(t, http.StatusCreated, rec.Code)
	postID := decodeBody(t, rec)["post"].(map[string]interface{})["id"].(string)

	rec = env.do(t, http.MethodDelete, "/api/posts/"+postID, nil, bearer(userToken))
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/posts/"+postID, nil, bearer(adminToken))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/posts/"+postID, nil, bearer(adminToken))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchPosts_WithoutBackend(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/posts/search?q=hello", nil, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/posts/search", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
