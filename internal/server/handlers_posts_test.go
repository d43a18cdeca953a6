package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostRequiresToken(t *testing.T) {
	s, _, posts := newTestServer(t)

	rr := doJSON(t, s, http.MethodPost, "/api/posts", createPostRequest{
		Title:   "unauthorized",
		Content: "should not land",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	stored, err := posts.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, stored, "a rejected request must not create a record")
}

func TestCreatePostAuthorComesFromClaims(t *testing.T) {
	s, _, _ := newTestServer(t)
	u := registerUser(t, s, "SmokeyTheDog", "smokey@volsforum.com", "govols123")
	login := loginUser(t, s, "smokey@volsforum.com", "govols123")

	rr := doJSON(t, s, http.MethodPost, "/api/posts", createPostRequest{
		Title:    "Game Day Thread",
		Content:  "Predictions?",
		Category: "  Game Day Talk ",
	}, login.Token)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp createPostResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Post created.", resp.Message)
	assert.Equal(t, u.ID, resp.Post.Author.ID)
	assert.Equal(t, "SmokeyTheDog", resp.Post.Author.Username)
	assert.Equal(t, "Game Day Talk", resp.Post.Category, "category trimmed")
	assert.NotEmpty(t, resp.Post.ID)
}

func TestCreatePostValidation(t *testing.T) {
	s, _, _ := newTestServer(t)
	registerUser(t, s, "SmokeyTheDog", "smokey@volsforum.com", "govols123")
	login := loginUser(t, s, "smokey@volsforum.com", "govols123")

	rr := doJSON(t, s, http.MethodPost, "/api/posts", createPostRequest{
		Title:   "   ",
		Content: "body",
	}, login.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Title and content are required.")
}

func TestCreatePostDefaultsCategory(t *testing.T) {
	s, _, _ := newTestServer(t)
	registerUser(t, s, "SmokeyTheDog", "smokey@volsforum.com", "govols123")
	login := loginUser(t, s, "smokey@volsforum.com", "govols123")

	rr := doJSON(t, s, http.MethodPost, "/api/posts", createPostRequest{
		Title:   "no category",
		Content: "body",
	}, login.Token)
	require.Equal(t, http.StatusCreated, rr.Code)
	var resp createPostResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "General", resp.Post.Category)
}

func TestListPostsFilterAndOrder(t *testing.T) {
	s, _, _ := newTestServer(t)
	registerUser(t, s, "SmokeyTheDog", "smokey@volsforum.com", "govols123")
	login := loginUser(t, s, "smokey@volsforum.com", "govols123")

	for _, p := range []createPostRequest{
		{Title: "old fan post", Content: "c", Category: "Fan Zone"},
		{Title: "history post", Content: "c", Category: "Vols History"},
		{Title: "new fan post", Content: "c", Category: "Fan Zone"},
	} {
		rr := doJSON(t, s, http.MethodPost, "/api/posts", p, login.Token)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := doJSON(t, s, http.MethodGet, "/api/posts?category=Fan+Zone", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var filtered []postPayload
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&filtered))
	require.Len(t, filtered, 2)
	for _, p := range filtered {
		assert.Equal(t, "Fan Zone", p.Category)
		assert.Equal(t, "SmokeyTheDog", p.Author.Username)
	}

	rr = doJSON(t, s, http.MethodGet, "/api/posts?category=All", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var all []postPayload
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&all))
	require.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "posts must be newest-first")
	}
}

func TestListPostsEmptyIsArray(t *testing.T) {
	s, _, _ := newTestServer(t)
	rr := doJSON(t, s, http.MethodGet, "/api/posts", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String(), "frontend expects an array even when empty")
}

func TestCategoriesIncludeAllFirst(t *testing.T) {
	s, _, _ := newTestServer(t)
	registerUser(t, s, "SmokeyTheDog", "smokey@volsforum.com", "govols123")
	login := loginUser(t, s, "smokey@volsforum.com", "govols123")

	for _, cat := range []string{"Vols History", "Fan Zone"} {
		rr := doJSON(t, s, http.MethodPost, "/api/posts", createPostRequest{Title: "t", Content: "c", Category: cat}, login.Token)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := doJSON(t, s, http.MethodGet, "/api/posts/categories", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var cats []string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&cats))
	assert.Equal(t, []string{"All", "Fan Zone", "Vols History"}, cats)
}

func TestSeedDemoIsRerunnable(t *testing.T) {
	s, _, _ := newTestServer(t)

	for run := 0; run < 2; run++ {
		rr := doJSON(t, s, http.MethodPost, "/api/seed/demo", nil, "")
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var resp seedDemoResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Len(t, resp.DemoAccounts, 3)
	}

	// No duplicate demo posts after the second run.
	rr := doJSON(t, s, http.MethodGet, "/api/posts", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var all []postPayload
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&all))
	assert.Len(t, all, 6)

	// Demo accounts can log in.
	login := loginUser(t, s, "smokey@volsforum.com", "govols123")
	assert.NotEmpty(t, login.Token)
}

func TestUnmatchedRouteIs404JSON(t *testing.T) {
	s, _, _ := newTestServer(t)
	rr := doJSON(t, s, http.MethodGet, "/definitely/not/here", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	var resp notFoundResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Not Found", resp.Error)
	assert.Equal(t, "/definitely/not/here", resp.Path)
}

func TestPreflightAndCORS(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	s.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))

	// Unlisted origins get no allow header.
	req = httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	s.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestPingAndStatus(t *testing.T) {
	s, _, _ := newTestServer(t)

	rr := doJSON(t, s, http.MethodGet, "/ping", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Server awake")

	rr = doJSON(t, s, http.MethodGet, "/api", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var status apiStatusResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	assert.Equal(t, "ok", status.Status)
}
