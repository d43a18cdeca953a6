package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/csnyder2004/Final-Project-for-SE-Bootcamp/internal/auth"
	"github.com/csnyder2004/Final-Project-for-SE-Bootcamp/internal/forum"
)

// handlePosts splits by method because only creation needs a token; listing
// stays public, so the path cannot be gated as a whole.
func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listPosts(w, r)
	case http.MethodPost:
		auth.AuthRequired(s.signer)(http.HandlerFunc(s.createPost)).ServeHTTP(w, r)
	default:
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	posts, err := s.posts.List(r.Context(), category)
	if err != nil {
		s.logger.Printf("list posts: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error fetching posts.")
		return
	}

	out := make([]postPayload, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostPayload(p))
	}
	writeJSON(w, out)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.MustClaims(r)
	if err != nil || claims.ID == "" {
		writeMessage(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		writeMessage(w, http.StatusBadRequest, "Title and content are required.")
		return
	}

	// Author identity comes from the verified claims, never the body.
	post := &forum.Post{
		Title:      req.Title,
		Content:    req.Content,
		Category:   forum.NormalizeCategory(req.Category),
		AuthorID:   claims.ID,
		AuthorName: claims.Username,
	}
	if err := s.posts.Insert(r.Context(), post); err != nil {
		s.logger.Printf("create post: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error creating post.")
		return
	}

	writeJSONStatus(w, http.StatusCreated, createPostResponse{
		Message: "Post created.",
		Post:    toPostPayload(*post),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	distinct, err := s.posts.Categories(r.Context())
	if err != nil {
		s.logger.Printf("categories: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error fetching categories.")
		return
	}

	// "All" always leads so the UI has a no-filter option.
	categories := append([]string{forum.CategoryAll}, distinct...)
	writeJSON(w, categories)
}
