package server

import (
	"time"

	"github.com/csnyder2004/Final-Project-for-SE-Bootcamp/internal/auth"
	"github.com/csnyder2004/Final-Project-for-SE-Bootcamp/internal/forum"
)

// Request/response contracts, one pair per endpoint. Handler errors use
// errorResponse; unmatched routes use notFoundResponse, matching what the
// frontend expects.

type errorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type notFoundResponse struct {
	Error string `json:"error"`
	Path  string `json:"path"`
}

type pingResponse struct {
	Message string `json:"message"`
	Time    string `json:"time"`
}

type apiStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userPayload is the public-safe projection; the digest never leaves the
// store layer.
type userPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type registerResponse struct {
	Message string      `json:"message"`
	User    userPayload `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    userPayload `json:"user"`
}

type meResponse struct {
	Message string       `json:"message"`
	User    *auth.Claims `json:"user"`
}

type createPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type postAuthorPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type postPayload struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Category  string            `json:"category"`
	Author    postAuthorPayload `json:"author"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type createPostResponse struct {
	Message string      `json:"message"`
	Post    postPayload `json:"post"`
}

type demoAccount struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type seedDemoResponse struct {
	Message      string        `json:"message"`
	DemoAccounts []demoAccount `json:"demoAccounts"`
}

func toPostPayload(p forum.Post) postPayload {
	return postPayload{
		ID:       p.ID,
		Title:    p.Title,
		Content:  p.Content,
		Category: p.Category,
		Author: postAuthorPayload{
			ID:       p.AuthorID,
			Username: p.AuthorName,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
