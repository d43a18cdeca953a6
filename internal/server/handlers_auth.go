package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/csnyder2004/Final-Project-for-SE-Bootcamp/internal/auth"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = auth.NormalizeEmail(req.Email)

	// Validation order: presence, then format, then uniqueness.
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "All fields are required.")
		return
	}
	if !isValidEmail(req.Email) {
		writeMessage(w, http.StatusBadRequest, "Please enter a valid email address.")
		return
	}
	if n := utf8.RuneCountInString(req.Username); n < 3 || n > 30 {
		writeMessage(w, http.StatusBadRequest, "Username must be between 3 and 30 characters.")
		return
	}
	if utf8.RuneCountInString(req.Password) < 6 {
		writeMessage(w, http.StatusBadRequest, "Password must be at least 6 characters long.")
		return
	}

	hash, err := auth.HashPassword(auth.DefaultHashCost, req.Password)
	if err != nil {
		s.logger.Printf("register: hash error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error during registration.")
		return
	}

	user := &auth.User{
		Username: req.Username,
		Email:    req.Email,
		PassHash: hash,
	}
	// The store's unique indexes arbitrate concurrent registrations on
	// the same email or username.
	if err := s.users.Add(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			writeMessage(w, http.StatusBadRequest, "Email already registered.")
		case errors.Is(err, auth.ErrUsernameTaken):
			writeMessage(w, http.StatusBadRequest, "Username already taken.")
		default:
			s.logger.Printf("register: store error: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Server error during registration.")
		}
		return
	}

	s.logger.Printf("registered new user %s (%s)", user.Username, user.Email)
	writeJSONStatus(w, http.StatusCreated, registerResponse{
		Message: "User registered successfully!",
		User: userPayload{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "bad json")
		return
	}

	req.Email = auth.NormalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password required.")
		return
	}

	user, err := s.users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, auth.ErrUserNotFound) {
			s.logger.Printf("login: store error: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Server error during login.")
			return
		}
		// Burn a compare on a throwaway digest so a miss takes about as
		// long as a mismatch, then return the same generic message.
		_, _ = auth.VerifyPassword(req.Password, s.dummyHash)
		writeMessage(w, http.StatusBadRequest, "Invalid email or password.")
		return
	}

	ok, err := auth.VerifyPassword(req.Password, user.PassHash)
	if err != nil {
		s.logger.Printf("login: stored digest for %s is unreadable: %v", user.Username, err)
		writeMessage(w, http.StatusInternalServerError, "Server error during login.")
		return
	}
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid email or password.")
		return
	}

	token, _, err := s.signer.IssueToken(user.ID, user.Username)
	if err != nil {
		s.logger.Printf("login: token issue failed: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error during login.")
		return
	}

	s.logger.Printf("%s logged in", user.Username)
	writeJSON(w, loginResponse{
		Message: "Login successful!",
		Token:   token,
		User: userPayload{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}

// handleMe echoes the verified claims back; the bearer-token gate in
// ServeHTTP has already run.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	claims, err := auth.MustClaims(r)
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, "Not authorized, token missing")
		return
	}
	writeJSON(w, meResponse{
		Message: "Token verified successfully!",
		User:    claims,
	})
}
