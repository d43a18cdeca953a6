package server

import (
	"net/http"
	"time"
)

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/ping", s.handlePing)
	s.mux.HandleFunc("/api", s.handleAPIStatus)
	s.mux.HandleFunc("/api/health", s.handleAPIStatus)

	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/api/auth/me", s.handleMe)

	s.mux.HandleFunc("/api/posts", s.handlePosts)
	s.mux.HandleFunc("/api/posts/categories", s.handleCategories)

	s.mux.HandleFunc("/api/seed/demo", s.handleSeedDemo)
}

// handleIndex is the root liveness check; everything else falling through
// to it is an unmatched route.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONStatus(w, http.StatusNotFound, notFoundResponse{
			Error: "Not Found",
			Path:  r.URL.Path,
		})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Forum API is running and connected to MongoDB"))
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, pingResponse{
		Message: "Server awake",
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleAPIStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, apiStatusResponse{
		Status:  "ok",
		Message: "API online and database connection established.",
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}
