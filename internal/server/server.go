package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/csnyder2004/Final-Project-for-SE-Bootcamp/internal/auth"
	"github.com/csnyder2004/Final-Project-for-SE-Bootcamp/internal/forum"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/time/rate"
)

type Server struct {
	cfg Config

	mux    *http.ServeMux
	signer *auth.TokenSigner
	users  auth.UserStore
	posts  forum.PostStore
	logger *log.Logger

	client *mongo.Client

	// dummyHash is compared against when a login lookup misses so the
	// response timing does not reveal whether the account exists.
	dummyHash string

	heartbeatLog rate.Sometimes
}

func New(ctx context.Context, cfg Config) (*Server, error) {
	cfg.setDefaults()
	if cfg.MongoURI == "" {
		return nil, errors.New("server: MongoURI required")
	}

	signer, err := auth.NewTokenSigner(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := cli.Ping(pingCtx, nil); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, err
	}

	users, err := auth.NewMongoUserStore(ctx, cli, cfg.MongoDB, cfg.UsersCollection)
	if err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, err
	}
	posts, err := forum.NewMongoPostStore(ctx, cli, cfg.MongoDB, cfg.PostsCollection, users)
	if err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, err
	}

	s, err := newServer(cfg, signer, users, posts)
	if err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, err
	}
	s.client = cli
	return s, nil
}

// newServer assembles a server around already-built dependencies. Tests use
// it with the in-memory stores.
func newServer(cfg Config, signer *auth.TokenSigner, users auth.UserStore, posts forum.PostStore) (*Server, error) {
	cfg.setDefaults()

	dummy, err := auth.HashPassword(auth.DefaultHashCost, "not-a-real-password")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:          cfg,
		mux:          http.NewServeMux(),
		signer:       signer,
		users:        users,
		posts:        posts,
		logger:       log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile),
		dummyHash:    dummy,
		heartbeatLog: rate.Sometimes{First: 1, Interval: time.Minute},
	}
	s.routes()
	return s, nil
}

func (s *Server) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Printf("panic: %v", rec)
			writeJSONStatus(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
		}
	}()

	s.addDefaultHeaders(w, r)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Uptime monitors ping constantly; log at most once a minute.
	if strings.Contains(r.Header.Get("User-Agent"), "UptimeRobot") {
		s.heartbeatLog.Do(func() {
			s.logger.Printf("uptime monitor ping from %s", getClientIP(r))
		})
	}

	path := r.URL.Path
	if strings.HasPrefix(path, "/api/") {
		if s.isPublic(path) {
			s.mux.ServeHTTP(w, r)
			return
		}
		handler := auth.AuthRequired(s.signer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		}))
		handler.ServeHTTP(w, r)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) Handler() http.Handler {
	return s
}

// isPublic lists the API paths reachable without a bearer token. Note that
// POST /api/posts enforces auth inside its handler since GET on the same
// path is public.
func (s *Server) isPublic(path string) bool {
	switch path {
	case "/api/health", "/api/auth/register", "/api/auth/login", "/api/posts", "/api/posts/categories", "/api/seed/demo":
		return true
	default:
		return false
	}
}

func (s *Server) addDefaultHeaders(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin != "" && s.originAllowed(origin) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Add("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	if strings.HasPrefix(r.URL.Path, "/api") {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
}

// originAllowed matches by prefix so entries like "http://localhost:3000"
// also cover paths under them, mirroring the allow-list the frontend relies
// on.
func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed != "" && strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	return false
}
