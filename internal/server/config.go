package server

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	MongoURI        string
	MongoDB         string
	UsersCollection string
	PostsCollection string
	JWTSecret       string
	JWTIssuer       string
	TokenTTL        time.Duration
	Addr            string
	AllowedOrigins  []string
}

func (c *Config) setDefaults() {
	if c.MongoDB == "" {
		c.MongoDB = "forum"
	}
	if c.UsersCollection == "" {
		c.UsersCollection = "users"
	}
	if c.PostsCollection == "" {
		c.PostsCollection = "posts"
	}
	if c.JWTIssuer == "" {
		c.JWTIssuer = "forum-backend"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.Addr == "" {
		c.Addr = ":4000"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:4000",
			"http://127.0.0.1:5500",
			"http://localhost:5500",
		}
	}
}

// FromEnv builds a Config from the process environment. Validation happens
// in New: a missing Mongo URI or JWT secret is a fatal startup error there.
func FromEnv() Config {
	cfg := Config{
		MongoURI:  os.Getenv("MONGO_URI"),
		MongoDB:   os.Getenv("MONGO_DB"),
		JWTSecret: os.Getenv("JWT_SECRET"),
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	for _, o := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	if front := strings.TrimSpace(os.Getenv("FRONTEND_URL")); front != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, front)
	}
	return cfg
}
