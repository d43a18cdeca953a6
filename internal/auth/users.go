package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")
)

// User is the stored account record. PassHash is the bcrypt digest and is
// never serialized to clients.
type User struct {
	ID        string
	Username  string
	Email     string
	PassHash  string
	CreatedAt time.Time
}

type UserStore interface {
	// Add persists a new user, assigning its ID. Duplicate email or
	// username reports the colliding field via ErrEmailTaken or
	// ErrUsernameTaken.
	Add(ctx context.Context, u *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	// RemoveByUsernames deletes the named accounts if present. Used by
	// demo seeding so it can be re-run safely.
	RemoveByUsernames(ctx context.Context, usernames []string) error
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MemoryUserStore mirrors the Mongo store's semantics for tests.
type MemoryUserStore struct {
	mu         sync.Mutex
	byUsername map[string]*User
	byEmail    map[string]*User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byUsername: map[string]*User{},
		byEmail:    map[string]*User{},
	}
}

func (s *MemoryUserStore) Add(_ context.Context, u *User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	email := NormalizeEmail(u.Email)
	if _, exists := s.byEmail[email]; exists {
		return ErrEmailTaken
	}
	if _, exists := s.byUsername[u.Username]; exists {
		return ErrUsernameTaken
	}

	u.ID = primitive.NewObjectID().Hex()
	u.Email = email
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	clone := *u
	s.byUsername[u.Username] = &clone
	s.byEmail[email] = &clone
	return nil
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byEmail[NormalizeEmail(email)]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, ErrUserNotFound
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byUsername[username]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, ErrUserNotFound
}

func (s *MemoryUserStore) RemoveByUsernames(_ context.Context, usernames []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, name := range usernames {
		if u, ok := s.byUsername[name]; ok {
			delete(s.byEmail, u.Email)
			delete(s.byUsername, name)
		}
	}
	return nil
}

func (s *MemoryUserStore) UsernamesByID(_ context.Context, ids []string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]string{}
	for _, u := range s.byUsername {
		out[u.ID] = u.Username
	}
	filtered := map[string]string{}
	for _, id := range ids {
		if name, ok := out[id]; ok {
			filtered[id] = name
		}
	}
	return filtered, nil
}
