package forum

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultCategory is the fallback when a post is submitted without one.
const DefaultCategory = "General"

// CategoryAll is the synthetic UI value meaning "no filter".
const CategoryAll = "All"

// DeletedAuthorName is rendered when a post's author no longer resolves to
// a user. Author existence is an application-level assumption, not enforced
// referentially by the store.
const DeletedAuthorName = "deleted user"

type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	AuthorID   string    `json:"-"`
	AuthorName string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UsernameResolver batch-resolves author ids to usernames for listings.
type UsernameResolver interface {
	UsernamesByID(ctx context.Context, ids []string) (map[string]string, error)
}

type PostStore interface {
	// Insert persists a post, assigning ID and timestamps.
	Insert(ctx context.Context, p *Post) error
	// List returns posts newest-first, with AuthorName resolved. An empty
	// category (or CategoryAll) returns everything.
	List(ctx context.Context, category string) ([]Post, error)
	// Categories returns the distinct category strings, sorted.
	Categories(ctx context.Context) ([]string, error)
	// RemoveByCategories deletes every post in the named categories. Used
	// by demo seeding so it can be re-run safely.
	RemoveByCategories(ctx context.Context, names []string) error
}

// NormalizeCategory trims and applies the default.
func NormalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return DefaultCategory
	}
	return c
}

// MemoryPostStore mirrors the Mongo store's semantics for tests.
type MemoryPostStore struct {
	mu    sync.Mutex
	posts []Post
	names UsernameResolver
}

func NewMemoryPostStore(names UsernameResolver) *MemoryPostStore {
	return &MemoryPostStore{names: names}
}

func (s *MemoryPostStore) Insert(_ context.Context, p *Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	p.ID = primitive.NewObjectID().Hex()
	p.Category = NormalizeCategory(p.Category)
	p.CreatedAt = now
	p.UpdatedAt = now
	s.posts = append(s.posts, *p)
	return nil
}

func (s *MemoryPostStore) List(ctx context.Context, category string) ([]Post, error) {
	s.mu.Lock()
	var out []Post
	for _, p := range s.posts {
		if category != "" && category != CategoryAll && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return resolveAuthors(ctx, s.names, out)
}

func (s *MemoryPostStore) Categories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range s.posts {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryPostStore) RemoveByCategories(_ context.Context, names []string) error {
	drop := map[string]bool{}
	for _, n := range names {
		drop[n] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.posts[:0]
	for _, p := range s.posts {
		if !drop[p.Category] {
			kept = append(kept, p)
		}
	}
	s.posts = kept
	return nil
}

func resolveAuthors(ctx context.Context, names UsernameResolver, posts []Post) ([]Post, error) {
	if len(posts) == 0 {
		return posts, nil
	}
	ids := make([]string, 0, len(posts))
	seen := map[string]bool{}
	for _, p := range posts {
		if !seen[p.AuthorID] {
			seen[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}
	byID, err := names.UsernamesByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if name, ok := byID[posts[i].AuthorID]; ok {
			posts[i].AuthorName = name
		} else {
			posts[i].AuthorName = DeletedAuthorName
		}
	}
	return posts, nil
}
