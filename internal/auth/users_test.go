package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserStoreAddAndFind(t *testing.T) {
	s := NewMemoryUserStore()
	ctx := context.Background()

	u := &User{Username: "smokey", Email: "Smokey@VolsForum.com", PassHash: "digest"}
	require.NoError(t, s.Add(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "smokey@volsforum.com", u.Email, "email is normalized on write")

	byEmail, err := s.FindByEmail(ctx, "SMOKEY@volsforum.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byName, err := s.FindByUsername(ctx, "smokey")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)
}

func TestMemoryUserStoreFieldLevelConflicts(t *testing.T) {
	s := NewMemoryUserStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, &User{Username: "smokey", Email: "smokey@volsforum.com", PassHash: "d"}))

	// Same email, different username: the email is what collides.
	err := s.Add(ctx, &User{Username: "other", Email: "smokey@volsforum.com", PassHash: "d"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	// Same username, different email.
	err = s.Add(ctx, &User{Username: "smokey", Email: "fresh@volsforum.com", PassHash: "d"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestMemoryUserStoreLookupMiss(t *testing.T) {
	s := NewMemoryUserStore()
	_, err := s.FindByEmail(context.Background(), "nobody@volsforum.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = s.FindByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryUserStoreRemoveByUsernames(t *testing.T) {
	s := NewMemoryUserStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, &User{Username: "smokey", Email: "smokey@volsforum.com", PassHash: "d"}))
	require.NoError(t, s.Add(ctx, &User{Username: "rocky", Email: "rocky@volsforum.com", PassHash: "d"}))

	require.NoError(t, s.RemoveByUsernames(ctx, []string{"smokey", "missing"}))

	_, err := s.FindByUsername(ctx, "smokey")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = s.FindByEmail(ctx, "smokey@volsforum.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = s.FindByUsername(ctx, "rocky")
	assert.NoError(t, err)
}

func TestMemoryUserStoreUsernamesByID(t *testing.T) {
	s := NewMemoryUserStore()
	ctx := context.Background()

	a := &User{Username: "smokey", Email: "smokey@volsforum.com", PassHash: "d"}
	b := &User{Username: "rocky", Email: "rocky@volsforum.com", PassHash: "d"}
	require.NoError(t, s.Add(ctx, a))
	require.NoError(t, s.Add(ctx, b))

	names, err := s.UsernamesByID(ctx, []string{a.ID, "missing-id"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{a.ID: "smokey"}, names)
}
