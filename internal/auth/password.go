package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost matches the cost every stored digest was created with;
// raising it only affects newly registered users.
const DefaultHashCost = 10

var ErrInvalidHash = errors.New("invalid password hash")

// HashPassword produces a bcrypt digest. The digest is self-describing
// (embeds salt and cost), so verification needs no side parameters.
func HashPassword(cost int, password string) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext candidate against a stored digest.
// A mismatch is a normal (false, nil); only a malformed digest is an error.
func VerifyPassword(password, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, ErrInvalidHash
}
