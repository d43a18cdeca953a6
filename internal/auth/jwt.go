package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the token was well formed and correctly signed
	// but its expiry has elapsed.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers everything else: malformed token, bad
	// signature, wrong algorithm, wrong issuer.
	ErrTokenInvalid = errors.New("invalid token")
)

type TokenSigner struct {
	secret []byte
	iss    string
	ttl    time.Duration
}

// NewTokenSigner fails when the secret is empty. Callers must treat that as
// a fatal startup precondition, not a per-request error.
func NewTokenSigner(secret, iss string, ttl time.Duration) (*TokenSigner, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenSigner{secret: []byte(secret), iss: iss, ttl: ttl}, nil
}

func (s *TokenSigner) TTL() time.Duration { return s.ttl }

// IssueToken signs {id, username} plus the standard time claims with HS256.
func (s *TokenSigner) IssueToken(id, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.ttl)

	claims := jwt.MapClaims{
		"iss":      s.iss,
		"id":       id,
		"username": username,
		"iat":      now.Unix(),
		"exp":      exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(s.secret)
	return ss, exp, err
}

// ParseAndValidate checks signature, expiry, and issuer. An elapsed expiry
// is reported as ErrTokenExpired, distinct from ErrTokenInvalid.
func (s *TokenSigner) ParseAndValidate(tokenStr string) (*Claims, error) {
	keyFunc := func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}

	tok, err := jwt.ParseWithClaims(
		tokenStr,
		jwt.MapClaims{},
		keyFunc,
		jwt.WithIssuer(s.iss),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid {
		return nil, ErrTokenInvalid
	}
	std := tok.Claims.(jwt.MapClaims)

	getString := func(k string) string {
		if v, ok := std[k].(string); ok {
			return v
		}
		return ""
	}
	getInt64 := func(k string) int64 {
		switch v := std[k].(type) {
		case float64:
			return int64(v)
		case int64:
			return v
		default:
			return 0
		}
	}

	return &Claims{
		ID:        getString("id"),
		Username:  getString("username"),
		IssuedAt:  getInt64("iat"),
		ExpiresAt: getInt64("exp"),
	}, nil
}
