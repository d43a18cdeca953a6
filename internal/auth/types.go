package auth

// Claims is the identity a verified token carries. It is rebuilt by the
// verifier on every request and never persisted.
type Claims struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
