package ports

// Claims is the identity embedded in a session token.
type Claims struct {
	UserID int64
	Email  string
	Role   string
}

// TokenService signs and verifies session tokens. Verification is purely
// cryptographic: it never consults the user store, so claims may be stale
// relative to the current record until the token expires.
type TokenService interface {
	Issue(claims Claims) (string, error)
	Verify(token string) (Claims, error)
}
