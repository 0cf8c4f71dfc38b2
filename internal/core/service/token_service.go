package service

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/platformid/identity-system/internal/core/domain"
	"github.com/platformid/identity-system/internal/core/ports"
)

// TokenService issues and verifies HS256-signed session tokens. The signing
// secret is fixed at construction and treated as immutable for the process
// lifetime.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

type sessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issue embeds the claims plus issuance and expiry timestamps and returns
// the signed compact token.
func (s *TokenService) Issue(claims ports.Claims) (string, error) {
	now := s.now().UTC()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: claims.Email,
		Role:  claims.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(claims.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return t.SignedString(s.secret)
}

// Verify returns the claims carried by token. Malformed tokens, signature
// mismatches, wrong algorithms and expired tokens all fail the same way
// with domain.ErrInvalidToken.
func (s *TokenService) Verify(token string) (ports.Claims, error) {
	var sc sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &sc, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return ports.Claims{}, domain.ErrInvalidToken
	}

	id, err := strconv.ParseInt(sc.Subject, 10, 64)
	if err != nil {
		return ports.Claims{}, domain.ErrInvalidToken
	}

	return ports.Claims{UserID: id, Email: sc.Email, Role: sc.Role}, nil
}
