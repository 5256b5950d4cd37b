package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is how long an issued token stays valid.
const DefaultTTL = time.Hour

var (
	// ErrMissingSecret is returned when a Service is constructed without a
	// signing secret.
	ErrMissingSecret = errors.New("token: signing secret is required")
	// ErrInvalidToken covers every verification failure. Expired and
	// tampered tokens are deliberately indistinguishable to callers.
	ErrInvalidToken = errors.New("token: token is not valid")
)

// UserClaim is the identity payload embedded in each token.
type UserClaim struct {
	ID uint64 `json:"id"`
}

// Claims is the full JWT claim set: a user identity plus the registered
// expiry and issue timestamps.
type Claims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// Service issues and verifies signed bearer tokens with a single
// process-wide symmetric secret, injected at construction.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token Service. ttl <= 0 falls back to DefaultTTL.
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token carrying the given user ID.
func (s *Service) Issue(userID uint64) (string, error) {
	now := time.Now()
	claims := &Claims{
		User: UserClaim{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded user ID.
// Any failure yields ErrInvalidToken.
func (s *Service) Verify(tokenStr string) (uint64, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.User.ID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.User.ID, nil
}
