package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nyasinga/aylfwebsite/internal/rbac"
)

// DefaultTokenTTL is the credential lifetime when none is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

const minSecretLen = 32

// ErrInvalidToken is returned by Verify for any credential that is
// malformed, tampered with, or expired.
var ErrInvalidToken = errors.New("invalid or expired token")

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies bearer credentials with a symmetric secret.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec constructs a codec. The secret must be at least 32 bytes;
// the process refuses to start otherwise.
func NewTokenCodec(secret string, ttl time.Duration) (*TokenCodec, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("auth: token secret must be at least %d bytes", minSecretLen)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs a credential for the principal, expiring after the codec TTL.
func (c *TokenCodec) Issue(p Principal) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: p.Email,
		Role:  string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	return token.SignedString(c.secret)
}

// Verify validates signature, structure and expiry, returning the
// embedded principal. All failures collapse into ErrInvalidToken.
func (c *TokenCodec) Verify(credential string) (*Principal, error) {
	parsed, err := jwt.ParseWithClaims(credential, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return principalFromClaims(parsed.Claims.(*claims))
}

// Decode parses a credential without verifying the signature. It is for
// non-trust-boundary inspection only and returns nil on malformed input.
func (c *TokenCodec) Decode(credential string) *Principal {
	parsed, _, err := jwt.NewParser().ParseUnverified(credential, &claims{})
	if err != nil {
		return nil
	}
	p, err := principalFromClaims(parsed.Claims.(*claims))
	if err != nil {
		return nil
	}
	return p
}

func principalFromClaims(cl *claims) (*Principal, error) {
	userID, err := uuid.Parse(cl.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	role := rbac.Role(cl.Role)
	if !rbac.ValidRole(role) {
		return nil, ErrInvalidToken
	}
	return &Principal{UserID: userID, Email: cl.Email, Role: role}, nil
}
