package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nyasinga/aylfwebsite/internal/shared"
)

const bearerPrefix = "Bearer "

// Middleware extracts and checks principals on incoming requests.
type Middleware struct {
	Codec  *TokenCodec
	Logger *slog.Logger
}

// bearerToken pulls the credential out of the Authorization header.
// Empty result means no bearer credential was presented.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, bearerPrefix)
}

// PrincipalFromRequest authenticates the request, failing with an error
// wrapping shared.ErrUnauthenticated when no valid credential is present.
func (m Middleware) PrincipalFromRequest(r *http.Request) (*Principal, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, shared.ErrUnauthenticated
	}
	principal, err := m.Codec.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnauthenticated, ErrInvalidToken)
	}
	return principal, nil
}

// OptionalPrincipal returns the authenticated principal or nil, for
// endpoints with mixed public/authenticated behavior.
func (m Middleware) OptionalPrincipal(r *http.Request) *Principal {
	principal, err := m.PrincipalFromRequest(r)
	if err != nil {
		return nil
	}
	return principal
}
