package auth

import (
	"errors"
	"net/http"

	"github.com/nyasinga/aylfwebsite/internal/platform/httpx"
	"github.com/nyasinga/aylfwebsite/internal/rbac"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// PrincipalHandler is a business handler that receives the authenticated
// principal alongside the request.
type PrincipalHandler func(w http.ResponseWriter, r *http.Request, principal *Principal)

// Policy restricts access to a wrapped handler. With neither Roles nor
// Permissions set only authentication is required. When both are set the
// role check wins and the permission list is ignored; first-match-wins is
// deliberate, not a union of the two.
type Policy struct {
	Roles       []rbac.Role
	Permissions []rbac.Permission
	MatchAny    bool
}

// Wrap composes authentication and authorization around a handler.
// Authentication failures respond 401, authorization failures 403; on
// success the handler runs with the principal, which is also placed in
// the request context.
func (m Middleware) Wrap(policy Policy, next PrincipalHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			principal *Principal
			err       error
		)
		switch {
		case len(policy.Roles) > 0:
			principal, err = m.RequireRole(r, policy.Roles)
		case len(policy.Permissions) > 0:
			if policy.MatchAny {
				principal, err = m.RequireAnyPermission(r, policy.Permissions)
			} else {
				principal, err = m.RequirePermission(r, policy.Permissions[0])
			}
		default:
			principal, err = m.PrincipalFromRequest(r)
		}
		if err != nil {
			if errors.Is(err, shared.ErrForbidden) {
				httpx.Error(w, http.StatusForbidden, err.Error())
				return
			}
			httpx.Error(w, http.StatusUnauthorized, err.Error())
			return
		}
		next(w, r.WithContext(ContextWithPrincipal(r.Context(), principal)), principal)
	}
}

// RequireAuth wraps a handler with authentication only.
func (m Middleware) RequireAuth(next PrincipalHandler) http.HandlerFunc {
	return m.Wrap(Policy{}, next)
}
