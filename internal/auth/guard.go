package auth

import (
	"fmt"
	"net/http"

	"github.com/nyasinga/aylfwebsite/internal/rbac"
	"github.com/nyasinga/aylfwebsite/internal/shared"
)

// RequireRole authenticates the request and checks role membership.
func (m Middleware) RequireRole(r *http.Request, roles []rbac.Role) (*Principal, error) {
	principal, err := m.PrincipalFromRequest(r)
	if err != nil {
		return nil, err
	}
	for _, role := range roles {
		if principal.Role == role {
			return principal, nil
		}
	}
	return nil, fmt.Errorf("%w: required roles: %s", shared.ErrForbidden, joinRoles(roles))
}

// RequirePermission authenticates the request and checks a single permission.
func (m Middleware) RequirePermission(r *http.Request, perm rbac.Permission) (*Principal, error) {
	principal, err := m.PrincipalFromRequest(r)
	if err != nil {
		return nil, err
	}
	if !rbac.HasPermission(principal.Role, perm) {
		return nil, fmt.Errorf("%w: required permission: %s", shared.ErrForbidden, perm)
	}
	return principal, nil
}

// RequireAnyPermission authenticates and checks for at least one permission.
func (m Middleware) RequireAnyPermission(r *http.Request, perms []rbac.Permission) (*Principal, error) {
	principal, err := m.PrincipalFromRequest(r)
	if err != nil {
		return nil, err
	}
	if !rbac.HasAnyPermission(principal.Role, perms) {
		return nil, fmt.Errorf("%w: required one of: %s", shared.ErrForbidden, joinPermissions(perms))
	}
	return principal, nil
}

func joinRoles(roles []rbac.Role) string {
	out := ""
	for i, role := range roles {
		if i > 0 {
			out += ", "
		}
		out += string(role)
	}
	return out
}

func joinPermissions(perms []rbac.Permission) string {
	out := ""
	for i, p := range perms {
		if i > 0 {
			out += ", "
		}
		out += string(p)
	}
	return out
}
