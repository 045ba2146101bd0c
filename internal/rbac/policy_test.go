package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, PermUsersDelete))
	assert.True(t, HasPermission(RoleEditor, PermBlogPublish))
	assert.False(t, HasPermission(RoleContributor, PermBlogPublish))
	assert.True(t, HasPermission(RoleModerator, PermBlogPublish))
	assert.False(t, HasPermission(RoleModerator, PermBlogCreate))
	assert.True(t, HasPermission(RoleUser, PermBlogRead))
	assert.False(t, HasPermission(RoleUser, PermBlogCreate))
}

func TestHasPermissionUnknownRole(t *testing.T) {
	assert.False(t, HasPermission(Role("SUPERVISOR"), PermBlogRead))
	assert.Empty(t, PermissionsFor(Role("SUPERVISOR")))
}

func TestHasPermissionDeterministic(t *testing.T) {
	// Membership in the static table is the whole contract.
	for _, role := range AllRoles() {
		granted := make(map[Permission]struct{})
		for _, p := range PermissionsFor(role) {
			granted[p] = struct{}{}
		}
		for _, p := range AllPermissions() {
			_, want := granted[p]
			assert.Equal(t, want, HasPermission(role, p), "role=%s perm=%s", role, p)
		}
	}
}

func TestHasAnyAllPermissions(t *testing.T) {
	perms := []Permission{PermBlogPublish, PermBlogRead}
	assert.True(t, HasAnyPermission(RoleUser, perms))
	assert.False(t, HasAllPermissions(RoleUser, perms))
	assert.True(t, HasAllPermissions(RoleEditor, perms))
	assert.False(t, HasAnyPermission(RoleUser, nil))
	assert.True(t, HasAllPermissions(RoleUser, nil))
}

func TestAdminSupersetInvariant(t *testing.T) {
	require.NoError(t, VerifyTable())

	// Spot check: the USER read set is contained in ADMIN's grants.
	for _, p := range PermissionsFor(RoleUser) {
		assert.True(t, HasPermission(RoleAdmin, p), "ADMIN should grant %s", p)
	}
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	perms := PermissionsFor(RoleUser)
	require.NotEmpty(t, perms)
	perms[0] = Permission("blog.mutated")
	assert.NotContains(t, PermissionsFor(RoleUser), Permission("blog.mutated"))
}
