// Package rbac defines the static role/permission policy table.
//
// The table is fixed at build time. There is no dynamic policy
// administration; changing a role's grants means editing this file.
package rbac

import "fmt"

// rolePermissions maps each role to the permissions it grants.
var rolePermissions = map[Role][]Permission{
	// Full access to everything.
	RoleAdmin: {
		PermUsersRead, PermUsersCreate, PermUsersUpdate, PermUsersDelete,
		PermBlogRead, PermBlogCreate, PermBlogUpdate, PermBlogDelete, PermBlogPublish,
		PermEventsRead, PermEventsCreate, PermEventsUpdate, PermEventsDelete,
		PermDonationsRead, PermDonationsCreate, PermDonationsUpdate,
		PermMediaRead, PermMediaCreate, PermMediaUpdate, PermMediaDelete,
		PermPagesRead, PermPagesCreate, PermPagesUpdate, PermPagesDelete, PermPagesPublish,
		PermSettingsRead, PermSettingsUpdate,
	},
	// Creates, edits and publishes content.
	RoleEditor: {
		PermBlogRead, PermBlogCreate, PermBlogUpdate, PermBlogPublish,
		PermEventsRead, PermEventsCreate, PermEventsUpdate,
		PermPagesRead, PermPagesCreate, PermPagesUpdate, PermPagesPublish,
		PermMediaRead, PermMediaCreate, PermMediaUpdate,
		PermDonationsRead,
	},
	// Creates and edits own content but cannot publish.
	RoleContributor: {
		PermBlogRead, PermBlogCreate, PermBlogUpdate,
		PermEventsRead, PermEventsCreate, PermEventsUpdate,
		PermPagesRead, PermPagesCreate, PermPagesUpdate,
		PermMediaRead, PermMediaCreate, PermMediaUpdate,
		PermDonationsRead,
	},
	// Moderates existing content.
	RoleModerator: {
		PermBlogRead, PermBlogUpdate, PermBlogPublish,
		PermEventsRead, PermEventsUpdate,
		PermPagesRead, PermPagesUpdate, PermPagesPublish,
		PermMediaRead,
		PermDonationsRead,
	},
	// Read-only access.
	RoleUser: {
		PermBlogRead, PermEventsRead, PermPagesRead, PermMediaRead,
	},
}

var permissionSets = buildSets()

func buildSets() map[Role]map[Permission]struct{} {
	sets := make(map[Role]map[Permission]struct{}, len(rolePermissions))
	for role, perms := range rolePermissions {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		sets[role] = set
	}
	return sets
}

// HasPermission reports whether the role grants the permission.
// Unknown roles grant nothing.
func HasPermission(role Role, perm Permission) bool {
	_, ok := permissionSets[role][perm]
	return ok
}

// HasAnyPermission reports whether the role grants at least one of perms.
func HasAnyPermission(role Role, perms []Permission) bool {
	for _, p := range perms {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role grants every one of perms.
func HasAllPermissions(role Role, perms []Permission) bool {
	for _, p := range perms {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// PermissionsFor returns a copy of the role's permission set.
// Unknown roles yield an empty slice, never an error.
func PermissionsFor(role Role) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// VerifyTable checks the table invariants: every role maps onto known
// permissions only, and ADMIN's set is a superset of every other role's.
// Called once at process start so drift between the enumerations and the
// table fails fast instead of silently granting or withholding access.
func VerifyTable() error {
	known := make(map[Permission]struct{})
	for _, p := range AllPermissions() {
		known[p] = struct{}{}
	}
	for role, perms := range rolePermissions {
		if !ValidRole(role) {
			return fmt.Errorf("rbac: table entry for unknown role %q", role)
		}
		for _, p := range perms {
			if _, ok := known[p]; !ok {
				return fmt.Errorf("rbac: role %s grants unknown permission %q", role, p)
			}
		}
	}
	for role := range rolePermissions {
		if role == RoleAdmin {
			continue
		}
		for _, p := range rolePermissions[role] {
			if !HasPermission(RoleAdmin, p) {
				return fmt.Errorf("rbac: ADMIN missing %q granted to %s", p, role)
			}
		}
	}
	return nil
}
