package rbac

// Role is a high-level permission grouping assigned to a user account.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleEditor      Role = "EDITOR"
	RoleContributor Role = "CONTRIBUTOR"
	RoleModerator   Role = "MODERATOR"
	RoleUser        Role = "USER"
)

// Permission is an atomic capability named as resource.action.
type Permission string

const (
	PermUsersRead   Permission = "users.read"
	PermUsersCreate Permission = "users.create"
	PermUsersUpdate Permission = "users.update"
	PermUsersDelete Permission = "users.delete"

	PermBlogRead    Permission = "blog.read"
	PermBlogCreate  Permission = "blog.create"
	PermBlogUpdate  Permission = "blog.update"
	PermBlogDelete  Permission = "blog.delete"
	PermBlogPublish Permission = "blog.publish"

	PermEventsRead   Permission = "events.read"
	PermEventsCreate Permission = "events.create"
	PermEventsUpdate Permission = "events.update"
	PermEventsDelete Permission = "events.delete"

	PermDonationsRead   Permission = "donations.read"
	PermDonationsCreate Permission = "donations.create"
	PermDonationsUpdate Permission = "donations.update"

	PermMediaRead   Permission = "media.read"
	PermMediaCreate Permission = "media.create"
	PermMediaUpdate Permission = "media.update"
	PermMediaDelete Permission = "media.delete"

	PermPagesRead    Permission = "pages.read"
	PermPagesCreate  Permission = "pages.create"
	PermPagesUpdate  Permission = "pages.update"
	PermPagesDelete  Permission = "pages.delete"
	PermPagesPublish Permission = "pages.publish"

	PermSettingsRead   Permission = "settings.read"
	PermSettingsUpdate Permission = "settings.update"
)

// AllRoles lists every role in the closed enumeration.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleEditor, RoleContributor, RoleModerator, RoleUser}
}

// AllPermissions lists every permission in the closed enumeration.
func AllPermissions() []Permission {
	return []Permission{
		PermUsersRead, PermUsersCreate, PermUsersUpdate, PermUsersDelete,
		PermBlogRead, PermBlogCreate, PermBlogUpdate, PermBlogDelete, PermBlogPublish,
		PermEventsRead, PermEventsCreate, PermEventsUpdate, PermEventsDelete,
		PermDonationsRead, PermDonationsCreate, PermDonationsUpdate,
		PermMediaRead, PermMediaCreate, PermMediaUpdate, PermMediaDelete,
		PermPagesRead, PermPagesCreate, PermPagesUpdate, PermPagesDelete, PermPagesPublish,
		PermSettingsRead, PermSettingsUpdate,
	}
}

// ValidRole reports whether the given value names a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleContributor, RoleModerator, RoleUser:
		return true
	}
	return false
}
