package rbac

// Permission slugs checked by the HTTP layer.
const (
	PermAdminRead           = "admin:read"
	PermManageUsers         = "admin:users"
	PermManageRoles         = "admin:roles"
	PermManageOrganizations = "admin:organizations"
	PermDashboardRead       = "dashboard:read"
	PermHRRead              = "hr:read"
)

// BuiltinPermissions is the catalog provisioned by the seed step.
var BuiltinPermissions = []Permission{
	{Slug: PermDashboardRead, Name: "View dashboard", Group: "Dashboard"},
	{Slug: PermHRRead, Name: "View HR records", Group: "HR"},
	{Slug: PermAdminRead, Name: "View admin panel", Group: "Admin"},
	{Slug: PermManageUsers, Name: "Manage users", Group: "Admin"},
	{Slug: PermManageRoles, Name: "Manage roles and permissions", Group: "Admin"},
	{Slug: PermManageOrganizations, Name: "Manage organizations", Group: "Admin"},
}
