package auth

// ScopeTenant computes the tenant id a handler must apply to a data
// operation. Non-super-admins are always pinned to their own tenant; a
// requested override is ignored outright. Super-admins get the requested
// tenant verbatim, where empty means "no tenant filter".
//
// Every tenant-scoped read and write goes through this single choke point.
func ScopeTenant(p Principal, requested string) string {
	if !p.IsSuperAdmin {
		return p.TenantID
	}
	return requested
}
