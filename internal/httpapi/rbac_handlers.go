package httpapi

import (
	"net/http"
	"strings"

	"github.com/glzzd/orion/internal/auth"
	"github.com/glzzd/orion/internal/rbac"
)

type createPermissionRequest struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Group       string `json:"group"`
	Description string `json:"description"`
}

type createRoleRequest struct {
	TenantID    string   `json:"tenantId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type updateRolePermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

type roleAssignmentRequest struct {
	UserID string `json:"userId"`
	RoleID string `json:"roleId"`
}

func (a *API) handlePermissions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := a.ensurePermissions(w, r, rbac.PermManageRoles); !ok {
			return
		}
		perms, err := a.rbac.ListPermissions(r.Context())
		if err != nil {
			handleRBACError(w, r, err)
			return
		}
		if perms == nil {
			perms = []rbac.Permission{}
		}
		writeJSON(w, http.StatusOK, perms)
	case http.MethodPost:
		if _, ok := a.ensurePermissions(w, r, rbac.PermManageRoles); !ok {
			return
		}
		var req createPermissionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		perm, err := a.rbac.CreatePermission(r.Context(), req.Slug, req.Name, req.Group, req.Description)
		if err != nil {
			handleRBACError(w, r, err)
			return
		}
		a.audit(r, "rbac.permission.create", map[string]any{"slug": perm.Slug})
		writeJSON(w, http.StatusCreated, perm)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleRoles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		principal, ok := a.ensurePermissions(w, r, rbac.PermManageRoles)
		if !ok {
			return
		}
		tenantID := auth.ScopeTenant(principal, r.URL.Query().Get("tenantId"))
		roles, err := a.rbac.ListRoles(r.Context(), tenantID)
		if err != nil {
			handleRBACError(w, r, err)
			return
		}
		if roles == nil {
			roles = []rbac.Role{}
		}
		writeJSON(w, http.StatusOK, roles)
	case http.MethodPost:
		principal, ok := a.ensurePermissions(w, r, rbac.PermManageRoles)
		if !ok {
			return
		}
		var req createRoleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		tenantID := auth.ScopeTenant(principal, req.TenantID)
		role, err := a.rbac.CreateRole(r.Context(), tenantID, req.Name, req.Description, req.Permissions)
		if err != nil {
			handleRBACError(w, r, err)
			return
		}
		a.audit(r, "rbac.role.create", map[string]any{
			"role_id": role.ID,
			"name":    role.Name,
		})
		writeJSON(w, http.StatusCreated, role)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleRoleResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/rbac/roles/"), "/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1:
		a.getRole(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "permissions":
		a.replaceRolePermissions(w, r, parts[0])
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) getRole(w http.ResponseWriter, r *http.Request, roleID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	principal, ok := a.ensurePermissions(w, r, rbac.PermManageRoles)
	if !ok {
		return
	}
	role, err := a.rbac.GetRole(r.Context(), roleID)
	if err != nil {
		handleRBACError(w, r, err)
		return
	}
	// A role of another tenant is indistinguishable from a missing one.
	if !principal.IsSuperAdmin && role.TenantID != principal.TenantID {
		writeError(w, r, http.StatusNotFound, rbac.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, role)
}

func (a *API) replaceRolePermissions(w http.ResponseWriter, r *http.Request, roleID string) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	principal, ok := a.ensurePermissions(w, r, rbac.PermManageRoles)
	if !ok {
		return
	}
	existing, err := a.rbac.GetRole(r.Context(), roleID)
	if err != nil {
		handleRBACError(w, r, err)
		return
	}
	if !principal.IsSuperAdmin && existing.TenantID != principal.TenantID {
		writeError(w, r, http.StatusNotFound, rbac.ErrNotFound.Error())
		return
	}
	var req updateRolePermissionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	role, err := a.rbac.ReplaceRolePermissions(r.Context(), roleID, req.Permissions)
	if err != nil {
		handleRBACError(w, r, err)
		return
	}
	a.audit(r, "rbac.role.permissions.replace", map[string]any{
		"role_id": roleID,
		"count":   len(role.Permissions),
	})
	writeJSON(w, http.StatusOK, role)
}

func (a *API) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	principal, ok := a.ensurePermissions(w, r, rbac.PermManageUsers)
	if !ok {
		return
	}
	var req roleAssignmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	assignment, err := a.rbac.AssignRole(r.Context(), req.UserID, req.RoleID, principal.UserID)
	if err != nil {
		handleRBACError(w, r, err)
		return
	}
	a.audit(r, "rbac.user.assign_role", map[string]any{
		"target_user_id": req.UserID,
		"role_id":        req.RoleID,
	})
	writeJSON(w, http.StatusCreated, assignment)
}

func (a *API) handleRemoveRole(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, ok := a.ensurePermissions(w, r, rbac.PermManageUsers); !ok {
		return
	}
	var req roleAssignmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.rbac.RemoveRole(r.Context(), req.UserID, req.RoleID); err != nil {
		handleRBACError(w, r, err)
		return
	}
	a.audit(r, "rbac.user.remove_role", map[string]any{
		"target_user_id": req.UserID,
		"role_id":        req.RoleID,
	})
	w.WriteHeader(http.StatusNoContent)
}
