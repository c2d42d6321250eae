package httpapi

import (
	"net/http"
	"strings"

	"github.com/glzzd/orion/internal/rbac"
	"github.com/glzzd/orion/internal/tenant"
)

type createOrganizationRequest struct {
	Code     string          `json:"code"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Profile  tenant.Profile  `json:"profile"`
	Features map[string]bool `json:"features"`
}

type updateOrganizationRequest struct {
	Name     *string         `json:"name"`
	Type     *string         `json:"type"`
	Status   *string         `json:"status"`
	Profile  *tenant.Profile `json:"profile"`
	Features map[string]bool `json:"features"`
}

func (a *API) handleOrganizations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		principal, ok := a.ensurePermissions(w, r, rbac.PermManageOrganizations)
		if !ok {
			return
		}
		if !principal.IsSuperAdmin {
			// Tenant admins see their own organization only.
			t, err := a.tenants.Get(r.Context(), principal.TenantID)
			if err != nil {
				handleTenantError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, []tenant.Tenant{t})
			return
		}
		tenants, err := a.tenants.List(r.Context())
		if err != nil {
			handleTenantError(w, r, err)
			return
		}
		if tenants == nil {
			tenants = []tenant.Tenant{}
		}
		writeJSON(w, http.StatusOK, tenants)
	case http.MethodPost:
		principal, ok := a.ensurePermissions(w, r, rbac.PermManageOrganizations)
		if !ok {
			return
		}
		// Creating an organization is a cross-tenant act.
		if !principal.IsSuperAdmin {
			writeError(w, r, http.StatusForbidden, "insufficient permissions")
			return
		}
		var req createOrganizationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		t, err := a.tenants.Create(r.Context(), req.Code, req.Name, req.Type, req.Profile, req.Features)
		if err != nil {
			handleTenantError(w, r, err)
			return
		}
		a.audit(r, "organization.create", map[string]any{
			"organization_id": t.ID,
			"code":            t.Code,
		})
		writeJSON(w, http.StatusCreated, t)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleOrganizationResource(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/organizations/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		principal, ok := a.ensurePermissions(w, r, rbac.PermManageOrganizations)
		if !ok {
			return
		}
		if !principal.IsSuperAdmin && id != principal.TenantID {
			writeError(w, r, http.StatusNotFound, tenant.ErrNotFound.Error())
			return
		}
		t, err := a.tenants.Get(r.Context(), id)
		if err != nil {
			handleTenantError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, t)
	case http.MethodPut:
		principal, ok := a.ensurePermissions(w, r, rbac.PermManageOrganizations)
		if !ok {
			return
		}
		if !principal.IsSuperAdmin && id != principal.TenantID {
			writeError(w, r, http.StatusNotFound, tenant.ErrNotFound.Error())
			return
		}
		var req updateOrganizationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		t, err := a.tenants.Update(r.Context(), id, tenant.Update{
			Name:     req.Name,
			Type:     req.Type,
			Status:   req.Status,
			Profile:  req.Profile,
			Features: req.Features,
		})
		if err != nil {
			handleTenantError(w, r, err)
			return
		}
		a.audit(r, "organization.update", map[string]any{
			"organization_id": t.ID,
		})
		writeJSON(w, http.StatusOK, t)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}
