package httpapi

import (
	"net/http"
	"strings"

	"github.com/glzzd/orion/internal/auth"
	"github.com/glzzd/orion/internal/orgunit"
	"github.com/glzzd/orion/internal/rbac"
)

type createOrgUnitRequest struct {
	TenantID string `json:"tenantId"`
	orgunit.CreateInput
}

func (a *API) handleOrgUnits(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		tenantID := auth.ScopeTenant(principal, r.URL.Query().Get("tenantId"))
		units, err := a.units.List(r.Context(), tenantID)
		if err != nil {
			handleOrgUnitError(w, r, err)
			return
		}
		if units == nil {
			units = []orgunit.Unit{}
		}
		writeJSON(w, http.StatusOK, units)
	case http.MethodPost:
		principal, ok := a.ensurePermissions(w, r, rbac.PermManageOrganizations)
		if !ok {
			return
		}
		var req createOrgUnitRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		tenantID := auth.ScopeTenant(principal, req.TenantID)
		if tenantID == "" {
			writeError(w, r, http.StatusBadRequest, "tenantId is required")
			return
		}
		unit, err := a.units.Create(r.Context(), tenantID, req.CreateInput, principal.UserID)
		if err != nil {
			handleOrgUnitError(w, r, err)
			return
		}
		a.audit(r, "orgunit.create", map[string]any{
			"unit_id": unit.ID,
			"path":    unit.Path,
		})
		writeJSON(w, http.StatusCreated, unit)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleOrgUnitResource(w http.ResponseWriter, r *http.Request) {
	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/org-units/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		principal, ok := auth.PrincipalFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		tenantID := auth.ScopeTenant(principal, r.URL.Query().Get("tenantId"))
		if tenantID == "" {
			writeError(w, r, http.StatusBadRequest, "tenantId is required")
			return
		}
		unit, err := a.units.Get(r.Context(), tenantID, id)
		if err != nil {
			handleOrgUnitError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, unit)
	case http.MethodPut:
		principal, ok := a.ensurePermissions(w, r, rbac.PermManageOrganizations)
		if !ok {
			return
		}
		tenantID := auth.ScopeTenant(principal, r.URL.Query().Get("tenantId"))
		if tenantID == "" {
			writeError(w, r, http.StatusBadRequest, "tenantId is required")
			return
		}
		var req orgunit.UpdateInput
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		unit, err := a.units.Update(r.Context(), tenantID, id, req, principal.UserID)
		if err != nil {
			handleOrgUnitError(w, r, err)
			return
		}
		a.audit(r, "orgunit.update", map[string]any{
			"unit_id": unit.ID,
			"path":    unit.Path,
		})
		writeJSON(w, http.StatusOK, unit)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}
