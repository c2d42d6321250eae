package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/glzzd/orion/internal/auth"
	"github.com/glzzd/orion/internal/obs"
	"github.com/glzzd/orion/internal/orgunit"
	"github.com/glzzd/orion/internal/rbac"
	"github.com/glzzd/orion/internal/tenant"
)

// ReadyProbe reports whether the API's dependencies are reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer over the domain services.
type API struct {
	mux     *http.ServeMux
	log     *zap.Logger
	auth    *auth.Service
	rbac    *rbac.Service
	tenants *tenant.Service
	units   *orgunit.Service
	ready   ReadyProbe
	version string
}

// Config carries everything New needs to assemble the API.
type Config struct {
	Auth    *auth.Service
	RBAC    *rbac.Service
	Tenants *tenant.Service
	Units   *orgunit.Service
	Ready   ReadyProbe
	Log     *zap.Logger
	Version string
}

func New(cfg Config) *API {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	a := &API{
		mux:     http.NewServeMux(),
		log:     log,
		auth:    cfg.Auth,
		rbac:    cfg.RBAC,
		tenants: cfg.Tenants,
		units:   cfg.Units,
		ready:   cfg.Ready,
		version: cfg.Version,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())
	a.mux.HandleFunc("/api/info", a.Info)

	a.mux.HandleFunc("/api/register", a.handleRegister)
	a.mux.HandleFunc("/api/login", a.handleLogin)
	a.mux.HandleFunc("/api/refresh", a.handleRefresh)
	a.mux.HandleFunc("/api/logout", a.handleLogout)
	a.mux.HandleFunc("/api/me", a.handleMe)

	a.mux.HandleFunc("/api/rbac/permissions", a.handlePermissions)
	a.mux.HandleFunc("/api/rbac/roles", a.handleRoles)
	a.mux.HandleFunc("/api/rbac/roles/", a.handleRoleResource)
	a.mux.HandleFunc("/api/rbac/users/assign-role", a.handleAssignRole)
	a.mux.HandleFunc("/api/rbac/users/remove-role", a.handleRemoveRole)

	a.mux.HandleFunc("/api/organizations", a.handleOrganizations)
	a.mux.HandleFunc("/api/organizations/", a.handleOrganizationResource)

	a.mux.HandleFunc("/api/org-units", a.handleOrgUnits)
	a.mux.HandleFunc("/api/org-units/", a.handleOrgUnitResource)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped handler chain.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = obs.Instrument(h)
	h = Logging(a.log, h)
	h = RequestID(h)
	return h
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "orion-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.ready.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

// Info reports service identity for probes and debugging.
func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "orion-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}
