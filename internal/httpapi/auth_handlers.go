package httpapi

import (
	"net/http"
	"time"

	"github.com/glzzd/orion/internal/auth"
)

type registerRequest struct {
	TenantID   string `json:"tenantId"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	FatherName string `json:"fatherName"`
	Gender     string `json:"gender"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type loginUserPayload struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	TenantID    string   `json:"tenantId,omitempty"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

type loginResponse struct {
	Token            string           `json:"token"`
	RefreshToken     string           `json:"refreshToken"`
	AccessExpiresAt  time.Time        `json:"accessExpiresAt"`
	RefreshExpiresAt time.Time        `json:"refreshExpiresAt"`
	User             loginUserPayload `json:"user"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	user, err := a.auth.Register(r.Context(), auth.RegisterInput{
		TenantID: req.TenantID,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		PersonalData: auth.PersonalData{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			FatherName: req.FatherName,
			Gender:     req.Gender,
		},
	})
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.audit(r, "auth.user.register", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	res, err := a.auth.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.audit(r, "auth.user.login", map[string]any{
		"user_id": res.User.ID,
	})
	writeJSON(w, http.StatusOK, loginResponse{
		Token:            res.Tokens.AccessToken,
		RefreshToken:     res.Tokens.RefreshToken,
		AccessExpiresAt:  res.Tokens.AccessExpiresAt,
		RefreshExpiresAt: res.Tokens.RefreshExpiresAt,
		User: loginUserPayload{
			ID:          res.User.ID,
			Username:    res.User.Username,
			Email:       res.User.Email,
			FirstName:   res.User.PersonalData.FirstName,
			LastName:    res.User.PersonalData.LastName,
			TenantID:    res.User.TenantID,
			Roles:       res.Principal.RoleNames,
			Permissions: res.Principal.PermissionList(),
		},
	})
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	pair, err := a.auth.Rotate(r.Context(), req.RefreshToken)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.auth.Logout(r.Context(), req.RefreshToken); err != nil {
		handleAuthError(w, r, err)
		return
	}
	a.audit(r, "auth.user.logout", nil)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"userId":       principal.UserID,
		"tenantId":     principal.TenantID,
		"roles":        principal.RoleNames,
		"permissions":  principal.PermissionList(),
		"isSuperAdmin": principal.IsSuperAdmin,
	})
}
