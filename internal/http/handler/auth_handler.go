package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/schoolsuite/institute-admin-api/internal/http/middleware"
	"github.com/schoolsuite/institute-admin-api/internal/http/response"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
	"github.com/schoolsuite/institute-admin-api/internal/service"
)

type AuthHandler struct {
	auth     *service.AuthService
	resolver service.PermissionResolver
}

func NewAuthHandler(auth *service.AuthService, resolver service.PermissionResolver) *AuthHandler {
	return &AuthHandler{auth: auth, resolver: resolver}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	result, err := h.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials", nil)
		case errors.Is(err, service.ErrAccountDisabled):
			response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "account disabled", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "login failed", nil)
		}
		return
	}

	observability.Audit(r, "auth.login", "user_id", result.User.ID, "outcome", "success")
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	user, err := h.auth.Me(r.Context(), claims)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load user", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, user)
}

// MyPermissions returns the session's resolved codename set. Clients derive
// their capability map from this instead of re-deriving it per screen.
func (h *AuthHandler) MyPermissions(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	codenames, err := h.resolver.ResolvePermissions(r.Context(), claims)
	if err != nil {
		response.Error(w, r, http.StatusServiceUnavailable, "PERMISSIONS_UNAVAILABLE", "permission resolution unavailable", nil)
		return
	}
	if codenames == nil {
		codenames = []string{}
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"is_superadmin": claims.IsSuperAdmin,
		"permissions":   codenames,
	})
}
