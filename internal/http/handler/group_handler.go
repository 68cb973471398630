package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/http/response"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/service"
)

type GroupHandler struct {
	groups *service.GroupService
	perms  *service.PermissionService
}

func NewGroupHandler(groups *service.GroupService, perms *service.PermissionService) *GroupHandler {
	return &GroupHandler{groups: groups, perms: perms}
}

func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.List(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list groups", nil)
		return
	}
	if groups == nil {
		groups = []domain.Group{}
	}
	response.JSON(w, r, http.StatusOK, groups)
}

func (h *GroupHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid group id", nil)
		return
	}
	group, err := h.groups.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "group")
		return
	}
	response.JSON(w, r, http.StatusOK, group)
}

func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	group, err := h.groups.Create(r.Context(), body.Name)
	if err != nil {
		respondServiceError(w, r, err, "group")
		return
	}
	observability.Audit(r, "group.create", "target_id", group.ID, "outcome", "success")
	response.JSON(w, r, http.StatusCreated, group)
}

func (h *GroupHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid group id", nil)
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	group, err := h.groups.Rename(r.Context(), id, body.Name)
	if err != nil {
		respondServiceError(w, r, err, "group")
		return
	}
	observability.Audit(r, "group.rename", "target_id", id, "outcome", "success")
	response.JSON(w, r, http.StatusOK, group)
}

func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid group id", nil)
		return
	}
	if err := h.groups.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "group")
		return
	}
	observability.Audit(r, "group.delete", "target_id", id, "outcome", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

func (h *GroupHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid group id", nil)
		return
	}
	perms, err := h.groups.Permissions(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "group")
		return
	}
	if perms == nil {
		perms = []domain.Permission{}
	}
	response.JSON(w, r, http.StatusOK, perms)
}

func (h *GroupHandler) ReplacePermissions(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid group id", nil)
		return
	}
	var body struct {
		PermissionIDs []uint `json:"permission_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	perms, err := h.groups.ReplacePermissions(r.Context(), id, body.PermissionIDs)
	if err != nil {
		respondServiceError(w, r, err, "group")
		return
	}
	if perms == nil {
		perms = []domain.Permission{}
	}
	observability.Audit(r, "group.permissions.replace", "target_id", id, "count", len(perms), "outcome", "success")
	response.JSON(w, r, http.StatusOK, perms)
}

// ListPermissionCatalogue exposes every assignable permission, ordered by
// codename.
func (h *GroupHandler) ListPermissionCatalogue(w http.ResponseWriter, r *http.Request) {
	perms, err := h.perms.List(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list permissions", nil)
		return
	}
	if perms == nil {
		perms = []domain.Permission{}
	}
	response.JSON(w, r, http.StatusOK, perms)
}
