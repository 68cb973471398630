package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/schoolsuite/institute-admin-api/internal/http/response"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
	"github.com/schoolsuite/institute-admin-api/internal/service"
)

// ResourceHandler is the HTTP face of one generic resource service. One
// instance per catalogue entity, all sharing the same route shape.
type ResourceHandler[T any] struct {
	svc   *service.ResourceService[T]
	label string
}

func NewResourceHandler[T any](svc *service.ResourceService[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{svc: svc, label: svc.Tag()}
}

// List returns the full collection as a bare JSON array.
func (h *ResourceHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", fmt.Sprintf("failed to list %s", h.label), nil)
		return
	}
	if items == nil {
		items = []T{}
	}
	response.JSON(w, r, http.StatusOK, items)
}

func (h *ResourceHandler[T]) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	entity, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, h.label)
		return
	}
	response.JSON(w, r, http.StatusOK, entity)
}

func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var entity T
	if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	created, err := h.svc.Create(r.Context(), &entity)
	if err != nil {
		respondServiceError(w, r, err, h.label)
		return
	}
	observability.Audit(r, h.label+".create", "outcome", "success")
	response.JSON(w, r, http.StatusCreated, created)
}

func (h *ResourceHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	var entity T
	if err := json.NewDecoder(r.Body).Decode(&entity); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	updated, err := h.svc.Update(r.Context(), id, &entity)
	if err != nil {
		respondServiceError(w, r, err, h.label)
		return
	}
	observability.Audit(r, h.label+".update", "target_id", id, "outcome", "success")
	response.JSON(w, r, http.StatusOK, updated)
}

func (h *ResourceHandler[T]) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	var updates map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	updated, err := h.svc.Patch(r.Context(), id, updates)
	if err != nil {
		respondServiceError(w, r, err, h.label)
		return
	}
	observability.Audit(r, h.label+".patch", "target_id", id, "outcome", "success")
	response.JSON(w, r, http.StatusOK, updated)
}

func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err, h.label)
		return
	}
	observability.Audit(r, h.label+".delete", "target_id", id, "outcome", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

func (h *ResourceHandler[T]) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid id", nil)
		return
	}
	updated, err := h.svc.Toggle(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, h.label)
		return
	}
	observability.Audit(r, h.label+".toggle", "target_id", id, "outcome", "success")
	response.JSON(w, r, http.StatusOK, updated)
}

func respondServiceError(w http.ResponseWriter, r *http.Request, err error, label string) {
	switch {
	case errors.Is(err, repository.ErrRecordNotFound),
		errors.Is(err, repository.ErrGroupNotFound),
		errors.Is(err, repository.ErrMealSetupNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", label+" not found", nil)
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrGroupNameTaken):
		response.Error(w, r, http.StatusConflict, "CONFLICT", err.Error(), nil)
	case errors.Is(err, service.ErrNameRequired),
		errors.Is(err, service.ErrNameTooLong),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMissingParent),
		errors.Is(err, service.ErrInvalidDates),
		errors.Is(err, service.ErrNoUpdates),
		errors.Is(err, service.ErrNotToggleable),
		errors.Is(err, service.ErrFieldNotPatchable),
		errors.Is(err, service.ErrInvalidWeekday),
		errors.Is(err, service.ErrMissingMealName),
		errors.Is(err, service.ErrBadPayload):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case isConflictError(err):
		response.Error(w, r, http.StatusConflict, "CONFLICT", label+" already exists", nil)
	default:
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "operation failed", map[string]string{"cause": err.Error()})
	}
}

func parsePathID(input string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

func isConflictError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
