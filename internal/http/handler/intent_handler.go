package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/http/middleware"
	"github.com/schoolsuite/institute-admin-api/internal/http/response"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/service"
)

type IntentHandler struct {
	intents *service.IntentService
}

func NewIntentHandler(intents *service.IntentService) *IntentHandler {
	return &IntentHandler{intents: intents}
}

// Raise stages a mutation. 202: nothing has been written yet.
func (h *IntentHandler) Raise(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var body struct {
		Resource string              `json:"resource"`
		Action   domain.IntentAction `json:"action"`
		TargetID uint                `json:"target_id"`
		Payload  json.RawMessage     `json:"payload"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}

	intent, err := h.intents.Raise(r.Context(), claims, service.RaiseIntentRequest{
		Resource: body.Resource,
		Action:   body.Action,
		TargetID: body.TargetID,
		Payload:  body.Payload,
	})
	if err != nil {
		respondIntentError(w, r, err)
		return
	}
	observability.Audit(r, "intent.raise", "intent_id", intent.ID, "resource", intent.Resource, "action", string(intent.Action))
	response.JSON(w, r, http.StatusAccepted, intent)
}

func (h *IntentHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	intent, err := h.intents.Get(r.Context(), claims, chi.URLParam(r, "id"))
	if err != nil {
		respondIntentError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, intent)
}

func (h *IntentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	result, err := h.intents.Confirm(r.Context(), claims, chi.URLParam(r, "id"))
	if err != nil {
		respondIntentError(w, r, err)
		return
	}
	observability.Audit(r, "intent.confirm",
		"intent_id", result.Intent.ID,
		"resource", result.Intent.Resource,
		"action", string(result.Intent.Action),
		"outcome", "success",
	)
	response.JSON(w, r, http.StatusOK, result)
}

func (h *IntentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	intent, err := h.intents.Cancel(r.Context(), claims, chi.URLParam(r, "id"))
	if err != nil {
		respondIntentError(w, r, err)
		return
	}
	observability.Audit(r, "intent.cancel", "intent_id", intent.ID, "resource", intent.Resource)
	response.JSON(w, r, http.StatusOK, intent)
}

func respondIntentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrIntentNotFound):
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "intent not found", nil)
	case errors.Is(err, service.ErrIntentNotPending):
		response.Error(w, r, http.StatusConflict, "CONFLICT", "intent is no longer pending", nil)
	case errors.Is(err, service.ErrIntentExpired):
		response.Error(w, r, http.StatusGone, "GONE", "intent has expired", nil)
	case errors.Is(err, service.ErrInvalidAction), errors.Is(err, service.ErrUnknownResource):
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, service.ErrCapabilityDenied):
		response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "capability denied", nil)
	case errors.Is(err, service.ErrPermissionResolver):
		response.Error(w, r, http.StatusServiceUnavailable, "PERMISSIONS_UNAVAILABLE", "permission resolution unavailable", nil)
	default:
		// Execution errors keep their service-level mapping so a confirmed
		// delete of a missing row still reads as 404.
		respondServiceError(w, r, err, "intent target")
	}
}
