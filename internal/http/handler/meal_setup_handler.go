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

type MealSetupHandler struct {
	svc *service.MealSetupService
}

func NewMealSetupHandler(svc *service.MealSetupService) *MealSetupHandler {
	return &MealSetupHandler{svc: svc}
}

func (h *MealSetupHandler) List(w http.ResponseWriter, r *http.Request) {
	setups, err := h.svc.List(r.Context())
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list meal setups", nil)
		return
	}
	if setups == nil {
		setups = []domain.MealSetup{}
	}
	response.JSON(w, r, http.StatusOK, setups)
}

func (h *MealSetupHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid meal setup id", nil)
		return
	}
	setup, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "meal setup")
		return
	}
	response.JSON(w, r, http.StatusOK, setup)
}

func (h *MealSetupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.MealSetupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	setup, err := h.svc.Create(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err, "meal setup")
		return
	}
	observability.Audit(r, "mealsetup.create", "target_id", setup.ID, "outcome", "success")
	response.JSON(w, r, http.StatusCreated, setup)
}

func (h *MealSetupHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid meal setup id", nil)
		return
	}
	var in service.MealSetupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	setup, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		respondServiceError(w, r, err, "meal setup")
		return
	}
	observability.Audit(r, "mealsetup.update", "target_id", id, "outcome", "success")
	response.JSON(w, r, http.StatusOK, setup)
}

func (h *MealSetupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid meal setup id", nil)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "meal setup")
		return
	}
	observability.Audit(r, "mealsetup.delete", "target_id", id, "outcome", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}
