package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/schoolsuite/institute-admin-api/internal/domain"
	"github.com/schoolsuite/institute-admin-api/internal/http/response"
	"github.com/schoolsuite/institute-admin-api/internal/observability"
	"github.com/schoolsuite/institute-admin-api/internal/repository"
	"github.com/schoolsuite/institute-admin-api/internal/service"
)

// staffPage is the paginated envelope of the staff directory: results plus
// absolute next/previous URLs, or null when the edge is reached.
type staffPage struct {
	Results  []domain.Staff `json:"results"`
	Count    int64          `json:"count"`
	Next     *string        `json:"next"`
	Previous *string        `json:"previous"`
}

type StaffHandler struct {
	svc     *service.StaffService
	storage service.StorageService
}

func NewStaffHandler(svc *service.StaffService, storage service.StorageService) *StaffHandler {
	return &StaffHandler{svc: svc, storage: storage}
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		return
	}
	q := r.URL.Query()
	filter := repository.StaffFilter{
		Name:        q.Get("name"),
		UserID:      q.Get("user_id"),
		PhoneNumber: q.Get("phone_number"),
		Email:       q.Get("email"),
		Designation: q.Get("designation"),
	}

	result, err := h.svc.ListPaged(r.Context(), filter, pageReq)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list staff", nil)
		return
	}
	if result.Items == nil {
		result.Items = []domain.Staff{}
	}
	response.JSON(w, r, http.StatusOK, staffPage{
		Results:  result.Items,
		Count:    result.Total,
		Next:     pageURL(r, result.Page+1, result.PageSize, result.Page < result.TotalPages),
		Previous: pageURL(r, result.Page-1, result.PageSize, result.Page > 1),
	})
}

func (h *StaffHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid staff id", nil)
		return
	}
	staff, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "staff")
		return
	}
	response.JSON(w, r, http.StatusOK, staff)
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var staff domain.Staff
	if err := json.NewDecoder(r.Body).Decode(&staff); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	created, err := h.svc.Create(r.Context(), &staff)
	if err != nil {
		respondServiceError(w, r, err, "staff")
		return
	}
	observability.Audit(r, "staff.create", "target_id", created.ID, "outcome", "success")
	response.JSON(w, r, http.StatusCreated, created)
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid staff id", nil)
		return
	}
	var staff domain.Staff
	if err := json.NewDecoder(r.Body).Decode(&staff); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	updated, err := h.svc.Update(r.Context(), id, &staff)
	if err != nil {
		respondServiceError(w, r, err, "staff")
		return
	}
	observability.Audit(r, "staff.update", "target_id", id, "outcome", "success")
	response.JSON(w, r, http.StatusOK, updated)
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid staff id", nil)
		return
	}
	staff, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "staff")
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		respondServiceError(w, r, err, "staff")
		return
	}
	if h.storage != nil && staff.PhotoKey != "" {
		_ = h.storage.DeleteStaffPhoto(r.Context(), id, staff.PhotoKey)
	}
	observability.Audit(r, "staff.delete", "target_id", id, "outcome", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": true})
}

func (h *StaffHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid staff id", nil)
		return
	}
	if h.storage == nil {
		response.Error(w, r, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "photo storage not configured", nil)
		return
	}
	staff, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "staff")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "missing photo file", nil)
		return
	}
	defer file.Close()

	objectKey, err := h.storage.UploadStaffPhoto(r.Context(), id, file, header.Size)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooBig), errors.Is(err, service.ErrInvalidFileType):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "photo upload failed", nil)
		}
		return
	}

	updated, err := h.svc.SetPhotoKey(r.Context(), id, objectKey)
	if err != nil {
		_ = h.storage.DeleteStaffPhoto(r.Context(), id, objectKey)
		respondServiceError(w, r, err, "staff")
		return
	}
	if staff.PhotoKey != "" && staff.PhotoKey != objectKey {
		_ = h.storage.DeleteStaffPhoto(r.Context(), id, staff.PhotoKey)
	}
	observability.Audit(r, "staff.photo.upload", "target_id", id, "outcome", "success")
	response.JSON(w, r, http.StatusOK, updated)
}

func (h *StaffHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid staff id", nil)
		return
	}
	if h.storage == nil {
		response.Error(w, r, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "photo storage not configured", nil)
		return
	}
	staff, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "staff")
		return
	}
	if staff.PhotoKey != "" {
		if err := h.storage.DeleteStaffPhoto(r.Context(), id, staff.PhotoKey); err != nil {
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "photo delete failed", nil)
			return
		}
	}
	updated, err := h.svc.SetPhotoKey(r.Context(), id, "")
	if err != nil {
		respondServiceError(w, r, err, "staff")
		return
	}
	observability.Audit(r, "staff.photo.delete", "target_id", id, "outcome", "success")
	response.JSON(w, r, http.StatusOK, updated)
}

// PhotoURL returns a short-lived presigned URL for the staff photo.
func (h *StaffHandler) PhotoURL(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid staff id", nil)
		return
	}
	if h.storage == nil {
		response.Error(w, r, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "photo storage not configured", nil)
		return
	}
	staff, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, "staff")
		return
	}
	if staff.PhotoKey == "" {
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "staff has no photo", nil)
		return
	}
	photoURL, err := h.storage.StaffPhotoURL(r.Context(), staff.PhotoKey)
	if err != nil {
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to generate photo url", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"url": photoURL})
}

func parsePageRequest(r *http.Request) (repository.PageRequest, error) {
	page := repository.DefaultPage
	pageSize := repository.DefaultPageSize
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return repository.PageRequest{}, errors.New("page must be a positive integer")
		}
		page = v
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("page_size")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return repository.PageRequest{}, errors.New("page_size must be a positive integer")
		}
		if v > repository.MaxPageSize {
			return repository.PageRequest{}, fmt.Errorf("page_size must be <= %d", repository.MaxPageSize)
		}
		pageSize = v
	}
	return repository.PageRequest{Page: page, PageSize: pageSize}, nil
}

// pageURL rebuilds the request URL with the given page number, preserving
// filters. Returns nil when there is no such page.
func pageURL(r *http.Request, page, pageSize int, exists bool) *string {
	if !exists {
		return nil
	}
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	abs := url.URL{Scheme: scheme, Host: r.Host, Path: u.Path, RawQuery: u.RawQuery}
	s := abs.String()
	return &s
}
