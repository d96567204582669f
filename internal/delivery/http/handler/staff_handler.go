package handler

import (
	"encoding/json"
	"net/http"

	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/usecase"
	"clinic-queue/pkg/response"
	"clinic-queue/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type StaffHandler struct {
	staffUsecase usecase.StaffUsecase
	validator    *validator.CustomValidator
}

func NewStaffHandler(staffUsecase usecase.StaffUsecase, validator *validator.CustomValidator) *StaffHandler {
	return &StaffHandler{
		staffUsecase: staffUsecase,
		validator:    validator,
	}
}

func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	staff, err := h.staffUsecase.CreateStaff(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create staff")
		return
	}

	response.Success(w, http.StatusCreated, "Staff created successfully", staff)
}

func (h *StaffHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staffUsecase.ListStaff(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, err, "Failed to get staff")
		return
	}

	response.Success(w, http.StatusOK, "Staff retrieved successfully", staff)
}

func (h *StaffHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	staffID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid staff ID", nil)
		return
	}

	var req dto.SetStaffActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	staff, err := h.staffUsecase.SetActive(r.Context(), staffID, *req.IsActive)
	if err != nil {
		writeError(w, err, "Failed to update staff")
		return
	}

	response.Success(w, http.StatusOK, "Staff updated successfully", staff)
}
