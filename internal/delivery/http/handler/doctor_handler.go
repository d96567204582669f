package handler

import (
	"encoding/json"
	"net/http"

	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/usecase"
	"clinic-queue/pkg/response"
	"clinic-queue/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.doctorUsecase.GetStatus(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get status")
		return
	}

	response.Success(w, http.StatusOK, "Status retrieved successfully", status)
}

func (h *DoctorHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDoctorStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	status, err := h.doctorUsecase.UpdateStatus(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to update status")
		return
	}

	response.Success(w, http.StatusOK, "Status updated successfully", status)
}

func (h *DoctorHandler) ListQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.doctorUsecase.ListOwnQueue(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get queue")
		return
	}

	response.Success(w, http.StatusOK, "Queue retrieved successfully", queue)
}
