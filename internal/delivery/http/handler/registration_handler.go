package handler

import (
	"encoding/json"
	"net/http"

	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/domain/entity"
	"clinic-queue/internal/usecase"
	"clinic-queue/pkg/response"
	"clinic-queue/pkg/validator"
)

type RegistrationHandler struct {
	registrationUsecase usecase.RegistrationUsecase
	validator           *validator.CustomValidator
}

func NewRegistrationHandler(registrationUsecase usecase.RegistrationUsecase, validator *validator.CustomValidator) *RegistrationHandler {
	return &RegistrationHandler{
		registrationUsecase: registrationUsecase,
		validator:           validator,
	}
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.registrationUsecase.RegisterOrReissue(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to register patient")
		return
	}

	message := "Patient registered successfully"
	if result.Tag == string(entity.RegistrationReissue) {
		message = "Ticket reissued successfully"
	}
	response.Success(w, http.StatusCreated, message, result)
}
