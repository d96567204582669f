package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-queue/internal/delivery/dto"
	"clinic-queue/internal/usecase"
	"clinic-queue/pkg/response"
	"clinic-queue/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ReceptionHandler struct {
	receptionUsecase usecase.ReceptionUsecase
	validator        *validator.CustomValidator
}

func NewReceptionHandler(receptionUsecase usecase.ReceptionUsecase, validator *validator.CustomValidator) *ReceptionHandler {
	return &ReceptionHandler{
		receptionUsecase: receptionUsecase,
		validator:        validator,
	}
}

func (h *ReceptionHandler) ListQueue(w http.ResponseWriter, r *http.Request) {
	var doctorID *uuid.UUID
	if raw := r.URL.Query().Get("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
			return
		}
		doctorID = &id
	}

	queue, err := h.receptionUsecase.ListQueue(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get queue")
		return
	}

	response.Success(w, http.StatusOK, "Queue retrieved successfully", queue)
}

func (h *ReceptionHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.receptionUsecase.ListDoctors(r.Context())
	if err != nil {
		writeError(w, err, "Failed to get doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

func (h *ReceptionHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	result, err := h.receptionUsecase.Lookup(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err, "Failed to look up code")
		return
	}

	response.Success(w, http.StatusOK, "Code resolved successfully", result)
}

func (h *ReceptionHandler) RemovePatient(w http.ResponseWriter, r *http.Request) {
	patientID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid patient ID", nil)
		return
	}

	result, err := h.receptionUsecase.RemovePatient(r.Context(), patientID)
	if err != nil {
		writeError(w, err, "Failed to remove patient from queue")
		return
	}

	response.Success(w, http.StatusOK, "Patient removed from queue", result)
}

func (h *ReceptionHandler) CompleteTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	ticket, err := h.receptionUsecase.CompleteTicket(r.Context(), ticketID)
	if err != nil {
		writeError(w, err, "Failed to complete ticket")
		return
	}

	response.Success(w, http.StatusOK, "Ticket completed successfully", ticket)
}

func (h *ReceptionHandler) CallTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid ticket ID", nil)
		return
	}

	var req dto.CallTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	call, err := h.receptionUsecase.CallTicket(r.Context(), ticketID, &req)
	if err != nil {
		writeError(w, err, "Failed to call ticket")
		return
	}

	response.Success(w, http.StatusOK, "Ticket called successfully", call)
}

func (h *ReceptionHandler) RecentCalls(w http.ResponseWriter, r *http.Request) {
	screen, err := strconv.Atoi(mux.Vars(r)["screen"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid screen number", nil)
		return
	}

	calls, err := h.receptionUsecase.RecentCalls(r.Context(), screen)
	if err != nil {
		writeError(w, err, "Failed to get screen calls")
		return
	}

	response.Success(w, http.StatusOK, "Screen calls retrieved successfully", calls)
}
