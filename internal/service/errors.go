package service

import "clinic-queue/pkg/apperror"

var (
	ErrDoctorNotFound     = apperror.NotFound("doctor")
	ErrPatientNotFound    = apperror.NotFound("patient")
	ErrTicketNotFound     = apperror.NotFound("ticket")
	ErrTicketNotPending   = apperror.InvalidTransition("ticket is not pending")
	ErrTicketStateChanged = apperror.Conflict("ticket state changed concurrently", nil)
	ErrCodeSpaceExhausted = apperror.Conflict("no free code left to assign", nil)
	ErrMissingStableCode  = apperror.New(apperror.CodeInternal, "patient has no stable code")
)
