package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateStaffRequest struct {
	Username string  `json:"username" validate:"required,notblank,min=3,max=100"`
	FullName string  `json:"full_name" validate:"required,notblank,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Role     string  `json:"role" validate:"required,oneof=admin reception registrar doctor"`
}

type SetStaffActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// Response DTOs

type StaffResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     *string   `json:"email,omitempty"`
	RoleID    int       `json:"role_id"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type StaffListResponse struct {
	Staff []StaffResponse `json:"staff"`
	Total int             `json:"total"`
}
