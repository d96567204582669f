package dto

import (
	"time"

	"clinic-queue/internal/domain/entity"
)

// Response DTOs

type AuditLogResponse struct {
	ID        int64          `json:"id"`
	User      *StaffResponse `json:"user,omitempty"`
	Action    string         `json:"action"`
	Metadata  entity.JSON    `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int                `json:"total"`
}
