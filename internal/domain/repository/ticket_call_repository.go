package repository

import (
	"clinic-queue/internal/domain/entity"

	"gorm.io/gorm"
)

type TicketCallRepository interface {
	Create(db *gorm.DB, call *entity.TicketCall) error
	// ListRecentByScreen returns the latest calls of a screen, newest first.
	ListRecentByScreen(db *gorm.DB, screen, limit int) ([]entity.ScreenCall, error)
}
