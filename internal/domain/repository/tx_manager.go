package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxManager hands out database handles to usecases. Repositories never open
// transactions themselves; they run on whatever handle they are given.
type TxManager interface {
	// Conn returns a non-transactional handle bound to ctx.
	Conn(ctx context.Context) *gorm.DB
	// WithinTransaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
