package usecase

import (
	"context"

	"clinic-queue/internal/delivery/http/middleware"

	"github.com/google/uuid"
)

// actorFromContext returns the authenticated staff id for audit rows, nil for system calls
func actorFromContext(ctx context.Context) *uuid.UUID {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil
	}
	return &userID
}
