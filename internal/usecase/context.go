package usecase

import (
	"context"

	"clinic-appointment-api/internal/delivery/http/middleware"

	"github.com/google/uuid"
)

// actorFromContext returns the authenticated user's ID for audit
// attribution, or nil when the request is unauthenticated.
func actorFromContext(ctx context.Context) (*uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, false
	}
	return &userID, true
}
