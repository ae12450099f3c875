package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
)

// RestaurantDirectory resolves restaurant display metadata for the
// audit trail. Lookups are advisory: callers fall back to a placeholder
// name when a lookup fails, so a broken directory never blocks a
// status change.
type RestaurantDirectory interface {
	// GetName retrieves the restaurant's display name.
	// Returns errs.ObjectNotFoundError when no such restaurant exists.
	GetName(ctx context.Context, id kernel.UUID) (string, error)
}
