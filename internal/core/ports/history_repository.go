package ports

import (
	"context"

	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
)

// HistoryRepository defines the persistence contract for the append-only
// audit trails. Entries and assignment events are insert-only: the
// interface deliberately offers no update or delete.
type HistoryRepository interface {
	// Append persists one order-level audit entry.
	// Appending a duplicate idempotent entry (same order, status, and
	// idempotency token) must succeed as a no-op.
	Append(ctx context.Context, entry *history.Entry) error

	// ListForOrder retrieves the order's audit entries, oldest first.
	ListForOrder(ctx context.Context, orderID kernel.UUID) ([]*history.Entry, error)

	// LatestForOrder retrieves the order's most recent audit entry.
	// Returns errs.ObjectNotFoundError when the order has no entries.
	LatestForOrder(ctx context.Context, orderID kernel.UUID) (*history.Entry, error)

	// HasIdempotencyKey reports whether an entry with the given order,
	// status, and idempotency token already exists.
	HasIdempotencyKey(ctx context.Context, orderID kernel.UUID, status string, key string) (bool, error)

	// AppendAssignmentEvent persists one assignment-level audit event.
	AppendAssignmentEvent(ctx context.Context, event history.AssignmentEvent) error
}
