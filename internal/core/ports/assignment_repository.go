package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/assignment"
	"orderflow/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for restaurant
// assignment aggregates.
//
// Besides the usual aggregate operations it exposes two set-level
// updates, UpdateStatusIf and CancelSiblings, that the response and
// expiry workflows use to resolve races at the storage layer instead
// of read-modify-write.
type AssignmentRepository interface {
	// Add persists a new assignment aggregate to storage.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Update persists changes to an existing assignment aggregate.
	Update(ctx context.Context, aggregate *assignment.Assignment) error

	// Get retrieves an assignment aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such assignment exists.
	Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error)

	// GetAllForOrder retrieves every assignment created for the order,
	// newest first.
	GetAllForOrder(ctx context.Context, orderID kernel.UUID) ([]*assignment.Assignment, error)

	// GetAllForOrderInStatus retrieves the order's assignments currently
	// in the given status.
	GetAllForOrderInStatus(
		ctx context.Context,
		orderID kernel.UUID,
		status assignment.Status,
	) ([]*assignment.Assignment, error)

	// UpdateStatusIf conditionally resolves an assignment: the row moves
	// from the expected status to the target status, stamping respondedAt
	// and notes, only if it still holds the expected status at update
	// time. Returns false without error when the condition did not hold,
	// which is how a lost accept-vs-accept race surfaces.
	UpdateStatusIf(
		ctx context.Context,
		id kernel.UUID,
		from assignment.Status,
		to assignment.Status,
		respondedAt time.Time,
		notes string,
	) (bool, error)

	// CancelSiblings resolves every still-pending assignment of the order
	// except the winner to cancelled, stamping the given notes. Returns
	// the number of assignments cancelled. Assignments already rejected
	// or expired keep their status.
	CancelSiblings(
		ctx context.Context,
		orderID kernel.UUID,
		winnerID kernel.UUID,
		notes string,
	) (int64, error)
}
