package order

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrOrderIsTerminal is returned when a status change is requested on an
	// order that already reached delivered, cancelled, or no_restaurant_accepted.
	ErrOrderIsTerminal = errors.New("order is in a terminal status")
)

// Timestamps holds the per-phase lifecycle timestamps of an order.
// Each field is stamped at most once, the first time the corresponding
// status is reached, and is nil until then. All values are UTC.
type Timestamps struct {
	AssignedAt           *time.Time
	AcceptedAt           *time.Time
	PreparationStartedAt *time.Time
	ReadyAt              *time.Time
	PickedUpAt           *time.Time
	DeliveredAt          *time.Time
	CancelledAt          *time.Time
}

// Order is the aggregate root for a customer purchase moving through the
// assignment and fulfillment workflow.
//
// Order maintains these invariants:
//   - Must have a valid unique identifier
//   - Status transitions follow the state machine defined on Status
//   - Once a terminal status is reached, further transitions are rejected
//   - Each phase timestamp is stamped exactly once, on first entry
//   - Can only be created through NewOrder or RestoreOrder
//
// Orders are mutated exclusively through the status coordination use case
// and are never physically deleted.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// status is the current state in the order lifecycle
	status Status

	// restaurantID is the accepting restaurant's ID (nil until assigned)
	restaurantID *kernel.UUID

	// assignmentSource tags which assignment path produced the winner
	assignmentSource string

	// timestamps holds the per-phase lifecycle stamps
	timestamps Timestamps

	createdAt time.Time
	updatedAt time.Time

	// isConstructed ensures the order was created via a factory
	isConstructed bool
}

// NewOrder creates a new Order in the placed status.
//
// Parameters:
//   - id: unique identifier for the order (must be a valid UUID)
//   - createdAt: creation instant; normalized to UTC
//
// Returns the created order, or a validation error if the id is invalid.
func NewOrder(id kernel.UUID, createdAt time.Time) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		status:        Placed,
		createdAt:     createdAt.UTC(),
		updatedAt:     createdAt.UTC(),
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an Order from persistence.
// Unlike NewOrder it accepts any valid status and pre-existing
// timestamps; it still validates the identifier and status so corrupt
// rows cannot produce an invalid aggregate.
func RestoreOrder(
	id kernel.UUID,
	status Status,
	restaurantID *kernel.UUID,
	assignmentSource string,
	timestamps Timestamps,
	createdAt time.Time,
	updatedAt time.Time,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	if restaurantID != nil {
		if err := restaurantID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:               id,
		status:           status,
		restaurantID:     restaurantID,
		assignmentSource: assignmentSource,
		timestamps:       timestamps,
		createdAt:        createdAt.UTC(),
		updatedAt:        updatedAt.UTC(),
		isConstructed:    true,
	}, nil
}

// Validate ensures the Order instance was properly constructed through a factory.
// Returns ErrOrderIsNotConstructed otherwise.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// RestaurantID returns the accepting restaurant's ID, or nil if the
// order has not been claimed.
func (o *Order) RestaurantID() *kernel.UUID {
	return o.restaurantID
}

// AssignmentSource returns the tag identifying which assignment path
// produced the current restaurant, empty if never set.
func (o *Order) AssignmentSource() string {
	return o.assignmentSource
}

// Timestamps returns the per-phase lifecycle timestamps.
func (o *Order) Timestamps() Timestamps {
	return o.timestamps
}

// CreatedAt returns the order's creation instant (UTC).
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the instant of the last mutation (UTC).
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// ChangeStatus transitions the order to next, stamping the matching
// phase timestamp the first time that phase is reached.
//
// Rules enforced:
//   - A transition to the current status is an idempotent no-op
//   - Terminal orders reject every transition (ErrOrderIsTerminal)
//   - All other transitions must be allowed by the state machine
//
// The no-op rule is what keeps repeated expiry sweeps harmless: driving
// an order to no_restaurant_accepted twice changes nothing the second time.
//
// Parameters:
//   - next: the target status (must be a valid status)
//   - at: the transition instant; normalized to UTC
func (o *Order) ChangeStatus(next Status, at time.Time) error {
	if err := next.Validate(); err != nil {
		return err
	}

	if o.status == next {
		return nil
	}

	if o.status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrOrderIsTerminal, o.status)
	}

	if !o.status.CanTransitionTo(next) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status transition is invalid",
			fmt.Errorf("cannot transition from %s to %s", o.status, next),
		)
	}

	o.status = next
	o.updatedAt = at.UTC()
	o.stampPhase(next, at.UTC())
	return nil
}

// AssignRestaurant records the restaurant that claimed the order.
// Returns a validation error if the restaurant ID is invalid.
func (o *Order) AssignRestaurant(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	o.restaurantID = &restaurantID
	return nil
}

// SetAssignmentSource tags the assignment path that produced the winner.
func (o *Order) SetAssignmentSource(source string) {
	o.assignmentSource = source
}

// stampPhase records the phase timestamp matching the entered status.
// Each timestamp is written only if still unset, so re-entering a phase
// through rebroadcast keeps the original instant.
func (o *Order) stampPhase(status Status, at time.Time) {
	stamp := func(t **time.Time) {
		if *t == nil {
			*t = &at
		}
	}

	switch status {
	case RestaurantAssigned:
		stamp(&o.timestamps.AssignedAt)
	case RestaurantAccepted:
		stamp(&o.timestamps.AcceptedAt)
	case Preparing:
		stamp(&o.timestamps.PreparationStartedAt)
	case ReadyForPickup:
		stamp(&o.timestamps.ReadyAt)
	case OnTheWay:
		stamp(&o.timestamps.PickedUpAt)
	case Delivered:
		stamp(&o.timestamps.DeliveredAt)
	case Cancelled:
		stamp(&o.timestamps.CancelledAt)
	default:
	}
}
