package assignment

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
)

var (
	// ErrAssignmentIsNotConstructed is returned when an Assignment instance was not
	// created through the NewAssignment or RestoreAssignment factory methods.
	ErrAssignmentIsNotConstructed = errors.New(
		"Assignment must be created via NewAssignment or RestoreAssignment constructor")

	// ErrAssignmentIsResolved is returned when a resolution is requested
	// on an assignment that already left the pending status.
	ErrAssignmentIsResolved = errors.New("assignment is already resolved")
)

// Assignment is the aggregate root for a single order offer to a single
// restaurant. An order fan-out creates one Assignment per candidate
// restaurant; all start pending and exactly one may resolve to accepted.
//
// Assignment maintains these invariants:
//   - Must have valid order and restaurant identifiers
//   - Resolves at most once: every resolution method requires Pending
//   - Resolution stamps respondedAt exactly once
//   - Can only be created through NewAssignment or RestoreAssignment
//
// The accept-vs-accept race between sibling assignments is closed at the
// storage layer with a conditional update; the aggregate enforces the
// same single-resolution rule for in-memory transitions.
type Assignment struct {
	id           kernel.UUID
	orderID      kernel.UUID
	restaurantID kernel.UUID

	status Status

	// assignedAt is when the offer was created
	assignedAt time.Time

	// expiresAt is the response deadline
	expiresAt time.Time

	// respondedAt is stamped once, when the assignment resolves
	respondedAt *time.Time

	// responseNotes carries free-form resolution context
	responseNotes string

	isConstructed bool
}

// NewAssignment creates a pending Assignment offering an order to a restaurant.
//
// Parameters:
//   - id: unique identifier for the assignment
//   - orderID: the order being offered
//   - restaurantID: the candidate restaurant
//   - assignedAt: offer creation instant; normalized to UTC
//   - expiresAt: response deadline; normalized to UTC
//
// Returns a validation error if any identifier is invalid or the
// deadline does not lie after the offer instant.
func NewAssignment(
	id kernel.UUID,
	orderID kernel.UUID,
	restaurantID kernel.UUID,
	assignedAt time.Time,
	expiresAt time.Time,
) (*Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := restaurantID.Validate(); err != nil {
		return nil, err
	}
	if !expiresAt.After(assignedAt) {
		return nil, fmt.Errorf("expiry deadline %s is not after assignment time %s",
			expiresAt.UTC(), assignedAt.UTC())
	}

	return &Assignment{
		id:            id,
		orderID:       orderID,
		restaurantID:  restaurantID,
		status:        Pending,
		assignedAt:    assignedAt.UTC(),
		expiresAt:     expiresAt.UTC(),
		isConstructed: true,
	}, nil
}

// RestoreAssignment reconstructs an Assignment from persistence.
func RestoreAssignment(
	id kernel.UUID,
	orderID kernel.UUID,
	restaurantID kernel.UUID,
	status Status,
	assignedAt time.Time,
	expiresAt time.Time,
	respondedAt *time.Time,
	responseNotes string,
) (*Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := restaurantID.Validate(); err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}

	if respondedAt != nil {
		utc := respondedAt.UTC()
		respondedAt = &utc
	}

	return &Assignment{
		id:            id,
		orderID:       orderID,
		restaurantID:  restaurantID,
		status:        status,
		assignedAt:    assignedAt.UTC(),
		expiresAt:     expiresAt.UTC(),
		respondedAt:   respondedAt,
		responseNotes: responseNotes,
		isConstructed: true,
	}, nil
}

// Validate ensures the Assignment was properly constructed through a factory.
// Returns ErrAssignmentIsNotConstructed otherwise.
func (a *Assignment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAssignmentIsNotConstructed
	}
	return nil
}

// IsEqual compares two assignments by their unique identifiers.
func (a *Assignment) IsEqual(other *Assignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the assignment's unique identifier.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the identifier of the offered order.
func (a *Assignment) OrderID() kernel.UUID {
	return a.orderID
}

// RestaurantID returns the identifier of the candidate restaurant.
func (a *Assignment) RestaurantID() kernel.UUID {
	return a.restaurantID
}

// Status returns the current status of the assignment.
func (a *Assignment) Status() Status {
	return a.status
}

// AssignedAt returns the offer creation instant (UTC).
func (a *Assignment) AssignedAt() time.Time {
	return a.assignedAt
}

// ExpiresAt returns the response deadline (UTC).
func (a *Assignment) ExpiresAt() time.Time {
	return a.expiresAt
}

// RespondedAt returns the resolution instant, or nil while pending.
func (a *Assignment) RespondedAt() *time.Time {
	return a.respondedAt
}

// ResponseNotes returns the free-form resolution context, empty while pending.
func (a *Assignment) ResponseNotes() string {
	return a.responseNotes
}

// IsExpired reports whether the response deadline has passed as of now.
// It only inspects the deadline; a resolved assignment past its deadline
// still reports true, so callers should check Status first.
func (a *Assignment) IsExpired(now time.Time) bool {
	return !now.Before(a.expiresAt)
}

// Accept resolves the assignment as accepted.
// Returns ErrAssignmentIsResolved if the assignment is not pending.
func (a *Assignment) Accept(at time.Time, notes string) error {
	return a.resolve(Accepted, at, notes)
}

// Reject resolves the assignment as rejected.
// Returns ErrAssignmentIsResolved if the assignment is not pending.
func (a *Assignment) Reject(at time.Time, notes string) error {
	return a.resolve(Rejected, at, notes)
}

// Expire resolves the assignment as expired.
// Returns ErrAssignmentIsResolved if the assignment is not pending.
func (a *Assignment) Expire(at time.Time, notes string) error {
	return a.resolve(Expired, at, notes)
}

// Cancel resolves the assignment as cancelled.
// Returns ErrAssignmentIsResolved if the assignment is not pending.
func (a *Assignment) Cancel(at time.Time, notes string) error {
	return a.resolve(Cancelled, at, notes)
}

func (a *Assignment) resolve(to Status, at time.Time, notes string) error {
	if a.status != Pending {
		return fmt.Errorf("%w: %s", ErrAssignmentIsResolved, a.status)
	}

	utc := at.UTC()
	a.status = to
	a.respondedAt = &utc
	a.responseNotes = notes
	return nil
}
