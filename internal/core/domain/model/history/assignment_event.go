package history

import (
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

// AssignmentEvent is one row of the assignment-level audit trail. It
// records what happened to a single restaurant offer (expired during a
// sweep, cancelled after a sibling won) alongside the order-level trail.
//
// Assignment events are strictly best-effort: writers log a failed
// append and move on, so this trail may have gaps and must never be
// treated as authoritative.
type AssignmentEvent struct {
	assignmentID kernel.UUID
	orderID      kernel.UUID
	restaurantID kernel.UUID

	// status is the assignment status the event recorded
	status string

	notes string

	// details carries free-form event context, such as a forced flag
	// on manually triggered expiry sweeps
	details map[string]any

	createdAt time.Time
}

// NewAssignmentEvent creates an assignment audit event.
// The details map is copied.
func NewAssignmentEvent(
	assignmentID kernel.UUID,
	orderID kernel.UUID,
	restaurantID kernel.UUID,
	status string,
	notes string,
	details map[string]any,
	createdAt time.Time,
) (AssignmentEvent, error) {
	if err := assignmentID.Validate(); err != nil {
		return AssignmentEvent{}, err
	}
	if err := orderID.Validate(); err != nil {
		return AssignmentEvent{}, err
	}
	if err := restaurantID.Validate(); err != nil {
		return AssignmentEvent{}, err
	}
	if status == "" {
		return AssignmentEvent{}, errs.NewValueIsRequiredError("status")
	}

	return AssignmentEvent{
		assignmentID: assignmentID,
		orderID:      orderID,
		restaurantID: restaurantID,
		status:       status,
		notes:        notes,
		details:      copyDetails(details),
		createdAt:    createdAt.UTC(),
	}, nil
}

// AssignmentID returns the assignment the event belongs to.
func (e AssignmentEvent) AssignmentID() kernel.UUID {
	return e.assignmentID
}

// OrderID returns the order the assignment offered.
func (e AssignmentEvent) OrderID() kernel.UUID {
	return e.orderID
}

// RestaurantID returns the candidate restaurant.
func (e AssignmentEvent) RestaurantID() kernel.UUID {
	return e.restaurantID
}

// Status returns the recorded assignment status.
func (e AssignmentEvent) Status() string {
	return e.status
}

// Notes returns the free-form note.
func (e AssignmentEvent) Notes() string {
	return e.notes
}

// Details returns a copy of the free-form event context.
func (e AssignmentEvent) Details() map[string]any {
	return copyDetails(e.details)
}

// CreatedAt returns the event instant (UTC).
func (e AssignmentEvent) CreatedAt() time.Time {
	return e.createdAt
}
