package ports

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"
)

// AssignmentResponseNotification is the payload sent to the external
// coordination endpoint when a restaurant responds to an assignment.
type AssignmentResponseNotification struct {
	OrderID      kernel.UUID
	RestaurantID kernel.UUID
	AssignmentID kernel.UUID

	// Action is the restaurant's decision, "accept" or "reject"
	Action string

	// Latitude and Longitude locate the responding restaurant so the
	// endpoint can dispatch nearby couriers
	Latitude  float64
	Longitude float64
}

// NotificationGateway is the outbound contract to the external
// coordination endpoint.
//
// SendAssignmentResponse is on the critical path of a response: a
// non-2xx reply is a hard failure that the caller surfaces. CheckExpired
// is fire-and-forget from the scheduler's point of view.
type NotificationGateway interface {
	// SendAssignmentResponse notifies the endpoint of a restaurant's
	// decision. Returns an error carrying the endpoint's message on any
	// non-2xx reply.
	SendAssignmentResponse(ctx context.Context, notification AssignmentResponseNotification) error

	// CheckExpired asks the endpoint to run its expiry sweep.
	CheckExpired(ctx context.Context) error
}
