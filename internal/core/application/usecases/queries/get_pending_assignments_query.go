package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetPendingAssignmentsQueryIsNotConstructed = errors.New(
	"GetPendingAssignmentsQuery must be created via NewGetPendingAssignmentsQuery constructor",
)

// GetPendingAssignmentsQuery retrieves a restaurant's open offers: the
// pending assignments whose response window has not lapsed yet.
type GetPendingAssignmentsQuery struct {
	restaurantID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetPendingAssignmentsQuery creates a query for the restaurant's open offers.
func NewGetPendingAssignmentsQuery(restaurantID kernel.UUID) (GetPendingAssignmentsQuery, error) {
	if err := restaurantID.Validate(); err != nil {
		return GetPendingAssignmentsQuery{}, err
	}

	return GetPendingAssignmentsQuery{
		restaurantID: restaurantID,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetPendingAssignmentsQueryIsNotConstructed if validation fails.
func (q GetPendingAssignmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingAssignmentsQueryIsNotConstructed)
}

// RestaurantID returns the unique identifier for the restaurant.
func (q GetPendingAssignmentsQuery) RestaurantID() kernel.UUID {
	return q.restaurantID
}

// GetPendingAssignmentsQueryResponse is one open offer awaiting the
// restaurant's response.
type GetPendingAssignmentsQueryResponse struct {
	AssignmentID kernel.UUID
	OrderID      kernel.UUID
	AssignedAt   time.Time
	ExpiresAt    time.Time
}
