package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetOrderTrackingQueryIsNotConstructed = errors.New(
	"GetOrderTrackingQuery must be created via NewGetOrderTrackingQuery constructor",
)

// GetOrderTrackingQuery retrieves an order's current state together
// with its full status history for the unified tracking view.
type GetOrderTrackingQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderTrackingQuery creates a query for the order's tracking view.
func NewGetOrderTrackingQuery(orderID kernel.UUID) (GetOrderTrackingQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderTrackingQuery{}, err
	}

	return GetOrderTrackingQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderTrackingQueryIsNotConstructed if validation fails.
func (q GetOrderTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackingQueryIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (q GetOrderTrackingQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderTrackingQueryResponse is the read model for the tracking view:
// the order's current state plus its audit trail, newest entry first.
type GetOrderTrackingQueryResponse struct {
	OrderID          kernel.UUID
	Status           string
	RestaurantID     *kernel.UUID
	AssignmentSource string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	History          []OrderHistoryEntryResponse
}

// OrderHistoryEntryResponse is one audit trail entry in the tracking view.
type OrderHistoryEntryResponse struct {
	ID             kernel.UUID
	Status         string
	PreviousStatus *string
	RestaurantID   *kernel.UUID
	RestaurantName *string
	ChangedByType  string
	ChangedByID    *kernel.UUID
	Notes          string
	Details        map[string]any
	CreatedAt      time.Time
}
