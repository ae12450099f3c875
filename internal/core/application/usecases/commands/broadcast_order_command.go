package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrBroadcastOrderCommandIsNotConstructed = errors.New(
	"BroadcastOrderCommand must be created via NewBroadcastOrderCommand constructor",
)

// BroadcastOrderCommand represents a request to fan an order out to a
// set of candidate restaurants, creating one pending assignment per
// candidate.
type BroadcastOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	restaurantIDs []kernel.UUID
	source        string

	guard guard.ConstructorGuard
}

// NewBroadcastOrderCommand creates a command to broadcast an order.
// Requires at least one candidate restaurant; duplicate candidates are
// rejected since each (order, restaurant) pair gets exactly one assignment.
func NewBroadcastOrderCommand(
	orderID kernel.UUID,
	restaurantIDs []kernel.UUID,
	source string,
) (BroadcastOrderCommand, error) {
	broadcastCommand := BroadcastOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		broadcastCommand.setOrderID(orderID),
		broadcastCommand.setRestaurantIDs(restaurantIDs),
	); err != nil {
		return BroadcastOrderCommand{}, err
	}

	broadcastCommand.source = source

	return broadcastCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrBroadcastOrderCommandIsNotConstructed if validation fails.
func (c BroadcastOrderCommand) Validate() error {
	return c.guard.Validate(ErrBroadcastOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c BroadcastOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RestaurantIDs returns a copy of the candidate restaurant identifiers.
func (c BroadcastOrderCommand) RestaurantIDs() []kernel.UUID {
	copied := make([]kernel.UUID, len(c.restaurantIDs))
	copy(copied, c.restaurantIDs)
	return copied
}

// Source returns the assignment path tag recorded on the order.
func (c BroadcastOrderCommand) Source() string {
	return c.source
}

func (c *BroadcastOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *BroadcastOrderCommand) setRestaurantIDs(restaurantIDs []kernel.UUID) error {
	if len(restaurantIDs) == 0 {
		return errs.NewValueIsRequiredError("restaurantIDs")
	}

	seen := make(map[kernel.UUID]bool, len(restaurantIDs))
	for _, restaurantID := range restaurantIDs {
		if err := restaurantID.Validate(); err != nil {
			return err
		}
		if seen[restaurantID] {
			return errs.NewValueIsInvalidError("restaurantIDs contains duplicates")
		}
		seen[restaurantID] = true
	}

	c.restaurantIDs = make([]kernel.UUID, len(restaurantIDs))
	copy(c.restaurantIDs, restaurantIDs)
	return nil
}
