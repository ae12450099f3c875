package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrExpireAssignmentsCommandIsNotConstructed = errors.New(
	"ExpireAssignmentsCommand must be created via NewExpireAssignmentsCommand constructor",
)

// ExpireAssignmentsCommand represents a request to force-expire an
// order's pending assignments, used for manual remediation or as a
// fallback when the periodic sweep is insufficient.
type ExpireAssignmentsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewExpireAssignmentsCommand creates a command to force-expire the
// order's pending assignments.
func NewExpireAssignmentsCommand(orderID kernel.UUID) (ExpireAssignmentsCommand, error) {
	expireCommand := ExpireAssignmentsCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := expireCommand.setOrderID(orderID); err != nil {
		return ExpireAssignmentsCommand{}, err
	}

	return expireCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrExpireAssignmentsCommandIsNotConstructed if validation fails.
func (c ExpireAssignmentsCommand) Validate() error {
	return c.guard.Validate(ErrExpireAssignmentsCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c ExpireAssignmentsCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *ExpireAssignmentsCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
