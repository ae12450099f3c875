package commands

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrRespondToAssignmentCommandIsNotConstructed = errors.New(
	"RespondToAssignmentCommand must be created via NewRespondToAssignmentCommand constructor",
)

const (
	// ActionAccept is a restaurant's decision to take the order.
	ActionAccept = "accept"

	// ActionReject is a restaurant's decision to decline the order.
	ActionReject = "reject"
)

// RespondToAssignmentCommand represents one restaurant's decision on an
// order that was offered to it.
//
// Example:
//
//	cmd, err := NewRespondToAssignmentCommand(
//	    orderID, restaurantID, assignmentID,
//	    ActionAccept, 40.7128, -74.0060, "ready in 20",
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid response: %w", err)
//	}
//
//	handler := NewRespondToAssignmentCommandHandler(uowFactory, recorder, gateway, requestLogs, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    if errors.Is(err, ErrAssignmentAlreadyClaimed) {
//	        // order already accepted elsewhere
//	    }
//	    return err
//	}
type RespondToAssignmentCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	restaurantID kernel.UUID
	assignmentID kernel.UUID
	action       string
	latitude     float64
	longitude    float64
	notes        string

	guard guard.ConstructorGuard
}

// NewRespondToAssignmentCommand creates a command carrying a restaurant's
// accept or reject decision. The location is the responding restaurant's
// coordinates, forwarded to the notification endpoint for courier dispatch.
func NewRespondToAssignmentCommand(
	orderID kernel.UUID,
	restaurantID kernel.UUID,
	assignmentID kernel.UUID,
	action string,
	latitude float64,
	longitude float64,
	notes string,
) (RespondToAssignmentCommand, error) {
	respondCommand := RespondToAssignmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		respondCommand.setOrderID(orderID),
		respondCommand.setRestaurantID(restaurantID),
		respondCommand.setAssignmentID(assignmentID),
		respondCommand.setAction(action),
	); err != nil {
		return RespondToAssignmentCommand{}, err
	}

	respondCommand.latitude = latitude
	respondCommand.longitude = longitude
	respondCommand.notes = notes

	return respondCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRespondToAssignmentCommandIsNotConstructed if validation fails.
func (c RespondToAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRespondToAssignmentCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c RespondToAssignmentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RestaurantID returns the responding restaurant.
func (c RespondToAssignmentCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// AssignmentID returns the assignment being answered.
func (c RespondToAssignmentCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// Action returns the decision, ActionAccept or ActionReject.
func (c RespondToAssignmentCommand) Action() string {
	return c.action
}

// Latitude returns the restaurant's latitude.
func (c RespondToAssignmentCommand) Latitude() float64 {
	return c.latitude
}

// Longitude returns the restaurant's longitude.
func (c RespondToAssignmentCommand) Longitude() float64 {
	return c.longitude
}

// Notes returns the free-form response notes.
func (c RespondToAssignmentCommand) Notes() string {
	return c.notes
}

// IsAccept reports whether the decision is an acceptance.
func (c RespondToAssignmentCommand) IsAccept() bool {
	return c.action == ActionAccept
}

func (c *RespondToAssignmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RespondToAssignmentCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *RespondToAssignmentCommand) setAssignmentID(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	c.assignmentID = assignmentID
	return nil
}

func (c *RespondToAssignmentCommand) setAction(action string) error {
	if action != ActionAccept && action != ActionReject {
		return errs.NewValueIsInvalidErrorWithCause(
			"action is invalid",
			fmt.Errorf("%q is not a valid response action", action),
		)
	}

	c.action = action
	return nil
}
