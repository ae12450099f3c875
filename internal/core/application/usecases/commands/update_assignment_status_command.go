package commands

import (
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrUpdateAssignmentStatusCommandIsNotConstructed = errors.New(
	"UpdateAssignmentStatusCommand must be created via NewUpdateAssignmentStatusCommand constructor",
)

// getAssignmentStatusUpdates lists the spellings this command accepts.
// The first two also resolve the assignment row; the last two only move
// the order forward once the restaurant already holds the assignment.
func getAssignmentStatusUpdates() map[string]bool {
	return map[string]bool{
		"accepted":         true,
		"rejected":         true,
		"preparing":        false,
		"ready_for_pickup": false,
	}
}

// UpdateAssignmentStatusCommand represents a restaurant-driven progress
// update routed through an assignment: the assignment row is resolved
// when applicable, and the order follows to the matching status.
type UpdateAssignmentStatusCommand struct { //nolint:recvcheck //using for validation
	assignmentID kernel.UUID
	orderID      kernel.UUID
	restaurantID kernel.UUID
	status       string
	notes        string

	guard guard.ConstructorGuard
}

// NewUpdateAssignmentStatusCommand creates a command to progress an
// assignment. The status must be one of accepted, rejected, preparing,
// or ready_for_pickup.
func NewUpdateAssignmentStatusCommand(
	assignmentID kernel.UUID,
	orderID kernel.UUID,
	restaurantID kernel.UUID,
	status string,
	notes string,
) (UpdateAssignmentStatusCommand, error) {
	statusCommand := UpdateAssignmentStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setAssignmentID(assignmentID),
		statusCommand.setOrderID(orderID),
		statusCommand.setRestaurantID(restaurantID),
		statusCommand.setStatus(status),
	); err != nil {
		return UpdateAssignmentStatusCommand{}, err
	}

	statusCommand.notes = notes

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateAssignmentStatusCommandIsNotConstructed if validation fails.
func (c UpdateAssignmentStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateAssignmentStatusCommandIsNotConstructed)
}

// AssignmentID returns the unique identifier for the assignment.
func (c UpdateAssignmentStatusCommand) AssignmentID() kernel.UUID {
	return c.assignmentID
}

// OrderID returns the unique identifier for the order.
func (c UpdateAssignmentStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RestaurantID returns the restaurant driving the update.
func (c UpdateAssignmentStatusCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// Status returns the requested status spelling.
func (c UpdateAssignmentStatusCommand) Status() string {
	return c.status
}

// Notes returns the free-form response notes.
func (c UpdateAssignmentStatusCommand) Notes() string {
	return c.notes
}

// ResolvesAssignment reports whether this update resolves the
// assignment row (accepted/rejected) or only progresses the order.
func (c UpdateAssignmentStatusCommand) ResolvesAssignment() bool {
	return getAssignmentStatusUpdates()[c.status]
}

func (c *UpdateAssignmentStatusCommand) setAssignmentID(assignmentID kernel.UUID) error {
	if err := assignmentID.Validate(); err != nil {
		return err
	}

	c.assignmentID = assignmentID
	return nil
}

func (c *UpdateAssignmentStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateAssignmentStatusCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *UpdateAssignmentStatusCommand) setStatus(status string) error {
	if _, ok := getAssignmentStatusUpdates()[status]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%q is not a valid assignment status update", status),
		)
	}

	c.status = status
	return nil
}
