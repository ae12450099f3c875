package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand represents a request to move an order to a new
// lifecycle status. This is the single choke point for order status
// changes: every other write path funnels through it.
//
// Example:
//
//	cmd, err := NewUpdateOrderStatusCommand(
//	    orderID, order.Preparing, nil, "",
//	    map[string]any{"station": "grill"},
//	    &staffID, order.ActorRestaurant,
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid status update: %w", err)
//	}
//
//	handler := NewUpdateOrderStatusCommandHandler(uowFactory, recorder)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to update order status: %w", err)
//	}
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID          kernel.UUID
	status           order.Status
	restaurantID     *kernel.UUID
	assignmentSource string
	metadata         map[string]any
	actorID          *kernel.UUID
	actorKind        order.ActorKind

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a command to change an order's status.
// Validates the order ID, the target status, and any optional identifiers.
// The actor kind is deliberately lenient: anything outside the allowed
// set is coerced to the system actor instead of failing.
func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	status order.Status,
	restaurantID *kernel.UUID,
	assignmentSource string,
	metadata map[string]any,
	actorID *kernel.UUID,
	actorKind order.ActorKind,
) (UpdateOrderStatusCommand, error) {
	statusCommand := UpdateOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setStatus(status),
		statusCommand.setRestaurantID(restaurantID),
		statusCommand.setActorID(actorID),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	statusCommand.assignmentSource = assignmentSource
	statusCommand.metadata = copyMetadata(metadata)
	statusCommand.actorKind = actorKind.Coerce()

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateOrderStatusCommandIsNotConstructed if validation fails.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Status returns the target order status.
func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

// RestaurantID returns the restaurant to record on the order, or nil.
func (c UpdateOrderStatusCommand) RestaurantID() *kernel.UUID {
	return c.restaurantID
}

// AssignmentSource returns the assignment path tag, empty when not set.
func (c UpdateOrderStatusCommand) AssignmentSource() string {
	return c.assignmentSource
}

// Metadata returns a copy of the free-form context for the audit trail.
func (c UpdateOrderStatusCommand) Metadata() map[string]any {
	return copyMetadata(c.metadata)
}

// ActorID returns the acting principal, or nil.
func (c UpdateOrderStatusCommand) ActorID() *kernel.UUID {
	return c.actorID
}

// ActorKind returns the acting actor kind, already coerced to a valid value.
func (c UpdateOrderStatusCommand) ActorKind() order.ActorKind {
	return c.actorKind
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setStatus(status order.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.status = status
	return nil
}

func (c *UpdateOrderStatusCommand) setRestaurantID(restaurantID *kernel.UUID) error {
	if restaurantID == nil {
		return nil
	}
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *UpdateOrderStatusCommand) setActorID(actorID *kernel.UUID) error {
	if actorID == nil {
		return nil
	}
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}

func copyMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	copied := make(map[string]any, len(metadata))
	for k, v := range metadata {
		copied[k] = v
	}
	return copied
}
