package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/assignment"
	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/order"
)

// ErrAssignmentAlreadyResolved signals that the assignment row had
// already left the pending status when the update arrived, so the
// conditional write did not land. Distinct from infrastructure failure.
var ErrAssignmentAlreadyResolved = errors.New("assignment is already resolved")

// UpdateAssignmentStatusCommandHandler routes a restaurant's progress
// update: it resolves the assignment row when the update is an accept
// or reject, then drives the order to the matching status through the
// order status choke point with the restaurant actor kind.
type UpdateAssignmentStatusCommandHandler struct {
	uowFactory         UoWFactory
	orderStatusHandler UpdateOrderStatusCommandHandler
}

// NewUpdateAssignmentStatusCommandHandler creates a handler for
// assignment-routed status updates.
func NewUpdateAssignmentStatusCommandHandler(
	uowFactory UoWFactory,
	orderStatusHandler UpdateOrderStatusCommandHandler,
) UpdateAssignmentStatusCommandHandler {
	return UpdateAssignmentStatusCommandHandler{
		uowFactory:         uowFactory,
		orderStatusHandler: orderStatusHandler,
	}
}

// Handle processes the assignment status update.
//
// Accept and reject updates resolve the assignment row with a
// conditional write guarded on it still being pending; a row already
// resolved returns ErrAssignmentAlreadyResolved. Preparing and
// ready_for_pickup skip the assignment row. In all cases the order then
// moves to the mapped status.
func (h *UpdateAssignmentStatusCommandHandler) Handle(ctx context.Context, cmd UpdateAssignmentStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if cmd.ResolvesAssignment() {
		if err := h.resolveAssignment(ctx, cmd); err != nil {
			return err
		}
	}

	orderStatus, err := order.StatusFromString(history.CanonicalStatus(cmd.Status()))
	if err != nil {
		return err
	}

	restaurantID := cmd.RestaurantID()
	orderCmd, err := NewUpdateOrderStatusCommand(
		cmd.OrderID(),
		orderStatus,
		&restaurantID,
		"",
		map[string]any{"assignment_id": cmd.AssignmentID().String()},
		&restaurantID,
		order.ActorRestaurant,
	)
	if err != nil {
		return err
	}

	return h.orderStatusHandler.Handle(ctx, orderCmd)
}

func (h *UpdateAssignmentStatusCommandHandler) resolveAssignment(
	ctx context.Context,
	cmd UpdateAssignmentStatusCommand,
) error {
	target := assignment.Accepted
	if cmd.Status() == "rejected" {
		target = assignment.Rejected
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	landed, err := uow.AssignmentRepository().UpdateStatusIf(
		ctx, cmd.AssignmentID(), assignment.Pending, target, time.Now(), cmd.Notes())
	if err != nil {
		return err
	}
	if !landed {
		return fmt.Errorf("%w: %s", ErrAssignmentAlreadyResolved, cmd.AssignmentID())
	}

	return uow.Commit(ctx)
}
