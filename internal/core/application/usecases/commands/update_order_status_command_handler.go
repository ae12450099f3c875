package commands

import (
	"context"
	"time"

	"orderflow/internal/core/application/ledger"
)

// UpdateOrderStatusCommandHandler handles the business logic for order
// status changes: state machine enforcement, phase timestamp stamping,
// and the audit trail append.
//
// The order row write is all-or-nothing inside a transaction; the trail
// append only runs after a successful commit and is fire-and-forget, so
// audit store problems never block a status change.
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	recorder   HistoryRecorder
}

// NewUpdateOrderStatusCommandHandler creates a handler for order status changes.
// Requires an OrderUoWFactory for transactional persistence and a
// HistoryRecorder for the audit trail.
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	recorder HistoryRecorder,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the status change command.
//
// Loads the order, applies the transition through the aggregate (a
// same-status request is an idempotent no-op, terminal orders reject
// everything), optionally records the restaurant and assignment source,
// and persists within a transaction. After the commit the transition is
// appended to the audit trail best-effort.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	orderAggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	previousStatus := orderAggregate.Status().String()

	if cmd.RestaurantID() != nil {
		if err = orderAggregate.AssignRestaurant(*cmd.RestaurantID()); err != nil {
			return err
		}
	}
	if cmd.AssignmentSource() != "" {
		orderAggregate.SetAssignmentSource(cmd.AssignmentSource())
	}

	if err = orderAggregate.ChangeStatus(cmd.Status(), time.Now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, orderAggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.recorder.RecordBestEffort(ctx, ledger.Event{
		OrderID:        cmd.OrderID(),
		Status:         cmd.Status().String(),
		PreviousStatus: &previousStatus,
		Actor:          cmd.ActorKind(),
		ActorID:        cmd.ActorID(),
		RestaurantID:   cmd.RestaurantID(),
		Details:        h.buildDetails(cmd),
	})

	return nil
}

func (h *UpdateOrderStatusCommandHandler) buildDetails(cmd UpdateOrderStatusCommand) map[string]any {
	details := cmd.Metadata()
	if details == nil {
		details = map[string]any{}
	}
	if cmd.AssignmentSource() != "" {
		details["assignment_source"] = cmd.AssignmentSource()
	}
	details["unified_tracking"] = true
	return details
}
