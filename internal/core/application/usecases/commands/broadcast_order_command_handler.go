package commands

import (
	"context"
	"time"

	"orderflow/internal/core/application/ledger"
	"orderflow/internal/core/domain/model/assignment"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

// assignmentTTL is the response window given to each candidate
// restaurant at broadcast time. expires_at is fixed at creation and
// never extended.
const assignmentTTL = 15 * time.Minute

// BroadcastOrderCommandHandler fans an order out to candidate
// restaurants: one pending assignment per candidate, all sharing the
// same response deadline, and the order moves to restaurant_assigned.
type BroadcastOrderCommandHandler struct {
	uowFactory UoWFactory
	recorder   HistoryRecorder
}

// NewBroadcastOrderCommandHandler creates a handler for order broadcasts.
func NewBroadcastOrderCommandHandler(
	uowFactory UoWFactory,
	recorder HistoryRecorder,
) BroadcastOrderCommandHandler {
	return BroadcastOrderCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
	}
}

// Handle processes the broadcast command.
//
// All assignment rows and the order's transition to restaurant_assigned
// commit in one transaction; a rebroadcast after rejection keeps the
// order's original assigned_at stamp. The trail append follows the
// commit best-effort.
func (h *BroadcastOrderCommandHandler) Handle(ctx context.Context, cmd BroadcastOrderCommand) error {
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

	now := time.Now()

	orderRepo := uow.OrderRepository()
	orderAggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	previousStatus := orderAggregate.Status().String()

	assignmentRepo := uow.AssignmentRepository()
	for _, restaurantID := range cmd.RestaurantIDs() {
		candidateAssignment, assignErr := assignment.NewAssignment(
			kernel.NewUUID(), cmd.OrderID(), restaurantID, now, now.Add(assignmentTTL))
		if assignErr != nil {
			return assignErr
		}
		if assignErr = assignmentRepo.Add(ctx, candidateAssignment); assignErr != nil {
			return assignErr
		}
	}

	if cmd.Source() != "" {
		orderAggregate.SetAssignmentSource(cmd.Source())
	}
	if err = orderAggregate.ChangeStatus(order.RestaurantAssigned, now); err != nil {
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
		Status:         order.RestaurantAssigned.String(),
		PreviousStatus: &previousStatus,
		Actor:          order.ActorSystem,
		Details: map[string]any{
			"candidates":        len(cmd.RestaurantIDs()),
			"assignment_source": cmd.Source(),
		},
	})

	return nil
}
