package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/application/ledger"
	"orderflow/internal/core/domain/model/assignment"
	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// expiredAssignmentNotes is stamped on assignment rows flipped by the sweep.
const expiredAssignmentNotes = "Assignment expired"

// ExpireAssignmentsCommandHandler reclaims an order whose broadcast
// assignments all became unanswerable.
//
// Each pending assignment is flipped to expired with a conditional
// write guarded on the row still being pending, so a concurrent accept
// or reject landing first simply wins: the flip is skipped, not forced.
// When no pending and no accepted assignments remain, the order lapses
// to no_restaurant_accepted. The whole operation is idempotent; a
// second run finds nothing pending and changes nothing.
type ExpireAssignmentsCommandHandler struct {
	uowFactory UoWFactory
	recorder   HistoryRecorder
	gateway    ports.NotificationGateway
	logger     *slog.Logger
}

// NewExpireAssignmentsCommandHandler creates a handler for forced expiry sweeps.
func NewExpireAssignmentsCommandHandler(
	uowFactory UoWFactory,
	recorder HistoryRecorder,
	gateway ports.NotificationGateway,
	logger *slog.Logger,
) ExpireAssignmentsCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return ExpireAssignmentsCommandHandler{
		uowFactory: uowFactory,
		recorder:   recorder,
		gateway:    gateway,
		logger:     logger.With("component", "expire_assignments"),
	}
}

// Handle processes the forced expiry sweep and returns how many of the
// order's pending assignments were actually flipped to expired. Flips
// lost to a concurrent accept or reject are not counted.
func (h *ExpireAssignmentsCommandHandler) Handle(ctx context.Context, cmd ExpireAssignmentsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now()
	assignmentRepo := uow.AssignmentRepository()

	pending, err := assignmentRepo.GetAllForOrderInStatus(ctx, cmd.OrderID(), assignment.Pending)
	if err != nil {
		return 0, err
	}

	expired := make([]*assignment.Assignment, 0, len(pending))
	for _, pendingAssignment := range pending {
		landed, flipErr := assignmentRepo.UpdateStatusIf(
			ctx, pendingAssignment.ID(), assignment.Pending, assignment.Expired, now, expiredAssignmentNotes)
		if flipErr != nil {
			return 0, flipErr
		}
		if landed {
			expired = append(expired, pendingAssignment)
		}
	}

	lapsed, previousStatus, err := h.lapseIfAbandoned(ctx, uow, cmd.OrderID(), now)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.recordExpirations(ctx, cmd.OrderID(), expired, now)

	if lapsed {
		key := fmt.Sprintf("%s_no_restaurant_accepted_forced", cmd.OrderID())
		if err = h.recorder.RecordIdempotent(ctx, ledger.Event{
			OrderID:        cmd.OrderID(),
			Status:         order.NoRestaurantAccepted.String(),
			PreviousStatus: previousStatus,
			Actor:          order.ActorSystem,
			Notes:          noAcceptanceReason,
			Details:        map[string]any{"forced": true},
		}, key); err != nil {
			h.logger.WarnContext(ctx, "lapse audit append failed",
				"order_id", cmd.OrderID().String(),
				"error", err)
		}
	}

	// Belt-and-suspenders nudge; its failure is swallowed.
	if err = h.gateway.CheckExpired(ctx); err != nil {
		h.logger.WarnContext(ctx, "expiry nudge failed",
			"order_id", cmd.OrderID().String(),
			"error", err)
	}

	return len(expired), nil
}

// lapseIfAbandoned transitions the order to no_restaurant_accepted when
// no pending and no accepted assignments remain. Re-running on an order
// already in that terminal state is a harmless no-op.
func (h *ExpireAssignmentsCommandHandler) lapseIfAbandoned(
	ctx context.Context,
	uow UoW,
	orderID kernel.UUID,
	now time.Time,
) (bool, *string, error) {
	assignmentRepo := uow.AssignmentRepository()

	pending, err := assignmentRepo.GetAllForOrderInStatus(ctx, orderID, assignment.Pending)
	if err != nil {
		return false, nil, err
	}
	if len(pending) > 0 {
		return false, nil, nil
	}

	accepted, err := assignmentRepo.GetAllForOrderInStatus(ctx, orderID, assignment.Accepted)
	if err != nil {
		return false, nil, err
	}
	if len(accepted) > 0 {
		return false, nil, nil
	}

	orderRepo := uow.OrderRepository()
	orderAggregate, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return false, nil, err
	}
	if orderAggregate.Status() == order.NoRestaurantAccepted {
		return false, nil, nil
	}

	previousStatus := orderAggregate.Status().String()
	if err = orderAggregate.ChangeStatus(order.NoRestaurantAccepted, now); err != nil {
		return false, nil, err
	}
	if err = orderRepo.Update(ctx, orderAggregate); err != nil {
		return false, nil, err
	}

	return true, &previousStatus, nil
}

// recordExpirations appends the per-assignment audit events and the
// order-level assignment_expired entries for every flip that landed.
// All appends are best-effort.
func (h *ExpireAssignmentsCommandHandler) recordExpirations(
	ctx context.Context,
	orderID kernel.UUID,
	expired []*assignment.Assignment,
	now time.Time,
) {
	for _, expiredAssignment := range expired {
		event, err := history.NewAssignmentEvent(
			expiredAssignment.ID(),
			orderID,
			expiredAssignment.RestaurantID(),
			assignment.Expired.String(),
			expiredAssignmentNotes,
			map[string]any{"forced": true},
			now,
		)
		if err != nil {
			h.logger.WarnContext(ctx, "assignment event build failed",
				"assignment_id", expiredAssignment.ID().String(),
				"error", err)
		} else {
			h.recorder.RecordAssignmentEvent(ctx, event)
		}

		restaurantID := expiredAssignment.RestaurantID()
		expiresAt := expiredAssignment.ExpiresAt()
		h.recorder.RecordBestEffort(ctx, ledger.Event{
			OrderID:      orderID,
			Status:       "assignment_expired",
			Actor:        order.ActorSystem,
			RestaurantID: &restaurantID,
			ExpiredAt:    &expiresAt,
			Notes:        expiredAssignmentNotes,
			Details: map[string]any{
				"assignment_id": expiredAssignment.ID().String(),
				"forced":        true,
			},
		})
	}
}
