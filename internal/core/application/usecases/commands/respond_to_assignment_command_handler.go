package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/application/ledger"
	"orderflow/internal/core/domain/model/assignment"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// ErrAssignmentAlreadyClaimed signals that another restaurant resolved
// the assignment race first: the conditional claim on the pending row
// did not land. Callers surface this to the losing restaurant as "order
// already accepted elsewhere", distinct from infrastructure failure.
var ErrAssignmentAlreadyClaimed = errors.New("order already accepted elsewhere")

const (
	// siblingCancelReason is stamped on pending sibling assignments
	// swept after a win.
	siblingCancelReason = "Order accepted by another restaurant"

	// noAcceptanceReason is recorded when a broadcast fully lapses.
	noAcceptanceReason = "No restaurants accepted the order"
)

// RespondToAssignmentCommandHandler turns one restaurant's decision into
// the external notification call and its local consequences.
//
// The accept path runs the win sequence: a conditional claim flips the
// assignment pending→accepted (the compare-and-swap that closes the
// accept-vs-accept race), pending siblings are cancelled, and the order
// records the winner. Exactly one concurrent acceptor can win; every
// other gets ErrAssignmentAlreadyClaimed.
//
// The remote endpoint is notified before the local writes, so a local
// failure after a remote success leaves the two systems briefly
// disagreeing. That inconsistency window is documented and reconciled
// from the audit trail, not closed here.
type RespondToAssignmentCommandHandler struct {
	uowFactory  UoWFactory
	recorder    HistoryRecorder
	gateway     ports.NotificationGateway
	requestLogs ports.RequestLogRepository
	logger      *slog.Logger
}

// NewRespondToAssignmentCommandHandler creates a handler for restaurant responses.
func NewRespondToAssignmentCommandHandler(
	uowFactory UoWFactory,
	recorder HistoryRecorder,
	gateway ports.NotificationGateway,
	requestLogs ports.RequestLogRepository,
	logger *slog.Logger,
) RespondToAssignmentCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return RespondToAssignmentCommandHandler{
		uowFactory:  uowFactory,
		recorder:    recorder,
		gateway:     gateway,
		requestLogs: requestLogs,
		logger:      logger.With("component", "respond_to_assignment"),
	}
}

// Handle processes the restaurant's response.
//
// Sequence: best-effort diagnostic request log, hard call to the
// notification endpoint (non-2xx fails here), then the local accept or
// reject consequences, then the best-effort audit trail append.
func (h *RespondToAssignmentCommandHandler) Handle(ctx context.Context, cmd RespondToAssignmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	h.logRequest(ctx, cmd)

	if err := h.gateway.SendAssignmentResponse(ctx, ports.AssignmentResponseNotification{
		OrderID:      cmd.OrderID(),
		RestaurantID: cmd.RestaurantID(),
		AssignmentID: cmd.AssignmentID(),
		Action:       cmd.Action(),
		Latitude:     cmd.Latitude(),
		Longitude:    cmd.Longitude(),
	}); err != nil {
		return err
	}

	if cmd.IsAccept() {
		return h.handleAccept(ctx, cmd)
	}
	return h.handleReject(ctx, cmd)
}

// handleAccept runs the win sequence inside one transaction and records
// the acceptance afterwards.
func (h *RespondToAssignmentCommandHandler) handleAccept(ctx context.Context, cmd RespondToAssignmentCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now()

	landed, err := uow.AssignmentRepository().UpdateStatusIf(
		ctx, cmd.AssignmentID(), assignment.Pending, assignment.Accepted, now, cmd.Notes())
	if err != nil {
		return err
	}
	if !landed {
		return fmt.Errorf("%w: assignment %s", ErrAssignmentAlreadyClaimed, cmd.AssignmentID())
	}

	cancelled, err := uow.AssignmentRepository().CancelSiblings(
		ctx, cmd.OrderID(), cmd.AssignmentID(), siblingCancelReason)
	if err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	orderAggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	previousStatus := orderAggregate.Status().String()

	if err = orderAggregate.AssignRestaurant(cmd.RestaurantID()); err != nil {
		return err
	}
	if err = orderAggregate.ChangeStatus(order.RestaurantAccepted, now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, orderAggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	restaurantID := cmd.RestaurantID()
	h.recorder.RecordBestEffort(ctx, ledger.Event{
		OrderID:        cmd.OrderID(),
		Status:         order.RestaurantAccepted.String(),
		PreviousStatus: &previousStatus,
		Actor:          order.ActorRestaurant,
		ActorID:        &restaurantID,
		RestaurantID:   &restaurantID,
		Notes:          cmd.Notes(),
		Details: map[string]any{
			"assignment_id":      cmd.AssignmentID().String(),
			"cancelled_siblings": cancelled,
		},
	})

	return nil
}

// handleReject resolves the assignment as rejected and, when no pending
// and no accepted assignments remain, lapses the order terminally.
func (h *RespondToAssignmentCommandHandler) handleReject(ctx context.Context, cmd RespondToAssignmentCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now()

	landed, err := uow.AssignmentRepository().UpdateStatusIf(
		ctx, cmd.AssignmentID(), assignment.Pending, assignment.Rejected, now, cmd.Notes())
	if err != nil {
		return err
	}
	if !landed {
		return fmt.Errorf("%w: %s", ErrAssignmentAlreadyResolved, cmd.AssignmentID())
	}

	lapsed, previousStatus, err := h.lapseIfAbandoned(ctx, uow, cmd.OrderID(), now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	restaurantID := cmd.RestaurantID()
	h.recorder.RecordBestEffort(ctx, ledger.Event{
		OrderID:      cmd.OrderID(),
		Status:       order.RestaurantRejected.String(),
		Actor:        order.ActorRestaurant,
		ActorID:      &restaurantID,
		RestaurantID: &restaurantID,
		Notes:        cmd.Notes(),
		Details:      map[string]any{"assignment_id": cmd.AssignmentID().String()},
	})

	if lapsed {
		h.recorder.RecordBestEffort(ctx, ledger.Event{
			OrderID:        cmd.OrderID(),
			Status:         order.NoRestaurantAccepted.String(),
			PreviousStatus: previousStatus,
			Actor:          order.ActorSystem,
			Notes:          noAcceptanceReason,
		})
	}

	return nil
}

// lapseIfAbandoned transitions the order to no_restaurant_accepted when
// every assignment has resolved and none resolved to accepted. Returns
// whether the transition happened and the order's prior status.
func (h *RespondToAssignmentCommandHandler) lapseIfAbandoned(
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

// logRequest writes the diagnostic request log; failure is logged and
// never aborts the response.
func (h *RespondToAssignmentCommandHandler) logRequest(ctx context.Context, cmd RespondToAssignmentCommand) {
	now := time.Now().UTC()
	log := ports.RequestLog{
		ID:             kernel.NewUUID(),
		OrderID:        cmd.OrderID(),
		Action:         cmd.Action(),
		IdempotencyKey: fmt.Sprintf("%s_%s_1_%d", cmd.OrderID(), cmd.Action(), now.UnixMilli()),
		Payload: map[string]any{
			"order_id":      cmd.OrderID().String(),
			"restaurant_id": cmd.RestaurantID().String(),
			"assignment_id": cmd.AssignmentID().String(),
			"action":        cmd.Action(),
			"latitude":      cmd.Latitude(),
			"longitude":     cmd.Longitude(),
		},
		CreatedAt: now,
	}

	if err := h.requestLogs.Add(ctx, log); err != nil {
		h.logger.WarnContext(ctx, "request log write failed",
			"order_id", cmd.OrderID().String(),
			"action", cmd.Action(),
			"error", err)
	}
}
