package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/assignment"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// DefaultExpirySchedule runs the sweep once a minute.
const DefaultExpirySchedule = "0 * * * * *"

// AssignmentExpiryJob reclaims orders whose broadcast offers were never
// answered. On every tick it sweeps orders still waiting on a
// restaurant, force-expires the ones where every pending offer is past
// its deadline, and nudges the notification endpoint with a
// check_expired signal.
type AssignmentExpiryJob struct {
	handler    commands.ExpireAssignmentsCommandHandler
	uowFactory ports.UnitOfWorkFactory
	gateway    ports.NotificationGateway
	cron       *cron.Cron
	schedule   string
	logger     *slog.Logger
}

// NewAssignmentExpiryJob creates the expiry sweep job. An empty
// schedule falls back to DefaultExpirySchedule.
func NewAssignmentExpiryJob(
	handler commands.ExpireAssignmentsCommandHandler,
	uowFactory ports.UnitOfWorkFactory,
	gateway ports.NotificationGateway,
	schedule string,
	logger *slog.Logger,
) *AssignmentExpiryJob {
	if schedule == "" {
		schedule = DefaultExpirySchedule
	}

	return &AssignmentExpiryJob{
		handler:    handler,
		uowFactory: uowFactory,
		gateway:    gateway,
		cron:       cron.New(cron.WithSeconds()),
		schedule:   schedule,
		logger:     logger.With("component", "assignment_expiry_job"),
	}
}

// Start begins the periodic expiry sweep.
func (j *AssignmentExpiryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		j.sweep(ctx)

		if err := j.gateway.CheckExpired(ctx); err != nil {
			j.logger.WarnContext(ctx, "check_expired nudge failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Assignment expiry job started", "schedule", j.schedule)
	return nil
}

// Stop stops the expiry sweep.
func (j *AssignmentExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Assignment expiry job stopped")
}

// sweep force-expires every order in restaurant_assigned whose pending
// offers have all passed their deadline. Per-order failures are logged
// and do not stop the rest of the sweep.
func (j *AssignmentExpiryJob) sweep(ctx context.Context) {
	dueOrders, err := j.collectDueOrders(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "expiry sweep scan failed", "error", err)
		return
	}

	for _, orderID := range dueOrders {
		cmd, cmdErr := commands.NewExpireAssignmentsCommand(orderID)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "expiry command build failed",
				"order_id", orderID.String(), "error", cmdErr)
			continue
		}

		expired, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "expiry sweep failed for order",
				"order_id", orderID.String(), "error", handleErr)
			continue
		}

		j.logger.InfoContext(ctx, "expired stale assignments",
			"order_id", orderID.String(), "expired", expired)
	}
}

// collectDueOrders reads outside any transaction; the expiry handler
// re-checks every row with a conditional write, so a stale read here
// only costs a no-op sweep.
func (j *AssignmentExpiryJob) collectDueOrders(ctx context.Context) ([]kernel.UUID, error) {
	uow := j.uowFactory.Create()
	now := time.Now()

	waiting, err := uow.OrderRepository().GetAllInStatus(ctx, order.RestaurantAssigned)
	if err != nil {
		return nil, err
	}

	assignmentRepo := uow.AssignmentRepository()
	due := make([]kernel.UUID, 0, len(waiting))

	for _, waitingOrder := range waiting {
		pending, pendErr := assignmentRepo.GetAllForOrderInStatus(ctx, waitingOrder.ID(), assignment.Pending)
		if pendErr != nil {
			return nil, pendErr
		}
		if len(pending) == 0 || anyStillLive(pending, now) {
			continue
		}

		due = append(due, waitingOrder.ID())
	}

	return due, nil
}

func anyStillLive(pending []*assignment.Assignment, now time.Time) bool {
	for _, p := range pending {
		if p.ExpiresAt().After(now) {
			return true
		}
	}
	return false
}
