package cmd

import (
	"log/slog"

	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/postgres/historyrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/requestlogrepo"
	"orderflow/internal/adapters/out/postgres/restaurantrepo"
	"orderflow/internal/adapters/out/webhook"
	"orderflow/internal/core/application/ledger"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	recorder   *ledger.Ledger
	gateway    ports.NotificationGateway
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	gateway, err := webhook.NewClient(configs.WebhookURL, configs.WebhookToken)
	if err != nil {
		log.Fatalf("Invalid webhook configuration: %v", err)
	}

	historyRepo := historyrepo.NewGormHistoryRepository(gormDB)
	orderRepo := orderrepo.NewGormOrderRepository(gormDB, noopTracker{})
	directory := restaurantrepo.NewGormRestaurantDirectory(gormDB)

	recorder, err := ledger.NewLedger(historyRepo, orderRepo, directory, logger)
	if err != nil {
		log.Fatalf("Failed to create history ledger: %v", err)
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		recorder:   recorder,
		gateway:    gateway,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateRespondToAssignmentCommandHandler() commands.RespondToAssignmentCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	requestLogs := requestlogrepo.NewGormRequestLogRepository(c.gormDB)
	return commands.NewRespondToAssignmentCommandHandler(f, c.recorder, c.gateway, requestLogs, c.logger)
}

func (c *CompositionRoot) CreateBroadcastOrderCommandHandler() commands.BroadcastOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewBroadcastOrderCommandHandler(f, c.recorder)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(f, c.recorder)
}

func (c *CompositionRoot) CreateUpdateAssignmentStatusCommandHandler() commands.UpdateAssignmentStatusCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateAssignmentStatusCommandHandler(f, c.CreateUpdateOrderStatusCommandHandler())
}

func (c *CompositionRoot) CreateExpireAssignmentsCommandHandler() commands.ExpireAssignmentsCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewExpireAssignmentsCommandHandler(f, c.recorder, c.gateway, c.logger)
}

func (c *CompositionRoot) CreateGetOrderTrackingQueryHandler() queries.GetOrderTrackingQueryHandler {
	return queries.NewGetOrderTrackingQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingAssignmentsQueryHandler() queries.GetPendingAssignmentsQueryHandler {
	return queries.NewGetPendingAssignmentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager(expirySchedule string) *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateExpireAssignmentsCommandHandler(),
		&c.uowFactory,
		c.gateway,
		expirySchedule,
		c.logger,
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

// noopTracker backs repositories used outside a unit of work, where
// there is no pending transaction to re-validate aggregates for.
type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}
