package commands_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/core/application/ledger"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/assignment"
	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingAssignment(t *testing.T, orderID kernel.UUID) *assignment.Assignment {
	t.Helper()

	now := time.Now()
	a, err := assignment.NewAssignment(kernel.NewUUID(), orderID, kernel.NewUUID(), now, now.Add(15*time.Minute))
	require.NoError(t, err)
	return a
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(ctx context.Context, a *assignment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, a *assignment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Get(ctx context.Context, id kernel.UUID) (*assignment.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetAllForOrder(
	ctx context.Context, orderID kernel.UUID,
) ([]*assignment.Assignment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) GetAllForOrderInStatus(
	ctx context.Context, orderID kernel.UUID, status assignment.Status,
) ([]*assignment.Assignment, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assignment.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) UpdateStatusIf(
	ctx context.Context,
	id kernel.UUID,
	from assignment.Status,
	to assignment.Status,
	respondedAt time.Time,
	notes string,
) (bool, error) {
	args := m.Called(ctx, id, from, to, respondedAt, notes)
	return args.Bool(0), args.Error(1)
}

func (m *MockAssignmentRepository) CancelSiblings(
	ctx context.Context, orderID kernel.UUID, winnerID kernel.UUID, notes string,
) (int64, error) {
	args := m.Called(ctx, orderID, winnerID, notes)
	return args.Get(0).(int64), args.Error(1)
}

type MockHistoryRecorder struct{ mock.Mock }

func (m *MockHistoryRecorder) Record(ctx context.Context, event ledger.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockHistoryRecorder) RecordBestEffort(ctx context.Context, event ledger.Event) {
	m.Called(ctx, event)
}

func (m *MockHistoryRecorder) RecordIdempotent(ctx context.Context, event ledger.Event, key string) error {
	args := m.Called(ctx, event, key)
	return args.Error(0)
}

func (m *MockHistoryRecorder) RecordAssignmentEvent(ctx context.Context, event history.AssignmentEvent) {
	m.Called(ctx, event)
}

type MockNotificationGateway struct{ mock.Mock }

func (m *MockNotificationGateway) SendAssignmentResponse(
	ctx context.Context, notification ports.AssignmentResponseNotification,
) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationGateway) CheckExpired(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockRequestLogRepository struct{ mock.Mock }

func (m *MockRequestLogRepository) Add(ctx context.Context, log ports.RequestLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockRequestLogRepository) ListForOrder(
	ctx context.Context, orderID kernel.UUID,
) ([]ports.RequestLog, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.RequestLog), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) AssignmentRepository() ports.AssignmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AssignmentRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}
