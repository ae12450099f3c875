package commands_test

import (
	"errors"
	"log/slog"
	"testing"

	"orderflow/internal/core/application/ledger"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/assignment"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type respondFixture struct {
	orderID      kernel.UUID
	restaurantID kernel.UUID
	assignmentID kernel.UUID

	orderRepo      *MockOrderRepository
	assignmentRepo *MockAssignmentRepository
	uow            *MockUoW
	factory        *MockUoWFactory
	recorder       *MockHistoryRecorder
	gateway        *MockNotificationGateway
	requestLogs    *MockRequestLogRepository
	handler        commands.RespondToAssignmentCommandHandler
}

func newRespondFixture(t *testing.T) *respondFixture {
	t.Helper()

	f := &respondFixture{
		orderID:        kernel.NewUUID(),
		restaurantID:   kernel.NewUUID(),
		assignmentID:   kernel.NewUUID(),
		orderRepo:      new(MockOrderRepository),
		assignmentRepo: new(MockAssignmentRepository),
		uow:            new(MockUoW),
		factory:        new(MockUoWFactory),
		recorder:       new(MockHistoryRecorder),
		gateway:        new(MockNotificationGateway),
		requestLogs:    new(MockRequestLogRepository),
	}

	f.handler = commands.NewRespondToAssignmentCommandHandler(
		f.factory, f.recorder, f.gateway, f.requestLogs, slog.Default())
	return f
}

func (f *respondFixture) command(t *testing.T, action string) commands.RespondToAssignmentCommand {
	t.Helper()

	cmd, err := commands.NewRespondToAssignmentCommand(
		f.orderID, f.restaurantID, f.assignmentID, action, 40.7, -74.0, "notes")
	require.NoError(t, err)
	return cmd
}

func (f *respondFixture) expectRequestLog() {
	f.requestLogs.On("Add", mock.Anything, mock.AnythingOfType("ports.RequestLog")).Return(nil).Once()
}

func TestRespondToAssignmentCommandHandler_Handle_AcceptWins(t *testing.T) {
	ctx := t.Context()
	f := newRespondFixture(t)
	cmd := f.command(t, commands.ActionAccept)

	f.expectRequestLog()

	var notified ports.AssignmentResponseNotification
	f.gateway.On("SendAssignmentResponse", ctx, mock.AnythingOfType("ports.AssignmentResponseNotification")).
		Run(func(args mock.Arguments) {
			notified = args.Get(1).(ports.AssignmentResponseNotification)
		}).
		Return(nil).Once()

	orderAggregate := restoredOrder(t, f.orderID, order.RestaurantAssigned)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("AssignmentRepository").Return(f.assignmentRepo)
	f.uow.On("OrderRepository").Return(f.orderRepo).Once()
	f.assignmentRepo.On("UpdateStatusIf",
		ctx, f.assignmentID, assignment.Pending, assignment.Accepted, mock.AnythingOfType("time.Time"), "notes").
		Return(true, nil).Once()
	f.assignmentRepo.On("CancelSiblings",
		ctx, f.orderID, f.assignmentID, "Order accepted by another restaurant").
		Return(int64(2), nil).Once()
	f.orderRepo.On("Get", ctx, f.orderID).Return(orderAggregate, nil).Once()
	f.orderRepo.On("Update", ctx, orderAggregate).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.factory.On("Create").Return(f.uow).Once()

	var recorded ledger.Event
	f.recorder.On("RecordBestEffort", ctx, mock.AnythingOfType("ledger.Event")).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(ledger.Event) }).
		Once()

	require.NoError(t, f.handler.Handle(ctx, cmd))

	assert.Equal(t, "accept", notified.Action)
	assert.Equal(t, f.orderID, notified.OrderID)
	assert.Equal(t, f.assignmentID, notified.AssignmentID)

	assert.Equal(t, order.RestaurantAccepted, orderAggregate.Status())
	require.NotNil(t, orderAggregate.RestaurantID())
	assert.True(t, f.restaurantID.IsEqual(*orderAggregate.RestaurantID()))

	assert.Equal(t, "restaurant_accepted", recorded.Status)
	require.NotNil(t, recorded.PreviousStatus)
	assert.Equal(t, "restaurant_assigned", *recorded.PreviousStatus)
	assert.Equal(t, order.ActorRestaurant, recorded.Actor)
	assert.Equal(t, int64(2), recorded.Details["cancelled_siblings"])

	f.assignmentRepo.AssertExpectations(t)
	f.orderRepo.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
	f.recorder.AssertExpectations(t)
}

func TestRespondToAssignmentCommandHandler_Handle_AcceptLosesRace(t *testing.T) {
	ctx := t.Context()
	f := newRespondFixture(t)
	cmd := f.command(t, commands.ActionAccept)

	f.expectRequestLog()
	f.gateway.On("SendAssignmentResponse", ctx, mock.Anything).Return(nil).Once()

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("AssignmentRepository").Return(f.assignmentRepo).Once()
	f.assignmentRepo.On("UpdateStatusIf",
		ctx, f.assignmentID, assignment.Pending, assignment.Accepted, mock.AnythingOfType("time.Time"), "notes").
		Return(false, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.factory.On("Create").Return(f.uow).Once()

	err := f.handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrAssignmentAlreadyClaimed)
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.assignmentRepo.AssertNotCalled(t, "CancelSiblings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.recorder.AssertNotCalled(t, "RecordBestEffort", mock.Anything, mock.Anything)
}

func TestRespondToAssignmentCommandHandler_Handle_EndpointFailureIsHard(t *testing.T) {
	ctx := t.Context()
	f := newRespondFixture(t)
	cmd := f.command(t, commands.ActionAccept)

	f.expectRequestLog()
	f.gateway.On("SendAssignmentResponse", ctx, mock.Anything).
		Return(errors.New("endpoint says: restaurant suspended")).Once()

	err := f.handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "restaurant suspended")
	f.factory.AssertNotCalled(t, "Create")
	f.recorder.AssertNotCalled(t, "RecordBestEffort", mock.Anything, mock.Anything)
}

func TestRespondToAssignmentCommandHandler_Handle_RequestLogFailureIsSoft(t *testing.T) {
	ctx := t.Context()
	f := newRespondFixture(t)
	cmd := f.command(t, commands.ActionReject)

	f.requestLogs.On("Add", mock.Anything, mock.Anything).Return(errors.New("log table gone")).Once()
	f.gateway.On("SendAssignmentResponse", ctx, mock.Anything).Return(nil).Once()

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("AssignmentRepository").Return(f.assignmentRepo)
	f.assignmentRepo.On("UpdateStatusIf",
		ctx, f.assignmentID, assignment.Pending, assignment.Rejected, mock.AnythingOfType("time.Time"), "notes").
		Return(true, nil).Once()
	f.assignmentRepo.On("GetAllForOrderInStatus", ctx, f.orderID, assignment.Pending).
		Return([]*assignment.Assignment{pendingAssignment(t, f.orderID)}, nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.factory.On("Create").Return(f.uow).Once()

	f.recorder.On("RecordBestEffort", ctx, mock.Anything).Once()

	require.NoError(t, f.handler.Handle(ctx, cmd))
	f.requestLogs.AssertExpectations(t)
}

func TestRespondToAssignmentCommandHandler_Handle_RejectWithPendingSiblings(t *testing.T) {
	ctx := t.Context()
	f := newRespondFixture(t)
	cmd := f.command(t, commands.ActionReject)

	f.expectRequestLog()
	f.gateway.On("SendAssignmentResponse", ctx, mock.Anything).Return(nil).Once()

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("AssignmentRepository").Return(f.assignmentRepo)
	f.assignmentRepo.On("UpdateStatusIf",
		ctx, f.assignmentID, assignment.Pending, assignment.Rejected, mock.AnythingOfType("time.Time"), "notes").
		Return(true, nil).Once()
	f.assignmentRepo.On("GetAllForOrderInStatus", ctx, f.orderID, assignment.Pending).
		Return([]*assignment.Assignment{pendingAssignment(t, f.orderID)}, nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.factory.On("Create").Return(f.uow).Once()

	var recorded ledger.Event
	f.recorder.On("RecordBestEffort", ctx, mock.AnythingOfType("ledger.Event")).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(ledger.Event) }).
		Once()

	require.NoError(t, f.handler.Handle(ctx, cmd))

	assert.Equal(t, "restaurant_rejected", recorded.Status)
	// Other candidates still pending: the order must not lapse.
	f.orderRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestRespondToAssignmentCommandHandler_Handle_LastRejectLapsesOrder(t *testing.T) {
	ctx := t.Context()
	f := newRespondFixture(t)
	cmd := f.command(t, commands.ActionReject)

	f.expectRequestLog()
	f.gateway.On("SendAssignmentResponse", ctx, mock.Anything).Return(nil).Once()

	orderAggregate := restoredOrder(t, f.orderID, order.RestaurantAssigned)

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("AssignmentRepository").Return(f.assignmentRepo)
	f.uow.On("OrderRepository").Return(f.orderRepo).Once()
	f.assignmentRepo.On("UpdateStatusIf",
		ctx, f.assignmentID, assignment.Pending, assignment.Rejected, mock.AnythingOfType("time.Time"), "notes").
		Return(true, nil).Once()
	f.assignmentRepo.On("GetAllForOrderInStatus", ctx, f.orderID, assignment.Pending).
		Return([]*assignment.Assignment{}, nil).Once()
	f.assignmentRepo.On("GetAllForOrderInStatus", ctx, f.orderID, assignment.Accepted).
		Return([]*assignment.Assignment{}, nil).Once()
	f.orderRepo.On("Get", ctx, f.orderID).Return(orderAggregate, nil).Once()
	f.orderRepo.On("Update", ctx, orderAggregate).Return(nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.factory.On("Create").Return(f.uow).Once()

	var events []ledger.Event
	f.recorder.On("RecordBestEffort", ctx, mock.AnythingOfType("ledger.Event")).
		Run(func(args mock.Arguments) { events = append(events, args.Get(1).(ledger.Event)) }).
		Twice()

	require.NoError(t, f.handler.Handle(ctx, cmd))

	assert.Equal(t, order.NoRestaurantAccepted, orderAggregate.Status())
	require.Len(t, events, 2)
	assert.Equal(t, "restaurant_rejected", events[0].Status)
	assert.Equal(t, "no_restaurant_accepted", events[1].Status)
	assert.Equal(t, "No restaurants accepted the order", events[1].Notes)
}

func TestRespondToAssignmentCommandHandler_Handle_RejectDoesNotLapseWhenAcceptedExists(t *testing.T) {
	ctx := t.Context()
	f := newRespondFixture(t)
	cmd := f.command(t, commands.ActionReject)

	f.expectRequestLog()
	f.gateway.On("SendAssignmentResponse", ctx, mock.Anything).Return(nil).Once()

	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("AssignmentRepository").Return(f.assignmentRepo)
	f.assignmentRepo.On("UpdateStatusIf",
		ctx, f.assignmentID, assignment.Pending, assignment.Rejected, mock.AnythingOfType("time.Time"), "notes").
		Return(true, nil).Once()
	f.assignmentRepo.On("GetAllForOrderInStatus", ctx, f.orderID, assignment.Pending).
		Return([]*assignment.Assignment{}, nil).Once()
	f.assignmentRepo.On("GetAllForOrderInStatus", ctx, f.orderID, assignment.Accepted).
		Return([]*assignment.Assignment{pendingAssignment(t, f.orderID)}, nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.factory.On("Create").Return(f.uow).Once()

	f.recorder.On("RecordBestEffort", ctx, mock.Anything).Once()

	require.NoError(t, f.handler.Handle(ctx, cmd))
	f.orderRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestRespondToAssignmentCommandHandler_Handle_ValidationError(t *testing.T) {
	f := newRespondFixture(t)

	err := f.handler.Handle(t.Context(), commands.RespondToAssignmentCommand{})

	require.Error(t, err)
	f.gateway.AssertNotCalled(t, "SendAssignmentResponse", mock.Anything, mock.Anything)
}
