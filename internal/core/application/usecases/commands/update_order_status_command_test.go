package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateOrderStatusCommand(t *testing.T) {
	t.Run("should create command with valid parameters", func(t *testing.T) {
		orderID := kernel.NewUUID()
		restaurantID := kernel.NewUUID()
		actorID := kernel.NewUUID()

		cmd, err := commands.NewUpdateOrderStatusCommand(
			orderID, order.Preparing, &restaurantID, "broadcast",
			map[string]any{"station": "grill"}, &actorID, order.ActorRestaurant,
		)

		require.NoError(t, err)
		assert.Equal(t, orderID, cmd.OrderID())
		assert.Equal(t, order.Preparing, cmd.Status())
		assert.Equal(t, &restaurantID, cmd.RestaurantID())
		assert.Equal(t, "broadcast", cmd.AssignmentSource())
		assert.Equal(t, map[string]any{"station": "grill"}, cmd.Metadata())
		assert.Equal(t, &actorID, cmd.ActorID())
		assert.Equal(t, order.ActorRestaurant, cmd.ActorKind())
		require.NoError(t, cmd.Validate())
	})

	t.Run("should coerce invalid actor kind to system", func(t *testing.T) {
		cmd, err := commands.NewUpdateOrderStatusCommand(
			kernel.NewUUID(), order.Cancelled, nil, "", nil, nil, order.ActorKind(99),
		)

		require.NoError(t, err)
		assert.Equal(t, order.ActorSystem, cmd.ActorKind())
	})

	t.Run("should reject empty order ID", func(t *testing.T) {
		var orderID kernel.UUID

		_, err := commands.NewUpdateOrderStatusCommand(
			orderID, order.Cancelled, nil, "", nil, nil, order.ActorSystem,
		)

		require.Error(t, err)
	})

	t.Run("should reject invalid status", func(t *testing.T) {
		_, err := commands.NewUpdateOrderStatusCommand(
			kernel.NewUUID(), order.StatusUnknown, nil, "", nil, nil, order.ActorSystem,
		)

		require.Error(t, err)
	})

	t.Run("should reject empty restaurant ID", func(t *testing.T) {
		var restaurantID kernel.UUID

		_, err := commands.NewUpdateOrderStatusCommand(
			kernel.NewUUID(), order.RestaurantAccepted, &restaurantID, "", nil, nil, order.ActorSystem,
		)

		require.Error(t, err)
	})

	t.Run("should copy the metadata map", func(t *testing.T) {
		metadata := map[string]any{"attempt": 1}

		cmd, err := commands.NewUpdateOrderStatusCommand(
			kernel.NewUUID(), order.Cancelled, nil, "", metadata, nil, order.ActorSystem,
		)
		require.NoError(t, err)

		metadata["attempt"] = 99
		assert.Equal(t, 1, cmd.Metadata()["attempt"])
	})

	t.Run("should reject command not created via constructor", func(t *testing.T) {
		cmd := commands.UpdateOrderStatusCommand{}

		err := cmd.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, commands.ErrUpdateOrderStatusCommandIsNotConstructed)
	})
}
