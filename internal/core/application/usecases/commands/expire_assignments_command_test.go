package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExpireAssignmentsCommand(t *testing.T) {
	t.Run("should create command with valid order id", func(t *testing.T) {
		orderID := kernel.NewUUID()

		cmd, err := commands.NewExpireAssignmentsCommand(orderID)

		require.NoError(t, err)
		assert.True(t, orderID.IsEqual(cmd.OrderID()))
		assert.NoError(t, cmd.Validate())
	})

	t.Run("should return error when order id is empty", func(t *testing.T) {
		_, err := commands.NewExpireAssignmentsCommand(kernel.UUID{})

		require.Error(t, err)
	})

	t.Run("should return error when command is not constructed", func(t *testing.T) {
		var cmd commands.ExpireAssignmentsCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrExpireAssignmentsCommandIsNotConstructed)
	})
}
