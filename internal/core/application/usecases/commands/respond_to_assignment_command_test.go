package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRespondToAssignmentCommand(t *testing.T) {
	t.Run("should create accept command", func(t *testing.T) {
		orderID := kernel.NewUUID()
		restaurantID := kernel.NewUUID()
		assignmentID := kernel.NewUUID()

		cmd, err := commands.NewRespondToAssignmentCommand(
			orderID, restaurantID, assignmentID,
			commands.ActionAccept, 40.7128, -74.0060, "ready in 20")

		require.NoError(t, err)
		assert.Equal(t, orderID, cmd.OrderID())
		assert.Equal(t, restaurantID, cmd.RestaurantID())
		assert.Equal(t, assignmentID, cmd.AssignmentID())
		assert.Equal(t, commands.ActionAccept, cmd.Action())
		assert.InDelta(t, 40.7128, cmd.Latitude(), 0.0001)
		assert.InDelta(t, -74.0060, cmd.Longitude(), 0.0001)
		assert.Equal(t, "ready in 20", cmd.Notes())
		assert.True(t, cmd.IsAccept())
		require.NoError(t, cmd.Validate())
	})

	t.Run("should create reject command", func(t *testing.T) {
		cmd, err := commands.NewRespondToAssignmentCommand(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			commands.ActionReject, 0, 0, "")

		require.NoError(t, err)
		assert.False(t, cmd.IsAccept())
	})

	t.Run("should reject unknown actions", func(t *testing.T) {
		invalid := []string{"", "ACCEPT", "decline", "maybe"}

		for _, action := range invalid {
			t.Run("should reject "+action, func(t *testing.T) {
				_, err := commands.NewRespondToAssignmentCommand(
					kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), action, 0, 0, "")

				require.Error(t, err)
			})
		}
	})

	t.Run("should reject empty identifiers", func(t *testing.T) {
		var empty kernel.UUID
		valid := kernel.NewUUID()

		_, err := commands.NewRespondToAssignmentCommand(
			empty, valid, valid, commands.ActionAccept, 0, 0, "")
		require.Error(t, err)

		_, err = commands.NewRespondToAssignmentCommand(
			valid, empty, valid, commands.ActionAccept, 0, 0, "")
		require.Error(t, err)

		_, err = commands.NewRespondToAssignmentCommand(
			valid, valid, empty, commands.ActionAccept, 0, 0, "")
		require.Error(t, err)
	})

	t.Run("should reject command not created via constructor", func(t *testing.T) {
		cmd := commands.RespondToAssignmentCommand{}

		err := cmd.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, commands.ErrRespondToAssignmentCommandIsNotConstructed)
	})
}
