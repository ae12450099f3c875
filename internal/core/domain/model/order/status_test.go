package order_test

import (
	"fmt"
	"testing"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allValidStatuses() []order.Status {
	return []order.Status{
		order.Placed,
		order.RestaurantAssigned,
		order.RestaurantAccepted,
		order.RestaurantRejected,
		order.Preparing,
		order.ReadyForPickup,
		order.OnTheWay,
		order.Delivered,
		order.Cancelled,
		order.NoRestaurantAccepted,
	}
}

func TestStatus_Constants(t *testing.T) {
	t.Run("should have correct enum values", func(t *testing.T) {
		assert.Equal(t, 0, int(order.StatusUnknown))
		assert.Equal(t, 1, int(order.Placed))
		assert.Equal(t, 2, int(order.RestaurantAssigned))
		assert.Equal(t, 3, int(order.RestaurantAccepted))
		assert.Equal(t, 4, int(order.RestaurantRejected))
		assert.Equal(t, 5, int(order.Preparing))
		assert.Equal(t, 6, int(order.ReadyForPickup))
		assert.Equal(t, 7, int(order.OnTheWay))
		assert.Equal(t, 8, int(order.Delivered))
		assert.Equal(t, 9, int(order.Cancelled))
		assert.Equal(t, 10, int(order.NoRestaurantAccepted))
	})

	t.Run("should have distinct values", func(t *testing.T) {
		statuses := allValidStatuses()

		for i, status1 := range statuses {
			for j, status2 := range statuses {
				if i != j {
					assert.NotEqual(t, status1, status2,
						"statuses at indices %d and %d should be different", i, j)
				}
			}
		}
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate valid statuses", func(t *testing.T) {
		for _, status := range allValidStatuses() {
			t.Run(fmt.Sprintf("should validate %s status", status.String()), func(t *testing.T) {
				err := status.Validate()
				require.NoError(t, err)
			})
		}
	})

	t.Run("should reject StatusUnknown", func(t *testing.T) {
		err := order.StatusUnknown.Validate()

		require.Error(t, err)
		assert.IsType(t, &errs.ValueIsInvalidError{}, err)
		assert.Contains(t, err.Error(), "status is invalid")
		assert.Contains(t, err.Error(), "0 is not a valid status")
	})

	t.Run("should reject invalid status values", func(t *testing.T) {
		invalidStatuses := []order.Status{
			order.Status(-1),
			order.Status(11),
			order.Status(100),
		}

		for _, status := range invalidStatuses {
			t.Run(fmt.Sprintf("should reject status value %d", int(status)), func(t *testing.T) {
				err := status.Validate()

				require.Error(t, err)
				assert.IsType(t, &errs.ValueIsInvalidError{}, err)
				assert.Contains(t, err.Error(), "status is invalid")
				assert.Contains(t, err.Error(), fmt.Sprintf("%d is not a valid status", int(status)))
			})
		}
	})
}

func TestStatus_String(t *testing.T) {
	t.Run("should return canonical wire spellings", func(t *testing.T) {
		testCases := []struct {
			status   order.Status
			expected string
		}{
			{order.Placed, "placed"},
			{order.RestaurantAssigned, "restaurant_assigned"},
			{order.RestaurantAccepted, "restaurant_accepted"},
			{order.RestaurantRejected, "restaurant_rejected"},
			{order.Preparing, "preparing"},
			{order.ReadyForPickup, "ready_for_pickup"},
			{order.OnTheWay, "on_the_way"},
			{order.Delivered, "delivered"},
			{order.Cancelled, "cancelled"},
			{order.NoRestaurantAccepted, "no_restaurant_accepted"},
		}

		for _, tc := range testCases {
			t.Run(fmt.Sprintf("should return %s for %d", tc.expected, int(tc.status)), func(t *testing.T) {
				assert.Equal(t, tc.expected, tc.status.String())
			})
		}
	})

	t.Run("should return unknown for invalid statuses", func(t *testing.T) {
		invalidStatuses := []order.Status{
			order.Status(-1),
			order.Status(11),
			order.Status(100),
		}

		for _, status := range invalidStatuses {
			t.Run(fmt.Sprintf("should return unknown for status value %d", int(status)), func(t *testing.T) {
				assert.Equal(t, "unknown", status.String())
			})
		}
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	t.Run("should report terminal statuses", func(t *testing.T) {
		terminal := []order.Status{
			order.Delivered,
			order.Cancelled,
			order.NoRestaurantAccepted,
		}

		for _, status := range terminal {
			t.Run(fmt.Sprintf("%s is terminal", status.String()), func(t *testing.T) {
				assert.True(t, status.IsTerminal())
			})
		}
	})

	t.Run("should report non-terminal statuses", func(t *testing.T) {
		nonTerminal := []order.Status{
			order.Placed,
			order.RestaurantAssigned,
			order.RestaurantAccepted,
			order.RestaurantRejected,
			order.Preparing,
			order.ReadyForPickup,
			order.OnTheWay,
		}

		for _, status := range nonTerminal {
			t.Run(fmt.Sprintf("%s is not terminal", status.String()), func(t *testing.T) {
				assert.False(t, status.IsTerminal())
			})
		}
	})
}

func TestStatus_CanTransitionTo(t *testing.T) {
	t.Run("should follow the happy path end to end", func(t *testing.T) {
		path := []order.Status{
			order.Placed,
			order.RestaurantAssigned,
			order.RestaurantAccepted,
			order.Preparing,
			order.ReadyForPickup,
			order.OnTheWay,
			order.Delivered,
		}

		for i := 0; i < len(path)-1; i++ {
			assert.True(t, path[i].CanTransitionTo(path[i+1]),
				"%s should transition to %s", path[i], path[i+1])
		}
	})

	t.Run("should allow rebroadcast after rejection", func(t *testing.T) {
		assert.True(t, order.RestaurantAssigned.CanTransitionTo(order.RestaurantRejected))
		assert.True(t, order.RestaurantRejected.CanTransitionTo(order.RestaurantAssigned))
	})

	t.Run("should allow broadcast lapse to no_restaurant_accepted", func(t *testing.T) {
		assert.True(t, order.RestaurantAssigned.CanTransitionTo(order.NoRestaurantAccepted))
	})

	t.Run("should allow cancellation from every non-terminal status", func(t *testing.T) {
		nonTerminal := []order.Status{
			order.Placed,
			order.RestaurantAssigned,
			order.RestaurantAccepted,
			order.RestaurantRejected,
			order.Preparing,
			order.ReadyForPickup,
			order.OnTheWay,
		}

		for _, status := range nonTerminal {
			t.Run(fmt.Sprintf("%s can be cancelled", status.String()), func(t *testing.T) {
				assert.True(t, status.CanTransitionTo(order.Cancelled))
			})
		}
	})

	t.Run("should reject transitions out of terminal statuses", func(t *testing.T) {
		terminal := []order.Status{
			order.Delivered,
			order.Cancelled,
			order.NoRestaurantAccepted,
		}

		for _, status := range terminal {
			for _, next := range allValidStatuses() {
				assert.False(t, status.CanTransitionTo(next),
					"%s should not transition to %s", status, next)
			}
		}
	})

	t.Run("should reject skipping phases", func(t *testing.T) {
		assert.False(t, order.Placed.CanTransitionTo(order.Delivered))
		assert.False(t, order.Placed.CanTransitionTo(order.Preparing))
		assert.False(t, order.RestaurantAssigned.CanTransitionTo(order.ReadyForPickup))
		assert.False(t, order.RestaurantAccepted.CanTransitionTo(order.OnTheWay))
		assert.False(t, order.Preparing.CanTransitionTo(order.Delivered))
	})

	t.Run("should reject moving backwards", func(t *testing.T) {
		assert.False(t, order.Preparing.CanTransitionTo(order.RestaurantAccepted))
		assert.False(t, order.OnTheWay.CanTransitionTo(order.ReadyForPickup))
		assert.False(t, order.RestaurantAccepted.CanTransitionTo(order.Placed))
	})

	t.Run("should reject transitions from invalid statuses", func(t *testing.T) {
		assert.False(t, order.StatusUnknown.CanTransitionTo(order.Placed))
		assert.False(t, order.Status(100).CanTransitionTo(order.Cancelled))
	})
}

func TestStatusFromString(t *testing.T) {
	t.Run("should parse canonical spellings", func(t *testing.T) {
		for _, status := range allValidStatuses() {
			t.Run(fmt.Sprintf("should parse %s", status.String()), func(t *testing.T) {
				parsed, err := order.StatusFromString(status.String())

				require.NoError(t, err)
				assert.Equal(t, status, parsed)
			})
		}
	})

	t.Run("should reject unrecognized spellings", func(t *testing.T) {
		invalid := []string{
			"",
			"unknown",
			"PLACED",
			"Restaurant_Assigned",
			"accepted",
			"rejected",
			"ready",
			"delivering",
			"completed",
			"in flight",
		}

		for _, value := range invalid {
			t.Run(fmt.Sprintf("should reject %q", value), func(t *testing.T) {
				parsed, err := order.StatusFromString(value)

				require.Error(t, err)
				assert.Equal(t, order.StatusUnknown, parsed)
				assert.IsType(t, &errs.ValueIsInvalidError{}, err)
				assert.Contains(t, err.Error(), "status is invalid")
			})
		}
	})
}

func TestStatus_Consistency(t *testing.T) {
	t.Run("should have consistent String() and Validate() behavior", func(t *testing.T) {
		allPossibleStatuses := append(allValidStatuses(),
			order.Status(-100),
			order.Status(-1),
			order.StatusUnknown,
			order.Status(11),
			order.Status(100),
		)

		for _, status := range allPossibleStatuses {
			t.Run(fmt.Sprintf("status %d", int(status)), func(t *testing.T) {
				str := status.String()
				err := status.Validate()

				if str == "unknown" {
					require.Error(t, err, "status with String() 'unknown' should fail validation")
				} else {
					require.NoError(t, err, "status with valid String() should pass validation")
				}
			})
		}
	})

	t.Run("should round-trip every valid status through StatusFromString", func(t *testing.T) {
		for _, status := range allValidStatuses() {
			parsed, err := order.StatusFromString(status.String())
			require.NoError(t, err)
			assert.Equal(t, status, parsed)
		}
	})

	t.Run("terminal statuses should admit no transitions", func(t *testing.T) {
		for _, status := range allValidStatuses() {
			if !status.IsTerminal() {
				continue
			}
			for _, next := range allValidStatuses() {
				assert.False(t, status.CanTransitionTo(next))
			}
		}
	})
}
