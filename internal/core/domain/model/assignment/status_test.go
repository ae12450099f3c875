package assignment_test

import (
	"fmt"
	"testing"

	"orderflow/internal/core/domain/model/assignment"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Constants(t *testing.T) {
	t.Run("should have correct enum values", func(t *testing.T) {
		assert.Equal(t, 0, int(assignment.StatusUnknown))
		assert.Equal(t, 1, int(assignment.Pending))
		assert.Equal(t, 2, int(assignment.Accepted))
		assert.Equal(t, 3, int(assignment.Rejected))
		assert.Equal(t, 4, int(assignment.Expired))
		assert.Equal(t, 5, int(assignment.Cancelled))
	})
}

func TestStatus_Validate(t *testing.T) {
	t.Run("should validate valid statuses", func(t *testing.T) {
		validStatuses := []assignment.Status{
			assignment.Pending,
			assignment.Accepted,
			assignment.Rejected,
			assignment.Expired,
			assignment.Cancelled,
		}

		for _, status := range validStatuses {
			t.Run(fmt.Sprintf("should validate %s status", status.String()), func(t *testing.T) {
				require.NoError(t, status.Validate())
			})
		}
	})

	t.Run("should reject invalid status values", func(t *testing.T) {
		invalidStatuses := []assignment.Status{
			assignment.StatusUnknown,
			assignment.Status(-1),
			assignment.Status(6),
			assignment.Status(100),
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
	t.Run("should return wire spellings", func(t *testing.T) {
		testCases := []struct {
			status   assignment.Status
			expected string
		}{
			{assignment.Pending, "pending"},
			{assignment.Accepted, "accepted"},
			{assignment.Rejected, "rejected"},
			{assignment.Expired, "expired"},
			{assignment.Cancelled, "cancelled"},
		}

		for _, tc := range testCases {
			t.Run(fmt.Sprintf("should return %s", tc.expected), func(t *testing.T) {
				assert.Equal(t, tc.expected, tc.status.String())
			})
		}
	})

	t.Run("should return unknown for invalid statuses", func(t *testing.T) {
		assert.Equal(t, "unknown", assignment.StatusUnknown.String())
		assert.Equal(t, "unknown", assignment.Status(-1).String())
		assert.Equal(t, "unknown", assignment.Status(6).String())
	})
}

func TestStatus_IsFinal(t *testing.T) {
	t.Run("pending is the only non-final status", func(t *testing.T) {
		assert.False(t, assignment.Pending.IsFinal())
	})

	t.Run("resolved statuses are final", func(t *testing.T) {
		final := []assignment.Status{
			assignment.Accepted,
			assignment.Rejected,
			assignment.Expired,
			assignment.Cancelled,
		}

		for _, status := range final {
			t.Run(fmt.Sprintf("%s is final", status.String()), func(t *testing.T) {
				assert.True(t, status.IsFinal())
			})
		}
	})

	t.Run("invalid statuses are not final", func(t *testing.T) {
		assert.False(t, assignment.StatusUnknown.IsFinal())
		assert.False(t, assignment.Status(100).IsFinal())
	})
}

func TestStatusFromString(t *testing.T) {
	t.Run("should parse wire spellings", func(t *testing.T) {
		testCases := []struct {
			value    string
			expected assignment.Status
		}{
			{"pending", assignment.Pending},
			{"accepted", assignment.Accepted},
			{"rejected", assignment.Rejected},
			{"expired", assignment.Expired},
			{"cancelled", assignment.Cancelled},
		}

		for _, tc := range testCases {
			t.Run(fmt.Sprintf("should parse %q", tc.value), func(t *testing.T) {
				parsed, err := assignment.StatusFromString(tc.value)

				require.NoError(t, err)
				assert.Equal(t, tc.expected, parsed)
			})
		}
	})

	t.Run("should reject unrecognized spellings", func(t *testing.T) {
		invalid := []string{"", "unknown", "PENDING", "canceled", "declined"}

		for _, value := range invalid {
			t.Run(fmt.Sprintf("should reject %q", value), func(t *testing.T) {
				parsed, err := assignment.StatusFromString(value)

				require.Error(t, err)
				assert.Equal(t, assignment.StatusUnknown, parsed)
				assert.IsType(t, &errs.ValueIsInvalidError{}, err)
			})
		}
	})
}
