package ports

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/kernel"
)

// RequestLog is one record of an outbound notification attempt. Logs
// are best-effort diagnostics: a failed insert is logged and ignored.
type RequestLog struct {
	ID      kernel.UUID
	OrderID kernel.UUID

	// Action is the notification action that was attempted
	Action string

	// IdempotencyKey uniquely identifies the attempt
	IdempotencyKey string

	// Payload is the serialized request body
	Payload map[string]any

	// StatusCode is the HTTP status of the response, 0 when the
	// request never completed
	StatusCode int

	// Error holds the failure message, empty on success
	Error string

	CreatedAt time.Time
}

// RequestLogRepository defines the persistence contract for outbound
// notification logs.
type RequestLogRepository interface {
	// Add persists one notification attempt record.
	Add(ctx context.Context, log RequestLog) error

	// ListForOrder retrieves the order's notification attempts, newest first.
	ListForOrder(ctx context.Context, orderID kernel.UUID) ([]RequestLog, error)
}
