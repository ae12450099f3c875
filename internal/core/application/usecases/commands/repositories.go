// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"orderflow/internal/core/application/ledger"
	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// AssignmentRepoFactory provides access to assignment repository within a transaction.
	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	// OrderUoW manages transactions for order-only operations.
	// Used when commands only modify order aggregates.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions across order and assignment aggregates.
	// Used for commands that coordinate changes between both: the win
	// sequence, the expiry sweep, and the broadcast fan-out.
	UoW interface {
		TxManager
		OrderRepoFactory
		AssignmentRepoFactory
	}

	// UoWFactory creates new unit of work instances for cross-aggregate operations.
	UoWFactory interface {
		Create() UoW
	}
)

// HistoryRecorder is the audit trail seam used by command handlers.
// Record surfaces its failure; the best-effort variants log and swallow
// theirs, which is the contract handlers rely on after a commit.
type HistoryRecorder interface {
	Record(ctx context.Context, event ledger.Event) error
	RecordBestEffort(ctx context.Context, event ledger.Event)
	RecordIdempotent(ctx context.Context, event ledger.Event, key string) error
	RecordAssignmentEvent(ctx context.Context, event history.AssignmentEvent)
}
