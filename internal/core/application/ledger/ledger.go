// Package ledger implements the audit trail writer for the coordination
// workflow.
//
// Every status change in the system flows through the Ledger, which
// enriches raw events before they reach storage: legacy status aliases
// are normalized, unknown actors are coerced to the system actor, the
// previous status is recovered when the caller does not know it, and
// restaurant display names are resolved with a placeholder fallback.
//
// The trail is advisory by construction. RecordBestEffort and
// RecordAssignmentEvent swallow append failures after logging them, so
// a broken audit store can never block a status change.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/history"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// Event is one audit trail event to be recorded.
//
// Status is the only required payload field and may use legacy alias
// spellings; normalization happens inside the ledger. PreviousStatus,
// when nil, is recovered from the order row or, failing that, from the
// order's latest trail entry.
type Event struct {
	OrderID kernel.UUID

	// Status is the status spelling of the event (required)
	Status string

	// PreviousStatus overrides previous-status recovery when set
	PreviousStatus *string

	// Actor is coerced to ActorSystem when invalid
	Actor order.ActorKind

	// ActorID identifies the acting principal when known
	ActorID *kernel.UUID

	// RestaurantID overrides the order row's restaurant when set
	RestaurantID *kernel.UUID

	// ExpiredAt is stored on expiry-related events
	ExpiredAt *time.Time

	// Hidden excludes the entry from customer-facing trails
	Hidden bool

	Notes   string
	Details map[string]any
}

// Ledger writes enriched audit events to the history store.
type Ledger struct {
	historyRepo ports.HistoryRepository
	orderRepo   ports.OrderRepository
	directory   ports.RestaurantDirectory
	logger      *slog.Logger
}

// NewLedger creates a Ledger writing through the given repositories.
// The directory is used only for display-name enrichment and may fail
// without consequence.
func NewLedger(
	historyRepo ports.HistoryRepository,
	orderRepo ports.OrderRepository,
	directory ports.RestaurantDirectory,
	logger *slog.Logger,
) (*Ledger, error) {
	if historyRepo == nil {
		return nil, errs.NewValueIsRequiredError("historyRepo")
	}
	if orderRepo == nil {
		return nil, errs.NewValueIsRequiredError("orderRepo")
	}
	if directory == nil {
		return nil, errs.NewValueIsRequiredError("directory")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Ledger{
		historyRepo: historyRepo,
		orderRepo:   orderRepo,
		directory:   directory,
		logger:      logger.With("component", "ledger"),
	}, nil
}

// Record enriches the event and appends it to the order's audit trail.
//
// Enrichment never fails the append: a missing order row just means no
// previous status is recovered, and a failed name lookup records the
// placeholder name instead.
func (l *Ledger) Record(ctx context.Context, event Event) error {
	if event.Status == "" {
		return errs.NewValueIsRequiredError("status")
	}
	if err := event.OrderID.Validate(); err != nil {
		return err
	}

	var orderRow *order.Order
	if row, err := l.orderRepo.Get(ctx, event.OrderID); err == nil {
		orderRow = row
	}

	previous := l.recoverPreviousStatus(ctx, event, orderRow)
	restaurantID, restaurantName := l.resolveRestaurant(ctx, event, orderRow)

	entry, err := history.NewEntry(
		kernel.NewUUID(),
		event.OrderID,
		event.Status,
		previous,
		event.Actor.Coerce().String(),
		event.ActorID,
		event.Notes,
		event.Details,
		history.Enrichment{
			RestaurantID:   restaurantID,
			RestaurantName: restaurantName,
			ExpiredAt:      event.ExpiredAt,
			Hidden:         event.Hidden,
		},
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	return l.historyRepo.Append(ctx, entry)
}

// RecordBestEffort appends the event, logging instead of returning any
// failure. Used on paths where the status change has already been
// committed and must not be undone over a trail write.
func (l *Ledger) RecordBestEffort(ctx context.Context, event Event) {
	if err := l.Record(ctx, event); err != nil {
		l.logger.WarnContext(ctx, "audit trail append failed",
			"order_id", event.OrderID.String(),
			"status", event.Status,
			"error", err)
	}
}

// RecordIdempotent appends the event at most once for the given
// idempotency key. A duplicate (same order, status, and key) succeeds
// as a no-op without touching the trail.
func (l *Ledger) RecordIdempotent(ctx context.Context, event Event, key string) error {
	if key == "" {
		return errs.NewValueIsRequiredError("key")
	}
	if err := event.OrderID.Validate(); err != nil {
		return err
	}

	canonical := history.CanonicalStatus(event.Status)
	exists, err := l.historyRepo.HasIdempotencyKey(ctx, event.OrderID, canonical, key)
	if err != nil {
		return err
	}
	if exists {
		l.logger.DebugContext(ctx, "duplicate audit event skipped",
			"order_id", event.OrderID.String(),
			"status", canonical,
			"idempotency_key", key)
		return nil
	}

	if event.Details == nil {
		event.Details = map[string]any{}
	}
	event.Details[history.IdempotencyKeyField] = key

	return l.Record(ctx, event)
}

// RecordAssignmentEvent appends an assignment-level audit event,
// logging instead of returning any failure.
func (l *Ledger) RecordAssignmentEvent(ctx context.Context, event history.AssignmentEvent) {
	if err := l.historyRepo.AppendAssignmentEvent(ctx, event); err != nil {
		l.logger.WarnContext(ctx, "assignment audit append failed",
			"assignment_id", event.AssignmentID().String(),
			"order_id", event.OrderID().String(),
			"status", event.Status(),
			"error", err)
	}
}

// recoverPreviousStatus resolves the status the order held before the
// event: the caller's explicit value wins, then the order row, then the
// order's latest trail entry, then nothing.
func (l *Ledger) recoverPreviousStatus(ctx context.Context, event Event, orderRow *order.Order) *string {
	if event.PreviousStatus != nil {
		return event.PreviousStatus
	}

	if orderRow != nil {
		prev := orderRow.Status().String()
		return &prev
	}

	latest, err := l.historyRepo.LatestForOrder(ctx, event.OrderID)
	if err != nil || latest == nil {
		return nil
	}
	prev := latest.Status()
	return &prev
}

// resolveRestaurant determines the restaurant involved in the event:
// the caller's explicit value wins, then the order row, then nothing.
// A failed name lookup resolves to the placeholder name.
func (l *Ledger) resolveRestaurant(
	ctx context.Context,
	event Event,
	orderRow *order.Order,
) (*kernel.UUID, *string) {
	restaurantID := event.RestaurantID
	if restaurantID == nil && orderRow != nil {
		restaurantID = orderRow.RestaurantID()
	}
	if restaurantID == nil {
		return nil, nil
	}

	name, err := l.directory.GetName(ctx, *restaurantID)
	if err != nil || name == "" {
		name = history.UnknownRestaurantName
	}

	return restaurantID, &name
}
