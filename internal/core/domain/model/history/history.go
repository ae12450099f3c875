package history

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"
)

const (
	// IdempotencyKeyField is the details key that carries an entry's
	// idempotency token. Entries sharing an order, status, and token
	// are the same logical event and are appended at most once.
	IdempotencyKeyField = "idempotency_key"

	// UnknownRestaurantName is recorded when a restaurant's display name
	// cannot be resolved. A missing name never blocks an append.
	UnknownRestaurantName = "Unknown Restaurant"
)

// ErrEntryIsNotConstructed is returned when an Entry instance was not
// created through the NewEntry or RestoreEntry factory methods.
var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry constructor")

// getStatusAliases maps legacy shorthand status spellings to their
// canonical wire forms. Entries arrive from several writers, some of
// which predate the canonical vocabulary; normalizing at append time
// keeps the persisted trail alias-free.
func getStatusAliases() map[string]string {
	return map[string]string{
		"accepted":   "restaurant_accepted",
		"rejected":   "restaurant_rejected",
		"ready":      "ready_for_pickup",
		"delivering": "on_the_way",
		"completed":  "delivered",
	}
}

// CanonicalStatus normalizes a status spelling for the audit trail.
// Known legacy aliases map to their canonical forms; every other
// spelling passes through unchanged, so the trail can also carry
// statuses outside the order state machine.
func CanonicalStatus(status string) string {
	if canonical, ok := getStatusAliases()[status]; ok {
		return canonical
	}
	return status
}

// Entry is one immutable row of an order's audit trail. Entries are
// append-only: they are never updated or deleted, and a failed append
// never blocks the status change it describes.
//
// Status is a free-form string rather than an order.Status: the trail
// records what was requested, including statuses the state machine
// does not model, after alias normalization.
type Entry struct {
	id      kernel.UUID
	orderID kernel.UUID

	// status is the canonical spelling of the recorded event
	status string

	// previousStatus is the status the order held before the event,
	// nil when no prior state could be determined
	previousStatus *string

	// restaurantID is the restaurant involved in the event, nil for
	// transitions with no restaurant (pre-assignment, cancellation)
	restaurantID *kernel.UUID

	// restaurantName is the resolved display name at append time,
	// denormalized so the trail survives directory changes
	restaurantName *string

	// changedByType is the wire spelling of the acting actor kind
	changedByType string

	// changedByID identifies the acting principal when known
	changedByID *kernel.UUID

	notes string

	// details carries free-form event context, including the
	// idempotency token under IdempotencyKeyField when present
	details map[string]any

	// expiredAt is the expiry instant the event refers to, set only on
	// expiry-related entries
	expiredAt *time.Time

	// visible controls whether customer-facing trails include the entry
	visible bool

	createdAt time.Time

	isConstructed bool
}

// Enrichment groups the optional denormalized context stored alongside
// an entry. The zero value means no restaurant, no expiry instant, and
// a visible entry.
type Enrichment struct {
	RestaurantID   *kernel.UUID
	RestaurantName *string
	ExpiredAt      *time.Time
	Hidden         bool
}

// NewEntry creates an audit trail entry.
//
// The status is normalized through CanonicalStatus and the details map
// is copied, so later mutation of the caller's map cannot alter the
// entry.
//
// Parameters:
//   - id: unique identifier for the entry
//   - orderID: the order the entry belongs to
//   - status: status spelling of the event (required, aliases allowed)
//   - previousStatus: prior status, nil when unknown
//   - changedByType: wire spelling of the acting actor kind
//   - changedByID: acting principal, nil when not applicable
//   - notes: free-form note
//   - details: free-form event context, may be nil
//   - enrichment: restaurant/expiry/visibility context, zero value allowed
//   - createdAt: event instant; normalized to UTC
func NewEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	status string,
	previousStatus *string,
	changedByType string,
	changedByID *kernel.UUID,
	notes string,
	details map[string]any,
	enrichment Enrichment,
	createdAt time.Time,
) (*Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if status == "" {
		return nil, errs.NewValueIsRequiredError("status")
	}
	if changedByID != nil {
		if err := changedByID.Validate(); err != nil {
			return nil, err
		}
	}
	if enrichment.RestaurantID != nil {
		if err := enrichment.RestaurantID.Validate(); err != nil {
			return nil, err
		}
	}

	canonical := CanonicalStatus(status)
	if previousStatus != nil {
		prev := CanonicalStatus(*previousStatus)
		previousStatus = &prev
	}

	expiredAt := enrichment.ExpiredAt
	if expiredAt != nil {
		utc := expiredAt.UTC()
		expiredAt = &utc
	}

	return &Entry{
		id:             id,
		orderID:        orderID,
		status:         canonical,
		previousStatus: previousStatus,
		restaurantID:   enrichment.RestaurantID,
		restaurantName: enrichment.RestaurantName,
		changedByType:  changedByType,
		changedByID:    changedByID,
		notes:          notes,
		details:        copyDetails(details),
		expiredAt:      expiredAt,
		visible:        !enrichment.Hidden,
		createdAt:      createdAt.UTC(),
		isConstructed:  true,
	}, nil
}

// RestoreEntry reconstructs an Entry from persistence. Stored entries
// are already canonical, so no alias normalization is applied.
func RestoreEntry(
	id kernel.UUID,
	orderID kernel.UUID,
	status string,
	previousStatus *string,
	changedByType string,
	changedByID *kernel.UUID,
	notes string,
	details map[string]any,
	enrichment Enrichment,
	createdAt time.Time,
) (*Entry, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if status == "" {
		return nil, errs.NewValueIsRequiredError("status")
	}

	return &Entry{
		id:             id,
		orderID:        orderID,
		status:         status,
		previousStatus: previousStatus,
		restaurantID:   enrichment.RestaurantID,
		restaurantName: enrichment.RestaurantName,
		changedByType:  changedByType,
		changedByID:    changedByID,
		notes:          notes,
		details:        copyDetails(details),
		expiredAt:      enrichment.ExpiredAt,
		visible:        !enrichment.Hidden,
		createdAt:      createdAt.UTC(),
		isConstructed:  true,
	}, nil
}

// Validate ensures the Entry was properly constructed through a factory.
// Returns ErrEntryIsNotConstructed otherwise.
func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

// ID returns the entry's unique identifier.
func (e *Entry) ID() kernel.UUID {
	return e.id
}

// OrderID returns the identifier of the order the entry belongs to.
func (e *Entry) OrderID() kernel.UUID {
	return e.orderID
}

// Status returns the canonical status spelling of the recorded event.
func (e *Entry) Status() string {
	return e.status
}

// PreviousStatus returns the prior status, or nil when unknown.
func (e *Entry) PreviousStatus() *string {
	return e.previousStatus
}

// RestaurantID returns the restaurant involved in the event, or nil
// when no restaurant took part.
func (e *Entry) RestaurantID() *kernel.UUID {
	return e.restaurantID
}

// RestaurantName returns the display name resolved at append time, or
// nil when no restaurant took part.
func (e *Entry) RestaurantName() *string {
	return e.restaurantName
}

// ChangedByType returns the wire spelling of the acting actor kind.
func (e *Entry) ChangedByType() string {
	return e.changedByType
}

// ChangedByID returns the acting principal, or nil when not applicable.
func (e *Entry) ChangedByID() *kernel.UUID {
	return e.changedByID
}

// Notes returns the free-form note.
func (e *Entry) Notes() string {
	return e.notes
}

// Details returns a copy of the free-form event context.
func (e *Entry) Details() map[string]any {
	return copyDetails(e.details)
}

// IdempotencyKey returns the idempotency token from the details, or an
// empty string when the entry carries none.
func (e *Entry) IdempotencyKey() string {
	if e.details == nil {
		return ""
	}
	key, _ := e.details[IdempotencyKeyField].(string)
	return key
}

// ExpiredAt returns the expiry instant the event refers to, or nil for
// entries unrelated to expiry.
func (e *Entry) ExpiredAt() *time.Time {
	return e.expiredAt
}

// Visible reports whether customer-facing trails include the entry.
func (e *Entry) Visible() bool {
	return e.visible
}

// CreatedAt returns the event instant (UTC).
func (e *Entry) CreatedAt() time.Time {
	return e.createdAt
}

func copyDetails(details map[string]any) map[string]any {
	if details == nil {
		return nil
	}
	copied := make(map[string]any, len(details))
	for k, v := range details {
		copied[k] = v
	}
	return copied
}
