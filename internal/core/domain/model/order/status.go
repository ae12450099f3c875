package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct coordination workflow.
//
// State transitions:
//
//	placed ──> restaurant_assigned ──┬──> restaurant_accepted ──> preparing ──> ready_for_pickup ──> on_the_way ──> delivered
//	                                 ├──> restaurant_rejected ──> restaurant_assigned (rebroadcast)
//	                                 └──> no_restaurant_accepted
//
// cancelled is reachable from every non-terminal state. delivered,
// cancelled, and no_restaurant_accepted are terminal: once reached, no
// further transitions are accepted.
//
// The string spellings returned by String() are a wire contract shared
// with the notification endpoint and the persisted audit trail; they
// must not change.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// Placed is the initial status when an order is created at checkout.
	Placed

	// RestaurantAssigned indicates the order has been broadcast to one or
	// more candidate restaurants and is waiting for a response.
	RestaurantAssigned

	// RestaurantAccepted indicates a restaurant claimed the order.
	RestaurantAccepted

	// RestaurantRejected indicates the responding restaurant declined the
	// order. The order may be rebroadcast to other candidates.
	RestaurantRejected

	// Preparing indicates the accepted restaurant started preparation.
	Preparing

	// ReadyForPickup indicates preparation finished and the order awaits
	// a courier.
	ReadyForPickup

	// OnTheWay indicates the order was picked up and is being delivered.
	OnTheWay

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates the order was cancelled. Terminal.
	Cancelled

	// NoRestaurantAccepted indicates the broadcast fully lapsed with no
	// restaurant claiming the order. Terminal.
	NoRestaurantAccepted
)

// getStatusStrings returns a map of Status values to their wire spellings.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:        "unknown",
		Placed:               "placed",
		RestaurantAssigned:   "restaurant_assigned",
		RestaurantAccepted:   "restaurant_accepted",
		RestaurantRejected:   "restaurant_rejected",
		Preparing:            "preparing",
		ReadyForPickup:       "ready_for_pickup",
		OnTheWay:             "on_the_way",
		Delivered:            "delivered",
		Cancelled:            "cancelled",
		NoRestaurantAccepted: "no_restaurant_accepted",
	}
}

// getValidTransitions returns the allowed next statuses for each status.
// Cancelled is reachable from every non-terminal state, so it appears in
// every entry. Terminal statuses have no entry.
func getValidTransitions() map[Status][]Status {
	return map[Status][]Status{
		Placed:             {RestaurantAssigned, Cancelled},
		RestaurantAssigned: {RestaurantAccepted, RestaurantRejected, NoRestaurantAccepted, Cancelled},
		RestaurantAccepted: {Preparing, Cancelled},
		RestaurantRejected: {RestaurantAssigned, Cancelled},
		Preparing:          {ReadyForPickup, Cancelled},
		ReadyForPickup:     {OnTheWay, Cancelled},
		OnTheWay:           {Delivered, Cancelled},
	}
}

// Validate checks if the Status value is valid.
//
// Valid statuses are all defined lifecycle states; StatusUnknown (0) and
// any other values are invalid.
//
// Returns:
//   - nil if the status is valid
//   - error with details if the status is invalid
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the canonical wire spelling of the status.
//
// This method implements the fmt.Stringer interface and is safe to call
// on any Status value, including invalid ones, which render as "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether the status admits no further transitions.
// Terminal statuses are delivered, cancelled, and no_restaurant_accepted.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled || s == NoRestaurantAccepted
}

// CanTransitionTo reports whether the state machine allows moving from
// the current status to next. Terminal statuses allow no transitions.
func (s Status) CanTransitionTo(next Status) bool {
	allowed, ok := getValidTransitions()[s]
	if !ok {
		return false
	}
	for _, a := range allowed {
		if a == next {
			return true
		}
	}
	return false
}

// StatusFromString parses a canonical wire spelling into a Status.
//
// Only the canonical spellings from the wire contract are accepted here;
// legacy shorthand aliases are the history ledger's concern and are not
// valid order statuses.
//
// Returns an error if the string is not a recognized status.
func StatusFromString(value string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == value && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid order status", value),
	)
}
