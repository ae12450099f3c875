package assignment

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of a restaurant assignment.
//
// Every assignment starts in pending and resolves exactly once:
//
//	pending ──┬──> accepted   (restaurant claimed the order)
//	          ├──> rejected   (restaurant declined)
//	          ├──> expired    (response window lapsed)
//	          └──> cancelled  (a sibling won, or the order was cancelled)
//
// All four resolved statuses are final. Resolved assignments never
// return to pending and never change to another resolved status; a
// rejected or expired assignment keeps its status even when siblings
// are swept after a win.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// Pending means the restaurant has been offered the order and has
	// not responded yet. This is the only non-final status.
	Pending

	// Accepted means the restaurant claimed the order. At most one
	// assignment per order ever reaches this status.
	Accepted

	// Rejected means the restaurant declined the order.
	Rejected

	// Expired means the response window lapsed without a response.
	Expired

	// Cancelled means the assignment was withdrawn, either because a
	// sibling assignment won or the order itself was cancelled.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown: "unknown",
		Pending:       "pending",
		Accepted:      "accepted",
		Rejected:      "rejected",
		Expired:       "expired",
		Cancelled:     "cancelled",
	}
}

// Validate checks if the Status value is valid.
// StatusUnknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire spelling of the status.
// Invalid values render as "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsFinal reports whether the assignment has been resolved.
// Every status except Pending is final.
func (s Status) IsFinal() bool {
	return s == Accepted || s == Rejected || s == Expired || s == Cancelled
}

// StatusFromString parses a wire spelling into a Status.
// Returns an error if the string is not a recognized assignment status.
func StatusFromString(value string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == value && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause(
		"status is invalid",
		fmt.Errorf("%q is not a valid assignment status", value),
	)
}
