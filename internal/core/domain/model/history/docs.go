// Package history models the append-only audit trail of the
// coordination workflow.
//
// Two trails exist. Entry rows record order-level status events and are
// the authoritative account of what happened to an order: appends are
// idempotent when the caller supplies an idempotency token, and rows
// are never updated or deleted. AssignmentEvent rows record
// assignment-level outcomes (expiry, sibling cancellation) and are
// best-effort only.
//
// Status spellings on Entry rows are normalized through CanonicalStatus
// so legacy shorthand never reaches storage.
package history
