// Package assignment implements the restaurant assignment aggregate.
//
// An assignment is a single offer of one order to one candidate
// restaurant. Broadcasting an order creates several assignments at once;
// each starts pending and resolves exactly once to accepted, rejected,
// expired, or cancelled. The single-winner rule (at most one accepted
// assignment per order) is enforced by a conditional update at the
// storage layer; this package enforces the matching single-resolution
// rule for in-memory transitions.
package assignment
