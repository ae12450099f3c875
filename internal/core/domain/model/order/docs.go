// Package order implements the Order aggregate for the coordination workflow.
//
// The package provides the domain model for orders moving from placement
// through restaurant assignment, preparation, and delivery:
//
//   - Order: aggregate root enforcing lifecycle invariants and stamping
//     per-phase timestamps
//   - Status: the order state machine with wire-format spellings
//   - ActorKind: classification of who initiated a change
//
// # Order Lifecycle
//
// Orders enter the system in the placed status and advance through the
// transitions defined on Status. Three statuses are terminal: delivered,
// cancelled, and no_restaurant_accepted. Once terminal, an order rejects
// every further transition; requesting the current status again is always
// an idempotent no-op.
//
// # Usage Example
//
//	o, err := order.NewOrder(kernel.NewUUID(), time.Now())
//	if err != nil {
//	    return err
//	}
//
//	if err := o.ChangeStatus(order.RestaurantAssigned, time.Now()); err != nil {
//	    return err
//	}
//
// All mutation goes through aggregate methods; fields are private and the
// aggregate can only be created through NewOrder or RestoreOrder.
package order
