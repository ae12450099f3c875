package order

// ActorKind identifies which kind of actor requested a status change.
// It is recorded in the audit trail as changed_by_type.
//
// ActorKind is intentionally lenient: values outside the allowed set are
// coerced to ActorSystem via Coerce rather than rejected, so a caller
// passing garbage cannot fail a status update over attribution metadata.
type ActorKind int

const (
	// ActorUnknown is the zero value; it is never stored and coerces to
	// ActorSystem.
	ActorUnknown ActorKind = iota

	// ActorSystem marks transitions initiated by the platform itself,
	// including expiry sweeps and the fallback for unrecognized actors.
	ActorSystem

	// ActorCustomer marks transitions initiated by the ordering customer.
	ActorCustomer

	// ActorRestaurant marks transitions initiated by a restaurant.
	ActorRestaurant

	// ActorDelivery marks transitions initiated by a delivery driver.
	ActorDelivery

	// ActorAdmin marks transitions initiated from admin tooling.
	ActorAdmin
)

func getActorKindStrings() map[ActorKind]string {
	return map[ActorKind]string{
		ActorSystem:     "system",
		ActorCustomer:   "customer",
		ActorRestaurant: "restaurant",
		ActorDelivery:   "delivery",
		ActorAdmin:      "admin",
	}
}

// String returns the wire spelling of the actor kind.
// Invalid values render as "system", matching the coercion rule.
func (k ActorKind) String() string {
	if str, ok := getActorKindStrings()[k]; ok {
		return str
	}
	return "system"
}

// IsValid reports whether the actor kind is one of the allowed values.
func (k ActorKind) IsValid() bool {
	_, ok := getActorKindStrings()[k]
	return ok
}

// Coerce returns the actor kind itself when valid and ActorSystem
// otherwise. This is the explicit lenient-fallback rule: unknown actor
// kinds are an intentional no-op, not an error.
func (k ActorKind) Coerce() ActorKind {
	if k.IsValid() {
		return k
	}
	return ActorSystem
}

// ActorKindFromString parses a wire spelling into an ActorKind.
// Unrecognized spellings, including the empty string, coerce to
// ActorSystem rather than failing.
func ActorKindFromString(value string) ActorKind {
	for kind, str := range getActorKindStrings() {
		if str == value {
			return kind
		}
	}
	return ActorSystem
}
