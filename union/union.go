// Package union implements the query-event union helper from spec.md §4.H:
// given a closed set of event types from one or more aggregate families, it
// produces a single tagged union usable by cross-stream projections.
//
// Go has neither sum types nor the macro/codegen facility spec.md §1
// explicitly places out of scope, so this is the "hand-written sum" variant
// spec.md §9 allows: a generic box wrapping exactly one concrete event,
// plus a small closed interface for combining several boxed families into
// one read-side event type.
package union

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Event is the minimal contract a member of a union must satisfy: a stable
// type tag (spec.md §4.B).
type Event interface {
	EventType() string
}

// Box is a tagged-union value holding exactly one event of type E. It
// implements Event by delegating to the wrapped value, and marshals/
// unmarshals transparently as that value — the discriminator lives in the
// payload, not in Box's own encoding, per spec.md §4.H.
type Box[E Event] struct {
	v E
}

// Of wraps e into a Box, the generic stand-in for "From<Ei> for U" in
// spec.md §4.H.
func Of[E Event](e E) Box[E] {
	return Box[E]{v: e}
}

// Unwrap returns the wrapped event value.
func (b Box[E]) Unwrap() E { return b.v }

// EventType delegates to the wrapped value.
func (b Box[E]) EventType() string { return b.v.EventType() }

// String renders the wrapped value, e.g. for logging.
func (b Box[E]) String() string { return fmt.Sprintf("%s%+v", b.EventType(), b.v) }

// Equal reports structural equality with another Box of the same type,
// satisfying spec.md §4.H's "supports structural equality" requirement.
func (b Box[E]) Equal(other Box[E]) bool {
	return reflect.DeepEqual(b.v, other.v)
}

// MarshalJSON serializes the wrapped value directly; Box carries no
// envelope of its own.
func (b Box[E]) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.v)
}

// UnmarshalJSON decodes directly into the wrapped value.
func (b *Box[E]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &b.v)
}

// Member is the type used to assemble a "union of unions" (spec.md §8
// scenario 5: joining two aggregate families' events into one cross-stream
// event type, e.g. ActivityEvent = UserEvent | OrderEvent). Any Box
// satisfies it; a concrete cross-family union is an interface embedding
// Member, filled with boxes of each member family — see example/activity,
// whose Event joins example/bankaccount and example/customer.
type Member interface {
	Event
	isMember()
}

func (b Box[E]) isMember() {}
