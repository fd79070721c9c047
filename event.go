package escore

import (
	"fmt"
)

// Event is a semantic alias of `any` that represents a domain event payload
// (spec.md §4.B). Any value is an Event; the only real contract is that it
// round-trips through whatever EventCodec persists it, and that EventType
// returns a stable tag for it.
type Event any

// EventType returns the canonical type tag for a given event.
// If the event implements `EventType() string`, that value is used.
// Otherwise, it falls back to the Go type name (e.g., "bankaccount.Opened").
//
// The tag is used for indexing and human-readable filtering; it does not
// drive deserialization dispatch (the payload format carries its own
// discriminator — see EventCodec).
func EventType(e Event) string {
	if named, ok := e.(interface{ EventType() string }); ok {
		return named.EventType()
	}
	return fmt.Sprintf("%T", e)
}
