// Package activity demonstrates escore/union's "union of unions": joining
// events from two unrelated aggregate families (bankaccount, customer)
// into one read-side feed, the way a cross-stream activity log would.
package activity

import (
	"context"

	"github.com/escore/escore"
	"github.com/escore/escore/example/bankaccount"
	"github.com/escore/escore/example/customer"
	"github.com/escore/escore/union"
)

// Event is the union of the event types an activity feed contains. Each
// member wraps its concrete event in a union.Box, so Event marshals/compares
// exactly as that concrete event would on its own. Any union.Box satisfies
// Event; the OfXxx constructors below are the ones this package uses.
type Event interface {
	union.Member
}

// The OfXxx functions box one bank-account or customer event type each into
// an activity Event. Each accepts only its own event type, so passing any
// other type is a compile error, not a runtime one.
func OfBankAccountOpened(e bankaccount.Opened) Event       { return union.Of(e) }
func OfBankAccountDeposited(e bankaccount.Deposited) Event { return union.Of(e) }
func OfBankAccountWithdrawn(e bankaccount.Withdrawn) Event { return union.Of(e) }
func OfCustomerRegistered(e customer.Registered) Event     { return union.Of(e) }
func OfCustomerRenamed(e customer.Renamed) Event           { return union.Of(e) }

// Registry merges both families' codecs so a single StreamEvents(FilterAll)
// call can decode events from either.
func Registry() map[string]escore.EventCodec {
	reg := map[string]escore.EventCodec{}
	for k, v := range bankaccount.Registry() {
		reg[k] = v
	}
	for k, v := range customer.Registry() {
		reg[k] = v
	}
	return reg
}

// Feed pulls every event across both families, in store order, boxing each
// into the activity union. Unrecognized types (from a family this package
// doesn't wire up) are skipped rather than failing the whole feed.
func Feed(ctx context.Context, store escore.EventStore) ([]Event, error) {
	stream, err := store.StreamEvents(ctx, escore.FilterAll(), Registry())
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var out []Event
	for {
		pe, ok, err := stream.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if pe.Err != nil {
			continue
		}
		switch e := pe.Data.(type) {
		case bankaccount.Opened:
			out = append(out, OfBankAccountOpened(e))
		case bankaccount.Deposited:
			out = append(out, OfBankAccountDeposited(e))
		case bankaccount.Withdrawn:
			out = append(out, OfBankAccountWithdrawn(e))
		case customer.Registered:
			out = append(out, OfCustomerRegistered(e))
		case customer.Renamed:
			out = append(out, OfCustomerRenamed(e))
		}
	}
	return out, nil
}
