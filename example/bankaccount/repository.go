package bankaccount

import (
	"context"

	"github.com/escore/escore"
)

// Registry is the codec table for every event type this aggregate family
// emits. Callers wire it into both Append and StreamEvents.
func Registry() map[string]escore.EventCodec {
	return map[string]escore.EventCodec{
		"BankAccountOpened": escore.JSONCodec[Opened](),
		"MoneyDeposited":    escore.JSONCodec[Deposited](),
		"MoneyWithdrawn":    escore.JSONCodec[Withdrawn](),
	}
}

// Repository loads and saves BankAccount aggregates using an escore.EventStore.
type Repository struct {
	store escore.EventStore
}

// NewRepository creates a repository backed by the given store.
func NewRepository(store escore.EventStore) *Repository {
	return &Repository{store: store}
}

// Load rehydrates a BankAccount by replaying its full event history. The
// store's EventStore contract has no "events after version N" filter
// (spec.md §4.F.2 defines only ByStreamID/ByStreamType/All), so a snapshot
// cannot be used to skip a prefix of the stream here — SaveSnapshot is kept
// purely as a side cache an out-of-process reader could consult, never on
// this read path.
func (r *Repository) Load(ctx context.Context, streamID string) (*BankAccount, error) {
	a := New(streamID)

	events, _, err := escore.LoadEvents(ctx, r.store, streamID, Registry())
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		a.Apply(e)
	}
	return a, nil
}

// Get rehydrates a BankAccount like Load, but treats a stream with no
// recorded events as *escore.NotFoundError instead of a fresh, unopened
// account — use this for read paths (e.g. a lookup endpoint) that must
// distinguish "this account was never opened" from "this account's events
// happen to fold to the zero account", unlike Load, which backs Execute's
// load-or-create hydration and tolerates an empty stream.
func (r *Repository) Get(ctx context.Context, streamID string) (*BankAccount, error) {
	a := New(streamID)

	events, _, err := escore.LoadExistingEvents(ctx, r.store, streamID, Registry())
	if err != nil {
		return nil, err
	}
	for _, e := range events {
		a.Apply(e)
	}
	return a, nil
}

// Snapshot saves the aggregate's current state as a cache for out-of-band
// readers. It is never consulted by Load (see Load's doc comment).
func (r *Repository) Snapshot(ctx context.Context, a *BankAccount) error {
	return r.store.SaveSnapshot(ctx, a.StreamID(), a.Version(), Snapshot{
		Owner:   a.owner,
		Balance: a.balance,
		Opened:  a.opened,
	})
}

// PeekSnapshot reads back the cached snapshot for diagnostics, e.g. a CLI
// or admin endpoint that wants to show last-known state without replaying
// the whole stream.
func (r *Repository) PeekSnapshot(ctx context.Context, streamID string) (Snapshot, bool, error) {
	snap, err := r.store.LoadSnapshot(ctx, streamID)
	if err != nil {
		return Snapshot{}, false, err
	}
	return decodeSnapshot(snap)
}
