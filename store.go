package escore

import (
	"context"
)

// EventStore defines the interface for persisting and retrieving events in
// an event-sourced system (spec.md §4.F). Implementations may persist
// events to PostgreSQL or to memory (see stores/pgx, stores/mem). All
// operations must be safe for concurrent use and respect optimistic
// concurrency semantics.
type EventStore interface {
	// Append writes a batch of events to the stream identified by
	// streamID under optimistic concurrency control (spec.md §4.F.1).
	//
	// streamType is asserted against the stream's stored type (I5); a
	// mismatch on an existing stream returns *StreamTypeMismatchError. A
	// nil streamID row is created with this type.
	//
	// expectedVersion, if non-nil, must match the stream's current
	// persisted version; on mismatch the method returns
	// *VersionConflictError, testable with:
	//
	//	if errors.Is(err, escore.ErrVersionConflict) { ... }
	//
	// A nil expectedVersion performs no check. Implementations must ensure
	// atomicity: either every event is appended and the version advances
	// by len(events), or nothing changes.
	//
	// Returns the new stream version and the ids assigned to the appended
	// events, in order.
	Append(
		ctx context.Context,
		streamID, streamType string,
		events []Event,
		md Metadata,
		expectedVersion *int64,
	) (version int64, assignedIDs []string, err error)

	// StreamEvents returns a lazy, forward-only cursor over the events
	// matching filter (spec.md §4.F.2). registry maps each event's type
	// tag to the codec used to decode its payload; a tag with no entry is
	// handled per filter.OnUnknownType.
	StreamEvents(ctx context.Context, filter StreamFilter, registry map[string]EventCodec) (LazyEventStream, error)

	// SaveSnapshot stores a serialized representation of the aggregate's
	// current state. This is an optional optimization to avoid replaying
	// the entire event history when reloading aggregates. Snapshots are
	// safe to treat as a cache — failure to save should not affect event
	// consistency.
	SaveSnapshot(ctx context.Context, streamID string, version int64, state any) error

	// LoadSnapshot retrieves the latest snapshot for the given stream. If
	// no snapshot exists, the returned Snapshot has Found=false and zero
	// values for State and Version.
	LoadSnapshot(ctx context.Context, streamID string) (Snapshot, error)
}

// LoadEvents drains every event for one stream (spec.md §4.F.3, the "load"
// convenience layered on StreamEvents) into an ordered slice, decoding each
// payload against registry. Deserialization failures surface as a fatal
// error here (unlike the raw StreamEvents cursor, where they are embedded
// per-item) since a caller asking to fully replay a stream has no use for a
// partially-decoded result.
func LoadEvents(ctx context.Context, store EventStore, streamID string, registry map[string]EventCodec) ([]Event, int64, error) {
	stream, err := store.StreamEvents(ctx, FilterByStreamID(streamID), registry)
	if err != nil {
		return nil, 0, err
	}
	defer stream.Close()

	var events []Event
	var version int64
	for {
		pe, ok, err := stream.Next(ctx)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			break
		}
		if pe.Err != nil {
			return nil, 0, pe.Err
		}
		events = append(events, pe.Data)
		version = pe.Version
	}
	return events, version, nil
}

// LoadExistingEvents is like LoadEvents but treats a stream with zero
// recorded events as absent rather than as a legitimately empty fold: it
// returns *NotFoundError in that case. Use this for read paths that must
// distinguish "this stream was never created" from "this aggregate folds
// to its zero value" — unlike Execute's load-or-create hydration, which
// treats an empty stream as the normal starting point for a brand new
// aggregate.
func LoadExistingEvents(ctx context.Context, store EventStore, streamID string, registry map[string]EventCodec) ([]Event, int64, error) {
	events, version, err := LoadEvents(ctx, store, streamID, registry)
	if err != nil {
		return nil, 0, err
	}
	if len(events) == 0 {
		return nil, 0, &NotFoundError{StreamID: streamID}
	}
	return events, version, nil
}

// Execute implements the command-apply loop (spec.md §4.G): load-or-create
// the aggregate, fold its history, dispatch the command via handle, append
// the resulting events atomically under optimistic-version control anchored
// to the version observed at load time, and return the resulting state.
//
// newAggregate constructs a fresh, empty aggregate bound to streamID.
// handle dispatches the command against the loaded aggregate; by
// convention (see Base.Raise) it records any resulting events into the
// aggregate's pending buffer rather than returning them directly — Execute
// reads them back with Flush. If handle returns a domain error, Execute
// returns it immediately without touching the store (the partially-mutated
// aggregate is discarded, so no inconsistent state escapes this function).
//
// Step 4 of spec.md §4.G always appends, even when handle raised no
// events, because that is how a caller performs a pure version check
// (expectedVersion without a mutation). Execute only skips the Append call
// when there is nothing to write AND the caller passed no explicit
// expectedVersion to check.
func Execute[A Aggregate](
	ctx context.Context,
	store EventStore,
	registry map[string]EventCodec,
	streamID string,
	md Metadata,
	expectedVersion *int64,
	newAggregate func(streamID string) A,
	handle func(a A) error,
) (A, error) {
	var zero A

	a := newAggregate(streamID)

	events, _, err := LoadEvents(ctx, store, streamID, registry)
	if err != nil {
		return zero, err
	}
	for _, e := range events {
		a.Apply(e)
	}

	if err := handle(a); err != nil {
		return zero, err
	}

	produced, check := a.Flush()
	if expectedVersion != nil {
		check = *expectedVersion
	}
	if len(produced) == 0 && expectedVersion == nil {
		return a, nil
	}

	if _, _, err := store.Append(ctx, streamID, a.StreamType(), produced, md, &check); err != nil {
		return zero, err
	}

	return a, nil
}
