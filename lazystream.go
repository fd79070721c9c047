package escore

import (
	"context"
	"time"
)

// PersistedEvent is a record of one event as durably stored in the engine
// (spec.md §3 "PersistedEvent"). ID is a unique event identifier (typically
// a UUIDv4) assigned at append time; Version is 1-based and dense within a
// stream (I1/I2); Created is server-assigned.
type PersistedEvent struct {
	ID         string
	StreamID   string
	StreamType string
	Version    int64
	Type       string
	Data       Event
	Metadata   Metadata
	Created    time.Time

	// Err is set when this item's payload could not be decoded against the
	// caller's codec registry and the filter's OnUnknownType is
	// SkipUnknown (the default). Data is nil in that case; the stream
	// continues with the next item rather than aborting.
	Err error
}

// LazyEventStream is a lazy, finite, forward-only, pull-based sequence of
// PersistedEvent records (spec.md §4.F.2), pulled from the store in
// bounded-memory chunks regardless of how many events the query matches.
// Call Next repeatedly until ok is false, then Close to release any
// underlying resources (e.g. a database cursor).
type LazyEventStream interface {
	// Next advances to the next item. ok is false (with err nil) once the
	// stream is exhausted. A non-nil err is a terminal store/transport
	// failure (typically *StoreError); it is distinct from a per-item
	// *DeserializationError embedded in PersistedEvent.Err, which does not
	// stop iteration.
	Next(ctx context.Context) (event PersistedEvent, ok bool, err error)
	// Close releases any resources held by the stream. Safe to call more
	// than once.
	Close() error
}

// sliceStream is the in-memory LazyEventStream building block: a
// precomputed, already-filtered-and-ordered slice of events, walked one at
// a time. stores/mem uses it for StreamEvents so that the in-memory
// backend honors the same pull-based contract a cursor-backed store does,
// even though the whole slice already lives in process memory.
type sliceStream struct {
	events []PersistedEvent
	pos    int
}

// NewSliceStream returns a LazyEventStream over an already-filtered and
// ordered slice of events.
func NewSliceStream(events []PersistedEvent) LazyEventStream {
	return &sliceStream{events: events}
}

func (s *sliceStream) Next(ctx context.Context) (PersistedEvent, bool, error) {
	if err := ctx.Err(); err != nil {
		return PersistedEvent{}, false, &StoreError{Op: "stream events", Cause: err}
	}
	if s.pos >= len(s.events) {
		return PersistedEvent{}, false, nil
	}
	e := s.events[s.pos]
	s.pos++
	return e, true, nil
}

func (s *sliceStream) Close() error { return nil }
