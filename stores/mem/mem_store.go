// Package mem provides an in-memory escore.EventStore implementation.
// It is concurrency-safe and suitable for tests, prototypes, and local
// runs; events and snapshots are kept in-process and are lost on restart.
package mem

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/escore/escore"
)

// Store is an in-memory EventStore implementation.
type Store struct {
	mu           sync.RWMutex
	streams      map[string]streamRow
	events       []storedEvent // append-only, in insertion (= created) order
	snapshots    map[string]snapshot
	extractor    escore.MetadataExtractor
	typeRegistry map[string]escore.EventCodec
}

type streamRow struct {
	streamType string
	version    int64
}

type storedEvent struct {
	id         string
	streamID   string
	streamType string
	version    int64
	data       []byte
	typ        string
	metadata   escore.Metadata
	created    time.Time
}

type snapshot struct {
	version int64
	state   any
	at      time.Time
}

// Option configures the in-memory Store.
type Option func(*Store)

// WithMetadataExtractor sets a function that builds Metadata from context.
// When provided, Append merges extracted metadata with the explicit md;
// explicit keys take precedence over extracted ones.
func WithMetadataExtractor(ex escore.MetadataExtractor) Option {
	return func(s *Store) { s.extractor = ex }
}

// WithTypeRegistry sets the registry Append uses to encode events. Unlike
// the registry passed to StreamEvents (which may be a narrower read-side
// vocabulary), this registry must know every event type ever appended.
func WithTypeRegistry(reg map[string]escore.EventCodec) Option {
	return func(s *Store) { s.typeRegistry = reg }
}

// New creates a new in-memory Store.
func New(opts ...Option) *Store {
	st := &Store{
		streams:      make(map[string]streamRow),
		snapshots:    make(map[string]snapshot),
		typeRegistry: map[string]escore.EventCodec{},
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Append persists a batch of events using optimistic concurrency control
// (spec.md §4.F.1). The whole operation holds the store's single write
// lock, which is this implementation's stand-in for the per-stream row
// lock spec.md describes — acceptable here because the store is
// process-local and the lock is never held across I/O.
func (s *Store) Append(
	ctx context.Context,
	streamID, streamType string,
	events []escore.Event,
	md escore.Metadata,
	expectedVersion *int64,
) (int64, []string, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, &escore.StoreError{Op: "append", Cause: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.extractor != nil {
		md = s.extractor(ctx).Merge(md)
	}

	row, exists := s.streams[streamID]
	current := int64(0)
	if exists {
		current = row.version
		if row.streamType != streamType {
			return 0, nil, &escore.StreamTypeMismatchError{
				StreamID:     streamID,
				ActualType:   row.streamType,
				AssertedType: streamType,
			}
		}
	}

	if expectedVersion != nil && *expectedVersion != current {
		return 0, nil, &escore.VersionConflictError{
			StreamID:        streamID,
			ExpectedVersion: *expectedVersion,
			ActualVersion:   current,
		}
	}

	if !exists {
		s.streams[streamID] = streamRow{streamType: streamType, version: 0}
	}

	if len(events) == 0 {
		return current, nil, nil
	}

	now := time.Now().UTC()
	ids := make([]string, 0, len(events))
	batch := make([]storedEvent, 0, len(events))

	for _, e := range events {
		typ := escore.EventType(e)
		codec := s.typeRegistry[typ]
		if codec == nil {
			return 0, nil, &escore.SerializationError{
				EventType: typ,
				Cause:     errNoCodec(typ),
			}
		}
		data, err := codec.Encode(e)
		if err != nil {
			return 0, nil, &escore.SerializationError{EventType: typ, Cause: err}
		}

		current++
		id := uuid.NewString()
		ids = append(ids, id)
		batch = append(batch, storedEvent{
			id:         id,
			streamID:   streamID,
			streamType: streamType,
			version:    current,
			data:       data,
			typ:        typ,
			metadata:   md,
			created:    now,
		})
	}

	s.events = append(s.events, batch...)
	row = s.streams[streamID]
	row.version = current
	row.streamType = streamType
	s.streams[streamID] = row

	return current, ids, nil
}

// StreamEvents returns a lazy cursor over the events matching filter,
// decoded against registry (spec.md §4.F.2). The whole matching set is
// computed and decoded eagerly under a read lock (the backing store already
// lives entirely in memory), then handed back as an escore.LazyEventStream
// that yields one event per Next, so the iteration contract matches a
// cursor-backed store.
func (s *Store) StreamEvents(_ context.Context, filter escore.StreamFilter, registry map[string]escore.EventCodec) (escore.LazyEventStream, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []storedEvent
	switch filter.Kind {
	case escore.ByStreamID:
		for _, e := range s.events {
			if e.streamID == filter.StreamID {
				matched = append(matched, e)
			}
		}
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].version < matched[j].version })
	case escore.ByStreamType:
		for _, e := range s.events {
			if e.streamType == filter.StreamType {
				matched = append(matched, e)
			}
		}
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].streamID != matched[j].streamID {
				return matched[i].streamID < matched[j].streamID
			}
			return matched[i].version < matched[j].version
		})
	default: // escore.All
		matched = append(matched, s.events...)
		sort.SliceStable(matched, func(i, j int) bool {
			if !matched[i].created.Equal(matched[j].created) {
				return matched[i].created.Before(matched[j].created)
			}
			if matched[i].streamID != matched[j].streamID {
				return matched[i].streamID < matched[j].streamID
			}
			return matched[i].version < matched[j].version
		})
	}

	out := make([]escore.PersistedEvent, 0, len(matched))
	for _, e := range matched {
		pe := escore.PersistedEvent{
			ID:         e.id,
			StreamID:   e.streamID,
			StreamType: e.streamType,
			Version:    e.version,
			Type:       e.typ,
			Metadata:   e.metadata,
			Created:    e.created,
		}

		codec := registry[e.typ]
		if codec == nil {
			if filter.OnUnknownType == escore.FailUnknown {
				return nil, &escore.DeserializationError{EventID: e.id, EventType: e.typ, Cause: errNoCodec(e.typ)}
			}
			pe.Err = &escore.DeserializationError{EventID: e.id, EventType: e.typ, Cause: errNoCodec(e.typ)}
			out = append(out, pe)
			continue
		}

		data, err := codec.Decode(e.data)
		if err != nil {
			if filter.OnUnknownType == escore.FailUnknown {
				return nil, &escore.DeserializationError{EventID: e.id, EventType: e.typ, Cause: err}
			}
			pe.Err = &escore.DeserializationError{EventID: e.id, EventType: e.typ, Cause: err}
			out = append(out, pe)
			continue
		}
		pe.Data = data
		out = append(out, pe)
	}

	return escore.NewSliceStream(out), nil
}

// SaveSnapshot upserts the snapshot state for a stream at a given version.
func (s *Store) SaveSnapshot(_ context.Context, streamID string, version int64, state any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshots[streamID] = snapshot{version: version, state: state, at: time.Now().UTC()}
	return nil
}

// LoadSnapshot retrieves the latest snapshot for a stream. If not found,
// Found=false.
func (s *Store) LoadSnapshot(_ context.Context, streamID string) (escore.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[streamID]
	if !ok {
		return escore.Snapshot{Found: false}, nil
	}
	return escore.Snapshot{
		State:   snap.state,
		Version: snap.version,
		Found:   true,
		At:      snap.at,
	}, nil
}

var _ escore.EventStore = (*Store)(nil)
