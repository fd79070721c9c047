// Package pgx provides a PostgreSQL-backed escore.EventStore implementation
// on top of jackc/pgx. Appends go through a single stored function
// (append_to_stream, see schema.go) so the version check and the insert of
// a whole batch happen as one atomic round trip, with the per-stream row
// lock held by Postgres rather than by application code.
package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/escore/escore"
)

// EventStore is a concrete escore.EventStore backed by PostgreSQL.
type EventStore struct {
	pool         *pgxpool.Pool
	typeRegistry map[string]escore.EventCodec
	extractor    escore.MetadataExtractor
}

// Option configures EventStore.
type Option func(*EventStore)

// WithTypeRegistry sets the registry Append uses to encode events. Unlike
// the registry passed to StreamEvents (which may be a narrower read-side
// vocabulary), this registry must know every event type ever appended.
func WithTypeRegistry(reg map[string]escore.EventCodec) Option {
	return func(s *EventStore) { s.typeRegistry = reg }
}

// WithMetadataExtractor sets a function that builds Metadata from context.
// When provided, Append merges extracted metadata with the explicit md;
// explicit keys take precedence over extracted ones.
func WithMetadataExtractor(ex escore.MetadataExtractor) Option {
	return func(s *EventStore) { s.extractor = ex }
}

// NewEventStore creates a Postgres-backed EventStore and bootstraps its
// schema. Bootstrapping is idempotent (CREATE TABLE IF NOT EXISTS, CREATE
// OR REPLACE FUNCTION), so it is safe to call once per process on every
// startup rather than through a separate migration step.
func NewEventStore(ctx context.Context, pool *pgxpool.Pool, opts ...Option) (*EventStore, error) {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return nil, &escore.StoreError{Op: "bootstrap schema", Cause: err}
	}

	s := &EventStore{
		pool:         pool,
		typeRegistry: map[string]escore.EventCodec{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type wireEvent struct {
	ID   uuid.UUID       `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Append persists a batch of events using optimistic concurrency control
// (spec.md §4.F.1). The version check, the stream-type assertion, and the
// insert of the whole batch happen inside a single call to
// append_to_stream, so two concurrent appends to the same stream
// serialize on Postgres's row lock rather than racing in application code.
func (s *EventStore) Append(
	ctx context.Context,
	streamID, streamType string,
	events []escore.Event,
	md escore.Metadata,
	expectedVersion *int64,
) (int64, []string, error) {
	if s.extractor != nil {
		md = s.extractor(ctx).Merge(md)
	}

	wire := make([]wireEvent, 0, len(events))
	ids := make([]string, 0, len(events))
	for _, e := range events {
		typ := escore.EventType(e)
		codec := s.typeRegistry[typ]
		if codec == nil {
			return 0, nil, &escore.SerializationError{EventType: typ, Cause: errNoCodec(typ)}
		}
		data, err := codec.Encode(e)
		if err != nil {
			return 0, nil, &escore.SerializationError{EventType: typ, Cause: err}
		}
		id := uuid.New()
		ids = append(ids, id.String())
		wire = append(wire, wireEvent{ID: id, Type: typ, Data: data})
	}

	eventsJSON, err := json.Marshal(wire)
	if err != nil {
		return 0, nil, fmt.Errorf("escore-pgx: could not encode event batch: %w", err)
	}
	metaJSON, err := json.Marshal(md)
	if err != nil {
		return 0, nil, fmt.Errorf("escore-pgx: could not encode metadata: %w", err)
	}

	expected := int64(-1)
	if expectedVersion != nil {
		expected = *expectedVersion
	}

	var ok bool
	var newVersion, actualVersion int64
	err = s.pool.QueryRow(
		ctx,
		`SELECT ok, new_version, actual_version FROM append_to_stream($1, $2, $3, $4, $5)`,
		streamID, streamType, expected, eventsJSON, metaJSON,
	).Scan(&ok, &newVersion, &actualVersion)
	if err != nil {
		if pgErrorCode(err) == streamTypeMismatchSQLState {
			return 0, nil, &escore.StreamTypeMismatchError{StreamID: streamID, AssertedType: streamType}
		}
		if isUniqueViolation(err) {
			return 0, nil, &escore.VersionConflictError{StreamID: streamID, ExpectedVersion: expected, ActualVersion: actualVersion}
		}
		return 0, nil, &escore.StoreError{Op: "append", Cause: err}
	}
	if !ok {
		return 0, nil, &escore.VersionConflictError{StreamID: streamID, ExpectedVersion: expected, ActualVersion: actualVersion}
	}

	if len(events) == 0 {
		return newVersion, nil, nil
	}
	return newVersion, ids, nil
}

// StreamEvents returns a cursor over the events matching filter, decoded
// against registry (spec.md §4.F.2). Rows are pulled from Postgres as the
// caller advances the cursor rather than materialized up front, so a full
// scan of a large event table never loads more than one row at a time into
// process memory.
func (s *EventStore) StreamEvents(ctx context.Context, filter escore.StreamFilter, registry map[string]escore.EventCodec) (escore.LazyEventStream, error) {
	query, args := buildStreamQuery(filter)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &escore.StoreError{Op: "query events", Cause: err}
	}

	return &rowStream{rows: rows, registry: registry, onUnknown: filter.OnUnknownType}, nil
}

const eventColumns = `id, stream_id, stream_type, version, type, data, metadata, created`

// buildStreamQuery translates a StreamFilter into the ordering spec.md
// §4.F.2 requires for each FilterKind: ByStreamID orders by version;
// ByStreamType and All tie-break on (stream_id, version) so per-stream
// version density is always visible within the result.
func buildStreamQuery(filter escore.StreamFilter) (string, []any) {
	switch filter.Kind {
	case escore.ByStreamID:
		return `SELECT ` + eventColumns + ` FROM events WHERE stream_id = $1 ORDER BY version ASC`,
			[]any{filter.StreamID}
	case escore.ByStreamType:
		return `SELECT ` + eventColumns + ` FROM events WHERE stream_type = $1 ORDER BY stream_id ASC, version ASC`,
			[]any{filter.StreamType}
	default:
		return `SELECT ` + eventColumns + ` FROM events ORDER BY created ASC, stream_id ASC, version ASC`, nil
	}
}

type rowStream struct {
	rows      pgx.Rows
	registry  map[string]escore.EventCodec
	onUnknown escore.UnknownTypePolicy
}

func (r *rowStream) Next(ctx context.Context) (escore.PersistedEvent, bool, error) {
	if err := ctx.Err(); err != nil {
		return escore.PersistedEvent{}, false, &escore.StoreError{Op: "stream events", Cause: err}
	}
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return escore.PersistedEvent{}, false, &escore.StoreError{Op: "stream events", Cause: err}
		}
		return escore.PersistedEvent{}, false, nil
	}

	var id uuid.UUID
	var streamID, streamType, typ string
	var version int64
	var data, metadata []byte
	var created time.Time

	if err := r.rows.Scan(&id, &streamID, &streamType, &version, &typ, &data, &metadata, &created); err != nil {
		return escore.PersistedEvent{}, false, &escore.StoreError{Op: "stream events", Cause: err}
	}

	pe := escore.PersistedEvent{
		ID:         id.String(),
		StreamID:   streamID,
		StreamType: streamType,
		Version:    version,
		Type:       typ,
		Created:    created,
	}
	if len(metadata) > 0 {
		_ = json.Unmarshal(metadata, &pe.Metadata)
	}

	codec := r.registry[typ]
	if codec == nil {
		derr := &escore.DeserializationError{EventID: pe.ID, EventType: typ, Cause: errNoCodec(typ)}
		if r.onUnknown == escore.FailUnknown {
			return escore.PersistedEvent{}, false, derr
		}
		pe.Err = derr
		return pe, true, nil
	}

	decoded, err := codec.Decode(data)
	if err != nil {
		derr := &escore.DeserializationError{EventID: pe.ID, EventType: typ, Cause: err}
		if r.onUnknown == escore.FailUnknown {
			return escore.PersistedEvent{}, false, derr
		}
		pe.Err = derr
		return pe, true, nil
	}
	pe.Data = decoded
	return pe, true, nil
}

func (r *rowStream) Close() error {
	r.rows.Close()
	return nil
}

// SaveSnapshot upserts the snapshot state for a stream at a given version.
// Snapshots are an optimization for fast rehydration; failure to save
// should not compromise domain consistency, but this implementation still
// surfaces write errors so callers can decide whether to retry or ignore.
func (s *EventStore) SaveSnapshot(ctx context.Context, streamID string, version int64, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("escore-pgx: could not encode snapshot state: %w", err)
	}
	_, err = s.pool.Exec(
		ctx,
		`INSERT INTO snapshots (stream_id, version, state, at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (stream_id) DO UPDATE
		SET version = EXCLUDED.version, state = EXCLUDED.state, at = EXCLUDED.at`,
		streamID, version, data,
	)
	if err != nil {
		return &escore.StoreError{Op: "save snapshot", Cause: err}
	}
	return nil
}

// LoadSnapshot retrieves the latest snapshot for a stream. If not found,
// Found=false. The State is returned as a generic structure since the
// store does not know the aggregate's concrete Go type; callers re-decode
// it themselves.
func (s *EventStore) LoadSnapshot(ctx context.Context, streamID string) (escore.Snapshot, error) {
	var version int64
	var raw []byte
	var at time.Time

	err := s.pool.QueryRow(
		ctx,
		`SELECT version, state, at FROM snapshots WHERE stream_id = $1`,
		streamID,
	).Scan(&version, &raw, &at)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return escore.Snapshot{Found: false}, nil
		}
		return escore.Snapshot{}, &escore.StoreError{Op: "load snapshot", Cause: err}
	}

	var state map[string]any
	if err := json.Unmarshal(raw, &state); err != nil {
		return escore.Snapshot{}, fmt.Errorf("escore-pgx: could not decode snapshot state: %w", err)
	}

	return escore.Snapshot{State: state, Version: version, Found: true, At: at}, nil
}

var _ escore.EventStore = (*EventStore)(nil)
