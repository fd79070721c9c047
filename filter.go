package escore

// FilterKind selects which events a StreamEvents query returns (spec.md §4.F.2).
type FilterKind int

const (
	// ByStreamID selects events for exactly one stream, ordered by version
	// ascending.
	ByStreamID FilterKind = iota
	// ByStreamType selects events for all streams of a given type, ordered
	// by (stream_id, version).
	ByStreamType
	// All selects every event, ordered by created ascending, then by
	// (stream_id, version) as a tie-break.
	All
)

// UnknownTypePolicy controls what StreamEvents does when it encounters a
// persisted event whose type tag has no codec registered for it. This
// resolves spec.md §9's Open Question by making the policy a filter
// predicate instead of hard-wiring either behavior.
type UnknownTypePolicy int

const (
	// SkipUnknown yields a PersistedEvent with Err set to a
	// *DeserializationError and continues the stream. This is the
	// reference behavior described in spec.md §4.F.2.
	SkipUnknown UnknownTypePolicy = iota
	// FailUnknown surfaces the *DeserializationError as a call-level error
	// instead of embedding it per-item: stores/pgx returns it from Next and
	// stops the stream, stores/mem returns it from StreamEvents itself.
	FailUnknown
)

// StreamFilter selects which persisted events a StreamEvents query returns
// and in what order (spec.md §4.F.2).
type StreamFilter struct {
	Kind          FilterKind
	StreamID      string
	StreamType    string
	OnUnknownType UnknownTypePolicy
}

// FilterByStreamID builds a StreamFilter for exactly one stream.
func FilterByStreamID(streamID string) StreamFilter {
	return StreamFilter{Kind: ByStreamID, StreamID: streamID}
}

// FilterByStreamType builds a StreamFilter for every stream of one family.
func FilterByStreamType(streamType string) StreamFilter {
	return StreamFilter{Kind: ByStreamType, StreamType: streamType}
}

// FilterAll builds a StreamFilter matching every event in the store.
func FilterAll() StreamFilter {
	return StreamFilter{Kind: All}
}
