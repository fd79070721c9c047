package escore

import (
	"fmt"
)

var (
	// ErrVersionConflict indicates that the expectedVersion did not match
	// the current version in the store, typically due to concurrent writes.
	ErrVersionConflict = fmt.Errorf("escore: version conflict")

	// ErrStreamTypeMismatch indicates an append targeted an existing stream
	// under a different stream type than it was created with (I5).
	ErrStreamTypeMismatch = fmt.Errorf("escore: stream type mismatch")

	// ErrNotFound indicates the requested stream has no rows at all. This is
	// distinct from an empty folded state, which is not an error.
	ErrNotFound = fmt.Errorf("escore: stream not found")
)

// VersionConflictError provides structured information about a version
// mismatch on append (spec.md §7 "Optimistic conflict"). Recoverable by the
// caller: reload and retry.
type VersionConflictError struct {
	StreamID        string
	ExpectedVersion int64
	ActualVersion   int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict on stream %s: expected=%d actual=%d", e.StreamID, e.ExpectedVersion, e.ActualVersion)
}

// Is allows errors.Is(err, ErrVersionConflict) to match this type.
func (e *VersionConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}

// StreamTypeMismatchError indicates an append asserted a stream_type that
// differs from the type the stream was created with (I5). This is a
// programming error, never retried.
type StreamTypeMismatchError struct {
	StreamID     string
	ActualType   string
	AssertedType string
}

func (e *StreamTypeMismatchError) Error() string {
	return fmt.Sprintf("stream %s has type %q, got append with type %q", e.StreamID, e.ActualType, e.AssertedType)
}

func (e *StreamTypeMismatchError) Is(target error) bool {
	return target == ErrStreamTypeMismatch
}

// NotFoundError indicates the requested stream has no rows (distinct from
// an empty folded state, which is not an error).
type NotFoundError struct {
	StreamID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("stream %s not found", e.StreamID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// SerializationError wraps a failure to encode an event payload before any
// write happens; the append is aborted entirely.
type SerializationError struct {
	EventType string
	Cause     error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("escore: failed to serialize event %q: %v", e.EventType, e.Cause)
}

func (e *SerializationError) Unwrap() error { return e.Cause }

// DeserializationError wraps a failure to decode a persisted event payload.
// At the operation level (Load) it is fatal; at the stream-iterator item
// level (StreamEvents) it is attached to the offending PersistedEvent and
// the stream continues, per spec.md §7.
type DeserializationError struct {
	EventID   string
	EventType string
	Cause     error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("escore: failed to deserialize event %s (type %q): %v", e.EventID, e.EventType, e.Cause)
}

func (e *DeserializationError) Unwrap() error { return e.Cause }

// StoreError wraps a connection, transaction, or driver failure. The
// caller decides whether to retry.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("escore: store error during %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error { return e.Cause }

// ParseError indicates a URN did not match the declared namespace or was
// structurally malformed (spec.md §4.A).
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("escore: failed to parse urn %q: %s", e.Input, e.Reason)
}
