// Package storetest provides a compliance suite for escore.EventStore
// implementations (spec.md §8 "Testable properties"). Any new backend
// should pass Run unmodified.
package storetest

import (
	"context"
	"errors"
	"testing"

	escore "github.com/escore/escore"
)

type Opened struct{ ID string }

func (Opened) EventType() string { return "Opened" }

type Added struct{ N int }

func (Added) EventType() string { return "Added" }

type Renamed struct{ Name string }

func (Renamed) EventType() string { return "Renamed" }

// Factory creates a new EventStore instance for testing. Each test should
// receive a fresh, isolated instance. Use t.Cleanup for teardown logic if
// necessary.
type Factory func(t *testing.T) escore.EventStore

// Registry provides a minimal codec registry used for tests. It avoids
// dependency on domain-specific event definitions.
func Registry() map[string]escore.EventCodec {
	return map[string]escore.EventCodec{
		"Opened":  escore.JSONCodec[Opened](),
		"Added":   escore.JSONCodec[Added](),
		"Renamed": escore.JSONCodec[Renamed](),
	}
}

func expectedVersion(v int64) *int64 { return &v }

// Run executes a suite of compliance tests that verify an EventStore
// implementation adheres to the semantics of spec.md §4.F and §8.
// Each subtest runs in parallel, so stores must be concurrency-safe.
func Run(t *testing.T, newStore Factory) {
	t.Run("append/load/version density", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		s := newStore(t)
		reg := Registry()

		streamID := "urn:stream:1"

		v, ids, err := s.Append(ctx, streamID, "Stream", []escore.Event{Opened{ID: "1"}}, nil, expectedVersion(0))
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if v != 1 {
			t.Fatalf("expected version 1, got %d", v)
		}
		if len(ids) != 1 || ids[0] == "" {
			t.Fatalf("expected one assigned id, got %v", ids)
		}

		v, _, err = s.Append(ctx, streamID, "Stream", []escore.Event{Added{N: 5}, Added{N: 2}}, nil, expectedVersion(v))
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if v != 3 {
			t.Fatalf("expected version 3, got %d", v)
		}

		events, version, err := escore.LoadEvents(ctx, s, streamID, reg)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(events) != 3 {
			t.Fatalf("expected 3 events, got %d", len(events))
		}
		if version != 3 {
			t.Fatalf("expected last version 3, got %d", version)
		}
		if _, ok := events[0].(Opened); !ok {
			t.Fatalf("expected first event to be Opened, got %T", events[0])
		}
	})

	t.Run("version conflict", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		s := newStore(t)
		streamID := "urn:stream:2"

		if _, _, err := s.Append(ctx, streamID, "Stream", []escore.Event{Opened{ID: "2"}}, nil, expectedVersion(0)); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		_, _, err := s.Append(ctx, streamID, "Stream", []escore.Event{Added{N: 1}}, nil, expectedVersion(0))

		var vc *escore.VersionConflictError
		if !errors.As(err, &vc) {
			t.Fatalf("expected VersionConflictError, got %v", err)
		}
		if !errors.Is(err, escore.ErrVersionConflict) {
			t.Fatalf("expected errors.Is to match ErrVersionConflict")
		}
		if vc.ExpectedVersion != 0 || vc.ActualVersion != 1 {
			t.Fatalf("unexpected conflict details: %+v", vc)
		}
	})

	t.Run("stream type mismatch", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		s := newStore(t)
		streamID := "urn:stream:3"

		if _, _, err := s.Append(ctx, streamID, "Stream", []escore.Event{Opened{ID: "3"}}, nil, expectedVersion(0)); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		_, _, err := s.Append(ctx, streamID, "OtherStream", []escore.Event{Added{N: 1}}, nil, nil)

		var tm *escore.StreamTypeMismatchError
		if !errors.As(err, &tm) {
			t.Fatalf("expected StreamTypeMismatchError, got %v", err)
		}
	})

	t.Run("empty append is a pure version check", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		s := newStore(t)
		streamID := "urn:stream:4"

		if _, _, err := s.Append(ctx, streamID, "Stream", []escore.Event{Opened{ID: "4"}}, nil, expectedVersion(0)); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		v, ids, err := s.Append(ctx, streamID, "Stream", nil, nil, expectedVersion(1))
		if err != nil {
			t.Fatalf("empty append failed: %v", err)
		}
		if v != 1 {
			t.Fatalf("expected version to stay 1, got %d", v)
		}
		if len(ids) != 0 {
			t.Fatalf("expected no assigned ids, got %v", ids)
		}
	})

	t.Run("ByStreamType orders by (stream_id, version)", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		s := newStore(t)
		reg := Registry()

		if _, _, err := s.Append(ctx, "urn:stream:b", "Widget", []escore.Event{Opened{ID: "b"}, Added{N: 1}}, nil, expectedVersion(0)); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if _, _, err := s.Append(ctx, "urn:stream:a", "Widget", []escore.Event{Opened{ID: "a"}}, nil, expectedVersion(0)); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if _, _, err := s.Append(ctx, "urn:stream:other", "Gadget", []escore.Event{Opened{ID: "other"}}, nil, expectedVersion(0)); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		stream, err := s.StreamEvents(ctx, escore.FilterByStreamType("Widget"), reg)
		if err != nil {
			t.Fatalf("stream events failed: %v", err)
		}
		defer stream.Close()

		var got []escore.PersistedEvent
		for {
			pe, ok, err := stream.Next(ctx)
			if err != nil {
				t.Fatalf("next failed: %v", err)
			}
			if !ok {
				break
			}
			got = append(got, pe)
		}

		if len(got) != 3 {
			t.Fatalf("expected 3 events across both Widget streams, got %d", len(got))
		}
		// per-stream version must be monotonic non-decreasing (P7); streams
		// grouped together (stream_id tie-break).
		lastByStream := map[string]int64{}
		for i, pe := range got {
			if pe.StreamType != "Widget" {
				t.Fatalf("leaked event from other stream type: %+v", pe)
			}
			if i > 0 && pe.StreamID < got[i-1].StreamID {
				t.Fatalf("streams not ordered by stream_id: %s after %s", pe.StreamID, got[i-1].StreamID)
			}
			if prev, ok := lastByStream[pe.StreamID]; ok && pe.Version < prev {
				t.Fatalf("version went backwards for %s: %d after %d", pe.StreamID, pe.Version, prev)
			}
			lastByStream[pe.StreamID] = pe.Version
		}
	})

	t.Run("All orders by created then (stream_id, version)", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		s := newStore(t)
		reg := Registry()

		if _, _, err := s.Append(ctx, "urn:stream:x", "Thing", []escore.Event{Opened{ID: "x"}}, nil, expectedVersion(0)); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if _, _, err := s.Append(ctx, "urn:stream:y", "Thing", []escore.Event{Opened{ID: "y"}}, nil, expectedVersion(0)); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		stream, err := s.StreamEvents(ctx, escore.FilterAll(), reg)
		if err != nil {
			t.Fatalf("stream events failed: %v", err)
		}
		defer stream.Close()

		count := 0
		posX, posY := -1, -1
		for {
			pe, ok, err := stream.Next(ctx)
			if err != nil {
				t.Fatalf("next failed: %v", err)
			}
			if !ok {
				break
			}
			switch pe.StreamID {
			case "urn:stream:x":
				posX = count
			case "urn:stream:y":
				posY = count
			}
			count++
		}
		if count < 2 {
			t.Fatalf("expected at least 2 events from All, got %d", count)
		}
		// x was appended first, and also sorts first on the stream_id
		// tie-break, so it must come before y.
		if posX < 0 || posY < 0 || posX > posY {
			t.Fatalf("expected urn:stream:x before urn:stream:y, got positions %d and %d", posX, posY)
		}
	})

	t.Run("unknown event type is skipped by default", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		s := newStore(t)
		streamID := "urn:stream:unknown"

		full := Registry()
		if _, _, err := s.Append(ctx, streamID, "Stream", []escore.Event{Opened{ID: "u"}, Renamed{Name: "n"}}, nil, expectedVersion(0)); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		narrow := map[string]escore.EventCodec{"Opened": full["Opened"]}

		stream, err := s.StreamEvents(ctx, escore.FilterByStreamID(streamID), narrow)
		if err != nil {
			t.Fatalf("stream events failed: %v", err)
		}
		defer stream.Close()

		var sawError, sawOpened bool
		for {
			pe, ok, err := stream.Next(ctx)
			if err != nil {
				t.Fatalf("next failed: %v", err)
			}
			if !ok {
				break
			}
			if pe.Err != nil {
				var de *escore.DeserializationError
				if !errors.As(pe.Err, &de) {
					t.Fatalf("expected DeserializationError, got %v", pe.Err)
				}
				sawError = true
				continue
			}
			if _, ok := pe.Data.(Opened); ok {
				sawOpened = true
			}
		}
		if !sawError {
			t.Fatalf("expected an unknown-type item to be skipped with an error")
		}
		if !sawOpened {
			t.Fatalf("expected the known Opened event to still be decoded")
		}
	})

	t.Run("unknown event type fails fast when requested", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		s := newStore(t)
		streamID := "urn:stream:unknown-strict"

		if _, _, err := s.Append(ctx, streamID, "Stream", []escore.Event{Renamed{Name: "n"}}, nil, expectedVersion(0)); err != nil {
			t.Fatalf("append failed: %v", err)
		}

		filter := escore.FilterByStreamID(streamID)
		filter.OnUnknownType = escore.FailUnknown

		stream, err := s.StreamEvents(ctx, filter, map[string]escore.EventCodec{})
		if err != nil {
			return // failing fast from StreamEvents itself also satisfies the contract
		}
		defer stream.Close()

		_, _, err = stream.Next(ctx)
		if err == nil {
			t.Fatalf("expected an error for an unregistered event type")
		}
	})

	t.Run("snapshot round trip", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		s := newStore(t)
		streamID := "urn:stream:snap"

		snap, err := s.LoadSnapshot(ctx, streamID)
		if err != nil {
			t.Fatalf("load snapshot failed: %v", err)
		}
		if snap.Found {
			t.Fatalf("expected no snapshot yet")
		}

		if err := s.SaveSnapshot(ctx, streamID, 3, map[string]any{"balance": 60}); err != nil {
			t.Fatalf("save snapshot failed: %v", err)
		}

		snap, err = s.LoadSnapshot(ctx, streamID)
		if err != nil {
			t.Fatalf("load snapshot failed: %v", err)
		}
		if !snap.Found || snap.Version != 3 {
			t.Fatalf("unexpected snapshot: %+v", snap)
		}
	})
}
