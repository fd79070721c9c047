package escore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	escore "github.com/escore/escore"
)

// fakeStore is a minimal single-stream EventStore used only to exercise
// LoadEvents/LoadExistingEvents/Execute without pulling in a real backend
// (those are tested through internal/storetest against stores/mem and
// stores/pgx instead).
type fakeStore struct {
	events map[string][]escore.Event
}

func newFakeStore() *fakeStore { return &fakeStore{events: map[string][]escore.Event{}} }

func (s *fakeStore) Append(_ context.Context, streamID, _ string, events []escore.Event, _ escore.Metadata, _ *int64) (int64, []string, error) {
	s.events[streamID] = append(s.events[streamID], events...)
	return int64(len(s.events[streamID])), nil, nil
}

func (s *fakeStore) StreamEvents(_ context.Context, filter escore.StreamFilter, _ map[string]escore.EventCodec) (escore.LazyEventStream, error) {
	var out []escore.PersistedEvent
	for i, e := range s.events[filter.StreamID] {
		out = append(out, escore.PersistedEvent{StreamID: filter.StreamID, Version: int64(i + 1), Data: e})
	}
	return escore.NewSliceStream(out), nil
}

func (s *fakeStore) SaveSnapshot(context.Context, string, int64, any) error { return nil }

func (s *fakeStore) LoadSnapshot(context.Context, string) (escore.Snapshot, error) {
	return escore.Snapshot{Found: false}, nil
}

var _ escore.EventStore = (*fakeStore)(nil)

func TestLoadExistingEvents_NeverCreatedStreamIsNotFound(t *testing.T) {
	store := newFakeStore()

	_, _, err := escore.LoadExistingEvents(context.Background(), store, "urn:stream:missing", nil)

	var notFound *escore.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.ErrorIs(t, err, escore.ErrNotFound)
}

func TestLoadExistingEvents_PopulatedStreamSucceeds(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	_, _, err := store.Append(ctx, "urn:stream:1", "Stream", []escore.Event{1}, nil, nil)
	require.NoError(t, err)

	events, version, err := escore.LoadExistingEvents(ctx, store, "urn:stream:1", nil)
	require.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, int64(1), version)
}
