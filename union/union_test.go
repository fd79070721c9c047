package union_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escore/escore/union"
)

type fooEvent struct {
	N int
}

func (fooEvent) EventType() string { return "Foo" }

type barEvent struct {
	S string
}

func (barEvent) EventType() string { return "Bar" }

func TestBox_UnwrapAndEventType(t *testing.T) {
	b := union.Of(fooEvent{N: 7})
	assert.Equal(t, "Foo", b.EventType())
	assert.Equal(t, fooEvent{N: 7}, b.Unwrap())
}

func TestBox_Equal(t *testing.T) {
	a := union.Of(fooEvent{N: 1})
	b := union.Of(fooEvent{N: 1})
	c := union.Of(fooEvent{N: 2})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestBox_JSONRoundTrip(t *testing.T) {
	b := union.Of(barEvent{S: "hello"})
	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, `{"S":"hello"}`, string(data))

	var out union.Box[barEvent]
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, b, out)
}

// collectAsMembers is a compile-time check that Box[fooEvent] and Box[barEvent]
// both satisfy the closed union.Member interface, even though fooEvent and
// barEvent are unrelated types.
func collectAsMembers(foo fooEvent, bar barEvent) []union.Member {
	return []union.Member{union.Of(foo), union.Of(bar)}
}

func TestBox_SatisfiesMember(t *testing.T) {
	members := collectAsMembers(fooEvent{N: 1}, barEvent{S: "x"})
	require.Len(t, members, 2)
	assert.Equal(t, "Foo", members[0].EventType())
	assert.Equal(t, "Bar", members[1].EventType())
}
