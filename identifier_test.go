package escore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	escore "github.com/escore/escore"
)

type widgetNS struct{}

func (widgetNS) Namespace() string { return "widget" }

func TestID_RoundTrip(t *testing.T) {
	id, err := escore.New[widgetNS]("abc-123")
	require.NoError(t, err)
	assert.Equal(t, "urn:widget:abc-123", id.String())
	assert.Equal(t, "widget", id.Nid())
	assert.Equal(t, "abc-123", id.Nss())

	parsed, err := escore.Parse[widgetNS](id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestID_New_RejectsEmptyNss(t *testing.T) {
	_, err := escore.New[widgetNS]("")
	require.Error(t, err)
	var pe *escore.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestID_Parse_RejectsWrongNamespace(t *testing.T) {
	_, err := escore.Parse[widgetNS]("urn:gadget:abc-123")
	require.Error(t, err)
}

func TestID_Parse_RejectsMalformed(t *testing.T) {
	for _, s := range []string{"abc-123", "urn:widget", "urn::abc", "notaurn:widget:x"} {
		_, err := escore.Parse[widgetNS](s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestID_Parse_NssMayContainColons(t *testing.T) {
	id, err := escore.Parse[widgetNS]("urn:widget:a:b:c")
	require.NoError(t, err)
	assert.Equal(t, "a:b:c", id.Nss())
}

func TestID_MarshalUnmarshalText(t *testing.T) {
	id := escore.MustNew[widgetNS]("xyz")
	text, err := id.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "urn:widget:xyz", string(text))

	var out escore.ID[widgetNS]
	require.NoError(t, out.UnmarshalText(text))
	assert.Equal(t, id, out)
}
