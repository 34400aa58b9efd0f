package datatype

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookupDefaultsToToken(t *testing.T) {
	r := NewRegistry()
	lib := r.Lookup("urn:unregistered")
	_, ok := lib.(TokenLibrary)
	assert.True(t, ok)
}

func TestTokenEqualCollapsesWhitespace(t *testing.T) {
	tok := TokenLibrary{}
	eq, err := tok.Equal(context.Background(), nil, "token", "  a   b\tc ", "a b c", nil)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestTokenStringDoesNotCollapse(t *testing.T) {
	tok := TokenLibrary{}
	eq, err := tok.Equal(context.Background(), nil, "string", "a  b", "a b", nil)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestTokenAllowsEmpty(t *testing.T) {
	tok := TokenLibrary{}
	assert.True(t, tok.AllowsEmpty("token", nil))
}

func TestXSDIntegerDisallows(t *testing.T) {
	xsd := XSDLibrary{}
	disallowed, _, err := xsd.Disallows(context.Background(), nil, "integer", "not-a-number", nil)
	require.NoError(t, err)
	assert.True(t, disallowed)

	disallowed, _, err = xsd.Disallows(context.Background(), nil, "integer", "42", nil)
	require.NoError(t, err)
	assert.False(t, disallowed)
}

func TestXSDFloatAcceptsINFAndNaN(t *testing.T) {
	xsd := XSDLibrary{}
	for _, v := range []string{"INF", "-INF", "NaN", "3.14", "1E10"} {
		disallowed, _, err := xsd.Disallows(context.Background(), nil, "float", v, nil)
		require.NoError(t, err)
		assert.Falsef(t, disallowed, "expected %q to be a valid xsd:float", v)
	}
}

func TestXSDFloatEqualNaN(t *testing.T) {
	xsd := XSDLibrary{}
	eq, err := xsd.Equal(context.Background(), nil, "float", "NaN", "NaN", nil)
	require.NoError(t, err)
	assert.True(t, eq, "NaN equals NaN for xsd:float value comparison purposes")
}

func TestXSDNumericFacets(t *testing.T) {
	xsd := XSDLibrary{}
	params := []Param{{Name: "minInclusive", Value: "10"}, {Name: "maxInclusive", Value: "20"}}
	disallowed, _, err := xsd.Disallows(context.Background(), nil, "integer", "5", params)
	require.NoError(t, err)
	assert.True(t, disallowed)

	disallowed, _, err = xsd.Disallows(context.Background(), nil, "integer", "15", params)
	require.NoError(t, err)
	assert.False(t, disallowed)
}

func TestXSDAllowsEmpty(t *testing.T) {
	xsd := XSDLibrary{}
	assert.True(t, xsd.AllowsEmpty("string", nil))
	assert.False(t, xsd.AllowsEmpty("integer", nil))
}
