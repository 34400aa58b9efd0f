package nsresolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUnprefixedElement(t *testing.T) {
	r := New()
	r.DefinePrefix("", "urn:default")
	name, ok := r.ResolveName("foo", false)
	require.True(t, ok)
	assert.Equal(t, "urn:default", name.NS)
	assert.Equal(t, "foo", name.Local)
}

func TestResolveUnprefixedAttributeIgnoresDefaultNamespace(t *testing.T) {
	r := New()
	r.DefinePrefix("", "urn:default")
	name, ok := r.ResolveName("foo", true)
	require.True(t, ok)
	assert.Equal(t, "", name.NS, "unprefixed attribute names never inherit the default namespace")
}

func TestResolvePrefixed(t *testing.T) {
	r := New()
	r.DefinePrefix("a", "urn:a")
	name, ok := r.ResolveName("a:foo", false)
	require.True(t, ok)
	assert.Equal(t, "urn:a", name.NS)
	assert.Equal(t, "foo", name.Local)
}

func TestResolveUnknownPrefix(t *testing.T) {
	r := New()
	_, ok := r.ResolveName("x:foo", false)
	assert.False(t, ok)
}

func TestScopeStackPushPop(t *testing.T) {
	r := New()
	r.DefinePrefix("a", "urn:outer")
	r.EnterContext()
	r.DefinePrefix("a", "urn:inner")
	name, ok := r.ResolveName("a:foo", false)
	require.True(t, ok)
	assert.Equal(t, "urn:inner", name.NS)

	r.LeaveContext()
	name, ok = r.ResolveName("a:foo", false)
	require.True(t, ok)
	assert.Equal(t, "urn:outer", name.NS)
}

func TestLeaveContextNeverPopsRoot(t *testing.T) {
	r := New()
	r.DefinePrefix("a", "urn:a")
	r.LeaveContext()
	r.LeaveContext()
	name, ok := r.ResolveName("a:foo", false)
	require.True(t, ok)
	assert.Equal(t, "urn:a", name.NS)
}

func TestCloneIsIndependent(t *testing.T) {
	r := New()
	r.DefinePrefix("a", "urn:a")
	clone := r.Clone()
	clone.DefinePrefix("b", "urn:b")

	_, ok := r.ResolveName("b:foo", false)
	assert.False(t, ok, "mutating the clone must not affect the original")

	name, ok := clone.ResolveName("a:foo", false)
	require.True(t, ok)
	assert.Equal(t, "urn:a", name.NS)
}

func TestUnresolveName(t *testing.T) {
	r := New()
	r.DefinePrefix("a", "urn:a")
	assert.Equal(t, "a:foo", r.UnresolveName("urn:a", "foo"))
	assert.Equal(t, "foo", r.UnresolveName("", "foo"))
}

func TestUnresolveDefaultNamespace(t *testing.T) {
	r := New()
	r.DefinePrefix("", "urn:default")
	assert.Equal(t, "foo", r.UnresolveName("urn:default", "foo"))
}
