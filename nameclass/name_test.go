package nameclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameMatch(t *testing.T) {
	c := NewName("urn:a", "foo")
	assert.True(t, c.Match("urn:a", "foo"))
	assert.False(t, c.Match("urn:a", "bar"))
	assert.False(t, c.Match("urn:b", "foo"))
}

func TestNsNameMatch(t *testing.T) {
	c := NewNsName("urn:a", nil)
	assert.True(t, c.Match("urn:a", "anything"))
	assert.False(t, c.Match("urn:b", "anything"))

	except := NewName("urn:a", "forbidden")
	c = NewNsName("urn:a", &except)
	assert.True(t, c.Match("urn:a", "ok"))
	assert.False(t, c.Match("urn:a", "forbidden"))
}

func TestAnyNameMatch(t *testing.T) {
	c := NewAnyName(nil)
	assert.True(t, c.Match("urn:a", "x"))
	assert.True(t, c.Match("", "x"))

	except := NewNsName("urn:bad", nil)
	c = NewAnyName(&except)
	assert.True(t, c.Match("urn:good", "x"))
	assert.False(t, c.Match("urn:bad", "x"))
}

func TestNameChoiceMatch(t *testing.T) {
	a := NewName("", "foo")
	b := NewName("", "bar")
	c := NewNameChoice(a, b)
	assert.True(t, c.Match("", "foo"))
	assert.True(t, c.Match("", "bar"))
	assert.False(t, c.Match("", "baz"))
}

func TestIsSimple(t *testing.T) {
	a := NewName("", "foo")
	b := NewName("", "bar")
	require.True(t, NewNameChoice(a, b).IsSimple())

	wild := NewAnyName(nil)
	assert.False(t, NewNameChoice(a, wild).IsSimple())
	assert.False(t, wild.IsSimple())
}

func TestRecordNamespaces(t *testing.T) {
	out := make(map[string]struct{})
	NewName("urn:a", "foo").RecordNamespaces(out, true)
	assert.Contains(t, out, "urn:a")

	out = make(map[string]struct{})
	NewAnyName(nil).RecordNamespaces(out, true)
	assert.Contains(t, out, NamespaceWildcard)

	out = make(map[string]struct{})
	except := NewName("urn:a", "x")
	NewNsName("urn:a", &except).RecordNamespaces(out, true)
	assert.Contains(t, out, "urn:a")
	assert.Contains(t, out, NamespaceExcept)
}

func TestExpandedString(t *testing.T) {
	assert.Equal(t, "foo", Expanded{Local: "foo"}.String())
	assert.Equal(t, "{urn:a}foo", Expanded{NS: "urn:a", Local: "foo"}.String())
}

func TestExpandedEqual(t *testing.T) {
	a := Expanded{NS: "urn:a", Local: "foo"}
	b := Expanded{NS: "urn:a", Local: "foo"}
	c := Expanded{NS: "urn:a", Local: "bar"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
