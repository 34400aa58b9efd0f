package pattern

import (
	"errors"
	"testing"

	"github.com/relaxwalk/rngcore/datatype"
	"github.com/relaxwalk/rngcore/nameclass"
	"github.com/relaxwalk/rngcore/rngerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSimpleGrammar constructs: start = Element{foo}( Attribute{bar}(Text) )
func buildSimpleGrammar(t *testing.T) (*Grammar, ID) {
	t.Helper()
	g := NewGrammar(nil)
	text := g.NewText("text")
	attr := g.NewAttribute("attr", nameclass.NewName("", "bar"), text)
	elem := g.NewElement("elem", nameclass.NewName("", "foo"), attr)
	define := g.NewDefine("def", "start", elem)
	ref := g.NewRef("ref", "start")
	g.SetStart(ref)
	require.NoError(t, g.Prepare())
	return g, define
}

func TestPrepareResolvesRefs(t *testing.T) {
	g, define := buildSimpleGrammar(t)
	assert.NotEqual(t, InvalidID, g.start)
	id, ok := g.ResolveRef("start")
	require.True(t, ok)
	assert.Equal(t, define, id)
}

func TestPrepareFailsOnUnresolvedRef(t *testing.T) {
	g := NewGrammar(nil)
	ref := g.NewRef("ref", "missing")
	g.SetStart(ref)

	err := g.Prepare()
	require.Error(t, err)

	var unresolved *rngerrors.UnresolvedReferenceError
	require.True(t, errors.As(err, &unresolved))
	assert.Equal(t, []string{"missing"}, unresolved.Names)
	assert.True(t, errors.Is(err, rngerrors.ErrUnresolvedReference))
}

func TestHasAttrsCache(t *testing.T) {
	g := NewGrammar(nil)
	text := g.NewText("t")
	attr := g.NewAttribute("a", nameclass.NewName("", "bar"), text)
	elem := g.NewElement("e", nameclass.NewName("", "foo"), attr)
	g.SetStart(elem)
	require.NoError(t, g.Prepare())

	assert.True(t, g.HasAttrs(attr))
	assert.False(t, g.HasAttrs(elem), "Element is always opaque to has_attrs")
	assert.False(t, g.HasAttrs(text))
}

func TestHasEmptyPatternCache(t *testing.T) {
	g := NewGrammar(nil)
	empty := g.NewEmpty("e")
	notAllowed := g.NewNotAllowed("na")
	choice := g.NewChoice("c", empty, notAllowed)
	group := g.NewGroup("g", empty, notAllowed)
	oneOrMore := g.NewOneOrMore("o", empty)
	g.SetStart(choice)
	require.NoError(t, g.Prepare())

	assert.True(t, g.HasEmptyPattern(empty))
	assert.False(t, g.HasEmptyPattern(notAllowed))
	assert.True(t, g.HasEmptyPattern(choice), "Choice is nullable if either branch is")
	assert.False(t, g.HasEmptyPattern(group), "Group requires both branches nullable")
	assert.True(t, g.HasEmptyPattern(oneOrMore))
}

func TestHasEmptyPatternValueAndData(t *testing.T) {
	g := NewGrammar(nil)
	emptyValue := g.NewValue("v1", "token", "", "", "")
	nonEmptyValue := g.NewValue("v2", "token", "", "", "x")
	data := g.NewData("d", "string", "", nil, InvalidID)
	g.SetStart(g.NewGroup("root", emptyValue, g.NewGroup("root2", nonEmptyValue, data)))
	require.NoError(t, g.Prepare())

	assert.True(t, g.HasEmptyPattern(emptyValue))
	assert.False(t, g.HasEmptyPattern(nonEmptyValue))
	assert.True(t, g.HasEmptyPattern(data), "the built-in library's string type allows the empty string")
}

func TestElementDefinitionsMultimap(t *testing.T) {
	g, define := buildSimpleGrammar(t)
	defs := g.ElementDefinitions(nameclass.Expanded{NS: "", Local: "foo"})
	require.Len(t, defs, 1)
	assert.Equal(t, define, defs[0])
}

func TestElementDefinitionsExcludesWildcards(t *testing.T) {
	g := NewGrammar(nil)
	elem := g.NewElement("e", nameclass.NewAnyName(nil), g.NewEmpty("empty"))
	g.NewDefine("d", "wild", elem)
	g.SetStart(g.NewRef("r", "wild"))
	require.NoError(t, g.Prepare())

	assert.Empty(t, g.ElementDefinitions(nameclass.Expanded{NS: "", Local: "anything"}))
}

func TestNamespacesAccumulated(t *testing.T) {
	g := NewGrammar(nil)
	elem := g.NewElement("e", nameclass.NewName("urn:example", "foo"), g.NewEmpty("empty"))
	g.SetStart(elem)
	require.NoError(t, g.Prepare())

	_, ok := g.Namespaces()["urn:example"]
	assert.True(t, ok)
}

func TestNamespacesAccumulationFollowsRefs(t *testing.T) {
	g := NewGrammar(nil)
	elem := g.NewElement("e", nameclass.NewName("urn:inner", "inner"), g.NewEmpty("empty"))
	g.NewDefine("d", "inner-def", elem)
	outer := g.NewElement("outer", nameclass.NewName("urn:outer", "outer"), g.NewRef("r", "inner-def"))
	g.SetStart(outer)
	require.NoError(t, g.Prepare())

	ns := g.Namespaces()
	_, hasInner := ns["urn:inner"]
	_, hasOuter := ns["urn:outer"]
	assert.True(t, hasInner)
	assert.True(t, hasOuter)
}

func TestPrepareIsIdempotent(t *testing.T) {
	g, _ := buildSimpleGrammar(t)
	require.NoError(t, g.Prepare())
}

func TestDatatypesDefaultRegistry(t *testing.T) {
	g := NewGrammar(nil)
	assert.NotNil(t, g.Datatypes())
	lib := g.Datatypes().Lookup("")
	_, ok := lib.(datatype.TokenLibrary)
	assert.True(t, ok)
}

func TestContainingElements(t *testing.T) {
	g := NewGrammar(nil)
	childElem := g.NewElement("child", nameclass.NewName("", "child"), g.NewEmpty("e"))
	g.NewDefine("child-def", "child-def", childElem)
	parentElem := g.NewElement("parent", nameclass.NewName("", "parent"), g.NewRef("r", "child-def"))
	g.NewDefine("parent-def", "parent-def", parentElem)
	g.SetStart(g.NewRef("start", "parent-def"))
	require.NoError(t, g.Prepare())

	containers := g.ContainingElements("child-def")
	require.Len(t, containers, 1)
	assert.Equal(t, "parent", containers[0])
}
