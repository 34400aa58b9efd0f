package rngschema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaxwalk/rngcore/nameclass"
	"github.com/relaxwalk/rngcore/pattern"
)

// docFooBar encodes: start -> ref("root"); define root = element foo {
// attribute bar { text }, text }
const docFooBar = `{
  "v": 1,
  "o": 0,
  "start": 0,
  "d": [
    ["ref", "root"],
    ["text"],
    ["attribute", ["name", "", "bar"], 1],
    ["group", 2, 1],
    ["element", ["name", "", "foo"], 3],
    ["define", "root", 4]
  ]
}`

func buildExpectedFooBarGrammar(t *testing.T) *pattern.Grammar {
	t.Helper()
	g := pattern.NewGrammar(nil)
	text1 := g.NewText("text1")
	attr := g.NewAttribute("attr", nameclass.NewName("", "bar"), text1)
	text2 := g.NewText("text2")
	group := g.NewGroup("group", attr, text2)
	elem := g.NewElement("elem", nameclass.NewName("", "foo"), group)
	g.NewDefine("def", "root", elem)
	g.SetStart(g.NewRef("startref", "root"))
	require.NoError(t, g.Prepare())
	return g
}

func TestLoadFromBytesMatchesHandBuiltGrammar(t *testing.T) {
	got, err := Load(WithBytes([]byte(docFooBar)))
	require.NoError(t, err)

	want := buildExpectedFooBarGrammar(t)
	assert.True(t, pattern.Equal(want, want.Start(), got, got.Start()))
}

func TestLoadFromReader(t *testing.T) {
	got, err := Load(WithReader(strings.NewReader(docFooBar)))
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestLoadRequiresInputSource(t *testing.T) {
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsMultipleInputSources(t *testing.T) {
	_, err := Load(WithBytes([]byte(docFooBar)), WithReader(strings.NewReader(docFooBar)))
	assert.Error(t, err)
}

func TestLoadRejectsMissingVersion(t *testing.T) {
	_, err := Load(WithBytes([]byte(`{"d":[["empty"]],"start":0}`)))
	assert.Error(t, err)
}

func TestLoadRejectsUnresolvedRef(t *testing.T) {
	doc := `{"v":1,"start":0,"d":[["ref","nonexistent"]]}`
	_, err := Load(WithBytes([]byte(doc)))
	assert.Error(t, err)
}

func TestLoadOneOrMoreAndChoice(t *testing.T) {
	// d[0]=empty, d[1]=element item{empty}, d[2]=oneOrMore(item),
	// d[3]=element other{empty}, d[4]=choice(oneOrMore(item), other)
	doc := `{
		"v": 1,
		"start": 4,
		"d": [
			["empty"],
			["element", ["name", "", "item"], 0],
			["oneOrMore", 1],
			["element", ["name", "", "other"], 0],
			["choice", 2, 3]
		]
	}`
	g, err := Load(WithBytes([]byte(doc)))
	require.NoError(t, err)
	assert.True(t, g.HasEmptyPattern(g.Start()) == false)
}

func TestLoadOutOfRangeReferenceRejected(t *testing.T) {
	doc := `{"v":1,"start":0,"d":[["oneOrMore", 99]]}`
	_, err := Load(WithBytes([]byte(doc)))
	assert.Error(t, err)
}
