package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaxwalk/rngcore/datatype"
	"github.com/relaxwalk/rngcore/nameclass"
)

func TestEqualIdenticalStructureAcrossGrammars(t *testing.T) {
	build := func() (*Grammar, ID) {
		g := NewGrammar(nil)
		text := g.NewText("t")
		attr := g.NewAttribute("a", nameclass.NewName("", "bar"), text)
		elem := g.NewElement("e", nameclass.NewName("", "foo"), attr)
		g.NewDefine("d", "root", elem)
		g.SetStart(g.NewRef("r", "root"))
		require.NoError(t, g.Prepare())
		return g, g.Start()
	}
	ga, a := build()
	gb, b := build()
	assert.True(t, Equal(ga, a, gb, b))
}

func TestEqualDetectsDifferingAttributeName(t *testing.T) {
	ga := NewGrammar(nil)
	elemA := ga.NewElement("e", nameclass.NewName("", "foo"),
		ga.NewAttribute("a", nameclass.NewName("", "bar"), ga.NewText("t")))
	ga.SetStart(elemA)
	require.NoError(t, ga.Prepare())

	gb := NewGrammar(nil)
	elemB := gb.NewElement("e", nameclass.NewName("", "foo"),
		gb.NewAttribute("a", nameclass.NewName("", "baz"), gb.NewText("t")))
	gb.SetStart(elemB)
	require.NoError(t, gb.Prepare())

	assert.False(t, Equal(ga, ga.Start(), gb, gb.Start()))
}

func TestEqualDetectsDifferingKind(t *testing.T) {
	ga := NewGrammar(nil)
	ga.SetStart(ga.NewEmpty("e"))
	require.NoError(t, ga.Prepare())

	gb := NewGrammar(nil)
	gb.SetStart(gb.NewText("t"))
	require.NoError(t, gb.Prepare())

	assert.False(t, Equal(ga, ga.Start(), gb, gb.Start()))
}

func TestEqualFollowsRefsByName(t *testing.T) {
	ga := NewGrammar(nil)
	ga.NewDefine("d", "shared", ga.NewElement("e", nameclass.NewName("", "foo"), ga.NewEmpty("ee")))
	ga.SetStart(ga.NewRef("r", "shared"))
	require.NoError(t, ga.Prepare())

	gb := NewGrammar(nil)
	gb.NewDefine("d2", "shared", gb.NewElement("e2", nameclass.NewName("", "foo"), gb.NewEmpty("ee2")))
	gb.SetStart(gb.NewRef("r2", "shared"))
	require.NoError(t, gb.Prepare())

	assert.True(t, Equal(ga, ga.Start(), gb, gb.Start()))
}

func TestEqualHandlesCyclicDefinitions(t *testing.T) {
	build := func() (*Grammar, ID) {
		g := NewGrammar(nil)
		inner := g.NewElement("inner", nameclass.NewName("", "child"), g.NewRef("selfref", "node"))
		g.NewDefine("d", "node", inner)
		start := g.NewRef("start", "node")
		g.SetStart(start)
		require.NoError(t, g.Prepare())
		return g, start
	}
	ga, a := build()
	gb, b := build()
	assert.True(t, Equal(ga, a, gb, b))
}

func TestEqualDetectsDifferingDataParams(t *testing.T) {
	ga := NewGrammar(nil)
	ga.SetStart(ga.NewData("d", "integer", "", []datatype.Param{{Name: "minInclusive", Value: "0"}}, InvalidID))
	require.NoError(t, ga.Prepare())

	gb := NewGrammar(nil)
	gb.SetStart(gb.NewData("d", "integer", "", []datatype.Param{{Name: "minInclusive", Value: "1"}}, InvalidID))
	require.NoError(t, gb.Prepare())

	assert.False(t, Equal(ga, ga.Start(), gb, gb.Start()))
}
