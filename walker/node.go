// Package walker implements incremental Relax NG validation: a
// GrammarWalker consumes one rngevent.Event at a time against a
// prepared pattern.Grammar and reports either acceptance or a
// structured rngerrors value, without ever re-reading earlier events.
//
// Internally each live interpretation of "where we are in the content
// model" is represented as a small, freshly allocated tree of runtime
// nodes mirroring Brzozowski's derivative construction for regular
// tree grammars (the same technique published for streaming Relax NG
// validators): every event transforms a runtime node into its
// derivative with respect to that event, and a pattern is valid to end
// on exactly when its current derivative is nullable.
//
// Unlike the immutable, arena-indexed pattern.Grammar (whose nodes are
// fixed once and shared across every walk), runtime nodes here are
// ordinary garbage-collected Go values: they exist only for the
// lifetime of one walk (or one branch of one walk), are never mutated
// in place, and a branch that dies is simply dropped for the garbage
// collector to reclaim. This is a deliberate departure from the
// arena/ID technique used for the immutable schema: runtime nodes do
// not form cycles (conversion from a pattern.Grammar always stops at
// element boundaries, see fromPattern below), so there is no cycle
// hazard to guard against, and per-walk garbage collection is the
// simpler, more idiomatic choice here.
package walker

import (
	"context"
	"strings"

	"github.com/relaxwalk/rngcore/datatype"
	"github.com/relaxwalk/rngcore/nameclass"
	"github.com/relaxwalk/rngcore/pattern"
)

type nkind uint8

const (
	nEmpty nkind = iota
	nNotAllowed
	nText
	nValue
	nData
	nList
	nAttribute
	nElement
	nGroup
	nChoice
	nInterleave
	nOneOrMore
)

// node is one runtime derivative-tree node. As with pattern.Node, it is
// a tagged union; which fields matter depends on kind.
type node struct {
	kind nkind

	c1, c2 *node // Group/Choice/Interleave/OneOrMore(c1 only)/List(c1)/Attribute(c1=value content)

	nameClass nameclass.Class // Attribute, Element

	datatypeName, datatypeNS string           // Value, Data
	params                   []datatype.Param // Data
	rawValue, valueNS        string           // Value
	except                   *node            // Data: optional <except> value-content, nil if absent

	// contentID is the schema pattern ID of an Element's content,
	// converted lazily via fromPattern only once a start tag actually
	// opens that element (see openChildren); this is what keeps
	// conversion from recursing through a cyclic grammar.
	contentID pattern.ID
}

var (
	emptyNode      = &node{kind: nEmpty}
	notAllowedNode = &node{kind: nNotAllowed}
)

// fromPattern lazily converts a schema pattern into a runtime node. Ref
// is resolved to its Define's Element without converting that
// Element's own content, which is exactly the opacity boundary that
// lets this function terminate on a cyclic grammar: the only kind that
// recurses into content the caller hasn't already asked for is never
// reached here.
func fromPattern(g *pattern.Grammar, id pattern.ID) *node {
	n := g.Node(id)
	switch n.Kind {
	case pattern.KindEmpty:
		return emptyNode
	case pattern.KindNotAllowed:
		return notAllowedNode
	case pattern.KindText:
		return &node{kind: nText}
	case pattern.KindValue:
		return &node{kind: nValue, datatypeName: n.DatatypeName, datatypeNS: n.DatatypeNS, rawValue: n.RawValue, valueNS: n.ValueNS}
	case pattern.KindData:
		var except *node
		if n.Child1 != pattern.InvalidID {
			except = fromPattern(g, n.Child1)
		}
		return &node{kind: nData, datatypeName: n.DatatypeName, datatypeNS: n.DatatypeNS, params: n.Params, except: except}
	case pattern.KindList:
		return &node{kind: nList, c1: fromPattern(g, n.Child1)}
	case pattern.KindAttribute:
		return &node{kind: nAttribute, nameClass: n.NameClass, c1: fromPattern(g, n.Child1)}
	case pattern.KindElement:
		return &node{kind: nElement, nameClass: n.NameClass, contentID: n.Child1}
	case pattern.KindRef:
		defID, ok := g.ResolveRef(n.RefTarget)
		if !ok {
			return notAllowedNode
		}
		def := g.Node(defID)
		return fromPattern(g, def.Child1)
	case pattern.KindGroup:
		return &node{kind: nGroup, c1: fromPattern(g, n.Child1), c2: fromPattern(g, n.Child2)}
	case pattern.KindChoice:
		return &node{kind: nChoice, c1: fromPattern(g, n.Child1), c2: fromPattern(g, n.Child2)}
	case pattern.KindInterleave:
		return &node{kind: nInterleave, c1: fromPattern(g, n.Child1), c2: fromPattern(g, n.Child2)}
	case pattern.KindOneOrMore:
		return &node{kind: nOneOrMore, c1: fromPattern(g, n.Child1)}
	default:
		return notAllowedNode
	}
}

// --- smart constructors: simplify away NotAllowed/Empty so the tree
// does not grow without bound across a long document. ---

func mkChoice(a, b *node) *node {
	if a.kind == nNotAllowed {
		return b
	}
	if b.kind == nNotAllowed {
		return a
	}
	return &node{kind: nChoice, c1: a, c2: b}
}

func mkGroup(a, b *node) *node {
	if a.kind == nNotAllowed || b.kind == nNotAllowed {
		return notAllowedNode
	}
	if a.kind == nEmpty {
		return b
	}
	if b.kind == nEmpty {
		return a
	}
	return &node{kind: nGroup, c1: a, c2: b}
}

func mkInterleave(a, b *node) *node {
	if a.kind == nNotAllowed || b.kind == nNotAllowed {
		return notAllowedNode
	}
	if a.kind == nEmpty {
		return b
	}
	if b.kind == nEmpty {
		return a
	}
	return &node{kind: nInterleave, c1: a, c2: b}
}

func mkOneOrMore(a *node) *node {
	if a.kind == nNotAllowed {
		return notAllowedNode
	}
	return &node{kind: nOneOrMore, c1: a}
}

// nullable reports whether n currently accepts ending here with no
// further input. A Data pattern is nullable iff its datatype accepts
// the empty string and its except (if any) does not (spec §4.4.2),
// which is why nullable needs the datatype registry reg rather than
// being a pure function of the node shape alone.
func nullable(reg *datatype.Registry, n *node) bool {
	switch n.kind {
	case nEmpty, nText:
		return true
	case nNotAllowed, nAttribute, nElement:
		return false
	case nValue:
		return n.rawValue == ""
	case nData:
		lib := reg.Lookup(n.datatypeNS)
		if !lib.AllowsEmpty(n.datatypeName, n.params) {
			return false
		}
		return n.except == nil || !nullable(reg, n.except)
	case nList:
		return nullable(reg, n.c1)
	case nGroup, nInterleave:
		return nullable(reg, n.c1) && nullable(reg, n.c2)
	case nChoice:
		return nullable(reg, n.c1) || nullable(reg, n.c2)
	case nOneOrMore:
		return nullable(reg, n.c1)
	default:
		return false
	}
}

// textDeriv returns the derivative of n with respect to character data
// text. Pure-whitespace text is handled by the caller (whitespace
// suspension, spec §4.5); by the time text reaches here it is always
// meant to be matched.
func textDeriv(ctx context.Context, reg *datatype.Registry, dtCtx datatype.Context, n *node, text string) *node {
	switch n.kind {
	case nText:
		return n
	case nValue:
		lib := reg.Lookup(n.datatypeNS)
		eq, err := lib.Equal(ctx, dtCtx, n.datatypeName, text, n.rawValue, nil)
		if err != nil || !eq {
			return notAllowedNode
		}
		return emptyNode
	case nData:
		lib := reg.Lookup(n.datatypeNS)
		disallowed, _, err := lib.Disallows(ctx, dtCtx, n.datatypeName, text, n.params)
		if err != nil || disallowed {
			return notAllowedNode
		}
		if n.except != nil && nullable(reg, textDeriv(ctx, reg, dtCtx, n.except, text)) {
			return notAllowedNode
		}
		return emptyNode
	case nList:
		cur := n.c1
		for _, tok := range strings.Fields(text) {
			cur = textDeriv(ctx, reg, dtCtx, cur, tok)
			if cur.kind == nNotAllowed {
				return notAllowedNode
			}
		}
		if !nullable(reg, cur) {
			return notAllowedNode
		}
		return emptyNode
	case nGroup:
		x := mkGroup(textDeriv(ctx, reg, dtCtx, n.c1, text), n.c2)
		if nullable(reg, n.c1) {
			return mkChoice(x, textDeriv(ctx, reg, dtCtx, n.c2, text))
		}
		return x
	case nInterleave:
		return mkChoice(
			mkInterleave(textDeriv(ctx, reg, dtCtx, n.c1, text), n.c2),
			mkInterleave(n.c1, textDeriv(ctx, reg, dtCtx, n.c2, text)),
		)
	case nChoice:
		return mkChoice(textDeriv(ctx, reg, dtCtx, n.c1, text), textDeriv(ctx, reg, dtCtx, n.c2, text))
	case nOneOrMore:
		return mkGroup(textDeriv(ctx, reg, dtCtx, n.c1, text), mkChoice(mkOneOrMore(n.c1), emptyNode))
	default:
		return notAllowedNode
	}
}

// attDeriv returns the derivative of n with respect to one attribute.
func attDeriv(ctx context.Context, reg *datatype.Registry, dtCtx datatype.Context, n *node, name nameclass.Expanded, value string) *node {
	switch n.kind {
	case nAttribute:
		if !n.nameClass.Match(name.NS, name.Local) {
			return notAllowedNode
		}
		if !nullable(reg, textDeriv(ctx, reg, dtCtx, n.c1, value)) {
			return notAllowedNode
		}
		return emptyNode
	case nGroup:
		return mkChoice(
			mkGroup(attDeriv(ctx, reg, dtCtx, n.c1, name, value), n.c2),
			mkGroup(n.c1, attDeriv(ctx, reg, dtCtx, n.c2, name, value)),
		)
	case nInterleave:
		return mkChoice(
			mkInterleave(attDeriv(ctx, reg, dtCtx, n.c1, name, value), n.c2),
			mkInterleave(n.c1, attDeriv(ctx, reg, dtCtx, n.c2, name, value)),
		)
	case nChoice:
		return mkChoice(attDeriv(ctx, reg, dtCtx, n.c1, name, value), attDeriv(ctx, reg, dtCtx, n.c2, name, value))
	case nOneOrMore:
		return mkGroup(attDeriv(ctx, reg, dtCtx, n.c1, name, value), mkChoice(mkOneOrMore(n.c1), emptyNode))
	default:
		return notAllowedNode
	}
}

// pair is one candidate (content, remainder) split produced by opening
// a start tag: content is the matched Element's own content pattern
// (to become a newly pushed frame), remainder is what is left of n once
// that Element's slot is considered consumed (to be restored to the
// current frame once the element's end tag is seen). Ambiguous grammars
// can yield more than one pair for the same name; each is tracked as an
// independent thread until it dies or the document ends.
type pair struct {
	content   pattern.ID
	remainder *node
}

// openChildren enumerates every way n could accept a start tag named
// name, mirroring attDeriv's shape but reified as a list of (content,
// remainder) pairs rather than a single combined tree, since the
// content pushed for the new frame cannot always be merged across
// branches.
func openChildren(reg *datatype.Registry, n *node, name nameclass.Expanded) []pair {
	switch n.kind {
	case nElement:
		if n.nameClass.Match(name.NS, name.Local) {
			return []pair{{content: n.contentID, remainder: emptyNode}}
		}
		return nil
	case nChoice:
		return append(openChildren(reg, n.c1, name), openChildren(reg, n.c2, name)...)
	case nGroup:
		var out []pair
		for _, p := range openChildren(reg, n.c1, name) {
			out = append(out, pair{content: p.content, remainder: mkGroup(p.remainder, n.c2)})
		}
		if nullable(reg, n.c1) {
			for _, p := range openChildren(reg, n.c2, name) {
				out = append(out, pair{content: p.content, remainder: p.remainder})
			}
		}
		return out
	case nInterleave:
		var out []pair
		for _, p := range openChildren(reg, n.c1, name) {
			out = append(out, pair{content: p.content, remainder: mkInterleave(p.remainder, n.c2)})
		}
		for _, p := range openChildren(reg, n.c2, name) {
			out = append(out, pair{content: p.content, remainder: mkInterleave(n.c1, p.remainder)})
		}
		return out
	case nOneOrMore:
		var out []pair
		for _, p := range openChildren(reg, n.c1, name) {
			out = append(out, pair{content: p.content, remainder: mkGroup(p.remainder, mkChoice(mkOneOrMore(n.c1), emptyNode))})
		}
		return out
	default:
		return nil
	}
}

// collectPossibleElements appends every expanded element name n could
// accept right now into out. Wildcard name classes are not enumerable
// and are recorded under the nameclass.NamespaceWildcard sentinel
// namespace with an empty local name, a signal to callers that
// completion cannot offer a closed list.
func collectPossibleElements(reg *datatype.Registry, n *node, out map[nameclass.Expanded]bool) {
	switch n.kind {
	case nElement:
		for _, name := range nameclass.EnumerateSimple(n.nameClass) {
			out[name] = true
		}
		if !n.nameClass.IsSimple() {
			out[nameclass.Expanded{NS: nameclass.NamespaceWildcard}] = true
		}
	case nChoice:
		collectPossibleElements(reg, n.c1, out)
		collectPossibleElements(reg, n.c2, out)
	case nGroup:
		collectPossibleElements(reg, n.c1, out)
		if nullable(reg, n.c1) {
			collectPossibleElements(reg, n.c2, out)
		}
	case nInterleave:
		collectPossibleElements(reg, n.c1, out)
		collectPossibleElements(reg, n.c2, out)
	case nOneOrMore:
		collectPossibleElements(reg, n.c1, out)
	}
}

// collectPossibleAttributes is the Attribute analogue of
// collectPossibleElements.
func collectPossibleAttributes(n *node, out map[nameclass.Expanded]bool) {
	switch n.kind {
	case nAttribute:
		for _, name := range nameclass.EnumerateSimple(n.nameClass) {
			out[name] = true
		}
		if !n.nameClass.IsSimple() {
			out[nameclass.Expanded{NS: nameclass.NamespaceWildcard}] = true
		}
	case nChoice, nGroup, nInterleave:
		collectPossibleAttributes(n.c1, out)
		collectPossibleAttributes(n.c2, out)
	case nOneOrMore:
		collectPossibleAttributes(n.c1, out)
	}
}

// hasText reports whether n could still absorb character data, used by
// the whitespace-suspension logic in walker.go to decide whether
// non-whitespace text is ever permitted at the current position.
func hasText(reg *datatype.Registry, n *node) bool {
	switch n.kind {
	case nText, nValue, nData, nList:
		return true
	case nChoice, nInterleave:
		return hasText(reg, n.c1) || hasText(reg, n.c2)
	case nGroup:
		return hasText(reg, n.c1) || (nullable(reg, n.c1) && hasText(reg, n.c2))
	case nOneOrMore:
		return hasText(reg, n.c1)
	default:
		return false
	}
}

// attributesComplete reports whether it is safe to leave the start-tag
// attribute phase now: no mandatory Attribute pattern remains reachable
// without first opening an element or matching text. Unlike nullable,
// element/text content never blocks this — attributes and content are
// independent phases of the same start tag (spec §4.4.4/§4.5), so a
// live nElement/nText/nValue/nData/nList branch always counts as
// "no attribute obligation here" rather than deferring to nullable.
func attributesComplete(n *node) bool {
	switch n.kind {
	case nAttribute:
		return false
	case nGroup, nInterleave:
		return attributesComplete(n.c1) && attributesComplete(n.c2)
	case nChoice:
		return attributesComplete(n.c1) || attributesComplete(n.c2)
	case nOneOrMore:
		return attributesComplete(n.c1)
	default:
		return true
	}
}
