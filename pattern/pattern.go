// Package pattern implements the immutable Relax NG pattern tree: the
// in-memory representation of a simplified schema that the walker
// package matches event streams against.
//
// Patterns form a cyclic graph (Ref → Define → Element → … → Ref), so
// the tree is represented as an arena: a Grammar owns a slice of Node
// values and all structural references are integer IDs into that slice
// rather than pointers, exactly the technique described in spec §9 for
// avoiding both unsafe pointer cycles and reference-counting overhead.
package pattern

import (
	"github.com/relaxwalk/rngcore/datatype"
	"github.com/relaxwalk/rngcore/nameclass"
)

// Kind identifies which pattern variant a Node represents.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindNotAllowed
	KindText
	KindValue
	KindData
	KindList
	KindAttribute
	KindElement
	KindRef
	KindDefine
	KindGroup
	KindChoice
	KindInterleave
	KindOneOrMore
)

// String renders the pattern kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindNotAllowed:
		return "NotAllowed"
	case KindText:
		return "Text"
	case KindValue:
		return "Value"
	case KindData:
		return "Data"
	case KindList:
		return "List"
	case KindAttribute:
		return "Attribute"
	case KindElement:
		return "Element"
	case KindRef:
		return "Ref"
	case KindDefine:
		return "Define"
	case KindGroup:
		return "Group"
	case KindChoice:
		return "Choice"
	case KindInterleave:
		return "Interleave"
	case KindOneOrMore:
		return "OneOrMore"
	default:
		return "Unknown"
	}
}

// ID is an index into a Grammar's node arena. InvalidID denotes the
// absence of a node (e.g. Data with no except sub-pattern).
type ID int32

// InvalidID is the zero-information ID; no Grammar ever assigns it to a
// real node (node 0 is also reserved, so that an ID left at the Go zero
// value never names a real node either — see NewGrammar).
const InvalidID ID = -1

// Node is one immutable pattern tree node. Its fields are a tagged
// union; which fields are meaningful depends on Kind, documented field
// by field below.
type Node struct {
	Kind Kind

	// XMLPath is an opaque debug string supplied by the simplifier,
	// carried through unchanged for diagnostics (spec §3).
	XMLPath string

	// Child1 / Child2 hold structural children; meaning depends on Kind:
	//   Group, Choice, Interleave, OneOrMore(only Child1): two children
	//   List, Attribute, Element: Child1 is the single content pattern
	//   Data: Child1 is the optional except pattern (InvalidID if absent)
	//   Define: Child1 is always an Element
	Child1 ID
	Child2 ID

	// NameClass is used by Attribute and Element.
	NameClass nameclass.Class

	// Datatype fields, used by Value and Data.
	DatatypeName string
	DatatypeNS   string // datatypeLibrary URI; "" selects the built-in library
	Params       []datatype.Param
	RawValue     string // Value only: the literal text to compare against
	ValueNS      string // Value only: in-scope namespace for QName-typed values

	// RefTarget is the Define name a Ref points to, used by Ref only.
	RefTarget string

	// DefineName is the grammar-level name this definition is
	// registered under, used by Define only.
	DefineName string
}

// NewNode constructs a bare node of the given kind with no children set
// (InvalidID). Callers typically use Grammar's typed constructors below
// instead of this directly.
func NewNode(kind Kind) Node {
	return Node{Kind: kind, Child1: InvalidID, Child2: InvalidID}
}
