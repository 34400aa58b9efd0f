// Package nameclass implements Relax NG name classes: the patterns that
// describe which expanded (namespace, local-name) pairs an element or
// attribute name is allowed to use.
//
// A name class is a closed sum type with four variants: Name, NsName,
// AnyName, and NameChoice. Each supports Match against a candidate
// expanded name and RecordNamespaces for namespace-set accumulation.
package nameclass

import "github.com/relaxwalk/rngcore/internal/equalutil"

// Expanded is a resolved (namespace, local-name) pair. Equality is
// pairwise; the zero value is the expanded name in no namespace with an
// empty local name.
type Expanded struct {
	NS    string
	Local string
}

// String renders the expanded name as "{ns}local", matching the
// conventional Clark notation used in error messages and debug output.
func (e Expanded) String() string {
	if e.NS == "" {
		return e.Local
	}
	return "{" + e.NS + "}" + e.Local
}

// Equal reports whether e and other refer to the same expanded name.
func (e Expanded) Equal(other Expanded) bool {
	return e.NS == other.NS && e.Local == other.Local
}

// NamespaceWildcard is the sentinel inserted into a namespace set by
// RecordNamespaces when an AnyName is present in the name class; an
// NsName records its own namespace URI instead.
const NamespaceWildcard = "*"

// NamespaceExcept is the sentinel inserted into a namespace set when some
// except sub-pattern is present anywhere in the name class.
const NamespaceExcept = "::except"

// Class is the name-class sum type. Exactly one of the Name/NsName/
// AnyName/NameChoice constructors below should be used to build a value;
// the zero value is not a valid Class.
type Class struct {
	kind   kind
	name   Expanded // kind == kindName
	ns     string   // kind == kindNsName
	except *Class   // kind == kindNsName || kind == kindAnyName
	a, b   *Class   // kind == kindChoice
}

type kind int

const (
	kindName kind = iota
	kindNsName
	kindAnyName
	kindChoice
)

// NewName builds a Name name-class matching exactly one expanded name.
func NewName(ns, local string) Class {
	return Class{kind: kindName, name: Expanded{NS: ns, Local: local}}
}

// NewNsName builds an NsName name-class matching every local name in ns,
// except those matched by the optional except sub-pattern.
func NewNsName(ns string, except *Class) Class {
	return Class{kind: kindNsName, ns: ns, except: except}
}

// NewAnyName builds an AnyName name-class matching any expanded name,
// except those matched by the optional except sub-pattern.
func NewAnyName(except *Class) Class {
	return Class{kind: kindAnyName, except: except}
}

// NewNameChoice builds a NameChoice matching any name matched by a or b.
func NewNameChoice(a, b Class) Class {
	return Class{kind: kindChoice, a: &a, b: &b}
}

// IsSimple reports whether c is a Name, or a NameChoice whose branches
// are both simple. Simple name classes enumerate a finite set of names.
func (c Class) IsSimple() bool {
	switch c.kind {
	case kindName:
		return true
	case kindChoice:
		return c.a.IsSimple() && c.b.IsSimple()
	default:
		return false
	}
}

// Match reports whether the expanded name (ns, local) is accepted by c.
func (c Class) Match(ns, local string) bool {
	switch c.kind {
	case kindName:
		return c.name.NS == ns && c.name.Local == local
	case kindNsName:
		if c.ns != ns {
			return false
		}
		if c.except != nil && c.except.Match(ns, local) {
			return false
		}
		return true
	case kindAnyName:
		if c.except != nil && c.except.Match(ns, local) {
			return false
		}
		return true
	case kindChoice:
		return c.a.Match(ns, local) || c.b.Match(ns, local)
	default:
		return false
	}
}

// Intersects reports whether c and other can both match at least one
// common expanded name. This is a simplifier-time operation; the
// incremental walker never calls it, but it is exposed for tooling built
// on top of this package (e.g. a schema linter).
func (c Class) Intersects(other Class) bool {
	switch c.kind {
	case kindName:
		return other.Match(c.name.NS, c.name.Local)
	case kindChoice:
		return c.a.Intersects(other) || c.b.Intersects(other)
	case kindNsName:
		return c.intersectsWildcard(other, func(ns string) bool { return ns == c.ns })
	case kindAnyName:
		return c.intersectsWildcard(other, func(string) bool { return true })
	default:
		return false
	}
}

// intersectsWildcard handles the NsName/AnyName cases of Intersects: it
// asks whether some namespace accepted by nsOK, and some local name
// (drawn from other when other is simple, or synthesized otherwise),
// would be matched by both c and other while escaping both except
// sub-patterns.
func (c Class) intersectsWildcard(other Class, nsOK func(string) bool) bool {
	switch other.kind {
	case kindName:
		if !nsOK(other.name.NS) {
			return false
		}
		if c.except != nil && c.except.Match(other.name.NS, other.name.Local) {
			return false
		}
		return true
	case kindChoice:
		return c.intersectsWildcard(*other.a, nsOK) || c.intersectsWildcard(*other.b, nsOK)
	default:
		// Two wildcards: they intersect unless one side's except swallows
		// everything the other side would offer. A precise decision
		// requires the simplifier's finite local-name universe; here we
		// conservatively report an intersection, as Intersects is a
		// simplifier-only convenience, not used by the runtime walker.
		return true
	}
}

// String renders a debug representation of c: the expanded name for a
// simple Name, or a bracketed placeholder for wildcard shapes. It is
// meant for diagnostics and derived-cache keys, not for round-tripping.
func (c Class) String() string {
	switch c.kind {
	case kindName:
		return c.name.String()
	case kindNsName:
		return "{" + c.ns + "}*"
	case kindAnyName:
		return "*"
	case kindChoice:
		return c.a.String() + "|" + c.b.String()
	default:
		return "?"
	}
}

// Equal reports whether c and other are the same name class shape (not
// merely whether they match the same set of names, which Intersects-style
// reasoning would require). It is used by structural equality checks
// over pattern trees built from independently parsed schemas.
func (c Class) Equal(other Class) bool {
	if c.kind != other.kind {
		return false
	}
	switch c.kind {
	case kindName:
		return c.name.Equal(other.name)
	case kindNsName:
		return c.ns == other.ns && exceptEqual(c.except, other.except)
	case kindAnyName:
		return exceptEqual(c.except, other.except)
	case kindChoice:
		return c.a.Equal(*other.a) && c.b.Equal(*other.b)
	default:
		return false
	}
}

func exceptEqual(a, b *Class) bool {
	return equalutil.EqualPtrFunc(a, b, Class.Equal)
}

// EnumerateSimple returns the concrete expanded names matched by c when
// c.IsSimple() is true (a Name, or a NameChoice tree of Names). Non-simple
// classes return nil; callers that need to handle wildcards must do so
// separately, since there is no finite enumeration for them.
func EnumerateSimple(c Class) []Expanded {
	if !c.IsSimple() {
		return nil
	}
	var out []Expanded
	var walk func(Class)
	walk = func(c Class) {
		switch c.kind {
		case kindName:
			out = append(out, c.name)
		case kindChoice:
			walk(*c.a)
			walk(*c.b)
		}
	}
	walk(c)
	return out
}

// RecordNamespaces inserts every namespace URI referenced by c into out.
// A Name with an empty NS records "" for element and attribute names
// alike: isElement does not change what is recorded. The Relax NG
// attribute rule (an unprefixed attribute name is in no namespace,
// regardless of any default namespace) is applied by the caller when
// names are resolved, not inside RecordNamespaces.
func (c Class) RecordNamespaces(out map[string]struct{}, isElement bool) {
	switch c.kind {
	case kindName:
		ns := c.name.NS
		if ns == "" && !isElement {
			// unqualified attribute names carry no namespace; still worth
			// recording explicitly so callers can distinguish "no
			// namespace used" from "namespace set is empty".
		}
		out[ns] = struct{}{}
	case kindNsName:
		out[c.ns] = struct{}{}
		if c.except != nil {
			out[NamespaceExcept] = struct{}{}
			c.except.RecordNamespaces(out, isElement)
		}
	case kindAnyName:
		out[NamespaceWildcard] = struct{}{}
		if c.except != nil {
			out[NamespaceExcept] = struct{}{}
			c.except.RecordNamespaces(out, isElement)
		}
	case kindChoice:
		c.a.RecordNamespaces(out, isElement)
		c.b.RecordNamespaces(out, isElement)
	}
}
