package pattern

import "github.com/relaxwalk/rngcore/datatype"

// Equal reports whether the subtrees rooted at a and b (possibly in
// different grammars) are structurally identical, following Refs by
// name rather than by ID so that two grammars built independently from
// equivalent schemas compare equal. It is used by tests that round-trip
// a schema through rngschema and compare the reconstructed grammar
// against the original.
func Equal(ga *Grammar, a ID, gb *Grammar, b ID) bool {
	return equalWithSeen(ga, a, gb, b, make(map[seenPair]bool))
}

type seenPair struct {
	a, b ID
}

func equalWithSeen(ga *Grammar, a ID, gb *Grammar, b ID, seen map[seenPair]bool) bool {
	key := seenPair{a, b}
	if seen[key] {
		// Already comparing this pair higher up the call stack; assume
		// equal to break the cycle (matches the Ref/Define recursion
		// guard used by Grammar.computeCaches).
		return true
	}
	seen[key] = true

	na, nb := ga.nodes[a], gb.nodes[b]
	if na.Kind != nb.Kind {
		return false
	}

	switch na.Kind {
	case KindEmpty, KindNotAllowed, KindText:
		return true
	case KindValue:
		return na.DatatypeName == nb.DatatypeName &&
			na.DatatypeNS == nb.DatatypeNS &&
			na.RawValue == nb.RawValue &&
			na.ValueNS == nb.ValueNS
	case KindData:
		if na.DatatypeName != nb.DatatypeName || na.DatatypeNS != nb.DatatypeNS {
			return false
		}
		if !paramsEqual(na.Params, nb.Params) {
			return false
		}
		if (na.Child1 == InvalidID) != (nb.Child1 == InvalidID) {
			return false
		}
		if na.Child1 == InvalidID {
			return true
		}
		return equalWithSeen(ga, na.Child1, gb, nb.Child1, seen)
	case KindList, KindOneOrMore:
		return equalWithSeen(ga, na.Child1, gb, nb.Child1, seen)
	case KindAttribute, KindElement:
		if !na.NameClass.Equal(nb.NameClass) {
			return false
		}
		return equalWithSeen(ga, na.Child1, gb, nb.Child1, seen)
	case KindRef:
		return equalWithSeen(ga, mustResolve(ga, na.RefTarget), gb, mustResolve(gb, nb.RefTarget), seen)
	case KindDefine:
		return na.DefineName == nb.DefineName && equalWithSeen(ga, na.Child1, gb, nb.Child1, seen)
	case KindGroup, KindChoice, KindInterleave:
		return equalWithSeen(ga, na.Child1, gb, nb.Child1, seen) &&
			equalWithSeen(ga, na.Child2, gb, nb.Child2, seen)
	default:
		return false
	}
}

func mustResolve(g *Grammar, name string) ID {
	id, ok := g.ResolveRef(name)
	if !ok {
		return InvalidID
	}
	return id
}

func paramsEqual(a, b []datatype.Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
