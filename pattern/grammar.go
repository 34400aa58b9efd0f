package pattern

import (
	"sort"

	"github.com/relaxwalk/rngcore/datatype"
	"github.com/relaxwalk/rngcore/nameclass"
	"github.com/relaxwalk/rngcore/rngerrors"
)

// Grammar owns the full arena of pattern nodes for one schema: every
// Define, the start pattern, and the derived caches computed by
// Prepare. A Grammar is immutable once Prepare has returned without
// error; nodes are never mutated afterward (spec §3, Lifecycle).
type Grammar struct {
	nodes   []Node
	start   ID
	defines map[string]ID // DefineName -> Define node ID

	datatypes *datatype.Registry

	// Derived caches, filled in by Prepare (spec §4.3).
	hasAttrsCache        []bool
	hasEmptyPatternCache []bool
	namespaces           map[string]struct{}
	elementDefinitions    map[nameclass.Expanded][]ID // simple name -> Define IDs
	containingElements    map[string][]string          // Define name -> ancestor element name strings

	prepared bool
}

// NewGrammar returns an empty Grammar ready to be populated via the
// builder methods below. reg supplies the datatype libraries used by
// Value/Data nodes created in this grammar; if nil, datatype.NewRegistry
// is used.
func NewGrammar(reg *datatype.Registry) *Grammar {
	if reg == nil {
		reg = datatype.NewRegistry()
	}
	g := &Grammar{
		defines:   make(map[string]ID),
		datatypes: reg,
	}
	// Node 0 is reserved so that the zero value of ID (0) never aliases
	// a real node; InvalidID (-1) is the only "no node" sentinel, but
	// reserving slot 0 too catches any code that forgot to initialize
	// an ID and left it at the Go zero value.
	g.nodes = append(g.nodes, Node{Kind: KindNotAllowed, Child1: InvalidID, Child2: InvalidID, XMLPath: "<reserved>"})
	return g
}

// Datatypes returns the datatype registry this grammar resolves
// Value/Data patterns against.
func (g *Grammar) Datatypes() *datatype.Registry { return g.datatypes }

// Node returns the node stored at id. Callers must not mutate the
// returned value's slice-typed fields (Params) in place.
func (g *Grammar) Node(id ID) Node { return g.nodes[id] }

// Start returns the ID of the grammar's start pattern.
func (g *Grammar) Start() ID { return g.start }

// SetStart registers id as the grammar's start pattern.
func (g *Grammar) SetStart(id ID) { g.start = id }

func (g *Grammar) alloc(n Node) ID {
	id := ID(len(g.nodes))
	g.nodes = append(g.nodes, n)
	return id
}

// --- builder methods, one per pattern variant (spec §3) ---

func (g *Grammar) NewEmpty(xmlPath string) ID {
	n := NewNode(KindEmpty)
	n.XMLPath = xmlPath
	return g.alloc(n)
}

func (g *Grammar) NewNotAllowed(xmlPath string) ID {
	n := NewNode(KindNotAllowed)
	n.XMLPath = xmlPath
	return g.alloc(n)
}

func (g *Grammar) NewText(xmlPath string) ID {
	n := NewNode(KindText)
	n.XMLPath = xmlPath
	return g.alloc(n)
}

func (g *Grammar) NewValue(xmlPath, datatypeName, datatypeNS, ns, raw string) ID {
	n := NewNode(KindValue)
	n.XMLPath = xmlPath
	n.DatatypeName = datatypeName
	n.DatatypeNS = datatypeNS
	n.ValueNS = ns
	n.RawValue = raw
	return g.alloc(n)
}

func (g *Grammar) NewData(xmlPath, datatypeName, datatypeNS string, params []datatype.Param, except ID) ID {
	n := NewNode(KindData)
	n.XMLPath = xmlPath
	n.DatatypeName = datatypeName
	n.DatatypeNS = datatypeNS
	n.Params = params
	n.Child1 = except
	return g.alloc(n)
}

func (g *Grammar) NewList(xmlPath string, child ID) ID {
	n := NewNode(KindList)
	n.XMLPath = xmlPath
	n.Child1 = child
	return g.alloc(n)
}

func (g *Grammar) NewAttribute(xmlPath string, name nameclass.Class, child ID) ID {
	n := NewNode(KindAttribute)
	n.XMLPath = xmlPath
	n.NameClass = name
	n.Child1 = child
	return g.alloc(n)
}

func (g *Grammar) NewElement(xmlPath string, name nameclass.Class, child ID) ID {
	n := NewNode(KindElement)
	n.XMLPath = xmlPath
	n.NameClass = name
	n.Child1 = child
	return g.alloc(n)
}

func (g *Grammar) NewRef(xmlPath, targetName string) ID {
	n := NewNode(KindRef)
	n.XMLPath = xmlPath
	n.RefTarget = targetName
	return g.alloc(n)
}

// NewDefine registers a Define node under name, whose single child must
// be an Element (spec §3 invariant). Redefining the same name replaces
// the previous registration.
func (g *Grammar) NewDefine(xmlPath, name string, elementChild ID) ID {
	n := NewNode(KindDefine)
	n.XMLPath = xmlPath
	n.DefineName = name
	n.Child1 = elementChild
	id := g.alloc(n)
	g.defines[name] = id
	return id
}

func (g *Grammar) NewGroup(xmlPath string, a, b ID) ID {
	n := NewNode(KindGroup)
	n.XMLPath = xmlPath
	n.Child1, n.Child2 = a, b
	return g.alloc(n)
}

func (g *Grammar) NewChoice(xmlPath string, a, b ID) ID {
	n := NewNode(KindChoice)
	n.XMLPath = xmlPath
	n.Child1, n.Child2 = a, b
	return g.alloc(n)
}

func (g *Grammar) NewInterleave(xmlPath string, a, b ID) ID {
	n := NewNode(KindInterleave)
	n.XMLPath = xmlPath
	n.Child1, n.Child2 = a, b
	return g.alloc(n)
}

func (g *Grammar) NewOneOrMore(xmlPath string, child ID) ID {
	n := NewNode(KindOneOrMore)
	n.XMLPath = xmlPath
	n.Child1 = child
	return g.alloc(n)
}

// HasAttrs reports the has_attrs derived cache for id (spec §3/§4.3).
// Valid only after Prepare has returned successfully.
func (g *Grammar) HasAttrs(id ID) bool { return g.hasAttrsCache[id] }

// HasEmptyPattern reports the has_empty_pattern derived cache for id.
// Valid only after Prepare has returned successfully.
func (g *Grammar) HasEmptyPattern(id ID) bool { return g.hasEmptyPatternCache[id] }

// Namespaces returns the set of namespace URIs (plus the
// nameclass.NamespaceWildcard/NamespaceExcept sentinels where
// applicable) referenced anywhere in the grammar.
func (g *Grammar) Namespaces() map[string]struct{} { return g.namespaces }

// ElementDefinitions returns the Define IDs whose Element carries the
// simple expanded name (ns, local) — the element_definitions multimap
// used by misplaced-element recovery (spec §4.5).
func (g *Grammar) ElementDefinitions(name nameclass.Expanded) []ID {
	return g.elementDefinitions[name]
}

// Prepare resolves every Ref, fills the derived caches, and builds the
// element_definitions multimap (spec §4.3). It must be called after a
// Grammar's nodes are fully constructed and before any Walker is
// created from it; calls after the first successful one return nil
// without doing anything.
func (g *Grammar) Prepare() error {
	if g.prepared {
		return nil
	}

	if err := g.resolveRefs(); err != nil {
		return err
	}

	n := len(g.nodes)
	g.hasAttrsCache = make([]bool, n)
	g.hasEmptyPatternCache = make([]bool, n)
	computed := make([]bool, n)
	for id := range g.nodes {
		g.computeCaches(ID(id), computed)
	}

	g.namespaces = make(map[string]struct{})
	for name := range g.defines {
		g.accumulateNamespaces(g.defines[name], make(map[string]bool))
	}
	g.accumulateNamespaces(g.start, make(map[string]bool))

	g.buildElementDefinitions()
	g.buildContainingElements()

	g.prepared = true
	return nil
}

// resolveRefs validates that every Ref names an existing Define.
// Resolution of a Ref to its target is done by name lookup at walk time
// (g.defines is immutable after Prepare), so there is nothing to patch
// into the Ref node itself; this pass only validates and reports.
func (g *Grammar) resolveRefs() error {
	var unresolved []string
	seen := make(map[string]bool)
	for _, n := range g.nodes {
		if n.Kind != KindRef {
			continue
		}
		if _, ok := g.defines[n.RefTarget]; !ok && !seen[n.RefTarget] {
			seen[n.RefTarget] = true
			unresolved = append(unresolved, n.RefTarget)
		}
	}
	if len(unresolved) > 0 {
		sort.Strings(unresolved)
		return &rngerrors.UnresolvedReferenceError{Names: unresolved}
	}
	return nil
}

// ResolveRef returns the Define ID that a Ref named target points to.
// Only valid after Prepare has succeeded.
func (g *Grammar) ResolveRef(target string) (ID, bool) {
	id, ok := g.defines[target]
	return id, ok
}

// computeCaches fills hasAttrsCache[id] and hasEmptyPatternCache[id],
// recursing into children but treating Ref/Define/Element/Attribute as
// opaque stopping points exactly as spec §4.3/§9 requires, which
// guarantees termination even though the overall node graph is cyclic.
func (g *Grammar) computeCaches(id ID, computed []bool) {
	if computed[id] {
		return
	}
	computed[id] = true // mark first to make the recursion cycle-safe

	n := g.nodes[id]
	switch n.Kind {
	case KindEmpty, KindText:
		g.hasEmptyPatternCache[id] = true
	case KindNotAllowed, KindElement, KindAttribute, KindRef, KindDefine:
		g.hasEmptyPatternCache[id] = false
	case KindValue:
		g.hasEmptyPatternCache[id] = n.RawValue == ""
	case KindData:
		lib := g.datatypes.Lookup(n.DatatypeNS)
		g.hasEmptyPatternCache[id] = lib.AllowsEmpty(n.DatatypeName, n.Params)
	case KindList:
		g.computeCaches(n.Child1, computed)
		g.hasEmptyPatternCache[id] = g.hasEmptyPatternCache[n.Child1]
	case KindOneOrMore:
		g.computeCaches(n.Child1, computed)
		g.hasEmptyPatternCache[id] = g.hasEmptyPatternCache[n.Child1]
	case KindGroup, KindInterleave:
		g.computeCaches(n.Child1, computed)
		g.computeCaches(n.Child2, computed)
		g.hasEmptyPatternCache[id] = g.hasEmptyPatternCache[n.Child1] && g.hasEmptyPatternCache[n.Child2]
	case KindChoice:
		g.computeCaches(n.Child1, computed)
		g.computeCaches(n.Child2, computed)
		g.hasEmptyPatternCache[id] = g.hasEmptyPatternCache[n.Child1] || g.hasEmptyPatternCache[n.Child2]
	}

	switch n.Kind {
	case KindAttribute:
		g.hasAttrsCache[id] = true
	case KindEmpty, KindNotAllowed, KindText, KindValue, KindData, KindElement, KindRef, KindDefine:
		g.hasAttrsCache[id] = false
	case KindList, KindOneOrMore:
		g.hasAttrsCache[id] = g.hasAttrsCache[n.Child1]
	case KindGroup, KindChoice, KindInterleave:
		g.hasAttrsCache[id] = g.hasAttrsCache[n.Child1] || g.hasAttrsCache[n.Child2]
	}
}

// accumulateNamespaces walks the full reachable graph (crossing Ref
// boundaries, unlike computeCaches) to build the grammar-wide namespace
// set. visitedDefines breaks cycles.
func (g *Grammar) accumulateNamespaces(id ID, visitedDefines map[string]bool) {
	n := g.nodes[id]
	switch n.Kind {
	case KindAttribute:
		n.NameClass.RecordNamespaces(g.namespaces, false)
		g.accumulateNamespaces(n.Child1, visitedDefines)
	case KindElement:
		n.NameClass.RecordNamespaces(g.namespaces, true)
		g.accumulateNamespaces(n.Child1, visitedDefines)
	case KindRef:
		if visitedDefines[n.RefTarget] {
			return
		}
		visitedDefines[n.RefTarget] = true
		if defID, ok := g.defines[n.RefTarget]; ok {
			g.accumulateNamespaces(defID, visitedDefines)
		}
	case KindDefine, KindList, KindOneOrMore:
		g.accumulateNamespaces(n.Child1, visitedDefines)
	case KindGroup, KindChoice, KindInterleave:
		g.accumulateNamespaces(n.Child1, visitedDefines)
		g.accumulateNamespaces(n.Child2, visitedDefines)
	case KindData:
		if n.Child1 != InvalidID {
			g.accumulateNamespaces(n.Child1, visitedDefines)
		}
	}
}

// buildElementDefinitions populates the element_definitions multimap:
// for every Define, register its Element's simple names (spec §4.3,
// §4.5). Non-simple (wildcard) name classes contribute nothing, since
// misplaced-element recovery only ever looks up a concrete expanded
// name seen in the event stream.
func (g *Grammar) buildElementDefinitions() {
	g.elementDefinitions = make(map[nameclass.Expanded][]ID)
	for _, defID := range g.defines {
		def := g.nodes[defID]
		if def.Kind != KindDefine {
			continue
		}
		elem := g.nodes[def.Child1]
		if elem.Kind != KindElement {
			continue
		}
		for _, name := range nameclass.EnumerateSimple(elem.NameClass) {
			g.elementDefinitions[name] = append(g.elementDefinitions[name], defID)
		}
	}
}

// buildContainingElements computes, for each Define name, the set of
// ancestor element names that may directly contain it (spec §3
// "Derived caches"): for every Define D whose content directly
// references another Define R via a Ref (without crossing into a
// nested Element along the way — i.e. at D's own top structural level),
// record D's element name as a potential container of R.
func (g *Grammar) buildContainingElements() {
	g.containingElements = make(map[string][]string)
	for defName, defID := range g.defines {
		def := g.nodes[defID]
		elem := g.nodes[def.Child1]
		ownName := elem.NameClass.String()
		var walk func(ID)
		seen := make(map[ID]bool)
		walk = func(id ID) {
			if seen[id] {
				return
			}
			seen[id] = true
			n := g.nodes[id]
			switch n.Kind {
			case KindRef:
				g.containingElements[n.RefTarget] = appendUnique(g.containingElements[n.RefTarget], ownName)
			case KindGroup, KindChoice, KindInterleave:
				walk(n.Child1)
				walk(n.Child2)
			case KindOneOrMore, KindList:
				walk(n.Child1)
			}
		}
		walk(elem.Child1)
		_ = defName
	}
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// ContainingElements returns the ancestor element names that may contain
// the named Define, per the §3 derived cache.
func (g *Grammar) ContainingElements(defineName string) []string {
	return g.containingElements[defineName]
}
