// Package nsresolver maintains a stack of prefix-to-namespace scopes and
// resolves qualified names (QNames) to expanded names, mirroring the
// scoping rules of XML namespaces as consumed by the Relax NG walker.
package nsresolver

import (
	"strings"

	"github.com/relaxwalk/rngcore/nameclass"
)

// scope is one level of prefix bindings. The empty string key is the
// default namespace (unprefixed element names).
type scope map[string]string

// Resolver is a stack of namespace scopes. The zero value is not usable;
// call New to construct one. Resolver is not safe for concurrent use by
// multiple goroutines; callers that need to fan out must Clone first,
// exactly as GrammarWalker must be cloned before branching.
type Resolver struct {
	scopes []scope
}

// New returns a Resolver with a single empty root scope.
func New() *Resolver {
	return &Resolver{scopes: []scope{{}}}
}

// EnterContext pushes a new, initially empty prefix scope.
func (r *Resolver) EnterContext() {
	r.scopes = append(r.scopes, scope{})
}

// LeaveContext pops the top prefix scope. Popping the root scope is a
// caller bug; it is a no-op here rather than a panic, since resolver
// misuse should not crash an otherwise-recoverable validation session.
func (r *Resolver) LeaveContext() {
	if len(r.scopes) <= 1 {
		return
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// DefinePrefix records prefix → uri in the current (top) scope. An empty
// prefix defines the default namespace for unprefixed element names.
func (r *Resolver) DefinePrefix(prefix, uri string) {
	r.scopes[len(r.scopes)-1][prefix] = uri
}

// lookup walks the scope stack from top to bottom looking for prefix.
func (r *Resolver) lookup(prefix string) (string, bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if uri, ok := r.scopes[i][prefix]; ok {
			return uri, true
		}
	}
	return "", false
}

// ResolveName splits qname on its first colon and resolves the prefix
// portion (if any) against the scope stack. isAttribute selects the
// Relax NG attribute rule: an unprefixed attribute name always resolves
// to the empty namespace, regardless of any default namespace declared
// with DefinePrefix("", ...). Returns false if a prefix is present but
// unbound.
func (r *Resolver) ResolveName(qname string, isAttribute bool) (nameclass.Expanded, bool) {
	prefix, local, hasPrefix := splitQName(qname)
	if !hasPrefix {
		if isAttribute {
			return nameclass.Expanded{NS: "", Local: local}, true
		}
		uri, _ := r.lookup("") // unbound default namespace means ""
		return nameclass.Expanded{NS: uri, Local: local}, true
	}
	uri, ok := r.lookup(prefix)
	if !ok {
		return nameclass.Expanded{}, false
	}
	return nameclass.Expanded{NS: uri, Local: local}, true
}

// ResolveQName implements datatype.Context for QName/NOTATION-typed
// values: it resolves qname using the element-name rule (an unprefixed
// value inherits the in-scope default namespace), since the Relax NG
// attribute rule is specific to attribute *names*, not to QName-typed
// attribute or element *values*.
func (r *Resolver) ResolveQName(qname string) (ns, local string, ok bool) {
	expanded, ok := r.ResolveName(qname, false)
	return expanded.NS, expanded.Local, ok
}

// UnresolveName finds a prefix bound to ns in the current scope stack
// (searching innermost scope first) and returns "prefix:local", or just
// local if ns is bound as the default namespace, or if no binding for ns
// is found (in which case the caller is responsible for deciding whether
// that is an error).
func (r *Resolver) UnresolveName(ns, local string) string {
	if ns == "" {
		return local
	}
	for i := len(r.scopes) - 1; i >= 0; i-- {
		for prefix, uri := range r.scopes[i] {
			if uri == ns && prefix == "" {
				return local
			}
		}
	}
	for i := len(r.scopes) - 1; i >= 0; i-- {
		for prefix, uri := range r.scopes[i] {
			if uri == ns && prefix != "" {
				return prefix + ":" + local
			}
		}
	}
	return local
}

// Clone returns an independent copy of r. Mutating the clone never
// affects r and vice versa.
func (r *Resolver) Clone() *Resolver {
	out := &Resolver{scopes: make([]scope, len(r.scopes))}
	for i, s := range r.scopes {
		cloned := make(scope, len(s))
		for k, v := range s {
			cloned[k] = v
		}
		out.scopes[i] = cloned
	}
	return out
}

// splitQName splits a QName on its first colon.
func splitQName(qname string) (prefix, local string, hasPrefix bool) {
	idx := strings.IndexByte(qname, ':')
	if idx < 0 {
		return "", qname, false
	}
	return qname[:idx], qname[idx+1:], true
}
