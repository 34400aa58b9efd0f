// Package datatype provides the façade the pattern engine uses to
// delegate Value/Data-pattern matching to an external datatype library.
//
// The engine does not implement XSD or Relax NG's built-in datatype
// library itself (spec §1, Out of scope); it only needs a small,
// pluggable interface — the same "interface plus adapter" shape the
// teacher's logging package uses for log/slog, zap, and zerolog
// integration. Two minimal built-in libraries are provided so the
// engine and its tests are runnable without an external dependency:
// Token (Relax NG's built-in whitespace-collapsing string library) and
// a restricted subset of XSD's numeric/string facets.
package datatype

import "context"

// Context supplies datatype implementations with whatever contextual
// information a value comparison might need — for example resolving a
// QName-typed value's prefix against the in-scope namespace bindings.
// Most datatypes ignore it entirely.
type Context interface {
	// ResolveQName resolves a prefixed name appearing inside a text
	// value (as used by the XSD QName and NOTATION datatypes) to an
	// expanded (namespace, local) pair.
	ResolveQName(qname string) (ns, local string, ok bool)
}

// Library is the façade the pattern engine calls into for every Value
// and Data pattern. A concrete datatype library (not part of this
// module) registers itself under one or more URIs via Register.
type Library interface {
	// Equal reports whether value, interpreted under the given
	// datatype name and parameters, equals raw (the literal content of
	// a Value pattern). dtCtx may be nil when the type does not need
	// context.
	Equal(ctx context.Context, dtCtx Context, datatypeName, value, raw string, params []Param) (bool, error)

	// Disallows reports whether value is NOT a valid lexical
	// representation of datatypeName under params. A nil error with
	// Disallows returning true means the value was rejected for a
	// reason worth surfacing (msg); a non-nil error indicates the
	// datatype name or parameters themselves were invalid. The built-in
	// TokenLibrary and XSDLibrary never return a non-nil error: they
	// report an unknown datatype name as disallowed, with msg naming it,
	// and ignore parameters they cannot parse.
	Disallows(ctx context.Context, dtCtx Context, datatypeName, value string, params []Param) (disallowed bool, msg string, err error)

	// AllowsEmpty reports whether the empty string is a valid lexical
	// representation of datatypeName under params.
	AllowsEmpty(datatypeName string, params []Param) bool
}

// Param is a single datatype parameter, e.g. {Name: "pattern", Value: "[0-9]+"}.
type Param struct {
	Name  string
	Value string
}

// Registry maps a datatype library URI (as it would appear in a Relax NG
// datatypeLibrary attribute) to its Library implementation.
type Registry struct {
	libs map[string]Library
}

// NewRegistry returns a Registry pre-populated with the built-in Token
// and restricted-XSD libraries under their standard URIs.
func NewRegistry() *Registry {
	r := &Registry{libs: make(map[string]Library, 2)}
	r.Register("", TokenLibrary{})
	r.Register("http://www.w3.org/2001/XMLSchema-datatypes", XSDLibrary{})
	return r
}

// Register installs lib under uri, replacing any previous registration.
func (r *Registry) Register(uri string, lib Library) {
	r.libs[uri] = lib
}

// Lookup returns the library registered for uri, or the built-in Token
// library if none was registered (matching Relax NG's rule that an
// empty datatypeLibrary URI denotes the built-in "token"/"string" types).
func (r *Registry) Lookup(uri string) Library {
	if lib, ok := r.libs[uri]; ok {
		return lib
	}
	return TokenLibrary{}
}
