// Package rngevent defines the event vocabulary that drives a
// GrammarWalker incrementally: one event per SAX-like callback a caller
// would receive while streaming through an XML document (or driving the
// walker directly from an editor, without any document at all).
//
// Events are a closed sum type. The walker package's FireEvent switches
// over the concrete type of the Event interface rather than exposing
// one method per event kind, since events carry per-kind payloads a
// plain enum constant could not.
package rngevent

// Event is the marker interface implemented by every event kind below.
type Event interface {
	isEvent()
}

// EnterContext signals that a new namespace scope (an element's start
// tag) is being entered, before any DefinePrefix events for that tag
// are fired and before EnterStartTag.
type EnterContext struct{}

func (EnterContext) isEvent() {}

// LeaveContext signals that the namespace scope opened by the matching
// EnterContext is closed, fired alongside EndTag.
type LeaveContext struct{}

func (LeaveContext) isEvent() {}

// DefinePrefix declares an xmlns (or xmlns:prefix) binding in scope for
// the current EnterContext. Prefix is "" for the default namespace
// declaration.
type DefinePrefix struct {
	Prefix string
	URI    string
}

func (DefinePrefix) isEvent() {}

// EnterStartTag begins processing a start tag's qualified name, before
// its attributes are known. Name is the raw QName as it appeared in the
// document (e.g. "ns1:foo").
type EnterStartTag struct {
	Name string
}

func (EnterStartTag) isEvent() {}

// LeaveStartTag ends processing of a start tag once all of its
// attributes have been delivered via AttributeName/AttributeValue or
// AttributeNameAndValue events.
type LeaveStartTag struct{}

func (LeaveStartTag) isEvent() {}

// StartTagAndAttributes is a convenience event bundling
// EnterStartTag+attributes+LeaveStartTag into one call, for callers that
// already have the whole start tag parsed (e.g. a batch validator that
// read a DOM node) and do not need the attribute-by-attribute
// incremental API.
type StartTagAndAttributes struct {
	Name       string
	Attributes []Attribute
}

// Attribute is one (name, value) pair used by StartTagAndAttributes.
type Attribute struct {
	Name  string
	Value string
}

func (StartTagAndAttributes) isEvent() {}

// EndTag closes the element opened by the most recent unmatched
// EnterStartTag. Name is the raw QName as it appeared in the document;
// the walker resolves it and rejects a mismatch against the open
// element's bound name (spec §4.4.9).
type EndTag struct {
	Name string
}

func (EndTag) isEvent() {}

// AttributeName delivers one attribute's name without its value yet,
// for callers that want name-validity feedback before a value is typed
// (e.g. live editor completion).
type AttributeName struct {
	Name string
}

func (AttributeName) isEvent() {}

// AttributeValue delivers the value for the attribute most recently
// named by AttributeName.
type AttributeValue struct {
	Value string
}

func (AttributeValue) isEvent() {}

// AttributeNameAndValue delivers a complete attribute in one event, for
// callers that already have both parts.
type AttributeNameAndValue struct {
	Name  string
	Value string
}

func (AttributeNameAndValue) isEvent() {}

// Text delivers character data. Whitespace-only text between element
// tags is suspended rather than matched against Text/Value/Data
// patterns unless the content model actually mixes text with elements
// (spec §4.5, whitespace suspension).
type Text struct {
	Data string
}

func (Text) isEvent() {}
