// Package rngerrors provides structured error types for rngcore.
//
// These error types enable programmatic error handling via errors.Is()
// and errors.As(), allowing callers to distinguish between categories
// of validation failure and react accordingly (e.g. an editor surfacing
// possible-events on an ElementNameError, or a batch validator simply
// counting ValidationError occurrences).
//
// # Error Categories
//
//   - ElementNameError: an element's expanded name was not expected
//   - AttributeNameError: an attribute's expanded name was not expected
//   - AttributeValueError: an attribute's value failed its datatype or Value check
//   - TextError: character data was not allowed where it occurred
//   - ChoiceError: every branch of a Choice failed, carrying each branch's error
//   - ValidationError: a generic content-model violation not covered above
//   - UnresolvedReferenceError: a schema Ref named a Define that does not exist
//
// # Usage with errors.As
//
//	err := gw.FireEvent(ctx, rngevent.EnterStartTag{Name: "foo"})
//	var nameErr *rngerrors.ElementNameError
//	if errors.As(err, &nameErr) {
//	    // offer nameErr.Expected as completions
//	}
package rngerrors

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrElementName indicates an unexpected element name.
	ErrElementName = errors.New("unexpected element name")

	// ErrAttributeName indicates an unexpected attribute name.
	ErrAttributeName = errors.New("unexpected attribute name")

	// ErrAttributeValue indicates an attribute value failed validation.
	ErrAttributeValue = errors.New("invalid attribute value")

	// ErrText indicates character data was not allowed at this point.
	ErrText = errors.New("text not allowed")

	// ErrChoice indicates every branch of a choice point failed.
	ErrChoice = errors.New("no choice branch matched")

	// ErrValidation indicates a generic content model violation.
	ErrValidation = errors.New("validation error")

	// ErrUnresolvedReference indicates a Ref named a Define that does not exist.
	ErrUnresolvedReference = errors.New("unresolved reference")
)

var titleCaser = cases.Title(language.English)

// ElementNameError reports that an element's expanded name did not match
// any branch of the content model in scope.
type ElementNameError struct {
	// Got is the expanded name (Clark notation) of the element encountered.
	Got string
	// Expected lists the expanded names that would have been accepted.
	Expected []string
	// Reason overrides the default "unexpected element" phrasing for the
	// structural cases of §4.4.9 ("tag not closed", "start tag not
	// terminated", "unexpected end tag") and §4.5 ("tag not allowed here").
	Reason string
	// XMLPath is the simplifier-assigned debug path of the failing pattern.
	XMLPath string
}

func (e *ElementNameError) Error() string {
	var msg string
	switch {
	case e.Reason != "":
		msg = fmt.Sprintf("%s: %s", e.Reason, e.Got)
	default:
		msg = fmt.Sprintf("unexpected element %s", e.Got)
	}
	if len(e.Expected) > 0 {
		msg += "; expected one of: " + strings.Join(e.Expected, ", ")
	}
	if e.XMLPath != "" {
		msg += " (at " + e.XMLPath + ")"
	}
	return msg
}

func (e *ElementNameError) Is(target error) bool { return target == ErrElementName }

// AttributeNameError reports that an attribute's expanded name was not
// accepted by any Attribute pattern still available at a start tag, or
// that a start tag closed without satisfying a required Attribute.
type AttributeNameError struct {
	// Got is the expanded name (Clark notation) of the attribute
	// encountered; empty for the "attribute missing"/"attribute value
	// missing" cases, where nothing was encountered, something expected
	// never showed up.
	Got string
	// Expected lists the expanded names that would have been accepted,
	// or (for the "missing" cases) the name(s) still outstanding.
	Expected []string
	// Reason overrides the default "unexpected attribute" phrasing for
	// the leaveStartTag phase-transition cases of §4.4.4: "attribute
	// missing" (name never seen) and "attribute value missing" (name
	// seen, no value followed).
	Reason  string
	XMLPath string
}

func (e *AttributeNameError) Error() string {
	var msg string
	switch {
	case e.Reason != "" && e.Got != "":
		msg = fmt.Sprintf("%s: %s", e.Reason, e.Got)
	case e.Reason != "":
		msg = e.Reason
	default:
		msg = fmt.Sprintf("unexpected attribute %s", e.Got)
	}
	if len(e.Expected) > 0 {
		msg += "; expected one of: " + strings.Join(e.Expected, ", ")
	}
	if e.XMLPath != "" {
		msg += " (at " + e.XMLPath + ")"
	}
	return msg
}

func (e *AttributeNameError) Is(target error) bool { return target == ErrAttributeName }

// AttributeValueError reports that an attribute's value failed its Value
// comparison or Data datatype check.
type AttributeValueError struct {
	Name    string
	Value   string
	Reason  string
	XMLPath string
}

func (e *AttributeValueError) Error() string {
	msg := fmt.Sprintf("invalid value %q for attribute %s", e.Value, e.Name)
	if e.Reason != "" {
		msg += ": " + titleCaser.String(e.Reason)
	}
	if e.XMLPath != "" {
		msg += " (at " + e.XMLPath + ")"
	}
	return msg
}

func (e *AttributeValueError) Is(target error) bool { return target == ErrAttributeValue }

// TextError reports that character data occurred where the content model
// in scope has no Text or Value/Data pattern to absorb it.
type TextError struct {
	XMLPath string
}

func (e *TextError) Error() string {
	msg := "text not allowed here"
	if e.XMLPath != "" {
		msg += " (at " + e.XMLPath + ")"
	}
	return msg
}

func (e *TextError) Is(target error) bool { return target == ErrText }

// ChoiceError reports that every branch of a Choice rejected the same
// event, carrying the per-branch errors so a caller can present the most
// relevant one (or all of them) to a user.
type ChoiceError struct {
	Branches []error
}

func (e *ChoiceError) Error() string {
	msgs := make([]string, len(e.Branches))
	for i, b := range e.Branches {
		msgs[i] = b.Error()
	}
	return "no choice branch matched: " + strings.Join(msgs, "; or ")
}

func (e *ChoiceError) Is(target error) bool { return target == ErrChoice }

// Unwrap returns the branch errors so errors.As can reach into them.
func (e *ChoiceError) Unwrap() []error { return e.Branches }

// ValidationError is a catch-all for content model violations that do
// not fit the more specific categories above (e.g. ending a walker whose
// pattern is not nullable).
type ValidationError struct {
	Message string
	XMLPath string
	Cause   error
}

func (e *ValidationError) Error() string {
	msg := e.Message
	if e.XMLPath != "" {
		msg += " (at " + e.XMLPath + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return e.Cause }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// UnresolvedReferenceError reports that one or more Ref patterns in a
// schema name a Define that was never registered with the grammar.
type UnresolvedReferenceError struct {
	Names []string
}

func (e *UnresolvedReferenceError) Error() string {
	return "unresolved reference(s): " + strings.Join(e.Names, ", ")
}

func (e *UnresolvedReferenceError) Is(target error) bool { return target == ErrUnresolvedReference }
