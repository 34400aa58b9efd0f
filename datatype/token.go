package datatype

import (
	"context"
	"strconv"
	"strings"
)

// TokenLibrary implements Relax NG's built-in library: "string" compares
// values byte-for-byte, "token" first collapses internal whitespace runs
// to a single space and trims leading/trailing whitespace (XML schema's
// "collapse" whitespace facet) before comparing.
//
// This is the library used when a schema specifies no datatypeLibrary
// attribute, or datatypeLibrary="".
type TokenLibrary struct{}

func (TokenLibrary) normalize(datatypeName, value string) string {
	if datatypeName == "token" {
		return collapseWhitespace(value)
	}
	return value
}

func (t TokenLibrary) Equal(_ context.Context, _ Context, datatypeName, value, raw string, _ []Param) (bool, error) {
	return t.normalize(datatypeName, value) == t.normalize(datatypeName, raw), nil
}

func (TokenLibrary) Disallows(_ context.Context, _ Context, datatypeName string, _ string, _ []Param) (bool, string, error) {
	switch datatypeName {
	case "", "string", "token":
		return false, "", nil
	default:
		return true, "unknown built-in datatype " + strconv.Quote(datatypeName), nil
	}
}

func (TokenLibrary) AllowsEmpty(string, []Param) bool {
	return true
}

// collapseWhitespace implements the XML Schema "collapse" whitespace
// facet: replace tab/newline/CR with space, collapse runs of spaces, and
// trim the ends.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
