package rngevent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEventsSatisfyInterface is a compile-time-checked-at-runtime guard
// that every event kind implements Event, since isEvent is unexported
// and a new kind forgetting it would otherwise only fail far away in
// walker's type switch.
func TestEventsSatisfyInterface(t *testing.T) {
	events := []Event{
		EnterContext{},
		LeaveContext{},
		DefinePrefix{Prefix: "ns1", URI: "urn:example"},
		EnterStartTag{Name: "foo"},
		LeaveStartTag{},
		StartTagAndAttributes{Name: "foo", Attributes: []Attribute{{Name: "bar", Value: "1"}}},
		EndTag{Name: "foo"},
		AttributeName{Name: "bar"},
		AttributeValue{Value: "1"},
		AttributeNameAndValue{Name: "bar", Value: "1"},
		Text{Data: "hello"},
	}
	for _, ev := range events {
		assert.NotNil(t, ev)
	}
}

func TestStartTagAndAttributesCarriesPayload(t *testing.T) {
	ev := StartTagAndAttributes{
		Name: "root",
		Attributes: []Attribute{
			{Name: "id", Value: "1"},
			{Name: "class", Value: "a b"},
		},
	}
	assert.Equal(t, "root", ev.Name)
	assert.Len(t, ev.Attributes, 2)
	assert.Equal(t, "class", ev.Attributes[1].Name)
}
