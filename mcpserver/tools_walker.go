package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/relaxwalk/rngcore/nameclass"
	"github.com/relaxwalk/rngcore/rngevent"
)

// eventAttributeInput is one (name, value) pair for a composite
// startTagAndAttributes event.
type eventAttributeInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// fireEventInput describes one rngevent.Event. Kind selects which
// fields are meaningful; this flattened shape keeps the MCP tool
// schema to a single input type rather than a tagged union the SDK
// would have to special-case.
type fireEventInput struct {
	SessionID  string                `json:"session_id" jsonschema:"The session returned by load_schema or snapshot"`
	Kind       string                `json:"kind" jsonschema:"enterContext, leaveContext, definePrefix, enterStartTag, leaveStartTag, startTagAndAttributes, endTag, attributeName, attributeValue, attributeNameAndValue, or text"`
	Name       string                `json:"name,omitempty" jsonschema:"Element/attribute QName for enterStartTag, startTagAndAttributes, endTag, attributeName, attributeNameAndValue"`
	Value      string                `json:"value,omitempty" jsonschema:"Attribute value for attributeValue, attributeNameAndValue"`
	Prefix     string                `json:"prefix,omitempty" jsonschema:"Prefix for definePrefix (empty string means the default namespace)"`
	URI        string                `json:"uri,omitempty" jsonschema:"Namespace URI for definePrefix"`
	Data       string                `json:"data,omitempty" jsonschema:"Character data for text"`
	Attributes []eventAttributeInput `json:"attributes,omitempty" jsonschema:"Attribute list for startTagAndAttributes"`
}

func (in fireEventInput) toEvent() (rngevent.Event, error) {
	switch in.Kind {
	case "enterContext":
		return rngevent.EnterContext{}, nil
	case "leaveContext":
		return rngevent.LeaveContext{}, nil
	case "definePrefix":
		return rngevent.DefinePrefix{Prefix: in.Prefix, URI: in.URI}, nil
	case "enterStartTag":
		return rngevent.EnterStartTag{Name: in.Name}, nil
	case "leaveStartTag":
		return rngevent.LeaveStartTag{}, nil
	case "startTagAndAttributes":
		attrs := make([]rngevent.Attribute, len(in.Attributes))
		for i, a := range in.Attributes {
			attrs[i] = rngevent.Attribute{Name: a.Name, Value: a.Value}
		}
		return rngevent.StartTagAndAttributes{Name: in.Name, Attributes: attrs}, nil
	case "endTag":
		return rngevent.EndTag{Name: in.Name}, nil
	case "attributeName":
		return rngevent.AttributeName{Name: in.Name}, nil
	case "attributeValue":
		return rngevent.AttributeValue{Value: in.Value}, nil
	case "attributeNameAndValue":
		return rngevent.AttributeNameAndValue{Name: in.Name, Value: in.Value}, nil
	case "text":
		return rngevent.Text{Data: in.Data}, nil
	default:
		return nil, fmt.Errorf("unrecognized event kind %q", in.Kind)
	}
}

type fireEventOutput struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func handleFireEvent(ctx context.Context, _ *mcp.CallToolRequest, input fireEventInput) (*mcp.CallToolResult, fireEventOutput, error) {
	sess, err := lookupSession(input.SessionID)
	if err != nil {
		return errResult(err), fireEventOutput{}, nil
	}
	ev, err := input.toEvent()
	if err != nil {
		return errResult(err), fireEventOutput{}, nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.gw.FireEvent(ctx, ev); err != nil {
		return nil, fireEventOutput{OK: false, Error: err.Error()}, nil
	}
	return nil, fireEventOutput{OK: true}, nil
}

type possibleEventsInput struct {
	SessionID string `json:"session_id"`
}

type expandedName struct {
	NS    string `json:"namespace"`
	Local string `json:"local"`
}

// splitWildcard separates the concrete expanded names PossibleElements/
// PossibleAttributes returned from the nameclass.NamespaceWildcard
// sentinel, reporting whether completion is open-ended (spec §4.4,
// collectPossibleElements/collectPossibleAttributes).
func splitWildcard(names []nameclass.Expanded) (concrete []expandedName, open bool) {
	concrete = makeSlice[expandedName](len(names))
	for _, n := range names {
		if n.NS == nameclass.NamespaceWildcard {
			open = true
			continue
		}
		concrete = append(concrete, expandedName{NS: n.NS, Local: n.Local})
	}
	return concrete, open
}

type possibleEventsOutput struct {
	Elements       []expandedName `json:"elements"`
	Attributes     []expandedName `json:"attributes"`
	ElementsOpen   bool           `json:"elements_open" jsonschema:"true when a wildcard name class makes the element list non-exhaustive"`
	AttributesOpen bool           `json:"attributes_open" jsonschema:"true when a wildcard name class makes the attribute list non-exhaustive"`
}

func handlePossibleEvents(_ context.Context, _ *mcp.CallToolRequest, input possibleEventsInput) (*mcp.CallToolResult, possibleEventsOutput, error) {
	sess, err := lookupSession(input.SessionID)
	if err != nil {
		return errResult(err), possibleEventsOutput{}, nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	elements, elementsOpen := splitWildcard(sess.gw.PossibleElements())
	attributes, attributesOpen := splitWildcard(sess.gw.PossibleAttributes())

	return nil, possibleEventsOutput{
		Elements:       elements,
		Attributes:     attributes,
		ElementsOpen:   elementsOpen,
		AttributesOpen: attributesOpen,
	}, nil
}

type snapshotInput struct {
	SessionID string `json:"session_id"`
}

type snapshotOutput struct {
	SessionID string `json:"session_id"`
}

func handleSnapshot(_ context.Context, _ *mcp.CallToolRequest, input snapshotInput) (*mcp.CallToolResult, snapshotOutput, error) {
	sess, err := lookupSession(input.SessionID)
	if err != nil {
		return errResult(err), snapshotOutput{}, nil
	}

	sess.mu.Lock()
	clone := sess.gw.Clone()
	grammar := sess.grammar
	sess.mu.Unlock()

	id := sessions.create(grammar, clone)
	return nil, snapshotOutput{SessionID: id}, nil
}

type endInput struct {
	SessionID string `json:"session_id"`
}

type endOutput struct {
	CanEnd bool   `json:"can_end"`
	Error  string `json:"error,omitempty"`
}

func handleEnd(_ context.Context, _ *mcp.CallToolRequest, input endInput) (*mcp.CallToolResult, endOutput, error) {
	sess, err := lookupSession(input.SessionID)
	if err != nil {
		return errResult(err), endOutput{}, nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := endOutput{CanEnd: sess.gw.CanEnd()}
	if endErr := sess.gw.End(); endErr != nil {
		out.Error = endErr.Error()
	}
	return nil, out, nil
}

type closeSessionInput struct {
	SessionID string `json:"session_id"`
}

type closeSessionOutput struct {
	Closed bool `json:"closed"`
}

func handleCloseSession(_ context.Context, _ *mcp.CallToolRequest, input closeSessionInput) (*mcp.CallToolResult, closeSessionOutput, error) {
	sessions.delete(input.SessionID)
	return nil, closeSessionOutput{Closed: true}, nil
}
