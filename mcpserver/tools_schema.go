package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/relaxwalk/rngcore/rngschema"
	"github.com/relaxwalk/rngcore/walker"
)

type loadSchemaInput struct {
	Content string `json:"content" jsonschema:"The compact JSON schema document ({\"v\":…,\"d\":[…]} wire format)"`
}

type loadSchemaOutput struct {
	SessionID string `json:"session_id"`
}

func handleLoadSchema(_ context.Context, _ *mcp.CallToolRequest, input loadSchemaInput) (*mcp.CallToolResult, loadSchemaOutput, error) {
	if input.Content == "" {
		err := fmt.Errorf("content must not be empty")
		return errResult(err), loadSchemaOutput{}, nil
	}

	g, err := rngschema.Load(rngschema.WithBytes([]byte(input.Content)))
	if err != nil {
		return errResult(err), loadSchemaOutput{}, nil
	}

	gw := walker.NewGrammarWalker(g)
	id := sessions.create(g, gw)
	return nil, loadSchemaOutput{SessionID: id}, nil
}

func lookupSession(sessionID string) (*session, error) {
	sess, ok := sessions.get(sessionID)
	if !ok {
		return nil, fmt.Errorf("unknown session_id %q", sessionID)
	}
	return sess, nil
}
