// Package mcpserver exposes the incremental Relax NG validator as an
// MCP (Model Context Protocol) tool server over stdio, modeled on the
// teacher's internal/mcpserver package: one exported Run(ctx) entry
// point, package-level tool registration, and typed input/output
// structs decoded by the MCP SDK instead of hand-rolled JSON.
//
// This is the concrete transport for spec.md §1's "guided editing in
// live editors" use case: an editor or coding agent loads a schema once
// (load_schema), then drives the validator turn by turn as the user
// types (fire_event, possible_events), branching freely via snapshot
// since a GrammarWalker clone is cheap.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/relaxwalk/rngcore"
)

const serverInstructions = `rngcore MCP server — validates XML event streams against a Relax NG schema incrementally, and reports the set of events that would be accepted next for editor-style completion.

Typical flow:
  1. load_schema with a compact JSON schema passed as inline content to obtain a session_id.
  2. fire_event repeatedly with that session_id as the document's events are produced.
  3. possible_events at any point to see what a guided editor should offer next.
  4. snapshot to branch a session (e.g. to try a speculative edit and discard it) and end to check whether the document could validly terminate right now.

Sessions are held in memory only for the lifetime of this server process; there is no on-disk persistence.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or ctx is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "rngcore", Version: rngcore.Version()},
		&mcp.ServerOptions{Instructions: serverInstructions},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "load_schema",
		Description: "Load a compact JSON Relax NG schema (the {\"v\":…,\"d\":[…]} wire format produced by an external simplifier) and start a new validation session. Returns a session_id to pass to every other tool.",
	}, handleLoadSchema)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fire_event",
		Description: "Advance a session's walker by one parse event (enterStartTag, leaveStartTag, startTagAndAttributes, attributeName, attributeValue, attributeNameAndValue, endTag, text, enterContext, leaveContext, definePrefix). Returns ok=true with no error, or ok=false with a structured validation error; the session's state is unchanged on rejection.",
	}, handleFireEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "possible_events",
		Description: "Return the expanded element and attribute names a session's walker would currently accept, for guided-editing completion. Distinguishes whether completion is closed (every accepted name enumerated) or open (a wildcard name class is live, so not every accepted name can be listed).",
	}, handlePossibleEvents)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "snapshot",
		Description: "Clone a session's current state into a brand-new session_id, sharing the same loaded grammar. Firing events on the clone never affects the original; use this to try a speculative edit and roll it back by simply discarding the clone's session_id.",
	}, handleSnapshot)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "end",
		Description: "Check whether the document could validly end right now (no more events), without mutating the session's state. Returns can_end plus an error if ending now would be invalid.",
	}, handleEnd)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "close_session",
		Description: "Discard a session and free its walker. Sessions are also bounded by a cap that evicts the oldest-created session first; calling this explicitly is optional but keeps long-running server processes tidy.",
	}, handleCloseSession)
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
	}
}

// makeSlice preallocates a slice of capacity n, returning nil rather
// than a non-nil empty slice when n is zero; in a JSON field without
// omitempty (as in possibleEventsOutput) a nil slice encodes as null.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}
