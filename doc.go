// Package rngcore provides an incremental, event-driven validator for XML
// documents against a subset of Relax NG.
//
// Callers feed a stream of parsing events (start tags, attributes, text,
// end tags) and receive, after each event, either nil or a structured
// validation error. At any point a caller may ask the validator for the
// complete set of element or attribute names that would be acceptable
// next, enabling guided editing (completion) in live editors. Callers may
// also clone the validator's state cheaply and resume from a clone later,
// for example to try a speculative edit and roll it back on rejection.
//
// # Overview
//
// The engine is organized in layers:
//
//   - nameclass / nsresolver / datatype: name classes, namespace
//     resolution, and the datatype façade
//   - pattern: the immutable pattern tree and Grammar
//   - walker: the per-node derivative functions plus the GrammarWalker
//     driver that threads ambiguous grammars as independent branches
//   - rngevent: the closed set of events FireEvent accepts
//   - rngschema: loads a compact JSON encoding of an already-simplified
//     Relax NG schema into a pattern.Grammar
//   - rnglog: the structured logging interface walker and rngschema
//     accept for optional diagnostic tracing
//   - mcpserver: exposes the walker's event-driven API as MCP tools over
//     stdio, for editor and agent integrations
//
// # Quick Start
//
//	g, err := rngschema.Load(rngschema.WithFilePath("schema.rng.json"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gw := walker.NewGrammarWalker(g)
//	ctx := context.Background()
//	if err := gw.FireEvent(ctx, rngevent.EnterStartTag{Name: "html"}); err != nil {
//		log.Fatal(err)
//	}
//
// See the walker package documentation for the full event-handling
// contract, and the rngschema package documentation for the schema
// input format.
//
// # Out of scope
//
// This library does not implement the Relax NG simplifier (the rewrite
// from XML-form schemas to this engine's canonical pattern form), an XML
// tokenizer, or a full datatype library. It consumes already-simplified
// schemas and already-tokenized event streams produced elsewhere.
package rngcore
