// Package rngschema loads a compact, pre-simplified Relax NG schema
// representation into a pattern.Grammar ready for walker.NewGrammarWalker.
//
// The wire format is intentionally not XML: producing it (parsing a
// .rng file, applying the Relax NG simplification steps) is explicitly
// out of scope (see the package's Non-goals); this package only reads
// the already-simplified, already-arena-shaped JSON a separate
// simplifier tool would emit. The format mirrors the pattern package's
// own arena so loading is a close to 1:1 transcription:
//
//	{
//	  "v": 1,
//	  "o": 0,
//	  "start": <nodeRef>,
//	  "d": [ [kind, ...fields], ... ]
//	}
//
// "v" is the format version; only version 1 is accepted. "d" is the
// node arena in allocation order; a node's children are given as
// integer indices into "d". "start" is an integer index into "d"; no
// other shape is accepted. "o" is a reserved flags bitfield for future
// whitespace/normalization modes.
package rngschema

import (
	"fmt"
	"io"

	"github.com/segmentio/encoding/json"

	"github.com/relaxwalk/rngcore/datatype"
	"github.com/relaxwalk/rngcore/internal/options"
	"github.com/relaxwalk/rngcore/pattern"
	"github.com/relaxwalk/rngcore/rnglog"
)

// Option configures a Load call.
type Option func(*loadConfig) error

type loadConfig struct {
	filePath  *string
	reader    io.Reader
	bytes     []byte
	datatypes *datatype.Registry
	logger    rnglog.Logger
}

// WithFilePath loads the schema from the named file.
func WithFilePath(path string) Option {
	return func(cfg *loadConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader loads the schema from r.
func WithReader(r io.Reader) Option {
	return func(cfg *loadConfig) error {
		if r == nil {
			return fmt.Errorf("rngschema: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes loads the schema from an in-memory buffer.
func WithBytes(data []byte) Option {
	return func(cfg *loadConfig) error {
		if data == nil {
			return fmt.Errorf("rngschema: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithDatatypeRegistry overrides the datatype registry used to resolve
// Value/Data patterns in the loaded grammar. Defaults to
// datatype.NewRegistry() when not given.
func WithDatatypeRegistry(reg *datatype.Registry) Option {
	return func(cfg *loadConfig) error {
		cfg.datatypes = reg
		return nil
	}
}

// WithLogger attaches a logger for load-time diagnostics. Defaults to
// rnglog.NopLogger.
func WithLogger(logger rnglog.Logger) Option {
	return func(cfg *loadConfig) error {
		cfg.logger = logger
		return nil
	}
}

func applyOptions(opts ...Option) (*loadConfig, error) {
	cfg := &loadConfig{logger: rnglog.NopLogger{}}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := options.ValidateSingleInputSource(
		"rngschema: must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"rngschema: must specify exactly one input source",
		options.InputSource{Name: "WithFilePath", Present: cfg.filePath != nil},
		options.InputSource{Name: "WithReader", Present: cfg.reader != nil},
		options.InputSource{Name: "WithBytes", Present: cfg.bytes != nil},
	); err != nil {
		return nil, err
	}
	return cfg, nil
}

// wireDocument is the top-level JSON shape.
type wireDocument struct {
	V     int               `json:"v"`
	O     int               `json:"o"`
	Start json.RawMessage   `json:"start"`
	D     []json.RawMessage `json:"d"`
}

// Load reads a compact schema document and returns a prepared Grammar.
func Load(opts ...Option) (*pattern.Grammar, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, err
	}

	raw, err := readInput(cfg)
	if err != nil {
		return nil, fmt.Errorf("rngschema: %w", err)
	}
	cfg.logger.Debug("schema source read", "bytes", len(raw))

	var doc wireDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("rngschema: decoding schema: %w", err)
	}
	if doc.V == 0 {
		return nil, fmt.Errorf("rngschema: missing or zero format version")
	}
	if doc.V != 1 {
		return nil, fmt.Errorf("rngschema: unsupported format version %d", doc.V)
	}

	g := pattern.NewGrammar(cfg.datatypes)
	dec := &decoder{g: g, ids: make([]pattern.ID, len(doc.D))}

	for i, raw := range doc.D {
		id, err := dec.decodeNode(i, raw)
		if err != nil {
			return nil, fmt.Errorf("rngschema: node %d: %w", i, err)
		}
		dec.ids[i] = id
	}

	startID, err := dec.resolveRef(doc.Start)
	if err != nil {
		return nil, fmt.Errorf("rngschema: start pattern: %w", err)
	}
	g.SetStart(startID)

	if err := g.Prepare(); err != nil {
		cfg.logger.Warn("grammar preparation failed", "error", err)
		return nil, err
	}
	cfg.logger.Info("schema loaded", "nodes", len(doc.D))
	return g, nil
}

func readInput(cfg *loadConfig) ([]byte, error) {
	switch {
	case cfg.filePath != nil:
		return readFile(*cfg.filePath)
	case cfg.reader != nil:
		return io.ReadAll(cfg.reader)
	case cfg.bytes != nil:
		return cfg.bytes, nil
	default:
		return nil, fmt.Errorf("no input source specified")
	}
}
