package rngschema

import (
	"fmt"
	"os"

	"github.com/segmentio/encoding/json"

	"github.com/relaxwalk/rngcore/datatype"
	"github.com/relaxwalk/rngcore/nameclass"
	"github.com/relaxwalk/rngcore/pattern"
)

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// decoder converts wire-format nodes (one pass, in arena order) into
// pattern.Grammar nodes, tracking the wire-index -> pattern.ID mapping
// so that later nodes (or the top-level "start" reference) can resolve
// integer child references.
type decoder struct {
	g   *pattern.Grammar
	ids []pattern.ID
}

// wireNode is the generic tagged-array shape: ["kind", field, field, ...].
// We decode the kind first, then re-decode field-by-field since fields
// differ in type per kind (segmentio/encoding/json supports decoding
// into json.RawMessage slices cheaply for this kind of tagged union).
type wireNode []json.RawMessage

func (d *decoder) decodeNode(index int, raw json.RawMessage) (pattern.ID, error) {
	var fields wireNode
	if err := json.Unmarshal(raw, &fields); err != nil {
		return pattern.InvalidID, err
	}
	if len(fields) == 0 {
		return pattern.InvalidID, fmt.Errorf("empty node")
	}
	var kind string
	if err := json.Unmarshal(fields[0], &kind); err != nil {
		return pattern.InvalidID, fmt.Errorf("decoding kind: %w", err)
	}
	path := fmt.Sprintf("d[%d]", index)

	switch kind {
	case "empty":
		return d.g.NewEmpty(path), nil
	case "notAllowed":
		return d.g.NewNotAllowed(path), nil
	case "text":
		return d.g.NewText(path), nil
	case "value":
		var datatypeLibrary, datatypeName, ns, value string
		if err := decodeFields(fields, 1, &datatypeLibrary, &datatypeName, &ns, &value); err != nil {
			return pattern.InvalidID, err
		}
		return d.g.NewValue(path, datatypeName, datatypeLibrary, ns, value), nil
	case "data":
		var datatypeLibrary, datatypeName string
		var params []datatype.Param
		var except *int
		if err := decodeFields(fields, 1, &datatypeLibrary, &datatypeName, &params, &except); err != nil {
			return pattern.InvalidID, err
		}
		exceptID := pattern.InvalidID
		if except != nil {
			id, err := d.resolveIndex(*except)
			if err != nil {
				return pattern.InvalidID, err
			}
			exceptID = id
		}
		return d.g.NewData(path, datatypeName, datatypeLibrary, params, exceptID), nil
	case "list":
		child, err := d.decodeChildRef(fields, 1)
		if err != nil {
			return pattern.InvalidID, err
		}
		return d.g.NewList(path, child), nil
	case "attribute":
		nc, child, err := d.decodeNamedChild(fields)
		if err != nil {
			return pattern.InvalidID, err
		}
		return d.g.NewAttribute(path, nc, child), nil
	case "element":
		nc, child, err := d.decodeNamedChild(fields)
		if err != nil {
			return pattern.InvalidID, err
		}
		return d.g.NewElement(path, nc, child), nil
	case "ref":
		var target string
		if err := decodeFields(fields, 1, &target); err != nil {
			return pattern.InvalidID, err
		}
		return d.g.NewRef(path, target), nil
	case "define":
		var name string
		if err := json.Unmarshal(fields[1], &name); err != nil {
			return pattern.InvalidID, err
		}
		elemID, err := d.decodeChildRef(fields, 2)
		if err != nil {
			return pattern.InvalidID, err
		}
		return d.g.NewDefine(path, name, elemID), nil
	case "group":
		a, b, err := d.decodeTwoChildren(fields)
		if err != nil {
			return pattern.InvalidID, err
		}
		return d.g.NewGroup(path, a, b), nil
	case "choice":
		a, b, err := d.decodeTwoChildren(fields)
		if err != nil {
			return pattern.InvalidID, err
		}
		return d.g.NewChoice(path, a, b), nil
	case "interleave":
		a, b, err := d.decodeTwoChildren(fields)
		if err != nil {
			return pattern.InvalidID, err
		}
		return d.g.NewInterleave(path, a, b), nil
	case "oneOrMore":
		child, err := d.decodeChildRef(fields, 1)
		if err != nil {
			return pattern.InvalidID, err
		}
		return d.g.NewOneOrMore(path, child), nil
	default:
		return pattern.InvalidID, fmt.Errorf("unknown node kind %q", kind)
	}
}

func decodeFields(fields wireNode, start int, targets ...any) error {
	for i, t := range targets {
		idx := start + i
		if idx >= len(fields) {
			continue // trailing optional fields may be omitted by the producer
		}
		if err := json.Unmarshal(fields[idx], t); err != nil {
			return fmt.Errorf("field %d: %w", idx, err)
		}
	}
	return nil
}

func (d *decoder) decodeChildRef(fields wireNode, at int) (pattern.ID, error) {
	if at >= len(fields) {
		return pattern.InvalidID, fmt.Errorf("missing child reference at field %d", at)
	}
	return d.resolveRef(fields[at])
}

func (d *decoder) decodeTwoChildren(fields wireNode) (pattern.ID, pattern.ID, error) {
	a, err := d.decodeChildRef(fields, 1)
	if err != nil {
		return pattern.InvalidID, pattern.InvalidID, err
	}
	b, err := d.decodeChildRef(fields, 2)
	if err != nil {
		return pattern.InvalidID, pattern.InvalidID, err
	}
	return a, b, nil
}

func (d *decoder) decodeNamedChild(fields wireNode) (nameclass.Class, pattern.ID, error) {
	if len(fields) < 3 {
		return nameclass.Class{}, pattern.InvalidID, fmt.Errorf("expected name class and child reference")
	}
	nc, err := d.decodeNameClass(fields[1])
	if err != nil {
		return nameclass.Class{}, pattern.InvalidID, err
	}
	child, err := d.resolveRef(fields[2])
	if err != nil {
		return nameclass.Class{}, pattern.InvalidID, err
	}
	return nc, child, nil
}

// decodeNameClass decodes a tagged ["name", ns, local] / ["nsName", ns,
// except] / ["anyName", except] / ["choice", a, b] value.
func (d *decoder) decodeNameClass(raw json.RawMessage) (nameclass.Class, error) {
	var fields wireNode
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nameclass.Class{}, err
	}
	if len(fields) == 0 {
		return nameclass.Class{}, fmt.Errorf("empty name class")
	}
	var kind string
	if err := json.Unmarshal(fields[0], &kind); err != nil {
		return nameclass.Class{}, err
	}
	switch kind {
	case "name":
		var ns, local string
		if err := decodeFields(fields, 1, &ns, &local); err != nil {
			return nameclass.Class{}, err
		}
		return nameclass.NewName(ns, local), nil
	case "nsName":
		var ns string
		if err := decodeFields(fields, 1, &ns); err != nil {
			return nameclass.Class{}, err
		}
		except, err := d.decodeOptionalExceptClass(fields, 2)
		if err != nil {
			return nameclass.Class{}, err
		}
		return nameclass.NewNsName(ns, except), nil
	case "anyName":
		except, err := d.decodeOptionalExceptClass(fields, 1)
		if err != nil {
			return nameclass.Class{}, err
		}
		return nameclass.NewAnyName(except), nil
	case "choice":
		if len(fields) < 3 {
			return nameclass.Class{}, fmt.Errorf("name choice requires two branches")
		}
		a, err := d.decodeNameClass(fields[1])
		if err != nil {
			return nameclass.Class{}, err
		}
		b, err := d.decodeNameClass(fields[2])
		if err != nil {
			return nameclass.Class{}, err
		}
		return nameclass.NewNameChoice(a, b), nil
	default:
		return nameclass.Class{}, fmt.Errorf("unknown name class kind %q", kind)
	}
}

func (d *decoder) decodeOptionalExceptClass(fields wireNode, at int) (*nameclass.Class, error) {
	if at >= len(fields) || string(fields[at]) == "null" {
		return nil, nil
	}
	c, err := d.decodeNameClass(fields[at])
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// resolveRef interprets raw as a bare integer index into the arena; any
// other JSON shape is rejected with an error.
func (d *decoder) resolveRef(raw json.RawMessage) (pattern.ID, error) {
	var idx int
	if err := json.Unmarshal(raw, &idx); err != nil {
		return pattern.InvalidID, fmt.Errorf("decoding reference: %w", err)
	}
	return d.resolveIndex(idx)
}

func (d *decoder) resolveIndex(idx int) (pattern.ID, error) {
	if idx < 0 || idx >= len(d.ids) {
		return pattern.InvalidID, fmt.Errorf("reference index %d out of range [0,%d)", idx, len(d.ids))
	}
	return d.ids[idx], nil
}
