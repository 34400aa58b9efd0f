package datatype

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// XSDLibrary implements a restricted subset of the XSD built-in
// datatypes, sufficient for the engine's own tests and for schemas that
// declare datatypeLibrary="http://www.w3.org/2001/XMLSchema-datatypes".
// It is not a complete XSD implementation (spec §1 Non-goals): no
// facets besides the implicit lexical-space check and minInclusive/
// maxInclusive on the integer and decimal types, and no collation or
// locale awareness. It exists only so Data/Value patterns have a real
// datatype to delegate to without requiring an external dependency.
type XSDLibrary struct{}

func (x XSDLibrary) Equal(ctx context.Context, dtCtx Context, datatypeName, value, raw string, params []Param) (bool, error) {
	switch datatypeName {
	case "QName", "NOTATION":
		if dtCtx == nil {
			return value == raw, nil
		}
		vns, vlocal, vok := dtCtx.ResolveQName(value)
		rns, rlocal, rok := dtCtx.ResolveQName(raw)
		if !vok || !rok {
			return false, nil
		}
		return vns == rns && vlocal == rlocal, nil
	case "float", "double":
		vf, verr := parseXSDFloat(value)
		rf, rerr := parseXSDFloat(raw)
		if verr != nil || rerr != nil {
			return false, nil
		}
		if math.IsNaN(vf) && math.IsNaN(rf) {
			return true, nil
		}
		return vf == rf, nil
	default:
		return strings.TrimSpace(value) == strings.TrimSpace(raw), nil
	}
}

func (x XSDLibrary) Disallows(_ context.Context, _ Context, datatypeName, value string, params []Param) (bool, string, error) {
	trimmed := strings.TrimSpace(value)
	switch datatypeName {
	case "string", "normalizedString", "token", "NMTOKEN", "Name", "NCName", "ID", "IDREF", "language":
		return false, "", nil
	case "boolean":
		switch trimmed {
		case "true", "false", "1", "0":
			return false, "", nil
		}
		return true, "not a valid xsd:boolean", nil
	case "integer", "int", "long", "short", "byte", "nonNegativeInteger", "positiveInteger":
		if _, err := strconv.ParseInt(trimmed, 10, 64); err != nil {
			return true, "not a valid xsd:" + datatypeName, nil
		}
		return applyNumericFacets(trimmed, params)
	case "decimal":
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return true, "not a valid xsd:decimal", nil
		}
		return applyNumericFacets(trimmed, params)
	case "float", "double":
		if _, err := parseXSDFloat(trimmed); err != nil {
			return true, "not a valid xsd:" + datatypeName, nil
		}
		return false, "", nil
	case "QName", "NOTATION":
		if trimmed == "" {
			return true, "empty QName", nil
		}
		return false, "", nil
	default:
		return true, "unknown XSD datatype " + strconv.Quote(datatypeName), nil
	}
}

func (x XSDLibrary) AllowsEmpty(datatypeName string, _ []Param) bool {
	switch datatypeName {
	case "string", "normalizedString", "token":
		return true
	default:
		return false
	}
}

// parseXSDFloat parses XSD's lexical space for float/double, which
// includes the literals "INF", "-INF", and "NaN" in addition to normal
// decimal/scientific notation (spec §1 Non-goals calls these out by
// name as the one numeric-facet wrinkle worth supporting).
func parseXSDFloat(s string) (float64, error) {
	switch s {
	case "INF", "+INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	default:
		return strconv.ParseFloat(s, 64)
	}
}

// applyNumericFacets checks the minInclusive/maxInclusive facets if
// present in params; it is the only facet pair implemented, since the
// engine's own scope does not require more.
func applyNumericFacets(value string, params []Param) (bool, string, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return true, "not numeric", nil
	}
	for _, p := range params {
		switch p.Name {
		case "minInclusive":
			min, err := strconv.ParseFloat(p.Value, 64)
			if err == nil && v < min {
				return true, "below minInclusive", nil
			}
		case "maxInclusive":
			max, err := strconv.ParseFloat(p.Value, 64)
			if err == nil && v > max {
				return true, "above maxInclusive", nil
			}
		}
	}
	return false, "", nil
}
