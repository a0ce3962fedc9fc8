package sqltemplate

import (
	"fmt"
	"strings"
)

// condition is the parsed form of an {{if ...}} test: one of
// "null NAME", "notnull NAME", "empty NAME", or "notempty NAME".
type condition struct {
	kind  string // "null", "notnull", "empty", "notempty"
	name  string
	value string
}

// parseCondition reads the text between {{if and }}, supporting both
// "key=value" shorthand (notnull=name) and whitespace-separated
// "key value" form, matching the directive grammar's "--opt val" look
// without requiring the -- prefix inside {{if}}.
func parseCondition(raw string, pos int) (condition, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return condition{}, newParseError("{{if}}", pos, "{{if}} requires a condition")
	}
	if eq := strings.IndexByte(raw, '='); eq >= 0 {
		kind := strings.TrimSpace(raw[:eq])
		rest := strings.TrimSpace(raw[eq+1:])
		switch kind {
		case "null", "notnull", "empty", "notempty":
			return condition{kind: kind, name: rest}, nil
		default:
			return condition{}, newParseError("{{if}}", pos, fmt.Sprintf("unknown condition kind %q", kind))
		}
	}
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return condition{}, newParseError("{{if}}", pos, "malformed condition")
	}
	switch fields[0] {
	case "null", "notnull", "empty", "notempty":
		return condition{kind: fields[0], name: fields[1]}, nil
	}
	return condition{}, newParseError("{{if}}", pos, fmt.Sprintf("unknown condition kind %q", fields[0]))
}

// eval resolves c against vp. A missing variable is treated the same
// as null/empty rather than raising a BindingError, per the
// {{if}} grammar's "missing param ≡ null/empty" rule.
func (c condition) eval(vp VarProvider, raw string) (bool, error) {
	if vp == nil {
		return false, newBindingError(raw, c.name, "no var_provider configured on this context")
	}
	v, ok := vp(c.name)
	switch c.kind {
	case "null":
		return !ok || v == nil, nil
	case "notnull":
		return ok && v != nil, nil
	case "empty":
		return !ok || isEmptyValue(v), nil
	case "notempty":
		return ok && !isEmptyValue(v), nil
	default:
		return false, newParseError(raw, -1, "unknown condition kind")
	}
}

// isEmptyValue reports whether v is nil or a zero-length
// string/slice/map/array, the values {{if empty}} treats as absent.
func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch x := v.(type) {
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	case []string:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}
