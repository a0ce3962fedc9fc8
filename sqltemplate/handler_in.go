package sqltemplate

import (
	"fmt"
	"reflect"
	"strings"
)

// handleIn resolves {{in --param NAME}} to a parenthesized list of
// parameter markers, one per element of the runtime slice bound to
// NAME: "(@name_0, @name_1, @name_2)". The element count can only be
// known once the slice is available, so this directive is always
// resolved at Render time even though its shape never depends on a
// conditional test the way {{if}} does. A NAME that resolves to null,
// an empty slice, or nothing at all (absent ≡ null, the same
// convention {{if}} uses) renders as the always-empty-matching
// "(NULL)" rather than an error, so "WHERE x IN {{in --param xs}}"
// stays valid SQL for the no-rows case.
func handleIn(n *node, ctx *PlaceholderContext, vp VarProvider) (string, error) {
	name := n.opts.Value("param")
	if name == "" {
		return "", newParseError(n.raw, n.pos, "{{in}} requires --param NAME")
	}
	if err := validateIdentifier(n.raw, name); err != nil {
		return "", err
	}
	if vp == nil {
		return "", newBindingError(n.raw, name, "no var_provider configured on this context")
	}
	v, ok := vp(name)
	if !ok || v == nil {
		return "(NULL)", nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return "", newBindingError(n.raw, name, "{{in}} parameter must be a slice or array")
	}
	count := rv.Len()
	if count == 0 {
		return "(NULL)", nil
	}
	markers := make([]string, count)
	for i := 0; i < count; i++ {
		markers[i] = ctx.Dialect().ParameterMarker(fmt.Sprintf("%s_%d", name, i))
	}
	return "(" + strings.Join(markers, ", ") + ")", nil
}
