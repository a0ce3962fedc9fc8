package sqltemplate

import (
	"fmt"
	"strconv"
	"strings"
)

const sentinelPrefix = "\x00SQLTPL:"
const sentinelSuffix = "\x00"

// Template is the result of Prepare: a compiled string with sentinel
// markers standing in for every directive whose resolution depends on
// a runtime VarProvider, plus the parsed nodes needed to resolve those
// sentinels at Render time. Template values are immutable after
// Prepare returns; Render never mutates the receiver, so a single
// Template may be rendered concurrently from multiple goroutines.
type Template struct {
	ctx            *PlaceholderContext
	compiled       string
	dynamic        []*node
	hasDynamic     bool
	parameterOrder []string
}

// HasDynamicPlaceholders reports whether Render must be supplied a
// working VarProvider to fully resolve this template (i.e. whether
// ContainsDynamic(src) would have returned true for its source text).
func (t *Template) HasDynamicPlaceholders() bool { return t.hasDynamic }

// ParameterOrder lists the bound-parameter names recorded by Prepare
// for top-level directives, in left-to-right source order,
// deduplicated on first occurrence. {{in}} contributes its --param
// name once, not its per-element marker names. Of the directives
// nested inside {{if}}/{{where}} blocks, only {{in}} is recorded, and
// only once Render has resolved it, after the names Prepare recorded.
// DB2's positional "?" marker relies on binding values in this order.
func (t *Template) ParameterOrder() []string { return t.parameterOrder }

// Prepare performs the static phase of template compilation: it
// parses src into a directive tree, resolves every directive that
// does not require a runtime VarProvider, and leaves a sentinel in
// place of everything that does. Prepare runs in O(len(src)) time
// plus O(columns) per static directive; it never touches a
// VarProvider.
func Prepare(ctx *PlaceholderContext, src string) (*Template, error) {
	nodes, err := parseTemplate(src)
	if err != nil {
		return nil, err
	}
	t := &Template{ctx: ctx}
	var sb strings.Builder
	var paramSeen = map[string]bool{}
	for _, n := range nodes {
		if err := t.prepareNode(n, &sb, paramSeen); err != nil {
			return nil, err
		}
	}
	t.compiled = sb.String()
	return t, nil
}

func (t *Template) trackParam(name string) {
	if name == "" {
		return
	}
	for _, p := range t.parameterOrder {
		if p == name {
			return
		}
	}
	t.parameterOrder = append(t.parameterOrder, name)
}

func (t *Template) prepareNode(n *node, sb *strings.Builder, paramSeen map[string]bool) error {
	switch n.kind {
	case nodeText:
		sb.WriteString(n.text)
		return nil
	case nodeBlock:
		t.hasDynamic = true
		idx := len(t.dynamic)
		t.dynamic = append(t.dynamic, n)
		sb.WriteString(sentinelPrefix)
		sb.WriteString(strconv.Itoa(idx))
		sb.WriteString(sentinelSuffix)
		return nil
	case nodeDirective:
		h, ok := handlerTable[n.name]
		if !ok {
			return newParseError(n.raw, n.pos, fmt.Sprintf("unknown directive %q", n.name))
		}
		if h.static {
			resolved, err := h.resolve(n, t.ctx, nil)
			if err != nil {
				return err
			}
			sb.WriteString(resolved)
			collectParamNames(n, t)
			return nil
		}
		collectParamNames(n, t)
		t.hasDynamic = true
		idx := len(t.dynamic)
		t.dynamic = append(t.dynamic, n)
		sb.WriteString(sentinelPrefix)
		sb.WriteString(strconv.Itoa(idx))
		sb.WriteString(sentinelSuffix)
		return nil
	default:
		return newParseError(n.raw, n.pos, "unrecognized node kind")
	}
}

// collectParamNames records the parameter name(s) a top-level directive
// binds, for ParameterOrder.
func collectParamNames(n *node, t *Template) {
	switch n.name {
	case "values", "set":
		for _, c := range filterColumns(t.ctx.Columns(), excludeSet(n.opts.Values("exclude"))) {
			t.trackParam(c.Name)
		}
	case "limit":
		t.trackParam(n.opts.Value("param"))
		t.trackParam(n.opts.Value("offset"))
	case "arg", "in":
		t.trackParam(n.opts.Value("param"))
	}
}

// Render performs the dynamic phase: every sentinel left by Prepare
// is resolved using vp, then the whole result is passed through the
// injection guard. Render is safe to call concurrently on the same
// Template and runs in O(len(compiled) + sum of dynamic subtree
// sizes).
func (t *Template) Render(vp VarProvider) (string, error) {
	if !t.hasDynamic {
		if err := checkInjection(t.compiled); err != nil {
			return "", err
		}
		return t.compiled, nil
	}
	var out strings.Builder
	rest := t.compiled
	for {
		start := strings.Index(rest, sentinelPrefix)
		if start < 0 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:start])
		rest = rest[start+len(sentinelPrefix):]
		end := strings.Index(rest, sentinelSuffix)
		if end < 0 {
			return "", newParseError("", -1, "corrupt sentinel in compiled template")
		}
		idxStr := rest[:end]
		rest = rest[end+len(sentinelSuffix):]
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 || idx >= len(t.dynamic) {
			return "", newParseError("", -1, "corrupt sentinel index in compiled template")
		}
		n := t.dynamic[idx]
		resolved, err := t.renderNode(n, vp)
		if err != nil {
			return "", err
		}
		out.WriteString(resolved)
	}
	result := out.String()
	if err := checkInjection(result); err != nil {
		return "", err
	}
	return result, nil
}

func (t *Template) renderNode(n *node, vp VarProvider) (string, error) {
	switch n.kind {
	case nodeBlock:
		switch n.name {
		case "if":
			return t.renderIf(n, vp)
		case "where":
			return t.renderWhere(n, vp)
		}
		return "", newParseError(n.raw, n.pos, fmt.Sprintf("unknown block directive %q", n.name))
	case nodeDirective:
		h, ok := handlerTable[n.name]
		if !ok {
			return "", newParseError(n.raw, n.pos, fmt.Sprintf("unknown directive %q", n.name))
		}
		s, err := h.resolve(n, t.ctx, vp)
		if err != nil {
			return "", err
		}
		if n.name == "in" {
			t.trackParam(n.opts.Value("param"))
		}
		return s, nil
	default:
		return "", newParseError(n.raw, n.pos, "unrecognized node kind")
	}
}

func (t *Template) renderIf(n *node, vp VarProvider) (string, error) {
	cond, err := parseCondition(n.optText, n.pos)
	if err != nil {
		return "", err
	}
	ok, err := cond.eval(vp, n.raw)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return t.renderChildren(n.children, vp)
}

// renderWhere implements the smart-WHERE idiom: render the block's
// contents, strip one leading AND/OR, and emit nothing at all if
// nothing remains.
func (t *Template) renderWhere(n *node, vp VarProvider) (string, error) {
	body, err := t.renderChildren(n.children, vp)
	if err != nil {
		return "", err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return "", nil
	}
	upper := strings.ToUpper(body)
	switch {
	case strings.HasPrefix(upper, "AND "):
		body = strings.TrimSpace(body[4:])
	case strings.HasPrefix(upper, "OR "):
		body = strings.TrimSpace(body[3:])
	}
	if body == "" {
		return "", nil
	}
	return "WHERE " + body, nil
}

func (t *Template) renderChildren(children []*node, vp VarProvider) (string, error) {
	var sb strings.Builder
	for _, c := range children {
		switch c.kind {
		case nodeText:
			sb.WriteString(c.text)
		default:
			s, err := t.renderNode(c, vp)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}
