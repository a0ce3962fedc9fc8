package sqltemplate

// ExtractParameters performs a static scan of a template's source
// text and returns the set of parameter names it would bind, without
// requiring a PlaceholderContext or VarProvider. It only sees names
// that are spelled directly in the template ("--param NAME" on
// {{arg}}/{{in}}/{{limit}}); names contributed by {{columns}}/
// {{values}}/{{set}} depend on the PlaceholderContext's ColumnMeta and
// are not visible here — callers that need the full set should
// Prepare a Template and read ParameterOrder instead.
func ExtractParameters(src string) (map[string]struct{}, error) {
	nodes, err := parseTemplate(src)
	if err != nil {
		return nil, err
	}
	out := map[string]struct{}{}
	var walk func(ns []*node)
	walk = func(ns []*node) {
		for _, n := range ns {
			switch n.kind {
			case nodeDirective:
				switch n.name {
				case "arg", "in":
					if p := n.opts.Value("param"); p != "" {
						out[p] = struct{}{}
					}
				case "limit":
					if p := n.opts.Value("param"); p != "" {
						out[p] = struct{}{}
					}
					if p := n.opts.Value("offset"); p != "" {
						out[p] = struct{}{}
					}
				}
			case nodeBlock:
				walk(n.children)
			}
		}
	}
	walk(nodes)
	return out, nil
}

// ContainsDynamic reports whether src has at least one directive that
// cannot be resolved until Render time (a block directive, {{var}}, or
// {{in}}) — the same test HasDynamicPlaceholders exposes on an
// already-Prepared Template, offered here for callers that only have
// source text on hand.
func ContainsDynamic(src string) (bool, error) {
	nodes, err := parseTemplate(src)
	if err != nil {
		return false, err
	}
	var walk func(ns []*node) bool
	walk = func(ns []*node) bool {
		for _, n := range ns {
			if n.kind == nodeBlock {
				return true
			}
			if n.kind == nodeDirective {
				h, ok := handlerTable[n.name]
				if !ok {
					return false
				}
				if !h.static {
					return true
				}
			}
		}
		return false
	}
	return walk(nodes), nil
}
