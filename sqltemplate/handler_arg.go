package sqltemplate

// handleArg resolves {{arg --param NAME}} to a bare parameter marker
// for NAME, without requiring NAME to correspond to a ColumnMeta. This
// is the escape hatch for parameters that don't map to a column, such
// as a cursor token or a computed filter value.
func handleArg(n *node, ctx *PlaceholderContext, _ VarProvider) (string, error) {
	name := n.opts.Value("param")
	if name == "" {
		return "", newParseError(n.raw, n.pos, "{{arg}} requires --param NAME")
	}
	if err := validateIdentifier(n.raw, name); err != nil {
		return "", err
	}
	return ctx.Dialect().ParameterMarker(name), nil
}

// handleVar resolves {{var NAME}} by substituting the *literal* value
// of a runtime variable directly into the SQL text (not as a bound
// parameter). This is reserved for values that must be a literal at
// parse time on the target engine, such as a column or table name
// chosen dynamically; the resolved text is still passed back through
// the injection guard at Render's end like everything else, since it
// never becomes a parameter marker itself.
func handleVar(n *node, ctx *PlaceholderContext, vp VarProvider) (string, error) {
	name := n.opts.PositionalValue()
	if name == "" {
		name = n.opts.Value("name")
	}
	if name == "" {
		return "", newParseError(n.raw, n.pos, "{{var}} requires a variable name")
	}
	if vp == nil {
		return "", newBindingError(n.raw, name, "no var_provider configured on this context")
	}
	v, ok := vp(name)
	if !ok {
		return "", newBindingError(n.raw, name, "unknown variable")
	}
	s, ok := v.(string)
	if !ok {
		return "", newBindingError(n.raw, name, "{{var}} value must be a string")
	}
	return s, nil
}
