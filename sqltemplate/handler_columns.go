package sqltemplate

import "strings"

// handleTable resolves {{table}} to the quoted, schema-qualified
// table name carried by the context.
func handleTable(n *node, ctx *PlaceholderContext, _ VarProvider) (string, error) {
	if ctx.Table() == "" {
		return "", newBindingError(n.raw, "table", "no table name configured on this context")
	}
	for _, seg := range splitDot(ctx.Table()) {
		if err := validateIdentifier(n.raw, seg); err != nil {
			return "", err
		}
	}
	return QualifyIdentifier(ctx.Dialect(), ctx.Table()), nil
}

// handleColumns resolves {{columns}} to a comma-separated, quoted
// column list, honoring --exclude NAME[,NAME...] (matched against
// ColumnMeta.PropertyName). An empty column list, whether the context
// carries none or --exclude removed them all, renders as the empty
// string rather than a stray comma or an error.
func handleColumns(n *node, ctx *PlaceholderContext, _ VarProvider) (string, error) {
	cols := filterColumns(ctx.Columns(), excludeSet(n.opts.Values("exclude")))
	if len(cols) == 0 {
		return "", nil
	}
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = ctx.Dialect().QuoteIdentifier(c.Name)
	}
	return strings.Join(quoted, ", "), nil
}

// handleOrderBy resolves {{orderby}} to an ORDER BY column list built
// from ColumnMeta, honoring --desc/--asc (default asc) and --exclude.
func handleOrderBy(n *node, ctx *PlaceholderContext, _ VarProvider) (string, error) {
	cols := filterColumns(ctx.Columns(), excludeSet(n.opts.Values("exclude")))
	if len(cols) == 0 {
		return "", nil
	}
	dir := "ASC"
	if n.opts.Has("desc") {
		dir = "DESC"
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = ctx.Dialect().QuoteIdentifier(c.Name) + " " + dir
	}
	return strings.Join(parts, ", "), nil
}
