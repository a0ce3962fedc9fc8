package sqltemplate

import (
	"regexp"
	"strings"
)

// handleValues resolves {{values}} to a comma-separated parameter-marker
// list (without surrounding parentheses) matching the column order {{columns}} would produce for the
// same --exclude set, so an INSERT built from both directives lines up
// column-for-column:
//
//	INSERT INTO {{table}} ({{columns}}) VALUES ({{values}})
//
// An empty column list renders as the empty string, the same as
// {{columns}}.
func handleValues(n *node, ctx *PlaceholderContext, _ VarProvider) (string, error) {
	cols := filterColumns(ctx.Columns(), excludeSet(n.opts.Values("exclude")))
	if len(cols) == 0 {
		return "", nil
	}
	markers := make([]string, len(cols))
	for i, c := range cols {
		markers[i] = ctx.Dialect().ParameterMarker(c.Name)
	}
	return strings.Join(markers, ", "), nil
}

// handleSet resolves {{set}} to a comma-separated "col = @col" list for
// an UPDATE statement, honoring --exclude the same way handleValues and
// handleColumns do, plus --inline KEY=expr overrides: a column named by
// --inline is written as "col = <expr>" instead of "col = @col", with
// any column's property name appearing in expr identifier-wrapped
// (quoted and snake_cased) wherever it occurs as a whole word, so
// "--inline Version=Version+1" becomes "[version] = [version]+1".
func handleSet(n *node, ctx *PlaceholderContext, _ VarProvider) (string, error) {
	overrides, err := parseInlineOverrides(n, n.opts.Values("inline"))
	if err != nil {
		return "", err
	}
	cols := filterColumns(ctx.Columns(), excludeSet(n.opts.Values("exclude")))
	if len(cols) == 0 {
		return "", nil
	}
	parts := make([]string, len(cols))
	for i, c := range cols {
		lhs := ctx.Dialect().QuoteIdentifier(c.Name)
		if expr, ok := overrides[c.PropertyName]; ok {
			parts[i] = lhs + " = " + wrapIdentifiersInExpr(expr, ctx.Dialect(), ctx.Columns())
			continue
		}
		parts[i] = lhs + " = " + ctx.Dialect().ParameterMarker(c.Name)
	}
	return strings.Join(parts, ", "), nil
}

// parseInlineOverrides splits each "--inline KEY=expr" token into a
// property-name -> raw-expression map.
func parseInlineOverrides(n *node, tokens []string) (map[string]string, error) {
	overrides := make(map[string]string, len(tokens))
	for _, tok := range tokens {
		eq := strings.IndexByte(tok, '=')
		if eq <= 0 {
			return nil, newParseError(n.raw, n.pos, "--inline requires KEY=expr")
		}
		overrides[tok[:eq]] = tok[eq+1:]
	}
	return overrides, nil
}

var identWordPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// wrapIdentifiersInExpr rewrites every whole-word occurrence of a
// known column's property name inside expr with that column's quoted,
// dialect-specific identifier, leaving operators and numeric literals
// untouched.
func wrapIdentifiersInExpr(expr string, d Dialect, cols []ColumnMeta) string {
	byProperty := make(map[string]string, len(cols))
	for _, c := range cols {
		byProperty[c.PropertyName] = d.QuoteIdentifier(c.Name)
	}
	return identWordPattern.ReplaceAllStringFunc(expr, func(word string) string {
		if quoted, ok := byProperty[word]; ok {
			return quoted
		}
		return word
	})
}
