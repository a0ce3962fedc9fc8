package sqltemplate

import "strconv"

// handleLimit resolves {{limit}} to a dialect-correct pagination
// clause appended to nothing (it returns only the clause text; it is
// expected to be the tail of a query template). --param names the
// parameter carrying the row limit, --count gives the row limit as a
// literal instead (the two are mutually exclusive; --count wins if
// both are given), and --offset names the parameter carrying the row
// offset; all are optional.
func handleLimit(n *node, ctx *PlaceholderContext, _ VarProvider) (string, error) {
	limitParam := n.opts.Value("param")
	limitCount := n.opts.Value("count")
	offsetParam := n.opts.Value("offset")
	orderBy := n.opts.Value("orderby")

	var limitExpr, offsetExpr string
	if limitCount != "" {
		if _, err := strconv.Atoi(limitCount); err != nil {
			return "", newParseError(n.raw, n.pos, "{{limit --count}} requires an integer literal")
		}
		limitExpr = limitCount
	} else if limitParam != "" {
		limitExpr = ctx.Dialect().ParameterMarker(limitParam)
	}
	if offsetParam != "" {
		offsetExpr = ctx.Dialect().ParameterMarker(offsetParam)
	}
	return ctx.Dialect().Paginate("", limitExpr, offsetExpr, orderBy), nil
}
