package sqltemplate

// directiveHandler resolves a self-closing directive node into its
// SQL fragment. Static handlers only ever consult ctx (table/column
// metadata, dialect) and can run once during Prepare; dynamic handlers
// additionally need a VarProvider and must be deferred to Render.
type directiveHandler struct {
	static  bool
	resolve func(n *node, ctx *PlaceholderContext, vp VarProvider) (string, error)
}

// handlerTable dispatches every self-closing directive name named in
// the directive grammar. Block directives ("if", "where") are handled
// separately in template.go since they carry nested content rather
// than options alone.
var handlerTable = map[string]directiveHandler{
	"table":   {static: true, resolve: handleTable},
	"columns": {static: true, resolve: handleColumns},
	"values":  {static: true, resolve: handleValues},
	"set":     {static: true, resolve: handleSet},
	"orderby": {static: true, resolve: handleOrderBy},
	"limit":   {static: true, resolve: handleLimit},
	"in":      {static: false, resolve: handleIn},
	"arg":     {static: true, resolve: handleArg},
	"var":     {static: false, resolve: handleVar},
}
