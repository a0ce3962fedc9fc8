package sqltemplate

// VarProvider resolves a runtime variable referenced by {{var NAME}}
// or by a conditional directive's test. It is invoked synchronously
// from Render; it is the only suspension point in the whole package,
// so a caller that wants cancellation must build it into their own
// VarProvider implementation.
type VarProvider func(name string) (any, bool)

// PlaceholderContext is the shared, immutable configuration every
// directive handler and the expression translator consult while
// resolving a template. It is built once via NewPlaceholderContext and
// never mutated afterward, which is what makes concurrent Render
// calls over the same Template safe.
type PlaceholderContext struct {
	dialect     Dialect
	table       string
	columns     []ColumnMeta
	varProvider VarProvider
}

// NewPlaceholderContext builds a PlaceholderContext for a single table
// and its column metadata. columns is retained by reference: callers
// must not mutate it after the call returns.
func NewPlaceholderContext(dialect Dialect, table string, columns []ColumnMeta, varProvider VarProvider) *PlaceholderContext {
	return &PlaceholderContext{
		dialect:     dialect,
		table:       table,
		columns:     columns,
		varProvider: varProvider,
	}
}

func (c *PlaceholderContext) Dialect() Dialect { return c.dialect }

func (c *PlaceholderContext) Table() string { return c.table }

func (c *PlaceholderContext) Columns() []ColumnMeta { return c.columns }

// ResolveVar invokes the context's VarProvider, returning a
// BindingError when none was configured or the name is unknown.
func (c *PlaceholderContext) ResolveVar(directive, name string) (any, error) {
	if c.varProvider == nil {
		return nil, newBindingError(directive, name, "no var_provider configured on this context")
	}
	v, ok := c.varProvider(name)
	if !ok {
		return nil, newBindingError(directive, name, "unknown variable")
	}
	return v, nil
}

// ColumnByProperty looks up a ColumnMeta by its host-language property
// name.
func (c *PlaceholderContext) ColumnByProperty(propertyName string) (ColumnMeta, bool) {
	for _, col := range c.columns {
		if col.PropertyName == propertyName {
			return col, true
		}
	}
	return ColumnMeta{}, false
}
