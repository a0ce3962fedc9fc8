package sqltemplate

type postgresDialect struct{ baseDialect }

func newPostgresDialect() Dialect {
	return postgresDialect{baseDialect{name: DialectPostgres}}
}

func (d postgresDialect) QuoteIdentifier(name string) string {
	return `"` + name + `"`
}

func (d postgresDialect) ParameterPrefix() string { return "$" }

func (d postgresDialect) ParameterMarker(name string) string {
	return "$" + name
}

func (d postgresDialect) Paginate(sql, limitExpr, offsetExpr, orderBy string) string {
	return defaultPaginate(sql, limitExpr, offsetExpr, orderBy)
}

func (d postgresDialect) TranslateFunc(fn CanonicalFunc) string {
	if fn == FuncSubstring {
		return "SUBSTR"
	}
	return d.baseDialect.TranslateFunc(fn)
}
