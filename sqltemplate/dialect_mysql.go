package sqltemplate

type mysqlDialect struct{ baseDialect }

func newMySQLDialect() Dialect {
	return mysqlDialect{baseDialect{name: DialectMySQL}}
}

func (d mysqlDialect) QuoteIdentifier(name string) string {
	return "`" + name + "`"
}

func (d mysqlDialect) ParameterPrefix() string { return "@" }

func (d mysqlDialect) ParameterMarker(name string) string {
	return "@" + name
}

// MySQL has no infix string-concatenation operator; callers must emit
// CONCAT(a, b, ...) instead.
func (d mysqlDialect) UsesConcatFunction() bool { return true }

func (d mysqlDialect) Paginate(sql, limitExpr, offsetExpr, orderBy string) string {
	return defaultPaginate(sql, limitExpr, offsetExpr, orderBy)
}

func (d mysqlDialect) TranslateFunc(fn CanonicalFunc) string {
	if fn == FuncCeiling {
		return "CEILING"
	}
	return d.baseDialect.TranslateFunc(fn)
}
