package sqltemplate

import "fmt"

// DialectName identifies one of the six supported relational engines.
type DialectName string

const (
	DialectSQLite     DialectName = "sqlite"
	DialectMySQL      DialectName = "mysql"
	DialectPostgres   DialectName = "postgres"
	DialectSQLServer  DialectName = "sqlserver"
	DialectOracle     DialectName = "oracle"
	DialectDB2        DialectName = "db2"
)

// CanonicalFunc enumerates the function names the expression
// translator and directive handlers may need translated per dialect.
type CanonicalFunc int

const (
	FuncSubstring CanonicalFunc = iota
	FuncLength
	FuncToUpper
	FuncToLower
	FuncTrim
	FuncReplace
	FuncAbs
	FuncRound
	FuncCeiling
	FuncFloor
	FuncSqrt
	FuncPower
	FuncConcat
	FuncGreatest
	FuncNow
)

// Dialect describes the per-database syntactic conventions every
// resolver and the expression translator consult: quoting,
// parameter markers, pagination and function-name translation.
// Dialect values are immutable and are handed out by identity from
// DialectFor; implementations never carry mutable state.
type Dialect interface {
	// Name returns the dialect's identifying tag.
	Name() DialectName

	// QuoteIdentifier wraps a single identifier (no dot-splitting;
	// callers that need schema.table qualification call this once
	// per segment) in the dialect's column quote characters.
	QuoteIdentifier(name string) string

	// QuoteString wraps a literal in the dialect's string delimiters,
	// doubling any embedded delimiter per the SQL-92 escaping rule.
	QuoteString(s string) string

	// ParameterPrefix returns the dialect's marker prefix: one of
	// @, $, :, ?.
	ParameterPrefix() string

	// ParameterMarker returns the marker that stands for a bound
	// value named name. Every dialect except DB2 embeds name in the
	// marker; DB2 is positional ("?") and relies on the caller
	// tracking name via the template's parameter order.
	ParameterMarker(name string) string

	// ConcatOperator returns the infix string-concatenation operator
	// ("||" almost everywhere, "+" on SQL Server). MySQL has no infix
	// operator and is special-cased by callers to emit CONCAT(...).
	ConcatOperator() string

	// UsesConcatFunction reports whether the dialect requires the
	// CONCAT(...) function form instead of ConcatOperator.
	UsesConcatFunction() bool

	// TranslateFunc returns the dialect's spelling of a canonical
	// function name.
	TranslateFunc(fn CanonicalFunc) string

	// CurrentTimestamp returns the dialect's current-timestamp
	// expression.
	CurrentTimestamp() string

	// BooleanLiteral returns how the dialect spells true/false; some
	// dialects (SQL Server, Oracle, DB2) have no native boolean
	// literal and use 1/0 instead.
	BooleanLiteral(v bool) string

	// Paginate appends a LIMIT/OFFSET-equivalent clause to sql.
	// limitExpr and offsetExpr are already-rendered SQL expressions
	// (a literal or a parameter marker); orderBy is the ORDER BY
	// column list without the "ORDER BY" keyword, or "" if absent.
	Paginate(sql, limitExpr, offsetExpr, orderBy string) string
}

// baseDialect supplies the defaults shared by every concrete dialect;
// each concrete type embeds it and overrides what differs.
type baseDialect struct {
	name DialectName
}

func (d baseDialect) Name() DialectName { return d.name }

func (d baseDialect) QuoteString(s string) string {
	return "'" + escapeSingleQuotes(s) + "'"
}

func escapeSingleQuotes(s string) string {
	out := make([]byte, 0, len(s)+2)
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, '\'', '\'')
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}

func (d baseDialect) ConcatOperator() string     { return "||" }
func (d baseDialect) UsesConcatFunction() bool    { return false }
func (d baseDialect) BooleanLiteral(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

var canonicalFuncNames = map[CanonicalFunc]string{
	FuncSubstring: "SUBSTRING",
	FuncLength:    "LENGTH",
	FuncToUpper:   "UPPER",
	FuncToLower:   "LOWER",
	FuncTrim:      "TRIM",
	FuncReplace:   "REPLACE",
	FuncAbs:       "ABS",
	FuncRound:     "ROUND",
	FuncCeiling:   "CEILING",
	FuncFloor:     "FLOOR",
	FuncSqrt:      "SQRT",
	FuncPower:     "POWER",
	FuncConcat:    "CONCAT",
	FuncGreatest:  "GREATEST",
	FuncNow:       "CURRENT_TIMESTAMP",
}

func (d baseDialect) TranslateFunc(fn CanonicalFunc) string {
	if name, ok := canonicalFuncNames[fn]; ok {
		return name
	}
	return "UNKNOWN_FUNC"
}

func (d baseDialect) CurrentTimestamp() string { return "CURRENT_TIMESTAMP" }

// defaultPaginate implements the common LIMIT/OFFSET form used by
// SQLite, MySQL and PostgreSQL.
func defaultPaginate(sql, limitExpr, offsetExpr, orderBy string) string {
	if orderBy != "" {
		sql += " ORDER BY " + orderBy
	}
	if limitExpr != "" {
		sql += " LIMIT " + limitExpr
	}
	if offsetExpr != "" {
		sql += " OFFSET " + offsetExpr
	}
	return sql
}

var dialectRegistry = map[DialectName]Dialect{
	DialectSQLite:    newSQLiteDialect(),
	DialectMySQL:     newMySQLDialect(),
	DialectPostgres:  newPostgresDialect(),
	DialectSQLServer: newSQLServerDialect(),
	DialectOracle:    newOracleDialect(),
	DialectDB2:       newDB2Dialect(),
}

// DialectFor returns the canonical, shared Dialect instance for name.
// It panics on an unknown name: dialects are a closed set fixed at
// compile time, unlike directive names which are data.
func DialectFor(name DialectName) Dialect {
	d, ok := dialectRegistry[name]
	if !ok {
		panic(fmt.Sprintf("sqltemplate: unknown dialect %q", name))
	}
	return d
}

// QualifyIdentifier quotes a possibly schema-qualified identifier
// ("schema.table") by quoting each dot-separated segment.
func QualifyIdentifier(d Dialect, name string) string {
	segs := splitDot(name)
	for i, s := range segs {
		segs[i] = d.QuoteIdentifier(s)
	}
	return joinDot(segs)
}

func splitDot(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

func joinDot(segs []string) string {
	out := segs[0]
	for _, s := range segs[1:] {
		out += "." + s
	}
	return out
}
