package sqltemplate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ExprNode is one node of an expression AST. build converts the node
// into a SQL fragment and records every parameter it introduces in the
// exprBuilder, numbering them p0, p1, ... in left-to-right visit order — the
// same "Build(dialect) (string, args)" shape the corpus's expression
// builders use, generalized here to named rather than positional
// binding since most of this engine's target dialects use named
// markers.
type ExprNode interface {
	build(d Dialect, b *exprBuilder) (string, error)
}

// exprBuilder accumulates parameters while walking an ExprNode tree.
type exprBuilder struct {
	params map[string]any
	next   int
}

func newExprBuilder() *exprBuilder {
	return &exprBuilder{params: map[string]any{}}
}

func (b *exprBuilder) bind(v any) string {
	name := "p" + strconv.Itoa(b.next)
	b.next++
	b.params[name] = v
	return name
}

// ExpressionBlockResult is the public result of translating an
// expression: the rendered SQL fragment and the parameter values it
// bound, keyed by the p0, p1, ... names embedded in the fragment's
// parameter markers.
type ExpressionBlockResult struct {
	SQLFragment string
	Parameters  map[string]any
}

// BuildExpression walks root and renders it against dialect d,
// producing a fragment with dialect-correct parameter markers and the
// values those markers are bound to.
func BuildExpression(d Dialect, root ExprNode) (ExpressionBlockResult, error) {
	b := newExprBuilder()
	sql, err := root.build(d, b)
	if err != nil {
		return ExpressionBlockResult{}, err
	}
	return ExpressionBlockResult{SQLFragment: sql, Parameters: b.params}, nil
}

// Member references a column by its host-language property name; it
// is translated to the dialect-quoted, snake_cased SQL identifier. A
// Boolean member is a bare predicate ("if active", "if !active") on a
// column whose SQL type isn't a native boolean on every dialect, so it
// translates to an explicit "col = <true>" comparison instead of the
// column reference alone.
type Member struct {
	Property string
	Boolean  bool
}

func (m Member) build(d Dialect, _ *exprBuilder) (string, error) {
	col := d.QuoteIdentifier(ToSnakeCase(m.Property))
	if m.Boolean {
		return col + " = " + d.BooleanLiteral(true), nil
	}
	return col, nil
}

// Constant is a literal value bound as a parameter rather than
// inlined, so every Constant in an expression becomes a marker plus a
// parameter binding — never a literal in the SQL text, which is what
// keeps expression-translated values safe from injection regardless
// of what the injection guard later catches.
type Constant struct {
	Value any
}

func (c Constant) build(d Dialect, b *exprBuilder) (string, error) {
	name := b.bind(c.Value)
	return d.ParameterMarker(name), nil
}

// BinaryOp enumerates the binary operators Binary supports.
type BinaryOp int

const (
	OpEq BinaryOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpLike
	OpConcat
)

var binaryOpSQL = map[BinaryOp]string{
	OpEq: "=", OpNe: "<>", OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "AND", OpOr: "OR", OpLike: "LIKE",
}

// Binary is a two-operand expression: comparisons, boolean
// conjunction/disjunction, LIKE, and string concatenation.
type Binary struct {
	Op    BinaryOp
	Left  ExprNode
	Right ExprNode
}

func (e Binary) build(d Dialect, b *exprBuilder) (string, error) {
	left, err := e.Left.build(d, b)
	if err != nil {
		return "", err
	}
	right, err := e.Right.build(d, b)
	if err != nil {
		return "", err
	}
	if e.Op == OpConcat {
		if d.UsesConcatFunction() {
			return d.TranslateFunc(FuncConcat) + "(" + left + ", " + right + ")", nil
		}
		return left + " " + d.ConcatOperator() + " " + right, nil
	}
	op, ok := binaryOpSQL[e.Op]
	if !ok {
		return "", newTranslationError("Binary:unknown-op")
	}
	if e.Op == OpAnd || e.Op == OpOr {
		return "(" + left + " " + op + " " + right + ")", nil
	}
	return left + " " + op + " " + right, nil
}

// UnaryOp enumerates the unary operators Unary supports.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpIsNull
	OpIsNotNull
)

// Unary is a single-operand expression: negation or null testing.
type Unary struct {
	Op      UnaryOp
	Operand ExprNode
}

func (e Unary) build(d Dialect, b *exprBuilder) (string, error) {
	operand, err := e.Operand.build(d, b)
	if err != nil {
		return "", err
	}
	switch e.Op {
	case OpNot:
		return "NOT (" + operand + ")", nil
	case OpIsNull:
		return operand + " IS NULL", nil
	case OpIsNotNull:
		return operand + " IS NOT NULL", nil
	default:
		return "", newTranslationError("Unary:unknown-op")
	}
}

// Call translates a canonical function invocation, dispatching to the
// dialect's spelling of fn and translating every argument first —
// grounded on func_expressions.go's per-function dialect-conditional
// Build methods (ConcatExp, GreatestLeastExp), generalized into one
// node kind parameterized by CanonicalFunc instead of one struct type
// per function.
type Call struct {
	Func CanonicalFunc
	Args []ExprNode
}

func (e Call) build(d Dialect, b *exprBuilder) (string, error) {
	if e.Func == FuncConcat {
		if len(e.Args) == 0 {
			return "", newTranslationError("Call:concat-no-args")
		}
		if d.UsesConcatFunction() {
			parts := make([]string, len(e.Args))
			for i, a := range e.Args {
				s, err := a.build(d, b)
				if err != nil {
					return "", err
				}
				parts[i] = s
			}
			return d.TranslateFunc(FuncConcat) + "(" + strings.Join(parts, ", ") + ")", nil
		}
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			s, err := a.build(d, b)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, " "+d.ConcatOperator()+" "), nil
	}

	if e.Func == FuncGreatest && d.Name() == DialectSQLite {
		// SQLite has no GREATEST; MAX(...) is the multi-argument
		// equivalent when called with more than one column.
		parts := make([]string, len(e.Args))
		for i, a := range e.Args {
			s, err := a.build(d, b)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return "MAX(" + strings.Join(parts, ", ") + ")", nil
	}

	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		s, err := a.build(d, b)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return d.TranslateFunc(e.Func) + "(" + strings.Join(parts, ", ") + ")", nil
}

// InList translates "member IN (values...)"; an empty Values list
// translates to the always-false "1=0" rather than emitting invalid
// empty parentheses.
type InList struct {
	Member ExprNode
	Values []ExprNode
}

func (e InList) build(d Dialect, b *exprBuilder) (string, error) {
	if len(e.Values) == 0 {
		return "1=0", nil
	}
	left, err := e.Member.build(d, b)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(e.Values))
	for i, v := range e.Values {
		s, err := v.build(d, b)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return left + " IN (" + strings.Join(parts, ", ") + ")", nil
}

// NewObject translates a map of property -> value-expression into a
// sorted "col = val AND col2 = val2 ..." conjunction, grounded on
// HashExp's sorted-keys-for-determinism Build method.
type NewObject struct {
	Fields map[string]ExprNode
}

func (e NewObject) build(d Dialect, b *exprBuilder) (string, error) {
	if len(e.Fields) == 0 {
		return "", newTranslationError("NewObject:empty")
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		valSQL, err := e.Fields[k].build(d, b)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s = %s", d.QuoteIdentifier(ToSnakeCase(k)), valSQL))
	}
	return strings.Join(parts, " AND "), nil
}
