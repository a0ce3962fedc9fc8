package sqltemplate

import (
	"fmt"
	"regexp"
	"strings"
)

// Precompiled scan patterns, reused from the same normalize-then-scan
// idiom as the teacher's query validator: strip comments and string
// literals before testing for dangerous keywords, so a keyword inside
// a quoted literal or a comment never trips the guard.
var (
	reGuardLineComments  = regexp.MustCompile(`--[^\n]*`)
	reGuardBlockComments = regexp.MustCompile(`/\*.*?\*/`)
	reGuardSingleQuotes  = regexp.MustCompile(`'[^']*'`)
	reGuardDoubleQuotes  = regexp.MustCompile(`"[^"]*"`)
)

// guardKeywordPatterns holds one \b-wrapped regexp per blocked keyword,
// like the teacher's containsKeyword cache but built once at package
// init, so concurrent Render calls only ever read it.
var guardKeywordPatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(blockedKeywords))
	for _, kw := range blockedKeywords {
		m[kw] = regexp.MustCompile(`\b` + kw + `\b`)
	}
	return m
}()

func guardContainsKeyword(sql, keyword string) bool {
	p, ok := guardKeywordPatterns[keyword]
	if !ok {
		p = regexp.MustCompile(`\b` + keyword + `\b`)
	}
	return p.MatchString(sql)
}

// Size and nesting caps, carried from the teacher's constant.go
// (MaxQueryLength, MaxParenthesesDepth) since a template engine that
// can be driven by an {{in}} expansion over an attacker-controlled
// slice needs the same DoS backstop a hand-written query validator
// does, even though nothing here ever executes the SQL it produces.
const (
	maxRenderedQueryLength = 100000
	maxParenthesesDepth    = 64
)

// blockedKeywords are rejected outright wherever they appear as whole
// words outside a string literal or comment. Unlike the teacher's
// allow-list validator (SELECT/WITH only), this engine must also pass
// legitimate INSERT/UPDATE/DELETE statements built by {{values}}/
// {{set}}, so the guard is narrowed to a conservative blocklist per
// the package design: statement-stacking and schema/privilege/DDL
// commands a template should never legitimately emit.
var blockedKeywords = []string{
	"UNION", "DROP", "TRUNCATE", "ALTER", "CREATE", "RENAME",
	"EXEC", "EXECUTE", "SP_EXECUTESQL", "XP_CMDSHELL",
	"GRANT", "REVOKE", "DENY",
	"SHUTDOWN", "RECONFIGURE", "DBCC", "KILL",
	"BACKUP", "RESTORE",
}

// checkInjection runs the conservative blocklist scan over rendered
// SQL: it rejects unbalanced quoting, stray statement-separating
// semicolons, unbalanced or over-deep parentheses, and "--" or "/*"
// comment markers outside string literals; it then strips comments and
// string literals and rejects blocked keywords. It never inspects
// unrendered template text (directives, with their "--option" tokens,
// are already gone by the time Render calls it).
func checkInjection(sql string) error {
	if len(sql) > maxRenderedQueryLength {
		return newSecurityError(sql, fmt.Sprintf("rendered query exceeds %d bytes", maxRenderedQueryLength), -1)
	}
	if err := checkBalancedQuotes(sql); err != nil {
		return err
	}
	if err := checkStraySemicolon(sql); err != nil {
		return err
	}
	if err := checkParenthesesDepth(sql); err != nil {
		return err
	}
	unquoted := reGuardSingleQuotes.ReplaceAllString(sql, "''")
	unquoted = reGuardDoubleQuotes.ReplaceAllString(unquoted, `""`)
	if strings.Contains(unquoted, "--") || strings.Contains(unquoted, "/*") {
		return newSecurityError(sql, "SQL comment marker is not allowed", -1)
	}

	normalized := strings.ToUpper(sql)
	normalized = reGuardLineComments.ReplaceAllString(normalized, " ")
	normalized = reGuardBlockComments.ReplaceAllString(normalized, " ")
	withoutLiterals := reGuardSingleQuotes.ReplaceAllString(normalized, "''")
	withoutLiterals = reGuardDoubleQuotes.ReplaceAllString(withoutLiterals, `""`)

	for _, kw := range blockedKeywords {
		if guardContainsKeyword(withoutLiterals, kw) {
			return newSecurityError(sql, fmt.Sprintf("disallowed keyword %q", kw), strings.Index(normalized, kw))
		}
	}
	return nil
}

// checkStraySemicolon rejects any semicolon that isn't the final,
// trailing character of the statement (ignoring trailing
// whitespace) and isn't inside a quoted string — the
// stacked-query signature the teacher's validator also rejects.
func checkStraySemicolon(sql string) error {
	inString := false
	var quote byte
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		if inString {
			if c == quote {
				inString = false
			}
			continue
		}
		if c == '\'' || c == '"' {
			inString = true
			quote = c
			continue
		}
		if c == ';' {
			if i < len(sql)-1 && strings.TrimSpace(sql[i+1:]) != "" {
				return newSecurityError(sql, "statement-separating semicolon is not allowed", i)
			}
		}
	}
	return nil
}

// checkBalancedQuotes rejects SQL with an odd number of un-escaped
// quote characters of either kind, which would otherwise let a
// directive's resolved value open a literal that swallows the rest
// of the statement.
func checkBalancedQuotes(sql string) error {
	single, double := 0, 0
	for i := 0; i < len(sql); i++ {
		switch sql[i] {
		case '\'':
			single++
		case '"':
			double++
		}
	}
	if single%2 != 0 {
		return newSecurityError(sql, "unbalanced single quotes", -1)
	}
	if double%2 != 0 {
		return newSecurityError(sql, "unbalanced double quotes", -1)
	}
	return nil
}

// checkParenthesesDepth rejects unbalanced parentheses outright and
// caps nesting depth, the same DoS guard the teacher's validator
// applies before it ever reaches a live connection.
func checkParenthesesDepth(sql string) error {
	depth, maxDepth := 0, 0
	for i := 0; i < len(sql); i++ {
		switch sql[i] {
		case '(':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case ')':
			depth--
		}
	}
	if depth != 0 {
		return newSecurityError(sql, "unbalanced parentheses", -1)
	}
	if maxDepth > maxParenthesesDepth {
		return newSecurityError(sql, fmt.Sprintf("parentheses nested beyond %d levels", maxParenthesesDepth), -1)
	}
	return nil
}
