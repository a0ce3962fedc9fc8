package sqltemplate

import "regexp"

// reValidIdentifier allow-lists the character set an unquoted
// identifier coming from template text (table/column/parameter names
// in directive options) may use before it is ever embedded in SQL —
// an allow-list check ahead of the injection guard's post-render
// blocklist scan, not a replacement for it.
var reValidIdentifier = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// isValidIdentifier reports whether name is safe to splice into a
// quoted SQL identifier or a parameter marker.
func isValidIdentifier(name string) bool {
	if name == "" || len(name) >= 128 {
		return false
	}
	return reValidIdentifier.MatchString(name)
}

// validateIdentifier is the error-producing form used by directive
// handlers: it reports an ArgumentError naming the offending
// directive when name fails isValidIdentifier.
func validateIdentifier(directive, name string) error {
	if !isValidIdentifier(name) {
		return newArgumentError(directive, "invalid identifier: "+name)
	}
	return nil
}
