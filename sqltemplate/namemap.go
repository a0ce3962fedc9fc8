package sqltemplate

import "strings"

// ToSnakeCase converts a PascalCase/camelCase host identifier into the
// snake_case form used for emitted SQL identifiers. Nil/empty input is
// not an error for the empty string itself but a nil *string passed at
// the public boundary (NewColumnMeta callers building from reflection)
// must be checked by the caller; ToSnakeCase itself only ever sees a
// string value and returns "" for "".
//
// Consecutive uppercase letters are treated as a single acronym run.
// When an acronym run is immediately followed by a lowercase letter,
// the run's last character starts the next word (XMLParser ->
// xml_parser). When an acronym run instead runs to the end of the
// string, or directly into another uppercase run, it is left
// unsplit (HTTPSURLPath -> httpsurl_path) — the source corpus's
// observed behavior, preserved here rather than "corrected" to a
// word-segmented scheme (see DESIGN.md Open Question).
func ToSnakeCase(name string) string {
	if name == "" {
		return ""
	}
	runes := []rune(name)
	if isAllUpper(runes) {
		return snakeEveryLetter(runes)
	}
	var b strings.Builder
	b.Grow(len(name) + 4)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper {
			r = r - 'A' + 'a'
		}
		if i > 0 && isUpperRune(runes[i]) {
			prevUpper := isUpperRune(runes[i-1])
			if !prevUpper {
				b.WriteByte('_')
			} else if i+1 < len(runes) && !isUpperRune(runes[i+1]) && !isDigitRune(runes[i+1]) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUpperRune(r rune) bool { return r >= 'A' && r <= 'Z' }
func isDigitRune(r rune) bool { return r >= '0' && r <= '9' }

// isAllUpper reports whether every letter in runes is uppercase (a
// name with no lowercase letters at all, digits/underscores aside).
// USERNAME matches this and is handled by the per-letter quirk below
// instead of the acronym-run rule; XMLParser does not (it has
// lowercase letters) and falls through to the ordinary rule.
func isAllUpper(runes []rune) bool {
	sawLetter := false
	for _, r := range runes {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if isUpperRune(r) {
			sawLetter = true
		}
	}
	return sawLetter
}

// snakeEveryLetter implements the all-uppercase quirk: USERNAME ->
// u_s_e_r_n_a_m_e. Every letter becomes its own word; this diverges
// from a "just lowercase it" treatment deliberately, matching the
// source corpus's observed behavior for fully-uppercase identifiers
// rather than a more conventional single-word fold.
func snakeEveryLetter(runes []rune) string {
	var b strings.Builder
	b.Grow(len(runes)*2 - 1)
	for i, r := range runes {
		if i > 0 && !isDigitRune(r) {
			b.WriteByte('_')
		}
		if isUpperRune(r) {
			r = r - 'A' + 'a'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// MapName is the checked, public entry point for the name mapper: it
// reports ArgumentError naming "parameterName" on an empty identifier
// rather than silently returning "", since an empty property name can
// never be an intentional caller input.
func MapName(name string) (string, error) {
	if name == "" {
		return "", newArgumentError("parameterName", "identifier must not be empty")
	}
	return ToSnakeCase(name), nil
}
