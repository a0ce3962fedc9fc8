package sqltemplate

import "strings"

// directiveOptions holds the parsed "--flag value..." tokens that
// follow a directive name. Repeated flags (e.g. multiple --exclude)
// accumulate; a flag with no following value token (e.g. --desc) is
// recorded with an empty values slice and is tested with Has.
type directiveOptions struct {
	values map[string][]string
}

func newDirectiveOptions() *directiveOptions {
	return &directiveOptions{values: make(map[string][]string)}
}

// parseOptions splits a directive's option text (everything after the
// directive name, still inside the braces) into flag/value groups.
// Values are whitespace-separated tokens; a value itself containing a
// comma is further split on "," for list-shaped options like
// --exclude a,b,c.
func parseOptions(text string) *directiveOptions {
	opts := newDirectiveOptions()
	fields := strings.Fields(text)
	var current string
	for _, f := range fields {
		if strings.HasPrefix(f, "--") {
			current = strings.TrimPrefix(f, "--")
			if _, ok := opts.values[current]; !ok {
				opts.values[current] = nil
			}
			continue
		}
		if current == "" {
			opts.values[""] = append(opts.values[""], f)
			continue
		}
		for _, part := range strings.Split(f, ",") {
			if part == "" {
				continue
			}
			opts.values[current] = append(opts.values[current], part)
		}
	}
	return opts
}

// Has reports whether flag appeared at all, regardless of whether it
// carried values (covers flag-only options like --desc/--asc).
func (o *directiveOptions) Has(flag string) bool {
	_, ok := o.values[flag]
	return ok
}

// Values returns every value token collected for flag, in the order
// given in the template text.
func (o *directiveOptions) Values(flag string) []string {
	return o.values[flag]
}

// Value returns the first value token for flag, or "" if the flag was
// absent or carried no values.
func (o *directiveOptions) Value(flag string) string {
	vs := o.values[flag]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// Positional returns the bare tokens that appeared before any "--flag"
// was seen, e.g. the NAME in "{{var NAME}}".
func (o *directiveOptions) Positional() []string {
	return o.values[""]
}

// PositionalValue returns the first positional token, or "".
func (o *directiveOptions) PositionalValue() string {
	vs := o.values[""]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
