package sqltemplate

import "strings"

type nodeKind int

const (
	nodeText nodeKind = iota
	nodeDirective
	nodeBlock
)

// node is one element of a parsed template: either a literal run of
// SQL text, a self-closing directive ("{{columns}}"), or a block
// directive with nested content ("{{if ...}}...{{/if}}",
// "{{where}}...{{/where}}").
type node struct {
	kind     nodeKind
	text     string // nodeText literal content
	name     string // directive name, lowercased
	raw      string // directive text as written, for error messages
	optText  string // unparsed option text, used by if/where condition parsing
	opts     *directiveOptions
	children []*node
	pos      int // byte offset of the opening "{{" in the source
}

// blockDirectives names the directives that open a nested region and
// require a matching "{{/name}}" close tag.
var blockDirectives = map[string]bool{
	"if":    true,
	"where": true,
}

// parseTemplate splits src into a flat list of nodes, recursing into
// block directives. It mirrors the regexp-scan-then-recurse shape the
// corpus uses for "{{...}}"/"{:name}" placeholder grammars, widened
// here to a full open/close directive grammar.
func parseTemplate(src string) ([]*node, error) {
	nodes, rest, err := parseUntil(src, 0, "")
	if err != nil {
		return nil, err
	}
	if rest != len(src) {
		return nil, newParseError("", rest, "unexpected closing directive")
	}
	return nodes, nil
}

// parseUntil parses nodes starting at byte offset pos until it either
// exhausts src or encounters a closing tag matching closeName (when
// closeName != ""). It returns the parsed nodes and the offset just
// past the consumed closing tag (or len(src) if none was required).
func parseUntil(src string, pos int, closeName string) ([]*node, int, error) {
	var nodes []*node
	for pos < len(src) {
		open := strings.Index(src[pos:], "{{")
		if open < 0 {
			nodes = append(nodes, &node{kind: nodeText, text: src[pos:], pos: pos})
			pos = len(src)
			break
		}
		open += pos
		if open > pos {
			nodes = append(nodes, &node{kind: nodeText, text: src[pos:open], pos: pos})
		}
		closeIdx := strings.Index(src[open:], "}}")
		if closeIdx < 0 {
			return nil, 0, newParseError(src[open:], open, "unterminated directive: missing }}")
		}
		closeIdx += open
		inner := strings.TrimSpace(src[open+2 : closeIdx])
		raw := src[open : closeIdx+2]
		nextPos := closeIdx + 2

		if strings.HasPrefix(inner, "/") {
			name := strings.ToLower(strings.TrimSpace(inner[1:]))
			if closeName == "" {
				return nil, 0, newParseError(raw, open, "unmatched closing directive")
			}
			if name != closeName {
				return nil, 0, newParseError(raw, open, "mismatched closing directive: expected /"+closeName)
			}
			return nodes, nextPos, nil
		}

		name, optText := splitDirectiveName(inner)
		lname := strings.ToLower(name)

		if blockDirectives[lname] {
			children, after, err := parseUntil(src, nextPos, lname)
			if err != nil {
				return nil, 0, err
			}
			nodes = append(nodes, &node{
				kind:     nodeBlock,
				name:     lname,
				raw:      raw,
				optText:  optText,
				opts:     parseOptions(optText),
				children: children,
				pos:      open,
			})
			pos = after
			continue
		}

		nodes = append(nodes, &node{
			kind:    nodeDirective,
			name:    lname,
			raw:     raw,
			optText: optText,
			opts:    parseOptions(optText),
			pos:     open,
		})
		pos = nextPos
	}

	if closeName != "" {
		return nil, 0, newParseError("{{"+closeName+"}}", pos, "unterminated block: missing {{/"+closeName+"}}")
	}
	return nodes, pos, nil
}

func splitDirectiveName(inner string) (name, optText string) {
	i := strings.IndexAny(inner, " \t")
	if i < 0 {
		return inner, ""
	}
	return inner[:i], strings.TrimSpace(inner[i:])
}
