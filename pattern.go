package msgformat

import (
	"strconv"
	"strings"
)

type nodeKind int

const (
	nodeText nodeKind = iota
	nodeArg
	nodeHash
)

type argType int

const (
	argNone argType = iota
	argNumber
	argDate
	argTime
	argPlural
	argOrdinal
	argSelect
)

type node struct {
	kind nodeKind
	text string
	arg  *argument
}

type argument struct {
	name     string
	index    int // positional index, -1 when named
	typ      argType
	style    string
	offset   float64
	branches []branch
}

type branch struct {
	selector string
	exact    bool
	value    float64
	nodes    []node
}

func (a *argument) branchFor(selector string) *branch {
	for i := range a.branches {
		if !a.branches[i].exact && a.branches[i].selector == selector {
			return &a.branches[i]
		}
	}
	return nil
}

func (a *argument) exactBranch(n float64) *branch {
	for i := range a.branches {
		if a.branches[i].exact && a.branches[i].value == n {
			return &a.branches[i]
		}
	}
	return nil
}

// parser walks an ICU MessageFormat pattern and produces a node tree.
type parser struct {
	src string
	pos int
}

func parsePattern(pattern string) ([]node, error) {
	p := &parser{src: pattern}

	nodes, err := p.parseMessage(false, 0)
	if err != nil {
		return nil, err
	}

	if p.pos < len(p.src) {
		return nil, patternErr(pattern, p.pos, "unexpected %q", p.src[p.pos])
	}
	return nodes, nil
}

// parseMessage consumes message text until EOF or, at depth > 0, the '}'
// closing the enclosing branch. inPlural marks '#' as a placeholder for the
// nearest plural operand.
func (p *parser) parseMessage(inPlural bool, depth int) ([]node, error) {
	var nodes []node
	var text strings.Builder

	flush := func() {
		if text.Len() > 0 {
			nodes = append(nodes, node{kind: nodeText, text: text.String()})
			text.Reset()
		}
	}

	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		switch {
		case ch == '\'':
			p.scanQuoted(&text)
		case ch == '{':
			flush()
			arg, err := p.parseArgument(inPlural)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node{kind: nodeArg, arg: arg})
		case ch == '}':
			if depth > 0 {
				flush()
				return nodes, nil
			}
			// unmatched '}' outside an argument is plain text
			text.WriteByte('}')
			p.pos++
		case ch == '#' && inPlural:
			flush()
			nodes = append(nodes, node{kind: nodeHash})
			p.pos++
		default:
			text.WriteByte(ch)
			p.pos++
		}
	}

	if depth > 0 {
		return nil, patternErr(p.src, len(p.src), "unclosed branch")
	}

	flush()
	return nodes, nil
}

// scanQuoted handles ICU quoting: '' is a literal quote, a quote before a
// syntax character opens a quoted span (auto-closed at end of pattern), and
// any other quote is literal text.
func (p *parser) scanQuoted(text *strings.Builder) {
	p.pos++ // opening quote

	if p.pos >= len(p.src) {
		text.WriteByte('\'')
		return
	}

	next := p.src[p.pos]
	if next == '\'' {
		text.WriteByte('\'')
		p.pos++
		return
	}

	if next != '{' && next != '}' && next != '#' {
		text.WriteByte('\'')
		return
	}

	for p.pos < len(p.src) {
		ch := p.src[p.pos]
		if ch == '\'' {
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '\'' {
				text.WriteByte('\'')
				p.pos += 2
				continue
			}
			p.pos++
			return
		}
		text.WriteByte(ch)
		p.pos++
	}
}

func (p *parser) parseArgument(inPlural bool) (*argument, error) {
	start := p.pos
	p.pos++ // '{'
	p.skipSpace()

	name := p.scanWord(",}")
	if name == "" {
		return nil, patternErr(p.src, start, "missing argument name")
	}
	if !validArgName(name) {
		return nil, patternErr(p.src, start, "bad argument name %q", name)
	}

	arg := &argument{name: name, index: -1}
	if isDigits(name) {
		index, err := strconv.Atoi(name)
		if err != nil {
			return nil, patternErr(p.src, start, "bad argument index %q", name)
		}
		arg.index = index
	}

	p.skipSpace()
	if p.consume('}') {
		return arg, nil
	}
	if !p.consume(',') {
		return nil, patternErr(p.src, start, "unclosed argument")
	}

	p.skipSpace()
	typeName := p.scanWord(",}")
	switch typeName {
	case "number":
		arg.typ = argNumber
	case "date":
		arg.typ = argDate
	case "time":
		arg.typ = argTime
	case "plural":
		arg.typ = argPlural
	case "selectordinal":
		arg.typ = argOrdinal
	case "select":
		arg.typ = argSelect
	default:
		return nil, patternErr(p.src, start, "unknown argument type %q", typeName)
	}

	p.skipSpace()
	if p.consume('}') {
		switch arg.typ {
		case argPlural, argOrdinal, argSelect:
			return nil, patternErr(p.src, start, "%s argument needs branches", typeName)
		}
		return arg, nil
	}
	if !p.consume(',') {
		return nil, patternErr(p.src, start, "unclosed argument")
	}

	switch arg.typ {
	case argNumber, argDate, argTime:
		if err := p.parseStyle(arg, start); err != nil {
			return nil, err
		}
	default:
		if err := p.parseBranches(arg, inPlural, start); err != nil {
			return nil, err
		}
	}

	return arg, nil
}

var numberStyles = map[string]bool{"integer": true, "percent": true, "currency": true}
var dateTimeStyles = map[string]bool{"short": true, "medium": true, "long": true, "full": true}

func (p *parser) parseStyle(arg *argument, start int) error {
	p.skipSpace()
	style := strings.TrimSpace(p.scanWord("}"))
	if !p.consume('}') {
		return patternErr(p.src, start, "unclosed argument")
	}

	switch arg.typ {
	case argNumber:
		if style != "" && !numberStyles[style] {
			return patternErr(p.src, start, "unknown number style %q", style)
		}
	default:
		if style != "" && !dateTimeStyles[style] {
			return patternErr(p.src, start, "unknown %s style %q", typeKeyword(arg.typ), style)
		}
	}

	arg.style = style
	return nil
}

var pluralKeywords = map[string]bool{
	"zero": true, "one": true, "two": true, "few": true, "many": true, "other": true,
}

func (p *parser) parseBranches(arg *argument, inPlural bool, start int) error {
	pluralish := arg.typ == argPlural || arg.typ == argOrdinal

	p.skipSpace()
	if pluralish && strings.HasPrefix(p.src[p.pos:], "offset:") {
		p.pos += len("offset:")
		raw := p.scanWord(" \t\r\n{}")
		offset, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return patternErr(p.src, start, "bad plural offset %q", raw)
		}
		arg.offset = offset
		p.skipSpace()
	}

	for {
		p.skipSpace()
		if p.consume('}') {
			break
		}
		if p.pos >= len(p.src) {
			return patternErr(p.src, start, "unclosed argument")
		}

		selector := p.scanWord(" \t\r\n{}")
		if selector == "" {
			return patternErr(p.src, p.pos, "missing branch selector")
		}

		b := branch{selector: selector}
		if strings.HasPrefix(selector, "=") {
			if !pluralish {
				return patternErr(p.src, start, "exact selector %q in select", selector)
			}
			value, err := strconv.ParseFloat(selector[1:], 64)
			if err != nil {
				return patternErr(p.src, start, "bad exact selector %q", selector)
			}
			b.exact = true
			b.value = value
		} else if pluralish && !pluralKeywords[selector] {
			return patternErr(p.src, start, "unknown plural category %q", selector)
		}

		p.skipSpace()
		if !p.consume('{') {
			return patternErr(p.src, p.pos, "missing branch body for %q", selector)
		}

		childInPlural := inPlural
		if pluralish {
			childInPlural = true
		}
		nodes, err := p.parseMessage(childInPlural, 1)
		if err != nil {
			return err
		}
		if !p.consume('}') {
			return patternErr(p.src, start, "unclosed branch %q", selector)
		}
		b.nodes = nodes

		arg.branches = append(arg.branches, b)
	}

	if arg.branchFor("other") == nil {
		return patternErr(p.src, start, "missing 'other' branch")
	}
	return nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) consume(ch byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

// scanWord reads up to (excluding) any byte in stop, trimming surrounding space.
func (p *parser) scanWord(stop string) string {
	begin := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(stop, rune(p.src[p.pos])) {
		p.pos++
	}
	return strings.TrimSpace(p.src[begin:p.pos])
}

func typeKeyword(typ argType) string {
	switch typ {
	case argNumber:
		return "number"
	case argDate:
		return "date"
	case argTime:
		return "time"
	case argPlural:
		return "plural"
	case argOrdinal:
		return "selectordinal"
	case argSelect:
		return "select"
	default:
		return "none"
	}
}

func validArgName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return name != ""
}

func isDigits(name string) bool {
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return name != ""
}
