package source

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-contentschema/pkg/markers"
)

// jsxParser is a minimal scanner for JSX-family sources. It does not build
// an AST: it skips script text (strings, comments, template literals and
// nested braces) and records every opening tag with its attributes, its
// position and a summary of its children.
type jsxParser struct {
	src      []byte
	pos      int
	line     int
	col      int
	elements []*markers.Element
}

type jsxMark struct {
	pos, line, col, elements int
}

var (
	jsxKeywords = map[string]bool{
		"return": true, "yield": true, "await": true, "default": true,
		"case": true, "else": true, "do": true, "in": true, "of": true,
	}
	regexKeywords = map[string]bool{
		"return": true, "typeof": true, "case": true, "do": true, "else": true,
		"in": true, "of": true, "void": true, "yield": true, "await": true,
		"delete": true, "instanceof": true, "new": true, "throw": true,
	}
	numberLiteral = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	rawTextTags   = map[string]bool{"script": true, "style": true}
)

func parseJSX(data []byte) ([]markers.Element, error) {
	p := &jsxParser{src: data, line: 1, col: 1}
	if err := p.script(false); err != nil {
		return nil, err
	}
	out := make([]markers.Element, len(p.elements))
	for i, el := range p.elements {
		out[i] = *el
	}
	return out, nil
}

func (p *jsxParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *jsxParser) peek(offset int) byte {
	i := p.pos + offset
	if i < 0 || i >= len(p.src) {
		return 0
	}
	return p.src[i]
}

// advance moves one byte forward. Columns count runes.
func (p *jsxParser) advance() {
	if p.eof() {
		return
	}
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
		p.col = 1
		return
	}
	if p.pos < len(p.src) && !utf8.RuneStart(p.src[p.pos]) {
		return
	}
	p.col++
}

func (p *jsxParser) mark() jsxMark {
	return jsxMark{pos: p.pos, line: p.line, col: p.col, elements: len(p.elements)}
}

func (p *jsxParser) reset(m jsxMark) {
	p.pos, p.line, p.col = m.pos, m.line, m.col
	p.elements = p.elements[:m.elements]
}

func (p *jsxParser) errorf(line, col int, format string, args ...any) error {
	return &ParseError{Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

// script skips JavaScript. When nested it stops after the brace closing the
// expression it was called for.
func (p *jsxParser) script(nested bool) error {
	line, col := p.line, p.col
	depth := 0
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '/' && p.peek(1) == '/':
			p.skipLineComment()
		case c == '/' && p.peek(1) == '*':
			if err := p.skipBlockComment(); err != nil {
				return err
			}
		case c == '/' && p.regexAhead():
			if !p.skipRegex() {
				p.advance()
			}
		case c == '"' || c == '\'':
			if err := p.skipString(c); err != nil {
				return err
			}
		case c == '`':
			if err := p.skipTemplate(); err != nil {
				return err
			}
		case c == '{':
			depth++
			p.advance()
		case c == '}':
			p.advance()
			if depth > 0 {
				depth--
				continue
			}
			if nested {
				return nil
			}
		case c == '<' && p.tagAhead():
			ok, err := p.element()
			if err != nil {
				return err
			}
			if !ok {
				p.advance()
			}
		default:
			p.advance()
		}
	}
	if nested {
		return p.errorf(line, col, "unterminated expression")
	}
	return nil
}

func (p *jsxParser) skipLineComment() {
	for !p.eof() && p.peek(0) != '\n' {
		p.advance()
	}
}

func (p *jsxParser) skipBlockComment() error {
	line, col := p.line, p.col
	p.advance()
	p.advance()
	for !p.eof() {
		if p.peek(0) == '*' && p.peek(1) == '/' {
			p.advance()
			p.advance()
			return nil
		}
		p.advance()
	}
	return p.errorf(line, col, "unterminated comment")
}

func (p *jsxParser) skipString(quote byte) error {
	line, col := p.line, p.col
	p.advance()
	for !p.eof() {
		switch p.peek(0) {
		case '\\':
			p.advance()
		case quote:
			p.advance()
			return nil
		case '\n':
			return p.errorf(line, col, "unterminated string")
		}
		p.advance()
	}
	return p.errorf(line, col, "unterminated string")
}

func (p *jsxParser) skipTemplate() error {
	line, col := p.line, p.col
	p.advance()
	for !p.eof() {
		switch {
		case p.peek(0) == '\\':
			p.advance()
		case p.peek(0) == '`':
			p.advance()
			return nil
		case p.peek(0) == '$' && p.peek(1) == '{':
			p.advance()
			p.advance()
			if err := p.script(true); err != nil {
				return err
			}
			continue
		}
		p.advance()
	}
	return p.errorf(line, col, "unterminated template literal")
}

// regexAhead decides whether the `/` at the cursor starts a regular
// expression literal rather than a division, looking at the previous token.
func (p *jsxParser) regexAhead() bool {
	i := p.pos - 1
	for i >= 0 && isSpace(p.src[i]) {
		i--
	}
	if i < 0 {
		return true
	}
	prev := p.src[i]
	if isIdentByte(prev) {
		end := i + 1
		for i >= 0 && isIdentByte(p.src[i]) {
			i--
		}
		return regexKeywords[string(p.src[i+1:end])]
	}
	return strings.IndexByte("([{,;:=?!&|+-*%~^<>", prev) >= 0
}

// skipRegex consumes a regular expression literal, honouring escapes and
// character classes. It reports false, leaving the cursor untouched, when
// the literal does not close on the same line.
func (p *jsxParser) skipRegex() bool {
	start := p.mark()
	p.advance()
	inClass := false
	for !p.eof() {
		switch p.peek(0) {
		case '\\':
			p.advance()
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				p.advance()
				return true
			}
		case '\n':
			p.reset(start)
			return false
		}
		p.advance()
	}
	p.reset(start)
	return false
}

// tagAhead decides whether the `<` at the cursor opens a tag rather than a
// comparison or a type argument list, looking at the previous token.
func (p *jsxParser) tagAhead() bool {
	next := p.peek(1)
	if next != '>' && !isNameStart(next) {
		return false
	}
	i := p.pos - 1
	for i >= 0 && isSpace(p.src[i]) {
		i--
	}
	if i < 0 {
		return true
	}
	prev := p.src[i]
	if isIdentByte(prev) {
		end := i + 1
		for i >= 0 && isIdentByte(p.src[i]) {
			i--
		}
		return jsxKeywords[string(p.src[i+1:end])]
	}
	return strings.IndexByte("([{},;:=?!&|>+-*/%~^", prev) >= 0
}

// element parses a tag starting at `<`. It reports false, and leaves the
// cursor untouched, when the text turns out not to be a tag.
func (p *jsxParser) element() (bool, error) {
	start := p.mark()
	line, col := p.line, p.col
	p.advance()
	if p.peek(0) == '>' {
		p.advance()
		return true, p.children(nil, "", line, col)
	}

	name := p.name()
	if name == "" {
		p.reset(start)
		return false, nil
	}
	el := &markers.Element{Tag: name, Line: line, Column: col}
	p.elements = append(p.elements, el)

	for {
		p.skipSpace()
		if p.eof() {
			return true, p.errorf(line, col, "unterminated <%s> tag", name)
		}
		switch c := p.peek(0); {
		case c == '/' && p.peek(1) == '>':
			p.advance()
			p.advance()
			el.SelfClosing = true
			return true, nil
		case c == '>':
			p.advance()
			return true, p.children(el, name, line, col)
		case c == '{':
			p.advance()
			if err := p.script(true); err != nil {
				return true, err
			}
		default:
			attr, ok, err := p.attribute()
			if err != nil {
				return true, err
			}
			// `<T extends U>` opens a generic parameter list in TSX.
			if !ok || len(el.Attributes) == 0 && attr.Name == "extends" {
				p.reset(start)
				return false, nil
			}
			el.Attributes = append(el.Attributes, attr)
		}
	}
}

func (p *jsxParser) attribute() (markers.Attribute, bool, error) {
	name := p.name()
	if name == "" {
		return markers.Attribute{}, false, nil
	}
	attr := markers.Attribute{Name: name, Kind: markers.ValueNone}
	p.skipSpace()
	if p.peek(0) != '=' {
		return attr, true, nil
	}
	p.advance()
	p.skipSpace()

	line, col := p.line, p.col
	switch c := p.peek(0); c {
	case '"', '\'':
		p.advance()
		start := p.pos
		for !p.eof() && p.peek(0) != c {
			p.advance()
		}
		if p.eof() {
			return attr, true, p.errorf(line, col, "unterminated value for %s", name)
		}
		attr.Value = html.UnescapeString(string(p.src[start:p.pos]))
		attr.Kind = markers.ValueString
		p.advance()
	case '{':
		p.advance()
		start := p.pos
		if err := p.script(true); err != nil {
			return attr, true, err
		}
		attr.Value, attr.Kind = classify(string(p.src[start : p.pos-1]))
	case '<':
		ok, err := p.element()
		if err != nil || !ok {
			return attr, ok, err
		}
		attr.Kind = markers.ValueExpression
	default:
		return attr, false, nil
	}
	return attr, true, nil
}

// children consumes element content up to and including the closing tag,
// then records the child summary on el. A nil el is a fragment.
func (p *jsxParser) children(el *markers.Element, name string, line, col int) error {
	if rawTextTags[strings.ToLower(name)] {
		idx := bytes.Index(p.src[p.pos:], []byte("</"+name))
		if idx < 0 {
			return p.errorf(line, col, "unclosed <%s>", name)
		}
		for end := p.pos + idx; p.pos < end; {
			p.advance()
		}
	}

	var (
		count  int
		text   *string
		static bool
		run    strings.Builder
	)
	// flush ends the current text child. Comments between two text runs do
	// not end it.
	flush := func() {
		raw := run.String()
		run.Reset()
		if t := jsxText(raw); t != "" {
			count++
			text = &t
			static = true
		}
	}

	for !p.eof() {
		switch c := p.peek(0); {
		case c == '<' && p.peek(1) == '/':
			flush()
			closeLine, closeCol := p.line, p.col
			p.advance()
			p.advance()
			p.skipSpace()
			closing := p.name()
			p.skipSpace()
			if p.peek(0) != '>' {
				return p.errorf(closeLine, closeCol, "malformed closing tag")
			}
			p.advance()
			if closing != name {
				return p.errorf(closeLine, closeCol, "expected </%s>, found </%s>", name, closing)
			}
			if el != nil {
				el.Children = count
				if count == 1 && static {
					el.Text = text
				}
			}
			return nil
		case c == '<' && bytes.HasPrefix(p.src[p.pos:], []byte("<!--")):
			idx := bytes.Index(p.src[p.pos:], []byte("-->"))
			if idx < 0 {
				return p.errorf(p.line, p.col, "unterminated comment")
			}
			for end := p.pos + idx + 3; p.pos < end; {
				p.advance()
			}
		case c == '<':
			ok, err := p.element()
			if err != nil {
				return err
			}
			if ok {
				flush()
				count++
				static = false
				continue
			}
			run.WriteString(p.textRun())
		case c == '{':
			p.advance()
			start := p.pos
			if err := p.script(true); err != nil {
				return err
			}
			if !onlyComments(string(p.src[start : p.pos-1])) {
				flush()
				count++
				static = false
			}
		default:
			run.WriteString(p.textRun())
		}
	}
	if name == "" {
		return p.errorf(line, col, "unclosed fragment")
	}
	return p.errorf(line, col, "unclosed <%s>", name)
}

// textRun consumes at least one byte and stops before the next tag or
// expression.
func (p *jsxParser) textRun() string {
	start := p.pos
	p.advance()
	for !p.eof() {
		c := p.peek(0)
		if c == '{' {
			break
		}
		if c == '<' {
			next := p.peek(1)
			if next == '/' || next == '>' || next == '!' || isNameStart(next) {
				break
			}
		}
		p.advance()
	}
	return string(p.src[start:p.pos])
}

func (p *jsxParser) name() string {
	if !isNameStart(p.peek(0)) {
		return ""
	}
	start := p.pos
	for !p.eof() && isNameByte(p.peek(0)) {
		p.advance()
	}
	return string(p.src[start:p.pos])
}

func (p *jsxParser) skipSpace() {
	for !p.eof() && isSpace(p.peek(0)) {
		p.advance()
	}
}

// jsxText applies the JSX whitespace rules: lines are trimmed, blank lines
// dropped and the rest joined by single spaces.
func jsxText(raw string) string {
	var parts []string
	for line := range strings.SplitSeq(raw, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			parts = append(parts, t)
		}
	}
	return html.UnescapeString(strings.Join(parts, " "))
}

// classify inspects the source of an attribute expression and reports the
// static value it evaluates to, if any.
func classify(raw string) (string, markers.ValueKind) {
	expr := strings.TrimSpace(raw)
	if expr == "" {
		return "", markers.ValueExpression
	}
	switch expr[0] {
	case '"', '\'', '`':
		if value, ok := stringLiteral(expr); ok {
			return value, markers.ValueString
		}
		return "", markers.ValueExpression
	}
	if expr == "true" || expr == "false" || expr == "null" || numberLiteral.MatchString(expr) {
		return expr, markers.ValueLiteral
	}
	return "", markers.ValueExpression
}

// stringLiteral decodes expr when it is exactly one string literal.
func stringLiteral(expr string) (string, bool) {
	quote := expr[0]
	if len(expr) < 2 || expr[len(expr)-1] != quote {
		return "", false
	}
	inner := expr[1 : len(expr)-1]
	for i := 0; i < len(inner); i++ {
		switch inner[i] {
		case '\\':
			i++
		case quote:
			return "", false
		}
	}

	switch quote {
	case '`':
		if strings.Contains(inner, "${") {
			return "", false
		}
		return strings.ReplaceAll(inner, "\\`", "`"), true
	case '\'':
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		inner = strings.ReplaceAll(inner, `\"`, `"`)
		inner = strings.ReplaceAll(inner, `"`, `\"`)
	}
	value, err := strconv.Unquote(`"` + inner + `"`)
	if err != nil {
		return "", false
	}
	return value, true
}

func onlyComments(raw string) bool {
	s := strings.TrimSpace(raw)
	for s != "" {
		switch {
		case strings.HasPrefix(s, "/*"):
			end := strings.Index(s[2:], "*/")
			if end < 0 {
				return false
			}
			s = strings.TrimSpace(s[end+4:])
		case strings.HasPrefix(s, "//"):
			_, rest, _ := strings.Cut(s, "\n")
			s = strings.TrimSpace(rest)
		default:
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
}

func isNameByte(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c == '-' || c == '.' || c == ':'
}

func isIdentByte(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c >= utf8.RuneSelf
}
