package condition

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Expression is a parsed condition. The zero value, and the result of
// parsing a blank rule, always evaluates to true.
type Expression struct {
	source string
	root   node
	fields []string
}

// Parse compiles rule.
func Parse(rule string) (*Expression, error) {
	rule = strings.TrimSpace(rule)
	expr := &Expression{source: rule}
	if rule == "" {
		return expr, nil
	}

	tokens, err := lex(rule)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.or()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, fmt.Errorf("condition: offset %d: unexpected %q", tok.pos, tok.text)
	}

	expr.root = root
	seen := map[string]struct{}{}
	for _, tok := range tokens {
		if tok.kind != tokenIdent || slices.Contains(p.literals, tok.pos) {
			continue
		}
		if _, ok := seen[tok.text]; !ok {
			seen[tok.text] = struct{}{}
			expr.fields = append(expr.fields, tok.text)
		}
	}
	slices.Sort(expr.fields)
	return expr, nil
}

// Evaluate parses and evaluates rule in one step.
func Evaluate(rule string, values map[string]any) (bool, error) {
	expr, err := Parse(rule)
	if err != nil {
		return false, err
	}
	return expr.Eval(values)
}

// String returns the trimmed source of the expression.
func (e *Expression) String() string {
	if e == nil {
		return ""
	}
	return e.source
}

// Fields lists the content paths the expression reads, sorted.
func (e *Expression) Fields() []string {
	if e == nil {
		return nil
	}
	return slices.Clone(e.fields)
}

// Eval evaluates the expression against content values. Values are looked
// up by exact dotted key first and then by walking nested maps.
func (e *Expression) Eval(values map[string]any) (bool, error) {
	if e == nil || e.root == nil {
		return true, nil
	}
	return e.root.eval(values)
}

type node interface {
	eval(values map[string]any) (bool, error)
}

type orNode struct{ left, right node }

func (n orNode) eval(values map[string]any) (bool, error) {
	ok, err := n.left.eval(values)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(values)
}

type andNode struct{ left, right node }

func (n andNode) eval(values map[string]any) (bool, error) {
	ok, err := n.left.eval(values)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(values)
}

type notNode struct{ inner node }

func (n notNode) eval(values map[string]any) (bool, error) {
	ok, err := n.inner.eval(values)
	return !ok, err
}

type truthyNode struct{ path string }

func (n truthyNode) eval(values map[string]any) (bool, error) {
	value, _ := lookup(values, n.path)
	return truthy(value), nil
}

type compareNode struct {
	path string
	op   tokenKind
	lit  token
}

func (n compareNode) eval(values map[string]any) (bool, error) {
	value, _ := lookup(values, n.path)

	switch n.lit.kind {
	case tokenNull:
		return n.equality(value == nil)
	case tokenBool:
		got, _ := asBool(value)
		return n.equality(got == (n.lit.text == "true"))
	case tokenNumber:
		want, _ := strconv.ParseFloat(n.lit.text, 64)
		got, ok := asNumber(value)
		if !ok {
			if n.op == tokenEq || n.op == tokenNeq {
				return n.equality(false)
			}
			return false, nil
		}
		switch n.op {
		case tokenLt:
			return got < want, nil
		case tokenLte:
			return got <= want, nil
		case tokenGt:
			return got > want, nil
		case tokenGte:
			return got >= want, nil
		}
		return n.equality(got == want)
	default:
		got := asString(value)
		switch n.op {
		case tokenLt:
			return got < n.lit.text, nil
		case tokenLte:
			return got <= n.lit.text, nil
		case tokenGt:
			return got > n.lit.text, nil
		case tokenGte:
			return got >= n.lit.text, nil
		}
		return n.equality(got == n.lit.text)
	}
}

func (n compareNode) equality(equal bool) (bool, error) {
	switch n.op {
	case tokenEq:
		return equal, nil
	case tokenNeq:
		return !equal, nil
	}
	return false, fmt.Errorf("condition: operator %s is not defined for %s", opText(n.op), n.lit.text)
}

func opText(kind tokenKind) string {
	for _, op := range operators {
		if op.kind == kind {
			return op.text
		}
	}
	return "?"
}

type parser struct {
	tokens []token
	pos    int

	// literals records offsets of identifiers used as bare string literals.
	literals []int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) accept(kinds ...tokenKind) (token, bool) {
	tok, ok := p.peek()
	if !ok || !slices.Contains(kinds, tok.kind) {
		return token{}, false
	}
	p.pos++
	return tok, true
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(tokenOr); !ok {
			return left, nil
		}
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(tokenAnd); !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
}

func (p *parser) unary() (node, error) {
	if _, ok := p.accept(tokenNot); ok {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if open, ok := p.accept(tokenLParen); ok {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if _, ok := p.accept(tokenRParen); !ok {
			return nil, fmt.Errorf("condition: offset %d: missing closing ')'", open.pos)
		}
		return inner, nil
	}

	ident, ok := p.accept(tokenIdent)
	if !ok {
		tok, more := p.peek()
		if !more {
			return nil, errors.New("condition: unexpected end of expression")
		}
		return nil, fmt.Errorf("condition: offset %d: expected field path, got %q", tok.pos, tok.text)
	}

	op, ok := p.accept(tokenEq, tokenNeq, tokenLt, tokenLte, tokenGt, tokenGte)
	if !ok {
		return truthyNode{path: ident.text}, nil
	}
	lit, ok := p.accept(tokenString, tokenNumber, tokenBool, tokenNull, tokenIdent)
	if !ok {
		return nil, fmt.Errorf("condition: offset %d: expected a value after %s", op.pos, op.text)
	}
	if lit.kind == tokenIdent {
		p.literals = append(p.literals, lit.pos)
		lit.kind = tokenString
	}
	return compareNode{path: ident.text, op: op.kind, lit: lit}, nil
}
