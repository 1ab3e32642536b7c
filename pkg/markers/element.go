package markers

import "strings"

// ValueKind classifies how an attribute value was written in markup.
type ValueKind int

const (
	// ValueNone is a bare attribute such as `data-cms-required`.
	ValueNone ValueKind = iota
	// ValueString is a quoted string or a static string expression.
	ValueString
	// ValueLiteral is a static non-string expression (`{true}`, `{12}`).
	ValueLiteral
	// ValueExpression is any dynamic expression; its value is unknown.
	ValueExpression
)

// Attribute is a single attribute on an opening tag.
type Attribute struct {
	Name  string
	Value string
	Kind  ValueKind
}

// Static reports whether the attribute value is known at scan time.
func (a Attribute) Static() bool {
	return a.Kind == ValueString || a.Kind == ValueLiteral
}

// Element is the parser-neutral view of an opening tag that the extractor
// inspects. Parsers fill Children and Text so the extractor can decide
// whether the element wraps exactly one static text child.
type Element struct {
	Tag         string
	Attributes  []Attribute
	SelfClosing bool
	Line        int
	Column      int
	// Children counts direct child nodes (elements, expressions, non-blank
	// text runs).
	Children int
	// Text holds the text of the only child when that child is static text.
	Text *string
}

// Attr returns the first attribute whose name matches (case-insensitively).
func (e Element) Attr(name string) (Attribute, bool) {
	for _, attr := range e.Attributes {
		if strings.EqualFold(attr.Name, name) {
			return attr, true
		}
	}
	return Attribute{}, false
}
