package markers

import (
	"strings"

	"github.com/goliatone/go-contentschema/pkg/schema"
)

// DefaultMarker is the primary marker attribute. Secondary attributes use the
// marker followed by a dash and the property name (`data-cms-label`).
const DefaultMarker = "data-cms"

// Option customises an Extractor.
type Option func(*Extractor)

// WithMarker overrides the primary marker attribute name.
func WithMarker(name string) Option {
	return func(e *Extractor) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			e.marker = trimmed
		}
	}
}

// Extractor detects marked elements and parses their property bag.
type Extractor struct {
	marker string
}

// New constructs an Extractor using DefaultMarker unless overridden.
func New(options ...Option) *Extractor {
	e := &Extractor{marker: DefaultMarker}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Marker returns the primary marker attribute name.
func (e *Extractor) Marker() string {
	return e.marker
}

// Extraction is the result of a successful Extract call.
type Extraction struct {
	Path       string
	Attributes schema.Attributes
	InnerText  *string
}

// Detect reports whether el carries the primary marker with a non-empty
// string value. Secondary attributes alone never qualify.
func (e *Extractor) Detect(el Element) bool {
	_, ok := e.path(el)
	return ok
}

// Extract parses the marker path and the secondary attributes of el. It
// returns false when Detect would. Malformed secondary values are dropped
// individually and never prevent the extraction.
func (e *Extractor) Extract(el Element) (Extraction, bool) {
	path, ok := e.path(el)
	if !ok {
		return Extraction{}, false
	}

	prop := func(name string) (Attribute, bool) {
		return el.Attr(e.marker + "-" + name)
	}

	var attrs schema.Attributes
	attrs.Type = String(prop("type"))
	attrs.Label = String(prop("label"))
	attrs.Placeholder = String(prop("placeholder"))
	attrs.Validation = String(prop("validation"))
	attrs.Options = String(prop("options"))
	attrs.Condition = String(prop("condition"))
	attrs.Accept = String(prop("accept"))
	attrs.Help = String(prop("help"))

	attrs.Required = Bool(prop("required"))
	attrs.Multiple = Bool(prop("multiple"))
	attrs.Readonly = Bool(prop("readonly"))
	attrs.Hidden = Bool(prop("hidden"))

	attrs.Min = Number(prop("min"))
	attrs.Max = Number(prop("max"))
	attrs.Step = Number(prop("step"))
	attrs.Rows = Number(prop("rows"))
	attrs.Width = Width(prop("width"))

	return Extraction{
		Path:       path,
		Attributes: attrs,
		InnerText:  innerText(el),
	}, true
}

// Field converts a marked element into a DetectedField located in file.
func (e *Extractor) Field(file string, el Element) (schema.DetectedField, bool) {
	extraction, ok := e.Extract(el)
	if !ok {
		return schema.DetectedField{}, false
	}
	return schema.DetectedField{
		Path:       extraction.Path,
		Attributes: extraction.Attributes,
		Source:     schema.Location{File: file, Line: el.Line, Column: el.Column},
		InnerText:  extraction.InnerText,
		Tag:        el.Tag,
	}, true
}

func (e *Extractor) path(el Element) (string, bool) {
	attr, ok := el.Attr(e.marker)
	if !ok || attr.Kind != ValueString {
		return "", false
	}
	if strings.TrimSpace(attr.Value) == "" {
		return "", false
	}
	return attr.Value, true
}

func innerText(el Element) *string {
	if el.SelfClosing || el.Children != 1 || el.Text == nil {
		return nil
	}
	text := *el.Text
	return &text
}
