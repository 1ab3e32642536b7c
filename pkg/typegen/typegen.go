package typegen

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-contentschema/pkg/schema"
)

// DefaultRootName names the interface aggregating every page.
const DefaultRootName = "SiteContent"

const header = "// Code generated by go-contentschema. DO NOT EDIT.\n"

// Option customises the generated declarations.
type Option func(*config)

type config struct {
	comments bool
	rootName string
}

// WithComments toggles the doc comment emitted above every member.
// Comments are on by default.
func WithComments(enabled bool) Option {
	return func(c *config) {
		c.comments = enabled
	}
}

// WithRootName overrides DefaultRootName.
func WithRootName(name string) Option {
	return func(c *config) {
		if ident := schema.PascalCase(name); ident != "" {
			c.rootName = ident
		}
	}
}

// Generate renders TypeScript declarations describing the content shape of
// s: one interface per page with a member per section, one interface per
// section (repeater sections become arrays of an `Item` interface) and a
// root interface keyed by page slug. A field renders without `?` only when
// it is marked required.
func Generate(s schema.ProjectSchema, options ...Option) string {
	cfg := config{comments: true, rootName: DefaultRootName}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	g := &writer{cfg: cfg, used: map[string]bool{}}
	var body strings.Builder
	for _, page := range s.Pages {
		g.page(&body, page)
	}
	g.root(&body, s.Pages)

	var out strings.Builder
	out.WriteString(header)
	for _, shape := range valueShapes {
		if !g.used[shape.name] {
			continue
		}
		out.WriteString("\nexport interface " + shape.name + " {\n")
		for _, member := range shape.members {
			out.WriteString("  " + member + "\n")
		}
		out.WriteString("}\n")
	}
	out.WriteString(body.String())
	return out.String()
}

type writer struct {
	cfg  config
	used map[string]bool
}

func (g *writer) page(out *strings.Builder, page schema.PageSchema) {
	pageType := typeName(page.Slug, "Page")

	for _, section := range page.Sections {
		g.section(out, pageType, section)
	}

	out.WriteString("\nexport interface " + pageType + " {\n")
	for _, section := range page.Sections {
		g.comment(out, 1, section.Name)
		member := sectionTypeName(pageType, section)
		if section.IsRepeater {
			member += "[]"
		}
		out.WriteString("  " + memberName(section.Slug) + ": " + member + ";\n")
	}
	out.WriteString("}\n")
}

func (g *writer) section(out *strings.Builder, pageType string, section schema.SectionSchema) {
	out.WriteString("\nexport interface " + sectionTypeName(pageType, section) + " {\n")
	g.members(out, schema.Members(section), 1)
	out.WriteString("}\n")
}

func (g *writer) members(out *strings.Builder, m *schema.Member, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, child := range m.Children {
		name := memberName(child.Name) + optional(child.Required())
		if child.Field == nil {
			g.comment(out, depth, schema.Humanize(child.Name))
			out.WriteString(indent + name + ": {\n")
			g.members(out, child, depth+1)
			out.WriteString(indent + "};\n")
			continue
		}

		shape, ref := fieldShape(child.Field.Type)
		if ref != "" {
			g.used[ref] = true
		}
		g.comment(out, depth, child.Field.Label)
		if len(child.Children) == 0 {
			out.WriteString(indent + name + ": " + shape + ";\n")
			continue
		}
		// A field whose path prefixes other fields keeps its own shape.
		out.WriteString(indent + name + ": " + shape + " & {\n")
		g.members(out, child, depth+1)
		out.WriteString(indent + "};\n")
	}
}

func (g *writer) root(out *strings.Builder, pages []schema.PageSchema) {
	out.WriteString("\nexport interface " + g.cfg.rootName + " {\n")
	for _, page := range pages {
		g.comment(out, 1, page.Name)
		out.WriteString("  " + memberName(page.Slug) + ": " + typeName(page.Slug, "Page") + ";\n")
	}
	out.WriteString("}\n")
}

func (g *writer) comment(out *strings.Builder, depth int, name string) {
	if !g.cfg.comments {
		return
	}
	text := strings.ReplaceAll(schema.PlainText(name), "*/", "* /")
	if text == "" {
		return
	}
	out.WriteString(strings.Repeat("  ", depth) + "/** " + text + " */\n")
}

func typeName(slug, fallback string) string {
	if name := schema.PascalCase(slug); name != "" {
		return name
	}
	return fallback
}

func sectionTypeName(pageType string, section schema.SectionSchema) string {
	name := pageType + typeName(section.Slug, "Section")
	if section.IsRepeater {
		name += "Item"
	}
	return name
}

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func memberName(name string) string {
	if identPattern.MatchString(name) {
		return name
	}
	return strconv.Quote(name)
}

func optional(required bool) string {
	if required {
		return ""
	}
	return "?"
}
