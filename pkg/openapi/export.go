package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-contentschema/pkg/schema"
)

// Version is the OpenAPI version emitted by Export.
const Version = "3.0.3"

const (
	defaultTitle    = "Content API"
	defaultBasePath = "/content"
)

// Option customises Export.
type Option func(*config)

type config struct {
	title    string
	version  string
	basePath string
}

// WithTitle sets info.title.
func WithTitle(title string) Option {
	return func(c *config) {
		if title != "" {
			c.title = title
		}
	}
}

// WithVersion sets info.version. It defaults to the schema version.
func WithVersion(version string) Option {
	return func(c *config) {
		if version != "" {
			c.version = version
		}
	}
}

// WithBasePath sets the path prefix of the page operations.
func WithBasePath(prefix string) Option {
	return func(c *config) {
		if prefix != "" {
			c.basePath = prefix
		}
	}
}

// Export builds an OpenAPI document for the content API of s and validates
// it before returning.
func Export(s schema.ProjectSchema, options ...Option) (*openapi3.T, error) {
	cfg := config{title: defaultTitle, version: s.Version, basePath: defaultBasePath}
	if cfg.version == "" {
		cfg.version = schema.Version
	}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:   cfg.title,
			Version: cfg.version,
		},
		Components: &openapi3.Components{Schemas: openapi3.Schemas{}},
		Paths:      openapi3.NewPaths(),
	}

	owners := map[string]string{}
	for _, page := range s.Pages {
		name := schema.PascalCase(page.Slug)
		if name == "" {
			return nil, fmt.Errorf("openapi: page %q has no usable component name", page.Slug)
		}
		if other, ok := owners[name]; ok {
			return nil, fmt.Errorf("openapi: pages %q and %q both map to component %s", other, page.Slug, name)
		}
		owners[name] = page.Slug

		body := pageSchema(page)
		doc.Components.Schemas[name] = openapi3.NewSchemaRef("", body)
		ref := openapi3.NewSchemaRef("#/components/schemas/"+name, body)
		doc.Paths.Set(cfg.basePath+"/"+page.Slug, pageItem(page, name, ref))
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

// Marshal renders doc as indented JSON.
func Marshal(doc *openapi3.T) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("openapi: document is nil")
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal: %w", err)
	}
	return payload, nil
}

func pageItem(page schema.PageSchema, name string, ref *openapi3.SchemaRef) *openapi3.PathItem {
	get := openapi3.NewOperation()
	get.OperationID = "get" + name
	get.Summary = "Read " + page.Name + " content"
	get.Tags = []string{page.Slug}
	get.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription(page.Name + " content").WithJSONSchemaRef(ref),
		}),
		openapi3.WithStatus(404, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("No content stored for " + page.Name),
		}),
	)

	put := openapi3.NewOperation()
	put.OperationID = "put" + name
	put.Summary = "Replace " + page.Name + " content"
	put.Tags = []string{page.Slug}
	put.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref),
	}
	put.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Stored " + page.Name + " content").WithJSONSchemaRef(ref),
		}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Content does not match the schema"),
		}),
	)

	return &openapi3.PathItem{Get: get, Put: put}
}

func pageSchema(page schema.PageSchema) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	out.Title = page.Name
	for _, section := range page.Sections {
		tree := schema.Members(section)
		body := objectSchema(tree)
		body.Title = section.Name
		if section.IsRepeater {
			list := openapi3.NewArraySchema().WithItems(body)
			list.Title = section.Name
			out.WithProperty(section.Slug, list)
		} else {
			out.WithProperty(section.Slug, body)
		}
		if tree.Required() {
			out.Required = append(out.Required, section.Slug)
		}
	}
	return out
}

// memberSchema renders one member of the section tree. A field that other
// fields nest under becomes the allOf of its own schema and their object.
func memberSchema(m *schema.Member) *openapi3.Schema {
	switch {
	case m.Field == nil:
		return objectSchema(m)
	case len(m.Children) == 0:
		return fieldSchema(*m.Field)
	}
	own := fieldSchema(*m.Field)
	out := openapi3.NewAllOfSchema(own, objectSchema(m))
	out.Title = own.Title
	return out
}

func objectSchema(m *schema.Member) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	for _, child := range m.Children {
		out.WithProperty(child.Name, memberSchema(child))
		if child.Required() {
			out.Required = append(out.Required, child.Name)
		}
	}
	return out
}
