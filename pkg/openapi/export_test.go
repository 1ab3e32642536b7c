package openapi_test

import (
	"context"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contentschema/pkg/generator"
	"github.com/goliatone/go-contentschema/pkg/openapi"
	"github.com/goliatone/go-contentschema/pkg/schema"
	"github.com/goliatone/go-contentschema/pkg/testsupport"
)

func str(s string) *string { return &s }

func boolean(b bool) *bool { return &b }

func num(f float64) *float64 { return &f }

func sample() schema.ProjectSchema {
	return generator.Generate([]schema.DetectedField{
		{Path: "home.hero.title", Attributes: schema.Attributes{Required: boolean(true), Help: str("Shown <em>above</em> the fold")}, InnerText: str("Welcome")},
		{Path: "home.hero.image", Attributes: schema.Attributes{Type: str("image"), Condition: str("hero.title"), Width: num(6)}},
		{Path: "home.hero.cta.href", Attributes: schema.Attributes{Type: str("url"), Readonly: boolean(true)}},
		{Path: "home.features.*.title"},
		{Path: "home.features.*.rating", Attributes: schema.Attributes{Type: str("range"), Min: num(1), Max: num(5), Step: num(0.5)}},
		{Path: "pricing.plans.tier", Attributes: schema.Attributes{Type: str("select"), Options: str("basic, pro:Professional")}},
		{Path: "pricing.plans.addons", Attributes: schema.Attributes{Type: str("multiselect"), Options: str("cdn,backup")}},
	}, generator.Options{Now: testsupport.Now})
}

func mustExport(t *testing.T, s schema.ProjectSchema, opts ...openapi.Option) *openapi3.T {
	t.Helper()
	doc, err := openapi.Export(s, opts...)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	return doc
}

func property(t *testing.T, s *openapi3.Schema, names ...string) *openapi3.Schema {
	t.Helper()
	cur := s
	for _, name := range names {
		if cur.Items != nil {
			cur = cur.Items.Value
		}
		ref, ok := cur.Properties[name]
		if !ok || ref.Value == nil {
			t.Fatalf("missing property %s in %v", name, names)
		}
		cur = ref.Value
	}
	return cur
}

func TestExport_ComponentsPerPage(t *testing.T) {
	doc := mustExport(t, sample(), openapi.WithTitle("Site content"))

	if doc.OpenAPI != openapi.Version || doc.Info.Title != "Site content" || doc.Info.Version != schema.Version {
		t.Fatalf("unexpected header %s %+v", doc.OpenAPI, doc.Info)
	}

	var names []string
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	if len(names) != 2 || doc.Components.Schemas["Home"] == nil || doc.Components.Schemas["Pricing"] == nil {
		t.Fatalf("expected Home and Pricing components, got %v", names)
	}

	home := doc.Components.Schemas["Home"].Value
	if diff := cmp.Diff([]string{"hero"}, home.Required); diff != "" {
		t.Fatalf("page required mismatch (-want +got):\n%s", diff)
	}
	hero := property(t, home, "hero")
	if diff := cmp.Diff([]string{"title"}, hero.Required); diff != "" {
		t.Fatalf("section required mismatch (-want +got):\n%s", diff)
	}

	features := property(t, home, "features")
	if !features.Type.Is(openapi3.TypeArray) {
		t.Fatalf("expected repeater section to be an array, got %v", features.Type)
	}
}

func TestExport_FieldConstraints(t *testing.T) {
	home := mustExport(t, sample()).Components.Schemas["Home"].Value

	title := property(t, home, "hero", "title")
	if title.Description != "Shown above the fold" {
		t.Fatalf("expected plain-text description, got %q", title.Description)
	}
	if title.Default != "Welcome" {
		t.Fatalf("expected inner text default, got %v", title.Default)
	}

	image := property(t, home, "hero", "image")
	if !image.Type.Is(openapi3.TypeObject) || image.Properties["src"] == nil {
		t.Fatalf("expected image value shape, got %+v", image)
	}
	wantHints := map[string]any{"type": "image", "condition": "hero.title", "width": 6.0}
	if diff := cmp.Diff(wantHints, image.Extensions[openapi.ExtensionKey]); diff != "" {
		t.Fatalf("editor hints mismatch (-want +got):\n%s", diff)
	}

	href := property(t, home, "hero", "cta", "href")
	if href.Format != "uri" || !href.ReadOnly {
		t.Fatalf("expected readonly uri, got format=%q readonly=%v", href.Format, href.ReadOnly)
	}

	rating := property(t, home, "features", "rating")
	if rating.Min == nil || *rating.Min != 1 || rating.Max == nil || *rating.Max != 5 {
		t.Fatalf("expected bounds 1..5, got %v..%v", rating.Min, rating.Max)
	}
	if rating.MultipleOf == nil || *rating.MultipleOf != 0.5 {
		t.Fatalf("expected multipleOf 0.5, got %v", rating.MultipleOf)
	}

	pricing := mustExport(t, sample()).Components.Schemas["Pricing"].Value
	tier := property(t, pricing, "plans", "tier")
	if diff := cmp.Diff([]any{"basic", "pro"}, tier.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
	addons := property(t, pricing, "plans", "addons")
	if !addons.Type.Is(openapi3.TypeArray) || addons.Items == nil {
		t.Fatalf("expected multiselect array, got %+v", addons)
	}
	if diff := cmp.Diff([]any{"cdn", "backup"}, addons.Items.Value.Enum); diff != "" {
		t.Fatalf("item enum mismatch (-want +got):\n%s", diff)
	}
}

func TestExport_Paths(t *testing.T) {
	doc := mustExport(t, sample(), openapi.WithBasePath("/api/content"))

	item := doc.Paths.Value("/api/content/home")
	if item == nil || item.Get == nil || item.Put == nil {
		t.Fatalf("expected GET and PUT on /api/content/home, got %+v", item)
	}
	if item.Get.OperationID != "getHome" || item.Put.OperationID != "putHome" {
		t.Fatalf("unexpected operation ids %s %s", item.Get.OperationID, item.Put.OperationID)
	}
	ok := item.Get.Responses.Status(200)
	if ok == nil || ok.Value.Content.Get("application/json") == nil {
		t.Fatalf("expected JSON 200 response")
	}
	if ref := ok.Value.Content.Get("application/json").Schema.Ref; ref != "#/components/schemas/Home" {
		t.Fatalf("expected component reference, got %q", ref)
	}
	if item.Put.RequestBody == nil || !item.Put.RequestBody.Value.Required {
		t.Fatalf("expected required request body")
	}
}

func TestMarshalAndLoad(t *testing.T) {
	payload, err := openapi.Marshal(mustExport(t, sample()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(payload), `"openapi": "3.0.3"`) {
		t.Fatalf("expected indented openapi header, got:\n%s", payload)
	}

	doc, err := openapi.Load(context.Background(), payload)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Paths.Value("/content/pricing") == nil {
		t.Fatalf("expected pricing path after reload")
	}
	if doc.Components.Schemas["Pricing"] == nil {
		t.Fatalf("expected Pricing component after reload")
	}

	if _, err := openapi.Load(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
}

func TestExport_ComponentNameCollision(t *testing.T) {
	s := schema.ProjectSchema{Pages: []schema.PageSchema{{Slug: "1st", Name: "First"}, {Slug: "_1st", Name: "Other"}}}
	if _, err := openapi.Export(s); err == nil || !strings.Contains(err.Error(), "both map to component") {
		t.Fatalf("expected collision error, got %v", err)
	}
}

func TestExport_Empty(t *testing.T) {
	doc := mustExport(t, schema.ProjectSchema{})
	if doc.Paths.Len() != 0 || len(doc.Components.Schemas) != 0 {
		t.Fatalf("expected empty document")
	}
	if doc.Info.Version != schema.Version {
		t.Fatalf("expected fallback version, got %q", doc.Info.Version)
	}
}

func TestExport_FieldKeepsSchemaUnderNestedFields(t *testing.T) {
	s := generator.Generate([]schema.DetectedField{
		{Path: "home.hero.cta", Attributes: schema.Attributes{Type: str("link")}},
		{Path: "home.hero.cta.label", Attributes: schema.Attributes{Required: boolean(true)}},
	}, generator.Options{Now: testsupport.Now})

	doc := mustExport(t, s)
	hero := property(t, doc.Components.Schemas["Home"].Value, "hero")
	if diff := cmp.Diff([]string{"cta"}, hero.Required); diff != "" {
		t.Fatalf("section required mismatch (-want +got):\n%s", diff)
	}

	cta := property(t, hero, "cta")
	if cta.Title != "Cta" || len(cta.AllOf) != 2 {
		t.Fatalf("expected titled allOf of two schemas, got %q with %d", cta.Title, len(cta.AllOf))
	}
	link := cta.AllOf[0].Value
	if _, ok := link.Properties["href"]; !ok {
		t.Fatalf("first allOf entry should be the link value: %+v", link.Properties)
	}
	nested := cta.AllOf[1].Value
	if _, ok := nested.Properties["label"]; !ok {
		t.Fatalf("second allOf entry should hold nested fields: %+v", nested.Properties)
	}
	if diff := cmp.Diff([]string{"label"}, nested.Required); diff != "" {
		t.Fatalf("nested required mismatch (-want +got):\n%s", diff)
	}
}
