package validation_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-contentschema/pkg/generator"
	"github.com/goliatone/go-contentschema/pkg/schema"
	"github.com/goliatone/go-contentschema/pkg/validation"
)

func TestValidate_GeneratedSchemaIsClean(t *testing.T) {
	kind := "image"
	s := generator.Generate([]schema.DetectedField{
		{Path: "home.hero.title"},
		{Path: "home.hero.image", Attributes: schema.Attributes{Type: &kind}},
		{Path: "home.features.*.title"},
		{Path: "footer"},
	}, generator.Options{})

	if warnings := validation.Validate(s); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", warnings)
	}
}

func TestValidate_ReportsMismatchedSlugs(t *testing.T) {
	s := schema.ProjectSchema{
		Pages: []schema.PageSchema{
			{
				Slug: "home",
				Sections: []schema.SectionSchema{
					{
						Slug: "hero",
						Fields: []schema.FieldSchema{
							{Path: "about.hero.title", Type: schema.FieldTypeText},
							{Path: "home.footer.note", Type: schema.FieldTypeText},
						},
					},
				},
			},
		},
	}

	warnings := validation.Validate(s)
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[0], `"home"`) || !strings.Contains(warnings[0], `"about"`) {
		t.Fatalf("page mismatch warning should name both slugs: %s", warnings[0])
	}
	if !strings.Contains(warnings[1], `"hero"`) || !strings.Contains(warnings[1], `"footer"`) {
		t.Fatalf("section mismatch warning should name both slugs: %s", warnings[1])
	}
}

func TestValidate_EmptySlugsAndDuplicates(t *testing.T) {
	width := 40.0
	s := schema.ProjectSchema{
		Pages: []schema.PageSchema{
			{
				Slug: "",
				Sections: []schema.SectionSchema{
					{Slug: ""},
				},
			},
			{
				Slug: "home",
				Sections: []schema.SectionSchema{
					{
						Slug: "hero",
						Fields: []schema.FieldSchema{
							{Path: "home.hero.title", Type: "fancy"},
							{Path: "home.hero.title", Type: schema.FieldTypeText, Width: &width},
						},
					},
				},
			},
		},
	}

	warnings := validation.Validate(s)
	joined := strings.Join(warnings, "\n")
	for _, want := range []string{"page 0 has an empty slug", "section 0 has an empty slug", "appears more than once", `unknown type "fancy"`, "outside 1-12"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected warning containing %q in:\n%s", want, joined)
		}
	}
}

func TestValidate_Conditions(t *testing.T) {
	cond := func(rule string) schema.Attributes { return schema.Attributes{Condition: &rule} }
	s := generator.Generate([]schema.DetectedField{
		{Path: "home.hero.showCta"},
		{Path: "home.hero.cta", Attributes: cond("showCta == true")},
		{Path: "home.hero.badge", Attributes: cond("home.hero.showCta && hero.cta != ''")},
		{Path: "home.hero.note", Attributes: cond("hero.missing")},
		{Path: "home.hero.broken", Attributes: cond("showCta = true")},
	}, generator.Options{})

	warnings := validation.Validate(s)
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[0], `"home.hero.note" condition references unknown field "hero.missing"`) {
		t.Fatalf("unexpected unknown reference warning: %s", warnings[0])
	}
	if !strings.Contains(warnings[1], `"home.hero.broken" has an invalid condition`) {
		t.Fatalf("unexpected invalid condition warning: %s", warnings[1])
	}
}

func TestValidate_FieldsSharingAMember(t *testing.T) {
	link := "link"
	s := generator.Generate([]schema.DetectedField{
		{Path: "home.list.title"},
		{Path: "home.list.*.title"},
		{Path: "home.hero.cta", Attributes: schema.Attributes{Type: &link}},
		{Path: "home.hero.cta.label"},
	}, generator.Options{})

	warnings := validation.Validate(s)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], `"home.list.title" and "home.list._.title" map to the same member`) {
		t.Fatalf("unexpected warning: %s", warnings[0])
	}
}
