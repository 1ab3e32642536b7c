package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-contentschema/pkg/condition"
	"github.com/goliatone/go-contentschema/pkg/markers"
	"github.com/goliatone/go-contentschema/pkg/merge"
	"github.com/goliatone/go-contentschema/pkg/schema"
)

// Validate checks the structural invariants of a schema and returns one
// human readable warning per problem. It never fails: callers decide whether
// warnings are fatal.
func Validate(s schema.ProjectSchema) []string {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	seen := make(map[string]struct{})
	var conditional []scopedField
	for pi, page := range s.Pages {
		if strings.TrimSpace(page.Slug) == "" {
			warn("page %d has an empty slug", pi)
		}
		for si, section := range page.Sections {
			if strings.TrimSpace(section.Slug) == "" {
				warn("page %q section %d has an empty slug", page.Slug, si)
			}
			for _, field := range section.Fields {
				checkField(field, page.Slug, section.Slug, seen, warn)
				if strings.TrimSpace(field.Condition) != "" {
					conditional = append(conditional, scopedField{field: field, page: page.Slug, section: section.Slug})
				}
			}
			for _, c := range schema.Collisions(section) {
				warn("fields %q and %q map to the same member", c.Owner, c.Path)
			}
		}
	}
	for _, scoped := range conditional {
		checkCondition(scoped, seen, warn)
	}
	return warnings
}

type scopedField struct {
	field   schema.FieldSchema
	page    string
	section string
}

// checkCondition reports conditions that do not parse or that read a path
// absent from the schema. References resolve as absolute paths first, then
// relative to the field's section and page.
func checkCondition(scoped scopedField, paths map[string]struct{}, warn func(string, ...any)) {
	expr, err := condition.Parse(scoped.field.Condition)
	if err != nil {
		warn("field %q has an invalid condition: %v", scoped.field.Path, err)
		return
	}
	for _, ref := range expr.Fields() {
		normalized := merge.Normalize(ref)
		candidates := []string{
			normalized,
			scoped.page + "." + scoped.section + "." + normalized,
			scoped.page + "." + normalized,
		}
		found := false
		for _, candidate := range candidates {
			if _, ok := paths[candidate]; ok {
				found = true
				break
			}
		}
		if !found {
			warn("field %q condition references unknown field %q", scoped.field.Path, ref)
		}
	}
}

func checkField(field schema.FieldSchema, pageSlug, sectionSlug string, seen map[string]struct{}, warn func(string, ...any)) {
	if _, dup := seen[field.Path]; dup {
		warn("field %q appears more than once", field.Path)
	}
	seen[field.Path] = struct{}{}

	segments := merge.Segments(field.Path)
	if segments[0] != pageSlug {
		warn("field %q belongs to page %q but its path starts with %q", field.Path, pageSlug, segments[0])
	}
	if len(segments) > 1 && segments[1] != sectionSlug {
		warn("field %q belongs to section %q but its second segment is %q", field.Path, sectionSlug, segments[1])
	}
	if field.Type != "" && !field.Type.Known() {
		warn("field %q uses unknown type %q", field.Path, field.Type)
	}
	if field.Width != nil && (*field.Width < markers.MinWidth || *field.Width > markers.MaxWidth) {
		warn("field %q width %g is outside %d-%d", field.Path, *field.Width, markers.MinWidth, markers.MaxWidth)
	}
}
