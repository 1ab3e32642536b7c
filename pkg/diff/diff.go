package diff

import (
	"github.com/goliatone/go-contentschema/pkg/schema"
)

// Properties lists the compared field properties in report order.
var Properties = []string{
	"type", "label", "placeholder", "required", "validation", "options",
	"condition", "help", "min", "max", "step", "accept", "multiple", "rows",
	"width", "readonly", "hidden",
}

var comparators = map[string]func(a, b schema.FieldSchema) bool{
	"type":        func(a, b schema.FieldSchema) bool { return a.Type == b.Type },
	"label":       func(a, b schema.FieldSchema) bool { return a.Label == b.Label },
	"placeholder": func(a, b schema.FieldSchema) bool { return a.Placeholder == b.Placeholder },
	"required":    func(a, b schema.FieldSchema) bool { return equalPtr(a.Required, b.Required) },
	"validation":  func(a, b schema.FieldSchema) bool { return a.Validation == b.Validation },
	"options":     func(a, b schema.FieldSchema) bool { return a.Options == b.Options },
	"condition":   func(a, b schema.FieldSchema) bool { return a.Condition == b.Condition },
	"help":        func(a, b schema.FieldSchema) bool { return a.Help == b.Help },
	"min":         func(a, b schema.FieldSchema) bool { return equalPtr(a.Min, b.Min) },
	"max":         func(a, b schema.FieldSchema) bool { return equalPtr(a.Max, b.Max) },
	"step":        func(a, b schema.FieldSchema) bool { return equalPtr(a.Step, b.Step) },
	"accept":      func(a, b schema.FieldSchema) bool { return a.Accept == b.Accept },
	"multiple":    func(a, b schema.FieldSchema) bool { return equalPtr(a.Multiple, b.Multiple) },
	"rows":        func(a, b schema.FieldSchema) bool { return equalPtr(a.Rows, b.Rows) },
	"width":       func(a, b schema.FieldSchema) bool { return equalPtr(a.Width, b.Width) },
	"readonly":    func(a, b schema.FieldSchema) bool { return equalPtr(a.Readonly, b.Readonly) },
	"hidden":      func(a, b schema.FieldSchema) bool { return equalPtr(a.Hidden, b.Hidden) },
}

// Compare reports fields added, removed and modified between two snapshots.
// A nil before means there is no prior snapshot: every field is added.
// Added and modified entries follow the order of after, removed entries the
// order of before. Provenance and ordering changes are not reported.
func Compare(before *schema.ProjectSchema, after schema.ProjectSchema) schema.SchemaDiff {
	out := schema.SchemaDiff{
		Added:    []schema.FieldSchema{},
		Removed:  []schema.FieldSchema{},
		Modified: []schema.FieldChange{},
	}

	afterFields := after.Fields()
	if before == nil {
		out.Added = append(out.Added, afterFields...)
		out.HasChanges = len(out.Added) > 0
		return out
	}

	beforeFields := before.Fields()
	beforeByPath := index(beforeFields)
	afterByPath := index(afterFields)

	for _, field := range afterFields {
		prev, ok := beforeByPath[field.Path]
		if !ok {
			out.Added = append(out.Added, field)
			continue
		}
		if changes := Changes(prev, field); len(changes) > 0 {
			out.Modified = append(out.Modified, schema.FieldChange{
				Path:    field.Path,
				Before:  prev,
				After:   field,
				Changes: changes,
			})
		}
	}
	for _, field := range beforeFields {
		if _, ok := afterByPath[field.Path]; !ok {
			out.Removed = append(out.Removed, field)
		}
	}

	out.HasChanges = len(out.Added) > 0 || len(out.Removed) > 0 || len(out.Modified) > 0
	return out
}

// Changes returns the names of the properties that differ between a and b,
// in Properties order.
func Changes(a, b schema.FieldSchema) []string {
	var changes []string
	for _, name := range Properties {
		if !comparators[name](a, b) {
			changes = append(changes, name)
		}
	}
	return changes
}

func index(fields []schema.FieldSchema) map[string]schema.FieldSchema {
	out := make(map[string]schema.FieldSchema, len(fields))
	for _, field := range fields {
		if _, ok := out[field.Path]; ok {
			continue
		}
		out[field.Path] = field
	}
	return out
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
