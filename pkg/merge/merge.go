package merge

import "github.com/goliatone/go-contentschema/pkg/schema"

// Deduplicate keeps only the first occurrence of every normalised path, in
// input order. Later occurrences are dropped wholesale even when they carry
// richer attributes. Retained fields have their path normalised.
func Deduplicate(fields []schema.DetectedField) []schema.DetectedField {
	seen := make(map[string]struct{}, len(fields))
	out := make([]schema.DetectedField, 0, len(fields))
	for _, field := range fields {
		path := Normalize(field.Path)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		field.Path = path
		out = append(out, field)
	}
	return out
}

// Merge folds every detection of a normalised path into one record. Each
// optional property is taken from the first occurrence that defines it,
// independently per property, while provenance (file/line/column) and tag
// always come from the very first occurrence. Output order is the order in
// which paths were first seen.
func Merge(fields []schema.DetectedField) []schema.DetectedField {
	index := make(map[string]int, len(fields))
	out := make([]schema.DetectedField, 0, len(fields))
	for _, field := range fields {
		path := Normalize(field.Path)
		pos, ok := index[path]
		if !ok {
			index[path] = len(out)
			field.Path = path
			out = append(out, field)
			continue
		}
		target := &out[pos]
		mergeAttributes(&target.Attributes, field.Attributes)
		target.InnerText = first(target.InnerText, field.InnerText)
	}
	return out
}

func mergeAttributes(dst *schema.Attributes, src schema.Attributes) {
	dst.Type = first(dst.Type, src.Type)
	dst.Label = first(dst.Label, src.Label)
	dst.Placeholder = first(dst.Placeholder, src.Placeholder)
	dst.Required = first(dst.Required, src.Required)
	dst.Validation = first(dst.Validation, src.Validation)
	dst.Options = first(dst.Options, src.Options)
	dst.Condition = first(dst.Condition, src.Condition)
	dst.Min = first(dst.Min, src.Min)
	dst.Max = first(dst.Max, src.Max)
	dst.Step = first(dst.Step, src.Step)
	dst.Accept = first(dst.Accept, src.Accept)
	dst.Multiple = first(dst.Multiple, src.Multiple)
	dst.Rows = first(dst.Rows, src.Rows)
	dst.Width = first(dst.Width, src.Width)
	dst.Readonly = first(dst.Readonly, src.Readonly)
	dst.Hidden = first(dst.Hidden, src.Hidden)
	dst.Help = first(dst.Help, src.Help)
}

func first[T any](current, candidate *T) *T {
	if current != nil {
		return current
	}
	return candidate
}
