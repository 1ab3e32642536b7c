package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-contentschema/pkg/schema"
)

// ExtensionKey carries editor hints that have no JSON schema equivalent.
const ExtensionKey = "x-cms"

// fieldSchema maps a field to its JSON schema. Structured kinds use the same
// value shapes as the generated TypeScript declarations.
func fieldSchema(field schema.FieldSchema) *openapi3.Schema {
	var out *openapi3.Schema
	switch field.Type {
	case schema.FieldTypeNumber, schema.FieldTypeRange:
		out = openapi3.NewFloat64Schema()
		if field.Min != nil {
			out.WithMin(*field.Min)
		}
		if field.Max != nil {
			out.WithMax(*field.Max)
		}
		if field.Step != nil && *field.Step > 0 {
			step := *field.Step
			out.MultipleOf = &step
		}
	case schema.FieldTypeBoolean:
		out = openapi3.NewBoolSchema()
	case schema.FieldTypeSelect, schema.FieldTypeRadio:
		out = withChoices(openapi3.NewStringSchema(), field.Options)
	case schema.FieldTypeMultiSelect:
		out = openapi3.NewArraySchema().WithItems(withChoices(openapi3.NewStringSchema(), field.Options))
	case schema.FieldTypeEmail:
		out = openapi3.NewStringSchema().WithFormat("email")
	case schema.FieldTypeURL:
		out = openapi3.NewStringSchema().WithFormat("uri")
	case schema.FieldTypeDate:
		out = openapi3.NewStringSchema().WithFormat("date")
	case schema.FieldTypeDateTime:
		out = openapi3.NewDateTimeSchema()
	case schema.FieldTypeTime:
		out = openapi3.NewStringSchema().WithFormat("time")
	case schema.FieldTypeImage:
		out = imageValue()
	case schema.FieldTypeGallery:
		out = openapi3.NewArraySchema().WithItems(imageValue())
	case schema.FieldTypeFile:
		out = openapi3.NewObjectSchema().
			WithProperty("url", openapi3.NewStringSchema()).
			WithProperty("name", openapi3.NewStringSchema()).
			WithProperty("size", openapi3.NewFloat64Schema()).
			WithProperty("mimeType", openapi3.NewStringSchema())
		out.Required = []string{"url"}
	case schema.FieldTypeLink:
		out = openapi3.NewObjectSchema().
			WithProperty("href", openapi3.NewStringSchema()).
			WithProperty("text", openapi3.NewStringSchema()).
			WithProperty("target", openapi3.NewStringSchema())
		out.Required = []string{"href"}
	case schema.FieldTypeMap:
		out = openapi3.NewObjectSchema().
			WithProperty("lat", openapi3.NewFloat64Schema()).
			WithProperty("lng", openapi3.NewFloat64Schema()).
			WithProperty("zoom", openapi3.NewFloat64Schema()).
			WithProperty("address", openapi3.NewStringSchema())
		out.Required = []string{"lat", "lng"}
	case schema.FieldTypeRichText:
		out = openapi3.NewObjectSchema().
			WithProperty("html", openapi3.NewStringSchema()).
			WithProperty("json", openapi3.NewSchema())
		out.Required = []string{"html"}
	default:
		out = openapi3.NewStringSchema()
		if field.DefaultValue != nil {
			out.Default = *field.DefaultValue
		}
	}

	out.Title = field.Label
	out.Description = schema.PlainText(field.Help)
	out.ReadOnly = field.Readonly != nil && *field.Readonly
	out.Extensions = map[string]any{ExtensionKey: editorHints(field)}
	return out
}

func editorHints(field schema.FieldSchema) map[string]any {
	hints := map[string]any{"type": string(field.Type)}
	if field.Placeholder != "" {
		hints["placeholder"] = field.Placeholder
	}
	if field.Condition != "" {
		hints["condition"] = field.Condition
	}
	if field.Validation != "" {
		hints["validation"] = field.Validation
	}
	if field.Accept != "" {
		hints["accept"] = field.Accept
	}
	if field.Rows != nil {
		hints["rows"] = *field.Rows
	}
	if field.Width != nil {
		hints["width"] = *field.Width
	}
	if field.Hidden != nil && *field.Hidden {
		hints["hidden"] = true
	}
	return hints
}

func withChoices(out *openapi3.Schema, options string) *openapi3.Schema {
	choices := schema.ParseOptions(options)
	if len(choices) == 0 {
		return out
	}
	values := make([]any, 0, len(choices))
	for _, choice := range choices {
		values = append(values, choice.Value)
	}
	return out.WithEnum(values...)
}

func imageValue() *openapi3.Schema {
	out := openapi3.NewObjectSchema().
		WithProperty("src", openapi3.NewStringSchema()).
		WithProperty("alt", openapi3.NewStringSchema()).
		WithProperty("width", openapi3.NewFloat64Schema()).
		WithProperty("height", openapi3.NewFloat64Schema())
	out.Required = []string{"src"}
	return out
}
