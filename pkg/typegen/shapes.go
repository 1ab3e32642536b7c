package typegen

import "github.com/goliatone/go-contentschema/pkg/schema"

// valueShape is a structured value type emitted once per document.
type valueShape struct {
	name    string
	members []string
}

var valueShapes = []valueShape{
	{name: "ImageValue", members: []string{"src: string;", "alt?: string;", "width?: number;", "height?: number;"}},
	{name: "FileValue", members: []string{"url: string;", "name?: string;", "size?: number;", "mimeType?: string;"}},
	{name: "LinkValue", members: []string{"href: string;", "text?: string;", "target?: string;"}},
	{name: "MapValue", members: []string{"lat: number;", "lng: number;", "zoom?: number;", "address?: string;"}},
	{name: "RichTextValue", members: []string{"html: string;", "json?: unknown;"}},
}

// fieldShape maps a field kind to its TypeScript shape and, for structured
// kinds, the shared value type it references. Unmapped kinds are strings.
func fieldShape(kind schema.FieldType) (string, string) {
	switch kind {
	case schema.FieldTypeNumber, schema.FieldTypeRange:
		return "number", ""
	case schema.FieldTypeBoolean:
		return "boolean", ""
	case schema.FieldTypeMultiSelect:
		return "string[]", ""
	case schema.FieldTypeImage:
		return "ImageValue", "ImageValue"
	case schema.FieldTypeGallery:
		return "ImageValue[]", "ImageValue"
	case schema.FieldTypeFile:
		return "FileValue", "FileValue"
	case schema.FieldTypeLink:
		return "LinkValue", "LinkValue"
	case schema.FieldTypeMap:
		return "MapValue", "MapValue"
	case schema.FieldTypeRichText:
		return "RichTextValue", "RichTextValue"
	default:
		// text, textarea, email, url, tel, color, slug, markdown, select,
		// radio, date, datetime, time and unknown kinds.
		return "string", ""
	}
}
