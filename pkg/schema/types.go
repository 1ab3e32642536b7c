package schema

import "time"

// Version identifies the layout of the persisted ProjectSchema document.
const Version = "1.0.0"

// FieldType is the enum of field kinds the admin editor knows how to render.
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeRichText    FieldType = "richtext"
	FieldTypeMarkdown    FieldType = "markdown"
	FieldTypeEmail       FieldType = "email"
	FieldTypeURL         FieldType = "url"
	FieldTypeTel         FieldType = "tel"
	FieldTypeColor       FieldType = "color"
	FieldTypeSlug        FieldType = "slug"
	FieldTypeNumber      FieldType = "number"
	FieldTypeRange       FieldType = "range"
	FieldTypeBoolean     FieldType = "boolean"
	FieldTypeSelect      FieldType = "select"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeMultiSelect FieldType = "multiselect"
	FieldTypeDate        FieldType = "date"
	FieldTypeDateTime    FieldType = "datetime"
	FieldTypeTime        FieldType = "time"
	FieldTypeImage       FieldType = "image"
	FieldTypeFile        FieldType = "file"
	FieldTypeGallery     FieldType = "gallery"
	FieldTypeLink        FieldType = "link"
	FieldTypeMap         FieldType = "map"
)

// DefaultFieldType is applied when a marker does not declare a type.
const DefaultFieldType = FieldTypeText

var knownFieldTypes = map[FieldType]struct{}{
	FieldTypeText: {}, FieldTypeTextarea: {}, FieldTypeRichText: {}, FieldTypeMarkdown: {},
	FieldTypeEmail: {}, FieldTypeURL: {}, FieldTypeTel: {}, FieldTypeColor: {}, FieldTypeSlug: {},
	FieldTypeNumber: {}, FieldTypeRange: {}, FieldTypeBoolean: {}, FieldTypeSelect: {},
	FieldTypeRadio: {}, FieldTypeMultiSelect: {}, FieldTypeDate: {}, FieldTypeDateTime: {},
	FieldTypeTime: {}, FieldTypeImage: {}, FieldTypeFile: {}, FieldTypeGallery: {},
	FieldTypeLink: {}, FieldTypeMap: {},
}

// Known reports whether t is one of the supported field kinds.
func (t FieldType) Known() bool {
	_, ok := knownFieldTypes[t]
	return ok
}

// WildcardSegment marks a repeated item inside a path once normalised.
// Authors typically write `*` or `[]`, both of which normalise to `_`.
const WildcardSegment = "_"

// DefaultSectionSlug holds fields whose path has no section segment.
const DefaultSectionSlug = "main"

// Location points at the opening tag of a marked element.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Attributes is the typed property bag parsed from secondary marker
// attributes. A nil pointer means the property was not supplied (or could
// not be coerced), which is distinct from an explicit zero value.
type Attributes struct {
	Type        *string  `json:"type,omitempty"`
	Label       *string  `json:"label,omitempty"`
	Placeholder *string  `json:"placeholder,omitempty"`
	Required    *bool    `json:"required,omitempty"`
	Validation  *string  `json:"validation,omitempty"`
	Options     *string  `json:"options,omitempty"`
	Condition   *string  `json:"condition,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Step        *float64 `json:"step,omitempty"`
	Accept      *string  `json:"accept,omitempty"`
	Multiple    *bool    `json:"multiple,omitempty"`
	Rows        *float64 `json:"rows,omitempty"`
	Width       *float64 `json:"width,omitempty"`
	Readonly    *bool    `json:"readonly,omitempty"`
	Hidden      *bool    `json:"hidden,omitempty"`
	Help        *string  `json:"help,omitempty"`
}

// DetectedField is produced once per marked element during a scan. It is
// transient: the merger folds all detections of a path into one record.
type DetectedField struct {
	Path       string     `json:"path"`
	Attributes Attributes `json:"attributes"`
	Source     Location   `json:"source"`
	InnerText  *string    `json:"innerText,omitempty"`
	Tag        string     `json:"tag,omitempty"`
}

// FieldSchema is the canonical record for a single content path.
type FieldSchema struct {
	Path         string    `json:"path"`
	Key          string    `json:"key"`
	Type         FieldType `json:"type"`
	Label        string    `json:"label"`
	Placeholder  string    `json:"placeholder,omitempty"`
	Required     *bool     `json:"required,omitempty"`
	Validation   string    `json:"validation,omitempty"`
	Options      string    `json:"options,omitempty"`
	Condition    string    `json:"condition,omitempty"`
	Min          *float64  `json:"min,omitempty"`
	Max          *float64  `json:"max,omitempty"`
	Step         *float64  `json:"step,omitempty"`
	Accept       string    `json:"accept,omitempty"`
	Multiple     *bool     `json:"multiple,omitempty"`
	Rows         *float64  `json:"rows,omitempty"`
	Width        *float64  `json:"width,omitempty"`
	Readonly     *bool     `json:"readonly,omitempty"`
	Hidden       *bool     `json:"hidden,omitempty"`
	Help         string    `json:"help,omitempty"`
	DefaultValue *string   `json:"defaultValue,omitempty"`
	Tag          string    `json:"tag,omitempty"`
	Source       Location  `json:"source"`
	Order        int       `json:"order"`
}

// IsRequired reports whether the field is explicitly marked required.
func (f FieldSchema) IsRequired() bool {
	return f.Required != nil && *f.Required
}

// SectionSchema groups the fields sharing a page and section slug.
type SectionSchema struct {
	Slug       string        `json:"slug"`
	Name       string        `json:"name"`
	Fields     []FieldSchema `json:"fields"`
	IsRepeater bool          `json:"isRepeater"`
	Order      int           `json:"order"`
}

// PageSchema groups sections by the first path segment.
type PageSchema struct {
	Slug        string          `json:"slug"`
	Name        string          `json:"name"`
	Sections    []SectionSchema `json:"sections"`
	FieldCount  int             `json:"fieldCount"`
	SourceFiles []string        `json:"sourceFiles"`
}

// ScanMetadata describes the scan that produced a ProjectSchema.
type ScanMetadata struct {
	SourceDir        string `json:"sourceDir"`
	FilesScanned     int    `json:"filesScanned"`
	FilesWithMarkers int    `json:"filesWithMarkers"`
	DurationMS       int64  `json:"durationMs"`
}

// ProjectSchema is the persisted hand-off document consumed by the CRUD layer
// and the admin editor.
type ProjectSchema struct {
	Version     string       `json:"version"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Pages       []PageSchema `json:"pages"`
	PageCount   int          `json:"pageCount"`
	TotalFields int          `json:"totalFields"`
	Scan        ScanMetadata `json:"scan"`
}

// Fields flattens the schema in page, section, field order.
func (s ProjectSchema) Fields() []FieldSchema {
	var out []FieldSchema
	for _, page := range s.Pages {
		for _, section := range page.Sections {
			out = append(out, section.Fields...)
		}
	}
	return out
}

// FieldChange records a path present in both snapshots whose properties
// differ. Changes follows the fixed comparison order, not discovery order.
type FieldChange struct {
	Path    string      `json:"path"`
	Before  FieldSchema `json:"before"`
	After   FieldSchema `json:"after"`
	Changes []string    `json:"changes"`
}

// SchemaDiff is the add/remove/modify report between two snapshots.
type SchemaDiff struct {
	Added      []FieldSchema `json:"added"`
	Removed    []FieldSchema `json:"removed"`
	Modified   []FieldChange `json:"modified"`
	HasChanges bool          `json:"hasChanges"`
}
