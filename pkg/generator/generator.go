package generator

import (
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-contentschema/pkg/merge"
	"github.com/goliatone/go-contentschema/pkg/schema"
)

// Options tunes schema generation.
type Options struct {
	// Sort orders fields lexicographically by full path instead of by the
	// order in which they were first seen. Because grouping follows field
	// order, pages and sections end up sorted as well.
	Sort bool
	// PageNames overrides the display name of pages keyed by slug.
	PageNames map[string]string
	// SectionNames overrides section display names keyed by "page.section".
	SectionNames map[string]string
	// Scan is copied into the resulting schema.
	Scan schema.ScanMetadata
	// Now supplies GeneratedAt. Defaults to time.Now.
	Now func() time.Time
}

// Generate merges the detected fields and groups them into the page →
// section → field hierarchy. Aggregate counts are computed while the tree is
// assembled.
func Generate(fields []schema.DetectedField, opts Options) schema.ProjectSchema {
	merged := merge.Merge(fields)
	if opts.Sort {
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].Path < merged[j].Path
		})
	}

	b := newBuilder(opts)
	for _, field := range merged {
		b.add(field)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	out := schema.ProjectSchema{
		Version:     schema.Version,
		GeneratedAt: now().UTC(),
		Pages:       b.pages(),
		Scan:        opts.Scan,
	}
	out.PageCount = len(out.Pages)
	for _, page := range out.Pages {
		out.TotalFields += page.FieldCount
	}
	return out
}

type pageEntry struct {
	page     schema.PageSchema
	sections map[string]int
	files    map[string]struct{}
}

type builder struct {
	opts   Options
	order  []*pageEntry
	byPage map[string]*pageEntry
}

func newBuilder(opts Options) *builder {
	return &builder{opts: opts, byPage: make(map[string]*pageEntry)}
}

func (b *builder) add(field schema.DetectedField) {
	segments := merge.Segments(field.Path)
	pageSlug := segments[0]
	sectionSlug := schema.DefaultSectionSlug
	var local []string
	if len(segments) > 1 {
		sectionSlug = segments[1]
		local = segments[2:]
	}

	entry := b.page(pageSlug)
	section := b.section(entry, pageSlug, sectionSlug)
	if isRepeaterPath(local) {
		section.IsRepeater = true
	}

	fs := fieldSchema(field, segments, local)
	fs.Order = len(section.Fields)
	section.Fields = append(section.Fields, fs)
	entry.page.FieldCount++

	if file := field.Source.File; file != "" {
		if _, ok := entry.files[file]; !ok {
			entry.files[file] = struct{}{}
			entry.page.SourceFiles = append(entry.page.SourceFiles, file)
		}
	}
}

func (b *builder) page(slug string) *pageEntry {
	if entry, ok := b.byPage[slug]; ok {
		return entry
	}
	entry := &pageEntry{
		page: schema.PageSchema{
			Slug:        slug,
			Name:        displayName(b.opts.PageNames[slug], slug),
			Sections:    []schema.SectionSchema{},
			SourceFiles: []string{},
		},
		sections: make(map[string]int),
		files:    make(map[string]struct{}),
	}
	b.byPage[slug] = entry
	b.order = append(b.order, entry)
	return entry
}

func (b *builder) section(entry *pageEntry, pageSlug, slug string) *schema.SectionSchema {
	if idx, ok := entry.sections[slug]; ok {
		return &entry.page.Sections[idx]
	}
	idx := len(entry.page.Sections)
	entry.sections[slug] = idx
	entry.page.Sections = append(entry.page.Sections, schema.SectionSchema{
		Slug:   slug,
		Name:   displayName(b.opts.SectionNames[pageSlug+"."+slug], slug),
		Fields: []schema.FieldSchema{},
		Order:  idx,
	})
	return &entry.page.Sections[idx]
}

func (b *builder) pages() []schema.PageSchema {
	out := make([]schema.PageSchema, 0, len(b.order))
	for _, entry := range b.order {
		out = append(out, entry.page)
	}
	return out
}

// isRepeaterPath reports whether any segment after the section slug is the
// wildcard token.
func isRepeaterPath(local []string) bool {
	for _, segment := range local {
		if segment == schema.WildcardSegment {
			return true
		}
	}
	return false
}

func fieldSchema(field schema.DetectedField, segments, local []string) schema.FieldSchema {
	attrs := field.Attributes
	out := schema.FieldSchema{
		Path:         field.Path,
		Key:          strings.Join(local, "."),
		Type:         fieldType(attrs.Type),
		Label:        fieldLabel(attrs.Label, segments),
		Placeholder:  value(attrs.Placeholder),
		Required:     attrs.Required,
		Validation:   value(attrs.Validation),
		Options:      value(attrs.Options),
		Condition:    value(attrs.Condition),
		Min:          attrs.Min,
		Max:          attrs.Max,
		Step:         attrs.Step,
		Accept:       value(attrs.Accept),
		Multiple:     attrs.Multiple,
		Rows:         attrs.Rows,
		Width:        attrs.Width,
		Readonly:     attrs.Readonly,
		Hidden:       attrs.Hidden,
		Help:         value(attrs.Help),
		DefaultValue: field.InnerText,
		Tag:          field.Tag,
		Source:       field.Source,
	}
	if out.Key == "" && len(segments) > 0 {
		out.Key = segments[len(segments)-1]
	}
	return out
}

func fieldType(raw *string) schema.FieldType {
	if raw == nil {
		return schema.DefaultFieldType
	}
	kind := strings.ToLower(strings.TrimSpace(*raw))
	if kind == "" {
		return schema.DefaultFieldType
	}
	return schema.FieldType(kind)
}

func fieldLabel(raw *string, segments []string) string {
	if raw != nil {
		if strings.TrimSpace(*raw) != "" {
			return *raw
		}
	}
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == schema.WildcardSegment {
			continue
		}
		if label := schema.Humanize(segments[i]); label != "" {
			return label
		}
	}
	return "Item"
}

func displayName(explicit, slug string) string {
	if name := strings.TrimSpace(explicit); name != "" {
		return name
	}
	return schema.Humanize(slug)
}

func value(raw *string) string {
	if raw == nil {
		return ""
	}
	return *raw
}
