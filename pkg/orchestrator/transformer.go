package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contentschema/pkg/merge"
	"github.com/goliatone/go-contentschema/pkg/schema"
)

// Transformer mutates a generated schema before it is validated, diffed and
// written. Implementations can relabel fields, inject help text, or perform
// arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, s *schema.ProjectSchema) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, s *schema.ProjectSchema) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, s *schema.ProjectSchema) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, s)
}

// OverridesTransformer applies declarative per-field overrides loaded from a
// YAML (or JSON) document. Keys are content paths and are normalised the same
// way marker paths are:
//
//	fields:
//	  home.hero.title:
//	    label: Headline
//	    help: Keep it under 60 characters
//	    required: true
//
// Overrides for paths that were not detected are ignored.
type OverridesTransformer struct {
	fields map[string]fieldOverride
}

type overridesDocument struct {
	Fields map[string]fieldOverride `yaml:"fields" json:"fields"`
}

type fieldOverride struct {
	Label       *string `yaml:"label" json:"label"`
	Help        *string `yaml:"help" json:"help"`
	Placeholder *string `yaml:"placeholder" json:"placeholder"`
	Type        *string `yaml:"type" json:"type"`
	Required    *bool   `yaml:"required" json:"required"`
	Hidden      *bool   `yaml:"hidden" json:"hidden"`
}

// NewOverridesTransformer constructs a transformer from raw YAML or JSON.
func NewOverridesTransformer(data []byte) (*OverridesTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("overrides transformer: document is empty")
	}
	var document overridesDocument
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("overrides transformer: parse document: %w", err)
	}
	fields := make(map[string]fieldOverride, len(document.Fields))
	for path, override := range document.Fields {
		fields[merge.Normalize(path)] = override
	}
	return &OverridesTransformer{fields: fields}, nil
}

// NewOverridesTransformerFromFS loads an overrides document from fsys.
func NewOverridesTransformerFromFS(fsys fs.FS, path string) (*OverridesTransformer, error) {
	if fsys == nil {
		return nil, errors.New("overrides transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("overrides transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("overrides transformer: read %s: %w", path, err)
	}
	return NewOverridesTransformer(data)
}

// Transform applies the overrides in place.
func (t *OverridesTransformer) Transform(ctx context.Context, s *schema.ProjectSchema) error {
	if t == nil || s == nil || len(t.fields) == 0 {
		return nil
	}
	for pi := range s.Pages {
		for si := range s.Pages[pi].Sections {
			if err := ctx.Err(); err != nil {
				return err
			}
			fields := s.Pages[pi].Sections[si].Fields
			for fi := range fields {
				if override, ok := t.fields[fields[fi].Path]; ok {
					override.apply(&fields[fi])
				}
			}
		}
	}
	return nil
}

func (o fieldOverride) apply(field *schema.FieldSchema) {
	if o.Label != nil {
		field.Label = *o.Label
	}
	if o.Help != nil {
		field.Help = *o.Help
	}
	if o.Placeholder != nil {
		field.Placeholder = *o.Placeholder
	}
	if o.Type != nil {
		field.Type = schema.FieldType(strings.ToLower(strings.TrimSpace(*o.Type)))
	}
	if o.Required != nil {
		required := *o.Required
		field.Required = &required
	}
	if o.Hidden != nil {
		hidden := *o.Hidden
		field.Hidden = &hidden
	}
}
