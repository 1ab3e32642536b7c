// Package contentschema derives a page, section and field content schema
// from the data-cms markers in a tree of component sources. The root package
// re-exports the common types and wraps the orchestrator for one-shot use;
// the stages live under pkg/.
package contentschema

import (
	"context"

	"github.com/goliatone/go-contentschema/pkg/orchestrator"
	"github.com/goliatone/go-contentschema/pkg/schema"
)

// ProjectSchema is the persisted schema document.
type ProjectSchema = schema.ProjectSchema

// PageSchema groups sections by page slug.
type PageSchema = schema.PageSchema

// SectionSchema groups the fields of one section.
type SectionSchema = schema.SectionSchema

// FieldSchema describes a single content path.
type FieldSchema = schema.FieldSchema

// FieldType enumerates the editor field kinds.
type FieldType = schema.FieldType

// SchemaDiff reports the changes between two snapshots.
type SchemaDiff = schema.SchemaDiff

// Result aliases orchestrator.Result for callers of Generate.
type Result = orchestrator.Result

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Scan builds the schema of sourceDir without writing anything. The diff in
// the result is computed against the snapshot in outputDir when one exists;
// outputDir may be empty.
func Scan(ctx context.Context, sourceDir, outputDir string, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Run(ctx, orchestrator.Request{
		SourceDir: sourceDir,
		OutputDir: outputDir,
		DryRun:    true,
	})
}

// Generate scans sourceDir and writes the schema artifacts to outputDir.
func Generate(ctx context.Context, sourceDir, outputDir string, options ...orchestrator.Option) (Result, error) {
	return orchestrator.New(options...).Run(ctx, orchestrator.Request{
		SourceDir: sourceDir,
		OutputDir: outputDir,
	})
}
