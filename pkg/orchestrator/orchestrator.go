package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-contentschema/pkg/diff"
	"github.com/goliatone/go-contentschema/pkg/generator"
	"github.com/goliatone/go-contentschema/pkg/history"
	"github.com/goliatone/go-contentschema/pkg/markers"
	"github.com/goliatone/go-contentschema/pkg/openapi"
	"github.com/goliatone/go-contentschema/pkg/schema"
	"github.com/goliatone/go-contentschema/pkg/snapshot"
	"github.com/goliatone/go-contentschema/pkg/source"
	"github.com/goliatone/go-contentschema/pkg/typegen"
	"github.com/goliatone/go-contentschema/pkg/validation"
)

// ConfirmFunc is asked before a snapshot that removes fields is committed.
// Returning false skips every write for the run.
type ConfirmFunc func(ctx context.Context, d schema.SchemaDiff) (bool, error)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLogger routes pipeline diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithExtractor injects a marker extractor, e.g. one using a custom marker.
func WithExtractor(extractor *markers.Extractor) Option {
	return func(o *Orchestrator) {
		o.extractor = extractor
	}
}

// WithFilter sets the include/exclude globs used when walking sources.
func WithFilter(filter source.Filter) Option {
	return func(o *Orchestrator) {
		o.filter = filter
	}
}

// WithCacheSize sets the capacity of the per-root parse cache.
func WithCacheSize(size int) Option {
	return func(o *Orchestrator) {
		o.cacheSize = &size
	}
}

// WithDisplayNames supplies page names keyed by slug and section names keyed
// by "page.section".
func WithDisplayNames(pages, sections map[string]string) Option {
	return func(o *Orchestrator) {
		o.pageNames = pages
		o.sectionNames = sections
	}
}

// WithConfirm registers a confirmation hook for destructive snapshots.
func WithConfirm(confirm ConfirmFunc) Option {
	return func(o *Orchestrator) {
		o.confirm = confirm
	}
}

// WithHistory records every committed snapshot in store and falls back to
// its latest entry when the output directory holds no snapshot.
func WithHistory(store *history.Store) Option {
	return func(o *Orchestrator) {
		o.history = store
	}
}

// WithSchemaTransformer registers a Transformer that runs after generation
// and before validation.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithSnapshotOptions forwards encoding options to the snapshot writer.
func WithSnapshotOptions(options ...snapshot.Option) Option {
	return func(o *Orchestrator) {
		o.snapshotOptions = append(o.snapshotOptions, options...)
	}
}

// WithTypes toggles the TypeScript declarations artifact (on by default).
func WithTypes(enabled bool, options ...typegen.Option) Option {
	return func(o *Orchestrator) {
		o.emitTypes = enabled
		o.typegenOptions = append(o.typegenOptions, options...)
	}
}

// WithOpenAPI toggles the OpenAPI artifact (off by default).
func WithOpenAPI(enabled bool, options ...openapi.Option) Option {
	return func(o *Orchestrator) {
		o.emitOpenAPI = enabled
		o.openapiOptions = append(o.openapiOptions, options...)
	}
}

// WithClock overrides the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// Orchestrator coordinates the full pipeline from a source tree to the
// persisted artifacts. Scanners are kept per source root so their parse
// caches survive across runs.
type Orchestrator struct {
	logger          *slog.Logger
	extractor       *markers.Extractor
	filter          source.Filter
	cacheSize       *int
	pageNames       map[string]string
	sectionNames    map[string]string
	confirm         ConfirmFunc
	history         *history.Store
	transformer     Transformer
	snapshotOptions []snapshot.Option
	emitTypes       bool
	typegenOptions  []typegen.Option
	emitOpenAPI     bool
	openapiOptions  []openapi.Option
	now             func() time.Time

	mu       sync.Mutex
	scanners map[string]*source.Scanner
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		emitTypes: true,
		scanners:  map[string]*source.Scanner{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.extractor == nil {
		o.extractor = markers.New()
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

// Request describes one pipeline run.
type Request struct {
	// SourceDir is the root of the component tree to scan.
	SourceDir string
	// OutputDir receives the artifacts. Optional when DryRun is set.
	OutputDir string
	// Sort orders fields by path instead of first-seen order.
	Sort bool
	// DryRun computes the schema and diff without writing anything.
	DryRun bool
}

// Result reports what a run produced.
type Result struct {
	Schema   schema.ProjectSchema
	Previous *schema.ProjectSchema
	Diff     schema.SchemaDiff
	// Warnings collects files skipped during the scan and artifacts that
	// could not be generated.
	Warnings []string
	// Problems lists validation findings. They never block a write.
	Problems []string
	// Types holds the generated declarations when enabled.
	Types string
	// Written lists artifact paths in write order.
	Written []string
	// Committed is false for dry runs and declined confirmations.
	Committed bool
}

// Run executes the pipeline. Only a failure to read the source tree or to
// write an artifact is returned as an error; everything else is reported on
// the Result. A cancelled context stops the run before anything is written.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(req.SourceDir) == "" {
		return Result{}, errors.New("orchestrator: source dir is required")
	}
	if !req.DryRun && strings.TrimSpace(req.OutputDir) == "" {
		return Result{}, errors.New("orchestrator: output dir is required")
	}

	scanner, err := o.scannerFor(req.SourceDir)
	if err != nil {
		return Result{}, err
	}
	report, err := scanner.Scan(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: scan: %w", err)
	}

	var result Result
	result.Warnings = append(result.Warnings, report.Warnings...)
	result.Schema = generator.Generate(report.Fields, generator.Options{
		Sort:         req.Sort,
		PageNames:    o.pageNames,
		SectionNames: o.sectionNames,
		Scan:         report.Metadata(req.SourceDir),
		Now:          o.now,
	})

	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &result.Schema); err != nil {
			return Result{}, fmt.Errorf("orchestrator: transform schema: %w", err)
		}
	}

	result.Problems = validation.Validate(result.Schema)
	for _, problem := range result.Problems {
		o.logger.Warn("schema problem", "error", problem)
	}

	result.Previous = o.previous(ctx, req.OutputDir)
	result.Diff = diff.Compare(result.Previous, result.Schema)

	if o.emitTypes {
		result.Types = typegen.Generate(result.Schema, o.typegenOptions...)
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if req.DryRun {
		return result, nil
	}

	if o.confirm != nil && len(result.Diff.Removed) > 0 {
		ok, err := o.confirm(ctx, result.Diff)
		if err != nil {
			return result, fmt.Errorf("orchestrator: confirm: %w", err)
		}
		if !ok {
			o.logger.Info("snapshot not committed", "removed", len(result.Diff.Removed))
			return result, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if err := o.write(ctx, req.OutputDir, &result); err != nil {
		return result, err
	}
	result.Committed = true

	o.logger.Info("schema generated",
		"pages", result.Schema.PageCount,
		"fields", result.Schema.TotalFields,
		"changes", diff.Summary(result.Diff),
		"duration", time.Duration(result.Schema.Scan.DurationMS)*time.Millisecond,
	)
	return result, nil
}

func (o *Orchestrator) write(ctx context.Context, dir string, result *Result) error {
	path, err := snapshot.Write(result.Schema, dir, o.snapshotOptions...)
	if err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}
	result.Written = append(result.Written, path)

	if o.emitTypes {
		path, err := snapshot.WriteTypes(result.Types, dir)
		if err != nil {
			return fmt.Errorf("orchestrator: %w", err)
		}
		result.Written = append(result.Written, path)
	}

	if o.emitOpenAPI {
		payload, err := o.openAPI(result.Schema)
		if err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			o.logger.Warn("openapi export skipped", "error", err)
		} else {
			path, err := snapshot.WriteFile(dir, snapshot.OpenAPIFile, payload)
			if err != nil {
				return fmt.Errorf("orchestrator: %w", err)
			}
			result.Written = append(result.Written, path)
		}
	}

	if o.history != nil {
		if _, err := o.history.Record(ctx, result.Schema, result.Diff); err != nil {
			result.Warnings = append(result.Warnings, err.Error())
			o.logger.Warn("history not recorded", "error", err)
		}
	}
	return nil
}

func (o *Orchestrator) openAPI(s schema.ProjectSchema) ([]byte, error) {
	doc, err := openapi.Export(s, o.openapiOptions...)
	if err != nil {
		return nil, err
	}
	return openapi.Marshal(doc)
}

// previous resolves the diff baseline: the snapshot in the output directory,
// or the latest history entry when there is none.
func (o *Orchestrator) previous(ctx context.Context, dir string) *schema.ProjectSchema {
	if dir != "" {
		if prev := snapshot.Read(dir); prev != nil {
			return prev
		}
	}
	if o.history == nil {
		return nil
	}
	prev, err := o.history.Latest(ctx)
	if err != nil {
		o.logger.Warn("history baseline unavailable", "error", err)
		return nil
	}
	return prev
}

func (o *Orchestrator) scannerFor(root string) (*source.Scanner, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if scanner, ok := o.scanners[root]; ok {
		return scanner, nil
	}
	options := []source.Option{
		source.WithFilter(o.filter),
		source.WithExtractor(o.extractor),
		source.WithLogger(o.logger),
	}
	if o.cacheSize != nil {
		options = append(options, source.WithCacheSize(*o.cacheSize))
	}
	scanner, err := source.NewScanner(root, options...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	o.scanners[root] = scanner
	return scanner, nil
}
