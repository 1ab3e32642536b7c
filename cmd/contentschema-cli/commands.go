package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-contentschema/internal/config"
	"github.com/goliatone/go-contentschema/pkg/diff"
	"github.com/goliatone/go-contentschema/pkg/history"
	"github.com/goliatone/go-contentschema/pkg/markers"
	"github.com/goliatone/go-contentschema/pkg/openapi"
	"github.com/goliatone/go-contentschema/pkg/orchestrator"
	"github.com/goliatone/go-contentschema/pkg/schema"
	"github.com/goliatone/go-contentschema/pkg/snapshot"
	"github.com/goliatone/go-contentschema/pkg/source"
	"github.com/goliatone/go-contentschema/pkg/typegen"
	"github.com/goliatone/go-contentschema/pkg/validation"
)

// flags holds the options shared by every command. String flags left empty
// keep the configured value.
type flags struct {
	config   string
	envFiles string
	source   string
	output   string
	marker   string
	sort     bool
	verbose  bool
	set      map[string]bool
}

func newFlagSet(env *environment, name string) (*flag.FlagSet, *flags) {
	f := &flags{}
	set := flag.NewFlagSet(name, flag.ContinueOnError)
	set.SetOutput(env.stderr)
	set.StringVar(&f.config, "config", "", "config file (defaults to "+config.DefaultFile+" when present)")
	set.StringVar(&f.envFiles, "env-file", "", "comma separated dotenv files (defaults to .env when present)")
	set.StringVar(&f.source, "source", "", "source directory to scan")
	set.StringVar(&f.output, "output", "", "output directory for the artifacts")
	set.StringVar(&f.marker, "marker", "", "marker attribute name")
	set.BoolVar(&f.sort, "sort", false, "order fields by path instead of first-seen order")
	set.BoolVar(&f.verbose, "verbose", false, "enable debug logging")
	return set, f
}

func parse(set *flag.FlagSet, f *flags, args []string) error {
	if err := set.Parse(args); err != nil {
		return err
	}
	if set.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(set.Args(), " "))
	}
	f.set = map[string]bool{}
	set.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})
	return nil
}

// load resolves the configuration and applies explicitly set flags on top.
func (f *flags) load() (config.Config, error) {
	var options []config.Option
	if files := config.SplitList(f.envFiles); len(files) > 0 {
		options = append(options, config.WithEnvFiles(files...))
	}
	cfg, err := config.Load(f.config, options...)
	if err != nil {
		return config.Config{}, err
	}
	if f.source != "" {
		cfg.SourceDir = f.source
	}
	if f.output != "" {
		cfg.OutputDir = f.output
	}
	if f.marker != "" {
		cfg.Marker = f.marker
	}
	if f.set["sort"] {
		cfg.Sort = f.sort
	}
	return cfg, nil
}

// pipeline builds an orchestrator from cfg. The returned closer releases
// the history store when one is configured.
func pipeline(cfg config.Config, env *environment, verbose bool, extra ...orchestrator.Option) (*orchestrator.Orchestrator, func() error, error) {
	logger := newLogger(env.stderr, verbose)
	options := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithExtractor(markers.New(markers.WithMarker(cfg.Marker))),
		orchestrator.WithFilter(source.Filter{Include: cfg.Include, Exclude: cfg.Exclude}),
		orchestrator.WithDisplayNames(cfg.Pages, cfg.Sections),
		orchestrator.WithSnapshotOptions(snapshot.WithPretty(cfg.Pretty), snapshot.WithIndent(cfg.Indent)),
		orchestrator.WithTypes(cfg.Types.Enabled,
			typegen.WithRootName(cfg.Types.RootName),
			typegen.WithComments(cfg.Types.Comments),
		),
		orchestrator.WithOpenAPI(cfg.OpenAPI.Enabled,
			openapi.WithTitle(cfg.OpenAPI.Title),
			openapi.WithBasePath(cfg.OpenAPI.BasePath),
		),
	}

	if cfg.Overrides != "" {
		transformer, err := orchestrator.NewOverridesTransformerFromFS(os.DirFS(filepath.Dir(cfg.Overrides)), filepath.Base(cfg.Overrides))
		if err != nil {
			return nil, nil, err
		}
		options = append(options, orchestrator.WithSchemaTransformer(transformer))
	}

	closer := func() error { return nil }
	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, nil, err
		}
		options = append(options, orchestrator.WithHistory(store))
		closer = store.Close
	}

	options = append(options, extra...)
	return orchestrator.New(options...), closer, nil
}

func runScan(ctx context.Context, env *environment, args []string) (err error) {
	set, f := newFlagSet(env, "scan")
	dryRun := set.Bool("dry-run", false, "compute the schema and diff without writing")
	confirm := set.Bool("confirm", false, "ask before committing a snapshot that removes fields")
	emitOpenAPI := set.Bool("openapi", false, "also write "+snapshot.OpenAPIFile)
	if err := parse(set, f, args); err != nil {
		return err
	}
	cfg, err := f.load()
	if err != nil {
		return err
	}
	if f.set["openapi"] {
		cfg.OpenAPI.Enabled = *emitOpenAPI
	}

	var extra []orchestrator.Option
	if *confirm {
		extra = append(extra, orchestrator.WithConfirm(env.confirmRemovals))
	}
	orch, closer, err := pipeline(cfg, env, f.verbose, extra...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, closer())
	}()

	result, err := orch.Run(ctx, orchestrator.Request{
		SourceDir: cfg.SourceDir,
		OutputDir: cfg.OutputDir,
		Sort:      cfg.Sort,
		DryRun:    *dryRun,
	})
	if err != nil {
		return err
	}

	report(env, result)
	switch {
	case result.Committed:
		for _, path := range result.Written {
			fmt.Fprintf(env.stdout, "wrote %s\n", path)
		}
	case *dryRun:
		fmt.Fprintln(env.stdout, "dry run: nothing written")
	default:
		fmt.Fprintln(env.stdout, "snapshot not committed")
	}
	return nil
}

func runDiff(ctx context.Context, env *environment, args []string) error {
	set, f := newFlagSet(env, "diff")
	exitCode := set.Bool("exit-code", false, "exit with status 1 when there are changes")
	if err := parse(set, f, args); err != nil {
		return err
	}
	cfg, err := f.load()
	if err != nil {
		return err
	}
	orch, closer, err := pipeline(cfg, env, f.verbose, orchestrator.WithTypes(false), orchestrator.WithOpenAPI(false))
	if err != nil {
		return err
	}
	defer closer()

	result, err := orch.Run(ctx, orchestrator.Request{
		SourceDir: cfg.SourceDir,
		OutputDir: cfg.OutputDir,
		Sort:      cfg.Sort,
		DryRun:    true,
	})
	if err != nil {
		return err
	}
	report(env, result)
	if *exitCode && result.Diff.HasChanges {
		return exitError{code: 1}
	}
	return nil
}

func runTypes(_ context.Context, env *environment, args []string) error {
	set, f := newFlagSet(env, "types")
	out := set.String("o", "", "write the declarations to this file instead of stdout")
	if err := parse(set, f, args); err != nil {
		return err
	}
	cfg, err := f.load()
	if err != nil {
		return err
	}
	current, err := committed(cfg.OutputDir)
	if err != nil {
		return err
	}

	content := typegen.Generate(*current,
		typegen.WithRootName(cfg.Types.RootName),
		typegen.WithComments(cfg.Types.Comments),
	)
	if *out == "" {
		_, err := fmt.Fprint(env.stdout, content)
		return err
	}
	if err := os.WriteFile(*out, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}
	fmt.Fprintf(env.stdout, "wrote %s\n", *out)
	return nil
}

func runValidate(ctx context.Context, env *environment, args []string) error {
	set, f := newFlagSet(env, "validate")
	if err := parse(set, f, args); err != nil {
		return err
	}
	cfg, err := f.load()
	if err != nil {
		return err
	}
	current, err := committed(cfg.OutputDir)
	if err != nil {
		return err
	}

	problems := validation.Validate(*current)
	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, snapshot.OpenAPIFile))
	switch {
	case err == nil:
		if _, err := openapi.Load(ctx, data); err != nil {
			problems = append(problems, err.Error())
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("read %s: %w", snapshot.OpenAPIFile, err)
	}

	for _, problem := range problems {
		fmt.Fprintf(env.stdout, "problem: %s\n", problem)
	}
	if len(problems) > 0 {
		return exitError{code: 1}
	}
	fmt.Fprintf(env.stdout, "%d pages, %d fields: ok\n", current.PageCount, current.TotalFields)
	return nil
}

func committed(dir string) (*schema.ProjectSchema, error) {
	current := snapshot.Read(dir)
	if current == nil {
		return nil, fmt.Errorf("no readable %s in %s; run scan first", snapshot.SchemaFile, dir)
	}
	return current, nil
}

func report(env *environment, result orchestrator.Result) {
	for _, warning := range result.Warnings {
		fmt.Fprintf(env.stderr, "warning: %s\n", warning)
	}
	for _, problem := range result.Problems {
		fmt.Fprintf(env.stderr, "problem: %s\n", problem)
	}
	fmt.Fprintln(env.stdout, diff.Format(result.Diff))
}

func (env *environment) confirmRemovals(_ context.Context, d schema.SchemaDiff) (bool, error) {
	message := fmt.Sprintf("%d field(s) will be removed from the schema. Continue?", len(d.Removed))
	if env.confirm != nil {
		return env.confirm(message)
	}

	fmt.Fprintln(env.stderr, diff.Format(d))
	var ok bool
	prompt := &survey.Confirm{Message: message, Default: false}
	if err := survey.AskOne(prompt, &ok); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, nil
		}
		return false, fmt.Errorf("confirm: %w", err)
	}
	return ok, nil
}
