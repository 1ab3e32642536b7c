// Package config loads the CLI configuration from a YAML (or JSON) file,
// optional .env files and CONTENTSCHEMA_* environment variables, in
// increasing order of precedence. Command-line flags are applied on top by
// the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "contentschema.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CONTENTSCHEMA_"

// Config is the resolved configuration.
type Config struct {
	SourceDir string            `yaml:"sourceDir" json:"sourceDir"`
	OutputDir string            `yaml:"outputDir" json:"outputDir"`
	Include   []string          `yaml:"include" json:"include"`
	Exclude   []string          `yaml:"exclude" json:"exclude"`
	Marker    string            `yaml:"marker" json:"marker"`
	Sort      bool              `yaml:"sort" json:"sort"`
	Pretty    bool              `yaml:"pretty" json:"pretty"`
	Indent    int               `yaml:"indent" json:"indent"`
	Overrides string            `yaml:"overrides" json:"overrides"`
	Types     TypesConfig       `yaml:"types" json:"types"`
	OpenAPI   OpenAPIConfig     `yaml:"openapi" json:"openapi"`
	History   HistoryConfig     `yaml:"history" json:"history"`
	Pages     map[string]string `yaml:"pages" json:"pages"`
	Sections  map[string]string `yaml:"sections" json:"sections"`
}

// TypesConfig controls the TypeScript declarations artifact.
type TypesConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	RootName string `yaml:"rootName" json:"rootName"`
	Comments bool   `yaml:"comments" json:"comments"`
}

// OpenAPIConfig controls the OpenAPI artifact.
type OpenAPIConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Title    string `yaml:"title" json:"title"`
	BasePath string `yaml:"basePath" json:"basePath"`
}

// HistoryConfig points at the optional snapshot history database.
type HistoryConfig struct {
	Path string `yaml:"path" json:"path"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		SourceDir: "src",
		OutputDir: "cms",
		Pretty:    true,
		Indent:    2,
		Types:     TypesConfig{Enabled: true, Comments: true},
	}
}

// Option customises Load.
type Option func(*loader)

type loader struct {
	envFiles []string
	explicit bool
	lookup   func(string) (string, bool)
}

// WithEnvFiles reads the given dotenv files instead of the default ".env".
// Explicit files must exist.
func WithEnvFiles(files ...string) Option {
	return func(l *loader) {
		l.envFiles = files
		l.explicit = true
	}
}

// WithLookup replaces os.LookupEnv, mostly for tests.
func WithLookup(lookup func(string) (string, bool)) Option {
	return func(l *loader) {
		if lookup != nil {
			l.lookup = lookup
		}
	}
}

// Load resolves the configuration. An empty path falls back to DefaultFile
// when it exists. Relative directories in a config file are resolved against
// the file's directory.
func Load(path string, options ...Option) (Config, error) {
	l := loader{envFiles: []string{".env"}, lookup: os.LookupEnv}
	for _, opt := range options {
		if opt != nil {
			opt(&l)
		}
	}

	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return Config{}, err
		}
	}

	env, err := l.environment()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	// JSON is a subset of YAML, so one decoder serves both.
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for _, dir := range []*string{&c.SourceDir, &c.OutputDir, &c.Overrides, &c.History.Path} {
		if *dir != "" && !filepath.IsAbs(*dir) {
			*dir = filepath.Join(base, *dir)
		}
	}
	return nil
}

// environment merges dotenv values under the process environment.
func (l loader) environment() (func(string) (string, bool), error) {
	var files []string
	for _, file := range l.envFiles {
		if _, err := os.Stat(file); err != nil {
			if l.explicit {
				return nil, fmt.Errorf("config: env file %s: %w", file, err)
			}
			continue
		}
		files = append(files, file)
	}

	dotenv := map[string]string{}
	if len(files) > 0 {
		values, err := godotenv.Read(files...)
		if err != nil {
			return nil, fmt.Errorf("config: read env files: %w", err)
		}
		dotenv = values
	}

	return func(key string) (string, bool) {
		if value, ok := l.lookup(key); ok {
			return value, true
		}
		value, ok := dotenv[key]
		return value, ok
	}, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		value, ok := lookup(EnvPrefix + name)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(value), true
	}

	var errs []error
	setBool := func(name string, target *bool) {
		if raw, ok := get(name); ok && raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				errs = append(errs, fmt.Errorf("config: %s%s: invalid boolean %q", EnvPrefix, name, raw))
				return
			}
			*target = value
		}
	}
	setString := func(name string, target *string) {
		if raw, ok := get(name); ok && raw != "" {
			*target = raw
		}
	}
	setList := func(name string, target *[]string) {
		if raw, ok := get(name); ok && raw != "" {
			*target = SplitList(raw)
		}
	}

	setString("SOURCE_DIR", &c.SourceDir)
	setString("OUTPUT_DIR", &c.OutputDir)
	setList("INCLUDE", &c.Include)
	setList("EXCLUDE", &c.Exclude)
	setString("MARKER", &c.Marker)
	setBool("SORT", &c.Sort)
	setBool("PRETTY", &c.Pretty)
	setString("OVERRIDES", &c.Overrides)
	setBool("TYPES", &c.Types.Enabled)
	setString("TYPES_ROOT", &c.Types.RootName)
	setBool("TYPES_COMMENTS", &c.Types.Comments)
	setBool("OPENAPI", &c.OpenAPI.Enabled)
	setString("OPENAPI_TITLE", &c.OpenAPI.Title)
	setString("HISTORY", &c.History.Path)

	if raw, ok := get("INDENT"); ok && raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %sINDENT: invalid integer %q", EnvPrefix, raw))
		} else {
			c.Indent = value
		}
	}
	return errors.Join(errs...)
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.SourceDir) == "" {
		errs = append(errs, errors.New("config: sourceDir is required"))
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, errors.New("config: outputDir is required"))
	}
	if c.Indent < 0 || c.Indent > 8 {
		errs = append(errs, fmt.Errorf("config: indent %d is outside 0-8", c.Indent))
	}
	return errors.Join(errs...)
}

// SplitList splits a comma separated list, dropping blank entries.
func SplitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
