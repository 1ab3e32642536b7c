package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-contentschema/pkg/diff"
	"github.com/goliatone/go-contentschema/pkg/schema"
)

// Artifact file names inside the output directory.
const (
	SchemaFile  = "content-schema.json"
	TypesFile   = "content-types.d.ts"
	OpenAPIFile = "content-openapi.json"
)

// Option customises how the schema document is encoded.
type Option func(*config)

type config struct {
	pretty bool
	indent string
}

// WithPretty toggles indented output. Pretty printing is the default.
func WithPretty(enabled bool) Option {
	return func(c *config) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation used when pretty printing.
func WithIndent(spaces int) Option {
	return func(c *config) {
		if spaces > 0 {
			c.indent = strings.Repeat(" ", spaces)
		}
	}
}

func newConfig(options []Option) config {
	cfg := config{pretty: true, indent: "  "}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// Path returns the location of the schema document inside dir.
func Path(dir string) string {
	return filepath.Join(dir, SchemaFile)
}

// Write persists s as JSON under SchemaFile in dir, creating dir when
// missing, and returns the written path.
func Write(s schema.ProjectSchema, dir string, options ...Option) (string, error) {
	cfg := newConfig(options)

	var (
		payload []byte
		err     error
	)
	if cfg.pretty {
		payload, err = json.MarshalIndent(s, "", cfg.indent)
	} else {
		payload, err = json.Marshal(s)
	}
	if err != nil {
		return "", fmt.Errorf("snapshot: encode schema: %w", err)
	}
	payload = append(payload, '\n')

	return writeFile(dir, SchemaFile, payload)
}

// WriteTypes persists generated type declarations under TypesFile in dir.
func WriteTypes(content, dir string) (string, error) {
	return writeFile(dir, TypesFile, []byte(content))
}

// WriteFile persists an arbitrary artifact in dir.
func WriteFile(dir, name string, payload []byte) (string, error) {
	return writeFile(dir, name, payload)
}

func writeFile(dir, name string, payload []byte) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("snapshot: output directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("snapshot: create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return "", fmt.Errorf("snapshot: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("snapshot: replace %s: %w", name, err)
	}
	return path, nil
}

// Read loads the schema document from dir. A missing or unparsable document
// is reported as nil: it simply means there is no prior snapshot.
func Read(dir string) *schema.ProjectSchema {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		return nil
	}
	var out schema.ProjectSchema
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return &out
}

// Commit reads the previous snapshot from dir, diffs it against s and then
// overwrites it with s.
func Commit(s schema.ProjectSchema, dir string, options ...Option) (string, schema.SchemaDiff, error) {
	previous := Read(dir)
	d := diff.Compare(previous, s)
	path, err := Write(s, dir, options...)
	if err != nil {
		return "", d, err
	}
	return path, d, nil
}
