package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/goliatone/go-contentschema/pkg/markers"
	"github.com/goliatone/go-contentschema/pkg/schema"
)

// DefaultCacheSize bounds the number of parsed files kept between scans.
const DefaultCacheSize = 2048

// Option configures a Scanner.
type Option func(*Scanner)

// WithFilter sets the include/exclude globs used to select files.
func WithFilter(filter Filter) Option {
	return func(s *Scanner) {
		s.filter = filter
	}
}

// WithExtractor replaces the default marker extractor.
func WithExtractor(extractor *markers.Extractor) Option {
	return func(s *Scanner) {
		if extractor != nil {
			s.extractor = extractor
		}
	}
}

// WithLogger routes scan diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCacheSize sets the parse cache capacity. Zero disables caching.
func WithCacheSize(size int) Option {
	return func(s *Scanner) {
		s.cacheSize = size
	}
}

// Scanner walks a source tree and collects the marked elements it finds.
// Parsed elements are cached by path and content hash so repeated scans of
// a mostly unchanged tree only parse what changed.
type Scanner struct {
	root      string
	filter    Filter
	extractor *markers.Extractor
	logger    *slog.Logger
	cacheSize int
	cache     *lru.Cache[string, []markers.Element]
}

// Report is the outcome of a scan.
type Report struct {
	Fields           []schema.DetectedField
	Warnings         []string
	FilesScanned     int
	FilesWithMarkers int
	Duration         time.Duration
}

// Metadata converts the report counters into schema scan metadata.
func (r Report) Metadata(sourceDir string) schema.ScanMetadata {
	return schema.ScanMetadata{
		SourceDir:        sourceDir,
		FilesScanned:     r.FilesScanned,
		FilesWithMarkers: r.FilesWithMarkers,
		DurationMS:       r.Duration.Milliseconds(),
	}
}

// NewScanner builds a scanner rooted at root.
func NewScanner(root string, options ...Option) (*Scanner, error) {
	s := &Scanner{
		root:      root,
		extractor: markers.New(),
		logger:    slog.Default(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	if s.cacheSize > 0 {
		cache, err := lru.New[string, []markers.Element](s.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("source: parse cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Root returns the directory the scanner walks.
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks the tree sequentially. Files that cannot be read or parsed are
// skipped and reported as warnings. Only a failure to read the root itself
// is returned as an error. The context is checked between files.
func (s *Scanner) Scan(ctx context.Context) (Report, error) {
	started := time.Now()
	var report Report

	info, err := os.Stat(s.root)
	if err != nil {
		return report, fmt.Errorf("source: read %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return report, fmt.Errorf("source: read %s: not a directory", s.root)
	}

	for rel, walkErr := range Walk(s.root, s.filter) {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if walkErr != nil {
			if rel == "" {
				return report, walkErr
			}
			s.warn(&report, rel, walkErr)
			continue
		}

		elements, err := s.parse(rel)
		if err != nil {
			s.warn(&report, rel, err)
			continue
		}
		report.FilesScanned++

		found := 0
		for _, el := range elements {
			field, ok := s.extractor.Field(rel, el)
			if !ok {
				continue
			}
			report.Fields = append(report.Fields, field)
			found++
		}
		if found > 0 {
			report.FilesWithMarkers++
			s.logger.Debug("markers found", "file", rel, "fields", found)
		}
	}

	report.Duration = time.Since(started)
	s.logger.Debug("scan complete",
		"files", report.FilesScanned,
		"fields", len(report.Fields),
		"warnings", len(report.Warnings),
		"duration", report.Duration,
	)
	return report, nil
}

func (s *Scanner) parse(rel string) ([]markers.Element, error) {
	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", rel, err)
	}

	var key string
	if s.cache != nil {
		sum := sha256.Sum256(data)
		key = rel + "@" + hex.EncodeToString(sum[:])
		if elements, ok := s.cache.Get(key); ok {
			return elements, nil
		}
	}

	elements, err := ParseFile(rel, data)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(key, elements)
	}
	return elements, nil
}

func (s *Scanner) warn(report *Report, rel string, err error) {
	report.Warnings = append(report.Warnings, err.Error())
	s.logger.Warn("skipping file", "file", rel, "error", err)
}
