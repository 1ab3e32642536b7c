package source

import (
	"fmt"
	"io/fs"
	"iter"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

var (
	// DefaultInclude matches the component sources understood by ParseFile.
	DefaultInclude = []string{"**/*.{jsx,tsx,js,mjs,astro,html,htm,vue,svelte}"}
	// DefaultExclude skips tests, stories and declaration files.
	DefaultExclude = []string{"**/*.test.*", "**/*.spec.*", "**/*.stories.*", "**/*.d.ts"}
	// DefaultIgnoreDirs are pruned from the walk by base name.
	DefaultIgnoreDirs = []string{"node_modules", ".git", "dist", "build", "coverage", ".next", ".nuxt", ".svelte-kit", ".turbo", ".cache"}
)

// Filter selects the files considered by Walk. Patterns use doublestar
// syntax and are matched against slash-separated paths relative to the
// walk root. Nil fields fall back to the package defaults.
type Filter struct {
	Include    []string
	Exclude    []string
	IgnoreDirs []string
}

func (f Filter) withDefaults() Filter {
	if len(f.Include) == 0 {
		f.Include = DefaultInclude
	}
	if f.Exclude == nil {
		f.Exclude = DefaultExclude
	}
	if f.IgnoreDirs == nil {
		f.IgnoreDirs = DefaultIgnoreDirs
	}
	return f
}

func (f Filter) validate() error {
	for _, pattern := range append(slices.Clone(f.Include), f.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("source: invalid glob pattern %q", pattern)
		}
	}
	return nil
}

// Match reports whether rel (slash separated, relative to the root) is
// selected by the filter.
func (f Filter) Match(rel string) bool {
	f = f.withDefaults()
	return matchAny(f.Include, rel) && !matchAny(f.Exclude, rel)
}

func (f Filter) prune(rel, base string) bool {
	if slices.Contains(f.IgnoreDirs, base) {
		return true
	}
	return matchAny(f.Exclude, rel) || matchAny(f.Exclude, rel+"/")
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Walk lazily yields the root-relative, slash-separated paths of the files
// under root selected by filter, in lexical order. Each call starts a fresh
// walk. A failure to read root itself is yielded with an empty path and ends
// the sequence; failures below root are yielded with the offending path and
// the walk carries on.
func Walk(root string, filter Filter) iter.Seq2[string, error] {
	filter = filter.withDefaults()
	return func(yield func(string, error) bool) {
		if err := filter.validate(); err != nil {
			yield("", err)
			return
		}

		stopped := false
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if walkErr != nil {
				if rel == "." {
					return walkErr
				}
				if !yield(rel, fmt.Errorf("source: walk %s: %w", rel, walkErr)) {
					stopped = true
					return filepath.SkipAll
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if rel != "." && filter.prune(rel, d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !filter.Match(rel) {
				return nil
			}
			if !yield(rel, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			yield("", fmt.Errorf("source: walk %s: %w", root, err))
		}
	}
}
