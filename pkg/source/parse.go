package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-contentschema/pkg/markers"
)

// ParseError reports markup a parser could not make sense of.
type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// Family groups file extensions by the parser that understands them.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyJSX
	FamilyHTML
)

var families = map[string]Family{
	".jsx":    FamilyJSX,
	".tsx":    FamilyJSX,
	".js":     FamilyJSX,
	".ts":     FamilyJSX,
	".mjs":    FamilyJSX,
	".astro":  FamilyJSX,
	".mdx":    FamilyJSX,
	".html":   FamilyHTML,
	".htm":    FamilyHTML,
	".vue":    FamilyHTML,
	".svelte": FamilyHTML,
}

// FamilyOf returns the parser family for path based on its extension.
func FamilyOf(path string) Family {
	return families[strings.ToLower(filepath.Ext(path))]
}

// ParseFile returns the opening tags found in data, in document order.
// Unknown extensions are parsed as JSX.
func ParseFile(path string, data []byte) ([]markers.Element, error) {
	var (
		elements []markers.Element
		err      error
	)
	switch FamilyOf(path) {
	case FamilyHTML:
		elements, err = parseHTML(data)
	default:
		elements, err = parseJSX(data)
	}
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.File = path
			return nil, perr
		}
		return nil, fmt.Errorf("source: parse %s: %w", path, err)
	}
	return elements, nil
}
