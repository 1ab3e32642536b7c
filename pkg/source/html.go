package source

import (
	"bytes"
	"errors"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-contentschema/pkg/markers"
	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// htmlFrame tracks an open element while its children are tokenized.
type htmlFrame struct {
	el     *markers.Element
	count  int
	text   *string
	static bool

	// run accumulates the raw text of the current text child. Comments do
	// not end a run.
	run    string
	inText bool
}

func (f *htmlFrame) addText(raw string) {
	if f.inText {
		f.run += raw
	} else {
		if strings.TrimSpace(raw) == "" {
			return
		}
		f.count++
		f.run = raw
		f.inText = true
	}
	text := strings.Join(strings.Fields(f.run), " ")
	// Template interpolation ({{ }} in Vue, { } in Svelte) is dynamic.
	f.static = !strings.Contains(text, "{")
	f.text = &text
}

func (f *htmlFrame) close() {
	f.el.Children = f.count
	if f.count == 1 && f.static {
		f.el.Text = f.text
	}
}

// parseHTML tokenizes HTML-family sources (plain HTML, Vue and Svelte
// templates). Positions are derived from the raw byte offset of each token.
func parseHTML(data []byte) ([]markers.Element, error) {
	z := html.NewTokenizer(bytes.NewReader(data))
	lines := newLineIndex(data)

	var (
		elements []*markers.Element
		stack    []*htmlFrame
		offset   int
	)
	top := func() *htmlFrame {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}

	for {
		tt := z.Next()
		raw := z.Raw()
		start := offset
		offset += len(raw)

		switch tt {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				for i := len(stack) - 1; i >= 0; i-- {
					stack[i].close()
				}
				out := make([]markers.Element, len(elements))
				for i, el := range elements {
					out[i] = *el
				}
				return out, nil
			}
			line, col := lines.position(start)
			return nil, &ParseError{Line: line, Column: col, Message: z.Err().Error()}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			line, col := lines.position(start)
			el := &markers.Element{Tag: string(name), Line: line, Column: col}
			lowerRaw := bytes.ToLower(raw)
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				attr := markers.Attribute{Name: string(key), Value: string(val), Kind: markers.ValueString}
				switch {
				case len(val) == 0 && !bytes.Contains(lowerRaw, append(bytes.ToLower(key), '=')):
					attr.Kind = markers.ValueNone
				case bytes.HasPrefix(val, []byte("{")) && bytes.HasSuffix(val, []byte("}")):
					// Svelte binds attributes with attr={expression}.
					attr.Kind = markers.ValueExpression
				}
				el.Attributes = append(el.Attributes, attr)
			}
			elements = append(elements, el)

			if parent := top(); parent != nil {
				parent.count++
				parent.static = false
				parent.inText = false
			}
			if tt == html.SelfClosingTagToken || voidElements[el.Tag] {
				el.SelfClosing = true
				continue
			}
			stack = append(stack, &htmlFrame{el: el})

		case html.EndTagToken:
			name, _ := z.TagName()
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].el.Tag != string(name) {
					continue
				}
				for j := len(stack) - 1; j >= i; j-- {
					stack[j].close()
				}
				stack = stack[:i]
				break
			}

		case html.TextToken:
			if parent := top(); parent != nil {
				parent.addText(string(z.Text()))
			}
		}
	}
}

// lineIndex maps byte offsets to 1-based line and rune column.
type lineIndex struct {
	data   []byte
	starts []int
}

func newLineIndex(data []byte) lineIndex {
	starts := []int{0}
	for i, c := range data {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return lineIndex{data: data, starts: starts}
}

func (l lineIndex) position(offset int) (int, int) {
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	col := utf8.RuneCount(l.data[l.starts[line]:min(offset, len(l.data))]) + 1
	return line + 1, col
}
