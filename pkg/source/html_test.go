package source_test

import (
	"testing"

	"github.com/goliatone/go-contentschema/pkg/markers"
)

const pricingVue = `<template>
  <section>
    <h2 data-cms="pricing.plans.heading" data-cms-required>Plans &amp; pricing</h2>
    <span data-cms="pricing.plans.note">{{ note }}</span>
    <input data-cms="pricing.plans.email" data-cms-type="email">
    <Card data-cms="pricing.plans.card" data-cms-hidden="" />
  </section>
</template>
`

func TestParseHTML_Elements(t *testing.T) {
	elements := mustParse(t, "Pricing.vue", pricingVue)

	want := []struct {
		tag          string
		line, column int
	}{
		{"template", 1, 1},
		{"section", 2, 3},
		{"h2", 3, 5},
		{"span", 4, 5},
		{"input", 5, 5},
		{"card", 6, 5},
	}
	if len(elements) != len(want) {
		t.Fatalf("expected %d elements, got %d: %+v", len(want), len(elements), elements)
	}
	for i, w := range want {
		el := elements[i]
		if el.Tag != w.tag || el.Line != w.line || el.Column != w.column {
			t.Fatalf("element %d: expected <%s> at %d:%d, got <%s> at %d:%d", i, w.tag, w.line, w.column, el.Tag, el.Line, el.Column)
		}
	}

	h2 := elements[2]
	if h2.Text == nil || *h2.Text != "Plans & pricing" {
		t.Fatalf("expected unescaped text, got %v", h2.Text)
	}
	if got := attr(t, h2, "data-cms-required"); got.Kind != markers.ValueNone {
		t.Fatalf("expected bare attribute, got %+v", got)
	}

	span := elements[3]
	if span.Children != 1 || span.Text != nil {
		t.Fatalf("interpolation must not be captured, got %d %v", span.Children, span.Text)
	}

	if !elements[4].SelfClosing {
		t.Fatalf("expected void input to be self-closing")
	}

	card := elements[5]
	if !card.SelfClosing {
		t.Fatalf("expected self-closing component")
	}
	if got := attr(t, card, "data-cms-hidden"); got.Kind != markers.ValueString || got.Value != "" {
		t.Fatalf("expected explicit empty value, got %+v", got)
	}

	if elements[1].Children != 4 {
		t.Fatalf("expected section to count 4 element children, got %d", elements[1].Children)
	}
}

func TestParseHTML_SvelteExpressions(t *testing.T) {
	src := "<script>\n  let path = 'a.b';\n</script>\n<p data-cms={path} data-cms-label=\"Body\">{#if x}Hi{/if}</p>\n"
	elements := mustParse(t, "Body.svelte", src)
	if len(elements) != 2 {
		t.Fatalf("expected script and p, got %+v", elements)
	}
	p := elements[1]
	if p.Line != 4 || p.Column != 1 {
		t.Fatalf("expected p at 4:1, got %d:%d", p.Line, p.Column)
	}
	if got := attr(t, p, "data-cms"); got.Kind != markers.ValueExpression {
		t.Fatalf("expected dynamic marker, got %+v", got)
	}
	if got := attr(t, p, "data-cms-label"); got.Kind != markers.ValueString || got.Value != "Body" {
		t.Fatalf("expected static label, got %+v", got)
	}
	if p.Text != nil {
		t.Fatalf("block syntax must not be captured as static text")
	}
}

func TestParseHTML_MultibyteColumns(t *testing.T) {
	elements := mustParse(t, "page.html", "<p>héllo <b data-cms=\"x\">bold</b></p>")
	if len(elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(elements))
	}
	if elements[1].Column != 10 {
		t.Fatalf("expected rune column 10, got %d", elements[1].Column)
	}
	if elements[0].Children != 2 || elements[0].Text != nil {
		t.Fatalf("mixed content must not be captured, got %d %v", elements[0].Children, elements[0].Text)
	}
}

func TestParseHTML_CommentsDoNotSplitText(t *testing.T) {
	elements := mustParse(t, "index.html", `<h1 data-cms="home.hero.title">Hello<!-- c --> world</h1><p data-cms="home.hero.body">A<!-- c --><b>B</b></p>`)
	if len(elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(elements))
	}
	h1 := elements[0]
	if h1.Children != 1 || h1.Text == nil || *h1.Text != "Hello world" {
		t.Fatalf("expected one text child %q, got %d %v", "Hello world", h1.Children, h1.Text)
	}
	if p := elements[1]; p.Children != 2 || p.Text != nil {
		t.Fatalf("mixed content must not be captured, got %d %v", p.Children, p.Text)
	}
}
