package condition

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEvaluate(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"hero": map[string]any{
			"showCta": true,
			"variant": "minimal",
			"count":   3,
		},
		"footer.enabled":"false",
		"features": map[string]any{
			"items": []any{map[string]any{"title": "Fast"}},
		},
	}

	cases := []struct {
		rule string
		want bool
	}{
		{"", true},
		{"hero.showCta", true},
		{"!hero.showCta", false},
		{"hero.showCta == true", true},
		{"hero.variant == 'minimal'", true},
		{`hero.variant != "minimal"`, false},
		{"hero.variant == minimal", true},
		{"hero.count >= 3 && hero.count < 4", true},
		{"hero.count > 3", false},
		{"footer.enabled == false", true},
		{"footer.enabled", true},
		{"missing", false},
		{"missing == null", true},
		{"missing != null || hero.showCta", true},
		{"!(hero.showCta && hero.count == 2)", true},
		{"features.items.0.title == 'Fast'", true},
		{"features.items.1.title", false},
	}

	for _, tc := range cases {
		got, err := Evaluate(tc.rule, values)
		if err != nil {
			t.Fatalf("Evaluate(%q) returned error: %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("Evaluate(%q): expected %v, got %v", tc.rule, tc.want, got)
		}
	}
}

func TestParse_Fields(t *testing.T) {
	t.Parallel()

	expr, err := Parse("  hero.variant == minimal && (hero.showCta || !footer.enabled) && hero.showCta ")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := []string{"footer.enabled", "hero.showCta", "hero.variant"}
	if diff := cmp.Diff(want, expr.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if expr.String() != "hero.variant == minimal && (hero.showCta || !footer.enabled) && hero.showCta" {
		t.Fatalf("unexpected source %q", expr.String())
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"a = 1":      `unexpected '='`,
		"a & b":      `unexpected '&'`,
		"a == 'open": "unterminated string literal",
		"(a == 1":    "missing closing ')'",
		"a ==":       "expected a value after ==",
		"a b":        `unexpected "b"`,
		"&& a":       `expected field path, got "&&"`,
		"!":          "unexpected end of expression",
		"true == a":  `expected field path, got "true"`,
	}
	for rule, want := range cases {
		_, err := Parse(rule)
		if err == nil {
			t.Fatalf("Parse(%q): expected error", rule)
		}
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("Parse(%q): expected error containing %q, got %v", rule, want, err)
		}
	}
}

func TestEval_OrderingOnBooleans(t *testing.T) {
	t.Parallel()

	_, err := Evaluate("flag < true", map[string]any{"flag": true})
	if err == nil || !strings.Contains(err.Error(), "operator < is not defined for true") {
		t.Fatalf("expected operator error, got %v", err)
	}
}
