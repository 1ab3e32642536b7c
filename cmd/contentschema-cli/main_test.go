package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-contentschema/pkg/snapshot"
	"github.com/goliatone/go-contentschema/pkg/testsupport"
)

const heroJSX = `export function Hero() {
  return (
    <section>
      <h1 data-cms="home.hero.title" data-cms-required>Welcome</h1>
      <p data-cms="home.hero.subtitle">Build faster</p>
    </section>
  );
}
`

type harness struct {
	env    *environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness() *harness {
	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.env = &environment{stdout: h.stdout, stderr: h.stderr}
	return h
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return run(context.Background(), h.env, args)
}

func project(t *testing.T) (string, string) {
	t.Helper()
	src := t.TempDir()
	testsupport.WriteTree(t, src, map[string]string{"components/Hero.jsx": heroJSX})
	return src, filepath.Join(t.TempDir(), "cms")
}

func TestScan_WritesArtifacts(t *testing.T) {
	src, out := project(t)
	h := newHarness()

	if code := h.run("scan", "-source", src, "-output", out, "-openapi"); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, h.stderr.String())
	}
	for _, name := range []string{snapshot.SchemaFile, snapshot.TypesFile, snapshot.OpenAPIFile} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Fatalf("expected %s to be written: %v", name, err)
		}
	}
	if !strings.Contains(h.stdout.String(), "+ home.hero.title") {
		t.Fatalf("expected added field in report, got %q", h.stdout.String())
	}
}

func TestScan_DryRunWritesNothing(t *testing.T) {
	src, out := project(t)
	h := newHarness()

	if code := h.run("scan", "-source", src, "-output", out, "-dry-run"); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, h.stderr.String())
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("expected output dir to be absent, got %v", err)
	}
	if !strings.Contains(h.stdout.String(), "dry run") {
		t.Fatalf("expected dry run notice, got %q", h.stdout.String())
	}
}

func TestScan_ConfirmDeclined(t *testing.T) {
	src, out := project(t)
	h := newHarness()
	if code := h.run("scan", "-source", src, "-output", out); code != 0 {
		t.Fatalf("initial scan failed: %s", h.stderr.String())
	}
	before, err := os.ReadFile(snapshot.Path(out))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}

	testsupport.WriteTree(t, src, map[string]string{
		"components/Hero.jsx": `export const Hero = () => <h1 data-cms="home.hero.title">Hi</h1>;`,
	})
	var asked string
	h.env.confirm = func(message string) (bool, error) {
		asked = message
		return false, nil
	}

	if code := h.run("scan", "-source", src, "-output", out, "-confirm"); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, h.stderr.String())
	}
	if !strings.Contains(asked, "1 field(s) will be removed") {
		t.Fatalf("expected removal prompt, got %q", asked)
	}
	if !strings.Contains(h.stdout.String(), "snapshot not committed") {
		t.Fatalf("expected not committed notice, got %q", h.stdout.String())
	}
	after, err := os.ReadFile(snapshot.Path(out))
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !bytes.Equal(before, after) {
		t.Fatalf("expected snapshot to be left untouched")
	}
}

func TestDiff_ExitCode(t *testing.T) {
	src, out := project(t)
	h := newHarness()
	if code := h.run("scan", "-source", src, "-output", out); code != 0 {
		t.Fatalf("initial scan failed: %s", h.stderr.String())
	}

	if code := h.run("diff", "-source", src, "-output", out, "-exit-code"); code != 0 {
		t.Fatalf("expected exit 0 without changes, got %d", code)
	}
	if strings.TrimSpace(h.stdout.String()) != "No changes detected." {
		t.Fatalf("unexpected report %q", h.stdout.String())
	}

	testsupport.WriteTree(t, src, map[string]string{
		"components/Cta.jsx": `export const Cta = () => <a data-cms="home.cta.label">Go</a>;`,
	})
	if code := h.run("diff", "-source", src, "-output", out, "-exit-code"); code != 1 {
		t.Fatalf("expected exit 1 with changes, got %d", code)
	}
	if !strings.Contains(h.stdout.String(), "+ home.cta.label") {
		t.Fatalf("expected added field, got %q", h.stdout.String())
	}
}

func TestTypesAndValidate(t *testing.T) {
	src, out := project(t)
	h := newHarness()
	if code := h.run("scan", "-source", src, "-output", out, "-openapi"); code != 0 {
		t.Fatalf("initial scan failed: %s", h.stderr.String())
	}

	if code := h.run("types", "-output", out); code != 0 {
		t.Fatalf("types failed: %s", h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "export interface SiteContent {") {
		t.Fatalf("expected root interface, got %q", h.stdout.String())
	}

	if code := h.run("validate", "-output", out); code != 0 {
		t.Fatalf("validate failed: %s%s", h.stdout.String(), h.stderr.String())
	}
	if !strings.Contains(h.stdout.String(), "1 pages, 2 fields: ok") {
		t.Fatalf("unexpected validate output %q", h.stdout.String())
	}
}

func TestValidate_MissingSnapshot(t *testing.T) {
	h := newHarness()
	if code := h.run("validate", "-output", t.TempDir()); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(h.stderr.String(), "run scan first") {
		t.Fatalf("expected hint, got %q", h.stderr.String())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	h := newHarness()
	if code := h.run("watch"); code != 2 {
		t.Fatalf("expected exit 2, got %d", code)
	}
	if !strings.Contains(h.stderr.String(), `unknown command "watch"`) {
		t.Fatalf("unexpected stderr %q", h.stderr.String())
	}
}
