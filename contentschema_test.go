package contentschema_test

import (
	"os"
	"testing"

	contentschema "github.com/goliatone/go-contentschema"
	"github.com/goliatone/go-contentschema/pkg/orchestrator"
	"github.com/goliatone/go-contentschema/pkg/snapshot"
	"github.com/goliatone/go-contentschema/pkg/testsupport"
)

func TestScanAndGenerate(t *testing.T) {
	src, out := t.TempDir(), t.TempDir()
	testsupport.WriteTree(t, src, map[string]string{
		"index.html": `<h1 data-cms="home.hero.title">Hello</h1><p data-cms="home.hero.body" data-cms-type="textarea">Body</p>`,
	})
	clock := orchestrator.WithClock(testsupport.Now)

	scanned, err := contentschema.Scan(testsupport.Context(), src, "", clock)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if scanned.Committed {
		t.Fatalf("expected scan not to commit")
	}
	if scanned.Schema.TotalFields != 2 {
		t.Fatalf("expected 2 fields, got %d", scanned.Schema.TotalFields)
	}
	var body contentschema.FieldSchema
	for _, field := range scanned.Schema.Fields() {
		if field.Path == "home.hero.body" {
			body = field
		}
	}
	if body.Type != contentschema.FieldType("textarea") {
		t.Fatalf("expected textarea, got %q", body.Type)
	}

	generated, err := contentschema.Generate(testsupport.Context(), src, out, clock)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !generated.Committed || len(generated.Diff.Added) != 2 {
		t.Fatalf("expected committed run adding 2 fields, got %+v", generated.Diff)
	}
	if _, err := os.Stat(snapshot.Path(out)); err != nil {
		t.Fatalf("expected snapshot: %v", err)
	}

	again, err := contentschema.Scan(testsupport.Context(), src, out, clock)
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if again.Diff.HasChanges {
		t.Fatalf("expected no changes after commit, got %+v", again.Diff)
	}
}
