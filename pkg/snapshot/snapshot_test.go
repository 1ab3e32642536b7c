package snapshot_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-contentschema/pkg/generator"
	"github.com/goliatone/go-contentschema/pkg/schema"
	"github.com/goliatone/go-contentschema/pkg/snapshot"
)

func sample(paths ...string) schema.ProjectSchema {
	var fields []schema.DetectedField
	for i, p := range paths {
		fields = append(fields, schema.DetectedField{Path: p, Source: schema.Location{File: "src/App.tsx", Line: i + 1, Column: 1}})
	}
	return generator.Generate(fields, generator.Options{
		Now: func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
}

func TestWriteAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	s := sample("home.hero.title", "home.hero.subtitle")

	path, err := snapshot.Write(s, dir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, snapshot.SchemaFile), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), "{\n  \"version\""), "expected pretty output, got %s", raw)

	got := snapshot.Read(dir)
	require.NotNil(t, got)
	if diff := cmp.Diff(s, *got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_CompactAndIndent(t *testing.T) {
	dir := t.TempDir()
	s := sample("home.hero.title")

	path, err := snapshot.Write(s, dir, snapshot.WithPretty(false))
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, strings.Count(string(raw), "\n"))

	path, err = snapshot.Write(s, dir, snapshot.WithIndent(4))
	require.NoError(t, err)
	raw, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(raw), "\n    \"version\"")
}

func TestRead_MissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, snapshot.Read(dir))

	require.NoError(t, os.WriteFile(snapshot.Path(dir), []byte("{not json"), 0o644))
	require.Nil(t, snapshot.Read(dir))
}

func TestCommit_DiffsAgainstPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()

	_, first, err := snapshot.Commit(sample("home.hero.title", "home.hero.subtitle"), dir)
	require.NoError(t, err)
	require.Len(t, first.Added, 2)

	_, second, err := snapshot.Commit(sample("home.hero.title", "home.hero.image"), dir)
	require.NoError(t, err)
	require.Len(t, second.Added, 1)
	require.Equal(t, "home.hero.image", second.Added[0].Path)
	require.Len(t, second.Removed, 1)
	require.Equal(t, "home.hero.subtitle", second.Removed[0].Path)

	current := snapshot.Read(dir)
	require.NotNil(t, current)
	require.Equal(t, 2, current.TotalFields)
}

func TestWriteTypes(t *testing.T) {
	dir := t.TempDir()
	path, err := snapshot.WriteTypes("export interface SiteContent {}\n", dir)
	require.NoError(t, err)
	require.Equal(t, snapshot.TypesFile, filepath.Base(path))
}
