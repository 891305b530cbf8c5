package team

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileArchiverWritesHistory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	a := &FileArchiver{Dir: dir}

	if err := a.Archive(context.Background(), []string{"round 1", "round 2"}); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 archive file, got %d", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "round 1\nround 2\n" {
		t.Fatalf("unexpected archive contents: %q", data)
	}
}

func TestFileArchiverKeepsConcurrentRunsApart(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "history")
	a := &FileArchiver{Dir: dir}

	if err := a.Archive(context.Background(), []string{"first run"}); err != nil {
		t.Fatal(err)
	}
	if err := a.Archive(context.Background(), []string{"second run"}); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("runs archived back to back must not overwrite, got %d files", len(entries))
	}
}
