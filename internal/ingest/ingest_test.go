package ingest

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.json"), `{"text":"TEA 1.20"}`)
	writeFile(t, filepath.Join(root, "nested", "b.txt"), "BURGER 8.50")
	writeFile(t, filepath.Join(root, "nested", "copy.json"), `{"text":"TEA 1.20"}`)
	writeFile(t, filepath.Join(root, "notes.md"), "ignored")
	writeFile(t, filepath.Join(root, ".hidden", "c.json"), `{"text":"X"}`)

	files, stats, err := ScanDirectory(root, true, testLogger())
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}

	var got []string
	for _, f := range files {
		rel, _ := filepath.Rel(root, f.Path)
		if f.Deduplicated {
			rel += " (dup)"
		}
		got = append(got, rel)
	}
	want := []string{"a.json", filepath.Join("nested", "b.txt"), filepath.Join("nested", "copy.json") + " (dup)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if stats.Matched != 3 || stats.Deduplicated != 1 || stats.Failed != 0 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestScanDirectoryRequiresRoot(t *testing.T) {
	if _, _, err := ScanDirectory("  ", true, nil); err == nil {
		t.Fatal("expected error for empty root")
	}
}

func TestWatchEmitsInitialAndNewFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "existing.json"), `{"text":"TEA 1.20"}`)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := Watch(ctx, WatchConfig{Roots: []string{root}, InitialScan: true}, testLogger())
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	next := func() string {
		select {
		case p := <-events:
			return filepath.Base(p)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watcher event")
			return ""
		}
	}
	if got := next(); got != "existing.json" {
		t.Fatalf("first event = %s", got)
	}

	writeFile(t, filepath.Join(root, "new.txt"), "BURGER 8.50")
	writeFile(t, filepath.Join(root, "skip.md"), "ignored")

	seen := map[string]bool{}
	deadline := time.After(5 * time.Second)
	for !seen["new.txt"] {
		select {
		case p := <-events:
			seen[filepath.Base(p)] = true
		case <-deadline:
			t.Fatal("timed out waiting for new.txt")
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if n == "skip.md" {
			t.Fatalf("unsupported file emitted: %v", names)
		}
	}

	cancel()
	for range events {
	}
}
