package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

const (
	testID  = "2d41ab7b61d14cec885357ab17d48536"
	testID2 = "9f8e7d6c5b4a39281706f5e4d3c2b1a0"
)

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readDest(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func TestRun(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	csvBody := "Name,Related\nFirst,../Page%20One%20" + testID + ".md\n"
	writeSource(t, src, "Page One "+testID+".md",
		"[Page Two](Sub%20Dir%20"+testID2+"/Page%20Two%20"+testID+".md)\n\nSee https://example.com\n")
	writeSource(t, src, "Sub Dir "+testID2+"/Page Two "+testID+".md",
		"Back to [Page One](../Page%20One%20"+testID+".md)\n")
	writeSource(t, src, "Tasks "+testID+".csv", csvBody)
	writeSource(t, src, "assets "+testID2+"/logo.png", "not really a png")

	var progressed int
	m := New(Options{
		Source: src,
		Dest:   dst,
		Tables: true,
		Progress: func(action, target string) {
			progressed++
		},
	})
	stats, err := m.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if progressed != 4 {
		t.Errorf("progress calls: got %d, want 4", progressed)
	}

	if stats.Notes != 2 {
		t.Errorf("notes: got %d, want 2", stats.Notes)
	}
	if stats.Tables != 1 {
		t.Errorf("tables: got %d, want 1", stats.Tables)
	}
	if stats.Copied != 1 {
		t.Errorf("copied: got %d, want 1", stats.Copied)
	}
	if stats.Failed != 0 {
		t.Errorf("failed: got %d, want 0", stats.Failed)
	}
	if stats.Unresolved != 0 {
		t.Errorf("unresolved: got %d, want 0", stats.Unresolved)
	}
	if got := stats.Processed(); got != 4 {
		t.Errorf("processed: got %d, want 4", got)
	}

	// Forward reference: Page One is visited first but links to Page Two.
	got := readDest(t, dst, "Page One.md")
	want := "[[Page Two]]\n\nSee https://example.com\n"
	if got != want {
		t.Errorf("Page One.md:\ngot:  %q\nwant: %q", got, want)
	}

	got = readDest(t, dst, "Sub Dir/Page Two.md")
	want = "Back to [[Page One]]\n"
	if got != want {
		t.Errorf("Page Two.md:\ngot:  %q\nwant: %q", got, want)
	}

	// Tabular: verbatim copy plus rendered table.
	if got := readDest(t, dst, "Tasks.csv"); got != csvBody {
		t.Errorf("Tasks.csv not copied verbatim: %q", got)
	}
	got = readDest(t, dst, "Tasks.md")
	want = "# Tasks\n\n| Name | Related |\n| --- | --- |\n| First | [[Page One]] |\n"
	if got != want {
		t.Errorf("Tasks.md:\ngot:  %q\nwant: %q", got, want)
	}

	if got := readDest(t, dst, "assets/logo.png"); got != "not really a png" {
		t.Errorf("logo.png not copied verbatim: %q", got)
	}
}

func TestRunTablesDisabled(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeSource(t, src, "Tasks "+testID+".csv", "a,b\n1,2\n")

	m := New(Options{Source: src, Dest: dst})
	stats, err := m.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Copied != 1 || stats.Tables != 0 {
		t.Errorf("stats = %+v, want copy only", stats)
	}
	if _, err := os.Stat(filepath.Join(dst, "Tasks.md")); !os.IsNotExist(err) {
		t.Error("table file written with tables disabled")
	}
}

func TestRunUnresolvedAndCollision(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	// Both sources clean to A.md; the later one wins the target.
	writeSource(t, src, "A "+testID+".md", "[Ghost](Ghost%20"+testID2+".md)\n")
	writeSource(t, src, "A "+testID2+".md", "second\n")

	m := New(Options{Source: src, Dest: dst})
	stats, err := m.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stats.Notes != 2 {
		t.Errorf("notes: got %d, want 2", stats.Notes)
	}
	if stats.Unresolved != 1 {
		t.Errorf("unresolved: got %d, want 1", stats.Unresolved)
	}
	if got := readDest(t, dst, "A.md"); got != "second\n" {
		t.Errorf("A.md: got %q, want later file's content", got)
	}
}

func TestRunFormat(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	writeSource(t, src, "Note "+testID+".md", "Hello   \n# Heading\n")

	m := New(Options{Source: src, Dest: dst, Format: true})
	if _, err := m.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := readDest(t, dst, "Note.md")
	want := "Hello\n\n# Heading\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunMissingSource(t *testing.T) {
	m := New(Options{Source: filepath.Join(t.TempDir(), "nope"), Dest: t.TempDir()})
	if _, err := m.Run(); err == nil {
		t.Fatal("expected error for missing source")
	}
}
