package index

import (
	"os"
	"path/filepath"
	"testing"
)

func writeVaultFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return abs
}

func TestIndexAll(t *testing.T) {
	root := t.TempDir()

	writeVaultFile(t, root, "Page One.md", `---
title: Page One
tags: [project]
---

Links to [[Page Two]] and [[P2#Overview]] and [[Missing Note]].

![[diagram.png]]

See [[Page Two#Nope]].
`)
	writeVaultFile(t, root, "sub/Page Two.md", `---
aliases: [P2]
---

# Overview

Back to [[Page One]].
`)
	writeVaultFile(t, root, "assets/diagram.png", "\x89PNG")
	writeVaultFile(t, root, "orphan.md", "# Alone\n")
	writeVaultFile(t, root, ".obsidian/cache.md", "skip me")

	db, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	idx := NewIndexer(db, root)
	if err := idx.IndexAll(); err != nil {
		t.Fatal(err)
	}

	notes, files, links, err := db.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if notes != 3 || files != 1 || links != 6 {
		t.Errorf("counts: got %d/%d/%d, want 3/1/6", notes, files, links)
	}

	// Name lookup
	path, err := db.FindNote("Page Two")
	if err != nil {
		t.Fatal(err)
	}
	if path != "sub/Page Two.md" {
		t.Errorf("FindNote: got %q, want %q", path, "sub/Page Two.md")
	}

	// Backlinks include the alias-routed link
	backlinks, err := db.GetBacklinks("sub/Page Two.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(backlinks) != 3 {
		t.Fatalf("expected 3 backlinks, got %d", len(backlinks))
	}
	for _, bl := range backlinks {
		if bl.SourcePath != "Page One.md" {
			t.Errorf("backlink source: got %q, want %q", bl.SourcePath, "Page One.md")
		}
	}

	// The embed resolves against the asset row
	var resolvedEmbeds int
	err = db.Conn().QueryRow(
		"SELECT COUNT(*) FROM links WHERE embed = 1 AND target_id IS NOT NULL",
	).Scan(&resolvedEmbeds)
	if err != nil {
		t.Fatal(err)
	}
	if resolvedEmbeds != 1 {
		t.Errorf("resolved embeds: got %d, want 1", resolvedEmbeds)
	}

	// Doctor report
	report, err := db.Doctor()
	if err != nil {
		t.Fatal(err)
	}
	if report.Healthy() {
		t.Error("expected unhealthy report")
	}
	if len(report.Unresolved) != 1 || report.Unresolved[0].Target != "Missing Note" {
		t.Errorf("unresolved: got %+v, want one entry for Missing Note", report.Unresolved)
	}
	if len(report.MissingSections) != 1 || report.MissingSections[0].Section != "Nope" {
		t.Errorf("missing sections: got %+v, want one entry for Nope", report.MissingSections)
	}
	if len(report.Orphans) != 1 || report.Orphans[0] != "orphan.md" {
		t.Errorf("orphans: got %v, want [orphan.md]", report.Orphans)
	}
}

func TestIndexAllRefresh(t *testing.T) {
	root := t.TempDir()

	abs := writeVaultFile(t, root, "a.md", "Link to [[b]].\n")
	writeVaultFile(t, root, "b.md", "No links here.\n")

	db, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	idx := NewIndexer(db, root)
	if err := idx.IndexAll(); err != nil {
		t.Fatal(err)
	}

	notes, _, links, err := db.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if notes != 2 || links != 1 {
		t.Errorf("counts: got %d notes %d links, want 2/1", notes, links)
	}

	// Drop the link and re-index; no rows should linger or duplicate.
	if err := os.WriteFile(abs, []byte("No more links.\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := idx.IndexAll(); err != nil {
		t.Fatal(err)
	}

	notes, _, links, err = db.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if notes != 2 || links != 0 {
		t.Errorf("counts after refresh: got %d notes %d links, want 2/0", notes, links)
	}
}

func TestIndexAllPrunesDeleted(t *testing.T) {
	root := t.TempDir()

	abs := writeVaultFile(t, root, "doomed.md", "# Doomed\n\nSearchable xylophone.\n")
	writeVaultFile(t, root, "keeper.md", "Link to [[doomed]].\n")

	db, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	idx := NewIndexer(db, root)
	if err := idx.IndexAll(); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(abs); err != nil {
		t.Fatal(err)
	}
	if err := idx.IndexAll(); err != nil {
		t.Fatal(err)
	}

	notes, _, _, err := db.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if notes != 1 {
		t.Errorf("notes after prune: got %d, want 1", notes)
	}

	// The FTS row goes with the note
	results, err := db.Search("xylophone", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("expected no search hits for pruned note, got %d", len(results))
	}

	// The link from keeper.md is unresolved again
	report, err := db.Doctor()
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Unresolved) != 1 || report.Unresolved[0].Target != "doomed" {
		t.Errorf("unresolved: got %+v, want one entry for doomed", report.Unresolved)
	}
}

func TestRemoveFile(t *testing.T) {
	root := t.TempDir()

	abs := writeVaultFile(t, root, "gone.md", "bye\n")
	writeVaultFile(t, root, "stays.md", "hi\n")

	db, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	idx := NewIndexer(db, root)
	if err := idx.IndexAll(); err != nil {
		t.Fatal(err)
	}
	if err := idx.RemoveFile(abs); err != nil {
		t.Fatal(err)
	}

	notes, _, _, err := db.Counts()
	if err != nil {
		t.Fatal(err)
	}
	if notes != 1 {
		t.Errorf("notes after remove: got %d, want 1", notes)
	}

	path, err := db.FindNote("gone")
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("expected gone.md to be unindexed, found %q", path)
	}
}
