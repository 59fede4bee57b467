package index

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"github.com/pfassina/molt/internal/markdown"
	"github.com/pfassina/molt/internal/vault"
)

// Indexer manages the vault indexing pipeline.
type Indexer struct {
	db        *DB
	parser    *markdown.Parser
	vaultRoot string
}

func NewIndexer(db *DB, vaultRoot string) *Indexer {
	return &Indexer{
		db:        db,
		parser:    markdown.NewParser(),
		vaultRoot: vaultRoot,
	}
}

// IndexAll performs a full index of the vault. Notes are parsed; every
// other file gets a path row so links and embeds pointing at it resolve.
// Link targets are resolved only after the whole walk, because a link can
// name a note visited later. Rows for files no longer on disk are pruned.
func (idx *Indexer) IndexAll() error {
	// Clear links and hashes so all files get fully re-indexed.
	// Links are derived data rebuilt from source on each IndexFile call.
	if _, err := idx.db.Conn().Exec("DELETE FROM links"); err != nil {
		return fmt.Errorf("clear links: %w", err)
	}
	if _, err := idx.db.Conn().Exec("UPDATE notes SET hash = ''"); err != nil {
		return fmt.Errorf("clear hashes: %w", err)
	}

	seen := make(map[string]bool)
	err := filepath.Walk(idx.vaultRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		// Skip hidden directories and files
		if info.IsDir() && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			return nil
		}

		seen[idx.relPath(path)] = true
		return idx.IndexFile(path)
	})
	if err != nil {
		return err
	}

	if err := idx.pruneMissing(seen); err != nil {
		return err
	}
	return idx.resolveAll()
}

// IndexFile indexes a single file.
func (idx *Indexer) IndexFile(absPath string) error {
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", absPath, err)
	}

	relPath := idx.relPath(absPath)
	if !strings.EqualFold(filepath.Ext(absPath), ".md") {
		return idx.indexAsset(relPath, info)
	}
	return idx.indexNote(absPath, relPath, info)
}

func (idx *Indexer) relPath(absPath string) string {
	rel, err := filepath.Rel(idx.vaultRoot, absPath)
	if err != nil {
		return filepath.ToSlash(absPath)
	}
	return filepath.ToSlash(rel)
}

func (idx *Indexer) indexAsset(relPath string, info os.FileInfo) error {
	title := vault.Stem(relPath)
	if _, err := idx.db.UpsertNote(relPath, title, slug.Make(title), KindFile, "", info.ModTime().Unix(), info.Size()); err != nil {
		return fmt.Errorf("upsert asset: %w", err)
	}
	return nil
}

func (idx *Indexer) indexNote(absPath, relPath string, info os.FileInfo) error {
	content, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", absPath, err)
	}

	// Check if file has changed
	hash := fmt.Sprintf("%x", sha256.Sum256(content))
	existingHash, _ := idx.db.GetNoteHash(relPath)
	if hash == existingHash {
		return nil // unchanged
	}

	parsed := idx.parser.Parse(content)

	title := vault.Stem(relPath)
	var tags, aliases []string
	if parsed.Frontmatter != nil {
		if parsed.Frontmatter.Title != "" {
			title = parsed.Frontmatter.Title
		}
		tags = parsed.Frontmatter.Tags
		aliases = parsed.Frontmatter.Aliases
	}

	noteID, err := idx.db.UpsertNote(relPath, title, slug.Make(title), KindNote, hash, info.ModTime().Unix(), info.Size())
	if err != nil {
		return fmt.Errorf("upsert note: %w", err)
	}

	// Update FTS
	headingTexts := make([]string, len(parsed.Headings))
	for i, h := range parsed.Headings {
		headingTexts[i] = h.Text
	}
	if err := idx.db.UpdateFTS(noteID, title, parsed.PlainContent(), strings.Join(tags, " "), strings.Join(headingTexts, " ")); err != nil {
		return fmt.Errorf("update FTS: %w", err)
	}

	// Update tags
	if err := idx.db.ClearNoteTags(noteID); err != nil {
		return fmt.Errorf("clear note tags: %w", err)
	}
	for _, tag := range tags {
		tagID, err := idx.db.UpsertTag(tag)
		if err != nil {
			return fmt.Errorf("upsert tag %q: %w", tag, err)
		}
		if err := idx.db.LinkNoteTag(noteID, tagID); err != nil {
			return fmt.Errorf("link note tag %q: %w", tag, err)
		}
	}

	// Update aliases
	if err := idx.db.ClearNoteAliases(noteID); err != nil {
		return fmt.Errorf("clear note aliases: %w", err)
	}
	for _, alias := range aliases {
		if err := idx.db.InsertAlias(noteID, alias); err != nil {
			return fmt.Errorf("insert alias %q: %w", alias, err)
		}
	}

	// Update headings
	if err := idx.db.ClearNoteHeadings(noteID); err != nil {
		return fmt.Errorf("clear note headings: %w", err)
	}
	for _, h := range parsed.Headings {
		if err := idx.db.InsertHeading(noteID, h.Level, h.Text, h.Line); err != nil {
			return fmt.Errorf("insert heading %q: %w", h.Text, err)
		}
	}

	// Update links
	if err := idx.db.ClearNoteLinks(noteID); err != nil {
		return fmt.Errorf("clear note links: %w", err)
	}
	for _, link := range parsed.WikiLinks {
		if err := idx.db.InsertLink(noteID, link.Target, link.Section, link.Alias, link.Embed, link.Line, link.Col); err != nil {
			return fmt.Errorf("insert link to %q: %w", link.Target, err)
		}
	}

	return nil
}

// RemoveFile removes a file from the index.
func (idx *Indexer) RemoveFile(absPath string) error {
	return idx.db.DeleteNote(idx.relPath(absPath))
}

// pruneMissing drops index rows for paths the walk did not visit.
func (idx *Indexer) pruneMissing(seen map[string]bool) error {
	rows, err := idx.db.Conn().Query("SELECT path FROM notes")
	if err != nil {
		return err
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return err
		}
		if !seen[p] {
			stale = append(stale, p)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, p := range stale {
		if err := idx.db.DeleteNote(p); err != nil {
			return fmt.Errorf("prune %s: %w", p, err)
		}
	}
	return nil
}

// resolveAll sets target_id on every link whose canonical key matches a
// note, an asset, or a declared alias.
func (idx *Indexer) resolveAll() error {
	_, err := idx.db.Conn().Exec(`
		UPDATE links SET target_id = COALESCE(
			(SELECT id FROM notes WHERE name_key = links.target_key ORDER BY path LIMIT 1),
			(SELECT note_id FROM aliases WHERE alias_key = links.target_key LIMIT 1)
		) WHERE target_id IS NULL
	`)
	return err
}
