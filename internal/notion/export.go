package notion

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Kind classifies an exported file by how the migration handles it.
type Kind int

const (
	// KindText is a markdown page whose links get rewritten.
	KindText Kind = iota
	// KindTabular is a CSV database rendered to a markdown table.
	KindTabular
	// KindBinary is any other file, copied byte-for-byte.
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTabular:
		return "tabular"
	default:
		return "binary"
	}
}

// Item is one file in the export tree.
type Item struct {
	// SourceRel is the slash-separated path relative to the export root,
	// exactly as it appears on disk.
	SourceRel string
	Kind      Kind
}

// ScanExport walks the export tree and returns every file in lexicographic
// order. Hidden files and directories (macOS droppings, editor state) are
// skipped. The deterministic order matters: registration order decides which
// item wins a contested registry key.
func ScanExport(root string) ([]Item, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("export root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("export root %s is not a directory", root)
	}

	var items []Item
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && p != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		items = append(items, Item{
			SourceRel: filepath.ToSlash(rel),
			Kind:      KindForName(d.Name()),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan export: %w", err)
	}
	return items, nil
}

// KindForName classifies a file by its extension, case-insensitively.
func KindForName(name string) Kind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md":
		return KindText
	case ".csv":
		return KindTabular
	default:
		return KindBinary
	}
}
