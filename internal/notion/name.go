// Package notion models the shape of a Notion export: raw file and folder
// names carrying the export's identifier suffixes, and the cleaning rules
// that turn them into vault-safe display names.
package notion

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// illegalChars are characters Obsidian (and common filesystems) reject in
// file names. Each occurrence is replaced with a space.
const illegalChars = `*"/\<>:|?`

// Clean converts a raw exported name into its display form: illegal
// characters and underscores become spaces, whitespace collapses to single
// spaces, and the trailing identifier token is removed. Normalization runs
// before the trim, so any whitespace separates a name from its identifier.
//
// Clean is idempotent and never returns an empty string: a name that is
// nothing but its identifier keeps the identifier, and a name of only
// illegal characters becomes "untitled".
func Clean(raw string) string {
	s := collapse(replaceIllegal(raw))
	s, stripped := TrimIdentifier(s)
	if s == "" && stripped {
		// The whole name was an identifier token; keep it rather than
		// produce an empty segment.
		s = collapse(replaceIllegal(raw))
	}
	if s == "" {
		s = "untitled"
	}
	return s
}

// CleanFileName cleans a file name while preserving its extension.
// "Image_file_<id>.png" becomes "Image file.png".
func CleanFileName(raw string) string {
	ext := path.Ext(raw)
	stem := strings.TrimSuffix(raw, ext)
	if stem == "" {
		// Dotfiles like ".gitignore" have no stem to clean.
		return Clean(raw)
	}
	return Clean(stem) + ext
}

// CleanPath cleans every segment of a slash-separated relative path.
// Relative markers ("." and "..") pass through untouched so the path keeps
// its structure.
func CleanPath(rel string) string {
	segs := strings.Split(rel, "/")
	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		if seg == "" || seg == "." || seg == ".." {
			out = append(out, seg)
			continue
		}
		out = append(out, CleanFileName(seg))
	}
	return strings.Join(out, "/")
}

// TrimIdentifier removes trailing identifier tokens from a name, along with
// the separator (space, underscore, or hyphen) that precedes them. It reports
// whether anything was removed. A name consisting of nothing but a token
// trims to the empty string.
func TrimIdentifier(name string) (string, bool) {
	trimmed := false
	for {
		name = strings.TrimRight(name, " \t")
		s, ok := trimOneIdentifier(name)
		if !ok {
			return name, trimmed
		}
		name = s
		trimmed = true
	}
}

// trimOneIdentifier removes a single trailing token, if present.
func trimOneIdentifier(name string) (string, bool) {
	for _, n := range []int{36, 32} {
		if len(name) < n {
			continue
		}
		tail := name[len(name)-n:]
		if !isIdentifier(tail) {
			continue
		}
		head := name[:len(name)-n]
		if head == "" {
			return "", true
		}
		switch head[len(head)-1] {
		case ' ', '_', '-':
			return strings.TrimRight(head, " _-"), true
		}
	}
	return name, false
}

// isIdentifier reports whether s is a Notion identifier token: a 32-digit
// hexadecimal run or its dashed 8-4-4-4-12 form, in either case.
func isIdentifier(s string) bool {
	if len(s) != 32 && len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

func replaceIllegal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(illegalChars, r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// collapse normalizes underscores to spaces and squeezes whitespace runs
// down to single spaces, trimming the ends.
func collapse(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}
