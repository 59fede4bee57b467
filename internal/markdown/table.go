package markdown

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pfassina/molt/internal/notion"
	"github.com/pfassina/molt/internal/vault"
)

// Database cells reference sibling pages by relative path with no link
// syntax around them. Commas and newlines end the match so one cell never
// bleeds into the next.
var barePathRe = regexp.MustCompile(`\.\./[^,\n\r]*\.md`)

// RewriteCell rewrites one tabular cell: regular link rewriting first, then
// bare relative paths.
func RewriteCell(cell string, reg *vault.Registry) (string, []string) {
	out, unresolved := Rewrite(cell, reg)

	out = barePathRe.ReplaceAllStringFunc(out, func(m string) string {
		repl, miss := rewriteBarePath(m, reg)
		if miss != "" {
			unresolved = append(unresolved, miss)
		}
		return repl
	})
	return out, unresolved
}

func rewriteBarePath(m string, reg *vault.Registry) (repl, miss string) {
	decoded, err := url.PathUnescape(m)
	if err != nil {
		return m, m
	}
	rel := stripDotSegments(decoded)
	if target, found := reg.Resolve(rel); found {
		return "[[" + wikiTarget(target) + "]]", ""
	}
	return "[[" + wikiTarget(notion.CleanPath(rel)) + "]]", decoded
}

// RenderTable renders parsed rows as a markdown table. The first row is the
// header; a separator row is synthesized under it. Short rows pad to the
// header width, long rows truncate to it, and every cell passes through the
// link rewriter.
func RenderTable(rows [][]string, reg *vault.Registry) (string, []string) {
	if len(rows) == 0 {
		return "Empty table", nil
	}

	var unresolved []string
	cells := make([][]string, len(rows))
	for i, row := range rows {
		out := make([]string, len(row))
		for j, cell := range row {
			c, miss := RewriteCell(cell, reg)
			out[j] = c
			unresolved = append(unresolved, miss...)
		}
		cells[i] = out
	}

	header := cells[0]
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}

	lines := make([]string, 0, len(cells)+1)
	lines = append(lines, tableRow(header), tableRow(sep))
	for _, row := range cells[1:] {
		for len(row) < len(header) {
			row = append(row, "")
		}
		lines = append(lines, tableRow(row[:len(header)]))
	}
	return strings.Join(lines, "\n"), unresolved
}

func tableRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}
