package markdown

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	reg := rewriteRegistry()

	tests := []struct {
		name string
		rows [][]string
		want []string
		miss int
	}{
		{
			name: "three by three with one link cell",
			rows: [][]string{
				{"Name", "Tags", "Related"},
				{"First", "a", "../Another%20Page%20" + rewriteID + ".md"},
				{"Second", "b", "plain text"},
			},
			want: []string{
				"| Name | Tags | Related |",
				"| --- | --- | --- |",
				"| First | a | [[Another Page]] |",
				"| Second | b | plain text |",
			},
		},
		{
			name: "empty input",
			rows: nil,
			want: []string{"Empty table"},
		},
		{
			name: "short row padded to header width",
			rows: [][]string{
				{"A", "B", "C"},
				{"only"},
			},
			want: []string{
				"| A | B | C |",
				"| --- | --- | --- |",
				"| only |  |  |",
			},
		},
		{
			name: "long row truncated to header width",
			rows: [][]string{
				{"A", "B"},
				{"1", "2", "3"},
			},
			want: []string{
				"| A | B |",
				"| --- | --- |",
				"| 1 | 2 |",
			},
		},
		{
			name: "header cells rewritten too",
			rows: [][]string{
				{"../Another%20Page%20" + rewriteID + ".md", "B"},
			},
			want: []string{
				"| [[Another Page]] | B |",
				"| --- | --- |",
			},
		},
		{
			name: "unresolved cell still converts",
			rows: [][]string{
				{"Related"},
				{"../Ghost%20" + rewriteID2 + ".md"},
			},
			want: []string{
				"| Related |",
				"| --- |",
				"| [[Ghost]] |",
			},
			miss: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, miss := RenderTable(tt.rows, reg)
			want := strings.Join(tt.want, "\n")
			if got != want {
				t.Errorf("got:\n%s\nwant:\n%s", got, want)
			}
			if len(miss) != tt.miss {
				t.Errorf("got %d unresolved (%v), want %d", len(miss), miss, tt.miss)
			}
		})
	}
}

func TestRewriteCell(t *testing.T) {
	reg := rewriteRegistry()

	tests := []struct {
		name string
		cell string
		want string
	}{
		{
			name: "bare encoded path",
			cell: "../Another%20Page%20" + rewriteID + ".md",
			want: "[[Another Page]]",
		},
		{
			name: "bare path with raw spaces",
			cell: "../Team-Roster " + rewriteID2 + ".md",
			want: "[[Team-Roster]]",
		},
		{
			name: "inline link in cell",
			cell: "[Page](Another%20Page%20" + rewriteID + ".md)",
			want: "[[Another Page|Page]]",
		},
		{
			name: "plain cell untouched",
			cell: "just a value",
			want: "just a value",
		},
		{
			name: "external url in cell untouched",
			cell: "https://example.com/docs",
			want: "https://example.com/docs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := RewriteCell(tt.cell, reg)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
