package markdown

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// region is a half-open [start, end) byte range within a source blob.
type region struct {
	start, end int
}

var codeMD = goldmark.New()

// codeRegions locates every fenced block, indented block, and inline code
// span in source as byte ranges. The rewriter leaves those ranges untouched:
// a link inside example code is content, not a reference.
func codeRegions(source []byte) []region {
	doc := codeMD.Parser().Parse(text.NewReader(source))
	return regionsOf(doc)
}

func regionsOf(doc ast.Node) []region {
	var regions []region

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			lines := n.Lines()
			if lines.Len() == 0 {
				return ast.WalkSkipChildren, nil
			}
			first := lines.At(0)
			last := lines.At(lines.Len() - 1)
			regions = append(regions, region{start: first.Start, end: last.Stop})
			return ast.WalkSkipChildren, nil

		case ast.KindCodeSpan:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					regions = append(regions, region{start: t.Segment.Start, end: t.Segment.Stop})
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return regions
}

// inCode reports whether the byte range [start, end) overlaps any region.
func inCode(regions []region, start, end int) bool {
	for _, r := range regions {
		if start < r.end && end > r.start {
			return true
		}
	}
	return false
}
