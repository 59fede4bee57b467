package markdown

import (
	"bufio"
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// Parser wraps goldmark for markdown processing.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(),
	}
}

// Parse parses markdown content and returns extracted metadata. Wikilinks
// that sit inside code blocks or inline code are dropped; those are content,
// not references.
func (p *Parser) Parse(content []byte) *ParsedNote {
	reader := text.NewReader(content)
	doc := p.md.Parser().Parse(reader)
	code := regionsOf(doc)

	note := &ParsedNote{
		Content: content,
	}

	note.Frontmatter = ExtractFrontmatter(content)
	note.Headings = ExtractHeadings(content)
	note.WikiLinks = dropCodeLinks(ExtractWikiLinks(content), content, code)
	return note
}

func dropCodeLinks(links []WikiLink, content []byte, code []region) []WikiLink {
	if len(code) == 0 || len(links) == 0 {
		return links
	}
	starts := lineStarts(content)

	kept := links[:0]
	for _, l := range links {
		if l.Line-1 < len(starts) {
			off := starts[l.Line-1] + l.Col
			if inCode(code, off, off+2) {
				continue
			}
		}
		kept = append(kept, l)
	}
	return kept
}

func lineStarts(content []byte) []int {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineScanner returns a line scanner whose buffer can hold the whole input.
// The bufio default caps lines at 64KB; an export note can carry a longer
// one (pasted base64, minified HTML), and a capped scanner stops there
// without reading the rest.
func lineScanner(content []byte) *bufio.Scanner {
	s := bufio.NewScanner(bytes.NewReader(content))
	s.Buffer(nil, len(content)+1)
	return s
}

// ParsedNote contains extracted metadata from a markdown file.
type ParsedNote struct {
	Content     []byte
	Frontmatter *Frontmatter
	Headings    []Heading
	WikiLinks   []WikiLink
}

// PlainContent returns the note content without frontmatter.
func (pn *ParsedNote) PlainContent() string {
	if pn.Frontmatter != nil && pn.Frontmatter.EndLine > 0 {
		lines := bytes.Split(pn.Content, []byte("\n"))
		if pn.Frontmatter.EndLine < len(lines) {
			return string(bytes.Join(lines[pn.Frontmatter.EndLine:], []byte("\n")))
		}
	}
	return string(pn.Content)
}
