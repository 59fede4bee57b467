package markdown

import (
	"strings"
)

// Heading represents a markdown heading.
type Heading struct {
	Level int
	Text  string
	Line  int // 1-based line number
}

// ExtractHeadings extracts all ATX headings from markdown content.
// Frontmatter and fenced code blocks are skipped; a # inside a fence is a
// comment, not a heading.
func ExtractHeadings(content []byte) []Heading {
	var headings []Heading
	scanner := lineScanner(content)

	inFrontmatter := false
	inFence := false
	fenceMarker := ""
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Skip frontmatter
		if lineNum == 1 && strings.TrimSpace(line) == "---" {
			inFrontmatter = true
			continue
		}
		if inFrontmatter {
			if strings.TrimSpace(line) == "---" {
				inFrontmatter = false
			}
			continue
		}

		// Skip fenced code
		if inFence {
			if fenceClose(line, fenceMarker) {
				inFence = false
			}
			continue
		}
		if marker := fenceOpen(line); marker != "" {
			inFence = true
			fenceMarker = marker
			continue
		}

		// Match ATX headings: # Heading
		trimmed := strings.TrimLeft(line, " ")
		if !strings.HasPrefix(trimmed, "#") {
			continue
		}

		level := 0
		for _, ch := range trimmed {
			if ch == '#' {
				level++
			} else {
				break
			}
		}

		if level > 6 || level == 0 {
			continue
		}

		text := strings.TrimSpace(trimmed[level:])
		// Remove trailing # markers
		text = strings.TrimRight(text, "# ")
		text = strings.TrimSpace(text)

		if text != "" {
			headings = append(headings, Heading{
				Level: level,
				Text:  text,
				Line:  lineNum,
			})
		}
	}

	return headings
}
