package markdown

import (
	"strings"
)

// Format applies deterministic formatting to migrated markdown.
// Rules:
//   - Normalize heading spacing (blank line before, one space after #)
//   - Trim trailing whitespace
//   - Ensure single trailing newline
//   - Normalize blank lines (max 2 consecutive)
//   - Preserve frontmatter and fenced code blocks as-is
//
// Exports tend to arrive with stray trailing spaces and uneven blank
// lines; this pass is optional so a migration can stay byte-faithful.
func Format(content []byte) []byte {
	scanner := lineScanner(content)
	var lines []string
	var fenced []bool

	inFrontmatter := false
	inFence := false
	fenceMarker := ""
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if lineNum == 1 && strings.TrimSpace(line) == "---" {
			inFrontmatter = true
			lines = append(lines, line)
			fenced = append(fenced, true)
			continue
		}
		if inFrontmatter {
			lines = append(lines, line)
			fenced = append(fenced, true)
			if strings.TrimSpace(line) == "---" {
				inFrontmatter = false
			}
			continue
		}

		// Fenced code keeps its bytes; a # inside a fence is a comment,
		// not a heading.
		if inFence {
			lines = append(lines, line)
			fenced = append(fenced, true)
			if fenceClose(line, fenceMarker) {
				inFence = false
			}
			continue
		}
		if marker := fenceOpen(line); marker != "" {
			inFence = true
			fenceMarker = marker
			lines = append(lines, line)
			fenced = append(fenced, true)
			continue
		}

		line = strings.TrimRight(line, " \t")
		if isHeading(line) {
			line = normalizeHeading(line)
		}

		lines = append(lines, line)
		fenced = append(fenced, false)
	}

	lines = normalizeBlankLines(lines, fenced)

	result := strings.Join(lines, "\n")
	result = strings.TrimRight(result, "\n") + "\n"
	return []byte(result)
}

// fenceOpen returns the fence marker when line opens a fenced code block.
func fenceOpen(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	for _, marker := range []string{"```", "~~~"} {
		if strings.HasPrefix(trimmed, marker) {
			return marker
		}
	}
	return ""
}

func fenceClose(line, marker string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, marker) && strings.TrimRight(trimmed, string(marker[0])) == ""
}

func isHeading(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	return strings.HasPrefix(trimmed, "#")
}

func normalizeHeading(line string) string {
	trimmed := strings.TrimLeft(line, " ")

	level := 0
	for _, ch := range trimmed {
		if ch == '#' {
			level++
		} else {
			break
		}
	}
	if level > 6 || level == 0 {
		return line
	}

	text := strings.TrimSpace(trimmed[level:])
	// Remove trailing # markers
	text = strings.TrimRight(text, "# ")
	text = strings.TrimSpace(text)

	if text == "" {
		return strings.Repeat("#", level)
	}
	return strings.Repeat("#", level) + " " + text
}

// normalizeBlankLines collapses runs of blank lines and inserts one before
// each heading. Lines flagged as fenced (frontmatter or code) pass through.
func normalizeBlankLines(lines []string, fenced []bool) []string {
	var result []string
	consecutiveBlanks := 0

	for i, line := range lines {
		if fenced[i] {
			result = append(result, line)
			consecutiveBlanks = 0
			continue
		}

		if strings.TrimSpace(line) == "" {
			consecutiveBlanks++
			if consecutiveBlanks <= 2 {
				result = append(result, line)
			}
			continue
		}

		if isHeading(line) && len(result) > 0 {
			lastLine := result[len(result)-1]
			if strings.TrimSpace(lastLine) != "" && !strings.HasPrefix(strings.TrimSpace(lastLine), "---") {
				result = append(result, "")
			}
		}
		consecutiveBlanks = 0
		result = append(result, line)
	}

	return result
}
