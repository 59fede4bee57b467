package markdown

import (
	"strings"
)

// Frontmatter represents YAML frontmatter.
type Frontmatter struct {
	Title   string
	Tags    []string
	Aliases []string
	Raw     map[string]string
	EndLine int // 1-based line of the closing --- delimiter
}

// ExtractFrontmatter parses YAML frontmatter from markdown content.
// Supports the common --- delimited format. Aliases matter to link
// resolution: a note is reachable under every alias it declares.
func ExtractFrontmatter(content []byte) *Frontmatter {
	scanner := lineScanner(content)

	// First line must be ---
	if !scanner.Scan() {
		return nil
	}
	if strings.TrimSpace(scanner.Text()) != "---" {
		return nil
	}

	fm := &Frontmatter{
		Raw: make(map[string]string),
	}

	lineNum := 1
	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if strings.TrimSpace(line) == "---" {
			fm.EndLine = lineNum
			break
		}

		// Simple key: value parsing
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		fm.Raw[key] = val

		switch key {
		case "title":
			fm.Title = val
		case "tags":
			fm.Tags = parseList(val)
		case "aliases":
			fm.Aliases = parseList(val)
		}
	}

	if fm.EndLine == 0 {
		return nil // unclosed frontmatter
	}

	return fm
}

// parseList parses [a, b] or a, b into elements.
func parseList(val string) []string {
	val = strings.Trim(val, "[]")
	var items []string
	for _, item := range strings.Split(val, ",") {
		item = strings.TrimSpace(item)
		item = strings.Trim(item, `"'`)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
