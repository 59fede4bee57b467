package markdown

import (
	"regexp"
	"strings"
)

// linkKind tags one candidate link span found in a text blob. Classification
// happens in a fixed precedence order; spans never overlap.
type linkKind int

const (
	linkExternal linkKind = iota // known scheme, foreign host: untouched
	linkService                  // notion.so URL, bare or as a link target
	linkInline                   // [text](relative path)
	linkImage                    // ![alt](relative path)
)

// span is one classified occurrence within a text blob.
type span struct {
	start, end int
	kind       linkKind
	display    string // bracketed text ([text] or ![alt])
	target     string // link target or the bare URL itself
}

var (
	ipPrefixRe = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)
	schemeRe   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)
)

// isURL reports whether a link target is a URL rather than a relative path:
// it carries a scheme, or starts with a literal IP address. Scheme-only URIs
// like mailto: and tel: count; Notion emits those for typed emails and phone
// numbers, and percent-encodes a literal colon in a file path.
func isURL(target string) bool {
	return strings.Contains(target, "://") ||
		ipPrefixRe.MatchString(target) ||
		schemeRe.MatchString(target)
}

// isServiceURL reports whether a URL points at the source service itself.
func isServiceURL(target string) bool {
	host := hostOf(target)
	return host == "notion.so" || strings.HasSuffix(host, ".notion.so")
}

func hostOf(u string) string {
	idx := strings.Index(u, "://")
	if idx < 0 {
		return ""
	}
	rest := u[idx+3:]
	if end := strings.IndexAny(rest, "/?#"); end >= 0 {
		rest = rest[:end]
	}
	return strings.ToLower(rest)
}

// scanSpans walks text once, left to right, and collects every span the
// rewriter acts on. External URLs and unrecognized text produce no span at
// all, which leaves their bytes untouched.
func scanSpans(text string) []span {
	var spans []span

	for i := 0; i < len(text); {
		switch {
		case text[i] == '!' && i+1 < len(text) && text[i+1] == '[':
			display, target, end, ok := parseBracket(text, i+1)
			if !ok {
				i++
				continue
			}
			if isURL(target) {
				// Remote images stay remote, service-hosted or not;
				// wikilink syntax would break the embed.
				i = end
				continue
			}
			spans = append(spans, span{start: i, end: end, kind: linkImage, display: display, target: target})
			i = end

		case text[i] == '[':
			if i+1 < len(text) && text[i+1] == '[' {
				// Existing wikilink: leave it alone.
				if j := strings.Index(text[i+2:], "]]"); j >= 0 {
					i += 2 + j + 2
					continue
				}
			}
			display, target, end, ok := parseBracket(text, i)
			if !ok || display == "" {
				i++
				continue
			}
			if isURL(target) {
				if isServiceURL(target) {
					spans = append(spans, span{start: i, end: end, kind: linkService, display: display, target: target})
				}
				i = end
				continue
			}
			spans = append(spans, span{start: i, end: end, kind: linkInline, display: display, target: target})
			i = end

		case hasURLPrefix(text[i:]) && (i == 0 || !isAlnum(text[i-1])):
			end := i
			for end < len(text) && !isURLTerminator(text[end]) {
				end++
			}
			u := strings.TrimRight(text[i:end], ".,;:!?")
			if isServiceURL(u) {
				spans = append(spans, span{start: i, end: i + len(u), kind: linkService, target: u})
			}
			i = end

		default:
			i++
		}
	}

	return spans
}

// parseBracket parses [display](target) starting at the opening bracket.
// Returns the end offset one past the closing parenthesis.
func parseBracket(text string, i int) (display, target string, end int, ok bool) {
	bracket := strings.IndexByte(text[i+1:], ']')
	if bracket < 0 {
		return "", "", 0, false
	}
	bracket += i + 1
	if bracket+1 >= len(text) || text[bracket+1] != '(' {
		return "", "", 0, false
	}
	paren := strings.IndexByte(text[bracket+2:], ')')
	if paren < 0 {
		return "", "", 0, false
	}
	paren += bracket + 2

	display = text[i+1 : bracket]
	target = strings.TrimSpace(text[bracket+2 : paren])
	return display, target, paren + 1, true
}

func hasURLPrefix(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isURLTerminator(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '<', '>', '"', '\'', ')', ']', '`':
		return true
	}
	return false
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
