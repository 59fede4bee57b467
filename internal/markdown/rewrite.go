package markdown

import (
	"net/url"
	"path"
	"strings"

	"github.com/pfassina/molt/internal/notion"
	"github.com/pfassina/molt/internal/vault"
)

// Rewrite converts every link in text into vault form: service URLs and
// relative note links become wikilinks, image paths are cleaned in place,
// external URLs and code regions stay byte for byte. It returns the
// rewritten text and the link targets that did not resolve against the
// registry.
func Rewrite(text string, reg *vault.Registry) (string, []string) {
	spans := scanSpans(text)
	if len(spans) == 0 {
		return text, nil
	}
	code := codeRegions([]byte(text))

	var b strings.Builder
	b.Grow(len(text))
	var unresolved []string
	last := 0

	for _, sp := range spans {
		if inCode(code, sp.start, sp.end) {
			continue
		}

		var repl, miss string
		var ok bool
		switch sp.kind {
		case linkService:
			repl, ok = rewriteService(sp, reg)
		case linkInline:
			repl, miss, ok = rewriteInline(sp, reg)
		case linkImage:
			repl, miss, ok = rewriteImage(sp, reg)
		}

		if miss != "" {
			unresolved = append(unresolved, miss)
		}
		if !ok {
			continue
		}
		b.WriteString(text[last:sp.start])
		b.WriteString(repl)
		last = sp.end
	}

	b.WriteString(text[last:])
	return b.String(), unresolved
}

// rewriteService turns a notion.so page URL into a wikilink on the page
// title. Display text is dropped: the recovered title is the better name.
func rewriteService(sp span, reg *vault.Registry) (string, bool) {
	title, ok := serviceTitle(sp.target)
	if !ok {
		return "", false
	}
	name := title
	if target, found := reg.Resolve(title); found {
		name = wikiTarget(target)
	}
	return "[[" + name + "]]", true
}

// serviceTitle recovers a page title from a service URL. The last path
// segment is the page slug: dash-separated words with the page identifier
// appended. A segment without both parts is not a page URL.
func serviceTitle(u string) (string, bool) {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRight(u, "/")
	seg := u
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		seg = u[i+1:]
	}
	if seg == "" || !strings.Contains(seg, "-") {
		return "", false
	}

	spaced := strings.ReplaceAll(seg, "-", " ")
	stripped, ok := notion.TrimIdentifier(spaced)
	if !ok {
		return "", false
	}
	title := notion.Clean(stripped)
	if title == "" || title == "untitled" {
		return "", false
	}
	return title, true
}

// rewriteInline turns [text](relative path) into a wikilink. The path is
// percent-decoded, leading ./ and ../ segments drop, and a #fragment is
// carried into the wikilink as a section reference.
func rewriteInline(sp span, reg *vault.Registry) (repl, miss string, ok bool) {
	rawPath, rawFrag, hasFrag := strings.Cut(sp.target, "#")

	decoded, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", sp.target, false
	}
	frag := ""
	if hasFrag {
		if frag, err = url.PathUnescape(rawFrag); err != nil {
			return "", sp.target, false
		}
	}

	rel := stripDotSegments(decoded)
	if rel == "" {
		// A fragment-only link points inside the current note; leave it as is.
		return "", "", false
	}

	var stem string
	if target, found := reg.Resolve(rel); found {
		stem = wikiTarget(target)
	} else {
		stem = wikiTarget(notion.CleanPath(rel))
		miss = decoded
	}

	inner := stem
	if frag != "" {
		inner += "#" + frag
	}
	if strings.EqualFold(sp.display, stem) {
		return "[[" + inner + "]]", miss, true
	}
	return "[[" + inner + "|" + sp.display + "]]", miss, true
}

// rewriteImage cleans the path inside ![alt](path) without changing the
// embed syntax. Dot segments survive so the reference still points at the
// copied asset.
func rewriteImage(sp span, reg *vault.Registry) (repl, miss string, ok bool) {
	decoded, err := url.PathUnescape(sp.target)
	if err != nil {
		return "", sp.target, false
	}
	if _, found := reg.Resolve(stripDotSegments(decoded)); !found {
		miss = decoded
	}

	cleaned := notion.CleanPath(decoded)
	if cleaned == sp.target {
		return "", miss, false
	}
	return "![" + sp.display + "](" + cleaned + ")", miss, true
}

// stripDotSegments removes leading ./ and ../ path segments.
func stripDotSegments(p string) string {
	for {
		switch {
		case strings.HasPrefix(p, "./"):
			p = p[2:]
		case strings.HasPrefix(p, "../"):
			p = p[3:]
		default:
			return p
		}
	}
}

// wikiTarget converts a vault-relative path to the name used inside a
// wikilink: the base name with a .md extension dropped. Other extensions
// stay, so an embedded [[report.pdf]] still names the file.
func wikiTarget(p string) string {
	base := path.Base(p)
	if strings.EqualFold(path.Ext(base), ".md") {
		return base[:len(base)-len(".md")]
	}
	return base
}
