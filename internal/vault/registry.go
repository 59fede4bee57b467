// Package vault models the destination side of a migration: clean target
// paths, the registry that maps every way a link could name a source item to
// its target path, and file writing into the vault tree.
package vault

import (
	"path"
	"strings"

	"github.com/gosimple/slug"

	"github.com/pfassina/molt/internal/notion"
)

// Registry maps candidate reference forms to clean target paths. It is
// populated once by the registration pass and read-only afterwards; the first
// registration wins a contested key, and a later item that loses a bare-stem
// key is still reachable through its full-path key.
type Registry struct {
	exact map[string]string // decoded source-relative path
	slugs map[string]string // URL slug of the clean stem
	stems map[string]string // lowercased stem, raw and clean
}

func NewRegistry() *Registry {
	return &Registry{
		exact: make(map[string]string),
		slugs: make(map[string]string),
		stems: make(map[string]string),
	}
}

// Register records every reference form for one source file and returns its
// target path. sourceRel is the slash-separated path relative to the export
// root, exactly as it sits on disk (links carry it percent-encoded; callers
// decode before resolving).
func (r *Registry) Register(sourceRel string) string {
	target := TargetPath(sourceRel)

	r.put(r.exact, sourceRel, target)

	if s := strings.ToLower(Stem(sourceRel)); s != "" {
		r.put(r.stems, s, target)
	}
	cleanStem := Stem(target)
	if s := strings.ToLower(cleanStem); s != "" {
		r.put(r.stems, s, target)
	}
	if s := slug.Make(cleanStem); s != "" {
		r.put(r.slugs, s, target)
	}

	return target
}

// Resolve maps a decoded candidate reference to a registered target path.
// Precedence: exact source-path match, then slug match, then case-insensitive
// stem match. The boolean is false when nothing matches; resolution misses
// are expected and non-fatal.
func (r *Registry) Resolve(candidate string) (string, bool) {
	if t, ok := r.exact[candidate]; ok {
		return t, true
	}
	stem := Stem(candidate)
	if s := slug.Make(stem); s != "" {
		if t, ok := r.slugs[s]; ok {
			return t, true
		}
	}
	if t, ok := r.stems[strings.ToLower(stem)]; ok {
		return t, true
	}
	return "", false
}

// Len returns the number of registered source files.
func (r *Registry) Len() int {
	return len(r.exact)
}

func (r *Registry) put(m map[string]string, key, target string) {
	if _, ok := m[key]; ok {
		return
	}
	m[key] = target
}

// TargetPath derives the clean destination path for a source-relative path:
// every directory segment cleaned, the file segment cleaned with its
// extension preserved.
func TargetPath(sourceRel string) string {
	return notion.CleanPath(sourceRel)
}

// Stem returns the final path segment without its extension.
func Stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
