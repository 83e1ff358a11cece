package template

import (
	"path"
	"strings"
)

// MatchPattern reports whether a slash-separated relative path matches a glob.
//
//   - "*" and "?" never match "/" (path.Match semantics)
//   - "**" as a whole segment matches zero or more segments
//   - a pattern without "/" is also tried against the last path element, so
//     "*.log" matches "logs/app.log"
//
// Malformed patterns match nothing.
func MatchPattern(pattern, p string) bool {
	if pattern == "" {
		return false
	}
	if pattern == "**" {
		return true
	}
	if !strings.Contains(pattern, "/") {
		if ok, err := path.Match(pattern, path.Base(p)); err == nil && ok {
			return true
		}
	}
	return matchSegments(strings.Split(pattern, "/"), strings.Split(p, "/"))
}

func matchSegments(pattern, segments []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(segments); i++ {
				if matchSegments(rest, segments[i:]) {
					return true
				}
			}
			return false
		}
		if len(segments) == 0 {
			return false
		}
		ok, err := path.Match(pattern[0], segments[0])
		if err != nil || !ok {
			return false
		}
		pattern, segments = pattern[1:], segments[1:]
	}
	return len(segments) == 0
}

// Excluder decides which entries of a source tree are left out of a template.
// A pattern ending in "/" only matches directories; a leading "/" anchors it
// to the tree root.
type Excluder struct {
	patterns []string
	dirOnly  []bool
	anchored []bool
}

func NewExcluder(patterns []string) *Excluder {
	e := &Excluder{}
	for _, raw := range patterns {
		p := strings.TrimSpace(raw)
		if p == "" || strings.HasPrefix(p, "#") {
			continue
		}
		dirOnly := strings.HasSuffix(p, "/")
		p = strings.TrimPrefix(strings.TrimSuffix(p, "/"), "./")
		anchored := strings.HasPrefix(p, "/")
		p = strings.TrimLeft(p, "/")
		if p == "" {
			continue
		}
		e.patterns = append(e.patterns, p)
		e.dirOnly = append(e.dirOnly, dirOnly)
		e.anchored = append(e.anchored, anchored)
	}
	return e
}

// Excluded reports whether rel (slash separated) should be skipped.
func (e *Excluder) Excluded(rel string, isDir bool) bool {
	if e == nil {
		return false
	}
	for i, p := range e.patterns {
		if e.dirOnly[i] && !isDir {
			continue
		}
		if e.anchored[i] {
			if matchSegments(strings.Split(p, "/"), strings.Split(rel, "/")) {
				return true
			}
			continue
		}
		if MatchPattern(p, rel) {
			return true
		}
	}
	return false
}
