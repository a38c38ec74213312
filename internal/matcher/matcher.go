package matcher

import (
	"path/filepath"
	"strings"
)

// SourceExtensions are the C and C++ file extensions a rebuild reacts to.
var SourceExtensions = []string{
	".h", ".hh", ".hpp", ".hxx", ".h++", ".inl", ".ipp", ".tcc",
	".c", ".cc", ".cpp", ".cxx", ".c++",
}

// PathMatcher decides which changed paths trigger a rebuild.
type PathMatcher interface {
	Match(path string) bool
}

type pathMatcherImpl struct {
	files      map[string]bool
	extensions map[string]bool
}

// NewPathMatcher returns a matcher accepting the given files plus any path
// with one of extensions. Editor backup and swap files never match.
func NewPathMatcher(files, extensions []string) PathMatcher {
	m := &pathMatcherImpl{
		files:      make(map[string]bool, len(files)),
		extensions: toSet(extensions),
	}
	for _, f := range files {
		if f == "" || f == "-" {
			continue
		}
		m.files[clean(f)] = true
	}
	return m
}

func (m *pathMatcherImpl) Match(path string) bool {
	if path == "" || isTempFile(filepath.Base(path)) {
		return false
	}
	if m.files[clean(path)] {
		return true
	}
	return m.extensions[strings.ToLower(filepath.Ext(path))]
}

func isTempFile(base string) bool {
	switch {
	case strings.HasPrefix(base, ".#"), strings.HasPrefix(base, "#"):
		return true
	case strings.HasSuffix(base, "~"):
		return true
	case base == "4913":
		return true
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".swp", ".swo", ".swx", ".tmp", ".bak", ".orig":
		return true
	}
	return strings.HasPrefix(base, ".") && strings.Contains(base, ".tmp-")
}

func clean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func toSet(extensions []string) map[string]bool {
	set := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.TrimSpace(strings.ToLower(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	return set
}
