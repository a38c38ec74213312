package frontend

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/seitarof/cpptolua/internal/codemodel"
)

// Request describes one translation unit to read.
type Request struct {
	Source      string
	IncludeDirs []string
	// Macros holds "-DNAME[=VALUE]" and "-UNAME" entries in command-line order.
	Macros  []string
	Configs []string
	Debug   bool
}

// WithSourceDir returns a copy of r whose include path starts with the
// directory of the source file.
func (r Request) WithSourceDir() Request {
	dir := filepath.Dir(r.Source)
	if r.Source == "" || slices.Contains(r.IncludeDirs, dir) {
		return r
	}
	r.IncludeDirs = append([]string{dir}, r.IncludeDirs...)
	return r
}

// Frontend turns a source file into a declaration tree.
type Frontend interface {
	// Preprocess returns the preprocessed text of the source.
	Preprocess(ctx context.Context, req Request) ([]byte, error)
	// MacroNames lists the macros defined after preprocessing.
	MacroNames(ctx context.Context, req Request) ([]string, error)
	// Parse builds the root File item from preprocessed contents.
	Parse(ctx context.Context, req Request, contents []byte) (*codemodel.Item, error)
}

var documentExtensions = []string{".yaml", ".yml", ".json"}

// IsModelDocument reports whether source names a pre-built model document.
func IsModelDocument(source string) bool {
	return slices.Contains(documentExtensions, strings.ToLower(filepath.Ext(source)))
}

// Select picks the front end for source: model documents go to doc, every
// other file to cxx.
func Select(source string, cxx, doc Frontend) Frontend {
	if IsModelDocument(source) {
		return doc
	}
	return cxx
}
