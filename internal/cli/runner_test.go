package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/seitarof/cpptolua/internal/codemodel"
	"github.com/seitarof/cpptolua/internal/frontend"
	"github.com/seitarof/cpptolua/internal/luatable"
)

func TestRunner_Run_GeneratesFromCxxSource(t *testing.T) {
	cxx := &mockFrontend{contents: []byte("int x;")}
	doc := &mockFrontend{}
	gen := &mockGenerator{}
	w := &mockWriter{}

	r := NewRunner(cxx, doc, gen, w)
	cfg := &Config{Source: "src/widget.h", IncludeDirs: []string{"include"}, Macros: []string{"-DQT"}, Output: "out.lua"}
	if err := r.Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if cxx.parseCalls != 1 || doc.preprocessCalls != 0 {
		t.Fatalf("wrong front end used: cxx=%d doc=%d", cxx.parseCalls, doc.preprocessCalls)
	}
	if got := cxx.lastReq.IncludeDirs; len(got) != 2 || got[0] != "src" || got[1] != "include" {
		t.Fatalf("source dir should lead the include path, got %v", got)
	}
	if string(cxx.parsed) != "int x;" {
		t.Fatalf("parse got %q", cxx.parsed)
	}
	if gen.callCount != 1 || gen.cfg.OutputFilename() != "out.lua" {
		t.Fatalf("generator calls = %d, cfg = %#v", gen.callCount, gen.cfg)
	}
	if len(w.writes) != 0 {
		t.Fatalf("runner wrote directly: %v", w.writes)
	}
}

func TestRunner_Run_SelectsModelDocumentFrontend(t *testing.T) {
	cxx := &mockFrontend{}
	doc := &mockFrontend{contents: []byte("children: []")}
	r := NewRunner(cxx, doc, &mockGenerator{}, &mockWriter{})

	if err := r.Run(context.Background(), &Config{Source: "model.yaml"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if doc.parseCalls != 1 || cxx.preprocessCalls != 0 {
		t.Fatalf("wrong front end used: cxx=%d doc=%d", cxx.preprocessCalls, doc.parseCalls)
	}
}

func TestRunner_Run_OnlyPreprocess(t *testing.T) {
	cxx := &mockFrontend{contents: []byte("# 1 \"w.h\"\nint x;\n")}
	gen := &mockGenerator{}
	w := &mockWriter{}

	r := NewRunner(cxx, &mockFrontend{}, gen, w)
	if err := r.Run(context.Background(), &Config{Source: "w.h", OnlyPreprocess: true, Output: "w.i"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if cxx.parseCalls != 0 || gen.callCount != 0 {
		t.Fatalf("-E must stop after preprocessing: parse=%d generate=%d", cxx.parseCalls, gen.callCount)
	}
	if len(w.writes) != 1 || w.writes[0].filename != "w.i" || w.writes[0].data != string(cxx.contents) {
		t.Fatalf("unexpected writes: %#v", w.writes)
	}
}

func TestRunner_Run_NoCode(t *testing.T) {
	cxx := &mockFrontend{contents: []byte("int x;")}
	gen := &mockGenerator{}

	r := NewRunner(cxx, &mockFrontend{}, gen, &mockWriter{})
	if err := r.Run(context.Background(), &Config{Source: "w.h", NoCode: true}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if cxx.parseCalls != 1 {
		t.Fatalf("-N still parses, got %d parse calls", cxx.parseCalls)
	}
	if gen.callCount != 0 {
		t.Fatal("-N must not generate")
	}
}

func TestRunner_Run_DebugEchoesContents(t *testing.T) {
	cxx := &mockFrontend{contents: []byte("int x;"), macros: []string{"FOO"}}
	w := &mockWriter{}

	r := NewRunner(cxx, &mockFrontend{}, &mockGenerator{}, w)
	if err := r.Run(context.Background(), &Config{Source: "w.h", Debug: true, Output: "out.lua"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if cxx.macroCalls != 1 {
		t.Fatalf("macro names queried %d times, want 1", cxx.macroCalls)
	}
	if len(w.writes) != 1 || w.writes[0].filename != "-" || w.writes[0].data != "int x;" {
		t.Fatalf("contents not echoed to stdout: %#v", w.writes)
	}
}

func TestRunner_Run_Errors(t *testing.T) {
	tests := []struct {
		name  string
		cxx   *mockFrontend
		gen   *mockGenerator
		cfg   *Config
		wants string
	}{
		{
			name:  "preprocess",
			cxx:   &mockFrontend{preprocessErr: errors.New("no such file")},
			gen:   &mockGenerator{},
			cfg:   &Config{Source: "w.h"},
			wants: "read source: no such file",
		},
		{
			name:  "parse",
			cxx:   &mockFrontend{parseErr: errors.New("bad AST")},
			gen:   &mockGenerator{},
			cfg:   &Config{Source: "w.h"},
			wants: "parse source: bad AST",
		},
		{
			name:  "generate",
			cxx:   &mockFrontend{},
			gen:   &mockGenerator{err: errors.New("disk full")},
			cfg:   &Config{Source: "w.h"},
			wants: "generate: disk full",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(tt.cxx, &mockFrontend{}, tt.gen, &mockWriter{})
			err := r.Run(context.Background(), tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.wants) {
				t.Fatalf("Run() error = %v, want %q", err, tt.wants)
			}
		})
	}
}

func TestRunner_Run_OnlyPreprocessWriteError(t *testing.T) {
	w := &mockWriter{err: errors.New("read-only file system")}
	r := NewRunner(&mockFrontend{}, &mockFrontend{}, &mockGenerator{}, w)
	err := r.Run(context.Background(), &Config{Source: "w.h", OnlyPreprocess: true, Output: "w.i"})
	if err == nil || !strings.Contains(err.Error(), "read-only") {
		t.Fatalf("expected write error, got %v", err)
	}
}

type mockFrontend struct {
	contents      []byte
	macros        []string
	preprocessErr error
	parseErr      error

	preprocessCalls int
	macroCalls      int
	parseCalls      int
	lastReq         frontend.Request
	parsed          []byte
}

func (m *mockFrontend) Preprocess(_ context.Context, req frontend.Request) ([]byte, error) {
	m.preprocessCalls++
	m.lastReq = req
	if m.preprocessErr != nil {
		return nil, m.preprocessErr
	}
	return m.contents, nil
}

func (m *mockFrontend) MacroNames(context.Context, frontend.Request) ([]string, error) {
	m.macroCalls++
	return m.macros, nil
}

func (m *mockFrontend) Parse(_ context.Context, _ frontend.Request, contents []byte) (*codemodel.Item, error) {
	m.parseCalls++
	m.parsed = bytes.Clone(contents)
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	return codemodel.New().Create(codemodel.KindFile, "", nil), nil
}

type mockGenerator struct {
	callCount int
	cfg       luatable.Config
	root      *codemodel.Item
	err       error
}

func (m *mockGenerator) Generate(cfg luatable.Config, root *codemodel.Item) error {
	m.callCount++
	m.cfg = cfg
	m.root = root
	return m.err
}

type write struct {
	filename string
	data     string
}

type mockWriter struct {
	writes []write
	err    error
}

func (m *mockWriter) Write(filename string, data []byte) error {
	if m.err != nil {
		return m.err
	}
	m.writes = append(m.writes, write{filename: filename, data: string(data)})
	return nil
}
