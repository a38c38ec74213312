package clang

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/seitarof/cpptolua/internal/codemodel"
	"github.com/seitarof/cpptolua/internal/frontend"
	"github.com/seitarof/cpptolua/internal/logger"
)

// Options configures the clang front end.
type Options struct {
	Binary     string
	Std        string
	ExtraArgs  []string
	MinVersion string
	// SkipSystemHeaders drops top-level declarations that come from
	// system headers.
	SkipSystemHeaders bool
}

// CommandRunner runs an external command and returns its standard output.
// On failure the output gathered so far is returned with the error.
type CommandRunner interface {
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)
}

// Frontend preprocesses and parses C++ sources with clang.
type Frontend struct {
	opts   Options
	runner CommandRunner

	versionOnce sync.Once
	versionErr  error
}

var _ frontend.Frontend = (*Frontend)(nil)

// New creates a clang front end. A nil runner executes real processes.
func New(opts Options, runner CommandRunner) *Frontend {
	if opts.Binary == "" {
		opts.Binary = "clang"
	}
	if opts.Std == "" {
		opts.Std = "c++17"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Frontend{opts: opts, runner: runner}
}

// Preprocess runs the preprocessor over req.Source.
func (f *Frontend) Preprocess(ctx context.Context, req frontend.Request) ([]byte, error) {
	if err := f.checkVersion(ctx); err != nil {
		return nil, err
	}
	out, err := f.runner.Run(ctx, sourceStdin(req.Source), f.opts.Binary, f.preprocessArgs(req, false)...)
	if err != nil {
		return nil, errors.Wrapf(err, "preprocess %s", req.Source)
	}
	return out, nil
}

// MacroNames returns the names of all macros defined at the end of
// preprocessing, sorted.
func (f *Frontend) MacroNames(ctx context.Context, req frontend.Request) ([]string, error) {
	if err := f.checkVersion(ctx); err != nil {
		return nil, err
	}
	out, err := f.runner.Run(ctx, sourceStdin(req.Source), f.opts.Binary, f.preprocessArgs(req, true)...)
	if err != nil {
		return nil, errors.Wrapf(err, "dump macros of %s", req.Source)
	}
	return parseMacroNames(out), nil
}

// Parse feeds preprocessed contents to clang and binds the JSON AST.
// Compile errors are logged; whatever AST clang produced is still used.
func (f *Frontend) Parse(ctx context.Context, req frontend.Request, contents []byte) (*codemodel.Item, error) {
	if err := f.checkVersion(ctx); err != nil {
		return nil, err
	}
	out, err := f.runner.Run(ctx, bytes.NewReader(contents), f.opts.Binary, f.parseArgs()...)
	if err != nil {
		if len(out) == 0 {
			return nil, errors.Wrapf(err, "parse %s", req.Source)
		}
		logger.Logger.Warnw("clang reported errors, using partial AST",
			logger.FieldComponent, "clang",
			logger.FieldFile, req.Source,
			"error", err,
		)
	}

	var root node
	if err := json.Unmarshal(out, &root); err != nil {
		return nil, errors.Wrapf(err, "decode clang AST of %s", req.Source)
	}
	item, err := bind(&root, contents, f.opts.SkipSystemHeaders)
	if err != nil {
		return nil, errors.Wrapf(err, "bind %s", req.Source)
	}
	return item, nil
}

func (f *Frontend) preprocessArgs(req frontend.Request, dumpMacros bool) []string {
	args := []string{"-E", "-x", "c++", "-std=" + f.opts.Std}
	if dumpMacros {
		args = append(args, "-dM")
	}
	args = append(args, f.opts.ExtraArgs...)
	for _, dir := range req.IncludeDirs {
		args = append(args, "-I"+dir)
	}
	args = append(args, req.Macros...)
	for _, cfg := range req.Configs {
		args = append(args, "-imacros", cfg)
	}
	return append(args, req.Source)
}

func (f *Frontend) parseArgs() []string {
	args := []string{"-x", "c++-cpp-output", "-std=" + f.opts.Std}
	args = append(args, f.opts.ExtraArgs...)
	return append(args, "-fsyntax-only", "-w", "-Xclang", "-ast-dump=json", "-")
}

func sourceStdin(source string) io.Reader {
	if source == "-" {
		return os.Stdin
	}
	return nil
}

func parseMacroNames(out []byte) []string {
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		rest, ok := strings.CutPrefix(sc.Text(), "#define ")
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(rest, " ")
		name, _, _ = strings.Cut(name, "(")
		if name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, errors.WithHint(
				errors.Wrapf(err, "run %s", name),
				"install clang or point clang.binary in cpptolua.toml at it",
			)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.Bytes(), errors.Wrapf(err, "run %s", name)
		}
		return stdout.Bytes(), errors.Wrapf(err, "run %s: %s", name, msg)
	}
	return stdout.Bytes(), nil
}
