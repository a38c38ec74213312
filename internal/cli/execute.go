package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/seitarof/cpptolua/internal/frontend/clang"
	"github.com/seitarof/cpptolua/internal/frontend/modeldoc"
	"github.com/seitarof/cpptolua/internal/logger"
	"github.com/seitarof/cpptolua/internal/luatable"
	"github.com/seitarof/cpptolua/internal/output"
	"github.com/seitarof/cpptolua/internal/resolver"
	"github.com/seitarof/cpptolua/internal/settings"
)

// Exit codes returned by Execute.
const (
	ExitOK    = 0
	ExitError = 1
)

// Execute runs the command line tool and returns its exit code. The literal
// goes to stdout unless -o names a file; help, diagnostics and logs go to
// stderr.
func Execute(ctx context.Context, version string, args []string, stdout, stderr io.Writer) int {
	cfg, err := ParseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return ExitError
	}
	if cfg.ShowVersion {
		fmt.Fprintln(stdout, version)
		return ExitOK
	}
	if cfg.Help || cfg.Source == "" {
		Usage(stderr)
		return ExitOK
	}

	logger.Initialize(cfg.Verbosity(), stderr)
	defer logger.Cleanup()

	runner, debounce, err := setup(cfg, stdout)
	if err != nil {
		report(stderr, err)
		return ExitError
	}

	if cfg.Watch {
		err = Watch(ctx, runner, cfg, debounce)
	} else {
		err = runner.Run(ctx, cfg)
	}
	if err != nil {
		report(stderr, err)
		return ExitError
	}
	return ExitOK
}

// setup loads settings into cfg and wires the pipeline.
func setup(cfg *Config, stdout io.Writer) (Runner, time.Duration, error) {
	s, err := settings.Load(cfg.SettingsFile, "")
	if err != nil {
		return nil, 0, err
	}
	if s.File != "" {
		logger.Logger.Debugw("loaded settings", logger.FieldFile, s.File)
	}
	cfg.ApplySettings(s)

	extraArgs, err := s.ExtraArgs()
	if err != nil {
		return nil, 0, err
	}
	cxx := clang.New(clang.Options{
		Binary:            s.Clang.Binary,
		Std:               s.Clang.Std,
		ExtraArgs:         extraArgs,
		MinVersion:        s.Clang.MinVersion,
		SkipSystemHeaders: s.Clang.SkipSystemHeaders,
	}, nil)

	r := resolver.Identity()
	if !cfg.NoResolve {
		r = resolver.New(resolver.DefaultRules()...)
	}
	w := output.NewFileWriter(stdout)
	g := luatable.New(luatable.NewSerializer(r), w)
	return NewRunner(cxx, modeldoc.New(), g, w), s.Debounce(), nil
}

func report(w io.Writer, err error) {
	fmt.Fprintf(w, "%s: %v\n", programName, err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "hint: %s\n", hint)
	}
}
