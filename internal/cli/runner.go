package cli

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/seitarof/cpptolua/internal/frontend"
	"github.com/seitarof/cpptolua/internal/logger"
	"github.com/seitarof/cpptolua/internal/luatable"
	"github.com/seitarof/cpptolua/internal/output"
)

// Runner orchestrates frontend/generator/output layers.
type Runner interface {
	Run(ctx context.Context, cfg *Config) error
}

type runnerImpl struct {
	cxx       frontend.Frontend
	doc       frontend.Frontend
	generator luatable.Generator
	writer    output.FileWriter
}

// NewRunner creates a default runner implementation. Sources are read with
// cxx unless they name a model document, which doc reads.
func NewRunner(cxx, doc frontend.Frontend, g luatable.Generator, w output.FileWriter) Runner {
	return &runnerImpl{
		cxx:       cxx,
		doc:       doc,
		generator: g,
		writer:    w,
	}
}

// Run executes a single conversion cycle.
func (r *runnerImpl) Run(ctx context.Context, cfg *Config) error {
	start := time.Now()
	if cfg.Verbose {
		logger.Logger.Infow("used file", logger.FieldFile, cfg.Source)
	}

	req := cfg.Request()
	fe := frontend.Select(cfg.Source, r.cxx, r.doc)

	contents, err := fe.Preprocess(ctx, req)
	if err != nil {
		return errors.Wrap(err, "read source")
	}

	if cfg.Debug {
		r.dump(ctx, fe, req, contents)
		if err := r.writer.Write(output.Stdout, contents); err != nil {
			return errors.Wrap(err, "echo preprocessed contents")
		}
	}

	if cfg.OnlyPreprocess {
		if err := r.writer.Write(cfg.OutputFilename(), contents); err != nil {
			return errors.Wrap(err, "write preprocessed contents")
		}
		return nil
	}

	root, err := fe.Parse(ctx, req, contents)
	if err != nil {
		return errors.Wrap(err, "parse source")
	}
	if cfg.NoCode {
		return nil
	}

	if err := r.generator.Generate(cfg, root); err != nil {
		return errors.Wrap(err, "generate")
	}
	logger.Logger.Infow("generated literal",
		logger.FieldFile, describeOutput(cfg.OutputFilename()),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return nil
}

func (r *runnerImpl) dump(ctx context.Context, fe frontend.Frontend, req frontend.Request, contents []byte) {
	names, err := fe.MacroNames(ctx, req)
	if err != nil {
		logger.Logger.Warnw("cannot list macro names", "error", err)
	} else {
		logger.Logger.Debugw("macro names", logger.FieldCount, len(names), "names", names)
	}
	logger.Logger.Debugw("preprocessed contents", "contents", string(contents))
}

func describeOutput(filename string) string {
	if output.IsStdout(filename) {
		return "<stdout>"
	}
	return filename
}
