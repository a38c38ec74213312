package cli

import (
	"context"
	"path/filepath"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/seitarof/cpptolua/internal/frontend"
	"github.com/seitarof/cpptolua/internal/logger"
	"github.com/seitarof/cpptolua/internal/matcher"
)

const rebuildOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watch runs cfg once and again after every burst of relevant file changes
// until ctx is done. Run errors are logged and watching goes on.
func Watch(ctx context.Context, runner Runner, cfg *Config, debounce time.Duration) error {
	if cfg.Source == "" || cfg.Source == "-" {
		return errors.New("watch mode needs a source file, not stdin")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer w.Close()

	for _, dir := range watchDirs(cfg) {
		if err := w.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
		logger.Logger.Debugw("watching directory", logger.FieldFile, dir)
	}

	rebuild := func() {
		if err := runner.Run(ctx, cfg); err != nil {
			logger.Logger.Errorw("rebuild failed", logger.FieldFile, cfg.Source, "error", err)
		}
	}
	rebuild()
	watchLoop(ctx, w.Events, w.Errors, watchMatcher(cfg), debounce, rebuild)
	return nil
}

// watchLoop calls rebuild once per burst of matching events, debounce after
// the last one.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	m matcher.PathMatcher,
	debounce time.Duration,
	rebuild func(),
) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Op&rebuildOps == 0 || !m.Match(ev.Name) {
				continue
			}
			logger.Logger.Debugw("change detected", logger.FieldFile, ev.Name, logger.FieldOperation, ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-errs:
			if !ok {
				return
			}
			logger.Logger.Warnw("file watcher error", "error", err)
		case <-fire:
			fire = nil
			rebuild()
		}
	}
}

func watchMatcher(cfg *Config) matcher.PathMatcher {
	files := append([]string{cfg.Source}, cfg.Configs...)
	if frontend.IsModelDocument(cfg.Source) {
		return matcher.NewPathMatcher(files, nil)
	}
	return matcher.NewPathMatcher(files, matcher.SourceExtensions)
}

// watchDirs lists the source directory, the include path and the config
// file directories, without duplicates.
func watchDirs(cfg *Config) []string {
	var dirs []string
	add := func(dir string) {
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	add(filepath.Dir(cfg.Source))
	if !frontend.IsModelDocument(cfg.Source) {
		for _, dir := range cfg.IncludeDirs {
			add(dir)
		}
	}
	for _, c := range cfg.Configs {
		add(filepath.Dir(c))
	}
	return dirs
}
