package cli

import (
	"context"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestWatchLoop_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Source: filepath.Join(dir, "widget.h")}

	events := make(chan fsnotify.Event)
	errs := make(chan error)
	rebuilt := make(chan struct{}, 4)
	var count atomic.Int32

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		watchLoop(ctx, events, errs, watchMatcher(cfg), 50*time.Millisecond, func() {
			count.Add(1)
			rebuilt <- struct{}{}
		})
	}()

	header := filepath.Join(dir, "shape.hpp")
	events <- fsnotify.Event{Name: header, Op: fsnotify.Write}
	events <- fsnotify.Event{Name: filepath.Join(dir, "notes.txt"), Op: fsnotify.Write}
	events <- fsnotify.Event{Name: header + "~", Op: fsnotify.Create}
	events <- fsnotify.Event{Name: header, Op: fsnotify.Chmod}
	events <- fsnotify.Event{Name: cfg.Source, Op: fsnotify.Write}
	errs <- fsnotify.ErrEventOverflow

	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after a burst of changes")
	}
	time.Sleep(150 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Fatalf("rebuilds = %d, want 1 per burst", got)
	}

	events <- fsnotify.Event{Name: header, Op: fsnotify.Rename}
	select {
	case <-rebuilt:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after the second burst")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop on cancellation")
	}
}

func TestWatchLoop_IgnoresIrrelevantChanges(t *testing.T) {
	cfg := &Config{Source: filepath.Join(t.TempDir(), "model.yaml")}
	events := make(chan fsnotify.Event, 2)
	events <- fsnotify.Event{Name: filepath.Join(filepath.Dir(cfg.Source), "widget.h"), Op: fsnotify.Write}
	close(events)

	called := false
	watchLoop(context.Background(), events, make(chan error), watchMatcher(cfg), time.Millisecond, func() {
		called = true
	})
	if called {
		t.Fatal("a header change must not rebuild a model document")
	}
}

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	cfg := &Config{
		Source:      filepath.Join(src, "widget.h"),
		IncludeDirs: []string{src, filepath.Join(root, "include")},
		Configs:     []string{filepath.Join(root, "qt.cfg")},
	}
	want := []string{src, filepath.Join(root, "include"), root}
	if got := watchDirs(cfg); !slices.Equal(got, want) {
		t.Fatalf("watchDirs() = %v, want %v", got, want)
	}
}

func TestWatch_RejectsStdin(t *testing.T) {
	if err := Watch(context.Background(), &countingRunner{}, &Config{Source: "-"}, time.Millisecond); err == nil {
		t.Fatal("expected error for stdin source")
	}
}

func TestWatch_RunsOnceAndStops(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{Source: filepath.Join(dir, "widget.h")}
	runner := &countingRunner{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Watch(ctx, runner, cfg, time.Millisecond); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if runner.calls.Load() != 1 {
		t.Fatalf("initial run count = %d, want 1", runner.calls.Load())
	}
}

type countingRunner struct {
	calls atomic.Int32
}

func (r *countingRunner) Run(context.Context, *Config) error {
	r.calls.Add(1)
	return nil
}
