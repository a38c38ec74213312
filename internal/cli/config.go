package cli

import (
	"github.com/seitarof/cpptolua/internal/frontend"
	"github.com/seitarof/cpptolua/internal/logger"
	"github.com/seitarof/cpptolua/internal/settings"
)

// Config stores CLI options for a single conversion run.
type Config struct {
	Source      string
	Configs     []string
	Macros      []string
	IncludeDirs []string
	Output      string

	OnlyPreprocess bool
	NoResolve      bool
	NoCode         bool
	Verbose        bool
	Debug          bool
	Help           bool

	Watch        bool
	SettingsFile string
	ShowVersion  bool
}

// OutputFilename returns destination file path for generator layer.
func (c *Config) OutputFilename() string {
	return c.Output
}

// Request returns the front end request for the configured source. The
// source directory comes first on the include path.
func (c *Config) Request() frontend.Request {
	return frontend.Request{
		Source:      c.Source,
		IncludeDirs: c.IncludeDirs,
		Macros:      c.Macros,
		Configs:     c.Configs,
		Debug:       c.Debug,
	}.WithSourceDir()
}

// Verbosity maps -v and -d to a logger verbosity.
func (c *Config) Verbosity() int {
	switch {
	case c.Debug:
		return logger.VerbosityDebug
	case c.Verbose:
		return logger.VerbosityVerbose
	default:
		return logger.VerbosityQuiet
	}
}

// ApplySettings puts settings values in front of the command line ones, so
// later command line entries win.
func (c *Config) ApplySettings(s *settings.Settings) {
	c.IncludeDirs = concat(s.Preprocess.IncludeDirs, c.IncludeDirs)
	c.Macros = concat(s.Macros(), c.Macros)
	c.Configs = concat(s.Preprocess.Configs, c.Configs)
	if !s.Resolve.Enabled {
		c.NoResolve = true
	}
}

func concat(front, back []string) []string {
	if len(front) == 0 {
		return back
	}
	out := make([]string, 0, len(front)+len(back))
	out = append(out, front...)
	return append(out, back...)
}
