package cli

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

const programName = "cpptolua"

// macroValue collects -D and -U in command line order.
type macroValue struct {
	prefix string
	macros *[]string
}

func (v *macroValue) String() string { return "" }

func (v *macroValue) Set(s string) error {
	*v.macros = append(*v.macros, v.prefix+s)
	return nil
}

func (v *macroValue) Type() string { return "macro" }

func newFlagSet(cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)

	fs.StringArrayVarP(&cfg.Configs, "config", "C", nil, "add a config file")
	fs.VarP(&macroValue{prefix: "-D", macros: &cfg.Macros}, "define", "D", "define a macro on command line")
	fs.VarP(&macroValue{prefix: "-U", macros: &cfg.Macros}, "undefine", "U", "undefine a macro on command line")
	fs.BoolVarP(&cfg.OnlyPreprocess, "preprocess", "E", false, "only preprocess")
	fs.BoolVarP(&cfg.NoResolve, "no-resolve", "R", false, "don't resolve")
	fs.BoolVarP(&cfg.NoCode, "no-code", "N", false, "generate NO code")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "verbose")
	fs.BoolVarP(&cfg.Debug, "debug", "d", false, "debug")
	fs.BoolVarP(&cfg.Help, "help", "h", false, "print this help")
	fs.StringArrayVarP(&cfg.IncludeDirs, "include", "I", nil, "add another include directory")
	fs.StringVarP(&cfg.Output, "output", "o", "", "output file (\"-\" or empty for stdout)")

	fs.BoolVar(&cfg.Watch, "watch", false, "rebuild whenever the source or its headers change")
	fs.StringVar(&cfg.SettingsFile, "settings", "", "settings file (default: nearest cpptolua.toml)")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "show version")
	return fs
}

// ParseArgs parses command line arguments into Config. Every non-flag
// argument names the source file; the last one wins.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	fs := newFlagSet(cfg)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if rest := fs.Args(); len(rest) > 0 {
		cfg.Source = rest[len(rest)-1]
	}
	return cfg, nil
}

// Usage writes the help text to w.
func Usage(w io.Writer) {
	fs := newFlagSet(&Config{})
	fmt.Fprintf(w, "Usage: %s <flags> <file>\n\nOptions:\n", programName)
	fmt.Fprintf(w, "      <file>                 file to parse (C++ source or .yaml/.json model document)\n")
	fmt.Fprint(w, fs.FlagUsages())
}
