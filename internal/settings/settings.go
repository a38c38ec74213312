// Package settings loads tool settings from cpptolua.toml and CPPTOLUA_*
// environment variables.
package settings

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"
)

// FileName is the settings file looked up from the working directory upward.
const FileName = "cpptolua.toml"

// EnvPrefix prefixes environment overrides, e.g. CPPTOLUA_CLANG_BINARY.
const EnvPrefix = "CPPTOLUA"

var validate = newValidator()

// newValidator adds the clang_version tag, which accepts every version the
// clang version gate can compare against, such as "9" or "14.0.1".
func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("clang_version", func(fl validator.FieldLevel) bool {
		_, err := semver.NewVersion(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(err)
	}
	return v
}

// Settings is the decoded settings file.
type Settings struct {
	Clang      ClangSettings      `mapstructure:"clang"`
	Preprocess PreprocessSettings `mapstructure:"preprocess"`
	Resolve    ResolveSettings    `mapstructure:"resolve"`
	Watch      WatchSettings      `mapstructure:"watch"`

	// File is the settings file that was read, or "" when only defaults
	// and the environment applied.
	File string `mapstructure:"-"`
}

type ClangSettings struct {
	Binary            string `mapstructure:"binary" validate:"required"`
	Std               string `mapstructure:"std" validate:"required"`
	ExtraArgs         string `mapstructure:"extra_args"`
	MinVersion        string `mapstructure:"min_version" validate:"omitempty,clang_version"`
	SkipSystemHeaders bool   `mapstructure:"skip_system_headers"`
}

type PreprocessSettings struct {
	IncludeDirs []string `mapstructure:"include_dirs" validate:"dive,required"`
	// Defines holds NAME or NAME=VALUE entries.
	Defines []string `mapstructure:"defines" validate:"dive,required"`
	Configs []string `mapstructure:"configs" validate:"dive,required"`
}

type ResolveSettings struct {
	Enabled bool `mapstructure:"enabled"`
}

type WatchSettings struct {
	DebounceMS int `mapstructure:"debounce_ms" validate:"gte=0,lte=60000"`
}

// SetDefaults configures the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("clang.binary", "clang")
	v.SetDefault("clang.std", "c++17")
	v.SetDefault("clang.extra_args", "")
	v.SetDefault("clang.min_version", "9.0.0")
	v.SetDefault("clang.skip_system_headers", true)

	v.SetDefault("preprocess.include_dirs", []string{})
	v.SetDefault("preprocess.defines", []string{})
	v.SetDefault("preprocess.configs", []string{})

	v.SetDefault("resolve.enabled", true)

	v.SetDefault("watch.debounce_ms", 300)
}

// Load reads settings. An explicit path must exist; otherwise FileName is
// searched for from dir upward and defaults apply when none is found.
func Load(explicit, dir string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	path := explicit
	if path == "" {
		path = Find(dir)
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read settings %s", path)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrap(err, "decode settings")
	}
	s.File = path
	if err := validate.Struct(&s); err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "invalid settings"),
			"check "+describe(path),
		)
	}
	if _, err := s.ExtraArgs(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Find walks from dir up to the filesystem root and returns the first
// FileName found, or "".
func Find(dir string) string {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = wd
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ExtraArgs splits clang.extra_args the way a POSIX shell would.
func (s *Settings) ExtraArgs() ([]string, error) {
	args, err := shellquote.Split(s.Clang.ExtraArgs)
	if err != nil {
		return nil, errors.Wrapf(err, "split clang.extra_args %q", s.Clang.ExtraArgs)
	}
	return args, nil
}

// Macros returns preprocess.defines as -D arguments.
func (s *Settings) Macros() []string {
	macros := make([]string, 0, len(s.Preprocess.Defines))
	for _, d := range s.Preprocess.Defines {
		macros = append(macros, "-D"+d)
	}
	return macros
}

// Debounce returns watch.debounce_ms as a duration.
func (s *Settings) Debounce() time.Duration {
	return time.Duration(s.Watch.DebounceMS) * time.Millisecond
}

func describe(path string) string {
	if path == "" {
		return EnvPrefix + "_* environment variables"
	}
	return path
}
