package clang

import (
	"context"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
)

var versionPattern = regexp.MustCompile(`clang version (\d+(?:\.\d+){0,2})`)

// parseVersion extracts the version from `clang --version` output, e.g.
// "Ubuntu clang version 14.0.0-1ubuntu1" or "Apple clang version 15.0.0".
func parseVersion(out string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(out)
	if m == nil {
		return nil, errors.Newf("no clang version in %q", firstLine(out))
	}
	v, err := semver.NewVersion(m[1])
	if err != nil {
		return nil, errors.Wrapf(err, "invalid clang version %s", m[1])
	}
	return v, nil
}

// checkVersion verifies once that the configured clang is at least
// Options.MinVersion.
func (f *Frontend) checkVersion(ctx context.Context) error {
	if f.opts.MinVersion == "" {
		return nil
	}
	f.versionOnce.Do(func() {
		f.versionErr = f.verifyVersion(ctx)
	})
	return f.versionErr
}

func (f *Frontend) verifyVersion(ctx context.Context) error {
	out, err := f.runner.Run(ctx, nil, f.opts.Binary, "--version")
	if err != nil {
		return errors.Wrap(err, "query clang version")
	}
	have, err := parseVersion(string(out))
	if err != nil {
		return err
	}
	constraint, err := semver.NewConstraint(">= " + f.opts.MinVersion)
	if err != nil {
		return errors.Wrapf(err, "invalid clang.min_version %s", f.opts.MinVersion)
	}
	if !constraint.Check(have) {
		return errors.WithHint(
			errors.Newf("clang %s is older than the required %s", have, f.opts.MinVersion),
			"set clang.binary to a newer clang",
		)
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
