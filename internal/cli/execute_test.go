package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// emptySettings keeps tests independent of any cpptolua.toml above the
// working directory.
func emptySettings(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cpptolua.toml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestExecute_Golden(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "golden", "*.txtar"))
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(archives) == 0 {
		t.Fatal("no golden archives found")
	}

	for _, archive := range archives {
		name := strings.TrimSuffix(filepath.Base(archive), ".txtar")
		t.Run(name, func(t *testing.T) {
			ar, err := txtar.ParseFile(archive)
			if err != nil {
				t.Fatalf("ParseFile() error = %v", err)
			}

			dir := t.TempDir()
			out := filepath.Join(dir, "out.lua")
			var input, want string
			var args []string
			for _, f := range ar.Files {
				switch {
				case f.Name == "args":
					args = strings.Fields(string(f.Data))
				case f.Name == "want.lua":
					want = string(f.Data)
				case strings.HasPrefix(f.Name, "input."):
					input = filepath.Join(dir, f.Name)
					if err := os.WriteFile(input, f.Data, 0o644); err != nil {
						t.Fatalf("WriteFile() error = %v", err)
					}
				}
			}
			toFile := false
			for i, a := range args {
				switch a {
				case "{{input}}":
					args[i] = input
				case "{{out}}":
					args[i] = out
					toFile = true
				}
			}
			args = append([]string{"--settings", emptySettings(t)}, args...)

			var stdout, stderr bytes.Buffer
			if code := Execute(context.Background(), "test", args, &stdout, &stderr); code != ExitOK {
				t.Fatalf("Execute() = %d, stderr:\n%s", code, stderr.String())
			}

			got := stdout.String()
			if toFile {
				b, err := os.ReadFile(out)
				if err != nil {
					t.Fatalf("ReadFile() error = %v", err)
				}
				got = string(b)
				if stdout.Len() != 0 {
					t.Fatalf("stdout should stay empty, got %q", stdout.String())
				}
			}
			if strings.TrimSuffix(got, "\n") != strings.TrimSuffix(want, "\n") {
				t.Fatalf("output mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
			}
		})
	}
}

func TestExecute_LiteralHasNoTrailingNewline(t *testing.T) {
	input := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(input, []byte("children: []\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), "test", []string{"--settings", emptySettings(t), input}, &stdout, &stderr)
	if code != ExitOK {
		t.Fatalf("Execute() = %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.HasSuffix(stdout.String(), "}") {
		t.Fatalf("literal must end with a closing brace, got %q", stdout.String())
	}
}

func TestExecute_ExitCodes(t *testing.T) {
	settingsFile := emptySettings(t)
	broken := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(broken, []byte("children: [{kind: bogus}]"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
		wantStdout string
	}{
		{name: "unknown flag", args: []string{"-X"}, wantCode: ExitError, wantStderr: "unknown shorthand flag"},
		{name: "no source prints help", args: nil, wantCode: ExitOK, wantStderr: "Usage: cpptolua"},
		{name: "help", args: []string{"-h", "widget.h"}, wantCode: ExitOK, wantStderr: "-I, --include"},
		{name: "version", args: []string{"--version"}, wantCode: ExitOK, wantStdout: "test\n"},
		{name: "run error", args: []string{"--settings", settingsFile, broken}, wantCode: ExitError, wantStderr: "unknown kind"},
		{name: "missing settings", args: []string{"--settings", settingsFile + ".missing", broken}, wantCode: ExitError, wantStderr: "read settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := Execute(context.Background(), "test", tt.args, &stdout, &stderr)
			if code != tt.wantCode {
				t.Fatalf("Execute() = %d, want %d; stderr:\n%s", code, tt.wantCode, stderr.String())
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Fatalf("stderr %q does not contain %q", stderr.String(), tt.wantStderr)
			}
			if tt.wantStdout != "" && stdout.String() != tt.wantStdout {
				t.Fatalf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
		})
	}
}

func TestExecute_SettingsDisableResolution(t *testing.T) {
	dir := t.TempDir()
	settingsFile := filepath.Join(dir, "cpptolua.toml")
	if err := os.WriteFile(settingsFile, []byte("[resolve]\nenabled = false\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	input := filepath.Join(dir, "alias.yaml")
	doc := `children:
  - {kind: type_alias, name: Id, type: int}
  - {kind: variable, name: next, type: Id}
`
	if err := os.WriteFile(input, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := Execute(context.Background(), "test", []string{"--settings", settingsFile, input}, &stdout, &stderr); code != ExitOK {
		t.Fatalf("Execute() = %d, stderr:\n%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), `type_name = "Id",`) {
		t.Fatalf("alias should stay unresolved:\n%s", stdout.String())
	}
}
