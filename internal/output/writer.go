package output

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// Stdout is the output name that selects standard output.
const Stdout = "-"

// FileWriter writes produced text to a named destination.
type FileWriter interface {
	Write(filename string, data []byte) error
}

type fileWriter struct {
	stdout io.Writer
}

// NewFileWriter creates a writer. Filenames "" and "-" go to stdout; any
// other name is replaced atomically.
func NewFileWriter(stdout io.Writer) FileWriter {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &fileWriter{stdout: stdout}
}

// IsStdout reports whether filename selects standard output.
func IsStdout(filename string) bool {
	return filename == "" || filename == Stdout
}

func (w *fileWriter) Write(filename string, data []byte) error {
	if IsStdout(filename) {
		if _, err := w.stdout.Write(data); err != nil {
			return errors.Wrap(err, "write stdout")
		}
		return nil
	}
	return writeAtomic(filename, data)
}

// writeAtomic writes data to a temp file in the target directory and
// renames it over filename.
func writeAtomic(filename string, data []byte) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "create temp file for %s", filename)
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return errors.Wrapf(err, "write temp file for %s", filename)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return errors.Wrapf(err, "chmod temp file for %s", filename)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close temp file for %s", filename)
	}
	if err := os.Rename(tmpName, filename); err != nil {
		return errors.Wrapf(err, "rename temp file to %s", filename)
	}
	success = true
	return nil
}
