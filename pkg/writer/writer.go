// Package writer buffers generated C files and writes them only when their
// content changed, so unchanged outputs keep their timestamps and do not
// trigger rebuilds.
package writer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CWriter collects the text of one generated file
type CWriter struct {
	path  string
	buf   bytes.Buffer
	guard string
}

// New creates a writer for a C source file
func New(path string) *CWriter {
	return &CWriter{path: path}
}

// NewHeader creates a writer that wraps its content in an include guard
// derived from the file name
func NewHeader(path string) *CWriter {
	return &CWriter{path: path, guard: GuardName(path)}
}

// GuardName turns dispatch_table_autogen.h into DISPATCH_TABLE_AUTOGEN_H
func GuardName(path string) string {
	name := strings.ToUpper(filepath.Base(path))
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, name)
}

// Path returns the destination path
func (w *CWriter) Path() string {
	return w.path
}

func (w *CWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

// Content returns the complete file text, guard included
func (w *CWriter) Content() []byte {
	if w.guard == "" {
		return w.buf.Bytes()
	}
	var out bytes.Buffer
	fmt.Fprintf(&out, "#ifndef %s\n#define %s\n\n", w.guard, w.guard)
	out.Write(w.buf.Bytes())
	fmt.Fprintf(&out, "\n#endif  // %s\n", w.guard)
	return out.Bytes()
}

// Close writes the file if its content differs from what is on disk and
// reports whether it did
func (w *CWriter) Close() (bool, error) {
	content := w.Content()
	existing, err := os.ReadFile(w.path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".tmp*")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return false, err
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return false, err
	}
	return true, nil
}
