// Package atomicfile writes files so readers never observe a partial write.
package atomicfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DefaultPerm is used for every generated artifact.
const DefaultPerm os.FileMode = 0o644

// WriteFile atomically replaces filename with data, creating parent directories.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", filename, err)
	}
	if err := writeFileAtomicImpl(filename, data, perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// Render buffers everything render writes and then atomically replaces filename.
// Nothing is written when render fails.
func Render(filename string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	return WriteFile(filename, buf.Bytes(), DefaultPerm)
}
