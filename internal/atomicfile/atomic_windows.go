//go:build windows

package atomicfile

import (
	"os"
	"path/filepath"
)

// writeFileAtomicImpl writes a sibling temp file and renames it over the target.
// os.Rename replaces existing files on Windows via MoveFileEx.
func writeFileAtomicImpl(filename string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, filename)
}
