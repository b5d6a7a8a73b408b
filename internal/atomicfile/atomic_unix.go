//go:build !windows

package atomicfile

import (
	"os"

	"github.com/google/renameio/v2"
)

// writeFileAtomicImpl uses renameio (temp file + rename) on Unix systems.
func writeFileAtomicImpl(filename string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(filename, data, perm)
}
