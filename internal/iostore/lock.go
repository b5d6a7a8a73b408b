package iostore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/huangsam/testpulse/internal/contract"
)

const (
	// lockTimeout bounds how long a writer waits for another run to finish.
	lockTimeout = 5 * time.Second
	// lockRetryDelay is the delay between lock retry attempts.
	lockRetryDelay = 20 * time.Millisecond
)

// ErrHistoryLocked means another process held the history lock for too long.
var ErrHistoryLocked = errors.New("history file is locked by another process")

// withFileLock runs fn while holding an exclusive advisory lock on path + ".lock".
// The lock lives next to the data file so atomic renames of the data file keep it valid.
func withFileLock(ctx context.Context, path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	lock := flock.New(path + ".lock")

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("%w: %s", ErrHistoryLocked, path)
		}
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrHistoryLocked, path)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			contract.LogWarn("Failed to unlock history file", err)
		}
	}()

	return fn()
}
