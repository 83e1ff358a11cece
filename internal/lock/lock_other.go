//go:build !unix

package lock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
)

// tryLock creates the lock file exclusively. A lock file older than
// StaleLockTimeout is treated as left behind by a crashed process.
func (l *Lock) tryLock() (bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(l.lockPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(l.lockPath)
				return false, fmt.Errorf("failed to create lock file: %w", errors.Join(werr, cerr))
			}
			return true, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return false, fmt.Errorf("failed to create lock file: %w", err)
		}

		info, statErr := os.Stat(l.lockPath)
		if statErr != nil || time.Since(info.ModTime()) <= StaleLockTimeout {
			return false, nil
		}
		// Stale lock, remove it and retry once
		os.Remove(l.lockPath)
	}
	return false, nil
}

func (l *Lock) unlock() error {
	if err := os.Remove(l.lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}
