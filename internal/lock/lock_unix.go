//go:build unix

package lock

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// tryLock takes a non-blocking flock on the lock file. The kernel drops the
// lock when the process exits, so there are no stale locks to clean up.
func (l *Lock) tryLock() (bool, error) {
	f, err := os.OpenFile(l.lockPath, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return false, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return false, nil
		}
		return false, fmt.Errorf("failed to lock %s: %w", l.lockPath, err)
	}

	if err := f.Truncate(0); err == nil {
		_, _ = f.WriteAt([]byte(strconv.Itoa(os.Getpid())), 0)
	}

	l.file = f
	return true, nil
}

// unlock keeps the file in place: removing a flock file lets a waiter lock
// an inode nobody else will open again.
func (l *Lock) unlock() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil
	_ = f.Truncate(0)
	if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
		f.Close()
		return fmt.Errorf("failed to unlock %s: %w", l.lockPath, err)
	}
	return f.Close()
}
