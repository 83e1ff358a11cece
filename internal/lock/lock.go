package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// LockFileSuffix is appended to the repository name to form the lock file name
	LockFileSuffix = ".lock"
	// StaleLockTimeout is the age after which an exclusive-create lock file is
	// considered abandoned (only used where flock is unavailable)
	StaleLockTimeout = 5 * time.Minute
	// DefaultWait is how long Acquire waits for another process by default
	DefaultWait = 10 * time.Second

	pollInterval = 50 * time.Millisecond
)

// ErrLocked is returned by Acquire when the lock stays held past the wait.
var ErrLocked = errors.New("lock is held by another process")

// Lock is an exclusive, advisory, cross-process lock backed by a file.
type Lock struct {
	lockPath string
	file     *os.File
	acquired bool
}

// NewLock creates a lock named name inside dir
func NewLock(dir, name string) *Lock {
	return &Lock{
		lockPath: filepath.Join(dir, name+LockFileSuffix),
	}
}

// Path returns the lock file path
func (l *Lock) Path() string {
	return l.lockPath
}

// TryAcquire attempts to acquire the lock without waiting.
// Returns true if acquired, false if another holder has it.
func (l *Lock) TryAcquire() (bool, error) {
	if l.acquired {
		return true, nil
	}
	if err := os.MkdirAll(filepath.Dir(l.lockPath), 0755); err != nil {
		return false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	ok, err := l.tryLock()
	if err != nil || !ok {
		return ok, err
	}
	l.acquired = true
	return true, nil
}

// Acquire waits up to wait for the lock
func (l *Lock) Acquire(wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		ok, err := l.TryAcquire()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			if pid, err := l.GetPID(); err == nil {
				return fmt.Errorf("%w (pid %d)", ErrLocked, pid)
			}
			return ErrLocked
		}
		time.Sleep(pollInterval)
	}
}

// Release releases the lock
func (l *Lock) Release() error {
	if !l.acquired {
		return nil
	}
	l.acquired = false
	return l.unlock()
}

// GetPID returns the PID stored in the lock file
func (l *Lock) GetPID() (int, error) {
	data, err := os.ReadFile(l.lockPath)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in lock file: %w", err)
	}

	return pid, nil
}
