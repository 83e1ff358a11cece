package lock

import (
	"errors"
	"os"
	"strconv"
	"testing"
	"time"
)

func TestTryAcquireScenarios(t *testing.T) {
	tests := []struct {
		name         string
		holdOther    bool
		wantAcquired bool
	}{
		{name: "fresh lock", wantAcquired: true},
		{name: "held by another holder", holdOther: true, wantAcquired: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()

			if tt.holdOther {
				other := NewLock(dir, "main")
				ok, err := other.TryAcquire()
				if err != nil || !ok {
					t.Fatalf("准备锁失败: ok=%v err=%v", ok, err)
				}
				t.Cleanup(func() { _ = other.Release() })
			}

			l := NewLock(dir, "main")
			acquired, err := l.TryAcquire()
			if err != nil {
				t.Fatalf("TryAcquire() error = %v", err)
			}
			if acquired != tt.wantAcquired {
				t.Fatalf("获取锁结果不匹配: %v != %v", acquired, tt.wantAcquired)
			}
			if acquired {
				pid, err := l.GetPID()
				if err != nil {
					t.Fatalf("GetPID() error = %v", err)
				}
				if pid != os.Getpid() {
					t.Fatalf("PID 不匹配: %d", pid)
				}
				if err := l.Release(); err != nil {
					t.Fatalf("Release() error = %v", err)
				}
			}
		})
	}
}

func TestReleaseAllowsNextHolder(t *testing.T) {
	dir := t.TempDir()

	first := NewLock(dir, "team")
	if err := first.Acquire(time.Second); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if ok, err := NewLock(dir, "team").TryAcquire(); err != nil || ok {
		t.Fatalf("TryAcquire() while held = %v, %v; want false, nil", ok, err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := first.Release(); err != nil {
		t.Fatalf("second Release() error = %v", err)
	}

	second := NewLock(dir, "team")
	if err := second.Acquire(time.Second); err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}
	defer second.Release()
}

func TestAcquireTimesOut(t *testing.T) {
	dir := t.TempDir()

	holder := NewLock(dir, "main")
	if err := holder.Acquire(time.Second); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer holder.Release()

	waiter := NewLock(dir, "main")
	start := time.Now()
	err := waiter.Acquire(150 * time.Millisecond)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("Acquire() error = %v, want ErrLocked", err)
	}
	if time.Since(start) < 150*time.Millisecond {
		t.Fatalf("Acquire returned before the wait elapsed")
	}
}

func TestAcquireWaitsForRelease(t *testing.T) {
	dir := t.TempDir()

	holder := NewLock(dir, "main")
	if err := holder.Acquire(time.Second); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = holder.Release()
	}()

	waiter := NewLock(dir, "main")
	if err := waiter.Acquire(5 * time.Second); err != nil {
		t.Fatalf("waiter Acquire() error = %v", err)
	}
	defer waiter.Release()
}

func TestReleaseWithoutAcquire(t *testing.T) {
	l := NewLock(t.TempDir(), "main")
	if err := l.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
}

func TestGetPIDInvalid(t *testing.T) {
	dir := t.TempDir()
	l := NewLock(dir, "main")
	if err := os.WriteFile(l.Path(), []byte("not-a-pid"), 0600); err != nil {
		t.Fatalf("写入锁文件失败: %v", err)
	}
	if _, err := l.GetPID(); err == nil {
		t.Fatalf("expected invalid PID error")
	}
	if err := os.WriteFile(l.Path(), []byte(strconv.Itoa(42)), 0600); err != nil {
		t.Fatalf("写入锁文件失败: %v", err)
	}
	if pid, err := l.GetPID(); err != nil || pid != 42 {
		t.Fatalf("GetPID() = %d, %v", pid, err)
	}
}
