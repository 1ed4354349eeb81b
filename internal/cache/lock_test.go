package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileLock_LockUnlock(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "feeds.lock")
	lock := NewFileLock(lockPath)

	if err := lock.Lock(); err != nil {
		t.Fatalf("Lock() error = %v", err)
	}
	if _, err := os.Stat(lockPath); err != nil {
		t.Errorf("lock file should exist after locking: %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	// Second unlock is a no-op.
	if err := lock.Unlock(); err != nil {
		t.Errorf("second Unlock() error = %v", err)
	}
}

func TestFileLock_Blocks(t *testing.T) {
	t.Parallel()

	lockPath := filepath.Join(t.TempDir(), "feeds.lock")

	first := NewFileLock(lockPath)
	if err := first.Lock(); err != nil {
		t.Fatalf("first Lock() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		second := NewFileLock(lockPath)
		if err := second.Lock(); err != nil {
			t.Errorf("second Lock() error = %v", err)
			close(done)
			return
		}
		_ = second.Unlock()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second lock should block while the first is held")
	case <-time.After(30 * time.Millisecond):
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("first Unlock() error = %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("second lock was not acquired after release")
	}
}

func TestFileLock_InvalidPath(t *testing.T) {
	t.Parallel()

	lock := NewFileLock("/non-existent-dir/feeds.lock")
	if err := lock.Lock(); err == nil {
		_ = lock.Unlock()
		t.Error("expected error for lock in non-existent directory")
	}
}
