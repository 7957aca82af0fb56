// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

//go:build unix

package bindle

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

// TestTryLockExclusiveRejectedWhileHeld exercises P8: while a second,
// independent file descriptor holds a flock on the archive's file,
// TryLockExclusive must report false rather than block. The rival takes a
// shared lock because the archive itself holds a shared lock from Create,
// which keeps any other descriptor from taking an exclusive one.
func TestTryLockExclusiveRejectedWhileHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock.bndl")

	a, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer a.Close()
	if err := a.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rival, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		t.Fatalf("open rival: %v", err)
	}
	defer rival.Close()

	if err := syscall.Flock(int(rival.Fd()), syscall.LOCK_SH|syscall.LOCK_NB); err != nil {
		t.Fatalf("rival flock: %v", err)
	}
	defer syscall.Flock(int(rival.Fd()), syscall.LOCK_UN)

	ok, err := a.TryLockExclusive()
	if err != nil {
		t.Fatalf("TryLockExclusive: %v", err)
	}
	if ok {
		t.Fatalf("TryLockExclusive() = true while rival holds a shared lock")
	}
}
