// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

// LockMode reports the advisory lock currently held on an archive's file
// descriptor.
type LockMode int

// Lock modes tracked alongside the OS-level advisory lock.
const (
	LockUnlocked LockMode = iota
	LockShared
	LockExclusive
)

// lockShared acquires (or confirms) a shared lock on the archive's file.
func (a *Archive) lockShared() error {
	if a.lockMode == LockShared {
		return nil
	}
	if err := a.osLockShared(); err != nil {
		return err
	}
	a.lockMode = LockShared
	return nil
}

// lockExclusive upgrades to an exclusive lock, required around every
// mutating I/O path (save, writer-driven append, remove-induced save,
// vacuum).
func (a *Archive) lockExclusive() error {
	if a.lockMode == LockExclusive {
		return nil
	}
	if err := a.osLockExclusive(); err != nil {
		return err
	}
	a.lockMode = LockExclusive
	return nil
}

// unlockToShared downgrades back to a shared lock after a mutating path
// completes, matching the open/read-default lock level.
func (a *Archive) unlockToShared() error {
	if err := a.osLockShared(); err != nil {
		return err
	}
	a.lockMode = LockShared
	return nil
}

// unlockAll releases the advisory lock entirely, used on Close.
func (a *Archive) unlockAll() error {
	if a.lockMode == LockUnlocked {
		return nil
	}
	if err := a.osUnlock(); err != nil {
		return err
	}
	a.lockMode = LockUnlocked
	return nil
}

// TryLockExclusive attempts a non-blocking upgrade to an exclusive lock,
// for callers that want to fail fast instead of blocking on a concurrent
// writer. On success the lock is
// immediately downgraded back to shared; the return value only reports
// whether exclusive access was momentarily available.
func (a *Archive) TryLockExclusive() (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return false, ErrClosed
	}
	ok, err := a.osTryLockExclusive()
	if err != nil || !ok {
		return ok, err
	}
	a.lockMode = LockExclusive
	if err := a.unlockToShared(); err != nil {
		return true, err
	}
	return true, nil
}
