// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

//go:build unix

package bindle

import (
	"errors"
	"fmt"
	"syscall"
)

// flockRetryEINTR retries a flock(2) call that was interrupted by a signal,
// matching the retry discipline used for blocking syscalls elsewhere in
// file-locking code.
func flockRetryEINTR(fd int, how int) error {
	for {
		err := syscall.Flock(fd, how)
		if err == nil {
			return nil
		}
		if errors.Is(err, syscall.EINTR) {
			continue
		}
		return err
	}
}

func (a *Archive) osLockShared() error {
	if err := flockRetryEINTR(int(a.file.Fd()), syscall.LOCK_SH); err != nil {
		return fmt.Errorf("lock shared: %w", err)
	}
	return nil
}

func (a *Archive) osLockExclusive() error {
	if err := flockRetryEINTR(int(a.file.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("lock exclusive: %w", err)
	}
	return nil
}

func (a *Archive) osTryLockExclusive() (bool, error) {
	err := syscall.Flock(int(a.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, syscall.EWOULDBLOCK) {
		return false, nil
	}
	return false, fmt.Errorf("try lock exclusive: %w", err)
}

func (a *Archive) osUnlock() error {
	if err := flockRetryEINTR(int(a.file.Fd()), syscall.LOCK_UN); err != nil {
		return fmt.Errorf("unlock: %w", err)
	}
	return nil
}
