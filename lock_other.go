// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

//go:build !unix

package bindle

// On platforms without flock(2), advisory locking is a documented no-op.
// Concurrent multi-process use of the same archive file is unsupported
// outside unix; callers on these platforms must serialize access themselves.

func (a *Archive) osLockShared() error { return nil }

func (a *Archive) osLockExclusive() error { return nil }

func (a *Archive) osTryLockExclusive() (bool, error) { return true, nil }

func (a *Archive) osUnlock() error { return nil }
