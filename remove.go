// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

import "fmt"

// Remove tombstones name in memory. The entry's payload bytes remain in
// the data region as dead space. Save must be called afterward for the
// removal to take effect on disk; without a Save, it is forgotten on
// Close.
func (a *Archive) Remove(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkUsable(); err != nil {
		return err
	}
	if a.activeWriter {
		return ErrWriterOpen
	}

	idx, ok := a.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	if err := a.lockExclusive(); err != nil {
		return err
	}

	a.entries = append(a.entries[:idx], a.entries[idx+1:]...)
	delete(a.index, name)
	for i := idx; i < len(a.entries); i++ {
		a.index[a.entries[i].Name] = i
	}

	return a.unlockToShared()
}
