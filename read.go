// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

import "fmt"

// Read returns the decompressed bytes stored under name. It returns
// ErrNotFound if no such entry exists.
func (a *Archive) Read(name string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkUsable(); err != nil {
		return nil, err
	}

	entry, err := a.lookupLocked(name)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, entry.CompressedSize)
	if entry.CompressedSize > 0 {
		if _, err := a.file.ReadAt(raw, int64(entry.Offset)); err != nil {
			return nil, fmt.Errorf("read payload %q: %w", name, err)
		}
	}

	if entry.CompressionType == None {
		return raw, nil
	}

	out, err := decompressBuffer(raw, int(entry.UncompressedSize))
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}
	return out, nil
}

// ReadUncompressedDirect returns the stored bytes for name without ever
// involving the codec layer. It fails with ErrNotPlain if the entry is
// stored compressed; callers that need zero-copy or direct-splice access
// to the underlying region must use this entry point instead of Read.
func (a *Archive) ReadUncompressedDirect(name string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkUsable(); err != nil {
		return nil, err
	}

	entry, err := a.lookupLocked(name)
	if err != nil {
		return nil, err
	}
	if entry.CompressionType != None {
		return nil, fmt.Errorf("%w: %q", ErrNotPlain, name)
	}

	raw := make([]byte, entry.CompressedSize)
	if entry.CompressedSize > 0 {
		if _, err := a.file.ReadAt(raw, int64(entry.Offset)); err != nil {
			return nil, fmt.Errorf("read payload %q: %w", name, err)
		}
	}
	return raw, nil
}

// lookupLocked finds an entry by name; callers must hold a.mu.
func (a *Archive) lookupLocked(name string) (EntryInfo, error) {
	idx, ok := a.index[name]
	if !ok {
		return EntryInfo{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return a.entries[idx], nil
}
