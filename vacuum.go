// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

import (
	"fmt"
	"io"
	"os"
)

const vacuumCopyBufferSize = 64 * 1024

// Vacuum reclaims dead space left behind by shadowed or removed entries.
// It writes a compacted copy to "<path>.tmp" in the same directory, then
// atomically renames it over the original. If the rename fails after the
// temp file was written successfully, the archive handle is poisoned:
// every subsequent operation returns ErrPoisoned and the caller must
// reopen the file.
func (a *Archive) Vacuum() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkUsable(); err != nil {
		return err
	}
	if a.activeWriter {
		return ErrWriterOpen
	}

	if err := a.lockExclusive(); err != nil {
		return err
	}

	tmpPath := a.path + ".tmp"
	tmp, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		_ = a.unlockToShared()
		return fmt.Errorf("%w: %w: create temp file: %v", ErrVacuumFailed, ErrIO, err)
	}

	newEntries, indexStart, err := a.copyLiveEntriesTo(tmp)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		_ = a.unlockToShared()
		return fmt.Errorf("%w: %v", ErrVacuumFailed, err)
	}

	if _, err := writeIndexAndFooterTo(tmp, newEntries, indexStart); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		_ = a.unlockToShared()
		return fmt.Errorf("%w: %v", ErrVacuumFailed, err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		_ = a.unlockToShared()
		return fmt.Errorf("%w: %w: sync temp file: %v", ErrVacuumFailed, ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		_ = a.unlockToShared()
		return fmt.Errorf("%w: %w: close temp file: %v", ErrVacuumFailed, ErrIO, err)
	}

	if err := a.unlockAll(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: unlock original: %v", ErrVacuumFailed, err)
	}
	if err := a.file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: close original: %v", ErrVacuumFailed, err)
	}

	if err := os.Rename(tmpPath, a.path); err != nil {
		// Rename failed after a fully-written temp file: the in-memory
		// offsets now mismatch whatever is on disk, so the handle is
		// poisoned. The original file is reopened only so that Close has
		// a live handle to release.
		a.poisoned = true
		if f, rerr := os.OpenFile(a.path, os.O_RDWR, 0o644); rerr == nil {
			a.file = f
		}
		return fmt.Errorf("%w: rename: %v", ErrVacuumFailed, err)
	}

	newFile, err := os.OpenFile(a.path, os.O_RDWR, 0o644)
	if err != nil {
		a.poisoned = true
		return fmt.Errorf("%w: reopen: %v", ErrVacuumFailed, err)
	}

	a.file = newFile
	a.entries = newEntries
	a.index = make(map[string]int, len(newEntries))
	for i, e := range newEntries {
		a.index[e.Name] = i
	}
	a.dataEnd = indexStart
	a.lockMode = LockUnlocked

	return a.lockShared()
}

// copyLiveEntriesTo streams every live entry's stored bytes from the
// current archive file into dst, rewriting offsets as it goes. It returns
// the rewritten entries and the offset the index should start at.
func (a *Archive) copyLiveEntriesTo(dst *os.File) ([]EntryInfo, int64, error) {
	if _, err := dst.WriteAt(magic[:], 0); err != nil {
		return nil, 0, fmt.Errorf("write header: %w", err)
	}

	cur := int64(magicSize)
	out := make([]EntryInfo, len(a.entries))
	buf := make([]byte, vacuumCopyBufferSize)

	for i, e := range a.entries {
		out[i] = e
		out[i].Offset = uint64(cur)

		src := io.NewSectionReader(a.file, int64(e.Offset), int64(e.CompressedSize))
		sink := &fileSectionWriter{wa: dst, cur: cur}
		written, err := io.CopyBuffer(sink, src, buf)
		if err != nil {
			return nil, 0, fmt.Errorf("copy entry %q: %w", e.Name, err)
		}
		if written != int64(e.CompressedSize) {
			return nil, 0, fmt.Errorf("copy entry %q: short copy", e.Name)
		}

		cur = sink.cur
		newCur := alignUp(cur)
		if pad := newCur - cur; pad > 0 {
			if _, err := dst.WriteAt(make([]byte, pad), cur); err != nil {
				return nil, 0, fmt.Errorf("pad entry %q: %w", e.Name, err)
			}
		}
		cur = newCur
	}

	return out, cur, nil
}
