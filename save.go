// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

import "fmt"

// Save writes the current index and footer at the archive's data tail,
// truncates the file immediately after, and flushes to disk. It takes the
// exclusive lock for the duration of the write and downgrades back to
// shared before returning. Save does not rewrite the data region; it only
// writes the index and footer at dataEnd and truncates whatever followed
// them.
func (a *Archive) Save() error {
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

	if err := a.writeIndexAndFooter(); err != nil {
		_ = a.unlockToShared()
		return err
	}

	if err := a.file.Sync(); err != nil {
		_ = a.unlockToShared()
		return fmt.Errorf("sync: %w", err)
	}

	return a.unlockToShared()
}

// writeIndexAndFooter serializes the in-memory entry list at dataEnd and
// truncates the file to end immediately after the footer. Callers must
// hold a.mu and the exclusive lock.
func (a *Archive) writeIndexAndFooter() error {
	cur, err := writeIndexAndFooterTo(a.file, a.entries, a.dataEnd)
	if err != nil {
		return err
	}
	if err := a.file.Truncate(cur); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}

// writeIndexAndFooterTo serializes entries as an index followed by a
// footer into f starting at indexStart, returning the offset immediately
// after the footer.
func writeIndexAndFooterTo(f interface {
	WriteAt(p []byte, off int64) (int, error)
}, entries []EntryInfo, indexStart int64) (int64, error) {
	cur := indexStart

	for _, e := range entries {
		if len(e.Name) > maxNameLen {
			return 0, fmt.Errorf("%w: %q", ErrNameTooLong, e.Name)
		}
		var rec [entryRawSize]byte
		encodeEntryRaw(rec[:], e, uint16(len(e.Name)))
		if _, err := f.WriteAt(rec[:], cur); err != nil {
			return 0, fmt.Errorf("write index record: %w", err)
		}
		cur += entryRawSize

		if len(e.Name) > 0 {
			if _, err := f.WriteAt([]byte(e.Name), cur); err != nil {
				return 0, fmt.Errorf("write index name: %w", err)
			}
			cur += int64(len(e.Name))
		}

		newCur := alignUp(cur)
		if pad := newCur - cur; pad > 0 {
			if _, err := f.WriteAt(make([]byte, pad), cur); err != nil {
				return 0, fmt.Errorf("write index padding: %w", err)
			}
		}
		cur = newCur
	}

	var footer [footerSize]byte
	encodeFooter(footer[:], uint64(indexStart), uint64(len(entries)))
	if _, err := f.WriteAt(footer[:], cur); err != nil {
		return 0, fmt.Errorf("write footer: %w", err)
	}
	cur += footerSize

	return cur, nil
}
