// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

import "fmt"

// Add stores data under name, compressing it according to compress. If an
// entry with name already exists, it is shadowed: the new payload is
// appended and the entry's metadata is updated in place, preserving its
// position in iteration order. The index on disk is not updated until
// Save. Add does not fail on a duplicate name; shadowing is not an error.
func (a *Archive) Add(name string, data []byte, compress CompressionType) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkUsable(); err != nil {
		return err
	}
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}
	if a.activeWriter {
		return ErrWriterOpen
	}

	crc := crc32Of(data)

	var stored []byte
	effective := compress
	switch compress {
	case Auto:
		resolved, payload, err := shouldAutoCompress(data)
		if err != nil {
			return err
		}
		effective = resolved
		stored = payload
	case Zstd:
		compressed, err := compressBuffer(data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCodec, err)
		}
		stored = compressed
	case None:
		stored = data
	default:
		return fmt.Errorf("%w: %d", ErrUnknownCompression, compress)
	}

	if err := a.lockExclusive(); err != nil {
		return err
	}

	offset := a.dataEnd
	if _, err := a.file.WriteAt(stored, offset); err != nil {
		_ = a.unlockToShared()
		return fmt.Errorf("%w: write payload: %v", ErrIO, err)
	}
	newEnd := alignUp(offset + int64(len(stored)))
	if pad := newEnd - (offset + int64(len(stored))); pad > 0 {
		if _, err := a.file.WriteAt(make([]byte, pad), offset+int64(len(stored))); err != nil {
			_ = a.unlockToShared()
			return fmt.Errorf("%w: write padding: %v", ErrIO, err)
		}
	}
	a.dataEnd = newEnd

	entry := EntryInfo{
		Name:             name,
		Offset:           uint64(offset),
		CompressedSize:   uint64(len(stored)),
		UncompressedSize: uint64(len(data)),
		CRC32:            crc,
		CompressionType:  effective,
	}

	if idx, exists := a.index[name]; exists {
		a.entries[idx] = entry
	} else {
		a.index[name] = len(a.entries)
		a.entries = append(a.entries, entry)
	}

	return a.unlockToShared()
}
