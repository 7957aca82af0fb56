// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

import (
	"fmt"
	"os"
	"sync"
)

// Archive is a handle to one open bindle file. Every method takes an
// internal mutex, so read calls (Read, NewReader, Entries and the other
// accessors) may come from several goroutines at once. Mutating calls
// (Add, Remove, Save, Vacuum, a Writer) are not coordinated beyond that
// mutex; callers that mutate from several goroutines serialize their own
// calls or open separate handles.
type Archive struct {
	mu sync.Mutex

	path string
	file *os.File

	entries []EntryInfo
	index   map[string]int // name -> index into entries

	dataEnd  int64
	lockMode LockMode

	closed       bool
	poisoned     bool
	activeWriter bool
}

// Create opens path for read/write, creating and initializing an empty
// archive if it does not already exist. If the file exists and is
// non-empty, its index is parsed exactly as Open would.
func Create(path string) (*Archive, error) {
	return openArchive(path, true)
}

// Open opens path for read/write, creating and initializing an empty
// archive if it does not already exist.
func Open(path string) (*Archive, error) {
	return openArchive(path, true)
}

// Load opens an existing, well-formed archive. Unlike Open, it never
// creates or initializes a file: a missing path is reported as an I/O
// error and an empty file as ErrBadMagic.
func Load(path string) (*Archive, error) {
	return openArchive(path, false)
}

func openArchive(path string, allowCreate bool) (*Archive, error) {
	flags := os.O_RDWR
	if allowCreate {
		flags |= os.O_CREATE
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}

	a := &Archive{
		path:  path,
		file:  f,
		index: make(map[string]int),
	}

	if err := a.lockShared(); err != nil {
		_ = f.Close()
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = a.unlockAll()
		_ = f.Close()
		return nil, fmt.Errorf("%w: stat %s: %v", ErrIO, path, err)
	}

	if info.Size() == 0 {
		if !allowCreate {
			_ = a.unlockAll()
			_ = f.Close()
			return nil, ErrBadMagic
		}
		if err := a.writeHeader(); err != nil {
			_ = a.unlockAll()
			_ = f.Close()
			return nil, err
		}
		return a, nil
	}

	if err := a.parse(info.Size()); err != nil {
		_ = a.unlockAll()
		_ = f.Close()
		return nil, err
	}

	return a, nil
}

// writeHeader initializes a brand-new, empty archive.
func (a *Archive) writeHeader() error {
	if _, err := a.file.WriteAt(magic[:], 0); err != nil {
		return fmt.Errorf("%w: write header: %v", ErrIO, err)
	}
	a.dataEnd = magicSize
	return nil
}

// parse reads and validates the header, footer, and index of an existing
// non-empty file.
func (a *Archive) parse(size int64) error {
	var hdr [magicSize]byte
	if _, err := a.file.ReadAt(hdr[:], 0); err != nil {
		return fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if hdr != magic {
		return ErrBadMagic
	}

	if size < magicSize+footerSize {
		return ErrTruncatedFooter
	}

	var footer [footerSize]byte
	if _, err := a.file.ReadAt(footer[:], size-footerSize); err != nil {
		return fmt.Errorf("%w: %v", ErrTruncatedFooter, err)
	}
	indexOffset, entryCount := decodeFooter(footer[:])

	if int64(indexOffset) < magicSize || int64(indexOffset) > size-footerSize {
		return ErrTruncatedIndex
	}

	entries := make([]EntryInfo, 0, entryCount)
	index := make(map[string]int, entryCount)

	cur := int64(indexOffset)
	limit := size - footerSize
	for i := uint64(0); i < entryCount; i++ {
		if cur+entryRawSize > limit {
			return ErrTruncatedIndex
		}
		var rec [entryRawSize]byte
		if _, err := a.file.ReadAt(rec[:], cur); err != nil {
			return fmt.Errorf("%w: %v", ErrTruncatedIndex, err)
		}
		entry, nameLen := decodeEntryRaw(rec[:])
		cur += entryRawSize

		if cur+int64(nameLen) > limit {
			return ErrTruncatedIndex
		}
		nameBuf := make([]byte, nameLen)
		if nameLen > 0 {
			if _, err := a.file.ReadAt(nameBuf, cur); err != nil {
				return fmt.Errorf("%w: %v", ErrTruncatedIndex, err)
			}
		}
		entry.Name = string(nameBuf)
		cur += int64(nameLen)
		cur = alignUp(cur)

		if entry.CompressionType != None && entry.CompressionType != Zstd {
			return fmt.Errorf("%w: %d", ErrUnknownCompression, entry.CompressionType)
		}
		if _, dup := index[entry.Name]; dup {
			return fmt.Errorf("%w: %q", ErrTruncatedIndex, entry.Name)
		}

		index[entry.Name] = len(entries)
		entries = append(entries, entry)
	}

	a.entries = entries
	a.index = index
	a.dataEnd = int64(indexOffset)
	return nil
}

// checkUsable returns an error if the archive cannot currently be used.
func (a *Archive) checkUsable() error {
	if a == nil {
		return ErrNilArchive
	}
	if a.closed {
		return ErrClosed
	}
	if a.poisoned {
		return ErrPoisoned
	}
	return nil
}

// Close releases the archive's advisory lock and closes its file handle.
// Close does not implicitly Save; unsaved mutations are lost.
func (a *Archive) Close() error {
	if a == nil {
		return ErrNilArchive
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true

	unlockErr := a.unlockAll()
	closeErr := a.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}

// Exists reports whether name is currently a live entry.
func (a *Archive) Exists(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.index[name]
	return ok
}

// Len returns the number of live entries.
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// EntryName returns the name of the entry at index i in iteration order.
func (a *Archive) EntryName(i int) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.entries) {
		return "", false
	}
	return a.entries[i].Name, true
}

// Entries returns a defensive copy of all live entries' metadata, in
// iteration order.
func (a *Archive) Entries() []EntryInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]EntryInfo, len(a.entries))
	copy(out, a.entries)
	return out
}

// FreeBuffer exists for foreign-binding parity; under Go's garbage
// collector it has nothing to do.
func FreeBuffer([]byte) {}
