// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

import (
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zstd"
)

// fileSectionWriter is an io.Writer that appends to an underlying
// io.WriterAt starting at a private cursor, used to feed a streaming
// compressor or to copy payloads during vacuum.
type fileSectionWriter struct {
	wa  io.WriterAt
	cur int64
}

func (w *fileSectionWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := w.wa.WriteAt(p, w.cur); err != nil {
		return 0, err
	}
	w.cur += int64(len(p))
	return len(p), nil
}

// Writer streams a single entry's payload into an archive. A Writer
// borrows its archive exclusively for its lifetime: no other mutating
// operation may run on the same *Archive until Close or Abort releases it.
type Writer struct {
	a        *Archive
	name     string
	compress CompressionType

	startOffset int64
	sink        *fileSectionWriter
	enc         *zstd.Encoder

	crc             uint32
	uncompressedLen int64

	done bool
}

// NewWriter begins a streaming write of name. compress must be None or
// Zstd; Auto is rejected with ErrAutoStreamingUnsupported because its
// heuristic requires the complete payload up front.
func (a *Archive) NewWriter(name string, compress CompressionType) (*Writer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkUsable(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > maxNameLen {
		return nil, fmt.Errorf("%w: %q", ErrNameTooLong, name)
	}
	if a.activeWriter {
		return nil, ErrWriterOpen
	}
	switch compress {
	case None, Zstd:
	case Auto:
		return nil, ErrAutoStreamingUnsupported
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, compress)
	}

	sink := &fileSectionWriter{wa: a.file, cur: a.dataEnd}
	w := &Writer{
		a:           a,
		name:        name,
		compress:    compress,
		startOffset: a.dataEnd,
		sink:        sink,
	}

	if compress == Zstd {
		enc, err := newStreamEncoder(sink)
		if err != nil {
			return nil, err
		}
		w.enc = enc
	}

	a.activeWriter = true
	return w, nil
}

// Write feeds len(p) uncompressed bytes into the stream.
func (w *Writer) Write(p []byte) (int, error) {
	if w == nil {
		return 0, ErrNilWriter
	}
	if w.done {
		return 0, ErrClosed
	}
	w.crc = crc32.Update(w.crc, crc32.IEEETable, p)
	w.uncompressedLen += int64(len(p))

	if w.enc != nil {
		n, err := w.enc.Write(p)
		if err != nil {
			return n, fmt.Errorf("%w: %v", ErrCodec, err)
		}
		return n, nil
	}
	return w.sink.Write(p)
}

// Close flushes any pending codec state, pads the payload to an 8-byte
// boundary, and commits the entry's metadata to the archive (shadowing an
// existing entry of the same name, or appending a new one). The index on
// disk is not updated until Save.
func (w *Writer) Close() error {
	if w == nil {
		return ErrNilWriter
	}
	if w.done {
		return nil
	}
	w.done = true
	defer func() {
		w.a.mu.Lock()
		w.a.activeWriter = false
		w.a.mu.Unlock()
	}()

	if w.enc != nil {
		if err := w.enc.Close(); err != nil {
			return fmt.Errorf("%w: %v", ErrCodec, err)
		}
	}

	w.a.mu.Lock()
	defer w.a.mu.Unlock()

	if err := w.a.lockExclusive(); err != nil {
		return err
	}

	compressedSize := w.sink.cur - w.startOffset
	newEnd := alignUp(w.sink.cur)
	if pad := newEnd - w.sink.cur; pad > 0 {
		if _, err := w.a.file.WriteAt(make([]byte, pad), w.sink.cur); err != nil {
			_ = w.a.unlockToShared()
			return fmt.Errorf("%w: write padding: %v", ErrIO, err)
		}
	}
	w.a.dataEnd = newEnd

	entry := EntryInfo{
		Name:             w.name,
		Offset:           uint64(w.startOffset),
		CompressedSize:   uint64(compressedSize),
		UncompressedSize: uint64(w.uncompressedLen),
		CRC32:            w.crc,
		CompressionType:  w.compress,
	}

	if idx, exists := w.a.index[w.name]; exists {
		w.a.entries[idx] = entry
	} else {
		w.a.index[w.name] = len(w.a.entries)
		w.a.entries = append(w.a.entries, entry)
	}

	return w.a.unlockToShared()
}

// Abort releases the writer's exclusive hold on the archive without
// committing an entry. Bytes already written to the file remain as dead
// space, reclaimable by a subsequent Vacuum after a Save.
func (w *Writer) Abort() error {
	if w == nil {
		return ErrNilWriter
	}
	if w.done {
		return nil
	}
	w.done = true
	if w.enc != nil {
		_ = w.enc.Close()
	}
	w.a.mu.Lock()
	w.a.activeWriter = false
	w.a.mu.Unlock()
	return nil
}
