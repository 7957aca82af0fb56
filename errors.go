// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

import "errors"

// Sentinel errors for Bindle operations. Use errors.Is in callers.
var (
	// ErrBadMagic means the file is missing or has a bad magic header.
	ErrBadMagic = errors.New("invalid bindle file: missing or bad magic header")
	// ErrTruncatedIndex means the index could not be fully read.
	ErrTruncatedIndex = errors.New("bindle file: truncated index")
	// ErrTruncatedFooter means the footer could not be fully read.
	ErrTruncatedFooter = errors.New("bindle file: truncated footer")
	// ErrNotFound means the named entry does not exist in the archive.
	ErrNotFound = errors.New("entry not found")
	// ErrDuplicate is reserved for a future strict-add mode; Add itself shadows.
	ErrDuplicate = errors.New("duplicate entry name")
	// ErrCodec means compression of a payload failed.
	ErrCodec = errors.New("compression failed")
	// ErrDecode means decompression failed or produced an unexpected length.
	ErrDecode = errors.New("decompression failed")
	// ErrCrcMismatch means a verified read's CRC-32 did not match the stored value.
	ErrCrcMismatch = errors.New("crc32 mismatch")
	// ErrVacuumFailed means compaction wrote a valid temp file but the rename failed.
	ErrVacuumFailed = errors.New("vacuum failed: rename did not complete")
	// ErrPoisoned means the archive handle observed an unrecoverable vacuum failure
	// and must be discarded; reopen the file to continue.
	ErrPoisoned = errors.New("archive handle poisoned, reopen required")
	// ErrNameTooLong means the entry name exceeds the maximum encodable length.
	ErrNameTooLong = errors.New("entry name exceeds maximum length")
	// ErrEmptyName means an empty name was passed to Add or NewWriter.
	ErrEmptyName = errors.New("entry name is empty")
	// ErrNilArchive means a method was called on a nil *Archive.
	ErrNilArchive = errors.New("archive is nil")
	// ErrClosed means the archive has already been closed.
	ErrClosed = errors.New("archive already closed")
	// ErrWriterOpen means a streaming writer is already active on this archive.
	ErrWriterOpen = errors.New("a streaming writer is already open on this archive")
	// ErrNotPlain means ReadUncompressedDirect was called on a compressed entry.
	ErrNotPlain = errors.New("entry is not stored uncompressed")
	// ErrUnknownCompression means a stored compression_type byte is outside the known set.
	ErrUnknownCompression = errors.New("unknown compression type")
	// ErrAutoStreamingUnsupported means NewWriter was called with Auto, which
	// requires the full payload up front and cannot be resolved mid-stream.
	ErrAutoStreamingUnsupported = errors.New("auto compression is not supported for streaming writes")
	// ErrIO marks an underlying filesystem error from opening or stat-ing an
	// archive, writing its header, payloads or padding, or creating, syncing
	// or closing Vacuum's temp file. Other I/O failures (payload reads,
	// Save's index writes, truncate and sync, Vacuum's rename) are returned
	// wrapped without it.
	ErrIO = errors.New("i/o error")
	// ErrNilReader means a method was called on a nil *Reader.
	ErrNilReader = errors.New("reader is nil")
	// ErrNilWriter means a method was called on a nil *Writer.
	ErrNilWriter = errors.New("writer is nil")
)
