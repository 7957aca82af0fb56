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

// Reader streams one entry's decompressed bytes. It implements io.Reader
// with the usual (n, err) contract: 0, io.EOF signals the end of stream.
type Reader struct {
	entry EntryInfo

	sr  *io.SectionReader
	dec *zstd.Decoder

	crc  uint32
	eof  bool
	done bool
}

// NewReader opens a streaming reader for name. It returns ErrNotFound if no
// such entry exists.
func (a *Archive) NewReader(name string) (*Reader, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.checkUsable(); err != nil {
		return nil, err
	}

	entry, err := a.lookupLocked(name)
	if err != nil {
		return nil, err
	}

	sr := io.NewSectionReader(a.file, int64(entry.Offset), int64(entry.CompressedSize))
	r := &Reader{entry: entry, sr: sr}

	if entry.CompressionType == Zstd {
		dec, err := newStreamDecoder(sr)
		if err != nil {
			return nil, err
		}
		r.dec = dec
	}

	return r, nil
}

// Read fills p with up to len(p) uncompressed bytes, returning the number
// produced. 0, io.EOF marks the end of the entry's data.
func (r *Reader) Read(p []byte) (int, error) {
	if r == nil {
		return 0, ErrNilReader
	}
	if r.done {
		return 0, ErrClosed
	}
	if r.eof {
		return 0, io.EOF
	}

	var n int
	var err error
	if r.dec != nil {
		n, err = r.dec.Read(p)
	} else {
		n, err = r.sr.Read(p)
	}

	if n > 0 {
		r.crc = crc32.Update(r.crc, crc32.IEEETable, p[:n])
	}
	if err == io.EOF {
		r.eof = true
	} else if err != nil {
		return n, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return n, err
}

// VerifyCRC32 reports whether the bytes observed so far match the entry's
// stored CRC-32. It is only meaningful once the stream has been fully
// drained (a Read call returned io.EOF); calling it earlier returns false.
// An entry written without a CRC (stored as 0) always verifies.
func (r *Reader) VerifyCRC32() bool {
	if r == nil || !r.eof {
		return false
	}
	if r.entry.CRC32 == 0 {
		return true
	}
	return r.crc == r.entry.CRC32
}

// Close releases resources held by the reader. It does not affect the
// archive's lock state; readers do not borrow the archive exclusively.
func (r *Reader) Close() error {
	if r == nil {
		return ErrNilReader
	}
	if r.done {
		return nil
	}
	r.done = true
	if r.dec != nil {
		r.dec.Close()
	}
	return nil
}
