// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

// Internal binary layout and format limits.
const (
	magicSize    = 8     // fixed bindle header size in bytes
	entryRawSize = 32    // packed on-disk entry record size
	footerSize   = 16    // trailing footer size
	maxNameLen   = 65535 // max entry name length (name_len is u16)
)

// magic is the fixed 8-byte header every bindle file begins with.
var magic = [magicSize]byte{'B', 'I', 'N', 'D', 'L', '0', '0', '1'}

// CompressionType selects the codec used to store one entry's payload.
type CompressionType uint8

// Supported compression variants. Auto is resolved to None or Zstd before
// a record is ever constructed; it is never written to disk.
const (
	// None stores the payload verbatim.
	None CompressionType = 0
	// Zstd stores the payload compressed with Zstd at the default level.
	Zstd CompressionType = 1
	// Auto requests a size/ratio heuristic at the API boundary.
	Auto CompressionType = 2
)

// String renders a compression type for logging and the list command.
func (c CompressionType) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// autoCompressMinSize is the smallest payload Auto will ever consider
// compressing; below this, the codec overhead is assumed not worth trying.
const autoCompressMinSize = 512

// autoCompressRatio is the compressed/uncompressed ratio Auto must stay
// strictly below; at or above it the payload is stored uncompressed.
const autoCompressRatio = 0.95

// EntryInfo describes a single entry's metadata, as stored in the index or
// as returned by Entries. Mutating a returned value does not affect the
// archive; metadata is only ever changed through Add, a Writer, Remove, or
// Vacuum (which rewrites offsets).
type EntryInfo struct {
	// Name is the entry's unique key within the archive.
	Name string
	// Offset is the absolute byte offset of the stored payload.
	Offset uint64
	// CompressedSize is the stored (possibly compressed) payload length.
	CompressedSize uint64
	// UncompressedSize is the logical payload length before compression.
	UncompressedSize uint64
	// CRC32 is the IEEE CRC-32 of the uncompressed payload, or 0 if unknown.
	CRC32 uint32
	// CompressionType is how the payload is stored; never Auto.
	CompressionType CompressionType
}

// alignUp rounds n up to the next multiple of 8.
func alignUp(n int64) int64 {
	return (n + 7) &^ 7
}
