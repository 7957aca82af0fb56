// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

import "encoding/binary"

// encodeEntryRaw writes one entry's 32-byte packed record to dst, which
// must be at least entryRawSize bytes. nameLen is the entry's name length,
// validated separately by the caller.
func encodeEntryRaw(dst []byte, e EntryInfo, nameLen uint16) {
	_ = dst[entryRawSize-1]
	binary.LittleEndian.PutUint64(dst[0:8], e.Offset)
	binary.LittleEndian.PutUint64(dst[8:16], e.CompressedSize)
	binary.LittleEndian.PutUint64(dst[16:24], e.UncompressedSize)
	binary.LittleEndian.PutUint32(dst[24:28], e.CRC32)
	binary.LittleEndian.PutUint16(dst[28:30], nameLen)
	dst[30] = byte(e.CompressionType)
	dst[31] = 0
}

// decodeEntryRaw parses one 32-byte packed record from src.
func decodeEntryRaw(src []byte) (e EntryInfo, nameLen uint16) {
	_ = src[entryRawSize-1]
	e.Offset = binary.LittleEndian.Uint64(src[0:8])
	e.CompressedSize = binary.LittleEndian.Uint64(src[8:16])
	e.UncompressedSize = binary.LittleEndian.Uint64(src[16:24])
	e.CRC32 = binary.LittleEndian.Uint32(src[24:28])
	nameLen = binary.LittleEndian.Uint16(src[28:30])
	e.CompressionType = CompressionType(src[30])
	return e, nameLen
}

// encodeFooter writes the 16-byte footer to dst, which must be at least
// footerSize bytes.
func encodeFooter(dst []byte, indexOffset, entryCount uint64) {
	_ = dst[footerSize-1]
	binary.LittleEndian.PutUint64(dst[0:8], indexOffset)
	binary.LittleEndian.PutUint64(dst[8:16], entryCount)
}

// decodeFooter parses the 16-byte footer from src.
func decodeFooter(src []byte) (indexOffset, entryCount uint64) {
	_ = src[footerSize-1]
	indexOffset = binary.LittleEndian.Uint64(src[0:8])
	entryCount = binary.LittleEndian.Uint64(src[8:16])
	return indexOffset, entryCount
}
