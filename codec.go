// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

import (
	"fmt"
	"hash/crc32"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var encoderPool = sync.Pool{
	New: func() any {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(err) // only fails on invalid static options
		}
		return enc
	},
}

var decoderPool = sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			panic(err)
		}
		return dec
	},
}

// compressBuffer compresses data in one shot using a pooled encoder.
func compressBuffer(data []byte) ([]byte, error) {
	enc := encoderPool.Get().(*zstd.Encoder)
	defer encoderPool.Put(enc)
	out := enc.EncodeAll(data, make([]byte, 0, len(data)/2+16))
	return out, nil
}

// decompressBuffer decompresses data in one shot using a pooled decoder,
// and fails if the result does not match expectedLen exactly.
func decompressBuffer(data []byte, expectedLen int) ([]byte, error) {
	dec := decoderPool.Get().(*zstd.Decoder)
	defer decoderPool.Put(dec)
	out, err := dec.DecodeAll(data, make([]byte, 0, expectedLen))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if len(out) != expectedLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrDecode, len(out), expectedLen)
	}
	return out, nil
}

// newStreamEncoder returns an Encoder writing compressed frames to w.
func newStreamEncoder(w io.Writer) (*zstd.Encoder, error) {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	return enc, nil
}

// newStreamDecoder returns a Decoder reading compressed frames from r.
func newStreamDecoder(r io.Reader) (*zstd.Decoder, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return dec, nil
}

// shouldAutoCompress applies the Auto heuristic: compress only payloads at
// least autoCompressMinSize bytes whose trial compression beats
// autoCompressRatio. Ties (equal size) prefer None.
func shouldAutoCompress(data []byte) (CompressionType, []byte, error) {
	if len(data) < autoCompressMinSize {
		return None, data, nil
	}
	compressed, err := compressBuffer(data)
	if err != nil {
		return None, nil, fmt.Errorf("%w: %v", ErrCodec, err)
	}
	if float64(len(compressed)) < float64(len(data))*autoCompressRatio {
		return Zstd, compressed, nil
	}
	return None, data, nil
}

func crc32Of(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}
