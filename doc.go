// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

/*
Package bindle implements a single-file, append-oriented archive format.
A Bindle holds an arbitrary collection of named byte blobs, each optionally
Zstd-compressed, together with a trailing self-describing index. The engine
supports buffered and streaming writes, shadow-based in-place replacement,
streaming reads with CRC-32 verification, and crash-safe offline compaction.

# Opening

	a, err := bindle.Open("data.bndl")
	if err != nil {
	    return err
	}
	defer a.Close()

Open creates the file if it does not exist. Load requires an existing,
well-formed file: a missing path fails with ErrIO, and an empty or
malformed file with ErrBadMagic, ErrTruncatedFooter or ErrTruncatedIndex.

# Adding and reading

	if err := a.Add("greeting.txt", []byte("hello"), bindle.None); err != nil {
	    return err
	}
	if err := a.Save(); err != nil {
	    return err
	}
	data, err := a.Read("greeting.txt")
	if err != nil {
	    return err
	}
	_ = data

Re-adding an existing name shadows it: the new payload is appended and the
entry's metadata is updated in place, preserving its position in iteration
order. The old bytes become dead space until the next Vacuum.

# Streaming

	w, err := a.NewWriter("big.bin", bindle.Zstd)
	if err != nil {
	    return err
	}
	if _, err := io.Copy(w, src); err != nil {
	    w.Abort()
	    return err
	}
	if err := w.Close(); err != nil {
	    return err
	}

	r, err := a.NewReader("big.bin")
	if err != nil {
	    return err
	}
	defer r.Close()
	if _, err := io.Copy(dst, r); err != nil {
	    return err
	}
	if !r.VerifyCRC32() {
	    return errors.New("corrupt entry")
	}

# Removing and compacting

	if err := a.Remove("greeting.txt"); err != nil {
	    return err
	}
	if err := a.Save(); err != nil {
	    return err
	}
	if err := a.Vacuum(); err != nil {
	    return err
	}

Remove only tombstones the entry in memory; Save must follow for the
removal to take effect on disk. Vacuum rewrites the file without dead
space via a `<path>.tmp` sibling and an atomic rename.
*/
package bindle
