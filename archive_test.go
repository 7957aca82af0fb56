// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bindle

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAddSaveReopenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t1.bndl")

	a, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := a.Add("a.txt", []byte("Hello"), None); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := a.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	a, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer a.Close()

	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
	got, err := a.Read("a.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "Hello" {
		t.Fatalf("Read() = %q, want %q", got, "Hello")
	}
}

func TestAddZstdRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t2.bndl")

	a, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	payload := []byte(strings.Repeat("1", 20))
	if err := a.Add("x", payload, Zstd); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := a.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	a, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer a.Close()

	got, err := a.Read("x")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("Read() = %q, want %q", got, payload)
	}

	entries := a.Entries()
	if len(entries) != 1 {
		t.Fatalf("Entries() len = %d, want 1", len(entries))
	}
	if entries[0].CompressedSize >= entries[0].UncompressedSize {
		t.Fatalf("expected compressed size < uncompressed size, got %d >= %d",
			entries[0].CompressedSize, entries[0].UncompressedSize)
	}
	if entries[0].CRC32 != crc32Of(payload) {
		t.Fatalf("CRC32 = %x, want %x", entries[0].CRC32, crc32Of(payload))
	}
}

func TestShadowing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t3.bndl")

	a, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := a.Add("k", []byte("v1"), None); err != nil {
		t.Fatalf("Add v1: %v", err)
	}
	if err := a.Add("k", []byte("v2"), None); err != nil {
		t.Fatalf("Add v2: %v", err)
	}
	if err := a.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	a, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer a.Close()

	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
	got, err := a.Read("k")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "v2" {
		t.Fatalf("Read() = %q, want %q", got, "v2")
	}
}

func TestOrderPreservation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t4.bndl")

	a, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, name := range []string{"n1", "n2", "n3"} {
		if err := a.Add(name, []byte(name), None); err != nil {
			t.Fatalf("Add %s: %v", name, err)
		}
	}
	if err := a.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	a, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer a.Close()

	want := []string{"n1", "n2", "n3"}
	for i, w := range want {
		name, ok := a.EntryName(i)
		if !ok || name != w {
			t.Fatalf("EntryName(%d) = %q, %v; want %q", i, name, ok, w)
		}
	}
}

func TestRemoveAndVacuum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t5.bndl")

	a, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := a.Add("file1.txt", []byte("Data 1"), None); err != nil {
		t.Fatalf("Add file1: %v", err)
	}
	if err := a.Add("file2.txt", []byte("Data 2"), None); err != nil {
		t.Fatalf("Add file2: %v", err)
	}
	if err := a.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := a.Remove("file1.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := a.Save(); err != nil {
		t.Fatalf("Save after remove: %v", err)
	}

	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
	if a.Exists("file1.txt") {
		t.Fatalf("file1.txt should not exist")
	}
	if !a.Exists("file2.txt") {
		t.Fatalf("file2.txt should exist")
	}

	sizeBefore, err := fileSize(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	if err := a.Vacuum(); err != nil {
		t.Fatalf("Vacuum: %v", err)
	}

	sizeAfter, err := fileSize(path)
	if err != nil {
		t.Fatalf("stat after vacuum: %v", err)
	}
	if sizeAfter >= sizeBefore {
		t.Fatalf("expected size to shrink: before=%d after=%d", sizeBefore, sizeAfter)
	}

	got, err := a.Read("file2.txt")
	if err != nil {
		t.Fatalf("Read after vacuum: %v", err)
	}
	if string(got) != "Data 2" {
		t.Fatalf("Read() = %q, want %q", got, "Data 2")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestStreamingWriterReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t6.bndl")

	a, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	w, err := a.NewWriter("s", None)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if _, err := w.Write([]byte("Streaming ")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := w.Write([]byte("from C!")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Writer.Close: %v", err)
	}
	if err := a.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	a, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer a.Close()

	r, err := a.NewReader("s")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	buf := make([]byte, 256)
	var total []byte
	for {
		n, err := r.Read(buf)
		total = append(total, buf[:n]...)
		if err != nil {
			break
		}
	}
	want := "Streaming from C!"
	if string(total) != want {
		t.Fatalf("stream contents = %q, want %q", total, want)
	}
	if !r.VerifyCRC32() {
		t.Fatalf("VerifyCRC32() = false, want true")
	}
}

func TestCorruptionDetected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t7.bndl")

	a, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := a.Add("a.txt", []byte("Hello"), None); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := a.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	corruptByteAt(t, path, 8) // first byte of the payload region

	a, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer a.Close()

	r, err := a.NewReader("a.txt")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	buf := make([]byte, 64)
	for {
		_, err := r.Read(buf)
		if err != nil {
			break
		}
	}
	if r.VerifyCRC32() {
		t.Fatalf("VerifyCRC32() = true, want false after corruption")
	}
}

func TestNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t8.bndl")
	a, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer a.Close()

	if _, err := a.Read("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read(missing) error = %v, want ErrNotFound", err)
	}
}

func TestBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.bndl")
	if err := os.WriteFile(path, []byte("not a bindle file at all"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("Load() error = %v, want ErrBadMagic", err)
	}
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func corruptByteAt(t *testing.T, path string, offset int64) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		t.Fatalf("open for corruption: %v", err)
	}
	defer f.Close()

	var b [1]byte
	if _, err := f.ReadAt(b[:], offset); err != nil {
		t.Fatalf("read byte: %v", err)
	}
	b[0] ^= 0xFF
	if _, err := f.WriteAt(b[:], offset); err != nil {
		t.Fatalf("write byte: %v", err)
	}
}
