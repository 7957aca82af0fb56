// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

package bulk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/pathrules"
	"github.com/zshipko/bindle"
)

func TestPackAndUnpackDir(t *testing.T) {
	srcDir := t.TempDir()
	files := map[string]string{
		"a.txt":         "hello",
		"nested/b.txt":  "world",
		"nested/c.data": "binary-ish content here",
	}
	for rel, content := range files {
		full := filepath.Join(srcDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	archivePath := filepath.Join(t.TempDir(), "bulk.bndl")
	a, err := bindle.Create(archivePath)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	matcher, err := pathrules.NewMatcher([]pathrules.Rule{
		{Action: pathrules.ActionInclude, Pattern: "*.txt"},
	}, pathrules.MatcherOptions{CaseInsensitive: true, DefaultAction: pathrules.ActionExclude})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}

	written, err := PackDir(a, srcDir, matcher, 2)
	if err != nil {
		t.Fatalf("PackDir: %v", err)
	}
	if written != len(files) {
		t.Fatalf("written = %d, want %d", written, len(files))
	}
	if err := a.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	destDir := t.TempDir()
	if err := UnpackDir(context.Background(), a, destDir, 2); err != nil {
		t.Fatalf("UnpackDir: %v", err)
	}

	for rel, content := range files {
		got, err := os.ReadFile(filepath.Join(destDir, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatalf("ReadFile %s: %v", rel, err)
		}
		if string(got) != content {
			t.Fatalf("%s content = %q, want %q", rel, got, content)
		}
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
