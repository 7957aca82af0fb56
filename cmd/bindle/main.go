// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

// Command bindle is the CLI front end for the bindle engine: list, cat,
// add, pack, unpack, and vacuum operations against a single archive file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/woozymasta/pathrules"
	"github.com/zshipko/bindle"
	"github.com/zshipko/bindle/internal/bulk"
)

const usage = `bindle - single-file archive CLI

Usage:
  bindle <command> <file> [args]

Commands:
  list <file>                         List all entries
  cat <file> <name>                   Write one entry's contents to stdout
  add <file> <name> <src>             Add a single file to the archive
  pack <file> <src_dir> [flags]       Pack a directory into the archive
  unpack <file> <dest_dir> [flags]    Unpack archive to a directory
  vacuum <file>                       Reclaim space from shadowed entries

Flags:
  --compress PATTERN   (pack) glob pattern selecting files to compress (repeatable)
  --workers N          (pack/unpack) worker pool size (default: GOMAXPROCS)
`

func main() {
	configureLogging()

	if len(os.Args) < 3 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	path := os.Args[2]
	args := os.Args[3:]

	if err := run(cmd, path, args); err != nil {
		fmt.Fprintf(os.Stderr, "bindle: %s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func configureLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("BINDLE_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func run(cmd, path string, args []string) error {
	a, err := bindle.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("close archive failed", "path", path, "error", err)
		}
	}()

	switch cmd {
	case "list":
		return cmdList(a)
	case "cat":
		if len(args) < 1 {
			return fmt.Errorf("usage: bindle cat <file> <name>")
		}
		return cmdCat(a, args[0])
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: bindle add <file> <name> <src>")
		}
		return cmdAdd(a, args[0], args[1])
	case "pack":
		if len(args) < 1 {
			return fmt.Errorf("usage: bindle pack <file> <src_dir> [flags]")
		}
		return cmdPack(a, args[0], args[1:])
	case "unpack":
		if len(args) < 1 {
			return fmt.Errorf("usage: bindle unpack <file> <dest_dir> [flags]")
		}
		return cmdUnpack(a, args[0], args[1:])
	case "vacuum":
		return cmdVacuum(a, path)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdList(a *bindle.Archive) error {
	fmt.Printf("%-40s %-6s %12s %12s %10s\n", "NAME", "CODEC", "SIZE", "STORED", "CRC32")
	for _, e := range a.Entries() {
		fmt.Printf("%-40s %-6s %12d %12d %10x\n",
			e.Name, e.CompressionType, e.UncompressedSize, e.CompressedSize, e.CRC32)
	}
	return nil
}

func cmdCat(a *bindle.Archive, name string) error {
	r, err := a.NewReader(name)
	if err != nil {
		return err
	}
	defer r.Close()

	buf := make([]byte, 64*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := os.Stdout.Write(buf[:n]); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
	}
	if !r.VerifyCRC32() {
		slog.Warn("crc mismatch on cat", "name", name)
	}
	return nil
}

func cmdAdd(a *bindle.Archive, name, src string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	if err := a.Add(name, data, bindle.Auto); err != nil {
		return err
	}
	return a.Save()
}

func cmdPack(a *bindle.Archive, srcDir string, args []string) error {
	fs := pflag.NewFlagSet("pack", pflag.ContinueOnError)
	patterns := fs.StringArray("compress", nil, "glob pattern selecting files to compress")
	workers := fs.Int("workers", 0, "worker pool size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var matcher *pathrules.Matcher
	if len(*patterns) > 0 {
		rules := make([]pathrules.Rule, 0, len(*patterns))
		for _, p := range *patterns {
			rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: p})
		}
		m, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		})
		if err != nil {
			return fmt.Errorf("compile compress rules: %w", err)
		}
		matcher = m
	}

	written, err := bulk.PackDir(a, srcDir, matcher, *workers)
	if err != nil {
		return err
	}
	if err := a.Save(); err != nil {
		return err
	}
	slog.Info("pack complete", "entries", written, "src", srcDir)
	return nil
}

func cmdUnpack(a *bindle.Archive, destDir string, args []string) error {
	fs := pflag.NewFlagSet("unpack", pflag.ContinueOnError)
	workers := fs.Int("workers", 0, "worker pool size")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return bulk.UnpackDir(context.Background(), a, destDir, *workers)
}

func cmdVacuum(a *bindle.Archive, path string) error {
	before, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := a.Vacuum(); err != nil {
		return err
	}
	after, err := os.Stat(path)
	if err != nil {
		return err
	}
	slog.Info("vacuum complete", "entries", a.Len(), "reclaimed_bytes", before.Size()-after.Size())
	return nil
}
