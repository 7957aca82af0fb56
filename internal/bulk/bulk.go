// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pbo

// Package bulk implements directory-walking pack/unpack glue around the
// bindle engine's public Add/NewReader operations. It never touches the
// binary format directly.
package bulk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/woozymasta/pathrules"
	"github.com/zshipko/bindle"
)

// copyBufferSize is the per-worker buffer size used while unpacking.
const copyBufferSize = 64 * 1024

// packJob is one file read from disk, ready to be committed to the
// archive by the single Add-calling goroutine.
type packJob struct {
	name     string
	data     []byte
	compress bindle.CompressionType
	err      error
}

// PackDir walks srcDir and adds every regular file to a, using matcher to
// decide which files are compressed. Reading source files and choosing
// their compression type is parallelized across workers; Add, which does
// the compression itself, runs on a single goroutine because an *Archive
// is not safe for concurrent mutation.
func PackDir(a *bindle.Archive, srcDir string, matcher *pathrules.Matcher, workers int) (int, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type fileTask struct {
		abs, rel string
	}

	var tasks []fileTask
	err := filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		tasks = append(tasks, fileTask{abs: path, rel: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk %s: %w", srcDir, err)
	}

	taskCh := make(chan fileTask, len(tasks))
	jobCh := make(chan packJob, len(tasks))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Go(func() {
			for t := range taskCh {
				data, err := os.ReadFile(t.abs)
				if err != nil {
					jobCh <- packJob{name: t.rel, err: fmt.Errorf("read %s: %w", t.abs, err)}
					continue
				}
				compress := bindle.None
				if matcher != nil && matcher.Included(t.rel, false) {
					compress = bindle.Zstd
				}
				jobCh <- packJob{name: t.rel, data: data, compress: compress}
			}
		})
	}

	for _, t := range tasks {
		taskCh <- t
	}
	close(taskCh)

	go func() {
		wg.Wait()
		close(jobCh)
	}()

	written := 0
	var firstErr error
	for job := range jobCh {
		if job.err != nil {
			if firstErr == nil {
				firstErr = job.err
			}
			continue
		}
		if firstErr != nil {
			continue
		}
		if err := a.Add(job.name, job.data, job.compress); err != nil {
			firstErr = fmt.Errorf("add %s: %w", job.name, err)
			continue
		}
		written++
	}

	return written, firstErr
}

// UnpackDir extracts every entry in a to destDir, in parallel across
// workers. It mirrors the bounded worker-pool / cancellation pattern used
// by the reference archive tooling's extractor.
func UnpackDir(ctx context.Context, a *bindle.Archive, destDir string, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	entries := a.Entries()
	if len(entries) == 0 {
		return nil
	}

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	taskCh := make(chan bindle.EntryInfo, len(entries))
	errCh := make(chan error, len(entries))
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Go(func() {
			buf := make([]byte, copyBufferSize)
			for entry := range taskCh {
				err := unpackOne(a, destDir, entry, buf)
				select {
				case errCh <- err:
				case <-ctx.Done():
					return
				}
			}
		})
	}

	for _, e := range entries {
		select {
		case <-ctx.Done():
			close(taskCh)
			wg.Wait()
			return ctx.Err()
		case taskCh <- e:
		}
	}
	close(taskCh)
	wg.Wait()
	close(errCh)

	var firstErr error
	for err := range errCh {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func unpackOne(a *bindle.Archive, destDir string, entry bindle.EntryInfo, buf []byte) error {
	outPath := filepath.Join(destDir, filepath.FromSlash(entry.Name))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return fmt.Errorf("create dir for %s: %w", entry.Name, err)
	}

	r, err := a.NewReader(entry.Name)
	if err != nil {
		return fmt.Errorf("open %s: %w", entry.Name, err)
	}
	defer r.Close()

	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}

	if _, err := io.CopyBuffer(f, r, buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", outPath, err)
	}

	if !r.VerifyCRC32() {
		return fmt.Errorf("%s: %w", entry.Name, bindle.ErrCrcMismatch)
	}

	return nil
}
