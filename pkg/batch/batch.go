// Package batch converts every supported image under a directory tree.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"vectrace/pkg/imageio"
	"vectrace/pkg/log"
)

// maxWorkers caps the number of concurrently running conversions.
const maxWorkers = 20

var ErrWalkCancelled = errors.New("directory walk cancelled")

// ConvertFunc converts the image at src into an SVG file at dst.
type ConvertFunc func(ctx context.Context, src, dst string) error

// Result is the outcome of one file.
type Result struct {
	Src, Dst string
	Err      error
}

// Ops describes a batch run.
type Ops struct {
	Src, Dst string
	Workers  int
}

// OutputName maps an input file to its SVG name inside dir.
func OutputName(dir, src string) string {
	base := filepath.Base(src)
	return filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+".svg")
}

// Run walks op.Src and converts every supported file into op.Dst, which
// is created if missing. Each finished file is passed to report. A failed
// file does not stop the others; Run returns the walk error, if any, and
// otherwise the number of failed files as an error.
func Run(ctx context.Context, op Ops, convert ConvertFunc, report func(Result)) error {
	logger := log.WithOperation(log.WithComponent("batch"), "run")
	if err := os.MkdirAll(op.Dst, 0o755); err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	workers := op.Workers
	if workers <= 0 || workers > maxWorkers {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	paths, errc := walkDir(ctx.Done(), op.Src)
	ch := make(chan Result)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			consumer(ctx, op.Dst, convert, ch, paths)
		}()
	}
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	failed := 0
	for res := range ch {
		if res.Err != nil {
			failed++
		}
		if report != nil {
			report(res)
		}
	}

	if err := <-errc; err != nil {
		return fmt.Errorf("batch: walk %s: %w", op.Src, err)
	}
	logger.Debug("batch finished", "src", op.Src, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("batch: %d file(s) failed", failed)
	}
	return ctx.Err()
}

// consumer converts the paths it receives until the channel closes or the
// context is cancelled.
func consumer(ctx context.Context, dst string, convert ConvertFunc, res chan<- Result, paths <-chan string) {
	for src := range paths {
		out := OutputName(dst, src)
		err := convert(ctx, src, out)
		if err != nil {
			// Do not leave partial output behind.
			os.Remove(out)
		}
		select {
		case <-ctx.Done():
			return
		case res <- Result{Src: src, Dst: out, Err: err}:
		}
	}
}

// walkDir walks src in a new goroutine and sends the path of each
// supported regular file. It stops when done is closed.
func walkDir(done <-chan struct{}, src string) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		defer close(pathChan)

		errChan <- filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() || !imageio.IsSupported(d.Name()) {
				return nil
			}
			select {
			case <-done:
				return ErrWalkCancelled
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}
