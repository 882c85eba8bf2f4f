package main

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/esimov/stickr/utils"
	"github.com/pkg/errors"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// validExtensions lists the photo formats picked up from a source directory.
var validExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".gif"}

// result holds the outcome of processing a single photo.
type result struct {
	path string
	err  error
}

// runBatch processes every photo found under src concurrently, writing
// the clean variants into dst and, if censoredDir is set, the censored
// variants into censoredDir. Results are delivered in completion order.
func (a *app) runBatch(ctx context.Context, src, dst, censoredDir string, workers int) (<-chan result, <-chan error, error) {
	for _, dir := range []string{dst, censoredDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, errors.Wrap(err, "unable to create the destination directory")
		}
	}

	// Limit the concurrently running workers to maxWorkers.
	if workers <= 0 || workers > maxWorkers {
		workers = utils.Min(runtime.NumCPU(), maxWorkers)
	}

	ch := make(chan result)
	paths, errc := walkDir(ctx, src, validExtensions)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			a.consumer(ctx, paths, dst, censoredDir, ch)
		}()
	}

	// Close the channel after the values are consumed.
	go func() {
		defer close(ch)
		wg.Wait()
	}()

	return ch, errc, nil
}

// consumer reads the path names from the paths channel, processes the photo
// and sends the result on the res channel.
func (a *app) consumer(ctx context.Context, paths <-chan string, dst, censoredDir string, res chan<- result) {
	for src := range paths {
		j := job{in: src, out: filepath.Join(dst, filepath.Base(src))}
		if censoredDir != "" {
			j.censored = filepath.Join(censoredDir, filepath.Base(src))
		}
		err := a.process(ctx, j)

		select {
		case <-ctx.Done():
			return
		case res <- result{path: src, err: err}:
		}
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each supported photo to a new channel.
// It finishes when the context is canceled.
func walkDir(ctx context.Context, src string, exts []string) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() || !isValidExtension(filepath.Ext(f.Name()), exts) {
				return nil
			}

			select {
			case <-ctx.Done():
				return errors.New("directory walk cancelled")
			case pathChan <- path:
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	ext = strings.ToLower(ext)
	for _, ex := range extensions {
		if ex == ext {
			return true
		}
	}
	return false
}
