package gen

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Writer materializes a generated file map: a directory tree on disk or a
// zip archive. It lives strictly after Generate returns; the compute phase
// itself performs no I/O.
type Writer struct {
	outDir  string
	workers int

	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks write performance.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}

// NewWriter creates a writer rooted at the given output directory.
func NewWriter(outDir string) *Writer {
	return &Writer{outDir: outDir, workers: runtime.GOMAXPROCS(0)}
}

// WithWorkers sets the number of parallel disk writers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns the accumulated write metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// WriteTree writes every file of the map under the output directory,
// creating intermediate directories as needed. Files are written in
// parallel with a bounded worker count.
func (w *Writer) WriteTree(ctx context.Context, files FileMap) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, p := range files.Paths() {
		p := p
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(p, files[p])
			}
		})
	}
	return eg.Wait()
}

func (w *Writer) writeFile(rel, content string) error {
	path := filepath.Join(w.outDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return err
	}
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(content))
	w.mu.Unlock()
	return nil
}

// WriteZip streams the file map as a zip archive in sorted path order,
// which keeps the archive byte-stable for identical inputs.
func WriteZip(out io.Writer, files FileMap) error {
	zw := zip.NewWriter(out)
	for _, p := range files.Paths() {
		f, err := zw.Create(p)
		if err != nil {
			return fmt.Errorf("zip entry %s: %w", p, err)
		}
		if _, err := io.WriteString(f, files[p]); err != nil {
			return fmt.Errorf("zip entry %s: %w", p, err)
		}
	}
	return zw.Close()
}
