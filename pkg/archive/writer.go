// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package archive

import (
	"archive/tar"
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/wfctl/pkg/defaults"
	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
)

const (
	entryMode = 0o644
	fileMode  = 0o644
)

// Job is one archive entry waiting to be written. Exactly one of Data or
// Path is used: Path wins when set.
type Job struct {
	// Name is the entry name inside the archive.
	Name string
	// Data is an in-memory payload.
	Data []byte
	// Path is a file whose content is streamed at write time.
	Path string
	// Temporary marks Path for removal once the job is written or discarded.
	Temporary bool
}

// Entry describes an entry written to the archive.
type Entry struct {
	Name   string `json:"name" yaml:"name"`
	Size   int64  `json:"size" yaml:"size"`
	SHA256 string `json:"sha256" yaml:"sha256"`
}

// Option configures a Writer.
type Option func(*Writer)

// WithQueueSize sets the capacity of the job queue. Values below 1 make
// every Submit wait for the worker.
func WithQueueSize(n int) Option {
	return func(w *Writer) {
		if n < 0 {
			n = 0
		}
		w.queueSize = n
	}
}

// WithModTime fixes the modification time stamped on every entry.
func WithModTime(t time.Time) Option {
	return func(w *Writer) {
		w.modTime = t
	}
}

// Writer streams jobs into a compressed tar file from a single worker.
type Writer struct {
	path        string
	compression Compression
	queueSize   int
	modTime     time.Time

	file *os.File
	buf  *bufio.Writer
	comp io.WriteCloser
	tw   *tar.Writer

	jobs  chan Job
	group errgroup.Group

	// mu guards closed. Senders register in senders under the read lock so
	// jobs is closed only after every in-flight Submit has returned.
	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
	senders sync.WaitGroup

	// finalized is closed once the stream layers and the file are closed.
	finalized chan struct{}

	// entriesMu guards entries, appended by the worker.
	entriesMu sync.Mutex
	entries   []Entry
}

// Open validates the path suffix, creates the file and starts the worker.
// No file is created when the suffix is not supported.
func Open(path string, opts ...Option) (*Writer, error) {
	compression, err := CompressionFor(path)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		path:        path,
		compression: compression,
		queueSize:   defaults.ArchiveQueueSize,
	}
	for _, opt := range opts {
		opt(w)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fileMode)
	if err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to create archive file", err,
			map[string]any{"path": path})
	}

	w.file = f
	w.buf = bufio.NewWriter(f)
	w.comp, err = compression.newCompressor(w.buf)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.tw = tar.NewWriter(w.comp)
	w.jobs = make(chan Job, w.queueSize)
	w.done = make(chan struct{})
	w.finalized = make(chan struct{})

	w.group.Go(w.run)

	slog.Debug("archive opened", "path", path, "compression", compression)
	return w, nil
}

// Path returns the output file path.
func (w *Writer) Path() string {
	return w.path
}

// Compression returns the codec selected from the path suffix.
func (w *Writer) Compression() Compression {
	return w.compression
}

// Submit enqueues a job. It blocks while the queue is full and fails once
// Close has been called. It is safe for concurrent use.
func (w *Writer) Submit(job Job) error {
	if job.Name == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, "archive entry name is required")
	}

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return w.reject(job)
	}
	w.senders.Add(1)
	w.mu.RUnlock()
	defer w.senders.Done()

	select {
	case w.jobs <- job:
		return nil
	case <-w.done:
		return w.reject(job)
	}
}

func (w *Writer) reject(job Job) error {
	if job.Temporary && job.Path != "" {
		removeTemp(job.Path)
	}
	return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "archive is closed",
		map[string]any{"entry": job.Name})
}

// SubmitEntry enqueues an in-memory payload.
func (w *Writer) SubmitEntry(name string, data []byte) error {
	return w.Submit(Job{Name: name, Data: data})
}

// SubmitFile enqueues a payload read from path when it is written. A
// temporary file is removed after it has been written or discarded.
func (w *Writer) SubmitFile(name, path string, temporary bool) error {
	return w.Submit(Job{Name: name, Path: path, Temporary: temporary})
}

// Close stops accepting jobs and waits up to timeout for the worker to
// drain the queue, then closes the tar stream, the compressor and the file.
// A timeout of zero waits indefinitely. Submit calls blocked on a full queue
// are released with an error and do not count against the timeout.
//
// On timeout a TIMEOUT error is returned and the file is left as it is. The
// worker keeps draining in the background, removing queued temporary files
// as it goes, and the file is closed once it returns. The first write error,
// if any, takes precedence over errors raised while closing the stream.
func (w *Writer) Close(timeout time.Duration) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest, "archive already closed",
			map[string]any{"path": w.path})
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	start := time.Now()
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	drained := make(chan error, 1)
	go func() {
		w.senders.Wait()
		close(w.jobs)
		drained <- w.group.Wait()
	}()

	select {
	case werr := <-drained:
		archiveDrainDuration.Observe(time.Since(start).Seconds())
		return w.finish(werr)
	case <-expired:
		slog.Error("archive drain timed out", "path", w.path, "timeout", timeout)
		go func() {
			if err := w.finish(<-drained); err != nil {
				slog.Warn("archive finalized after timeout with error", "path", w.path, "error", err)
			}
		}()
		return apperrors.NewWithContext(apperrors.ErrCodeTimeout,
			fmt.Sprintf("archive worker did not drain within %s", timeout),
			map[string]any{"path": w.path})
	}
}

// finish closes the stream layers from the innermost out. It runs once.
func (w *Writer) finish(werr error) error {
	defer close(w.finalized)

	closeErr := w.tw.Close()
	if err := w.comp.Close(); err != nil && closeErr == nil {
		closeErr = err
	}
	if err := w.buf.Flush(); err != nil && closeErr == nil {
		closeErr = err
	}
	if err := w.file.Close(); err != nil && closeErr == nil {
		closeErr = err
	}

	if werr != nil {
		return werr
	}
	if closeErr != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInternal, "failed to finalize archive", closeErr,
			map[string]any{"path": w.path})
	}

	slog.Debug("archive closed", "path", w.path, "entries", len(w.Entries()))
	return nil
}

// Entries returns the entries written so far in write order.
func (w *Writer) Entries() []Entry {
	w.entriesMu.Lock()
	defer w.entriesMu.Unlock()

	out := make([]Entry, len(w.entries))
	copy(out, w.entries)
	return out
}

// run is the worker loop. After the first failure remaining jobs are
// discarded so that producers blocked on the queue are released.
func (w *Writer) run() error {
	var firstErr error
	for job := range w.jobs {
		if firstErr != nil {
			discard(job)
			continue
		}
		if err := w.write(job); err != nil {
			archiveEntriesTotal.WithLabelValues("failed").Inc()
			slog.Error("failed to write archive entry", "entry", job.Name, "error", err)
			firstErr = err
			continue
		}
		archiveEntriesTotal.WithLabelValues("written").Inc()
	}
	return firstErr
}

func (w *Writer) write(job Job) error {
	if job.Path != "" {
		return w.writeFile(job)
	}
	return w.writeEntry(job.Name, int64(len(job.Data)), func(dst io.Writer) error {
		_, err := dst.Write(job.Data)
		return err
	})
}

func (w *Writer) writeFile(job Job) error {
	if job.Temporary {
		defer removeTemp(job.Path)
	}

	f, err := os.Open(job.Path)
	if err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInternal, fmt.Sprintf("failed to open payload for %s", job.Name), err,
			map[string]any{"entry": job.Name, "path": job.Path})
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInternal, fmt.Sprintf("failed to stat payload for %s", job.Name), err,
			map[string]any{"entry": job.Name, "path": job.Path})
	}

	return w.writeEntry(job.Name, info.Size(), func(dst io.Writer) error {
		n, err := io.Copy(dst, f)
		if err == nil && n != info.Size() {
			err = fmt.Errorf("payload changed while writing: expected %d bytes, copied %d", info.Size(), n)
		}
		return err
	})
}

func (w *Writer) writeEntry(name string, size int64, body func(io.Writer) error) error {
	modTime := w.modTime
	if modTime.IsZero() {
		modTime = time.Now()
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     name,
		Mode:     entryMode,
		Size:     size,
		ModTime:  modTime,
	}
	if err := w.tw.WriteHeader(hdr); err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInternal, fmt.Sprintf("failed to write archive header for %s", name), err,
			map[string]any{"entry": name})
	}

	sum := sha256.New()
	if err := body(io.MultiWriter(w.tw, sum)); err != nil {
		return apperrors.WrapWithContext(apperrors.ErrCodeInternal, fmt.Sprintf("failed to write archive entry %s", name), err,
			map[string]any{"entry": name})
	}

	w.entriesMu.Lock()
	w.entries = append(w.entries, Entry{
		Name:   name,
		Size:   size,
		SHA256: hex.EncodeToString(sum.Sum(nil)),
	})
	w.entriesMu.Unlock()

	archiveBytesTotal.Add(float64(size))
	slog.Debug("archive entry written", "entry", name, "size", size)
	return nil
}

func discard(job Job) {
	archiveEntriesTotal.WithLabelValues("discarded").Inc()
	slog.Debug("archive entry discarded", "entry", job.Name)
	if job.Temporary && job.Path != "" {
		removeTemp(job.Path)
	}
}

func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove temporary file", "path", path, "error", err)
	}
}
