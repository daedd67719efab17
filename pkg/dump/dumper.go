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

package dump

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/wfctl/pkg/api"
	"github.com/NVIDIA/wfctl/pkg/archive"
	"github.com/NVIDIA/wfctl/pkg/defaults"
	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
)

// Stage is a step of the export state machine.
type Stage string

const (
	StageValidating             Stage = "validating"
	StageCollectingWorkflowInfo Stage = "collecting workflow info"
	StageListingTasks           Stage = "listing tasks"
	StageCollectingTaskLogs     Stage = "collecting task logs"
	StageDraining               Stage = "draining"
	StageClosed                 Stage = "closed"
)

// Request describes one bundle export.
type Request struct {
	// WorkflowID identifies the run to export.
	WorkflowID string

	// OutputPath is the bundle file; it must end in .tar.gz or .tar.xz.
	OutputPath string

	// Workspace scopes every platform call. Zero means the personal workspace.
	Workspace api.Workspace

	// IncludeTaskLogs adds .command.out, .command.err and .command.log per task.
	IncludeTaskLogs bool

	// IncludeFusionLogs adds .fusion.log per task.
	IncludeFusionLogs bool

	// OnlyFailedTasks limits task logs to tasks in the FAILED state.
	OnlyFailedTasks bool

	// Silent suppresses progress lines.
	Silent bool
}

// Validate checks the request without performing any I/O and returns the
// compression selected by the output path.
func (r Request) Validate() (archive.Compression, error) {
	if strings.TrimSpace(r.WorkflowID) == "" {
		return "", apperrors.New(apperrors.ErrCodeInvalidRequest, "workflow id is required")
	}
	return archive.CompressionFor(r.OutputPath)
}

// Option configures a Dumper.
type Option func(*Dumper)

// WithStatusWriter sets where progress lines are printed.
func WithStatusWriter(w io.Writer) Option {
	return func(d *Dumper) {
		d.status = w
	}
}

// WithCloseTimeout bounds the wait for the archive to drain.
func WithCloseTimeout(timeout time.Duration) Option {
	return func(d *Dumper) {
		d.closeTimeout = timeout
	}
}

// WithRemovePartial removes the output file when an export fails.
func WithRemovePartial(remove bool) Option {
	return func(d *Dumper) {
		d.removePartial = remove
	}
}

// WithArchiveOptions passes options to the archive writer.
func WithArchiveOptions(opts ...archive.Option) Option {
	return func(d *Dumper) {
		d.archiveOpts = append(d.archiveOpts, opts...)
	}
}

// WithClientVersion records the exporting client version in the metadata.
func WithClientVersion(version string) Option {
	return func(d *Dumper) {
		d.version = version
	}
}

// Dumper exports workflow runs into bundles.
type Dumper struct {
	platform      Platform
	status        io.Writer
	closeTimeout  time.Duration
	removePartial bool
	archiveOpts   []archive.Option
	version       string
}

// New creates a Dumper reading from platform.
func New(platform Platform, opts ...Option) *Dumper {
	d := &Dumper{
		platform:     platform,
		status:       os.Stderr,
		closeTimeout: defaults.ArchiveCloseTimeout,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// export carries the state of one Export call.
type export struct {
	id         string
	stage      Stage
	stageStart time.Time
	progress   *progress
}

func (e *export) enter(s Stage) {
	if !e.stageStart.IsZero() {
		stageDuration.WithLabelValues(string(e.stage)).Observe(time.Since(e.stageStart).Seconds())
	}
	slog.Debug("export stage", "export", e.id, "from", e.stage, "to", s)
	e.stage = s
	e.stageStart = time.Now()
	if s != StageClosed {
		e.progress.stage(s)
	}
}

// Export writes the bundle described by req. The request is validated
// before any network or file I/O. The archive is closed on every path.
// On failure the error of the failing stage is returned and the output
// file is kept unless the Dumper removes partial files.
func (d *Dumper) Export(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	e := &export{
		id:       uuid.NewString(),
		progress: newProgress(d.status, req.Silent),
	}

	e.enter(StageValidating)
	if _, err := req.Validate(); err != nil {
		exportTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	w, err := archive.Open(req.OutputPath, d.archiveOpts...)
	if err != nil {
		exportTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	slog.Info("exporting workflow",
		"export", e.id,
		"workflow", req.WorkflowID,
		"workspace", req.Workspace.String(),
		"output", req.OutputPath,
		"compression", w.Compression())

	c := &collector{
		platform: d.platform,
		writer:   w,
		req:      req,
		progress: e.progress,
		meta: Metadata{
			ExportID:      e.id,
			ExportedAt:    start.UTC(),
			ClientVersion: d.version,
		},
	}

	runErr := d.collect(ctx, e, c)
	failedStage := e.stage

	e.enter(StageDraining)
	closeErr := w.Close(d.closeTimeout)
	if closeErr != nil && runErr != nil {
		slog.Warn("failed to close archive after export error", "export", e.id, "error", closeErr)
	}

	if runErr == nil && closeErr == nil {
		e.enter(StageClosed)
		res := d.result(e, c, w, start)
		exportTotal.WithLabelValues("success").Inc()
		exportDuration.Observe(res.Duration.Seconds())
		slog.Info("export completed",
			"export", e.id,
			"entries", len(res.Entries),
			"bytes", res.TotalSize,
			"duration", res.Duration)
		return res, nil
	}

	err = runErr
	if err == nil {
		err = closeErr
		failedStage = StageDraining
	}
	exportTotal.WithLabelValues("error").Inc()
	slog.Error("export failed", "export", e.id, "stage", failedStage, "error", err)
	d.cleanup(req.OutputPath)
	return nil, err
}

// collect runs the collection stages in order.
func (d *Dumper) collect(ctx context.Context, e *export, c *collector) error {
	e.enter(StageCollectingWorkflowInfo)
	if err := c.collectServiceInfo(ctx); err != nil {
		return err
	}
	if err := c.collectWorkflow(ctx); err != nil {
		return err
	}
	if err := c.collectDriverLog(ctx); err != nil {
		return err
	}

	e.enter(StageListingTasks)
	tasks, err := c.collectTasks(ctx)
	if err != nil {
		return err
	}

	if len(c.taskLogFiles()) == 0 {
		return nil
	}
	e.enter(StageCollectingTaskLogs)
	return c.collectTaskLogs(ctx, tasks)
}

func (d *Dumper) result(e *export, c *collector, w *archive.Writer, start time.Time) *Result {
	entries := w.Entries()
	var total int64
	for _, en := range entries {
		total += en.Size
	}
	return &Result{
		ExportID:    e.id,
		WorkflowID:  c.req.WorkflowID,
		OutputPath:  w.Path(),
		Compression: w.Compression(),
		Tasks:       c.taskCount,
		TaskLogs:    c.taskLogCount,
		TotalSize:   total,
		Duration:    time.Since(start),
		Entries:     entries,
	}
}

func (d *Dumper) cleanup(path string) {
	if !d.removePartial {
		slog.Info("partial bundle kept", "path", path)
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove partial bundle", "path", path, "error", err)
		return
	}
	slog.Info("partial bundle removed", "path", path)
}
