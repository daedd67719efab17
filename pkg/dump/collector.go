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
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"k8s.io/utils/ptr"

	"github.com/NVIDIA/wfctl/pkg/api"
	"github.com/NVIDIA/wfctl/pkg/archive"
	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
)

// Archive entry names.
const (
	EntryServiceInfo      = "service-info.json"
	EntryWorkflow         = "workflow.json"
	EntryWorkflowMetadata = "workflow-metadata.json"
	EntryWorkflowLoad     = "workflow-load.json"
	EntryWorkflowLaunch   = "workflow-launch.json"
	EntryWorkflowMetrics  = "workflow-metrics.json"
	EntryDriverLog        = "nextflow.log"
	EntryWorkflowTasks    = "workflow-tasks.json"
)

// Per-task log file names as stored by the platform.
const (
	TaskLogOut    = ".command.out"
	TaskLogErr    = ".command.err"
	TaskLogLog    = ".command.log"
	TaskLogFusion = ".fusion.log"
)

// TaskEntryName returns the archive entry name of a task log file.
func TaskEntryName(taskID int64, fileName string) string {
	return fmt.Sprintf("tasks/%d/%s", taskID, fileName)
}

// Platform is the remote API the exporter reads from.
type Platform interface {
	TaskLister
	DescribeService(ctx context.Context) (*api.ServiceInfo, error)
	DescribeWorkflow(ctx context.Context, workflowID string, ws api.Workspace) (*api.DescribeWorkflowResponse, error)
	DescribeLaunch(ctx context.Context, workflowID string, ws api.Workspace) (*api.Launch, error)
	DescribeWorkflowProgress(ctx context.Context, workflowID string, ws api.Workspace) (*api.Progress, error)
	DescribeWorkflowMetrics(ctx context.Context, workflowID string, ws api.Workspace) ([]api.WorkflowMetrics, error)
	ListParticipants(ctx context.Context, orgID, workspaceID int64, search string) ([]api.Participant, error)
	DownloadDriverLog(ctx context.Context, workflowID string, ws api.Workspace) (string, error)
	DownloadTaskLog(ctx context.Context, workflowID string, taskID int64, fileName string, ws api.Workspace) (string, error)
}

// Metadata describes where and by whom a workflow was run, and which
// export produced the bundle.
type Metadata struct {
	ExportID      string      `json:"exportId"`
	ExportedAt    time.Time   `json:"exportedAt"`
	ClientVersion string      `json:"clientVersion,omitempty"`
	WorkflowID    string      `json:"workflowId"`
	RunName       string      `json:"runName,omitempty"`
	PlatformID    string      `json:"platformId,omitempty"`
	OrgID         int64       `json:"orgId,omitempty"`
	OrgName       string      `json:"orgName,omitempty"`
	WorkspaceID   int64       `json:"workspaceId,omitempty"`
	WorkspaceName string      `json:"workspaceName,omitempty"`
	UserName      string      `json:"userName,omitempty"`
	UserEmail     string      `json:"userEmail,omitempty"`
	LaunchID      string      `json:"launchId,omitempty"`
	Labels        []api.Label `json:"labels,omitempty"`
}

// outcome is the classification of a remote call result.
type outcome int

const (
	available outcome = iota
	notAvailable
	failed
)

func (o outcome) String() string {
	switch o {
	case available:
		return "available"
	case notAvailable:
		return "not_available"
	default:
		return "failed"
	}
}

// classify maps a remote call error to an outcome. Not found and bad
// request answers mean the artifact does not exist.
func classify(err error) outcome {
	switch {
	case err == nil:
		return available
	case apperrors.IsCode(err, apperrors.ErrCodeNotFound),
		apperrors.IsCode(err, apperrors.ErrCodeInvalidRequest):
		return notAvailable
	default:
		return failed
	}
}

// wrap adds a message to err and keeps its code.
func wrap(err error, msg string) error {
	code := apperrors.CodeOf(err)
	if code == "" {
		code = apperrors.ErrCodeInternal
	}
	return apperrors.Wrap(code, msg, err)
}

// collector retrieves artifacts and submits them to the archive.
type collector struct {
	platform Platform
	writer   *archive.Writer
	req      Request
	progress *progress
	meta     Metadata

	taskCount    int
	taskLogCount int
}

// submitJSON writes v as an indented JSON entry. Nil values are skipped.
func (c *collector) submitJSON(name string, v any) error {
	if isNil(v) {
		slog.Debug("skipping empty entry", "entry", name)
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, fmt.Sprintf("failed to serialize %s", name), err)
	}
	return c.writer.SubmitEntry(name, data)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

func (c *collector) collectServiceInfo(ctx context.Context) error {
	info, err := c.platform.DescribeService(ctx)
	if err != nil {
		return wrap(err, "failed to describe service")
	}
	if err := api.CheckCompatibility(info); err != nil {
		slog.Warn("platform API may not be compatible", "error", err)
	}
	return c.submitJSON(EntryServiceInfo, info)
}

// collectWorkflow submits the workflow, metadata, load, launch and
// metrics entries in that order.
func (c *collector) collectWorkflow(ctx context.Context) error {
	id, ws := c.req.WorkflowID, c.req.Workspace

	resp, err := c.platform.DescribeWorkflow(ctx, id, ws)
	if err != nil {
		return wrap(err, fmt.Sprintf("failed to describe workflow %s", id))
	}
	if resp.Workflow == nil {
		return apperrors.NewWithContext(apperrors.ErrCodeNotFound,
			fmt.Sprintf("workflow %s not found", id), map[string]any{"workflow": id})
	}
	wf := resp.Workflow

	progress, err := c.platform.DescribeWorkflowProgress(ctx, id, ws)
	if err != nil {
		return wrap(err, "failed to describe workflow progress")
	}

	launchID := ptr.Deref(wf.LaunchID, "")
	var launch *api.Launch
	if launchID != "" {
		launch, err = c.platform.DescribeLaunch(ctx, id, ws)
		switch classify(err) {
		case available:
			artifactTotal.WithLabelValues("launch", available.String()).Inc()
		case notAvailable:
			artifactTotal.WithLabelValues("launch", notAvailable.String()).Inc()
			slog.Debug("launch not available", "workflow", id, "launch", launchID, "error", err)
			launch = nil
		default:
			return wrap(err, "failed to describe launch")
		}
	}

	metrics, err := c.platform.DescribeWorkflowMetrics(ctx, id, ws)
	if err != nil {
		return wrap(err, "failed to describe workflow metrics")
	}

	c.meta.WorkflowID = wf.ID
	c.meta.RunName = wf.RunName
	c.meta.PlatformID = resp.PlatformID
	c.meta.OrgID = resp.OrgID
	c.meta.OrgName = resp.OrgName
	c.meta.WorkspaceID = resp.WorkspaceID
	c.meta.WorkspaceName = resp.WorkspaceName
	c.meta.UserName = wf.UserName
	c.meta.UserEmail = c.submitterEmail(ctx, resp)
	c.meta.LaunchID = launchID
	c.meta.Labels = resp.Labels

	var load *api.WorkflowLoad
	if progress != nil {
		load = progress.WorkflowProgress
	}

	for _, e := range []struct {
		name  string
		value any
	}{
		{EntryWorkflow, wf},
		{EntryWorkflowMetadata, &c.meta},
		{EntryWorkflowLoad, load},
		{EntryWorkflowLaunch, launch},
		{EntryWorkflowMetrics, metrics},
	} {
		if err := c.submitJSON(e.name, e.value); err != nil {
			return err
		}
	}
	return nil
}

// submitterEmail looks up the email of the workflow owner among the
// workspace participants. Any failure yields an empty email.
func (c *collector) submitterEmail(ctx context.Context, resp *api.DescribeWorkflowResponse) string {
	userName := resp.Workflow.UserName
	orgID, wsID := resp.OrgID, resp.WorkspaceID
	if orgID == 0 || wsID == 0 {
		orgID, wsID = c.req.Workspace.OrgID, c.req.Workspace.WorkspaceID
	}
	if userName == "" || orgID == 0 || wsID == 0 {
		return ""
	}

	participants, err := c.platform.ListParticipants(ctx, orgID, wsID, userName)
	if err != nil {
		slog.Debug("participant lookup failed", "user", userName, "error", err)
		return ""
	}
	for _, p := range participants {
		if p.UserName == userName {
			return p.Email
		}
	}
	return ""
}

// collectDriverLog submits the engine log when the platform has one.
func (c *collector) collectDriverLog(ctx context.Context) error {
	path, err := c.platform.DownloadDriverLog(ctx, c.req.WorkflowID, c.req.Workspace)
	switch classify(err) {
	case available:
		artifactTotal.WithLabelValues("driver_log", available.String()).Inc()
		return c.writer.SubmitFile(EntryDriverLog, path, true)
	case notAvailable:
		artifactTotal.WithLabelValues("driver_log", notAvailable.String()).Inc()
		slog.Debug("driver log not available", "workflow", c.req.WorkflowID, "error", err)
		return nil
	default:
		return wrap(err, "failed to download driver log")
	}
}

// collectTasks lists all tasks and submits the inventory.
func (c *collector) collectTasks(ctx context.Context) ([]api.Task, error) {
	tasks, err := ListAll(ctx, c.platform, c.req.WorkflowID, c.req.Workspace)
	if err != nil {
		return nil, err
	}
	c.taskCount = len(tasks)
	if err := c.submitJSON(EntryWorkflowTasks, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// taskLogFiles returns the log files requested for every task.
func (c *collector) taskLogFiles() []string {
	var files []string
	if c.req.IncludeTaskLogs {
		files = append(files, TaskLogOut, TaskLogErr, TaskLogLog)
	}
	if c.req.IncludeFusionLogs {
		files = append(files, TaskLogFusion)
	}
	return files
}

// collectTaskLogs submits the requested log files of the selected tasks.
func (c *collector) collectTaskLogs(ctx context.Context, tasks []api.Task) error {
	files := c.taskLogFiles()
	if len(files) == 0 {
		return nil
	}

	selected := tasks
	if c.req.OnlyFailedTasks {
		selected = make([]api.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.Failed() {
				selected = append(selected, t)
			}
		}
	}

	for i, t := range selected {
		if err := ctx.Err(); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeCanceled, "task log collection interrupted", err)
		}
		c.progress.task(i+1, len(selected), t)

		for _, name := range files {
			if err := c.collectTaskLog(ctx, t, name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *collector) collectTaskLog(ctx context.Context, t api.Task, fileName string) error {
	path, err := c.platform.DownloadTaskLog(ctx, c.req.WorkflowID, t.TaskID, fileName, c.req.Workspace)
	switch classify(err) {
	case available:
		artifactTotal.WithLabelValues("task_log", available.String()).Inc()
		c.taskLogCount++
		return c.writer.SubmitFile(TaskEntryName(t.TaskID, fileName), path, true)
	case notAvailable:
		artifactTotal.WithLabelValues("task_log", notAvailable.String()).Inc()
		slog.Debug("task log not available", "task", t.TaskID, "file", fileName)
		return nil
	default:
		return wrap(err, fmt.Sprintf("failed to download %s of task %d", fileName, t.TaskID))
	}
}
