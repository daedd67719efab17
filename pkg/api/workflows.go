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
package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// DescribeService returns information about the platform deployment.
func (c *Client) DescribeService(ctx context.Context) (*ServiceInfo, error) {
	var resp describeServiceResponse
	if err := c.getJSON(ctx, "describe-service", "/service-info", nil, &resp); err != nil {
		return nil, err
	}
	return resp.ServiceInfo, nil
}

// DescribeWorkflow returns the workflow, its labels and workspace placement.
func (c *Client) DescribeWorkflow(ctx context.Context, workflowID string, ws Workspace) (*DescribeWorkflowResponse, error) {
	q := ws.apply(url.Values{"attributes": {"labels"}})
	var resp DescribeWorkflowResponse
	if err := c.getJSON(ctx, "describe-workflow", "/workflow/"+url.PathEscape(workflowID), q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DescribeLaunch returns the launch descriptor the workflow was started from.
func (c *Client) DescribeLaunch(ctx context.Context, workflowID string, ws Workspace) (*Launch, error) {
	var resp describeLaunchResponse
	path := "/workflow/" + url.PathEscape(workflowID) + "/launch"
	if err := c.getJSON(ctx, "describe-launch", path, ws.apply(nil), &resp); err != nil {
		return nil, err
	}
	return resp.Launch, nil
}

// DescribeWorkflowProgress returns workflow and per-process load.
func (c *Client) DescribeWorkflowProgress(ctx context.Context, workflowID string, ws Workspace) (*Progress, error) {
	var resp progressResponse
	path := "/workflow/" + url.PathEscape(workflowID) + "/progress"
	if err := c.getJSON(ctx, "describe-progress", path, ws.apply(nil), &resp); err != nil {
		return nil, err
	}
	return resp.Progress, nil
}

// DescribeWorkflowMetrics returns per-process resource usage summaries.
func (c *Client) DescribeWorkflowMetrics(ctx context.Context, workflowID string, ws Workspace) ([]WorkflowMetrics, error) {
	var resp metricsResponse
	path := "/workflow/" + url.PathEscape(workflowID) + "/metrics"
	if err := c.getJSON(ctx, "describe-metrics", path, ws.apply(nil), &resp); err != nil {
		return nil, err
	}
	return resp.Metrics, nil
}

// ListParticipants lists the participants of a workspace matching search.
func (c *Client) ListParticipants(ctx context.Context, orgID, workspaceID int64, search string) ([]Participant, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	path := fmt.Sprintf("/orgs/%d/workspaces/%d/participants", orgID, workspaceID)
	var resp participantsResponse
	if err := c.getJSON(ctx, "list-participants", path, q, &resp); err != nil {
		return nil, err
	}
	return resp.Participants, nil
}

// ListTasks returns up to limit tasks of the workflow starting at offset.
func (c *Client) ListTasks(ctx context.Context, workflowID string, ws Workspace, offset, limit int) ([]Task, error) {
	q := ws.apply(url.Values{
		"offset": {strconv.Itoa(offset)},
		"max":    {strconv.Itoa(limit)},
	})
	path := "/workflow/" + url.PathEscape(workflowID) + "/tasks"
	var resp listTasksResponse
	if err := c.getJSON(ctx, "list-tasks", path, q, &resp); err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(resp.Tasks))
	for _, env := range resp.Tasks {
		tasks = append(tasks, env.Task)
	}
	return tasks, nil
}

// DriverLogFileName is the name the platform stores the engine log under.
func DriverLogFileName(workflowID string) string {
	return "nf-" + workflowID + ".log"
}

// DownloadDriverLog downloads the engine log of the workflow into a
// temporary file and returns its path.
func (c *Client) DownloadDriverLog(ctx context.Context, workflowID string, ws Workspace) (string, error) {
	q := ws.apply(url.Values{"fileName": {DriverLogFileName(workflowID)}})
	path := "/workflow/" + url.PathEscape(workflowID) + "/download"
	return c.download(ctx, "download-driver-log", path, q)
}

// DownloadTaskLog downloads one log file (such as ".command.err") of a task
// into a temporary file and returns its path.
func (c *Client) DownloadTaskLog(ctx context.Context, workflowID string, taskID int64, fileName string, ws Workspace) (string, error) {
	q := ws.apply(url.Values{"fileName": {fileName}})
	path := fmt.Sprintf("/workflow/%s/download/%d", url.PathEscape(workflowID), taskID)
	return c.download(ctx, "download-task-log", path, q)
}
