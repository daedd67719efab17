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
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
	"k8s.io/utils/ptr"

	"github.com/NVIDIA/wfctl/pkg/api"
	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
)

// fakePlatform serves canned responses and records every call.
type fakePlatform struct {
	t   *testing.T
	dir string

	mu    sync.Mutex
	calls []string

	service      *api.ServiceInfo
	workflow     *api.DescribeWorkflowResponse
	workflowErr  error
	launch       *api.Launch
	launchErr    error
	progress     *api.Progress
	metrics      []api.WorkflowMetrics
	metricsErr   error
	participants []api.Participant
	partErr      error
	tasks        []api.Task
	tasksErr     error
	driverLog    *string
	driverErr    error

	// taskLogs maps "<taskId>/<file>" to content; missing keys are not found.
	taskLogs map[string]string
	// taskLogErrs maps "<taskId>/<file>" to a forced error.
	taskLogErrs map[string]error
}

func newFakePlatform(t *testing.T) *fakePlatform {
	t.Helper()
	return &fakePlatform{
		t:       t,
		dir:     t.TempDir(),
		service: &api.ServiceInfo{Version: "24.1.0", APIVersion: "1.20.0"},
		workflow: &api.DescribeWorkflowResponse{
			Workflow: &api.Workflow{
				ID:       "wf1",
				RunName:  "happy_turing",
				UserName: "jdoe",
				Status:   "FAILED",
				LaunchID: ptr.To("L1"),
			},
			OrgID:         7,
			OrgName:       "acme",
			WorkspaceID:   9,
			WorkspaceName: "research",
		},
		launch:       &api.Launch{ID: "L1", Pipeline: "nf-core/rnaseq"},
		progress:     &api.Progress{WorkflowProgress: &api.WorkflowLoad{Running: 1, Failed: 1}},
		metrics:      []api.WorkflowMetrics{{Process: "ALIGN"}},
		participants: []api.Participant{{UserName: "jdoe", Email: "jdoe@example.com"}},
		driverLog:    ptr.To("engine log\n"),
		taskLogs:     map[string]string{},
		taskLogErrs:  map[string]error{},
	}
}

func (f *fakePlatform) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakePlatform) callCount(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakePlatform) tempFile(content string) string {
	tmp, err := os.CreateTemp(f.dir, "wfctl-*.log")
	require.NoError(f.t, err)
	_, err = tmp.WriteString(content)
	require.NoError(f.t, err)
	require.NoError(f.t, tmp.Close())
	return tmp.Name()
}

func notFound(what string) error {
	return apperrors.New(apperrors.ErrCodeNotFound, what+" not found")
}

func (f *fakePlatform) DescribeService(context.Context) (*api.ServiceInfo, error) {
	f.record("describe-service")
	return f.service, nil
}

func (f *fakePlatform) DescribeWorkflow(_ context.Context, id string, _ api.Workspace) (*api.DescribeWorkflowResponse, error) {
	f.record("describe-workflow %s", id)
	return f.workflow, f.workflowErr
}

func (f *fakePlatform) DescribeLaunch(_ context.Context, id string, _ api.Workspace) (*api.Launch, error) {
	f.record("describe-launch %s", id)
	return f.launch, f.launchErr
}

func (f *fakePlatform) DescribeWorkflowProgress(_ context.Context, id string, _ api.Workspace) (*api.Progress, error) {
	f.record("describe-progress %s", id)
	return f.progress, nil
}

func (f *fakePlatform) DescribeWorkflowMetrics(_ context.Context, id string, _ api.Workspace) ([]api.WorkflowMetrics, error) {
	f.record("describe-metrics %s", id)
	return f.metrics, f.metricsErr
}

func (f *fakePlatform) ListParticipants(_ context.Context, orgID, wsID int64, search string) ([]api.Participant, error) {
	f.record("list-participants %d/%d %s", orgID, wsID, search)
	return f.participants, f.partErr
}

func (f *fakePlatform) ListTasks(_ context.Context, id string, _ api.Workspace, offset, limit int) ([]api.Task, error) {
	f.record("list-tasks %s %d %d", id, offset, limit)
	if f.tasksErr != nil {
		return nil, f.tasksErr
	}
	if offset >= len(f.tasks) {
		return []api.Task{}, nil
	}
	end := min(offset+limit, len(f.tasks))
	return f.tasks[offset:end], nil
}

func (f *fakePlatform) DownloadDriverLog(_ context.Context, id string, _ api.Workspace) (string, error) {
	f.record("download-driver-log %s", id)
	if f.driverErr != nil {
		return "", f.driverErr
	}
	if f.driverLog == nil {
		return "", notFound("driver log")
	}
	return f.tempFile(*f.driverLog), nil
}

func (f *fakePlatform) DownloadTaskLog(_ context.Context, id string, taskID int64, fileName string, _ api.Workspace) (string, error) {
	key := fmt.Sprintf("%d/%s", taskID, fileName)
	f.record("download-task-log %s %s", id, key)
	if err, ok := f.taskLogErrs[key]; ok {
		return "", err
	}
	content, ok := f.taskLogs[key]
	if !ok {
		return "", notFound(key)
	}
	return f.tempFile(content), nil
}

// withAllTaskLogs makes every log file of every task available.
func (f *fakePlatform) withAllTaskLogs() {
	for _, t := range f.tasks {
		for _, name := range []string{TaskLogOut, TaskLogErr, TaskLogLog, TaskLogFusion} {
			f.taskLogs[fmt.Sprintf("%d/%s", t.TaskID, name)] = fmt.Sprintf("%s of %d", name, t.TaskID)
		}
	}
}

func makeTasks(n int) []api.Task {
	tasks := make([]api.Task, 0, n)
	for i := 1; i <= n; i++ {
		tasks = append(tasks, api.Task{TaskID: int64(i), Name: fmt.Sprintf("task-%d", i), Status: api.TaskStatusCompleted})
	}
	return tasks
}

// readBundle returns entry name to content in archive order.
func readBundle(t *testing.T, path string) ([]string, map[string]string) {
	t.Helper()

	var names []string
	content := map[string]string{}
	walkBundle(t, path, func(hdr *tar.Header, data []byte) {
		names = append(names, hdr.Name)
		content[hdr.Name] = string(data)
	})
	return names, content
}

// walkBundle calls fn for every entry of the archive at path.
func walkBundle(t *testing.T, path string, fn func(hdr *tar.Header, data []byte)) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var r io.Reader
	if strings.HasSuffix(path, ".tar.xz") {
		r, err = xz.NewReader(f)
		require.NoError(t, err)
	} else {
		zr, err := gzip.NewReader(f)
		require.NoError(t, err)
		defer zr.Close()
		r = zr
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return
		}
		require.NoError(t, err)
		data, err := io.ReadAll(tr)
		require.NoError(t, err)
		fn(hdr, data)
	}
}

func outputPath(t *testing.T, suffix string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "bundle"+suffix)
}
