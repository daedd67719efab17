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

package cli

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
)

// platformStub is a minimal platform API serving a run with two tasks.
type platformStub struct {
	requests    atomic.Int64
	workspaceID atomic.Value
	failMetrics bool
}

func (p *platformStub) handler() http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, body string) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}

	mux.HandleFunc("GET /service-info", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"serviceInfo":{"version":"24.1.0","apiVersion":"1.20.0"}}`)
	})
	mux.HandleFunc("GET /workflow/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, fmt.Sprintf(`{"workflow":{"id":%q,"runName":"happy_turing","userName":"jdoe"}}`, r.PathValue("id")))
	})
	mux.HandleFunc("GET /workflow/{id}/progress", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"progress":{"workflowProgress":{"failed":1,"succeeded":1}}}`)
	})
	mux.HandleFunc("GET /workflow/{id}/metrics", func(w http.ResponseWriter, r *http.Request) {
		if p.failMetrics {
			http.Error(w, "metrics backend down", http.StatusInternalServerError)
			return
		}
		writeJSON(w, `{"metrics":[{"process":"ALIGN"}]}`)
	})
	mux.HandleFunc("GET /workflow/{id}/tasks", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("offset") != "0" {
			writeJSON(w, `{"tasks":[],"total":2}`)
			return
		}
		writeJSON(w, `{"tasks":[
			{"task":{"taskId":1,"hash":"ab/123456","name":"ALIGN (1)","status":"FAILED","exitStatus":137}},
			{"task":{"taskId":2,"hash":"cd/654321","name":"ALIGN (2)","status":"COMPLETED","exitStatus":0}}
		],"total":2}`)
	})
	mux.HandleFunc("GET /workflow/{id}/download", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "engine log\n")
	})
	mux.HandleFunc("GET /workflow/{id}/download/{task}", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fileName") == ".command.log" {
			http.NotFound(w, r)
			return
		}
		_, _ = fmt.Fprintf(w, "%s of task %s\n", r.URL.Query().Get("fileName"), r.PathValue("task"))
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.requests.Add(1)
		p.workspaceID.Store(r.URL.Query().Get("workspaceId"))
		mux.ServeHTTP(w, r)
	})
}

// runCLI executes wfctl with args against srv and returns stdout.
func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()

	// keep any real profile out of the way
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.Writer = &out
	root.ErrWriter = &errOut

	full := append([]string{name, "--url", srv.URL, "--rate-limit", "0"}, args...)
	err := root.Run(context.Background(), full)
	return out.String(), err
}

func newPlatform(t *testing.T) (*platformStub, *httptest.Server) {
	t.Helper()
	p := &platformStub{}
	srv := httptest.NewServer(p.handler())
	t.Cleanup(srv.Close)
	return p, srv
}

func bundleEntries(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	defer zr.Close()

	var names []string
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return names
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}
}

func TestRunsDump(t *testing.T) {
	_, srv := newPlatform(t)
	out := filepath.Join(t.TempDir(), "run.tar.gz")

	stdout, err := runCLI(t, srv, "runs", "dump", "--id", "wf1", "--output", out, "--add-task-logs", "--only-failed", "--silent")
	require.NoError(t, err)
	assert.Equal(t, out+"\n", stdout)

	assert.Equal(t, []string{
		"service-info.json",
		"workflow.json",
		"workflow-metadata.json",
		"workflow-load.json",
		"workflow-metrics.json",
		"nextflow.log",
		"workflow-tasks.json",
		"tasks/1/.command.out",
		"tasks/1/.command.err",
	}, bundleEntries(t, out))
}

func TestRunsDump_Workspace(t *testing.T) {
	p, srv := newPlatform(t)
	out := filepath.Join(t.TempDir(), "run.tar.gz")

	_, err := runCLI(t, srv, "--workspace", "7/9", "runs", "dump", "--id", "wf1", "--output", out, "--silent")
	require.NoError(t, err)
	assert.Equal(t, "9", p.workspaceID.Load())
}

func TestRunsDump_SummaryFormat(t *testing.T) {
	_, srv := newPlatform(t)
	out := filepath.Join(t.TempDir(), "run.tar.gz")

	stdout, err := runCLI(t, srv, "runs", "dump", "--id", "wf1", "--output", out, "--silent", "--format", "json")
	require.NoError(t, err)

	var got struct {
		Export struct {
			OutputPath string `json:"output_path"`
			Tasks      int    `json:"tasks"`
			Entries    []struct {
				Name   string `json:"name"`
				SHA256 string `json:"sha256"`
			} `json:"entries"`
		} `json:"export"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, out, got.Export.OutputPath)
	assert.Equal(t, 2, got.Export.Tasks)
	require.NotEmpty(t, got.Export.Entries)
	assert.Len(t, got.Export.Entries[0].SHA256, 64)
}

func TestRunsDump_InvalidSuffix(t *testing.T) {
	p, srv := newPlatform(t)
	out := filepath.Join(t.TempDir(), "run.zip")

	_, err := runCLI(t, srv, "runs", "dump", "--id", "wf1", "--output", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".tar.gz")
	assert.Zero(t, p.requests.Load(), "no remote calls")
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunsDump_InvalidPushTarget(t *testing.T) {
	p, srv := newPlatform(t)

	_, err := runCLI(t, srv, "runs", "dump", "--id", "wf1", "--output", filepath.Join(t.TempDir(), "run.tar.gz"), "--push", "ghcr.io/acme/diag")
	require.Error(t, err)
	assert.Zero(t, p.requests.Load())
}

func TestRunsDump_RemovePartial(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFile bool
	}{
		{name: "kept by default", wantFile: true},
		{name: "removed on request", args: []string{"--remove-partial"}, wantFile: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, srv := newPlatform(t)
			p.failMetrics = true
			out := filepath.Join(t.TempDir(), "run.tar.gz")

			args := append([]string{"runs", "dump", "--id", "wf1", "--output", out, "--silent"}, tt.args...)
			_, err := runCLI(t, srv, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "metrics backend down")

			_, statErr := os.Stat(out)
			assert.Equal(t, tt.wantFile, statErr == nil)
		})
	}
}

func TestRunsDump_MetricsFile(t *testing.T) {
	_, srv := newPlatform(t)
	dir := t.TempDir()
	metrics := filepath.Join(dir, "wfctl.prom")

	_, err := runCLI(t, srv, "runs", "dump", "--id", "wf1", "--output", filepath.Join(dir, "run.tar.xz"), "--silent", "--metrics-file", metrics)
	require.NoError(t, err)

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), "wfctl_dump_exports_total")
	assert.Contains(t, string(data), "wfctl_api_requests_total")
}

func TestRunsDump_MissingFlags(t *testing.T) {
	_, srv := newPlatform(t)
	_, err := runCLI(t, srv, "runs", "dump", "--output", "run.tar.gz")
	assert.Error(t, err)
}

func TestRunsTasks(t *testing.T) {
	_, srv := newPlatform(t)

	stdout, err := runCLI(t, srv, "runs", "tasks", "--id", "wf1")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "TASK_ID"))
	assert.Contains(t, lines[1], "ALIGN (1)")
	assert.Contains(t, lines[1], "137")

	stdout, err = runCLI(t, srv, "runs", "tasks", "--id", "wf1", "--only-failed", "--format", "json")
	require.NoError(t, err)
	var tasks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "FAILED", tasks[0]["status"])
}

func TestInfo(t *testing.T) {
	_, srv := newPlatform(t)

	stdout, err := runCLI(t, srv, "--access-token", "tok", "info", "--format", "json")
	require.NoError(t, err)

	var got infoOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "24.1.0", got.ServerVersion)
	assert.Equal(t, srv.URL, got.URL)
	assert.Equal(t, "personal", got.Workspace)
	assert.True(t, got.Authenticated)
	assert.True(t, got.Compatible)
	assert.Equal(t, "1.6.0", got.MinAPIVersion)
}

func TestInfo_ProfileFile(t *testing.T) {
	_, srv := newPlatform(t)
	profile := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(profile, []byte("url: "+srv.URL+"\nworkspace: \"42\"\n"), 0o600))

	var out bytes.Buffer
	t.Setenv("HOME", t.TempDir())
	root := newRootCmd()
	root.Writer = &out
	require.NoError(t, root.Run(context.Background(), []string{name, "--config", profile, "info", "--format", "yaml"}))
	assert.Contains(t, out.String(), "workspace: \"42\"")
	assert.Contains(t, out.String(), "profile: "+profile)
}

func TestInfo_BadWorkspace(t *testing.T) {
	_, srv := newPlatform(t)
	_, err := runCLI(t, srv, "--workspace", "acme/research", "info")
	assert.Error(t, err)
}

func TestSettingsErrorsAreStructured(t *testing.T) {
	_, srv := newPlatform(t)

	tests := []struct {
		name string
		args []string
	}{
		{"bad url scheme", []string{"--url", "ftp://platform", "info"}},
		{"negative rate limit", []string{"--rate-limit=-1", "info"}},
		{"missing config file", []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "info"}},
		{"unknown format", []string{"info", "--format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, srv, tt.args...)
			require.Error(t, err)
			assert.NotEmpty(t, apperrors.CodeOf(err), "error %v carries a code", err)
		})
	}
}

func TestVersion(t *testing.T) {
	p, srv := newPlatform(t)

	stdout, err := runCLI(t, srv, "version", "--format", "json")
	require.NoError(t, err)

	var got versionOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, version, got.Version)
	assert.Equal(t, commit, got.Commit)
	assert.Zero(t, p.requests.Load())
}
