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

import "time"

// TaskStatus is the execution state of a single task.
type TaskStatus string

const (
	TaskStatusNew       TaskStatus = "NEW"
	TaskStatusSubmitted TaskStatus = "SUBMITTED"
	TaskStatusRunning   TaskStatus = "RUNNING"
	TaskStatusCached    TaskStatus = "CACHED"
	TaskStatusCompleted TaskStatus = "COMPLETED"
	TaskStatusSucceeded TaskStatus = "SUCCEEDED"
	TaskStatusFailed    TaskStatus = "FAILED"
	TaskStatusAborted   TaskStatus = "ABORTED"
)

// ServiceInfo describes the platform deployment answering the requests.
type ServiceInfo struct {
	Version                  string   `json:"version,omitempty"`
	APIVersion               string   `json:"apiVersion,omitempty"`
	CommitID                 string   `json:"commitId,omitempty"`
	AuthTypes                []string `json:"authTypes,omitempty"`
	LoginPath                string   `json:"loginPath,omitempty"`
	Navbar                   any      `json:"navbar,omitempty"`
	HeartbeatInterval        int      `json:"heartbeatInterval,omitempty"`
	UserWorkspaceEnabled     bool     `json:"userWorkspaceEnabled"`
	AllowInstanceCredentials bool     `json:"allowInstanceCredentials"`
	ContentURL               string   `json:"contentUrl,omitempty"`
	WaveEnabled              bool     `json:"waveEnabled"`
	ForgePrefix              string   `json:"forgePrefix,omitempty"`
}

// NextflowInfo identifies the engine build that ran a workflow.
type NextflowInfo struct {
	Version   string `json:"version,omitempty"`
	Build     string `json:"build,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// WorkflowStats aggregates task counters reported at completion.
type WorkflowStats struct {
	ComputeTimeFmt string  `json:"computeTimeFmt,omitempty"`
	CachedCount    int64   `json:"cachedCount"`
	FailedCount    int64   `json:"failedCount"`
	IgnoredCount   int64   `json:"ignoredCount"`
	SucceedCount   int64   `json:"succeedCount"`
	CachedPct      float64 `json:"cachedPct"`
	FailedPct      float64 `json:"failedPct"`
	SucceedPct     float64 `json:"succeedPct"`
	IgnoredPct     float64 `json:"ignoredPct"`
}

// Workflow is a single workflow execution (a "run").
type Workflow struct {
	ID           string         `json:"id"`
	RunName      string         `json:"runName,omitempty"`
	SessionID    string         `json:"sessionId,omitempty"`
	Status       string         `json:"status,omitempty"`
	OwnerID      int64          `json:"ownerId,omitempty"`
	UserName     string         `json:"userName,omitempty"`
	LaunchID     *string        `json:"launchId,omitempty"`
	Repository   string         `json:"repository,omitempty"`
	ProjectName  string         `json:"projectName,omitempty"`
	Revision     string         `json:"revision,omitempty"`
	CommitID     string         `json:"commitId,omitempty"`
	CommandLine  string         `json:"commandLine,omitempty"`
	WorkDir      string         `json:"workDir,omitempty"`
	LaunchDir    string         `json:"launchDir,omitempty"`
	ConfigFiles  []string       `json:"configFiles,omitempty"`
	Profile      string         `json:"profile,omitempty"`
	Params       map[string]any `json:"params,omitempty"`
	Submit       *time.Time     `json:"submit,omitempty"`
	Start        *time.Time     `json:"start,omitempty"`
	Complete     *time.Time     `json:"complete,omitempty"`
	Duration     *int64         `json:"duration,omitempty"`
	ExitStatus   *int           `json:"exitStatus,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
	ErrorReport  string         `json:"errorReport,omitempty"`
	Nextflow     *NextflowInfo  `json:"nextflow,omitempty"`
	Stats        *WorkflowStats `json:"stats,omitempty"`
	Fusion       *FusionInfo    `json:"fusion,omitempty"`
}

// FusionInfo reports whether the storage acceleration layer was active.
type FusionInfo struct {
	Enabled bool   `json:"enabled"`
	Version string `json:"version,omitempty"`
}

// Label is a key/value tag attached to a workflow.
type Label struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Value    string `json:"value,omitempty"`
	Resource bool   `json:"resource"`
}

// DescribeWorkflowResponse is the envelope returned by DescribeWorkflow.
type DescribeWorkflowResponse struct {
	Workflow      *Workflow `json:"workflow"`
	Progress      *Progress `json:"progress,omitempty"`
	PlatformID    string    `json:"platformId,omitempty"`
	OrgID         int64     `json:"orgId,omitempty"`
	OrgName       string    `json:"orgName,omitempty"`
	WorkspaceID   int64     `json:"workspaceId,omitempty"`
	WorkspaceName string    `json:"workspaceName,omitempty"`
	Labels        []Label   `json:"labels,omitempty"`
}

// ComputeEnvRef is the compute environment summary embedded in a launch.
type ComputeEnvRef struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Platform string `json:"platform,omitempty"`
	WorkDir  string `json:"workDir,omitempty"`
}

// Launch is the launch descriptor a workflow was started from.
type Launch struct {
	ID             string         `json:"id"`
	ComputeEnv     *ComputeEnvRef `json:"computeEnv,omitempty"`
	Pipeline       string         `json:"pipeline,omitempty"`
	PipelineID     *int64         `json:"pipelineId,omitempty"`
	WorkDir        string         `json:"workDir,omitempty"`
	Revision       string         `json:"revision,omitempty"`
	ConfigText     string         `json:"configText,omitempty"`
	ConfigProfiles []string       `json:"configProfiles,omitempty"`
	ParamsText     string         `json:"paramsText,omitempty"`
	PreRunScript   string         `json:"preRunScript,omitempty"`
	PostRunScript  string         `json:"postRunScript,omitempty"`
	MainScript     string         `json:"mainScript,omitempty"`
	EntryName      string         `json:"entryName,omitempty"`
	SchemaName     string         `json:"schemaName,omitempty"`
	ResumeCommitID string         `json:"resumeCommitId,omitempty"`
	PullLatest     *bool          `json:"pullLatest,omitempty"`
	StubRun        *bool          `json:"stubRun,omitempty"`
	DateCreated    *time.Time     `json:"dateCreated,omitempty"`
}

// WorkflowLoad is the aggregate load/progress of a workflow.
type WorkflowLoad struct {
	Pending    int64    `json:"pending"`
	Submitted  int64    `json:"submitted"`
	Running    int64    `json:"running"`
	Succeeded  int64    `json:"succeeded"`
	Failed     int64    `json:"failed"`
	Cached     int64    `json:"cached"`
	LoadCpus   int64    `json:"loadCpus"`
	LoadMemory int64    `json:"loadMemory"`
	PeakCpus   int64    `json:"peakCpus"`
	PeakMemory int64    `json:"peakMemory"`
	PeakTasks  int64    `json:"peakTasks"`
	CPUTime    int64    `json:"cpuTime"`
	CPULoad    int64    `json:"cpuLoad"`
	MemoryRss  int64    `json:"memoryRss"`
	ReadBytes  int64    `json:"readBytes"`
	WriteBytes int64    `json:"writeBytes"`
	Executors  []string `json:"executors,omitempty"`
	Cost       *float64 `json:"cost,omitempty"`
}

// ProcessLoad is the per-process breakdown of WorkflowLoad.
type ProcessLoad struct {
	Process   string `json:"process"`
	Pending   int64  `json:"pending"`
	Submitted int64  `json:"submitted"`
	Running   int64  `json:"running"`
	Succeeded int64  `json:"succeeded"`
	Failed    int64  `json:"failed"`
	Cached    int64  `json:"cached"`
}

// Progress wraps workflow and process level load.
type Progress struct {
	WorkflowProgress  *WorkflowLoad `json:"workflowProgress,omitempty"`
	ProcessesProgress []ProcessLoad `json:"processesProgress,omitempty"`
}

// ResourceData is a five-number summary of one resource metric.
type ResourceData struct {
	Mean     float64 `json:"mean"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Q2       float64 `json:"q2"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
	MinLabel string  `json:"minLabel,omitempty"`
	MaxLabel string  `json:"maxLabel,omitempty"`
}

// WorkflowMetrics holds the resource usage summary of one process.
type WorkflowMetrics struct {
	ID        int64         `json:"id,omitempty"`
	Process   string        `json:"process"`
	CPU       *ResourceData `json:"cpu,omitempty"`
	Mem       *ResourceData `json:"mem,omitempty"`
	Vmem      *ResourceData `json:"vmem,omitempty"`
	Time      *ResourceData `json:"time,omitempty"`
	Reads     *ResourceData `json:"reads,omitempty"`
	Writes    *ResourceData `json:"writes,omitempty"`
	CPUUsage  *ResourceData `json:"cpuUsage,omitempty"`
	MemUsage  *ResourceData `json:"memUsage,omitempty"`
	TimeUsage *ResourceData `json:"timeUsage,omitempty"`
}

// Participant is a member or team entry of a workspace.
type Participant struct {
	ParticipantID int64  `json:"participantId"`
	MemberID      int64  `json:"memberId,omitempty"`
	UserName      string `json:"userName,omitempty"`
	FirstName     string `json:"firstName,omitempty"`
	LastName      string `json:"lastName,omitempty"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"wspRole,omitempty"`
	Type          string `json:"type,omitempty"`
}

// Task is a single process execution within a workflow.
type Task struct {
	ID         int64      `json:"id"`
	TaskID     int64      `json:"taskId"`
	Hash       string     `json:"hash,omitempty"`
	Name       string     `json:"name,omitempty"`
	Process    string     `json:"process,omitempty"`
	Tag        string     `json:"tag,omitempty"`
	Status     TaskStatus `json:"status"`
	Submit     *time.Time `json:"submit,omitempty"`
	Start      *time.Time `json:"start,omitempty"`
	Complete   *time.Time `json:"complete,omitempty"`
	Module     []string   `json:"module,omitempty"`
	Container  string     `json:"container,omitempty"`
	Attempt    int        `json:"attempt,omitempty"`
	Script     string     `json:"script,omitempty"`
	Workdir    string     `json:"workdir,omitempty"`
	ExitStatus *int       `json:"exitStatus,omitempty"`
	Cpus       int        `json:"cpus,omitempty"`
	Memory     int64      `json:"memory,omitempty"`
	Duration   int64      `json:"duration,omitempty"`
	Realtime   int64      `json:"realtime,omitempty"`
	Executor   string     `json:"executor,omitempty"`
	Queue      string     `json:"queue,omitempty"`
	Machine    string     `json:"machineType,omitempty"`
	Cost       *float64   `json:"cost,omitempty"`
}

// Failed reports whether the task ended in the FAILED state.
func (t Task) Failed() bool {
	return t.Status == TaskStatusFailed
}

type describeServiceResponse struct {
	ServiceInfo *ServiceInfo `json:"serviceInfo"`
}

type describeLaunchResponse struct {
	Launch *Launch `json:"launch"`
}

type progressResponse struct {
	Progress *Progress `json:"progress"`
}

type metricsResponse struct {
	Metrics []WorkflowMetrics `json:"metrics"`
}

type participantsResponse struct {
	Participants []Participant `json:"participants"`
	TotalSize    int64         `json:"totalSize"`
}

type taskEnvelope struct {
	Task Task `json:"task"`
}

type listTasksResponse struct {
	Tasks []taskEnvelope `json:"tasks"`
	Total int64          `json:"total"`
}

type errorResponse struct {
	Message string `json:"message"`
}
