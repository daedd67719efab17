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

// Package dump exports a workflow run into a diagnostic bundle.
//
// A bundle is a compressed tar archive holding the run metadata, its load
// and resource metrics, the engine log and optionally the per-task logs.
// Collection is strictly sequential and every artifact is handed to an
// archive.Writer, which writes entries in submission order:
//
//	service-info.json
//	workflow.json
//	workflow-metadata.json
//	workflow-load.json
//	workflow-launch.json     (only when the run has a launch)
//	workflow-metrics.json
//	nextflow.log             (when available)
//	workflow-tasks.json
//	tasks/<taskId>/.command.out|.command.err|.command.log|.fusion.log
//
// Service info, the workflow, its load and its metrics are mandatory; any
// failure retrieving them aborts the export. The launch, the submitter
// email, the engine log and the task logs are best effort: a not found or
// bad request answer from the platform simply leaves the entry out, while
// any other failure is still fatal.
//
// Usage:
//
//	d := dump.New(client, dump.WithCloseTimeout(5*time.Minute))
//	res, err := d.Export(ctx, dump.Request{
//	    WorkflowID:      "4Bi5",
//	    OutputPath:      "run.tar.gz",
//	    IncludeTaskLogs: true,
//	    OnlyFailedTasks: true,
//	})
//
// The export walks the stages Validating, CollectingWorkflowInfo,
// ListingTasks, CollectingTaskLogs (skipped unless a task log kind was
// requested), Draining and Closed. The archive is always closed, also when
// a stage fails. The partially written file is kept unless the Dumper was
// created with WithRemovePartial(true).
package dump
