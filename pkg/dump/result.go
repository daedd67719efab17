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
	"fmt"
	"time"

	"github.com/NVIDIA/wfctl/pkg/archive"
)

// Result summarizes a completed export.
type Result struct {
	// ExportID correlates the bundle with the log lines of the export.
	ExportID string `json:"export_id" yaml:"export_id"`

	// WorkflowID is the exported workflow.
	WorkflowID string `json:"workflow_id" yaml:"workflow_id"`

	// OutputPath is the bundle file.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Compression is the codec derived from the output suffix.
	Compression archive.Compression `json:"compression" yaml:"compression"`

	// Tasks is the number of tasks listed.
	Tasks int `json:"tasks" yaml:"tasks"`

	// TaskLogs is the number of task log files added.
	TaskLogs int `json:"task_logs" yaml:"task_logs"`

	// TotalSize is the uncompressed size of all entries.
	TotalSize int64 `json:"total_size_bytes" yaml:"total_size_bytes"`

	// Duration is the wall time of the export.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Entries lists the written entries with their checksums.
	Entries []archive.Entry `json:"entries" yaml:"entries"`
}

// EntryNames returns the entry names in archive order.
func (r *Result) EntryNames() []string {
	names := make([]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		names = append(names, e.Name)
	}
	return names
}

// Summary returns a human-readable summary of the export.
func (r *Result) Summary() string {
	return fmt.Sprintf("Wrote %d entries (%s) for %d tasks to %s in %v.",
		len(r.Entries),
		formatBytes(r.TotalSize),
		r.Tasks,
		r.OutputPath,
		r.Duration.Round(time.Millisecond),
	)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
