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
	"iter"

	"github.com/NVIDIA/wfctl/pkg/api"
	"github.com/NVIDIA/wfctl/pkg/defaults"
)

// PageSize is the number of tasks requested per page.
const PageSize = defaults.TaskPageSize

// TaskLister retrieves one page of the tasks of a workflow.
type TaskLister interface {
	ListTasks(ctx context.Context, workflowID string, ws api.Workspace, offset, limit int) ([]api.Task, error)
}

// Tasks iterates over all tasks of a workflow in platform order. Pages are
// fetched lazily starting at offset 0; iteration ends after a page shorter
// than PageSize. A page error is yielded once and stops the iteration.
func Tasks(ctx context.Context, lister TaskLister, workflowID string, ws api.Workspace) iter.Seq2[api.Task, error] {
	return func(yield func(api.Task, error) bool) {
		for offset := 0; ; offset += PageSize {
			page, err := lister.ListTasks(ctx, workflowID, ws, offset, PageSize)
			if err != nil {
				yield(api.Task{}, wrap(err, "failed to list tasks"))
				return
			}
			for _, t := range page {
				if !yield(t, nil) {
					return
				}
			}
			if len(page) < PageSize {
				return
			}
		}
	}
}

// ListAll collects every task of the workflow in fetch order.
func ListAll(ctx context.Context, lister TaskLister, workflowID string, ws api.Workspace) ([]api.Task, error) {
	tasks := make([]api.Task, 0, PageSize)
	for t, err := range Tasks(ctx, lister, workflowID, ws) {
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
