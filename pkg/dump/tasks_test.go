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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/wfctl/pkg/api"
	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
)

func TestListAll_PageCount(t *testing.T) {
	tests := []struct {
		tasks     int
		wantPages int
	}{
		{tasks: 0, wantPages: 1},
		{tasks: 1, wantPages: 1},
		{tasks: 99, wantPages: 1},
		{tasks: 100, wantPages: 2},
		{tasks: 101, wantPages: 2},
		{tasks: 250, wantPages: 3},
		{tasks: 300, wantPages: 4},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d tasks", tt.tasks), func(t *testing.T) {
			f := newFakePlatform(t)
			f.tasks = makeTasks(tt.tasks)

			got, err := ListAll(context.Background(), f, "wf1", api.Workspace{})
			require.NoError(t, err)

			// ceil((N+1)/P)
			assert.Equal(t, (tt.tasks+PageSize)/PageSize, tt.wantPages)
			assert.Equal(t, tt.wantPages, f.callCount("list-tasks"))
			require.Len(t, got, tt.tasks)
			for i, task := range got {
				assert.Equal(t, int64(i+1), task.TaskID, "fetch order")
			}
		})
	}
}

func TestListAll_Offsets(t *testing.T) {
	f := newFakePlatform(t)
	f.tasks = makeTasks(150)

	_, err := ListAll(context.Background(), f, "wf1", api.Workspace{})
	require.NoError(t, err)
	assert.Equal(t, []string{"list-tasks wf1 0 100", "list-tasks wf1 100 100"}, f.calls)
}

func TestListAll_PageError(t *testing.T) {
	f := newFakePlatform(t)
	f.tasksErr = apperrors.New(apperrors.ErrCodeUnavailable, "maintenance")

	got, err := ListAll(context.Background(), f, "wf1", api.Workspace{})
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.CodeOf(err))
}

func TestTasks_StopsEarly(t *testing.T) {
	f := newFakePlatform(t)
	f.tasks = makeTasks(350)

	n := 0
	for task, err := range Tasks(context.Background(), f, "wf1", api.Workspace{}) {
		require.NoError(t, err)
		n++
		if task.TaskID == 120 {
			break
		}
	}
	assert.Equal(t, 120, n)
	assert.Equal(t, 2, f.callCount("list-tasks"), "no page is fetched past the break")
}
