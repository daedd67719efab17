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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want outcome
	}{
		{"nil", nil, available},
		{"not found", apperrors.New(apperrors.ErrCodeNotFound, "gone"), notAvailable},
		{"bad request", apperrors.New(apperrors.ErrCodeInvalidRequest, "no such file"), notAvailable},
		{"wrapped not found", apperrors.Wrap(apperrors.ErrCodeInternal, "outer", apperrors.New(apperrors.ErrCodeNotFound, "gone")), notAvailable},
		{"std wrapped", fmt.Errorf("ctx: %w", apperrors.New(apperrors.ErrCodeNotFound, "gone")), notAvailable},
		{"unauthorized", apperrors.New(apperrors.ErrCodeUnauthorized, "denied"), failed},
		{"internal", apperrors.New(apperrors.ErrCodeInternal, "boom"), failed},
		{"canceled", apperrors.Wrap(apperrors.ErrCodeCanceled, "stop", context.Canceled), failed},
		{"plain", errors.New("boom"), failed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}
}

func TestTaskEntryName(t *testing.T) {
	assert.Equal(t, "tasks/42/.command.err", TaskEntryName(42, TaskLogErr))
	assert.Equal(t, "tasks/1/.fusion.log", TaskEntryName(1, TaskLogFusion))
}

func TestIsNil(t *testing.T) {
	var p *int
	var s []int
	var m map[string]int
	assert.True(t, isNil(nil))
	assert.True(t, isNil(p))
	assert.True(t, isNil(s))
	assert.True(t, isNil(m))
	assert.False(t, isNil([]int{}))
	assert.False(t, isNil(0))
	assert.False(t, isNil(""))
}
