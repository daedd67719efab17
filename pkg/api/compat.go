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
	"fmt"

	apperrors "github.com/NVIDIA/wfctl/pkg/errors"
	"github.com/NVIDIA/wfctl/pkg/version"
)

// MinAPIVersion is the oldest platform API version whose workflow, task
// and download endpoints match what this client sends.
const MinAPIVersion = "1.6.0"

// CheckCompatibility compares the API version reported by the service with
// MinAPIVersion. An unreported version is accepted.
func CheckCompatibility(info *ServiceInfo) error {
	if info == nil || info.APIVersion == "" {
		return nil
	}

	got, err := version.Parse(info.APIVersion)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unrecognized platform API version %q", info.APIVersion), err)
	}

	floor := version.MustParse(MinAPIVersion)
	if !got.AtLeast(floor) {
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("platform API version %s is older than the minimum supported %s", got, floor),
			map[string]any{"apiVersion": info.APIVersion, "minimum": MinAPIVersion})
	}
	return nil
}
