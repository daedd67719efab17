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

// Package defaults provides centralized configuration constants for wfctl.
//
// This package defines timeout values, paging parameters, and other
// configuration defaults used across the codebase.
//
// # Categories
//
//   - HTTP client timeouts: for calls to the platform API
//   - Paging: task listing page size
//   - Archive: bounded drain wait when closing a bundle
//   - CLI: whole-command deadlines
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CLIDumpTimeout)
//	defer cancel()
package defaults
