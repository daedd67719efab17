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

// Package cli implements the wfctl command-line interface.
//
// # Commands
//
// runs dump - Export a workflow run into a diagnostic bundle:
//
//	wfctl runs dump --id 4Bi5 --output run.tar.gz [--add-task-logs] [--only-failed]
//
// Collects the run metadata, load, metrics, engine log and optionally the
// per-task logs into a gzip or xz compressed tar archive. The compression
// follows the output suffix (.tar.gz or .tar.xz). With --push the finished
// bundle is also published as an OCI artifact.
//
// runs tasks - List the tasks of a workflow run:
//
//	wfctl runs tasks --id 4Bi5 [--only-failed] [--format table]
//
// info - Show the platform version and the resolved connection settings:
//
//	wfctl info [--format json]
//
// # Global Flags
//
//	--url           Platform API endpoint (env WFCTL_URL)
//	--access-token  Bearer token (env WFCTL_ACCESS_TOKEN)
//	--workspace     Workspace as ORG_ID/WORKSPACE_ID or WORKSPACE_ID (env WFCTL_WORKSPACE)
//	--config        Profile file (default $HOME/.wfctl.yaml)
//	--log-level     debug, info, warn or error (env LOG_LEVEL)
//	--rate-limit    Maximum API requests per second, 0 disables limiting
//	--insecure      Skip TLS certificate verification
//
// Flags override environment variables, which override the profile file.
//
// # Exit Status
//
// Commands exit with status 1 and print the error on failure. Interrupting
// a dump (SIGINT or SIGTERM) aborts it and closes the archive.
package cli
