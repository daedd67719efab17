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

// Package oci publishes diagnostic bundles to OCI registries.
//
// A bundle archive is pushed as an OCI 1.1 artifact with a single layer
// holding the archive file unchanged. The layer media type reflects the
// archive compression and the file name is kept in the layer title
// annotation, so "oras pull" restores the original file.
//
// # Usage
//
//	ref, err := oci.ParseReference("oci://ghcr.io/acme/diagnostics:run-4Bi5")
//	if err != nil {
//	    return err
//	}
//	res, err := oci.PushFile(ctx, oci.PushOptions{
//	    FilePath:  "run.tar.gz",
//	    Reference: ref,
//	})
//
// # Authentication
//
// Credentials are loaded from the standard Docker configuration
// (~/.docker/config.json) through the ORAS credentials package.
//
// # Artifact Type
//
// Artifacts are pushed with the artifact type
// "application/vnd.wfctl.bundle.v1". Consumers that do not understand this
// type should treat the artifact as a non-executable blob.
package oci
