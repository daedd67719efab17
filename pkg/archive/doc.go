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

// Package archive writes compressed tar bundles from a single worker goroutine.
//
// A Writer owns the whole output stream: the file, a buffered writer, the
// compressor (gzip or xz) and the tar writer. Callers never touch the stream
// directly. Instead they enqueue jobs which the worker writes strictly in
// submission order, so entries are never interleaved.
//
// The compression is selected from the output path suffix only:
//
//	.tar.gz  gzip
//	.tar.xz  xz
//
// Any other suffix is rejected by Open before a file is created.
//
// Usage:
//
//	w, err := archive.Open("run.tar.gz")
//	if err != nil {
//	    return err
//	}
//	_ = w.SubmitEntry("service-info.json", data)
//	_ = w.SubmitFile("nextflow.log", tmpPath, true)
//	if err := w.Close(5 * time.Minute); err != nil {
//	    return err
//	}
//	for _, e := range w.Entries() {
//	    fmt.Println(e.Name, e.Size, e.SHA256)
//	}
//
// The first write failure stops further writes. Jobs still queued are
// discarded (temporary payload files are removed) and the failure is
// returned from Close.
package archive
