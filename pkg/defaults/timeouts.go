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

package defaults

import "time"

// HTTP client timeouts for outbound requests to the platform API.
const (
	// HTTPClientTimeout is the default total timeout for JSON API requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPDownloadTimeout is the total timeout for log downloads, which
	// may stream large files.
	HTTPDownloadTimeout = 10 * time.Minute

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 20 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second

	// HTTPExpectContinueTimeout is the timeout for Expect: 100-continue.
	HTTPExpectContinueTimeout = 1 * time.Second
)

// API client request shaping.
const (
	// APIRateLimit is the default number of requests per second issued
	// against the platform.
	APIRateLimit = 20

	// APIRateLimitBurst is the default burst for the request limiter.
	APIRateLimitBurst = 5
)

// Paging parameters.
const (
	// TaskPageSize is the number of tasks requested per page.
	TaskPageSize = 100
)

// Archive timeouts.
const (
	// ArchiveCloseTimeout bounds how long closing a bundle waits for the
	// archive worker to drain its queue.
	ArchiveCloseTimeout = 5 * time.Minute

	// ArchiveQueueSize is the buffered capacity of the archive job channel.
	ArchiveQueueSize = 64
)

// CLI timeouts for command-line operations.
const (
	// CLIDumpTimeout is the default deadline for a complete dump.
	CLIDumpTimeout = 2 * time.Hour
)
