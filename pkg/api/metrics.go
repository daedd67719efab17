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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wfctl_api_requests_total",
			Help: "Total number of platform API requests",
		},
		[]string{"operation", "code"}, // code is the HTTP status or "error"
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wfctl_api_request_duration_seconds",
			Help:    "Time taken by platform API requests, including body transfer",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 30, 120},
		},
		[]string{"operation"},
	)

	apiDownloadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wfctl_api_download_bytes_total",
			Help: "Total bytes downloaded from log endpoints",
		},
	)
)
